// export
//
// This script writes a progress report for one or more projects to a JSONL
// file, one line per project and edition.
//
// Usage:
//   go run ./scripts/export -projects p1,p2 -output progress.jsonl
//   go run ./scripts/export -projects p1 -edition ed-1
//
// Without -edition every edition in the fact store is reported. The fact
// store connection uses the same FACT_STORE_DRIVER / POSTGRES_URI /
// SQLITE_PATH settings as the API.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/translation-progress-api/internal/logger"
	"github.com/translation-progress-api/internal/models"
	"github.com/translation-progress-api/internal/repository/sqlstore"
	"github.com/translation-progress-api/internal/services"
	"github.com/translation-progress-api/pkg/schema/db"
)

// ReportLine is one project/edition progress record
type ReportLine struct {
	ProjectID   string                  `json:"project_id"`
	EditionID   string                  `json:"edition_id"`
	EditionName string                  `json:"edition_name"`
	Progress    models.ProgressSnapshot `json:"progress"`
	Degraded    []string                `json:"degraded,omitempty"`
	Error       string                  `json:"error,omitempty"`
}

func main() {
	outputFile := flag.String("output", "progress.jsonl", "Output JSONL file path")
	projects := flag.String("projects", "", "Comma separated project ids (required)")
	editionID := flag.String("edition", "", "Only report this edition")
	flag.Parse()

	// Load environment variables
	godotenv.Load()

	projectIDs := splitIDs(*projects)
	if len(projectIDs) == 0 {
		log.Fatal("-projects is required")
	}

	ctx := context.Background()

	if err := db.InitFactStore(ctx); err != nil {
		log.Fatalf("Failed to initialize fact store: %v", err)
	}
	defer db.Close()

	store := sqlstore.NewStore(db.GetDB())
	resolver := services.NewCoverageResolver(store, store, logger.NewNop())

	editions, err := store.ListEditions(ctx)
	if err != nil {
		log.Fatalf("Failed to list editions: %v", err)
	}
	if *editionID != "" {
		editions = filterEditions(editions, *editionID)
		if len(editions) == 0 {
			log.Fatalf("Edition %s not found", *editionID)
		}
	}

	f, err := os.Create(*outputFile)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}
	defer f.Close()

	log.Printf("Exporting progress for %d projects x %d editions to %s...", len(projectIDs), len(editions), *outputFile)

	encoder := json.NewEncoder(f)
	count, failed := 0, 0

	for _, projectID := range projectIDs {
		for _, edition := range editions {
			line := ReportLine{
				ProjectID:   projectID,
				EditionID:   edition.ID,
				EditionName: edition.Name,
			}

			cov, err := resolver.Resolve(ctx, projectID, edition.ID)
			switch {
			case errors.Is(err, services.ErrStructural):
				line.Error = err.Error()
				failed++
			case err != nil:
				log.Fatalf("Failed to resolve %s/%s: %v", projectID, edition.ID, err)
			default:
				line.Progress = services.AggregateCoverage(cov)
				line.Degraded = cov.Degraded
			}

			if err := encoder.Encode(line); err != nil {
				log.Fatalf("Failed to encode report line: %v", err)
			}
			count++
		}
		log.Printf("  %s: %d editions", projectID, len(editions))
	}

	log.Printf("Exported %d lines to %s (%d failed)", count, *outputFile, failed)
}

func splitIDs(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func filterEditions(editions []models.Edition, id string) []models.Edition {
	for _, e := range editions {
		if e.ID == id {
			return []models.Edition{e}
		}
	}
	return nil
}
