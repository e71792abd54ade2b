// setup
//
// This script creates a local SQLite fact store for development.
//
// Usage:
//   go run ./scripts/setup -path progress.db -seed fixtures.sql
//
// The schema is applied idempotently. The optional seed file is executed as a
// single batch of SQL statements. Point the API at the result with:
//   FACT_STORE_DRIVER=sqlite
//   SQLITE_PATH=progress.db

package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/translation-progress-api/pkg/schema/db"
)

func main() {
	godotenv.Load()

	path := flag.String("path", os.Getenv("SQLITE_PATH"), "SQLite database file (default: SQLITE_PATH)")
	seedFile := flag.String("seed", "", "Optional SQL file with fact rows to insert")
	flag.Parse()

	if *path == "" {
		log.Fatal("-path or SQLITE_PATH is required")
	}

	ctx := context.Background()

	conn, err := db.OpenSQLite(ctx, *path)
	if err != nil {
		log.Fatalf("Failed to open fact store: %v", err)
	}
	defer conn.Close()

	if err := db.ApplySQLiteSchema(ctx, conn); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}
	log.Printf("Schema ready in %s", *path)

	if *seedFile == "" {
		return
	}

	seed, err := os.ReadFile(*seedFile)
	if err != nil {
		log.Fatalf("Failed to read seed file: %v", err)
	}

	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	if _, err := tx.ExecContext(ctx, string(seed)); err != nil {
		tx.Rollback()
		log.Fatalf("Failed to load seed file: %v", err)
	}
	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit seed data: %v", err)
	}

	counts := map[string]int{}
	for _, table := range []string{"editions", "chapters", "projects", "media_files", "verse_texts"} {
		var n int
		if err := conn.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table); err != nil {
			log.Fatalf("Failed to count %s: %v", table, err)
		}
		counts[table] = n
	}
	log.Printf("Seeded %s: %v", *seedFile, counts)
}
