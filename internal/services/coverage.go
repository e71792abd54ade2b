package services

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/translation-progress-api/internal/logger"
	"github.com/translation-progress-api/internal/models"
	"github.com/translation-progress-api/internal/repository"
)

const tracerName = "github.com/translation-progress-api/internal/services"

// CoverageResolver determines which chapters of an edition exist and which of
// them a project has covered with audio and with text.
//
// Book and chapter lookups are structural: when they fail Resolve returns a
// *StructuralError. Audio and text lookups degrade instead; a failure is
// logged and that axis resolves to no coverage.
type CoverageResolver struct {
	structure repository.StructureRepository
	coverage  repository.CoverageRepository
	log       *logger.Logger
	tracer    trace.Tracer
}

// NewCoverageResolver creates a resolver over the given fact store reads
func NewCoverageResolver(
	structure repository.StructureRepository,
	coverage repository.CoverageRepository,
	log *logger.Logger,
) *CoverageResolver {
	return &CoverageResolver{
		structure: structure,
		coverage:  coverage,
		log:       log.With("service", "CoverageResolver"),
		tracer:    otel.Tracer(tracerName),
	}
}

// Resolve returns the chapter sets of editionID and the subsets covered by
// projectID. Empty ids short-circuit to empty sets without touching the store.
//
// The lookups run in two concurrent stages. The first fetches the edition's
// books, the project's audio verse references and its target language. The
// second uses the book ids to fetch total chapters, map audio verses to
// chapters and collect text-covered chapters.
func (r *CoverageResolver) Resolve(ctx context.Context, projectID, editionID string) (models.ChapterCoverage, error) {
	if projectID == "" || editionID == "" {
		return models.EmptyChapterCoverage(), nil
	}

	ctx, span := r.tracer.Start(ctx, "CoverageResolver.Resolve", trace.WithAttributes(
		attribute.String("project_id", projectID),
		attribute.String("edition_id", editionID),
	))
	defer span.End()

	res := resolution{projectID: projectID, editionID: editionID}

	var (
		bookIDs   []string
		audioRefs []models.AudioVerseRef
		language  string
	)
	stage1, s1ctx := errgroup.WithContext(ctx)
	stage1.Go(func() error {
		ids, err := traced(s1ctx, r.tracer, FetchBooks, func(ctx context.Context) ([]string, error) {
			return r.structure.BookIDsByEdition(ctx, editionID)
		})
		if err != nil {
			return res.structural(FetchBooks, err)
		}
		bookIDs = ids
		return nil
	})
	stage1.Go(func() error {
		refs, err := traced(s1ctx, r.tracer, FetchAudioSegments, func(ctx context.Context) ([]models.AudioVerseRef, error) {
			return r.coverage.AudioVerseRefsByProject(ctx, projectID)
		})
		if err != nil {
			r.degrade(s1ctx, &res, FetchAudioSegments, err)
			return nil
		}
		audioRefs = refs
		return nil
	})
	stage1.Go(func() error {
		lang, err := traced(s1ctx, r.tracer, FetchTargetLanguage, func(ctx context.Context) (string, error) {
			return r.coverage.TargetLanguage(ctx, projectID)
		})
		if err != nil {
			r.degrade(s1ctx, &res, FetchTargetLanguage, err)
			return nil
		}
		language = lang
		return nil
	})
	if err := stage1.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return models.EmptyChapterCoverage(), err
	}

	// An edition without books has no chapters; that is 0%, not an error.
	if len(bookIDs) == 0 {
		return models.EmptyChapterCoverage(), nil
	}

	cov := models.EmptyChapterCoverage()
	verseIDs := AudioVerseIDs(audioRefs)

	stage2, s2ctx := errgroup.WithContext(ctx)
	stage2.Go(func() error {
		ids, err := traced(s2ctx, r.tracer, FetchChapters, func(ctx context.Context) ([]string, error) {
			return r.structure.ChapterIDsByBooks(ctx, bookIDs)
		})
		if err != nil {
			return res.structural(FetchChapters, err)
		}
		cov.Total = models.NewChapterSet(ids...)
		return nil
	})
	if len(verseIDs) > 0 {
		stage2.Go(func() error {
			ids, err := traced(s2ctx, r.tracer, FetchAudioChapters, func(ctx context.Context) ([]string, error) {
				return r.coverage.ChapterIDsForVerses(ctx, verseIDs, bookIDs)
			})
			if err != nil {
				r.degrade(s2ctx, &res, FetchAudioChapters, err)
				return nil
			}
			cov.AudioCovered = models.NewChapterSet(ids...)
			return nil
		})
	}
	if language != "" {
		stage2.Go(func() error {
			ids, err := traced(s2ctx, r.tracer, FetchTextCoverage, func(ctx context.Context) ([]string, error) {
				return r.coverage.TextCoveredChapterIDs(ctx, language, bookIDs)
			})
			if err != nil {
				r.degrade(s2ctx, &res, FetchTextCoverage, err)
				return nil
			}
			cov.TextCovered = models.NewChapterSet(ids...)
			return nil
		})
	}
	if err := stage2.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return models.EmptyChapterCoverage(), err
	}

	cov.Degraded = res.degradedFetches()
	span.SetAttributes(
		attribute.Int("chapters.total", cov.Total.Len()),
		attribute.Int("chapters.audio", cov.AudioCovered.Len()),
		attribute.Int("chapters.text", cov.TextCovered.Len()),
	)
	return cov, nil
}

// degrade records a failed coverage fetch. Failures caused by a sibling
// structural error cancelling the stage are not logged.
func (r *CoverageResolver) degrade(ctx context.Context, res *resolution, fetch string, err error) {
	res.markDegraded(fetch)
	if ctx.Err() != nil {
		return
	}
	r.log.Warn("coverage fetch failed, treating as no coverage",
		"fetch", fetch,
		"project_id", res.projectID,
		"edition_id", res.editionID,
		"error", err,
	)
}

// AudioVerseIDs collects the distinct verse ids referenced by either endpoint
// of the segments that have a start verse. A segment spanning chapters covers
// only the chapters its endpoints fall in, not the ones in between.
func AudioVerseIDs(refs []models.AudioVerseRef) []string {
	seen := make(map[string]struct{}, len(refs)*2)
	ids := make([]string, 0, len(refs)*2)
	add := func(id *string) {
		if id == nil || *id == "" {
			return
		}
		if _, ok := seen[*id]; ok {
			return
		}
		seen[*id] = struct{}{}
		ids = append(ids, *id)
	}
	for _, ref := range refs {
		if ref.StartVerseID == nil {
			continue
		}
		add(ref.StartVerseID)
		add(ref.EndVerseID)
	}
	return ids
}

// traced runs fn inside a child span named after the fetch
func traced[T any](ctx context.Context, tracer trace.Tracer, fetch string, fn func(context.Context) (T, error)) (T, error) {
	ctx, span := tracer.Start(ctx, "factstore."+fetch)
	defer span.End()

	v, err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return v, err
}
