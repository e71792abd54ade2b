package services

import (
	"context"
	"fmt"

	"github.com/translation-progress-api/internal/cache"
	"github.com/translation-progress-api/internal/logger"
	"github.com/translation-progress-api/internal/models"
)

// ProgressService computes progress snapshots and caches them per project and
// edition. Snapshots are recomputed in full on a miss; nothing is updated
// incrementally.
type ProgressService struct {
	resolver *CoverageResolver
	cache    cache.ProgressCache
	log      *logger.Logger
}

// NewProgressService creates a progress service. A nil cache disables caching.
func NewProgressService(resolver *CoverageResolver, c cache.ProgressCache, log *logger.Logger) *ProgressService {
	if c == nil {
		c = cache.Nop{}
	}
	return &ProgressService{
		resolver: resolver,
		cache:    c,
		log:      log.With("service", "ProgressService"),
	}
}

// GetProgress returns audio and text progress of projectID against editionID.
// Either id being empty yields an all-zero snapshot without any store access.
// Structural failures are returned as *StructuralError.
func (s *ProgressService) GetProgress(ctx context.Context, projectID, editionID string) (models.ProgressSnapshot, error) {
	if projectID == "" || editionID == "" {
		return Aggregate(nil, nil, nil), nil
	}

	snap, ok, err := s.cache.Get(ctx, projectID, editionID)
	if err != nil {
		s.log.Warn("progress cache read failed", "project_id", projectID, "edition_id", editionID, "error", err)
	} else if ok {
		return snap, nil
	}

	cov, err := s.resolver.Resolve(ctx, projectID, editionID)
	if err != nil {
		return models.ProgressSnapshot{}, err
	}
	snap = AggregateCoverage(cov)

	// A degraded result undercounts; serve it but let the next read retry.
	if len(cov.Degraded) > 0 {
		return snap, nil
	}
	if err := s.cache.Set(ctx, projectID, editionID, snap); err != nil {
		s.log.Warn("progress cache write failed", "project_id", projectID, "edition_id", editionID, "error", err)
	}
	return snap, nil
}

// Invalidate drops the cached snapshot so the next read recomputes it
func (s *ProgressService) Invalidate(ctx context.Context, projectID, editionID string) error {
	if err := s.cache.Delete(ctx, projectID, editionID); err != nil {
		return fmt.Errorf("invalidate progress: %w", err)
	}
	return nil
}
