// Package cache stores computed progress snapshots keyed by project and edition.
package cache

import (
	"context"
	"strconv"

	"github.com/translation-progress-api/internal/models"
)

// ProgressCache holds progress snapshots. A miss is reported with ok=false
// and a nil error; errors are reserved for backend failures.
type ProgressCache interface {
	Get(ctx context.Context, projectID, editionID string) (snap models.ProgressSnapshot, ok bool, err error)
	Set(ctx context.Context, projectID, editionID string, snap models.ProgressSnapshot) error
	Delete(ctx context.Context, projectID, editionID string) error
}

// Key builds the cache key for a project and edition. The project id is
// length-prefixed so ids containing ':' cannot collide.
func Key(prefix, projectID, editionID string) string {
	return prefix + ":snapshot:" + strconv.Itoa(len(projectID)) + ":" + projectID + ":" + editionID
}

// Nop is a ProgressCache that never stores anything
type Nop struct{}

func (Nop) Get(context.Context, string, string) (models.ProgressSnapshot, bool, error) {
	return models.ProgressSnapshot{}, false, nil
}
func (Nop) Set(context.Context, string, string, models.ProgressSnapshot) error { return nil }
func (Nop) Delete(context.Context, string, string) error                      { return nil }
