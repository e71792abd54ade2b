package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/translation-progress-api/internal/models"
	"github.com/translation-progress-api/internal/repository"
)

// DefaultActivityLimit is the feed size used when no limit is given
const DefaultActivityLimit = 10

const (
	fallbackReference = "Audio File"
	fallbackStatus    = "pending"
)

// timestampLayouts are tried in order when parsing stored timestamps.
// Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999",
}

// ActivityService builds the recent activity feed of a project
type ActivityService struct {
	assets       repository.AssetRepository
	defaultLimit int
	now          func() time.Time
}

// NewActivityService creates an activity service. A non-positive
// defaultLimit falls back to DefaultActivityLimit.
func NewActivityService(assets repository.AssetRepository, defaultLimit int) *ActivityService {
	if defaultLimit <= 0 {
		defaultLimit = DefaultActivityLimit
	}
	return &ActivityService{
		assets:       assets,
		defaultLimit: defaultLimit,
		now:          time.Now,
	}
}

// RecentActivity returns up to limit of the project's most recently changed
// audio assets as feed entries, newest first
func (s *ActivityService) RecentActivity(ctx context.Context, projectID string, limit int) ([]models.ActivityEntry, error) {
	if projectID == "" {
		return []models.ActivityEntry{}, nil
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}

	records, err := s.assets.RecentAudioAssets(ctx, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch recent audio assets: %w", err)
	}
	return RankActivity(records, limit, s.now()), nil
}

// RankActivity converts raw audio asset records into feed entries, sorts them
// newest first and keeps the first limit. Records with equal timestamps keep
// their input order. Sorting happens before truncation so a recent record
// late in the input is never dropped.
func RankActivity(records []models.AudioAssetRecord, limit int, now time.Time) []models.ActivityEntry {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}

	entries := make([]models.ActivityEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, models.ActivityEntry{
			ID:        "audio-" + rec.ID,
			Kind:      models.ActivityAudio,
			Reference: ResolveReference(rec.RemotePath),
			Status:    ResolveStatus(rec.CheckStatus),
			Timestamp: ResolveTimestamp(rec.UpdatedAt, rec.CreatedAt, now),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// ResolveReference derives a display label from a storage path: the last
// path segment without its extension, or "Audio File" when that is empty
func ResolveReference(path *string) string {
	if path == nil {
		return fallbackReference
	}
	name := *path
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, "."); i >= 0 && i < len(name)-1 {
		name = name[:i]
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fallbackReference
	}
	return name
}

// ResolveStatus returns the asset's check status, or "pending" when unset
func ResolveStatus(status *string) string {
	if status == nil || strings.TrimSpace(*status) == "" {
		return fallbackStatus
	}
	return *status
}

// ResolveTimestamp uses updatedAt when present, else createdAt, else now.
// A present value that does not parse also resolves to now; it never falls
// through to the older tier.
func ResolveTimestamp(updatedAt, createdAt *string, now time.Time) time.Time {
	value := updatedAt
	if isBlank(value) {
		value = createdAt
	}
	if isBlank(value) {
		return now
	}
	if t, ok := parseTimestamp(*value); ok {
		return t
	}
	return now
}

func isBlank(value *string) bool {
	return value == nil || strings.TrimSpace(*value) == ""
}

func parseTimestamp(value string) (time.Time, bool) {
	s := strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
