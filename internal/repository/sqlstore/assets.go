package sqlstore

import (
	"context"
	"fmt"

	"github.com/translation-progress-api/internal/models"
)

// RecentAudioAssets returns up to limit live audio assets of a project,
// most recently updated first
func (s *Store) RecentAudioAssets(ctx context.Context, projectID string, limit int) ([]models.AudioAssetRecord, error) {
	query := fmt.Sprintf(`
		SELECT id, remote_path, check_status,
		       %s AS created_at,
		       %s AS updated_at
		FROM media_files
		WHERE project_id = ?
		  AND media_type = 'audio'
		  AND deleted_at IS NULL
		ORDER BY COALESCE(media_files.updated_at, media_files.created_at) DESC NULLS LAST
		LIMIT ?
	`, s.timestampText("created_at"), s.timestampText("updated_at"))

	records := []models.AudioAssetRecord{}
	if err := s.db.SelectContext(ctx, &records, s.db.Rebind(query), projectID, limit); err != nil {
		return nil, fmt.Errorf("select recent audio assets: %w", err)
	}
	return records, nil
}
