package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/translation-progress-api/internal/models"
	"github.com/translation-progress-api/internal/repository"
)

// AudioVerseRefsByProject returns start and end verses of the project's live
// audio segments that reference a start verse
func (s *Store) AudioVerseRefsByProject(ctx context.Context, projectID string) ([]models.AudioVerseRef, error) {
	refs := []models.AudioVerseRef{}
	if err := s.db.SelectContext(ctx, &refs, s.db.Rebind(`
		SELECT start_verse_id, end_verse_id
		FROM media_files
		WHERE project_id = ?
		  AND media_type = 'audio'
		  AND deleted_at IS NULL
		  AND start_verse_id IS NOT NULL
	`), projectID); err != nil {
		return nil, fmt.Errorf("select audio verse refs: %w", err)
	}
	return refs, nil
}

// ChapterIDsForVerses maps verses to the distinct chapters that hold them,
// keeping only chapters whose book is in bookIDs
func (s *Store) ChapterIDsForVerses(ctx context.Context, verseIDs, bookIDs []string) ([]string, error) {
	if len(verseIDs) == 0 || len(bookIDs) == 0 {
		return []string{}, nil
	}

	batchSize := maxInParams - len(bookIDs)
	if batchSize < 1 {
		batchSize = 1
	}

	seen := make(map[string]struct{})
	ids := []string{}
	for _, batch := range chunk(verseIDs, batchSize) {
		var part []string
		if err := s.selectIn(ctx, &part, `
			SELECT DISTINCT v.chapter_id
			FROM verses v
			JOIN chapters c ON c.id = v.chapter_id
			WHERE v.id IN (?)
			  AND c.book_id IN (?)
		`, batch, bookIDs); err != nil {
			return nil, fmt.Errorf("select chapters for verses: %w", err)
		}
		for _, id := range part {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// TargetLanguage returns the project's target language entity id
func (s *Store) TargetLanguage(ctx context.Context, projectID string) (string, error) {
	var lang sql.NullString
	err := s.db.GetContext(ctx, &lang, s.db.Rebind(`
		SELECT target_language_entity_id
		FROM projects
		WHERE id = ?
	`), projectID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("project %s: %w", projectID, repository.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("select project target language: %w", err)
	}
	return lang.String, nil
}

// TextCoveredChapterIDs returns the distinct chapters of bookIDs with at least
// one verse text in a text version of the given language
func (s *Store) TextCoveredChapterIDs(ctx context.Context, languageID string, bookIDs []string) ([]string, error) {
	if languageID == "" || len(bookIDs) == 0 {
		return []string{}, nil
	}

	// A chapter belongs to one book, so batches never return the same chapter.
	ids := []string{}
	for _, batch := range chunk(bookIDs, maxInParams-1) {
		var part []string
		if err := s.selectIn(ctx, &part, `
			SELECT DISTINCT v.chapter_id
			FROM verse_texts vt
			JOIN text_versions tv ON tv.id = vt.text_version_id
			JOIN verses v ON v.id = vt.verse_id
			JOIN chapters c ON c.id = v.chapter_id
			WHERE tv.language_entity_id = ?
			  AND c.book_id IN (?)
		`, languageID, batch); err != nil {
			return nil, fmt.Errorf("select text covered chapters: %w", err)
		}
		ids = append(ids, part...)
	}
	return ids, nil
}
