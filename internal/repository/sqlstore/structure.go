package sqlstore

import (
	"context"
	"fmt"

	"github.com/translation-progress-api/internal/models"
)

// ListEditions returns every edition ordered by name
func (s *Store) ListEditions(ctx context.Context) ([]models.Edition, error) {
	editions := []models.Edition{}
	if err := s.db.SelectContext(ctx, &editions, `
		SELECT id, name
		FROM editions
		ORDER BY name, id
	`); err != nil {
		return nil, fmt.Errorf("list editions: %w", err)
	}
	return editions, nil
}

// BookIDsByEdition returns the ids of the books in an edition
func (s *Store) BookIDsByEdition(ctx context.Context, editionID string) ([]string, error) {
	ids := []string{}
	if err := s.db.SelectContext(ctx, &ids, s.db.Rebind(`
		SELECT id
		FROM books
		WHERE edition_id = ?
	`), editionID); err != nil {
		return nil, fmt.Errorf("select books by edition: %w", err)
	}
	return ids, nil
}

// ChapterIDsByBooks returns the ids of all chapters in the given books
func (s *Store) ChapterIDsByBooks(ctx context.Context, bookIDs []string) ([]string, error) {
	ids := []string{}
	for _, batch := range chunk(bookIDs, maxInParams) {
		var part []string
		if err := s.selectIn(ctx, &part, `
			SELECT id
			FROM chapters
			WHERE book_id IN (?)
		`, batch); err != nil {
			return nil, fmt.Errorf("select chapters by books: %w", err)
		}
		ids = append(ids, part...)
	}
	return ids, nil
}
