package repository

import (
	"context"
	"errors"

	"github.com/translation-progress-api/internal/models"
)

// ErrNotFound is returned when a lookup by id matches no row
var ErrNotFound = errors.New("not found")

// EditionRepository lists the source-text editions available for measuring
type EditionRepository interface {
	// ListEditions returns every edition, ordered by name
	ListEditions(ctx context.Context) ([]models.Edition, error)
}

// StructureRepository resolves the book and chapter structure of an edition
type StructureRepository interface {
	// BookIDsByEdition returns the ids of the books belonging to an edition
	BookIDsByEdition(ctx context.Context, editionID string) ([]string, error)
	// ChapterIDsByBooks returns the ids of all chapters in the given books
	ChapterIDsByBooks(ctx context.Context, bookIDs []string) ([]string, error)
}

// CoverageRepository reads the audio and text facts that mark chapters as covered
type CoverageRepository interface {
	// AudioVerseRefsByProject returns the endpoint verses of a project's audio
	// segments that have a start verse
	AudioVerseRefsByProject(ctx context.Context, projectID string) ([]models.AudioVerseRef, error)
	// ChapterIDsForVerses maps verse ids to their distinct chapter ids,
	// restricted to chapters of the given books
	ChapterIDsForVerses(ctx context.Context, verseIDs, bookIDs []string) ([]string, error)
	// TargetLanguage returns the project's target language entity id, or ""
	// when none is configured. Unknown projects return ErrNotFound.
	TargetLanguage(ctx context.Context, projectID string) (string, error)
	// TextCoveredChapterIDs returns the distinct chapters of the given books
	// holding at least one verse text in a text version of languageID
	TextCoveredChapterIDs(ctx context.Context, languageID string, bookIDs []string) ([]string, error)
}

// AssetRepository reads raw media asset rows for the activity feed
type AssetRepository interface {
	// RecentAudioAssets returns up to limit audio assets of a project,
	// most recently updated first
	RecentAudioAssets(ctx context.Context, projectID string, limit int) ([]models.AudioAssetRecord, error)
}

// FactStore is the full read surface of the relational fact store
type FactStore interface {
	EditionRepository
	StructureRepository
	CoverageRepository
	AssetRepository
}
