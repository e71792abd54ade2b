package services

import (
	"errors"
	"fmt"
)

// ErrStructural matches any StructuralError via errors.Is
var ErrStructural = errors.New("structural fetch failed")

// Fact store fetches performed while resolving coverage
const (
	FetchBooks          = "books_by_edition"
	FetchChapters       = "chapters_by_books"
	FetchAudioSegments  = "audio_segments"
	FetchAudioChapters  = "audio_verse_chapters"
	FetchTargetLanguage = "target_language"
	FetchTextCoverage   = "text_coverage"
)

// StructuralError reports a failed book or chapter lookup. Without the
// edition's structure no percentage can be computed, so it is fatal.
type StructuralError struct {
	Fetch     string
	ProjectID string
	EditionID string
	Err       error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s failed (project=%s edition=%s): %v", e.Fetch, e.ProjectID, e.EditionID, e.Err)
}

func (e *StructuralError) Unwrap() error {
	return e.Err
}

func (e *StructuralError) Is(target error) bool {
	return target == ErrStructural
}
