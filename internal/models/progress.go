package models

import "time"

// Progress is one completion axis: chapters covered out of chapters total.
// Percentage is unrounded and 0 when Total is 0.
type Progress struct {
	Covered    int     `json:"covered"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// ProgressSnapshot holds audio and text completion for one project and edition
type ProgressSnapshot struct {
	AudioProgress Progress `json:"audio_progress"`
	TextProgress  Progress `json:"text_progress"`
}

// ChapterCoverage is the resolved chapter structure for a project and edition.
// Degraded names the coverage fetches that failed and were counted as empty.
type ChapterCoverage struct {
	Total        ChapterSet
	AudioCovered ChapterSet
	TextCovered  ChapterSet
	Degraded     []string
}

// EmptyChapterCoverage returns coverage with all three sets empty
func EmptyChapterCoverage() ChapterCoverage {
	return ChapterCoverage{
		Total:        NewChapterSet(),
		AudioCovered: NewChapterSet(),
		TextCovered:  NewChapterSet(),
	}
}

// ActivityKind distinguishes the asset type behind an activity entry
type ActivityKind string

const (
	ActivityAudio ActivityKind = "audio"
	ActivityText  ActivityKind = "text"
)

// ActivityEntry is one item in the recent activity feed
type ActivityEntry struct {
	ID        string       `json:"id"`
	Kind      ActivityKind `json:"kind"`
	Reference string       `json:"reference"`
	Status    string       `json:"status"`
	Timestamp time.Time    `json:"timestamp"`
}
