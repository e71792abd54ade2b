package models

// Edition is a source-text edition whose books define the chapters measured against
type Edition struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// AudioVerseRef holds the endpoint verses of one recorded audio segment.
// Either endpoint may be unset.
type AudioVerseRef struct {
	StartVerseID *string `db:"start_verse_id"`
	EndVerseID   *string `db:"end_verse_id"`
}

// AudioAssetRecord is a raw audio asset row as returned by the fact store.
// Timestamps are kept as the store's ISO-8601 text so a malformed value can
// be detected per record instead of failing the whole scan.
type AudioAssetRecord struct {
	ID          string  `json:"id" db:"id"`
	RemotePath  *string `json:"remote_path,omitempty" db:"remote_path"`
	CheckStatus *string `json:"check_status,omitempty" db:"check_status"`
	CreatedAt   *string `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt   *string `json:"updated_at,omitempty" db:"updated_at"`
}

// ChapterSet is a set of chapter ids
type ChapterSet map[string]struct{}

// NewChapterSet builds a set from ids, dropping duplicates and empty ids
func NewChapterSet(ids ...string) ChapterSet {
	s := make(ChapterSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id into the set. Empty ids are ignored.
func (s ChapterSet) Add(id string) {
	if id == "" {
		return
	}
	s[id] = struct{}{}
}

// Has reports whether id is in the set
func (s ChapterSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of chapters in the set
func (s ChapterSet) Len() int {
	return len(s)
}

// IntersectionLen counts the members of s that are also in other
func (s ChapterSet) IntersectionLen(other ChapterSet) int {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	n := 0
	for id := range small {
		if large.Has(id) {
			n++
		}
	}
	return n
}

// IDs returns the members in no particular order
func (s ChapterSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return ids
}
