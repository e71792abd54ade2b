package services

import (
	"context"
	"sync"

	"github.com/translation-progress-api/internal/models"
	"github.com/translation-progress-api/internal/repository"
)

type verseText struct {
	language string
	verseID  string
}

// fakeStore is an in-memory repository.FactStore that records calls and can
// fail or block individual fetches.
type fakeStore struct {
	editions   []models.Edition
	books      map[string]string  // book id -> edition id
	chapters   map[string]string  // chapter id -> book id
	verses     map[string]string  // verse id -> chapter id
	languages  map[string]*string // project id -> target language
	audio      map[string][]models.AudioVerseRef
	verseTexts []verseText
	assets     map[string][]models.AudioAssetRecord

	errs map[string]error
	// hook runs at the start of every fetch; it may block on ctx
	hook func(ctx context.Context, fetch string)

	mu    sync.Mutex
	calls map[string]int
}

var _ repository.FactStore = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		books:     map[string]string{},
		chapters:  map[string]string{},
		verses:    map[string]string{},
		languages: map[string]*string{},
		audio:     map[string][]models.AudioVerseRef{},
		assets:    map[string][]models.AudioAssetRecord{},
		errs:      map[string]error{},
		calls:     map[string]int{},
	}
}

func (f *fakeStore) enter(ctx context.Context, fetch string) error {
	f.mu.Lock()
	f.calls[fetch]++
	hook := f.hook
	err := f.errs[fetch]
	f.mu.Unlock()

	if hook != nil {
		hook(ctx, fetch)
	}
	if err != nil {
		return err
	}
	return ctx.Err()
}

func (f *fakeStore) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeStore) callCount(fetch string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[fetch]
}

// addEdition registers an edition whose books each get the listed chapters,
// and every chapter a single verse named "<chapter>-v1"
func (f *fakeStore) addEdition(editionID string, books map[string][]string) {
	f.editions = append(f.editions, models.Edition{ID: editionID, Name: editionID})
	for book, chapters := range books {
		f.books[book] = editionID
		for _, ch := range chapters {
			f.chapters[ch] = book
			f.verses[ch+"-v1"] = ch
		}
	}
}

func (f *fakeStore) addAudio(projectID string, start, end *string) {
	f.audio[projectID] = append(f.audio[projectID], models.AudioVerseRef{StartVerseID: start, EndVerseID: end})
}

func (f *fakeStore) ListEditions(ctx context.Context) ([]models.Edition, error) {
	if err := f.enter(ctx, "list_editions"); err != nil {
		return nil, err
	}
	return append([]models.Edition{}, f.editions...), nil
}

func (f *fakeStore) BookIDsByEdition(ctx context.Context, editionID string) ([]string, error) {
	if err := f.enter(ctx, FetchBooks); err != nil {
		return nil, err
	}
	ids := []string{}
	for book, ed := range f.books {
		if ed == editionID {
			ids = append(ids, book)
		}
	}
	return ids, nil
}

func (f *fakeStore) ChapterIDsByBooks(ctx context.Context, bookIDs []string) ([]string, error) {
	if err := f.enter(ctx, FetchChapters); err != nil {
		return nil, err
	}
	want := models.NewChapterSet(bookIDs...)
	ids := []string{}
	for ch, book := range f.chapters {
		if want.Has(book) {
			ids = append(ids, ch)
		}
	}
	return ids, nil
}

func (f *fakeStore) AudioVerseRefsByProject(ctx context.Context, projectID string) ([]models.AudioVerseRef, error) {
	if err := f.enter(ctx, FetchAudioSegments); err != nil {
		return nil, err
	}
	refs := []models.AudioVerseRef{}
	for _, ref := range f.audio[projectID] {
		if ref.StartVerseID != nil {
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

func (f *fakeStore) ChapterIDsForVerses(ctx context.Context, verseIDs, bookIDs []string) ([]string, error) {
	if err := f.enter(ctx, FetchAudioChapters); err != nil {
		return nil, err
	}
	books := models.NewChapterSet(bookIDs...)
	out := models.NewChapterSet()
	for _, v := range verseIDs {
		ch, ok := f.verses[v]
		if ok && books.Has(f.chapters[ch]) {
			out.Add(ch)
		}
	}
	return out.IDs(), nil
}

func (f *fakeStore) TargetLanguage(ctx context.Context, projectID string) (string, error) {
	if err := f.enter(ctx, FetchTargetLanguage); err != nil {
		return "", err
	}
	lang, ok := f.languages[projectID]
	if !ok {
		return "", repository.ErrNotFound
	}
	if lang == nil {
		return "", nil
	}
	return *lang, nil
}

func (f *fakeStore) TextCoveredChapterIDs(ctx context.Context, languageID string, bookIDs []string) ([]string, error) {
	if err := f.enter(ctx, FetchTextCoverage); err != nil {
		return nil, err
	}
	books := models.NewChapterSet(bookIDs...)
	out := models.NewChapterSet()
	for _, vt := range f.verseTexts {
		if vt.language != languageID {
			continue
		}
		ch := f.verses[vt.verseID]
		if books.Has(f.chapters[ch]) {
			out.Add(ch)
		}
	}
	return out.IDs(), nil
}

func (f *fakeStore) RecentAudioAssets(ctx context.Context, projectID string, limit int) ([]models.AudioAssetRecord, error) {
	if err := f.enter(ctx, "recent_audio_assets"); err != nil {
		return nil, err
	}
	recs := f.assets[projectID]
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return append([]models.AudioAssetRecord{}, recs...), nil
}

func strPtr(s string) *string {
	return &s
}
