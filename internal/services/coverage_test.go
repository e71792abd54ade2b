package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/translation-progress-api/internal/logger"
	"github.com/translation-progress-api/internal/models"
)

func newTestResolver(store *fakeStore) *CoverageResolver {
	return NewCoverageResolver(store, store, logger.NewNop())
}

func assertSubset(t *testing.T, sub, super models.ChapterSet) {
	t.Helper()
	for id := range sub {
		assert.True(t, super.Has(id), "chapter %s is outside the edition", id)
	}
}

func TestResolve_EmptyIDsSkipStore(t *testing.T) {
	store := newFakeStore()
	r := newTestResolver(store)

	for _, ids := range [][2]string{{"", "ed-a"}, {"p1", ""}, {"", ""}} {
		cov, err := r.Resolve(context.Background(), ids[0], ids[1])
		require.NoError(t, err)
		assert.Zero(t, cov.Total.Len())
		assert.Zero(t, cov.AudioCovered.Len())
		assert.Zero(t, cov.TextCovered.Len())
	}
	assert.Zero(t, store.totalCalls())
}

func TestResolve_AudioStartVerseCoversChapter(t *testing.T) {
	store := newFakeStore()
	store.addEdition("ed-a", map[string][]string{
		"gen": {"c1", "c2"},
		"exo": {"c3"},
	})
	store.languages["p1"] = strPtr("lang-1")
	store.addAudio("p1", strPtr("c1-v1"), nil)

	cov, err := newTestResolver(store).Resolve(context.Background(), "p1", "ed-a")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"c1", "c2", "c3"}, cov.Total.IDs())
	assert.ElementsMatch(t, []string{"c1"}, cov.AudioCovered.IDs())
	assert.Empty(t, cov.Degraded)
}

func TestResolve_AudioCountsBothEndpointsOnly(t *testing.T) {
	store := newFakeStore()
	store.addEdition("ed-a", map[string][]string{"gen": {"c1", "c2", "c3"}})
	store.languages["p1"] = nil
	// Spans c1..c3 without covering c2 explicitly.
	store.addAudio("p1", strPtr("c1-v1"), strPtr("c3-v1"))
	// No start verse: contributes nothing even though its end is in c2.
	store.addAudio("p1", nil, strPtr("c2-v1"))

	cov, err := newTestResolver(store).Resolve(context.Background(), "p1", "ed-a")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"c1", "c3"}, cov.AudioCovered.IDs())
}

func TestResolve_NoTargetLanguageMeansNoTextCoverage(t *testing.T) {
	store := newFakeStore()
	store.addEdition("ed-a", map[string][]string{"gen": {"c1", "c2", "c3", "c4", "c5"}})
	store.languages["p1"] = nil
	store.verseTexts = []verseText{{language: "lang-1", verseID: "c1-v1"}}

	cov, err := newTestResolver(store).Resolve(context.Background(), "p1", "ed-a")
	require.NoError(t, err)

	assert.Equal(t, 5, cov.Total.Len())
	assert.Zero(t, cov.TextCovered.Len())
	assert.Zero(t, store.callCount(FetchTextCoverage))
	assert.Empty(t, cov.Degraded)
}

func TestResolve_TextCoverageDeduplicatesByChapter(t *testing.T) {
	store := newFakeStore()
	store.addEdition("ed-a", map[string][]string{"gen": {"c1", "c2"}})
	store.verses["c1-v2"] = "c1"
	store.languages["p1"] = strPtr("lang-1")
	store.verseTexts = []verseText{
		{language: "lang-1", verseID: "c1-v1"},
		{language: "lang-1", verseID: "c1-v2"},
		{language: "lang-2", verseID: "c2-v1"},
	}

	cov, err := newTestResolver(store).Resolve(context.Background(), "p1", "ed-a")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"c1"}, cov.TextCovered.IDs())
}

func TestResolve_NoCrossEditionLeakage(t *testing.T) {
	store := newFakeStore()
	store.addEdition("ed-a", map[string][]string{"gen": {"a1", "a2"}})
	store.addEdition("ed-b", map[string][]string{"mat": {"b1", "b2"}})
	store.languages["p1"] = strPtr("lang-1")
	store.addAudio("p1", strPtr("b1-v1"), strPtr("b2-v1"))
	store.addAudio("p1", strPtr("a2-v1"), strPtr("b1-v1"))
	store.verseTexts = []verseText{
		{language: "lang-1", verseID: "b1-v1"},
		{language: "lang-1", verseID: "b2-v1"},
	}

	cov, err := newTestResolver(store).Resolve(context.Background(), "p1", "ed-a")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"a1", "a2"}, cov.Total.IDs())
	assert.ElementsMatch(t, []string{"a2"}, cov.AudioCovered.IDs())
	assert.Zero(t, cov.TextCovered.Len())
	assertSubset(t, cov.AudioCovered, cov.Total)
	assertSubset(t, cov.TextCovered, cov.Total)
}

func TestResolve_EditionWithoutBooks(t *testing.T) {
	store := newFakeStore()
	store.languages["p1"] = strPtr("lang-1")
	store.addAudio("p1", strPtr("x-v1"), nil)

	cov, err := newTestResolver(store).Resolve(context.Background(), "p1", "ed-empty")
	require.NoError(t, err)
	assert.Zero(t, cov.Total.Len())
	assert.Zero(t, cov.AudioCovered.Len())
	assert.Zero(t, store.callCount(FetchChapters))
}

func TestResolve_StructuralFailuresAreFatal(t *testing.T) {
	for _, fetch := range []string{FetchBooks, FetchChapters} {
		t.Run(fetch, func(t *testing.T) {
			store := newFakeStore()
			store.addEdition("ed-a", map[string][]string{"gen": {"c1"}})
			store.languages["p1"] = strPtr("lang-1")
			cause := errors.New("connection reset")
			store.errs[fetch] = cause

			_, err := newTestResolver(store).Resolve(context.Background(), "p1", "ed-a")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrStructural)
			assert.ErrorIs(t, err, cause)

			var serr *StructuralError
			require.True(t, errors.As(err, &serr))
			assert.Equal(t, fetch, serr.Fetch)
			assert.Equal(t, "p1", serr.ProjectID)
			assert.Equal(t, "ed-a", serr.EditionID)
		})
	}
}

func TestResolve_CoverageFailuresDegrade(t *testing.T) {
	tests := []struct {
		fetch     string
		wantAudio int
		wantText  int
	}{
		{FetchAudioSegments, 0, 1},
		{FetchAudioChapters, 0, 1},
		{FetchTargetLanguage, 1, 0},
		{FetchTextCoverage, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.fetch, func(t *testing.T) {
			store := newFakeStore()
			store.addEdition("ed-a", map[string][]string{"gen": {"c1", "c2"}})
			store.languages["p1"] = strPtr("lang-1")
			store.addAudio("p1", strPtr("c1-v1"), nil)
			store.verseTexts = []verseText{{language: "lang-1", verseID: "c2-v1"}}
			store.errs[tt.fetch] = errors.New("timeout")

			core, logs := observer.New(zap.WarnLevel)
			log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}
			r := NewCoverageResolver(store, store, log)

			cov, err := r.Resolve(context.Background(), "p1", "ed-a")
			require.NoError(t, err)
			assert.Equal(t, 2, cov.Total.Len())
			assert.Equal(t, tt.wantAudio, cov.AudioCovered.Len())
			assert.Equal(t, tt.wantText, cov.TextCovered.Len())
			assert.Equal(t, []string{tt.fetch}, cov.Degraded)

			entries := logs.FilterField(zap.String("fetch", tt.fetch)).All()
			require.Len(t, entries, 1)
			assert.Equal(t, "p1", entries[0].ContextMap()["project_id"])
		})
	}
}

func TestResolve_UnknownProjectDegradesText(t *testing.T) {
	store := newFakeStore()
	store.addEdition("ed-a", map[string][]string{"gen": {"c1"}})

	cov, err := newTestResolver(store).Resolve(context.Background(), "ghost", "ed-a")
	require.NoError(t, err)
	assert.Equal(t, 1, cov.Total.Len())
	assert.Zero(t, cov.TextCovered.Len())
	assert.Equal(t, []string{FetchTargetLanguage}, cov.Degraded)
}

func TestAudioVerseIDs(t *testing.T) {
	refs := []models.AudioVerseRef{
		{StartVerseID: strPtr("v1"), EndVerseID: strPtr("v2")},
		{StartVerseID: strPtr("v2"), EndVerseID: nil},
		{StartVerseID: nil, EndVerseID: strPtr("v9")},
		{StartVerseID: strPtr("v3"), EndVerseID: strPtr("v3")},
		{StartVerseID: strPtr(""), EndVerseID: strPtr("v4")},
	}
	assert.Equal(t, []string{"v1", "v2", "v3", "v4"}, AudioVerseIDs(refs))
	assert.Empty(t, AudioVerseIDs(nil))
}
