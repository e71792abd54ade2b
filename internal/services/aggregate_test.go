package services

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/translation-progress-api/internal/models"
)

func TestAggregate_OneOfThreeChapters(t *testing.T) {
	total := models.NewChapterSet("c1", "c2", "c3")
	snap := Aggregate(total, models.NewChapterSet("c1"), models.NewChapterSet())

	assert.Equal(t, 1, snap.AudioProgress.Covered)
	assert.Equal(t, 3, snap.AudioProgress.Total)
	assert.InDelta(t, 33.3333, snap.AudioProgress.Percentage, 0.001)
	assert.Equal(t, models.Progress{Covered: 0, Total: 3, Percentage: 0}, snap.TextProgress)
}

func TestAggregate_EmptyTotalIsZeroPercent(t *testing.T) {
	snap := Aggregate(nil, models.NewChapterSet("c1"), nil)

	assert.Equal(t, models.Progress{}, snap.AudioProgress)
	assert.Equal(t, models.Progress{}, snap.TextProgress)
}

func TestAggregate_IgnoresChaptersOutsideTotal(t *testing.T) {
	total := models.NewChapterSet("c1", "c2")
	snap := Aggregate(total, models.NewChapterSet("c1", "x1", "x2", "x3"), models.NewChapterSet("c1", "c2", "x1"))

	assert.Equal(t, 1, snap.AudioProgress.Covered)
	assert.Equal(t, 50.0, snap.AudioProgress.Percentage)
	assert.Equal(t, 2, snap.TextProgress.Covered)
	assert.Equal(t, 100.0, snap.TextProgress.Percentage)
}

func TestAggregate_Bounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	randomSet := func(n, universe int) models.ChapterSet {
		s := models.NewChapterSet()
		for i := 0; i < n; i++ {
			s.Add(fmt.Sprintf("c%d", rng.Intn(universe)))
		}
		return s
	}

	for i := 0; i < 200; i++ {
		total := randomSet(rng.Intn(20), 30)
		audio := randomSet(rng.Intn(40), 30)
		text := randomSet(rng.Intn(40), 30)

		snap := Aggregate(total, audio, text)
		for _, p := range []models.Progress{snap.AudioProgress, snap.TextProgress} {
			assert.LessOrEqual(t, p.Covered, p.Total)
			assert.GreaterOrEqual(t, p.Percentage, 0.0)
			assert.LessOrEqual(t, p.Percentage, 100.0)
			if p.Total == 0 {
				assert.Equal(t, 0.0, p.Percentage)
			}
		}
	}
}

func TestAggregate_OrderIndependentAndIdempotent(t *testing.T) {
	ids := []string{"c1", "c2", "c3", "c4", "c5", "c6"}
	covered := []string{"c2", "c5", "c9"}

	want := Aggregate(models.NewChapterSet(ids...), models.NewChapterSet(covered...), models.NewChapterSet(covered[:1]...))

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffledIDs := append([]string(nil), ids...)
		shuffledCovered := append([]string(nil), covered...)
		rng.Shuffle(len(shuffledIDs), func(a, b int) { shuffledIDs[a], shuffledIDs[b] = shuffledIDs[b], shuffledIDs[a] })
		rng.Shuffle(len(shuffledCovered), func(a, b int) { shuffledCovered[a], shuffledCovered[b] = shuffledCovered[b], shuffledCovered[a] })

		got := Aggregate(models.NewChapterSet(shuffledIDs...), models.NewChapterSet(shuffledCovered...), models.NewChapterSet(covered[:1]...))
		assert.Equal(t, want, got)
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		covered, total int
		want           float64
	}{
		{0, 0, 0},
		{3, 0, 0},
		{0, 4, 0},
		{1, 4, 25},
		{4, 4, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percentage(tt.covered, tt.total), "%d/%d", tt.covered, tt.total)
	}
}
