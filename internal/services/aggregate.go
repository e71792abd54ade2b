package services

import "github.com/translation-progress-api/internal/models"

// Aggregate turns resolved chapter sets into audio and text progress.
// Covered counts only chapters that are also in total, so covered never
// exceeds total and percentages stay within [0, 100].
func Aggregate(total, audioCovered, textCovered models.ChapterSet) models.ProgressSnapshot {
	return models.ProgressSnapshot{
		AudioProgress: axisProgress(audioCovered, total),
		TextProgress:  axisProgress(textCovered, total),
	}
}

// AggregateCoverage is Aggregate over a resolved ChapterCoverage
func AggregateCoverage(cov models.ChapterCoverage) models.ProgressSnapshot {
	return Aggregate(cov.Total, cov.AudioCovered, cov.TextCovered)
}

func axisProgress(covered, total models.ChapterSet) models.Progress {
	n := total.Len()
	c := covered.IntersectionLen(total)
	return models.Progress{
		Covered:    c,
		Total:      n,
		Percentage: Percentage(c, n),
	}
}

// Percentage returns covered/total as a percentage, or 0 when total is 0
func Percentage(covered, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(covered) / float64(total) * 100
}
