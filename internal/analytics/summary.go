// Package analytics derives view state from the canonical reading
// collection: summary statistics, chart buckets, filtering and
// pagination. Everything here is pure and recomputed on demand.
package analytics

import (
	"math"
	"sort"

	"github.com/vladimiradmaev/glucose-logger/internal/domain"
)

// recentCount is how many most-recent readings feed the recent average.
const recentCount = 3

// round1 rounds half-up on the tenths digit.
func round1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

func mean(readings []domain.Reading) float64 {
	if len(readings) == 0 {
		return 0
	}
	var sum float64
	for _, r := range readings {
		sum += r.Value
	}
	return sum / float64(len(readings))
}

// SortByTimestampDesc returns a copy sorted most recent first.
func SortByTimestampDesc(readings []domain.Reading) []domain.Reading {
	sorted := make([]domain.Reading, len(readings))
	copy(sorted, readings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	return sorted
}

// ComputeSummary derives overall and recent averages plus the trend
// between them. An empty collection yields all zeros.
func ComputeSummary(readings []domain.Reading) domain.Summary {
	if len(readings) == 0 {
		return domain.Summary{}
	}

	sorted := SortByTimestampDesc(readings)
	recent := sorted
	if len(recent) > recentCount {
		recent = recent[:recentCount]
	}

	avg := round1(mean(readings))
	recentAvg := round1(mean(recent))

	return domain.Summary{
		Average:       avg,
		RecentAverage: recentAvg,
		Trend:         round1(recentAvg - avg),
	}
}
