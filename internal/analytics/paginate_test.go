package analytics_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vladimiradmaev/glucose-logger/internal/analytics"
	"github.com/vladimiradmaev/glucose-logger/internal/domain"
)

func manyReadings(n int) []domain.Reading {
	readings := make([]domain.Reading, 0, n)
	for i := 0; i < n; i++ {
		r := reading(5.0, fmt.Sprintf("2024-05-01T%02d:%02d", i/60%24, i%60), domain.PeriodFasting)
		r.ID = fmt.Sprintf("r-%d", i)
		readings = append(readings, r)
	}
	return readings
}

func TestPaginate_Empty(t *testing.T) {
	page := analytics.Paginate(nil, 1)
	require.Empty(t, page.Items)
	require.Equal(t, 1, page.Number)
	require.Equal(t, 1, page.TotalPages)
	require.Equal(t, 0, page.TotalItems)
}

func TestPaginate_ClampsOutOfRangePage(t *testing.T) {
	readings := manyReadings(25)

	page := analytics.Paginate(readings, 99)
	require.Equal(t, 3, page.Number)
	require.Len(t, page.Items, 5)

	page = analytics.Paginate(readings, 0)
	require.Equal(t, 1, page.Number)
	require.Len(t, page.Items, 10)

	page = analytics.Paginate(readings, -3)
	require.Equal(t, 1, page.Number)
}

func TestPaginate_PageCount(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 9: 1, 10: 1, 11: 2, 20: 2, 21: 3}
	for n, want := range cases {
		page := analytics.Paginate(manyReadings(n), 1)
		require.Equal(t, want, page.TotalPages, "n=%d", n)
	}
}

func TestPaginate_ConcatenationReproducesSet(t *testing.T) {
	readings := manyReadings(33)
	first := analytics.Paginate(readings, 1)

	var collected []domain.Reading
	for p := 1; p <= first.TotalPages; p++ {
		collected = append(collected, analytics.Paginate(readings, p).Items...)
	}
	require.Equal(t, readings, collected)
}
