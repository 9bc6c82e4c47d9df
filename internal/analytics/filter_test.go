package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vladimiradmaev/glucose-logger/internal/analytics"
	"github.com/vladimiradmaev/glucose-logger/internal/domain"
)

func sampleReadings() []domain.Reading {
	readings := []domain.Reading{
		reading(5.7, "2024-05-17T07:45", domain.PeriodFasting),
		reading(7.7, "2024-05-16T12:15", domain.PeriodPostMeal),
		reading(6.6, "2024-05-15T18:05", domain.PeriodPreMeal),
		reading(4.3, "2024-05-14T08:00", domain.PeriodFasting),
		reading(9.1, "2024-05-13T13:30", domain.PeriodPostMeal),
	}
	readings[2].Note = "Before gym"
	return readings
}

func TestCategoryOf_Boundaries(t *testing.T) {
	require.Equal(t, domain.CategoryGood, domain.CategoryOf(4.4))
	require.Equal(t, domain.CategoryGood, domain.CategoryOf(7.8))
	require.Equal(t, domain.CategoryLow, domain.CategoryOf(4.3))
	require.Equal(t, domain.CategoryHigh, domain.CategoryOf(7.9))
}

func TestFilter_NoParamsReturnsAll(t *testing.T) {
	readings := sampleReadings()
	require.Equal(t, readings, analytics.Filter(readings, analytics.FilterParams{}))
}

func TestFilter_Period(t *testing.T) {
	got := analytics.Filter(sampleReadings(), analytics.FilterParams{Period: domain.PeriodPostMeal})
	require.Len(t, got, 2)
	for _, r := range got {
		require.Equal(t, domain.PeriodPostMeal, r.Period)
	}
}

func TestFilter_Category(t *testing.T) {
	got := analytics.Filter(sampleReadings(), analytics.FilterParams{Category: domain.CategoryLow})
	require.Len(t, got, 1)
	require.Equal(t, 4.3, got[0].Value)

	got = analytics.Filter(sampleReadings(), analytics.FilterParams{Category: domain.CategoryHigh})
	require.Len(t, got, 1)
	require.Equal(t, 9.1, got[0].Value)
}

func TestFilter_DateRangeInclusive(t *testing.T) {
	start := time.Date(2024, 5, 14, 0, 0, 0, 0, time.Local)
	end := time.Date(2024, 5, 16, 0, 0, 0, 0, time.Local)

	got := analytics.Filter(sampleReadings(), analytics.FilterParams{StartDate: start, EndDate: end})
	require.Len(t, got, 3)
	for _, r := range got {
		require.True(t, r.Timestamp.Day() >= 14 && r.Timestamp.Day() <= 16)
	}
}

func TestFilter_OpenEndedDateRange(t *testing.T) {
	start := time.Date(2024, 5, 16, 0, 0, 0, 0, time.Local)
	got := analytics.Filter(sampleReadings(), analytics.FilterParams{StartDate: start})
	require.Len(t, got, 2)
}

func TestFilter_SearchTerm(t *testing.T) {
	readings := sampleReadings()

	// Note text, case-insensitive.
	got := analytics.Filter(readings, analytics.FilterParams{SearchTerm: "GYM"})
	require.Len(t, got, 1)
	require.Equal(t, "Before gym", got[0].Note)

	// Period name.
	got = analytics.Filter(readings, analytics.FilterParams{SearchTerm: "post-meal"})
	require.Len(t, got, 2)

	// Plain decimal value.
	got = analytics.Filter(readings, analytics.FilterParams{SearchTerm: "9.1"})
	require.Len(t, got, 1)

	// Long date string.
	got = analytics.Filter(readings, analytics.FilterParams{SearchTerm: "may 17"})
	require.Len(t, got, 1)

	// Short time string.
	got = analytics.Filter(readings, analytics.FilterParams{SearchTerm: "12:15 pm"})
	require.Len(t, got, 1)

	got = analytics.Filter(readings, analytics.FilterParams{SearchTerm: "no such thing"})
	require.Empty(t, got)
}

func TestFilter_PredicatesAreANDed(t *testing.T) {
	got := analytics.Filter(sampleReadings(), analytics.FilterParams{
		Period:   domain.PeriodPostMeal,
		Category: domain.CategoryHigh,
	})
	require.Len(t, got, 1)
	require.Equal(t, 9.1, got[0].Value)
}

func TestFilter_Idempotent(t *testing.T) {
	params := analytics.FilterParams{
		Period:     domain.PeriodFasting,
		SearchTerm: "may",
	}
	once := analytics.Filter(sampleReadings(), params)
	twice := analytics.Filter(once, params)
	require.Equal(t, once, twice)
}
