// Package seed provides the bundled sample readings used when the
// remote store is unreachable or unconfigured on first load.
package seed

import (
	"fmt"
	"time"

	"github.com/vladimiradmaev/glucose-logger/internal/domain"
)

type sample struct {
	daysAgo int
	hour    int
	minute  int
	value   float64
	period  domain.Period
	note    string
}

var samples = []sample{
	{0, 7, 45, 5.7, domain.PeriodFasting, "Woke up late"},
	{0, 13, 10, 8.1, domain.PeriodPostMeal, "Pasta for lunch"},
	{1, 7, 30, 5.2, domain.PeriodFasting, ""},
	{1, 12, 5, 6.4, domain.PeriodPreMeal, ""},
	{1, 19, 40, 7.9, domain.PeriodPostMeal, "Dinner out"},
	{2, 8, 0, 4.9, domain.PeriodFasting, ""},
	{2, 18, 15, 6.6, domain.PeriodPreMeal, "Before gym"},
	{3, 7, 50, 5.5, domain.PeriodFasting, ""},
	{3, 13, 25, 9.2, domain.PeriodPostMeal, "Birthday cake"},
	{4, 7, 35, 5.0, domain.PeriodFasting, ""},
	{5, 12, 45, 6.1, domain.PeriodPreMeal, ""},
	{5, 20, 10, 7.4, domain.PeriodPostMeal, ""},
	{6, 7, 55, 4.3, domain.PeriodFasting, "Felt shaky"},
	{7, 8, 5, 5.8, domain.PeriodFasting, ""},
}

// Readings builds the sample set relative to the current day so the
// chart always has recent-looking data in local-only mode.
func Readings() []domain.Reading {
	now := time.Now()
	readings := make([]domain.Reading, 0, len(samples))
	for i, s := range samples {
		day := now.AddDate(0, 0, -s.daysAgo)
		ts := time.Date(day.Year(), day.Month(), day.Day(), s.hour, s.minute, 0, 0, time.Local)
		readings = append(readings, domain.Reading{
			ID:        fmt.Sprintf("sample-%02d", i+1),
			Value:     s.value,
			Timestamp: ts,
			Period:    s.period,
			Note:      s.note,
		})
	}
	return readings
}
