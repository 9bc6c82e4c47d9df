package analytics

import (
	"sort"
	"time"

	"github.com/vladimiradmaev/glucose-logger/internal/domain"
	"github.com/vladimiradmaev/glucose-logger/internal/utils"
)

// maxChartDays caps the chart to the most recent distinct days present
// in the data, not a fixed calendar window.
const maxChartDays = 8

type dayBucket struct {
	sums   map[domain.Period]float64
	counts map[domain.Period]int
}

// ComputeChartSeries groups readings by local calendar day and computes
// per-period averages inside each day. Days are sorted ascending and
// capped to the most recent maxChartDays.
func ComputeChartSeries(readings []domain.Reading) domain.ChartSeries {
	buckets := make(map[time.Time]*dayBucket)
	for _, r := range readings {
		day := utils.LocalDate(r.Timestamp)
		b, ok := buckets[day]
		if !ok {
			b = &dayBucket{
				sums:   make(map[domain.Period]float64),
				counts: make(map[domain.Period]int),
			}
			buckets[day] = b
		}
		b.sums[r.Period] += r.Value
		b.counts[r.Period]++
	}

	days := make([]time.Time, 0, len(buckets))
	for day := range buckets {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	if len(days) > maxChartDays {
		days = days[len(days)-maxChartDays:]
	}

	series := domain.ChartSeries{Points: make([]domain.ChartPoint, 0, len(days))}
	for _, day := range days {
		b := buckets[day]
		point := domain.ChartPoint{
			Date:     day,
			Label:    day.Format(utils.LabelFormat),
			Fasting:  periodAverage(b, domain.PeriodFasting),
			PreMeal:  periodAverage(b, domain.PeriodPreMeal),
			PostMeal: periodAverage(b, domain.PeriodPostMeal),
		}
		series.HasFasting = series.HasFasting || point.Fasting != nil
		series.HasPreMeal = series.HasPreMeal || point.PreMeal != nil
		series.HasPostMeal = series.HasPostMeal || point.PostMeal != nil
		series.Points = append(series.Points, point)
	}
	return series
}

// periodAverage returns nil when the day has no readings for the period,
// so the chart gaps instead of plotting a false zero.
func periodAverage(b *dayBucket, p domain.Period) *float64 {
	n := b.counts[p]
	if n == 0 {
		return nil
	}
	avg := round1(b.sums[p] / float64(n))
	return &avg
}
