package domain

import (
	"strings"
	"time"
)

// Period tags a reading with when it was taken relative to meals.
type Period string

const (
	PeriodFasting  Period = "Fasting"
	PeriodPreMeal  Period = "Pre-Meal"
	PeriodPostMeal Period = "Post-Meal"
)

// Periods lists all valid periods in display order.
var Periods = []Period{PeriodFasting, PeriodPreMeal, PeriodPostMeal}

// ParsePeriod normalizes external input to one of the three periods.
// Unrecognized values default to Fasting.
func ParsePeriod(s string) Period {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pre-meal", "premeal", "pre meal":
		return PeriodPreMeal
	case "post-meal", "postmeal", "post meal":
		return PeriodPostMeal
	default:
		return PeriodFasting
	}
}

// Reading represents a single blood glucose measurement in mmol/L.
type Reading struct {
	ID        string    `json:"id"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
	Period    Period    `json:"period"`
	Note      string    `json:"note,omitempty"`
}

// Category classifies a reading value against the target range.
type Category string

const (
	CategoryLow  Category = "low"
	CategoryGood Category = "good"
	CategoryHigh Category = "high"
)

// Target range bounds in mmol/L. Values on the bounds count as good.
const (
	TargetLow  = 4.4
	TargetHigh = 7.8
)

// CategoryOf returns the quality category for a glucose value.
func CategoryOf(value float64) Category {
	switch {
	case value < TargetLow:
		return CategoryLow
	case value > TargetHigh:
		return CategoryHigh
	default:
		return CategoryGood
	}
}

// Summary holds derived statistics over a reading collection.
// Trend is the recent average minus the overall average, so a positive
// trend means recent readings run higher than usual.
type Summary struct {
	Average       float64 `json:"average"`
	RecentAverage float64 `json:"recentAverage"`
	Trend         float64 `json:"trend"`
}

// ChartPoint is one calendar day of per-period averages. A nil average
// means no readings for that period that day, so the chart can leave a
// gap instead of plotting zero.
type ChartPoint struct {
	Date     time.Time `json:"date"`
	Label    string    `json:"label"`
	Fasting  *float64  `json:"fasting"`
	PreMeal  *float64  `json:"preMeal"`
	PostMeal *float64  `json:"postMeal"`
}

// ChartSeries is the bucketed chart data plus per-series presence flags.
// A series with no data points anywhere is suppressed by the renderer.
type ChartSeries struct {
	Points      []ChartPoint `json:"points"`
	HasFasting  bool         `json:"hasFasting"`
	HasPreMeal  bool         `json:"hasPreMeal"`
	HasPostMeal bool         `json:"hasPostMeal"`
}
