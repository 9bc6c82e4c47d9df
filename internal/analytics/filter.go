package analytics

import (
	"strconv"
	"strings"
	"time"

	"github.com/vladimiradmaev/glucose-logger/internal/domain"
	"github.com/vladimiradmaev/glucose-logger/internal/utils"
)

// FilterParams are independent AND-ed predicates; a zero-valued field is
// inactive and matches everything.
type FilterParams struct {
	SearchTerm string
	Period     domain.Period
	Category   domain.Category
	StartDate  time.Time // local calendar date, inclusive
	EndDate    time.Time // local calendar date, inclusive
}

// Filter applies all active predicates. Cheap checks (date, period,
// category) run before the string-formatting-heavy text search.
func Filter(readings []domain.Reading, params FilterParams) []domain.Reading {
	term := strings.ToLower(strings.TrimSpace(params.SearchTerm))
	var start, end time.Time
	if !params.StartDate.IsZero() {
		start = utils.LocalDate(params.StartDate)
	}
	if !params.EndDate.IsZero() {
		end = utils.LocalDate(params.EndDate)
	}

	matched := make([]domain.Reading, 0, len(readings))
	for _, r := range readings {
		if !start.IsZero() || !end.IsZero() {
			day := utils.LocalDate(r.Timestamp)
			if !start.IsZero() && day.Before(start) {
				continue
			}
			if !end.IsZero() && day.After(end) {
				continue
			}
		}
		if params.Period != "" && r.Period != params.Period {
			continue
		}
		if params.Category != "" && domain.CategoryOf(r.Value) != params.Category {
			continue
		}
		if term != "" && !matchesTerm(r, term) {
			continue
		}
		matched = append(matched, r)
	}
	return matched
}

// matchesTerm reports whether the lowercased term appears in any of the
// reading's displayable fields.
func matchesTerm(r domain.Reading, term string) bool {
	fields := []string{
		string(r.Period),
		r.Note,
		strconv.FormatFloat(r.Value, 'f', -1, 64),
		r.Timestamp.Format(utils.LongDateFormat),
		r.Timestamp.Format(utils.ClockFormat),
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
