package analytics

import "github.com/vladimiradmaev/glucose-logger/internal/domain"

// PageSize is the fixed number of readings per page.
const PageSize = 10

// Page is one slice of a filtered result set. Number is always clamped
// into [1, TotalPages] so a narrowing filter never strands the view on
// a page that no longer exists.
type Page struct {
	Items      []domain.Reading `json:"items"`
	Number     int              `json:"number"`
	TotalPages int              `json:"totalPages"`
	TotalItems int              `json:"totalItems"`
}

// Paginate slices readings into fixed-size pages, clamping the requested
// page number. An empty set still has one (empty) page.
func Paginate(readings []domain.Reading, page int) Page {
	total := len(readings)
	totalPages := (total + PageSize - 1) / PageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	lo := (page - 1) * PageSize
	hi := lo + PageSize
	if lo > total {
		lo = total
	}
	if hi > total {
		hi = total
	}

	return Page{
		Items:      readings[lo:hi],
		Number:     page,
		TotalPages: totalPages,
		TotalItems: total,
	}
}
