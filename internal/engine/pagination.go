package engine

import (
	"github.com/GregMSThompson/sales-dashboard/internal/models"
)

// DefaultPageSize is the number of rows the transactions table shows.
const DefaultPageSize = 10

type PageState struct {
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
}

// Page is one visible slice of a filtered collection.
type Page struct {
	Records     []models.SalesRecord `json:"records"`
	Total       int                  `json:"total"`
	PageCount   int                  `json:"pageCount"`
	CurrentPage int                  `json:"currentPage"`
	PageSize    int                  `json:"pageSize"`
	HasPrevious bool                 `json:"hasPrevious"`
	HasNext     bool                 `json:"hasNext"`
}

// PageCount is max(1, ceil(total/size)).
func PageCount(total, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if total <= 0 {
		return 1
	}
	count := total / size
	if total%size != 0 {
		count++
	}
	return count
}

// ClampPage forces page into [1, pageCount].
func ClampPage(page, pageCount int) int {
	if pageCount < 1 {
		pageCount = 1
	}
	if page < 1 {
		return 1
	}
	if page > pageCount {
		return pageCount
	}
	return page
}

// Paginate slices filtered according to state. Out of range pages are
// clamped, so the result is empty only when filtered is.
func Paginate(filtered []models.SalesRecord, state PageState) Page {
	size := state.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(filtered)
	count := PageCount(total, size)
	current := ClampPage(state.CurrentPage, count)

	start := (current - 1) * size
	end := min(start+size, total)
	records := []models.SalesRecord{}
	if start < end {
		records = filtered[start:end]
	}

	return Page{
		Records:     records,
		Total:       total,
		PageCount:   count,
		CurrentPage: current,
		PageSize:    size,
		HasPrevious: current > 1,
		HasNext:     current < count,
	}
}
