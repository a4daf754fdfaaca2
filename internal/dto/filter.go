package dto

import "strings"

// FilterAll is the sentinel for an unconstrained category, region or representative.
const FilterAll = "all"

// DateRange bounds are inclusive. A nil bound leaves that side open.
type DateRange struct {
	From *string `json:"from,omitempty"` // YYYY-MM-DD
	To   *string `json:"to,omitempty"`   // YYYY-MM-DD
}

func (r DateRange) IsOpen() bool {
	return r.From == nil && r.To == nil
}

// FilterSpec is the active filter state of one table session.
// The zero value is unconstrained.
type FilterSpec struct {
	Search         string    `json:"search"`
	DateRange      DateRange `json:"dateRange"`
	Category       string    `json:"category"`
	Region         string    `json:"region"`
	Representative string    `json:"representative"`
}

// Unconstrained returns the filter the table starts with.
func Unconstrained() FilterSpec {
	return FilterSpec{
		Category:       FilterAll,
		Region:         FilterAll,
		Representative: FilterAll,
	}
}

func (f FilterSpec) IsUnconstrained() bool {
	return strings.TrimSpace(f.Search) == "" &&
		f.DateRange.IsOpen() &&
		IsAll(f.Category) &&
		IsAll(f.Region) &&
		IsAll(f.Representative)
}

// IsAll reports whether a facet filter value places no constraint.
func IsAll(v string) bool {
	return v == "" || v == FilterAll
}
