package engine

import (
	"github.com/GregMSThompson/sales-dashboard/internal/models"
)

// FacetSet holds the distinct filterable values observed in a collection,
// each in order of first occurrence. The "all" option is left to the caller.
type FacetSet struct {
	Categories      []string `json:"categories"`
	Regions         []string `json:"regions"`
	Representatives []string `json:"representatives"`
}

// DeriveFacets scans records once and collects the distinct category, region
// and representative values. Empty input yields empty, non-nil lists.
func DeriveFacets(records []models.SalesRecord) FacetSet {
	categories := newOrderedSet()
	regions := newOrderedSet()
	reps := newOrderedSet()

	for i := range records {
		categories.add(records[i].Category)
		regions.add(records[i].Region)
		reps.add(records[i].Representative)
	}

	return FacetSet{
		Categories:      categories.values,
		Regions:         regions.values,
		Representatives: reps.values,
	}
}

type orderedSet struct {
	seen   map[string]struct{}
	values []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: map[string]struct{}{}, values: []string{}}
}

func (s *orderedSet) add(v string) {
	if v == "" {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.values = append(s.values, v)
}
