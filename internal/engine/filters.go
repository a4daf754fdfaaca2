package engine

import (
	"strings"
	"time"

	"github.com/GregMSThompson/sales-dashboard/internal/dto"
	"github.com/GregMSThompson/sales-dashboard/internal/models"
)

type predicate func(r *models.SalesRecord) bool

// ApplyFilters returns the records that satisfy every active constraint in
// spec, in their original order. An unconstrained spec returns records as
// given. A date range that cannot match (from after to, or an unparseable
// bound) yields an empty result.
func ApplyFilters(records []models.SalesRecord, spec dto.FilterSpec) []models.SalesRecord {
	if spec.IsUnconstrained() {
		return records
	}
	preds, ok := compileFilters(spec)
	if !ok {
		return []models.SalesRecord{}
	}
	if len(preds) == 0 {
		return records
	}

	out := make([]models.SalesRecord, 0, len(records))
	for i := range records {
		if matchesAll(&records[i], preds) {
			out = append(out, records[i])
		}
	}
	return out
}

func matchesAll(r *models.SalesRecord, preds []predicate) bool {
	for _, p := range preds {
		if !p(r) {
			return false
		}
	}
	return true
}

// compileFilters turns the filter into predicates. ok is false when it can
// match nothing at all.
func compileFilters(spec dto.FilterSpec) (preds []predicate, ok bool) {
	if q := strings.ToLower(strings.TrimSpace(spec.Search)); q != "" {
		preds = append(preds, searchPredicate(q))
	}

	if !spec.DateRange.IsOpen() {
		p, valid := dateRangePredicate(spec.DateRange)
		if !valid {
			return nil, false
		}
		preds = append(preds, p)
	}

	if !dto.IsAll(spec.Category) {
		want := spec.Category
		preds = append(preds, func(r *models.SalesRecord) bool { return r.Category == want })
	}
	if !dto.IsAll(spec.Region) {
		want := spec.Region
		preds = append(preds, func(r *models.SalesRecord) bool { return r.Region == want })
	}
	if !dto.IsAll(spec.Representative) {
		want := spec.Representative
		preds = append(preds, func(r *models.SalesRecord) bool { return r.Representative == want })
	}
	return preds, true
}

func searchPredicate(q string) predicate {
	return func(r *models.SalesRecord) bool {
		return strings.Contains(strings.ToLower(r.Customer), q) ||
			strings.Contains(strings.ToLower(r.Product), q) ||
			strings.Contains(strings.ToLower(r.ID), q)
	}
}

func dateRangePredicate(dr dto.DateRange) (predicate, bool) {
	var from, to time.Time
	hasFrom, hasTo := dr.From != nil, dr.To != nil

	if hasFrom {
		t, ok := parseDate(*dr.From)
		if !ok {
			return nil, false
		}
		from = t
	}
	if hasTo {
		t, ok := parseDate(*dr.To)
		if !ok {
			return nil, false
		}
		to = t
	}
	if hasFrom && hasTo && from.After(to) {
		return nil, false
	}

	return func(r *models.SalesRecord) bool {
		d, ok := parseDate(r.Date)
		if !ok {
			return false
		}
		if hasFrom && d.Before(from) {
			return false
		}
		if hasTo && d.After(to) {
			return false
		}
		return true
	}, true
}
