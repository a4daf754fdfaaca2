package engine

import (
	"context"

	"github.com/GregMSThompson/sales-dashboard/internal/dto"
	"github.com/GregMSThompson/sales-dashboard/internal/models"
)

// FilterListener is told about every filter change after the session has
// recomputed its view.
type FilterListener interface {
	FilterChanged(spec dto.FilterSpec)
}

// FilterListenerFunc adapts a plain function to FilterListener.
type FilterListenerFunc func(spec dto.FilterSpec)

func (f FilterListenerFunc) FilterChanged(spec dto.FilterSpec) { f(spec) }

// Exporter receives the filtered, unpaginated collection. The output format
// is entirely up to the implementation.
type Exporter interface {
	Export(records []models.SalesRecord) error
}

// Refresher supplies a replacement collection.
type Refresher interface {
	Refresh(ctx context.Context) ([]models.SalesRecord, error)
}

// Session is the table state of one viewer: the record collection, the
// active filter and the current page. Derived values are recomputed from
// scratch on each change. A Session is not safe for concurrent use; callers
// apply one change at a time.
type Session struct {
	records  []models.SalesRecord
	filter   dto.FilterSpec
	preset   Preset
	page     int
	pageSize int
	listener FilterListener

	filtered []models.SalesRecord
	facets   FacetSet
}

type SessionOption func(*Session)

func WithFilterListener(l FilterListener) SessionOption {
	return func(s *Session) { s.listener = l }
}

// WithPageSize overrides DefaultPageSize. Non-positive sizes are ignored.
func WithPageSize(size int) SessionOption {
	return func(s *Session) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// WithPreset starts the session on a table tab other than PresetAll.
func WithPreset(p Preset) SessionOption {
	return func(s *Session) { s.preset = p }
}

func NewSession(records []models.SalesRecord, opts ...SessionOption) *Session {
	s := &Session{
		filter:   dto.Unconstrained(),
		preset:   PresetAll,
		page:     1,
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load(records)
	return s
}

func (s *Session) load(records []models.SalesRecord) {
	s.records = records
	s.facets = DeriveFacets(records)
	s.recompute()
}

func (s *Session) recompute() {
	s.filtered = ApplyPreset(ApplyFilters(s.records, s.filter), s.preset)
	s.page = ClampPage(s.page, PageCount(len(s.filtered), s.pageSize))
}

// SetFilter replaces the whole filter and returns to page 1.
func (s *Session) SetFilter(spec dto.FilterSpec) {
	s.filter = spec
	s.page = 1
	s.recompute()
	if s.listener != nil {
		s.listener.FilterChanged(s.filter)
	}
}

func (s *Session) SetSearch(q string) {
	spec := s.filter
	spec.Search = q
	s.SetFilter(spec)
}

func (s *Session) SetDateRange(dr dto.DateRange) {
	spec := s.filter
	spec.DateRange = dr
	s.SetFilter(spec)
}

func (s *Session) SetCategory(v string) {
	spec := s.filter
	spec.Category = v
	s.SetFilter(spec)
}

func (s *Session) SetRegion(v string) {
	spec := s.filter
	spec.Region = v
	s.SetFilter(spec)
}

func (s *Session) SetRepresentative(v string) {
	spec := s.filter
	spec.Representative = v
	s.SetFilter(spec)
}

// SetPreset switches the table tab and returns to page 1. The filter is
// unchanged, so the listener is not notified.
func (s *Session) SetPreset(p Preset) {
	s.preset = p
	s.page = 1
	s.recompute()
}

// GoTo moves to page, clamped into the valid range.
func (s *Session) GoTo(page int) {
	s.page = ClampPage(page, s.PageCount())
}

// Next advances one page; it is a no-op on the last page.
func (s *Session) Next() {
	s.GoTo(s.page + 1)
}

// Previous goes back one page; it is a no-op on page 1.
func (s *Session) Previous() {
	s.GoTo(s.page - 1)
}

// Replace swaps in a new collection. The new records are treated as
// unrelated to the old ones: facets are rederived and the page resets.
func (s *Session) Replace(records []models.SalesRecord) {
	s.page = 1
	s.load(records)
}

// Refresh pulls a new collection from r. On error the session is unchanged.
func (s *Session) Refresh(ctx context.Context, r Refresher) error {
	records, err := r.Refresh(ctx)
	if err != nil {
		return err
	}
	s.Replace(records)
	return nil
}

// Export hands the filtered collection, not just the visible page, to e,
// in the order of the active preset.
func (s *Session) Export(e Exporter) error {
	return e.Export(s.filtered)
}

func (s *Session) View() Page {
	return Paginate(s.filtered, PageState{CurrentPage: s.page, PageSize: s.pageSize})
}

func (s *Session) Filter() dto.FilterSpec         { return s.filter }
func (s *Session) Filtered() []models.SalesRecord { return s.filtered }
func (s *Session) Records() []models.SalesRecord  { return s.records }
func (s *Session) Preset() Preset                 { return s.preset }
func (s *Session) Facets() FacetSet               { return s.facets }
func (s *Session) CurrentPage() int               { return s.page }
func (s *Session) PageCount() int                 { return PageCount(len(s.filtered), s.pageSize) }
