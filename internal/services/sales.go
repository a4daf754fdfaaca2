package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/sales-dashboard/internal/dto"
	"github.com/GregMSThompson/sales-dashboard/internal/engine"
	"github.com/GregMSThompson/sales-dashboard/internal/errs"
	"github.com/GregMSThompson/sales-dashboard/internal/export"
	"github.com/GregMSThompson/sales-dashboard/internal/models"
	"github.com/GregMSThompson/sales-dashboard/pkg/helpers"
	"github.com/GregMSThompson/sales-dashboard/pkg/logger"
)

type salesSource interface {
	List(ctx context.Context) ([]models.SalesRecord, error)
	Get(ctx context.Context, id string) (*models.SalesRecord, error)
}

type viewCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// snapshot is one immutable load of the record collection. A refresh
// replaces the whole snapshot; nothing is diffed.
type snapshot struct {
	version  string
	records  []models.SalesRecord
	facets   engine.FacetSet
	loadedAt time.Time
}

type SalesOptions struct {
	// PageSize overrides engine.DefaultPageSize when positive.
	PageSize int
	CacheTTL time.Duration
	Currency string
	Targets  engine.Targets
}

type salesService struct {
	source    salesSource
	refresher engine.Refresher
	cache     viewCache
	opts      SalesOptions

	mu   sync.RWMutex
	snap *snapshot
}

func NewSalesService(source salesSource, cache viewCache, opts SalesOptions) *salesService {
	if opts.Currency == "" {
		opts.Currency = "$"
	}
	return &salesService{source: source, refresher: sourceRefresher{source: source}, cache: cache, opts: opts}
}

// sourceRefresher loads and validates a fresh collection from the source.
type sourceRefresher struct {
	source salesSource
}

func (r sourceRefresher) Refresh(ctx context.Context) ([]models.SalesRecord, error) {
	records, err := r.source.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRecords(records); err != nil {
		return nil, err
	}
	return records, nil
}

// Refresh reloads the collection from the source. The previous snapshot
// stays in place if loading or validation fails.
func (s *salesService) Refresh(ctx context.Context) (dto.RefreshResponse, error) {
	log := logger.FromContext(ctx)

	sess := engine.NewSession(nil)
	if err := sess.Refresh(ctx, s.refresher); err != nil {
		log.Error("failed to refresh sales", "error", err)
		return dto.RefreshResponse{}, err
	}
	records := sess.Records()

	snap := &snapshot{
		version:  uuid.New().String(),
		records:  records,
		facets:   sess.Facets(),
		loadedAt: time.Now(),
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	log.Info("sales collection loaded", "version", snap.version, "records", len(records))
	return dto.RefreshResponse{
		Version:  snap.version,
		Records:  len(records),
		LoadedAt: snap.loadedAt,
	}, nil
}

func (s *salesService) current(ctx context.Context) (*snapshot, error) {
	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}
	if _, err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, nil
}

// session builds a table session over the snapshot with q's filter and
// preset applied.
func (s *salesService) session(ctx context.Context, snap *snapshot, q dto.SalesQuery, preset engine.Preset) *engine.Session {
	log := logger.FromContext(ctx)
	sess := engine.NewSession(snap.records, engine.WithPageSize(s.opts.PageSize), engine.WithPreset(preset), engine.WithFilterListener(engine.FilterListenerFunc(func(spec dto.FilterSpec) {
		if logger.IsDebugEnabled(ctx) {
			log.Debug("filter applied",
				"search", spec.Search,
				"from", helpers.Value(spec.DateRange.From),
				"to", helpers.Value(spec.DateRange.To),
				"category", spec.Category,
				"region", spec.Region,
				"representative", spec.Representative,
				"version", snap.version)
		}
	})))
	sess.SetFilter(q.FilterSpec())
	return sess
}

func (s *salesService) GetTable(ctx context.Context, q dto.SalesQuery) (dto.TablePageResponse, error) {
	if err := q.Validate(); err != nil {
		return dto.TablePageResponse{}, err
	}
	preset, err := engine.ParsePreset(q.View)
	if err != nil {
		return dto.TablePageResponse{}, err
	}
	snap, err := s.current(ctx)
	if err != nil {
		return dto.TablePageResponse{}, err
	}

	key := cacheKey("table", snap.version, q.CacheKey())
	var resp dto.TablePageResponse
	if s.cacheGet(ctx, key, &resp) {
		return resp, nil
	}

	sess := s.session(ctx, snap, q, preset)
	sess.GoTo(q.Page)
	page := sess.View()

	resp = dto.TablePageResponse{
		Records:     s.rows(page.Records),
		Total:       page.Total,
		PageCount:   page.PageCount,
		CurrentPage: page.CurrentPage,
		PageSize:    page.PageSize,
		HasPrevious: page.HasPrevious,
		HasNext:     page.HasNext,
		Filter:      sess.Filter(),
		View:        string(sess.Preset()),
		Facets:      facetsResponse(snap.facets),
	}
	s.cacheSet(ctx, key, resp)
	return resp, nil
}

func (s *salesService) GetRecord(ctx context.Context, id string) (dto.SalesRow, error) {
	snap, err := s.current(ctx)
	if err != nil {
		return dto.SalesRow{}, err
	}
	for _, r := range snap.records {
		if r.ID == id {
			return s.row(r), nil
		}
	}

	// Not in the snapshot; the source may have gained it since the last refresh.
	r, err := s.source.Get(ctx, id)
	if err != nil {
		return dto.SalesRow{}, err
	}
	logger.FromContext(ctx).Debug("sale served from source", "sale_id", id, "version", snap.version)
	return s.row(*r), nil
}

func (s *salesService) GetFacets(ctx context.Context) (dto.FacetsResponse, error) {
	snap, err := s.current(ctx)
	if err != nil {
		return dto.FacetsResponse{}, err
	}
	return facetsResponse(snap.facets), nil
}

func (s *salesService) GetSeries(ctx context.Context, q dto.SalesQuery) (dto.SeriesResponse, error) {
	if q.Granularity == "" {
		q.Granularity = string(engine.Monthly)
	}
	g, err := engine.ParseGranularity(q.Granularity)
	if err != nil {
		return dto.SeriesResponse{}, err
	}
	if err := q.Validate(); err != nil {
		return dto.SeriesResponse{}, err
	}
	snap, err := s.current(ctx)
	if err != nil {
		return dto.SeriesResponse{}, err
	}

	q.Page, q.View = 0, ""
	key := cacheKey("series", snap.version, q.CacheKey())
	var resp dto.SeriesResponse
	if s.cacheGet(ctx, key, &resp) {
		return resp, nil
	}

	points := engine.Aggregate(engine.ApplyFilters(snap.records, q.FilterSpec()), g)
	resp = dto.SeriesResponse{
		Granularity: string(g),
		Points:      make([]dto.SeriesPointResponse, len(points)),
	}
	for i, p := range points {
		resp.Points[i] = dto.SeriesPointResponse{
			Period:    p.Period.Format("2006-01-02"),
			Label:     p.Label,
			Amount:    p.Amount,
			Orders:    p.Orders,
			Customers: p.Customers,
		}
	}
	s.cacheSet(ctx, key, resp)
	return resp, nil
}

func (s *salesService) GetOverview(ctx context.Context) (dto.OverviewResponse, error) {
	snap, err := s.current(ctx)
	if err != nil {
		return dto.OverviewResponse{}, err
	}

	key := cacheKey("overview", snap.version, "")
	var resp dto.OverviewResponse
	if s.cacheGet(ctx, key, &resp) {
		return resp, nil
	}
	resp = dto.OverviewResponse{Metrics: engine.Overview(snap.records, s.opts.Targets, s.opts.Currency)}
	s.cacheSet(ctx, key, resp)
	return resp, nil
}

// Export writes the filtered collection, ignoring pagination, in q.Format.
func (s *salesService) Export(ctx context.Context, q dto.SalesQuery) (dto.ExportFile, error) {
	format, err := export.Lookup(q.Format)
	if err != nil {
		return dto.ExportFile{}, err
	}
	if err := q.Validate(); err != nil {
		return dto.ExportFile{}, err
	}
	preset, err := engine.ParsePreset(q.View)
	if err != nil {
		return dto.ExportFile{}, err
	}
	snap, err := s.current(ctx)
	if err != nil {
		return dto.ExportFile{}, err
	}

	var buf bytes.Buffer
	sess := s.session(ctx, snap, q, preset)
	if err := sess.Export(format.New(&buf)); err != nil {
		logger.FromContext(ctx).Error("export failed", "format", format.Name, "error", err)
		return dto.ExportFile{}, err
	}

	logger.FromContext(ctx).Info("sales exported", "format", format.Name, "records", len(sess.Filtered()))
	return dto.ExportFile{
		Filename:    fmt.Sprintf("sales-%s.%s", snap.loadedAt.Format("20060102-150405"), format.Extension),
		ContentType: format.ContentType,
		Body:        buf.Bytes(),
	}, nil
}

// --- Helpers ---

func (s *salesService) rows(records []models.SalesRecord) []dto.SalesRow {
	out := make([]dto.SalesRow, len(records))
	for i, r := range records {
		out[i] = s.row(r)
	}
	return out
}

func (s *salesService) row(r models.SalesRecord) dto.SalesRow {
	return dto.SalesRow{
		SalesRecord:   r,
		AmountDisplay: helpers.FormatCurrency(r.Amount, s.opts.Currency),
		StatusLabel:   r.Status.Label(),
	}
}

func facetsResponse(f engine.FacetSet) dto.FacetsResponse {
	return dto.FacetsResponse{
		Categories:      f.Categories,
		Regions:         f.Regions,
		Representatives: f.Representatives,
	}
}

func cacheKey(kind, version, query string) string {
	return kind + ":" + version + ":" + query
}

// cacheGet treats cache failures as misses; the view is recomputed.
func (s *salesService) cacheGet(ctx context.Context, key string, dst any) bool {
	ok, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		logCacheError(ctx, "view cache read failed", key, err)
		return false
	}
	return ok
}

func (s *salesService) cacheSet(ctx context.Context, key string, value any) {
	if err := s.cache.Set(ctx, key, value, s.opts.CacheTTL); err != nil {
		logCacheError(ctx, "view cache write failed", key, err)
	}
}

// logCacheError reports a cache failure. Transient outages are warnings;
// anything else, such as a corrupt entry, is an error.
func logCacheError(ctx context.Context, msg, key string, err error) {
	log := logger.FromContext(ctx)
	var ext *errs.ExternalServiceError
	if errors.As(err, &ext) {
		level := slog.LevelError
		if ext.Transient {
			level = slog.LevelWarn
		}
		log.Log(ctx, level, msg, "key", key, "service", ext.Service, "transient", ext.Transient, "error", ext.Err)
		return
	}
	log.Warn(msg, "key", key, "error", err)
}

// validateRecords enforces the collection invariants: unique ids, known
// statuses and non-negative amounts.
func validateRecords(records []models.SalesRecord) error {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r.ID == "" {
			return errs.NewValidationError("sale with empty id")
		}
		if _, dup := seen[r.ID]; dup {
			return errs.NewValidationError("duplicate sale id: " + r.ID)
		}
		seen[r.ID] = struct{}{}
		if r.Amount.IsNegative() {
			return errs.NewValidationError("negative amount on sale " + r.ID)
		}
		if !r.Status.Valid() {
			return errs.NewValidationError(fmt.Sprintf("unknown status %q on sale %s", r.Status, r.ID))
		}
	}
	return nil
}
