package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/sales-dashboard/internal/dto"
	"github.com/GregMSThompson/sales-dashboard/internal/engine"
	"github.com/GregMSThompson/sales-dashboard/internal/errs"
	"github.com/GregMSThompson/sales-dashboard/internal/models"
	"github.com/GregMSThompson/sales-dashboard/internal/store"
	"github.com/GregMSThompson/sales-dashboard/pkg/helpers"
)

// --- Fakes ---

type fakeSalesSource struct {
	records  []models.SalesRecord
	err      error
	calls    int
	extra    map[string]models.SalesRecord
	getCalls int
}

func (f *fakeSalesSource) List(_ context.Context) ([]models.SalesRecord, error) {
	f.calls++
	return f.records, f.err
}

func (f *fakeSalesSource) Get(_ context.Context, id string) (*models.SalesRecord, error) {
	f.getCalls++
	if r, ok := f.extra[id]; ok {
		return &r, nil
	}
	return nil, errs.NewNotFoundError("sale not found")
}

type fakeViewCache struct {
	entries map[string][]byte
	getErr  error
	setErr  error
	hits    int
	sets    int
}

func newFakeViewCache() *fakeViewCache {
	return &fakeViewCache{entries: map[string][]byte{}}
}

func (f *fakeViewCache) Get(_ context.Context, key string, dst any) (bool, error) {
	if f.getErr != nil {
		return false, f.getErr
	}
	b, ok := f.entries[key]
	if !ok {
		return false, nil
	}
	f.hits++
	return true, json.Unmarshal(b, dst)
}

func (f *fakeViewCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.sets++
	f.entries[key] = b
	return nil
}

func newTestSalesService(records []models.SalesRecord) (*salesService, *fakeSalesSource, *fakeViewCache) {
	src := &fakeSalesSource{records: records}
	cache := newFakeViewCache()
	return NewSalesService(src, cache, SalesOptions{CacheTTL: time.Minute}), src, cache
}

// --- Tests ---

func TestSalesGetTableFirstPage(t *testing.T) {
	svc, src, _ := newTestSalesService(store.SampleSales())

	got, err := svc.GetTable(helpers.TestCtx(), dto.SalesQuery{Page: 1})
	if err != nil {
		t.Fatalf("GetTable error: %v", err)
	}
	if len(got.Records) != 10 || got.PageCount != 2 || got.CurrentPage != 1 || got.Total != 15 {
		t.Fatalf("page metadata mismatch: %+v", got)
	}
	if got.Records[0].ID != "INV-001" || got.Records[0].AmountDisplay != "$1,299.99" || got.Records[0].StatusLabel != "Completed" {
		t.Fatalf("first row mismatch: %+v", got.Records[0])
	}
	if len(got.Facets.Categories) != 4 {
		t.Fatalf("facets missing: %+v", got.Facets)
	}
	if src.calls != 1 {
		t.Fatalf("expected lazy load once, got %d", src.calls)
	}
}

func TestSalesGetTableClampsPage(t *testing.T) {
	svc, _, _ := newTestSalesService(store.SampleSales())

	got, err := svc.GetTable(helpers.TestCtx(), dto.SalesQuery{Page: 7})
	if err != nil {
		t.Fatalf("GetTable error: %v", err)
	}
	if got.CurrentPage != 2 || len(got.Records) != 5 || got.HasNext || !got.HasPrevious {
		t.Fatalf("clamped page mismatch: %+v", got)
	}
}

func TestSalesGetTableFilters(t *testing.T) {
	svc, _, _ := newTestSalesService(store.SampleSales())

	got, err := svc.GetTable(helpers.TestCtx(), dto.SalesQuery{Search: "acme", Category: "all"})
	if err != nil {
		t.Fatalf("GetTable error: %v", err)
	}
	if got.Total != 1 || got.Records[0].ID != "INV-001" {
		t.Fatalf("search mismatch: %+v", got)
	}

	got, err = svc.GetTable(helpers.TestCtx(), dto.SalesQuery{From: "2023-05-10", To: "2023-05-01", Page: 3})
	if err != nil {
		t.Fatalf("GetTable error: %v", err)
	}
	if got.Total != 0 || got.PageCount != 1 || got.CurrentPage != 1 || len(got.Records) != 0 {
		t.Fatalf("inverted range mismatch: %+v", got)
	}
}

func TestSalesGetTableRejectsMalformedDate(t *testing.T) {
	svc, _, _ := newTestSalesService(store.SampleSales())

	_, err := svc.GetTable(helpers.TestCtx(), dto.SalesQuery{From: "05/01/2023"})
	var vErr *errs.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if !strings.Contains(vErr.Message, "from") {
		t.Fatalf("message should name the field: %q", vErr.Message)
	}
}

func TestSalesGetTableUsesCache(t *testing.T) {
	svc, _, cache := newTestSalesService(store.SampleSales())
	ctx := helpers.TestCtx()

	first, err := svc.GetTable(ctx, dto.SalesQuery{Region: "Asia"})
	if err != nil {
		t.Fatalf("GetTable error: %v", err)
	}
	second, err := svc.GetTable(ctx, dto.SalesQuery{Region: "Asia"})
	if err != nil {
		t.Fatalf("GetTable error: %v", err)
	}
	if cache.hits != 1 || cache.sets != 1 {
		t.Fatalf("expected one set and one hit, got sets=%d hits=%d", cache.sets, cache.hits)
	}
	if first.Total != second.Total || second.Records[0].ID != first.Records[0].ID {
		t.Fatalf("cached view differs: %+v vs %+v", first, second)
	}
}

func TestSalesCacheFailuresFallBackToCompute(t *testing.T) {
	svc, _, cache := newTestSalesService(store.SampleSales())
	cache.getErr = errors.New("redis down")
	cache.setErr = errors.New("redis down")

	got, err := svc.GetTable(helpers.TestCtx(), dto.SalesQuery{})
	if err != nil {
		t.Fatalf("cache failure must not fail the request: %v", err)
	}
	if got.Total != 15 {
		t.Fatalf("total mismatch: %d", got.Total)
	}
}

func TestSalesRefreshReplacesSnapshot(t *testing.T) {
	svc, src, _ := newTestSalesService(store.SampleSales())
	ctx := helpers.TestCtx()

	first, err := svc.Refresh(ctx)
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if first.Records != 15 || first.Version == "" {
		t.Fatalf("refresh result mismatch: %+v", first)
	}
	if _, err := svc.GetTable(ctx, dto.SalesQuery{}); err != nil {
		t.Fatalf("GetTable error: %v", err)
	}

	src.records = []models.SalesRecord{
		{ID: "N-1", Date: "2024-01-01", Category: "Toys", Region: "Oceania", Representative: "Ana", Amount: decimal.NewFromInt(5), Status: models.StatusCompleted},
	}
	second, err := svc.Refresh(ctx)
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if second.Version == first.Version {
		t.Fatal("refresh must produce a new version")
	}

	got, err := svc.GetTable(ctx, dto.SalesQuery{})
	if err != nil {
		t.Fatalf("GetTable error: %v", err)
	}
	if got.Total != 1 || got.Facets.Categories[0] != "Toys" {
		t.Fatalf("stale view served after refresh: %+v", got)
	}
}

func TestSalesRefreshFailureKeepsSnapshot(t *testing.T) {
	svc, src, _ := newTestSalesService(store.SampleSales())
	ctx := helpers.TestCtx()
	if _, err := svc.Refresh(ctx); err != nil {
		t.Fatalf("Refresh error: %v", err)
	}

	src.err = errs.NewDatabaseError("read", "failed to list sales", errors.New("unavailable"))
	if _, err := svc.Refresh(ctx); err == nil {
		t.Fatal("expected error")
	}

	src.err = nil
	src.records = []models.SalesRecord{
		{ID: "dup", Amount: decimal.NewFromInt(1), Status: models.StatusCompleted},
		{ID: "dup", Amount: decimal.NewFromInt(2), Status: models.StatusCompleted},
	}
	_, err := svc.Refresh(ctx)
	var vErr *errs.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for duplicate ids, got %T", err)
	}

	got, err := svc.GetFacets(ctx)
	if err != nil {
		t.Fatalf("GetFacets error: %v", err)
	}
	if len(got.Categories) != 4 {
		t.Fatalf("failed refresh replaced the snapshot: %+v", got)
	}
}

func TestValidateRecords(t *testing.T) {
	cases := []struct {
		name    string
		records []models.SalesRecord
		wantErr bool
	}{
		{"sample", store.SampleSales(), false},
		{"empty", nil, false},
		{"negative", []models.SalesRecord{{ID: "a", Amount: decimal.NewFromInt(-1), Status: models.StatusPending}}, true},
		{"bad status", []models.SalesRecord{{ID: "a", Amount: decimal.Zero, Status: "refunded"}}, true},
		{"missing id", []models.SalesRecord{{Amount: decimal.Zero, Status: models.StatusPending}}, true},
	}
	for _, tc := range cases {
		err := validateRecords(tc.records)
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: err=%v, wantErr=%v", tc.name, err, tc.wantErr)
		}
	}
}

func TestSalesGetRecord(t *testing.T) {
	svc, _, _ := newTestSalesService(store.SampleSales())

	got, err := svc.GetRecord(helpers.TestCtx(), "INV-005")
	if err != nil {
		t.Fatalf("GetRecord error: %v", err)
	}
	if got.Customer != "Healthcare Plus" || got.StatusLabel != "Cancelled" {
		t.Fatalf("record mismatch: %+v", got)
	}

	_, err = svc.GetRecord(helpers.TestCtx(), "INV-404")
	var nf *errs.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %T", err)
	}
}

func TestSalesGetSeries(t *testing.T) {
	svc, _, _ := newTestSalesService(store.SampleSales())

	got, err := svc.GetSeries(helpers.TestCtx(), dto.SalesQuery{Granularity: "weekly"})
	if err != nil {
		t.Fatalf("GetSeries error: %v", err)
	}
	if got.Granularity != "weekly" || len(got.Points) != 3 {
		t.Fatalf("series mismatch: %+v", got)
	}
	if got.Points[0].Period != "2023-05-01" || got.Points[0].Orders != 7 {
		t.Fatalf("first week mismatch: %+v", got.Points[0])
	}

	def, err := svc.GetSeries(helpers.TestCtx(), dto.SalesQuery{Category: "Hardware"})
	if err != nil {
		t.Fatalf("GetSeries error: %v", err)
	}
	if def.Granularity != "monthly" || len(def.Points) != 1 || def.Points[0].Orders != 4 {
		t.Fatalf("default monthly series mismatch: %+v", def)
	}
}

func TestSalesGetSeriesInvalidGranularity(t *testing.T) {
	svc, _, _ := newTestSalesService(store.SampleSales())

	_, err := svc.GetSeries(helpers.TestCtx(), dto.SalesQuery{Granularity: "hourly"})
	var gErr *errs.UnsupportedGranularityError
	if !errors.As(err, &gErr) {
		t.Fatalf("expected UnsupportedGranularityError, got %T", err)
	}
}

func TestSalesGetOverview(t *testing.T) {
	src := &fakeSalesSource{records: store.SampleSales()}
	svc := NewSalesService(src, newFakeViewCache(), SalesOptions{
		Currency: "$",
		Targets:  engine.Targets{Sales: 26},
	})

	got, err := svc.GetOverview(helpers.TestCtx())
	if err != nil {
		t.Fatalf("GetOverview error: %v", err)
	}
	if len(got.Metrics) != 4 {
		t.Fatalf("expected 4 metrics, got %d", len(got.Metrics))
	}
	sales := got.Metrics[2]
	if sales.Title != "Total Sales" || sales.Value != "13" {
		t.Fatalf("sales metric mismatch: %+v", sales)
	}
	if sales.Progress == nil || *sales.Progress != 50 {
		t.Fatalf("sales progress mismatch: %v", sales.Progress)
	}
}

func TestSalesExportCSV(t *testing.T) {
	svc, _, _ := newTestSalesService(store.SampleSales())

	file, err := svc.Export(helpers.TestCtx(), dto.SalesQuery{Category: "Software", Page: 2})
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	if !strings.HasSuffix(file.Filename, ".csv") || !strings.HasPrefix(file.ContentType, "text/csv") {
		t.Fatalf("file metadata mismatch: %+v", file)
	}
	lines := strings.Split(strings.TrimSpace(string(file.Body)), "\n")
	if len(lines) != 9 {
		t.Fatalf("expected header + 8 software rows regardless of page, got %d lines", len(lines))
	}
}

func TestSalesExportJSON(t *testing.T) {
	svc, _, _ := newTestSalesService(store.SampleSales())

	file, err := svc.Export(helpers.TestCtx(), dto.SalesQuery{Format: "json", Search: "tech"})
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	var got []models.SalesRecord
	if err := json.Unmarshal(file.Body, &got); err != nil {
		t.Fatalf("invalid JSON export: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
}

func TestSalesExportUnsupportedFormat(t *testing.T) {
	svc, _, _ := newTestSalesService(store.SampleSales())

	_, err := svc.Export(helpers.TestCtx(), dto.SalesQuery{Format: "pdf"})
	var fErr *errs.UnsupportedFormatError
	if !errors.As(err, &fErr) {
		t.Fatalf("expected UnsupportedFormatError, got %T", err)
	}
}

func TestSalesSourceErrorPropagates(t *testing.T) {
	src := &fakeSalesSource{err: errors.New("store down")}
	svc := NewSalesService(src, newFakeViewCache(), SalesOptions{})

	if _, err := svc.GetTable(helpers.TestCtx(), dto.SalesQuery{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestSalesGetTableCacheKeysDoNotCollide(t *testing.T) {
	records := []models.SalesRecord{
		{ID: "S-1", Date: "2024-03-01", Customer: "x|", Category: "C", Region: "y", Amount: decimal.NewFromInt(10), Status: models.StatusCompleted},
	}
	svc, _, _ := newTestSalesService(records)
	ctx := helpers.TestCtx()

	first, err := svc.GetTable(ctx, dto.SalesQuery{Search: "x|", Region: "y"})
	if err != nil {
		t.Fatalf("GetTable error: %v", err)
	}
	if first.Total != 1 {
		t.Fatalf("expected the record to match, got total=%d", first.Total)
	}

	second, err := svc.GetTable(ctx, dto.SalesQuery{Search: "x", Category: "|", Region: "y"})
	if err != nil {
		t.Fatalf("GetTable error: %v", err)
	}
	if second.Total != 0 || second.Filter.Category != "|" || second.Filter.Search != "x" {
		t.Fatalf("served another query's view: total=%d filter=%+v", second.Total, second.Filter)
	}
}

func TestSalesGetRecordFallsBackToSource(t *testing.T) {
	svc, src, _ := newTestSalesService(store.SampleSales())
	src.extra = map[string]models.SalesRecord{
		"INV-016": {ID: "INV-016", Customer: "Late Arrival", Amount: decimal.RequireFromString("10.5"), Status: models.StatusPending},
	}
	ctx := helpers.TestCtx()

	if _, err := svc.GetRecord(ctx, "INV-001"); err != nil || src.getCalls != 0 {
		t.Fatalf("snapshot hit must not query the source: err=%v calls=%d", err, src.getCalls)
	}

	got, err := svc.GetRecord(ctx, "INV-016")
	if err != nil {
		t.Fatalf("GetRecord error: %v", err)
	}
	if got.Customer != "Late Arrival" || got.AmountDisplay != "$10.50" || got.StatusLabel != "Pending" {
		t.Fatalf("fallback row mismatch: %+v", got)
	}
	if src.getCalls != 1 {
		t.Fatalf("expected one source lookup, got %d", src.getCalls)
	}
}

func TestSalesGetTablePresets(t *testing.T) {
	svc, _, _ := newTestSalesService(store.SampleSales())
	ctx := helpers.TestCtx()

	top, err := svc.GetTable(ctx, dto.SalesQuery{View: "top"})
	if err != nil {
		t.Fatalf("GetTable error: %v", err)
	}
	if top.View != "top" || top.Total != 15 || top.Records[0].ID != "INV-007" {
		t.Fatalf("top view mismatch: view=%q total=%d first=%s", top.View, top.Total, top.Records[0].ID)
	}

	recent, err := svc.GetTable(ctx, dto.SalesQuery{View: "recent", Region: "Asia"})
	if err != nil {
		t.Fatalf("GetTable error: %v", err)
	}
	if recent.Records[0].ID != "INV-015" || recent.Records[len(recent.Records)-1].ID != "INV-003" {
		t.Fatalf("recent view mismatch: first=%s last=%s", recent.Records[0].ID, recent.Records[len(recent.Records)-1].ID)
	}

	all, err := svc.GetTable(ctx, dto.SalesQuery{})
	if err != nil {
		t.Fatalf("GetTable error: %v", err)
	}
	if all.View != "all" || all.Records[0].ID != "INV-001" {
		t.Fatalf("default view mismatch: view=%q first=%s", all.View, all.Records[0].ID)
	}

	_, err = svc.GetTable(ctx, dto.SalesQuery{View: "oldest"})
	var vErr *errs.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
}

func TestSalesExportFollowsPreset(t *testing.T) {
	svc, _, _ := newTestSalesService(store.SampleSales())

	file, err := svc.Export(helpers.TestCtx(), dto.SalesQuery{Format: "json", View: "top", Category: "Services"})
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	var got []models.SalesRecord
	if err := json.Unmarshal(file.Body, &got); err != nil {
		t.Fatalf("invalid JSON export: %v", err)
	}
	if len(got) != 2 || got[0].ID != "INV-008" || got[1].ID != "INV-003" {
		t.Fatalf("export order mismatch: %+v", got)
	}
}

func TestSalesSeriesKeepsDecimalAmounts(t *testing.T) {
	svc, _, _ := newTestSalesService(store.SampleSales())

	got, err := svc.GetSeries(helpers.TestCtx(), dto.SalesQuery{Granularity: "monthly"})
	if err != nil {
		t.Fatalf("GetSeries error: %v", err)
	}
	if len(got.Points) != 1 || !got.Points[0].Amount.Equal(decimal.RequireFromString("70699.36")) {
		t.Fatalf("monthly amount mismatch: %+v", got.Points)
	}
}

func TestSalesCacheExternalErrorsDegrade(t *testing.T) {
	svc, _, cache := newTestSalesService(store.SampleSales())
	cache.getErr = errs.NewExternalServiceError("redis", "cache read failed", true, errors.New("connection refused"))
	cache.setErr = errs.NewExternalServiceError("redis", "cache write failed", false, errors.New("OOM"))

	got, err := svc.GetOverview(helpers.TestCtx())
	if err != nil {
		t.Fatalf("cache failure must not fail the request: %v", err)
	}
	if len(got.Metrics) != 4 {
		t.Fatalf("expected 4 metrics, got %d", len(got.Metrics))
	}
}

func TestSalesPageSizeOption(t *testing.T) {
	src := &fakeSalesSource{records: store.SampleSales()}
	svc := NewSalesService(src, newFakeViewCache(), SalesOptions{PageSize: 4})

	got, err := svc.GetTable(helpers.TestCtx(), dto.SalesQuery{Page: 4})
	if err != nil {
		t.Fatalf("GetTable error: %v", err)
	}
	if got.PageSize != 4 || got.PageCount != 4 || len(got.Records) != 3 || got.Records[0].ID != "INV-013" {
		t.Fatalf("page size not applied: size=%d count=%d n=%d", got.PageSize, got.PageCount, len(got.Records))
	}
}
