package dto

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/sales-dashboard/internal/errs"
	"github.com/GregMSThompson/sales-dashboard/internal/models"
	"github.com/GregMSThompson/sales-dashboard/pkg/helpers"
)

const (
	ExportCSV  = "csv"
	ExportJSON = "json"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// SalesQuery is the query string accepted by the sales endpoints.
type SalesQuery struct {
	Search         string `validate:"max=200"`
	From           string `validate:"omitempty,datetime=2006-01-02"`
	To             string `validate:"omitempty,datetime=2006-01-02"`
	Category       string `validate:"max=100"`
	Region         string `validate:"max=100"`
	Representative string `validate:"max=100"`
	Page           int
	Granularity    string `validate:"omitempty,oneof=daily weekly monthly yearly"`
	Format         string `validate:"omitempty,oneof=csv json"`
	View           string `validate:"omitempty,oneof=all recent top"`
}

// Validate checks the query against its struct tags and returns a
// ValidationError naming the first offending field.
func (q SalesQuery) Validate() error {
	err := validate.Struct(q)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errs.NewValidationError(err.Error())
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "datetime":
		return errs.NewValidationError(fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field))
	case "oneof":
		return errs.NewValidationError(fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", ")))
	case "max":
		return errs.NewValidationError(fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
	default:
		return errs.NewValidationError(fmt.Sprintf("%s is invalid", field))
	}
}

func (q SalesQuery) FilterSpec() FilterSpec {
	spec := FilterSpec{
		Search:         q.Search,
		Category:       q.Category,
		Region:         q.Region,
		Representative: q.Representative,
	}
	if q.From != "" {
		spec.DateRange.From = helpers.Ptr(q.From)
	}
	if q.To != "" {
		spec.DateRange.To = helpers.Ptr(q.To)
	}
	return spec
}

// CacheKey identifies the query for the view cache. Every field, including
// page, granularity, format and view, is hashed from its JSON encoding so
// values containing separators cannot collide.
func (q SalesQuery) CacheKey() string {
	// SalesQuery holds only strings and ints, so encoding cannot fail
	b, _ := json.Marshal(q)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// SalesRow is a record as shown in the transactions table.
type SalesRow struct {
	models.SalesRecord
	AmountDisplay string `json:"amountDisplay"`
	StatusLabel   string `json:"statusLabel"`
}

type FacetsResponse struct {
	Categories      []string `json:"categories"`
	Regions         []string `json:"regions"`
	Representatives []string `json:"representatives"`
}

type TablePageResponse struct {
	Records     []SalesRow     `json:"records"`
	Total       int            `json:"total"`
	PageCount   int            `json:"pageCount"`
	CurrentPage int            `json:"currentPage"`
	PageSize    int            `json:"pageSize"`
	HasPrevious bool           `json:"hasPrevious"`
	HasNext     bool           `json:"hasNext"`
	Filter      FilterSpec     `json:"filter"`
	View        string         `json:"view"`
	Facets      FacetsResponse `json:"facets"`
}

type SeriesPointResponse struct {
	Period    string          `json:"period"`
	Label     string          `json:"label"`
	Amount    decimal.Decimal `json:"amount"`
	Orders    int             `json:"orders"`
	Customers int             `json:"customers"`
}

type SeriesResponse struct {
	Granularity string                `json:"granularity"`
	Points      []SeriesPointResponse `json:"points"`
}

type OverviewResponse struct {
	Metrics []models.Metric `json:"metrics"`
}

type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

type RefreshResponse struct {
	Version  string    `json:"version"`
	Records  int       `json:"records"`
	LoadedAt time.Time `json:"loadedAt"`
}
