package engine

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/sales-dashboard/internal/errs"
	"github.com/GregMSThompson/sales-dashboard/internal/models"
)

type Granularity string

const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
	Yearly  Granularity = "yearly"
)

func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(s); g {
	case Daily, Weekly, Monthly, Yearly:
		return g, nil
	}
	return "", errs.NewUnsupportedGranularityError(s)
}

// PeriodStart truncates t to the first day of its period. Weeks start on
// Monday.
func (g Granularity) PeriodStart(t time.Time) time.Time {
	y, m, d := t.Date()
	switch g {
	case Weekly:
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		weekday := int(day.Weekday())
		if weekday == 0 {
			weekday = 7 // ISO: Sunday = 7
		}
		return day.AddDate(0, 0, -(weekday - 1))
	case Monthly:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	case Yearly:
		return time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
}

// Label formats a period start for the chart axis.
func (g Granularity) Label(start time.Time) string {
	switch g {
	case Monthly:
		return start.Format("Jan 2006")
	case Yearly:
		return start.Format("2006")
	default:
		return start.Format(dateLayout)
	}
}

// SeriesPoint is one aggregated period of the sales chart.
type SeriesPoint struct {
	Period    time.Time       `json:"period"`
	Label     string          `json:"label"`
	Amount    decimal.Decimal `json:"amount"`
	Orders    int             `json:"orders"`
	Customers int             `json:"customers"`
}

// Aggregate buckets records by the period of their date and returns one
// point per period that has records, oldest first. Empty periods are not
// filled in. Records whose date does not parse are skipped.
func Aggregate(records []models.SalesRecord, g Granularity) []SeriesPoint {
	type bucket struct {
		point     SeriesPoint
		customers map[string]struct{}
	}
	buckets := map[time.Time]*bucket{}

	for i := range records {
		d, ok := parseDate(records[i].Date)
		if !ok {
			continue
		}
		start := g.PeriodStart(d)
		b, ok := buckets[start]
		if !ok {
			b = &bucket{
				point:     SeriesPoint{Period: start, Label: g.Label(start), Amount: decimal.Zero},
				customers: map[string]struct{}{},
			}
			buckets[start] = b
		}
		b.point.Amount = b.point.Amount.Add(records[i].Amount)
		b.point.Orders++
		b.customers[records[i].Customer] = struct{}{}
	}

	points := make([]SeriesPoint, 0, len(buckets))
	for _, b := range buckets {
		b.point.Customers = len(b.customers)
		points = append(points, b.point)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Period.Before(points[j].Period) })
	return points
}
