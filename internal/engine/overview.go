package engine

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/sales-dashboard/internal/models"
	"github.com/GregMSThompson/sales-dashboard/pkg/helpers"
)

// Targets are the goals the overview progress bars are measured against.
// A zero target means no progress is reported for that metric.
type Targets struct {
	Revenue   decimal.Decimal
	Customers int
	Sales     int
}

type periodTotals struct {
	revenue   decimal.Decimal
	sales     int
	customers map[string]struct{}
}

func newPeriodTotals() *periodTotals {
	return &periodTotals{revenue: decimal.Zero, customers: map[string]struct{}{}}
}

func (p *periodTotals) add(r *models.SalesRecord) {
	p.revenue = p.revenue.Add(r.Amount)
	p.sales++
	p.customers[r.Customer] = struct{}{}
}

// Overview computes the metric cards for records. Cancelled sales are left
// out. Change and trend compare the later half of the covered date span with
// the earlier half; they are omitted when the records cover a single day.
//
// Growth Rate is the revenue change shown as the card value. Its Change and
// Trend repeat that figure: the collection holds two comparable periods, so
// there is no earlier growth rate to measure it against.
func Overview(records []models.SalesRecord, targets Targets, currency string) []models.Metric {
	total := newPeriodTotals()
	var first, last time.Time
	for i := range records {
		r := &records[i]
		if r.Status == models.StatusCancelled {
			continue
		}
		total.add(r)
		if d, ok := parseDate(r.Date); ok {
			if first.IsZero() || d.Before(first) {
				first = d
			}
			if last.IsZero() || d.After(last) {
				last = d
			}
		}
	}

	var prev, cur *periodTotals
	if !first.IsZero() && last.After(first) {
		days := int(last.Sub(first).Hours() / 24)
		mid := first.AddDate(0, 0, (days+1)/2)
		prev, cur = newPeriodTotals(), newPeriodTotals()
		for i := range records {
			r := &records[i]
			if r.Status == models.StatusCancelled {
				continue
			}
			d, ok := parseDate(r.Date)
			if !ok {
				continue
			}
			if d.Before(mid) {
				prev.add(r)
			} else {
				cur.add(r)
			}
		}
	}

	revenue := models.Metric{
		Title:    "Total Revenue",
		Value:    helpers.FormatCurrency(total.revenue, currency),
		Progress: progress(total.revenue, targets.Revenue),
	}
	customers := models.Metric{
		Title:    "Customers",
		Value:    helpers.FormatInt(len(total.customers)),
		Progress: progress(decimal.NewFromInt(int64(len(total.customers))), decimal.NewFromInt(int64(targets.Customers))),
	}
	sales := models.Metric{
		Title:    "Total Sales",
		Value:    helpers.FormatInt(total.sales),
		Progress: progress(decimal.NewFromInt(int64(total.sales)), decimal.NewFromInt(int64(targets.Sales))),
	}
	growth := models.Metric{
		Title: "Growth Rate",
		Value: helpers.FormatPercent(0),
	}

	if prev != nil {
		revenue.Change, revenue.Trend = compare(prev.revenue, cur.revenue)
		customers.Change, customers.Trend = compare(
			decimal.NewFromInt(int64(len(prev.customers))), decimal.NewFromInt(int64(len(cur.customers))))
		sales.Change, sales.Trend = compare(decimal.NewFromInt(int64(prev.sales)), decimal.NewFromInt(int64(cur.sales)))
		growth.Change, growth.Trend = revenue.Change, revenue.Trend
		growth.Value = helpers.FormatPercent(revenue.Change)
	}

	return []models.Metric{revenue, customers, sales, growth}
}

// compare returns the percentage change from prev to cur, rounded to one
// decimal, and its direction. A zero baseline reports no percentage.
func compare(prev, cur decimal.Decimal) (float64, *models.Trend) {
	var change float64
	if !prev.IsZero() {
		change = cur.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100)).Round(1).InexactFloat64()
	}
	trend := models.TrendNeutral
	switch cur.Cmp(prev) {
	case 1:
		trend = models.TrendUp
	case -1:
		trend = models.TrendDown
	}
	return change, helpers.Ptr(trend)
}

func progress(actual, target decimal.Decimal) *int {
	if !target.IsPositive() {
		return nil
	}
	p := int(math.Round(actual.Div(target).Mul(decimal.NewFromInt(100)).InexactFloat64()))
	return helpers.Ptr(max(p, 0))
}
