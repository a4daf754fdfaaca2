package engine

import (
	"slices"

	"github.com/GregMSThompson/sales-dashboard/internal/errs"
	"github.com/GregMSThompson/sales-dashboard/internal/models"
)

// Preset is one of the table tabs. It orders the filtered records and never
// removes any.
type Preset string

const (
	PresetAll    Preset = "all"
	PresetRecent Preset = "recent"
	PresetTop    Preset = "top"
)

// ParsePreset accepts a tab name; empty selects PresetAll.
func ParsePreset(s string) (Preset, error) {
	switch p := Preset(s); p {
	case "":
		return PresetAll, nil
	case PresetAll, PresetRecent, PresetTop:
		return p, nil
	}
	return "", errs.NewValidationError("view must be one of: all, recent, top")
}

// ApplyPreset returns records in the order p shows them. PresetAll keeps the
// collection order and returns records as given; the other presets sort a
// copy, stable on ties:
//   - recent: newest date first, unparseable dates last
//   - top: highest amount first
func ApplyPreset(records []models.SalesRecord, p Preset) []models.SalesRecord {
	switch p {
	case PresetRecent:
		out := slices.Clone(records)
		slices.SortStableFunc(out, func(a, b models.SalesRecord) int {
			da, okA := parseDate(a.Date)
			db, okB := parseDate(b.Date)
			switch {
			case !okA && !okB:
				return 0
			case !okA:
				return 1
			case !okB:
				return -1
			}
			return db.Compare(da)
		})
		return out
	case PresetTop:
		out := slices.Clone(records)
		slices.SortStableFunc(out, func(a, b models.SalesRecord) int {
			return b.Amount.Cmp(a.Amount)
		})
		return out
	default:
		return records
	}
}
