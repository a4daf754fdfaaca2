package export

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/GregMSThompson/sales-dashboard/internal/dto"
	"github.com/GregMSThompson/sales-dashboard/internal/engine"
	"github.com/GregMSThompson/sales-dashboard/internal/errs"
	"github.com/GregMSThompson/sales-dashboard/internal/models"
)

var csvHeader = []string{"ID", "Date", "Customer", "Product", "Category", "Region", "Representative", "Amount", "Status"}

// CSVExporter writes records as CSV with a header row. Amounts keep two
// decimals and no currency symbol so spreadsheets read them as numbers.
type CSVExporter struct {
	w io.Writer
}

func NewCSVExporter(w io.Writer) *CSVExporter {
	return &CSVExporter{w: w}
}

func (e *CSVExporter) Export(records []models.SalesRecord) error {
	cw := csv.NewWriter(e.w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.ID, r.Date, r.Customer, r.Product, r.Category, r.Region, r.Representative,
			r.Amount.StringFixed(2), string(r.Status),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// JSONExporter writes records as a JSON array.
type JSONExporter struct {
	w io.Writer
}

func NewJSONExporter(w io.Writer) *JSONExporter {
	return &JSONExporter{w: w}
}

func (e *JSONExporter) Export(records []models.SalesRecord) error {
	if records == nil {
		records = []models.SalesRecord{}
	}
	enc := json.NewEncoder(e.w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// Format describes how an export is written and served.
type Format struct {
	Name        string
	ContentType string
	Extension   string
	New         func(w io.Writer) engine.Exporter
}

// Lookup resolves an export format by name. An empty name selects CSV.
func Lookup(name string) (Format, error) {
	switch name {
	case "", dto.ExportCSV:
		return Format{
			Name:        dto.ExportCSV,
			ContentType: "text/csv; charset=utf-8",
			Extension:   "csv",
			New: func(w io.Writer) engine.Exporter {
				return NewCSVExporter(w)
			},
		}, nil
	case dto.ExportJSON:
		return Format{
			Name:        dto.ExportJSON,
			ContentType: "application/json",
			Extension:   "json",
			New: func(w io.Writer) engine.Exporter {
				return NewJSONExporter(w)
			},
		}, nil
	}
	return Format{}, errs.NewUnsupportedFormatError(name)
}
