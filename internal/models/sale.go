package models

import (
	"github.com/shopspring/decimal"
)

type SaleStatus string

const (
	StatusCompleted SaleStatus = "completed"
	StatusPending   SaleStatus = "pending"
	StatusCancelled SaleStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s SaleStatus) Valid() bool {
	switch s {
	case StatusCompleted, StatusPending, StatusCancelled:
		return true
	}
	return false
}

// Label returns the status capitalised for display ("Completed").
func (s SaleStatus) Label() string {
	if s == "" {
		return ""
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}

// SalesRecord is a single sales transaction shown in the dashboard table.
type SalesRecord struct {
	ID             string          `json:"id"`   // invoice number
	Date           string          `json:"date"` // YYYY-MM-DD
	Customer       string          `json:"customer"`
	Product        string          `json:"product"`
	Category       string          `json:"category"`
	Region         string          `json:"region"`
	Representative string          `json:"representative"`
	Amount         decimal.Decimal `json:"amount"`
	Status         SaleStatus      `json:"status"`
}
