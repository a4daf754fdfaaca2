package store

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/sales-dashboard/internal/errs"
)

func TestMemoryStoreListReturnsCopy(t *testing.T) {
	s := NewMemoryStore(SampleSales())

	got, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 15 {
		t.Fatalf("expected 15 records, got %d", len(got))
	}
	got[0].Customer = "mutated"

	again, _ := s.List(context.Background())
	if again[0].Customer != "Acme Corp" {
		t.Fatalf("List leaked internal state: %q", again[0].Customer)
	}
}

func TestMemoryStoreGet(t *testing.T) {
	s := NewMemoryStore(SampleSales())

	r, err := s.Get(context.Background(), "INV-007")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if r.Customer != "Manufacturing Pro" || !r.Amount.Equal(decimal.RequireFromString("12499.99")) {
		t.Fatalf("record mismatch: %+v", r)
	}

	_, err = s.Get(context.Background(), "INV-999")
	var nf *errs.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %T", err)
	}
}

func TestSampleSalesInvariants(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range SampleSales() {
		if seen[r.ID] {
			t.Fatalf("duplicate id %s", r.ID)
		}
		seen[r.ID] = true
		if r.Amount.IsNegative() {
			t.Fatalf("negative amount on %s", r.ID)
		}
		if !r.Status.Valid() {
			t.Fatalf("invalid status on %s: %q", r.ID, r.Status)
		}
	}
}
