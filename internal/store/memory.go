package store

import (
	"context"
	"slices"

	"github.com/GregMSThompson/sales-dashboard/internal/errs"
	"github.com/GregMSThompson/sales-dashboard/internal/models"
)

// MemoryStore serves a fixed collection from memory, for demos and tests.
// The collection is never modified after construction.
type MemoryStore struct {
	records []models.SalesRecord
}

func NewMemoryStore(records []models.SalesRecord) *MemoryStore {
	return &MemoryStore{records: slices.Clone(records)}
}

func (s *MemoryStore) List(_ context.Context) ([]models.SalesRecord, error) {
	return slices.Clone(s.records), nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.SalesRecord, error) {
	i := slices.IndexFunc(s.records, func(r models.SalesRecord) bool { return r.ID == id })
	if i < 0 {
		return nil, errs.NewNotFoundError("sale not found")
	}
	r := s.records[i]
	return &r, nil
}
