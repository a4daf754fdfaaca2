package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/sales-dashboard/internal/errs"
	"github.com/GregMSThompson/sales-dashboard/internal/models"
	"github.com/GregMSThompson/sales-dashboard/pkg/logger"
)

// saleDoc is the Firestore shape of a SalesRecord. Amounts are stored as
// decimal strings to avoid float rounding.
type saleDoc struct {
	ID             string    `firestore:"id"`
	Date           string    `firestore:"date"`
	Customer       string    `firestore:"customer"`
	Product        string    `firestore:"product"`
	Category       string    `firestore:"category"`
	Region         string    `firestore:"region"`
	Representative string    `firestore:"representative"`
	Amount         string    `firestore:"amount"`
	Status         string    `firestore:"status"`
	UpdatedAt      time.Time `firestore:"updatedAt"`
}

func toDoc(r models.SalesRecord, now time.Time) saleDoc {
	return saleDoc{
		ID:             r.ID,
		Date:           r.Date,
		Customer:       r.Customer,
		Product:        r.Product,
		Category:       r.Category,
		Region:         r.Region,
		Representative: r.Representative,
		Amount:         r.Amount.String(),
		Status:         string(r.Status),
		UpdatedAt:      now,
	}
}

func (d saleDoc) toRecord() (models.SalesRecord, error) {
	amount, err := decimal.NewFromString(d.Amount)
	if err != nil {
		return models.SalesRecord{}, err
	}
	return models.SalesRecord{
		ID:             d.ID,
		Date:           d.Date,
		Customer:       d.Customer,
		Product:        d.Product,
		Category:       d.Category,
		Region:         d.Region,
		Representative: d.Representative,
		Amount:         amount,
		Status:         models.SaleStatus(d.Status),
	}, nil
}

type salesStore struct {
	client *firestore.Client
}

func NewSalesStore(client *firestore.Client) *salesStore {
	return &salesStore{client: client}
}

func (s *salesStore) collection() *firestore.CollectionRef {
	return s.client.Collection("sales")
}

// List returns every sale ordered by date, then invoice id.
func (s *salesStore) List(ctx context.Context) ([]models.SalesRecord, error) {
	docs, err := s.collection().OrderBy("date", firestore.Asc).OrderBy("id", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list sales", err)
	}
	records := make([]models.SalesRecord, 0, len(docs))
	for _, d := range docs {
		var doc saleDoc
		if err := d.DataTo(&doc); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse sale data", err)
		}
		r, err := doc.toRecord()
		if err != nil {
			return nil, errs.NewDatabaseError("read", "invalid amount on sale "+d.Ref.ID, err)
		}
		records = append(records, r)
	}
	return records, nil
}

func (s *salesStore) Get(ctx context.Context, id string) (*models.SalesRecord, error) {
	snap, err := s.collection().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("sale not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get sale", err)
	}
	var doc saleDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse sale data", err)
	}
	r, err := doc.toRecord()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "invalid amount on sale "+id, err)
	}
	return &r, nil
}

// UpsertBatch writes records keyed by invoice id.
func (s *salesStore) UpsertBatch(ctx context.Context, records []models.SalesRecord) error {
	if len(records) == 0 {
		return nil
	}
	log := logger.FromContext(ctx)

	bw := s.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(records))
	now := time.Now()

	for _, r := range records {
		job, err := bw.Set(s.collection().Doc(r.ID), toDoc(r, now))
		if err != nil {
			bw.End()
			return errs.NewDatabaseError("write", "failed to schedule sale write", err)
		}
		jobs = append(jobs, job)
	}

	// Flush and close the writer, then wait on each job for errors.
	bw.End()
	for i, job := range jobs {
		if _, err := job.Results(); err != nil {
			log.Error("failed to write sale", "sale_id", records[i].ID, "error", err)
			return errs.NewDatabaseError("write", "failed to write sale", err)
		}
	}
	return nil
}
