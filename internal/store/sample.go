package store

import (
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/sales-dashboard/internal/models"
)

// SampleSales returns the demo collection served by the memory source.
// Each call returns a fresh slice.
func SampleSales() []models.SalesRecord {
	rec := func(id, date, customer, product, category, region, rep, amount string, status models.SaleStatus) models.SalesRecord {
		return models.SalesRecord{
			ID:             id,
			Date:           date,
			Customer:       customer,
			Product:        product,
			Category:       category,
			Region:         region,
			Representative: rep,
			Amount:         decimal.RequireFromString(amount),
			Status:         status,
		}
	}

	return []models.SalesRecord{
		rec("INV-001", "2023-05-01", "Acme Corp", "Premium Widget", "Electronics", "North America", "John Smith", "1299.99", models.StatusCompleted),
		rec("INV-002", "2023-05-02", "TechGiant Inc", "Enterprise Solution", "Software", "Europe", "Emma Johnson", "4599.99", models.StatusCompleted),
		rec("INV-003", "2023-05-03", "Global Services", "Consulting Package", "Services", "Asia", "Michael Chen", "2899.50", models.StatusPending),
		rec("INV-004", "2023-05-04", "Retail Chain Ltd", "POS System", "Hardware", "North America", "John Smith", "3499.99", models.StatusCompleted),
		rec("INV-005", "2023-05-05", "Healthcare Plus", "Medical Software", "Software", "Europe", "Emma Johnson", "5999.99", models.StatusCancelled),
		rec("INV-006", "2023-05-06", "Education First", "Learning Platform", "Software", "Asia", "Michael Chen", "1899.99", models.StatusCompleted),
		rec("INV-007", "2023-05-07", "Manufacturing Pro", "Industrial Equipment", "Hardware", "North America", "Sarah Williams", "12499.99", models.StatusPending),
		rec("INV-008", "2023-05-08", "Logistics Co", "Fleet Management", "Services", "Europe", "Emma Johnson", "3299.99", models.StatusCompleted),
		rec("INV-009", "2023-05-09", "Startup Innovate", "Cloud Services", "Software", "Asia", "Michael Chen", "899.99", models.StatusCompleted),
		rec("INV-010", "2023-05-10", "Government Agency", "Security System", "Hardware", "North America", "John Smith", "8999.99", models.StatusPending),
		rec("INV-011", "2023-05-11", "Finance Group", "Analytics Platform", "Software", "Europe", "Sarah Williams", "4299.99", models.StatusCompleted),
		rec("INV-012", "2023-05-12", "Media Corp", "Content Management", "Software", "Asia", "Michael Chen", "2199.99", models.StatusCancelled),
		rec("INV-013", "2023-05-13", "Retail Chain Ltd", "Inventory System", "Software", "North America", "John Smith", "3799.99", models.StatusCompleted),
		rec("INV-014", "2023-05-14", "TechGiant Inc", "Server Hardware", "Hardware", "Europe", "Emma Johnson", "9499.99", models.StatusPending),
		rec("INV-015", "2023-05-15", "Healthcare Plus", "Patient Portal", "Software", "Asia", "Sarah Williams", "4999.99", models.StatusCompleted),
	}
}
