package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// InvoiceDay is an invoice identifier with its day.
type InvoiceDay struct {
	ID          int64
	InvoiceDate time.Time
}

// LineTotal is the quantity of one product on one invoice.
type LineTotal struct {
	InvoiceID int64
	ProductID int64
	Quantity  int
}

type Repository interface {
	ListInvoiceDays(ctx context.Context, db *gorm.DB) ([]InvoiceDay, error)
	SumLinesByInvoice(ctx context.Context, db *gorm.DB) ([]LineTotal, error)
}
