package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	DeleteAll(ctx context.Context, db *gorm.DB) error
	InsertInvoice(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	InsertLines(ctx context.Context, db *gorm.DB, lines []InvoiceLine) error
	CountInvoices(ctx context.Context, db *gorm.DB) (int64, error)
}
