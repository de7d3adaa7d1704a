package repository

import (
	"context"

	"github.com/smallbiznis/demandcast/internal/sales/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

// DeleteAll removes every invoice line and invoice, lines first.
func (r *repo) DeleteAll(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).Exec(`DELETE FROM invoice_lines`).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Exec(`DELETE FROM invoices`).Error
}

func (r *repo) InsertInvoice(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO invoices (id, invoice_date, created_at) VALUES (?, ?, ?)`,
		invoice.ID,
		invoice.InvoiceDate,
		invoice.CreatedAt,
	).Error
}

func (r *repo) InsertLines(ctx context.Context, db *gorm.DB, lines []domain.InvoiceLine) error {
	if len(lines) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&lines).Error
}

func (r *repo) CountInvoices(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.Invoice{}).Count(&count).Error
	return count, err
}
