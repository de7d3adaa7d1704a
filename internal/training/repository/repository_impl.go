package repository

import (
	"context"

	salesdomain "github.com/smallbiznis/demandcast/internal/sales/domain"
	"github.com/smallbiznis/demandcast/internal/training/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListInvoiceDays(ctx context.Context, db *gorm.DB) ([]domain.InvoiceDay, error) {
	var invoices []salesdomain.Invoice
	err := db.WithContext(ctx).
		Select("id", "invoice_date").
		Order("invoice_date ASC").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.InvoiceDay, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, domain.InvoiceDay{ID: inv.ID, InvoiceDate: inv.InvoiceDate})
	}
	return out, nil
}

func (r *repo) SumLinesByInvoice(ctx context.Context, db *gorm.DB) ([]domain.LineTotal, error) {
	var items []domain.LineTotal
	err := db.WithContext(ctx).Raw(
		`SELECT invoice_id, product_id, SUM(quantity) AS quantity
		 FROM invoice_lines
		 GROUP BY invoice_id, product_id`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
