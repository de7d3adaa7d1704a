package repository

import (
	"context"
	"time"

	"github.com/smallbiznis/demandcast/internal/forecast/domain"
	salesdomain "github.com/smallbiznis/demandcast/internal/sales/domain"
	"gorm.io/gorm"
)

const insertBatchSize = 500

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) DeleteAll(ctx context.Context, db *gorm.DB) (int64, error) {
	res := db.WithContext(ctx).Exec(`DELETE FROM forecast_points`)
	return res.RowsAffected, res.Error
}

func (r *repo) InsertPoints(ctx context.Context, db *gorm.DB, points []domain.ForecastPoint) error {
	if len(points) == 0 {
		return nil
	}
	return db.WithContext(ctx).CreateInBatches(&points, insertBatchSize).Error
}

func (r *repo) LatestInvoiceDate(ctx context.Context, db *gorm.DB) (time.Time, bool, error) {
	var invoices []salesdomain.Invoice
	err := db.WithContext(ctx).
		Select("id", "invoice_date").
		Order("invoice_date DESC").
		Limit(1).
		Find(&invoices).Error
	if err != nil {
		return time.Time{}, false, err
	}
	if len(invoices) == 0 {
		return time.Time{}, false, nil
	}
	return invoices[0].InvoiceDate, true, nil
}

func (r *repo) AverageDemand(ctx context.Context, db *gorm.DB) ([]domain.DemandAverage, error) {
	var items []domain.DemandAverage
	err := db.WithContext(ctx).Raw(
		`SELECT product_id, model_used, AVG(predicted_demand) AS avg_demand
		 FROM forecast_points
		 GROUP BY product_id, model_used
		 ORDER BY product_id ASC, model_used ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) CountPoints(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.ForecastPoint{}).Count(&count).Error
	return count, err
}
