package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	DeleteAll(ctx context.Context, db *gorm.DB) (int64, error)
	InsertPoints(ctx context.Context, db *gorm.DB, points []ForecastPoint) error
	// LatestInvoiceDate returns the most recent invoice day, or false when there are no invoices.
	LatestInvoiceDate(ctx context.Context, db *gorm.DB) (time.Time, bool, error)
	AverageDemand(ctx context.Context, db *gorm.DB) ([]DemandAverage, error)
	CountPoints(ctx context.Context, db *gorm.DB) (int64, error)
}
