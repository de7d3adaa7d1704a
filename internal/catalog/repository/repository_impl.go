package repository

import (
	"context"

	"github.com/smallbiznis/demandcast/internal/catalog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListProfiles(ctx context.Context, db *gorm.DB) ([]domain.DemandProfile, error) {
	var items []domain.DemandProfile
	err := db.WithContext(ctx).Raw(
		`SELECT stock_code, base_daily_demand, min_price, max_price, position
		 FROM demand_profiles ORDER BY position ASC, stock_code ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListProducts(ctx context.Context, db *gorm.DB) ([]domain.Product, error) {
	var items []domain.Product
	err := db.WithContext(ctx).Raw(
		`SELECT id, stock_code, name, created_at FROM products ORDER BY id ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) CountProducts(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.Product{}).Count(&count).Error
	return count, err
}

func (r *repo) CountProfiles(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.DemandProfile{}).Count(&count).Error
	return count, err
}

func (r *repo) InsertProduct(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO products (id, stock_code, name, created_at) VALUES (?, ?, ?, ?)`,
		product.ID,
		product.StockCode,
		product.Name,
		product.CreatedAt,
	).Error
}

func (r *repo) InsertProfile(ctx context.Context, db *gorm.DB, profile *domain.DemandProfile) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO demand_profiles (stock_code, base_daily_demand, min_price, max_price, position)
		 VALUES (?, ?, ?, ?, ?)`,
		profile.StockCode,
		profile.BaseDailyDemand,
		profile.MinPrice,
		profile.MaxPrice,
		profile.Position,
	).Error
}
