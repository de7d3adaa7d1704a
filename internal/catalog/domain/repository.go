package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	ListProfiles(ctx context.Context, db *gorm.DB) ([]DemandProfile, error)
	ListProducts(ctx context.Context, db *gorm.DB) ([]Product, error)
	CountProducts(ctx context.Context, db *gorm.DB) (int64, error)
	CountProfiles(ctx context.Context, db *gorm.DB) (int64, error)
	InsertProduct(ctx context.Context, db *gorm.DB, product *Product) error
	InsertProfile(ctx context.Context, db *gorm.DB, profile *DemandProfile) error
}
