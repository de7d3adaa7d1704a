package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smallbiznis/demandcast/internal/catalog/domain"
	"github.com/smallbiznis/demandcast/internal/catalog/repository"
	"github.com/smallbiznis/demandcast/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func setupCatalog(t *testing.T) (*gorm.DB, domain.Repository, domain.Service) {
	t.Helper()
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Product{}, &domain.DemandProfile{}))

	repo := repository.Provide()
	svc := New(Params{DB: conn, Log: zaptest.NewLogger(t), Repo: repo})
	return conn, repo, svc
}

func intPtr(v int) *int { return &v }

func TestLoadReturnsCatalogOrderAndSkipsUnmapped(t *testing.T) {
	conn, repo, svc := setupCatalog(t)
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.InsertProduct(ctx, conn, &domain.Product{ID: 10, StockCode: "85123A", Name: "Holder", CreatedAt: now}))
	require.NoError(t, repo.InsertProduct(ctx, conn, &domain.Product{ID: 20, StockCode: "22423", Name: "Cakestand", CreatedAt: now}))

	require.NoError(t, repo.InsertProfile(ctx, conn, &domain.DemandProfile{StockCode: "22423", BaseDailyDemand: intPtr(6), MinPrice: 10.95, MaxPrice: 12.75, Position: 0}))
	require.NoError(t, repo.InsertProfile(ctx, conn, &domain.DemandProfile{StockCode: "UNMAPPED", BaseDailyDemand: intPtr(3), MinPrice: 1, MaxPrice: 2, Position: 1}))
	require.NoError(t, repo.InsertProfile(ctx, conn, &domain.DemandProfile{StockCode: "85123A", MinPrice: 2.55, MaxPrice: 3.25, Position: 2}))

	entities, err := svc.Load(ctx)
	require.NoError(t, err)
	require.Len(t, entities, 2)

	assert.Equal(t, int64(20), entities[0].ProductID)
	assert.Equal(t, 6, entities[0].BaseDemand())
	assert.Equal(t, int64(10), entities[1].ProductID)
	assert.Nil(t, entities[1].BaseDailyDemand)
	assert.Equal(t, domain.DefaultBaseDemand, entities[1].BaseDemand())
	assert.Equal(t, 3.25, entities[1].MaxPrice)
}

func TestLoadEmptyCatalog(t *testing.T) {
	_, _, svc := setupCatalog(t)

	_, err := svc.Load(context.Background())
	if !errors.Is(err, domain.ErrEmptyCatalog) {
		t.Fatalf("expected ErrEmptyCatalog, got %v", err)
	}
}

func TestLoadAllUnmapped(t *testing.T) {
	conn, repo, svc := setupCatalog(t)
	ctx := context.Background()
	require.NoError(t, repo.InsertProfile(ctx, conn, &domain.DemandProfile{StockCode: "GHOST", MinPrice: 1, MaxPrice: 1}))

	_, err := svc.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrEmptyCatalog)
}

func TestBaseDemandZeroFallsBack(t *testing.T) {
	e := domain.Entity{BaseDailyDemand: intPtr(0)}
	assert.Equal(t, domain.DefaultBaseDemand, e.BaseDemand())
}
