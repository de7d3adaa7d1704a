package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/demandcast/internal/catalog/domain"
	"github.com/smallbiznis/demandcast/internal/config"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Result reports how many catalog rows were inserted.
type Result struct {
	Products int
	Profiles int
}

// EnsureCatalog seeds the product registry and demand profiles from cfg.
// Each table is only filled while it is empty, so operator-managed catalogs
// are left untouched.
func EnsureCatalog(ctx context.Context, db *gorm.DB, node *snowflake.Node, repo catalogdomain.Repository, cfg config.CatalogConfig, now time.Time, log *zap.Logger) (Result, error) {
	if db == nil {
		return Result{}, errors.New("seed database handle is required")
	}
	if node == nil || repo == nil {
		return Result{}, errors.New("seed id generator and repository are required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	var result Result
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products, err := repo.CountProducts(ctx, tx)
		if err != nil {
			return err
		}
		if products == 0 {
			for _, p := range cfg.Products {
				name := strings.TrimSpace(p.Name)
				if name == "" {
					name = p.StockCode
				}
				err := repo.InsertProduct(ctx, tx, &catalogdomain.Product{
					ID:        node.Generate().Int64(),
					StockCode: strings.TrimSpace(p.StockCode),
					Name:      name,
					CreatedAt: now.UTC(),
				})
				if err != nil {
					return err
				}
				result.Products++
			}
		}

		profiles, err := repo.CountProfiles(ctx, tx)
		if err != nil {
			return err
		}
		if profiles == 0 {
			for i, p := range cfg.Products {
				err := repo.InsertProfile(ctx, tx, &catalogdomain.DemandProfile{
					StockCode:       strings.TrimSpace(p.StockCode),
					BaseDailyDemand: p.BaseDailyDemand,
					MinPrice:        p.MinPrice,
					MaxPrice:        p.MaxPrice,
					Position:        i,
				})
				if err != nil {
					return err
				}
				result.Profiles++
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	log.Info("seed.catalog.ensured",
		zap.Int("products_inserted", result.Products),
		zap.Int("profiles_inserted", result.Profiles),
	)
	return result, nil
}
