package service

import (
	"context"
	"strings"

	"github.com/smallbiznis/demandcast/internal/catalog/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("catalog.service"),
		repo: p.Repo,
	}
}

func (s *Service) Load(ctx context.Context) ([]domain.Entity, error) {
	profiles, err := s.repo.ListProfiles(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, domain.ErrEmptyCatalog
	}

	products, err := s.repo.ListProducts(ctx, s.db)
	if err != nil {
		return nil, err
	}
	byCode := make(map[string]int64, len(products))
	for _, p := range products {
		byCode[strings.TrimSpace(p.StockCode)] = p.ID
	}

	entities := make([]domain.Entity, 0, len(profiles))
	for _, profile := range profiles {
		code := strings.TrimSpace(profile.StockCode)
		productID, ok := byCode[code]
		if !ok {
			s.log.Debug("catalog.profile.unmapped", zap.String("stock_code", code))
			continue
		}
		entities = append(entities, domain.Entity{
			ProductID:       productID,
			StockCode:       code,
			BaseDailyDemand: profile.BaseDailyDemand,
			MinPrice:        profile.MinPrice,
			MaxPrice:        profile.MaxPrice,
		})
	}
	if len(entities) == 0 {
		return nil, domain.ErrEmptyCatalog
	}

	s.log.Info("catalog.loaded",
		zap.Int("profiles", len(profiles)),
		zap.Int("entities", len(entities)),
	)
	return entities, nil
}
