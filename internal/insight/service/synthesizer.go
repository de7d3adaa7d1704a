package service

import (
	"context"
	"fmt"
	"math"

	"github.com/smallbiznis/demandcast/internal/clock"
	forecastdomain "github.com/smallbiznis/demandcast/internal/forecast/domain"
	"github.com/smallbiznis/demandcast/internal/insight/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Clock        clock.Clock
	ForecastRepo forecastdomain.Repository
	Store        domain.Store
	Generator    domain.TextGenerator
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	clock        clock.Clock
	forecastRepo forecastdomain.Repository
	store        domain.Store
	generator    domain.TextGenerator
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("insight.synthesizer"),
		clock:        p.Clock,
		forecastRepo: p.ForecastRepo,
		store:        p.Store,
		generator:    p.Generator,
	}
}

func (s *Service) Run(ctx context.Context) ([]domain.InsightRecord, error) {
	deleted, err := s.store.DeleteAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("clear insights: %w", err)
	}
	s.log.Info("insight.store.cleared", zap.Int64("deleted", deleted))

	averages, err := s.forecastRepo.AverageDemand(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("average forecast demand: %w", err)
	}

	records := make([]domain.InsightRecord, 0, len(averages))
	for _, avg := range averages {
		rounded := RoundDemand(avg.AvgDemand)

		summary, err := s.generator.Generate(ctx, BuildPrompt(avg.ProductID, rounded))
		if err != nil {
			return records, fmt.Errorf("generate insight for product %d: %w", avg.ProductID, err)
		}

		record := domain.InsightRecord{
			ProductID:          avg.ProductID,
			AvgPredictedDemand: rounded,
			ModelUsed:          avg.ModelUsed,
			Summary:            summary,
			CreatedAt:          s.clock.Now(),
		}
		if err := s.store.InsertOne(ctx, record); err != nil {
			return records, fmt.Errorf("store insight for product %d: %w", avg.ProductID, err)
		}
		records = append(records, record)

		s.log.Debug("insight.generated",
			zap.Int64("product_id", avg.ProductID),
			zap.Int("avg_predicted_demand", rounded),
		)
	}

	s.log.Info("insight.synthesized", zap.Int("records", len(records)))
	return records, nil
}

// RoundDemand rounds an average to the nearest integer, halves to even.
func RoundDemand(v float64) int {
	return int(math.RoundToEven(v))
}
