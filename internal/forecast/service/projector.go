package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/demandcast/internal/calendar"
	"github.com/smallbiznis/demandcast/internal/config"
	"github.com/smallbiznis/demandcast/internal/forecast/domain"
	"github.com/smallbiznis/demandcast/internal/seasonal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Config config.Config
	Repo   domain.Repository
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	repo         domain.Repository
	horizon      int
	artifactPath string
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("forecast.projector"),
		genID:        p.GenID,
		repo:         p.Repo,
		horizon:      p.Config.Pipeline.ForecastHorizonDays,
		artifactPath: p.Config.ModelArtifactPath,
	}
}

func (s *Service) Run(ctx context.Context) (int, error) {
	if s.horizon <= 0 {
		return 0, fmt.Errorf("%w: %d days", domain.ErrInvalidHorizon, s.horizon)
	}

	models, err := seasonal.LoadArtifact(s.artifactPath)
	if err != nil {
		return 0, fmt.Errorf("load model artifact: %w", err)
	}

	anchor, ok, err := s.repo.LatestInvoiceDate(ctx, s.db)
	if err != nil {
		return 0, fmt.Errorf("latest invoice date: %w", err)
	}
	if !ok {
		return 0, domain.ErrNoHistory
	}

	points := Project(models, s.horizon, anchor)
	for i := range points {
		points[i].ID = s.genID.Generate().Int64()
	}

	var cleared, stored int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if cleared, err = s.repo.DeleteAll(ctx, tx); err != nil {
			return fmt.Errorf("clear forecast points: %w", err)
		}
		if err := s.repo.InsertPoints(ctx, tx, points); err != nil {
			return fmt.Errorf("insert forecast points: %w", err)
		}
		if stored, err = s.repo.CountPoints(ctx, tx); err != nil {
			return fmt.Errorf("count forecast points: %w", err)
		}
		if stored != int64(len(points)) {
			return fmt.Errorf("forecast points: stored %d, projected %d", stored, len(points))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("forecast.projected",
		zap.Time("anchor", calendar.Day(anchor)),
		zap.Int("horizon", s.horizon),
		zap.Int("models", len(models)),
		zap.Int64("replaced", cleared),
		zap.Int64("stored", stored),
	)
	return len(points), nil
}

// Project produces horizon daily points per model, starting the day after
// anchor. Values are truncated toward zero and clamped at 0. Points are
// ordered by product id, then date.
func Project(models map[int64]seasonal.Model, horizon int, anchor time.Time) []domain.ForecastPoint {
	if horizon <= 0 {
		return nil
	}
	anchor = calendar.Day(anchor)

	ids := make([]int64, 0, len(models))
	for id := range models {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	points := make([]domain.ForecastPoint, 0, len(ids)*horizon)
	for _, id := range ids {
		values := models[id].Project(horizon)
		for h := 0; h < horizon; h++ {
			var v float64
			if h < len(values) {
				v = values[h]
			}
			points = append(points, domain.ForecastPoint{
				ProductID:       id,
				ForecastDate:    anchor.AddDate(0, 0, h+1),
				PredictedDemand: clampDemand(v),
				ModelUsed:       domain.ModelSeasonal,
			})
		}
	}
	return points
}

func clampDemand(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}
