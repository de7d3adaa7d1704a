package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/smallbiznis/demandcast/internal/calendar"
	"github.com/smallbiznis/demandcast/internal/config"
	"github.com/smallbiznis/demandcast/internal/observability/metrics"
	"github.com/smallbiznis/demandcast/internal/seasonal"
	"github.com/smallbiznis/demandcast/internal/training/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Config  config.Config
	Repo    domain.Repository
	Fitter  seasonal.Fitter
	Options seasonal.Options
	Metrics *metrics.PipelineMetrics `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	repo         domain.Repository
	fitter       seasonal.Fitter
	options      seasonal.Options
	metrics      *metrics.PipelineMetrics
	artifactPath string
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("training.service"),
		repo:         p.Repo,
		fitter:       p.Fitter,
		options:      p.Options,
		metrics:      p.Metrics,
		artifactPath: p.Config.ModelArtifactPath,
	}
}

func (s *Service) Run(ctx context.Context) (domain.TrainResult, error) {
	history, start, end, err := s.loadHistory(ctx)
	if err != nil {
		return domain.TrainResult{}, err
	}

	result := s.Train(ctx, history, start, end)
	if err := ctx.Err(); err != nil {
		return result, err
	}
	if len(result.Models) == 0 {
		return result, fmt.Errorf("%w: %d fits failed", domain.ErrNoModels, len(result.Failures))
	}

	if err := seasonal.SaveArtifact(s.artifactPath, result.Models); err != nil {
		return result, fmt.Errorf("save model artifact: %w", err)
	}
	s.log.Info("training.artifact.saved",
		zap.String("path", s.artifactPath),
		zap.Int("models", len(result.Models)),
		zap.Int("failures", len(result.Failures)),
	)
	return result, nil
}

func (s *Service) Train(ctx context.Context, history []domain.Observation, start, end time.Time) domain.TrainResult {
	series := Reshape(history, start, end)

	ids := make([]int64, 0, len(series))
	for id := range series {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	result := domain.TrainResult{
		Models:   make(map[int64]seasonal.Model, len(ids)),
		Failures: make(map[int64]error),
	}
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		model, err := s.fitter.Fit(series[id], s.options)
		if err != nil {
			result.Failures[id] = err
			s.metrics.IncFitFailure()
			s.log.Warn("training.fit.failed",
				zap.Int64("product_id", id),
				zap.Int("observations", len(series[id])),
				zap.Error(err),
			)
			continue
		}
		result.Models[id] = model
		s.log.Debug("training.fit.ok", zap.Int64("product_id", id))
	}
	return result
}

// loadHistory aggregates invoice lines into per-day product totals. The
// returned range spans the first to the last invoice day, including days
// whose invoice has no lines.
func (s *Service) loadHistory(ctx context.Context) ([]domain.Observation, time.Time, time.Time, error) {
	invoices, err := s.repo.ListInvoiceDays(ctx, s.db)
	if err != nil {
		return nil, time.Time{}, time.Time{}, fmt.Errorf("load invoices: %w", err)
	}
	if len(invoices) == 0 {
		return nil, time.Time{}, time.Time{}, domain.ErrNoHistory
	}

	totals, err := s.repo.SumLinesByInvoice(ctx, s.db)
	if err != nil {
		return nil, time.Time{}, time.Time{}, fmt.Errorf("load invoice lines: %w", err)
	}
	if len(totals) == 0 {
		return nil, time.Time{}, time.Time{}, domain.ErrNoHistory
	}

	dates := make(map[int64]time.Time, len(invoices))
	start, end := calendar.Day(invoices[0].InvoiceDate), calendar.Day(invoices[0].InvoiceDate)
	for _, inv := range invoices {
		d := calendar.Day(inv.InvoiceDate)
		dates[inv.ID] = d
		if d.Before(start) {
			start = d
		}
		if d.After(end) {
			end = d
		}
	}

	history := make([]domain.Observation, 0, len(totals))
	for _, t := range totals {
		d, ok := dates[t.InvoiceID]
		if !ok {
			continue
		}
		history = append(history, domain.Observation{ProductID: t.ProductID, Date: d, Quantity: t.Quantity})
	}

	s.log.Info("training.history.loaded",
		zap.Int("invoices", len(invoices)),
		zap.Int("observations", len(history)),
		zap.Time("start", start),
		zap.Time("end", end),
	)
	return history, start, end, nil
}

// Reshape builds a gap-free daily series per product over [start, end].
// Days without sales are 0 and observations outside the range are dropped.
func Reshape(history []domain.Observation, start, end time.Time) map[int64][]float64 {
	start, end = calendar.Day(start), calendar.Day(end)
	days := calendar.DaysBetween(start, end)
	if days == 0 {
		return map[int64][]float64{}
	}

	out := make(map[int64][]float64)
	for _, obs := range history {
		d := calendar.Day(obs.Date)
		if d.Before(start) || d.After(end) {
			continue
		}
		series, ok := out[obs.ProductID]
		if !ok {
			series = make([]float64, days)
			out[obs.ProductID] = series
		}
		series[calendar.DaysBetween(start, d)-1] += float64(obs.Quantity)
	}
	return out
}
