package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/demandcast/internal/calendar"
	catalogdomain "github.com/smallbiznis/demandcast/internal/catalog/domain"
	"github.com/smallbiznis/demandcast/internal/clock"
	"github.com/smallbiznis/demandcast/internal/config"
	"github.com/smallbiznis/demandcast/internal/sales/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Repo         domain.Repository
	CalendarRepo calendar.Repository
	Catalog      catalogdomain.Service
	CatalogCfg   config.CatalogConfig
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	repo         domain.Repository
	calendarRepo calendar.Repository
	catalog      catalogdomain.Service
	catalogCfg   config.CatalogConfig
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("sales.generator"),
		genID:        p.GenID,
		clock:        p.Clock,
		repo:         p.Repo,
		calendarRepo: p.CalendarRepo,
		catalog:      p.Catalog,
		catalogCfg:   p.CatalogCfg,
	}
}

func (s *Service) Run(ctx context.Context) (domain.GenerateResult, error) {
	start, end, err := s.catalogCfg.Simulation.Range()
	if err != nil {
		return domain.GenerateResult{}, err
	}

	entities, err := s.catalog.Load(ctx)
	if err != nil {
		return domain.GenerateResult{}, err
	}

	registry, err := calendar.FromConfig(s.catalogCfg, entities)
	if err != nil {
		return domain.GenerateResult{}, err
	}

	seed := s.catalogCfg.Simulation.Seed
	return s.Generate(ctx, domain.GenerateRequest{
		Start:    start,
		End:      end,
		Entities: entities,
		Registry: registry,
		Rand:     rand.New(rand.NewPCG(seed, seed)),
	})
}

func (s *Service) Generate(ctx context.Context, req domain.GenerateRequest) (domain.GenerateResult, error) {
	start, end := calendar.Day(req.Start), calendar.Day(req.End)
	if end.Before(start) {
		return domain.GenerateResult{}, domain.ErrInvalidRange
	}
	if len(req.Entities) == 0 {
		return domain.GenerateResult{}, catalogdomain.ErrEmptyCatalog
	}
	for _, e := range req.Entities {
		if e.MinPrice < 0 || e.MaxPrice < e.MinPrice {
			return domain.GenerateResult{}, fmt.Errorf("%w: product %d", domain.ErrInvalidPrice, e.ProductID)
		}
	}

	rng := req.Rand
	if rng == nil {
		seed := s.catalogCfg.Simulation.Seed
		rng = rand.New(rand.NewPCG(seed, seed))
	}
	weekendBoost := s.catalogCfg.Simulation.WeekendBoost
	if weekendBoost <= 0 {
		weekendBoost = 1.0
	}

	if err := s.reset(ctx, req.Registry); err != nil {
		return domain.GenerateResult{}, err
	}

	events, err := s.calendarRepo.ListEvents(ctx, s.db)
	if err != nil {
		return domain.GenerateResult{}, fmt.Errorf("read calendar events: %w", err)
	}
	windows, err := s.calendarRepo.ListWindows(ctx, s.db)
	if err != nil {
		return domain.GenerateResult{}, fmt.Errorf("read promotions: %w", err)
	}
	s.log.Info("sales.generate.start",
		zap.Time("start", start),
		zap.Time("end", end),
		zap.Int("entities", len(req.Entities)),
		zap.Int("calendar_events", len(events)),
		zap.Int("promotions", len(windows)),
	)

	var result domain.GenerateResult
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		lines, err := s.generateDay(ctx, day, req, rng, weekendBoost)
		if err != nil {
			return result, fmt.Errorf("generate %s: %w", day.Format(time.DateOnly), err)
		}
		result.InvoiceCount++
		result.LineCount += lines
	}

	stored, err := s.repo.CountInvoices(ctx, s.db)
	if err != nil {
		return result, fmt.Errorf("count invoices: %w", err)
	}
	s.log.Info("sales.generate.finish",
		zap.Int("invoices", result.InvoiceCount),
		zap.Int("lines", result.LineCount),
		zap.Int64("stored_invoices", stored),
	)
	return result, nil
}

// reset clears the previous history and calendar, then persists the registry in use.
func (s *Service) reset(ctx context.Context, registry *calendar.Registry) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.DeleteAll(ctx, tx); err != nil {
			return fmt.Errorf("clear sales history: %w", err)
		}
		if err := s.calendarRepo.DeleteAll(ctx, tx); err != nil {
			return fmt.Errorf("clear calendar: %w", err)
		}

		events := registry.Events()
		for i := range events {
			events[i].ID = s.genID.Generate().Int64()
		}
		if err := s.calendarRepo.InsertEvents(ctx, tx, events); err != nil {
			return fmt.Errorf("persist calendar events: %w", err)
		}

		windows := registry.Windows()
		for i := range windows {
			windows[i].ID = s.genID.Generate().Int64()
		}
		if err := s.calendarRepo.InsertWindows(ctx, tx, windows); err != nil {
			return fmt.Errorf("persist promotions: %w", err)
		}
		return nil
	})
}

func (s *Service) generateDay(ctx context.Context, day time.Time, req domain.GenerateRequest, rng domain.Rand, weekendBoost float64) (int, error) {
	holiday := req.Registry.HolidayMultiplier(day)
	weekend := 1.0
	if calendar.IsWeekend(day) {
		weekend = weekendBoost
	}

	invoice := domain.Invoice{
		ID:          s.genID.Generate().Int64(),
		InvoiceDate: day,
		CreatedAt:   s.clock.Now(),
	}

	var lines []domain.InvoiceLine
	for _, entity := range req.Entities {
		jitter := drawJitter(rng)
		if entity.BaseDemand()+jitter <= 0 {
			continue
		}
		promo := req.Registry.PromotionMultiplier(entity.ProductID, day)
		demand := Demand(entity.BaseDemand(), jitter, weekend, holiday, promo)
		price := drawPrice(rng, entity.MinPrice, entity.MaxPrice)
		if demand <= 0 {
			continue
		}
		lines = append(lines, domain.InvoiceLine{
			ID:        s.genID.Generate().Int64(),
			InvoiceID: invoice.ID,
			ProductID: entity.ProductID,
			Quantity:  demand,
			UnitPrice: price,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.InsertInvoice(ctx, tx, &invoice); err != nil {
			return err
		}
		return s.repo.InsertLines(ctx, tx, lines)
	})
	if err != nil {
		return 0, err
	}
	return len(lines), nil
}
