package insight

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/demandcast/internal/config"
	"github.com/smallbiznis/demandcast/internal/insight/domain"
	"github.com/smallbiznis/demandcast/internal/insight/service"
	"github.com/smallbiznis/demandcast/internal/insight/store"
	"github.com/smallbiznis/demandcast/internal/insight/textgen"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("insight.synthesizer",
	fx.Provide(
		provideStore,
		provideTextGenerator,
		service.New,
	),
)

func provideStore(cfg config.Config, db *gorm.DB, genID *snowflake.Node, log *zap.Logger) (domain.Store, error) {
	switch cfg.Insight.Store {
	case config.InsightStoreSQL, "":
		return store.NewSQLStore(db, genID), nil
	case config.InsightStoreDynamo:
		client, err := store.NewDynamoClient(context.Background(), cfg.Insight)
		if err != nil {
			return nil, err
		}
		log.Info("insight.store.dynamodb",
			zap.String("table", cfg.Insight.Table),
			zap.String("region", cfg.Insight.AWSRegion),
		)
		return store.NewDynamoStore(client, cfg.Insight.Table), nil
	default:
		return nil, fmt.Errorf("unsupported insight store %q", cfg.Insight.Store)
	}
}

func provideTextGenerator(lc fx.Lifecycle, cfg config.Config) (domain.TextGenerator, error) {
	switch cfg.Insight.TextProvider {
	case config.TextProviderTemplate, "":
		return textgen.NewTemplate(), nil
	case config.TextProviderGemini:
		g, err := textgen.NewGemini(context.Background(), cfg.Insight.GeminiAPIKey, cfg.Insight.GeminiModel)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return g.Close()
			},
		})
		return g, nil
	default:
		return nil, fmt.Errorf("unsupported text provider %q", cfg.Insight.TextProvider)
	}
}
