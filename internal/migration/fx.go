package migration

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/demandcast/internal/catalog/repository"
	"github.com/smallbiznis/demandcast/internal/clock"
	"github.com/smallbiznis/demandcast/internal/config"
	"github.com/smallbiznis/demandcast/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, catalogCfg config.CatalogConfig, node *snowflake.Node, clk clock.Clock, log *zap.Logger) error {
		if err := Apply(conn, cfg.DBType); err != nil {
			return err
		}
		_, err := seed.EnsureCatalog(context.Background(), conn, node, repository.Provide(), catalogCfg, clk.Now(), log.Named("seed"))
		return err
	}),
)
