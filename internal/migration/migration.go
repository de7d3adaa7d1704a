package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/smallbiznis/demandcast/internal/calendar"
	catalogdomain "github.com/smallbiznis/demandcast/internal/catalog/domain"
	forecastdomain "github.com/smallbiznis/demandcast/internal/forecast/domain"
	"github.com/smallbiznis/demandcast/internal/insight/store"
	salesdomain "github.com/smallbiznis/demandcast/internal/sales/domain"
	"github.com/smallbiznis/demandcast/pkg/db"
	"gorm.io/gorm"
)

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Models lists every table the pipeline persists, in dependency order.
func Models() []any {
	return []any{
		&catalogdomain.Product{},
		&catalogdomain.DemandProfile{},
		&calendar.Event{},
		&calendar.PromotionWindow{},
		&salesdomain.Invoice{},
		&salesdomain.InvoiceLine{},
		&forecastdomain.ForecastPoint{},
		&store.Document{},
	}
}

// Apply brings the schema up to date for the configured database type.
// Postgres uses the versioned SQL migrations; sqlite and mysql fall back to
// gorm's AutoMigrate.
func Apply(conn *gorm.DB, dbType string) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}
	switch db.NormalizeDialect(dbType) {
	case db.DialectPostgres:
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	case db.DialectSQLite, db.DialectMySQL:
		return AutoMigrate(conn)
	default:
		return fmt.Errorf("unsupported %s type", dbType)
	}
}

func AutoMigrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// RunMigrations applies the embedded postgres migrations.
func RunMigrations(sqlDB *sql.DB) error {
	if sqlDB == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}
