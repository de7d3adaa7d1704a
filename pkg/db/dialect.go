package db

import (
	"fmt"
	"strings"

	"github.com/smallbiznis/demandcast/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Supported values of DATABASE_TYPE.
const (
	DialectPostgres = "postgres"
	DialectMySQL    = "mysql"
	DialectSQLite   = "sqlite"
)

// Dialect picks the gorm dialector for cfg.DBType. Every connection runs in
// UTC so invoice and forecast days keep their calendar date on the wire.
func Dialect(cfg config.Config) (gorm.Dialector, error) {
	switch NormalizeDialect(cfg.DBType) {
	case DialectPostgres:
		return postgres.Open(fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
			cfg.DBSSLMode,
		)), nil
	case DialectMySQL:
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBName,
		)), nil
	case DialectSQLite:
		path := strings.TrimSpace(cfg.DBPath)
		if path == "" {
			return nil, fmt.Errorf("sqlite database path is required")
		}
		return sqlite.Open(path + "?_foreign_keys=on&_busy_timeout=5000"), nil
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.DBType)
	}
}

// NormalizeDialect lowercases and trims a DATABASE_TYPE value.
func NormalizeDialect(dbType string) string {
	return strings.ToLower(strings.TrimSpace(dbType))
}
