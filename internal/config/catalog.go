package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const dateLayout = "2006-01-02"

// CatalogConfig describes the simulated catalog and its demand calendar.
type CatalogConfig struct {
	Simulation SimulationConfig  `mapstructure:"simulation"`
	Holidays   []HolidayConfig   `mapstructure:"holidays"`
	Promotions []PromotionConfig `mapstructure:"promotions"`
	Products   []ProductConfig   `mapstructure:"products"`
}

type SimulationConfig struct {
	Start        string  `mapstructure:"start"`
	End          string  `mapstructure:"end"`
	Seed         uint64  `mapstructure:"seed"`
	WeekendBoost float64 `mapstructure:"weekendBoost"`
}

type HolidayConfig struct {
	Date       string  `mapstructure:"date"`
	Name       string  `mapstructure:"name"`
	Multiplier float64 `mapstructure:"multiplier"`
}

// PromotionConfig applies to every catalog product when StockCodes is empty.
type PromotionConfig struct {
	StockCodes []string `mapstructure:"stockCodes"`
	Start      string   `mapstructure:"start"`
	End        string   `mapstructure:"end"`
	Multiplier float64  `mapstructure:"multiplier"`
}

type ProductConfig struct {
	StockCode       string  `mapstructure:"stockCode"`
	Name            string  `mapstructure:"name"`
	BaseDailyDemand *int    `mapstructure:"baseDailyDemand"`
	MinPrice        float64 `mapstructure:"minPrice"`
	MaxPrice        float64 `mapstructure:"maxPrice"`
}

func DefaultCatalogConfig() CatalogConfig {
	return CatalogConfig{
		Simulation: SimulationConfig{
			Start:        "2024-01-01",
			End:          "2025-12-31",
			Seed:         42,
			WeekendBoost: 1.2,
		},
		Holidays: []HolidayConfig{
			{Date: "2024-01-26", Name: "Republic Day", Multiplier: 1.5},
			{Date: "2024-08-15", Name: "Independence Day", Multiplier: 1.5},
			{Date: "2024-10-02", Name: "Gandhi Jayanti", Multiplier: 1.4},
			{Date: "2024-12-25", Name: "Christmas", Multiplier: 1.6},
		},
		Promotions: []PromotionConfig{
			{Start: "2024-07-01", End: "2024-07-07", Multiplier: 1.3},
		},
		Products: []ProductConfig{
			{StockCode: "85123A", Name: "White Hanging Heart T-Light Holder", BaseDailyDemand: intPtr(12), MinPrice: 2.55, MaxPrice: 3.25},
			{StockCode: "22423", Name: "Regency Cakestand 3 Tier", BaseDailyDemand: intPtr(6), MinPrice: 10.95, MaxPrice: 12.75},
			{StockCode: "84879", Name: "Assorted Colour Bird Ornament", BaseDailyDemand: intPtr(9), MinPrice: 1.45, MaxPrice: 1.69},
			{StockCode: "47566", Name: "Party Bunting", BaseDailyDemand: intPtr(4), MinPrice: 4.15, MaxPrice: 4.95},
		},
	}
}

func intPtr(v int) *int { return &v }

// LoadCatalog reads the catalog file at path, falling back to defaults when
// path is empty or the file does not exist.
func LoadCatalog(path string) (CatalogConfig, error) {
	v := viper.New()

	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("catalog")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/demandcast")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("DEMANDCAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultCatalogConfig()
	v.SetDefault("simulation.start", defaults.Simulation.Start)
	v.SetDefault("simulation.end", defaults.Simulation.End)
	v.SetDefault("simulation.seed", defaults.Simulation.Seed)
	v.SetDefault("simulation.weekendBoost", defaults.Simulation.WeekendBoost)
	v.SetDefault("holidays", defaults.Holidays)
	v.SetDefault("promotions", defaults.Promotions)
	v.SetDefault("products", defaults.Products)

	if err := v.ReadInConfig(); err != nil {
		// an explicit path must exist; the search paths are optional
		var notFound viper.ConfigFileNotFoundError
		if strings.TrimSpace(path) != "" || !errors.As(err, &notFound) {
			return CatalogConfig{}, fmt.Errorf("read catalog config: %w", err)
		}
	}

	var cfg CatalogConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return CatalogConfig{}, err
	}
	if err := ValidateCatalog(cfg); err != nil {
		return CatalogConfig{}, err
	}
	return cfg, nil
}

func ValidateCatalog(cfg CatalogConfig) error {
	start, end, err := cfg.Simulation.Range()
	if err != nil {
		return err
	}
	if end.Before(start) {
		return errors.New("simulation.end must not be before simulation.start")
	}
	if cfg.Simulation.WeekendBoost <= 0 {
		return errors.New("simulation.weekendBoost must be positive")
	}
	for _, h := range cfg.Holidays {
		if _, err := time.Parse(dateLayout, h.Date); err != nil {
			return fmt.Errorf("holiday %q: invalid date: %w", h.Name, err)
		}
		if h.Multiplier <= 0 {
			return fmt.Errorf("holiday %q: multiplier must be positive", h.Name)
		}
	}
	for i, p := range cfg.Promotions {
		start, err := time.Parse(dateLayout, p.Start)
		if err != nil {
			return fmt.Errorf("promotion %d: invalid start: %w", i, err)
		}
		end, err := time.Parse(dateLayout, p.End)
		if err != nil {
			return fmt.Errorf("promotion %d: invalid end: %w", i, err)
		}
		if end.Before(start) {
			return fmt.Errorf("promotion %d: end before start", i)
		}
		if p.Multiplier <= 0 {
			return fmt.Errorf("promotion %d: multiplier must be positive", i)
		}
	}
	for _, p := range cfg.Products {
		if strings.TrimSpace(p.StockCode) == "" {
			return errors.New("products: stockCode cannot be empty")
		}
		if p.MinPrice < 0 || p.MaxPrice < p.MinPrice {
			return fmt.Errorf("product %s: invalid price range [%v, %v]", p.StockCode, p.MinPrice, p.MaxPrice)
		}
	}
	return nil
}

// Range parses the simulation start and end dates as UTC days.
func (s SimulationConfig) Range() (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, s.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("simulation.start: %w", err)
	}
	end, err := time.Parse(dateLayout, s.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("simulation.end: %w", err)
	}
	return start, end, nil
}

// ParseDate parses a catalog date (YYYY-MM-DD) as a UTC day.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, strings.TrimSpace(value))
}
