package calendar

import (
	"testing"
	"time"

	catalogdomain "github.com/smallbiznis/demandcast/internal/catalog/domain"
	"github.com/smallbiznis/demandcast/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestHolidayLookup(t *testing.T) {
	r := NewRegistry([]Event{
		{Date: date(2024, 12, 25), Label: "Christmas", Multiplier: 1.6},
		{Date: date(2024, 12, 25), Label: "Duplicate", Multiplier: 9},
	}, nil)

	e, ok := r.Holiday(time.Date(2024, 12, 25, 17, 30, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, "Christmas", e.Label)
	assert.Equal(t, 1.6, r.HolidayMultiplier(date(2024, 12, 25)))
	assert.Len(t, r.Events(), 1)

	_, ok = r.Holiday(date(2024, 12, 26))
	assert.False(t, ok)
	assert.Equal(t, 1.0, r.HolidayMultiplier(date(2024, 12, 26)))
}

func TestPromotionBoundsInclusive(t *testing.T) {
	r := NewRegistry(nil, []PromotionWindow{
		{ProductID: 7, Start: date(2024, 7, 1), End: date(2024, 7, 7), Multiplier: 1.3},
	})

	assert.Equal(t, 1.0, r.PromotionMultiplier(7, date(2024, 6, 30)))
	assert.Equal(t, 1.3, r.PromotionMultiplier(7, date(2024, 7, 1)))
	assert.Equal(t, 1.3, r.PromotionMultiplier(7, date(2024, 7, 7)))
	assert.Equal(t, 1.0, r.PromotionMultiplier(7, date(2024, 7, 8)))
	assert.Equal(t, 1.0, r.PromotionMultiplier(8, date(2024, 7, 3)))
}

func TestOverlappingPromotionsFirstWins(t *testing.T) {
	r := NewRegistry(nil, []PromotionWindow{
		{ProductID: 1, Start: date(2024, 7, 1), End: date(2024, 7, 10), Multiplier: 1.3},
		{ProductID: 1, Start: date(2024, 7, 5), End: date(2024, 7, 6), Multiplier: 2.0},
	})

	w, ok := r.Promotion(1, date(2024, 7, 5))
	require.True(t, ok)
	assert.Equal(t, 1.3, w.Multiplier)
	assert.Equal(t, 0, w.Position)
	assert.Equal(t, 1, r.Windows()[1].Position)
}

func TestNilRegistry(t *testing.T) {
	var r *Registry
	assert.Equal(t, 1.0, r.HolidayMultiplier(date(2024, 1, 26)))
	assert.Equal(t, 1.0, r.PromotionMultiplier(1, date(2024, 7, 1)))
	assert.Nil(t, r.Events())
}

func TestWeekendAndDays(t *testing.T) {
	assert.True(t, IsWeekend(date(2024, 1, 6)))
	assert.True(t, IsWeekend(date(2024, 1, 7)))
	assert.False(t, IsWeekend(date(2024, 1, 8)))

	assert.Equal(t, 7, DaysBetween(date(2024, 1, 1), date(2024, 1, 7)))
	assert.Equal(t, 366, DaysBetween(date(2024, 1, 1), date(2024, 12, 31)))
	assert.Equal(t, 0, DaysBetween(date(2024, 1, 2), date(2024, 1, 1)))
}

func TestDayUsesUTCDate(t *testing.T) {
	west := time.FixedZone("EST", -5*60*60)
	east := time.FixedZone("WIB", 7*60*60)

	assert.Equal(t, date(2025, 12, 31), Day(date(2025, 12, 31).In(west)))
	assert.Equal(t, date(2025, 12, 31), Day(date(2025, 12, 31).In(east)))
	assert.True(t, IsWeekend(date(2024, 1, 6).In(west)))
	assert.Equal(t, 2, DaysBetween(date(2024, 1, 1).In(west), date(2024, 1, 2).In(east)))
}

func TestFromConfig(t *testing.T) {
	cfg := config.DefaultCatalogConfig()
	cfg.Promotions = append(cfg.Promotions, config.PromotionConfig{
		StockCodes: []string{"22423", "NOPE"},
		Start:      "2024-11-01",
		End:        "2024-11-02",
		Multiplier: 2,
	})
	entities := []catalogdomain.Entity{
		{ProductID: 1, StockCode: "85123A"},
		{ProductID: 2, StockCode: "22423"},
	}

	r, err := FromConfig(cfg, entities)
	require.NoError(t, err)

	assert.Len(t, r.Events(), 4)
	assert.Equal(t, 1.5, r.HolidayMultiplier(date(2024, 1, 26)))
	assert.Equal(t, 1.4, r.HolidayMultiplier(date(2024, 10, 2)))
	assert.Equal(t, 1.3, r.PromotionMultiplier(1, date(2024, 7, 3)))
	assert.Equal(t, 1.3, r.PromotionMultiplier(2, date(2024, 7, 3)))
	assert.Equal(t, 2.0, r.PromotionMultiplier(2, date(2024, 11, 2)))
	assert.Equal(t, 1.0, r.PromotionMultiplier(1, date(2024, 11, 2)))
	assert.Len(t, r.Windows(), 3)
}

func TestFromConfigInvalidDate(t *testing.T) {
	cfg := config.CatalogConfig{Holidays: []config.HolidayConfig{{Date: "26-01-2024", Name: "bad", Multiplier: 1}}}
	_, err := FromConfig(cfg, nil)
	assert.Error(t, err)
}
