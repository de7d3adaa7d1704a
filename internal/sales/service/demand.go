package service

import (
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/demandcast/internal/sales/domain"
)

// Demand applies jitter and the day's multipliers to base. Each multiplier
// truncates toward zero before the next is applied, in the order weekend,
// holiday, promotion. A non-positive base+jitter yields 0.
func Demand(base, jitter int, weekend, holiday, promo float64) int {
	demand := base + jitter
	if demand <= 0 {
		return 0
	}
	demand = int(float64(demand) * weekend)
	demand = int(float64(demand) * holiday)
	demand = int(float64(demand) * promo)
	return demand
}

// drawJitter returns a uniform integer in [-1, 2].
func drawJitter(rng domain.Rand) int {
	return rng.IntN(4) - 1
}

// drawPrice returns a uniform price in [minPrice, maxPrice] rounded to cents.
func drawPrice(rng domain.Rand, minPrice, maxPrice float64) float64 {
	raw := minPrice + rng.Float64()*(maxPrice-minPrice)
	return decimal.NewFromFloat(raw).Round(2).InexactFloat64()
}
