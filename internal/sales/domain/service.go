package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/demandcast/internal/calendar"
	catalogdomain "github.com/smallbiznis/demandcast/internal/catalog/domain"
)

// Rand is the random source the generator draws jitter and prices from.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

type Service interface {
	// Generate rebuilds the sales history for [Start, End] from scratch.
	Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error)
	// Run loads the catalog and calendar configuration and calls Generate
	// with a source seeded from configuration.
	Run(ctx context.Context) (GenerateResult, error)
}

type GenerateRequest struct {
	Start    time.Time
	End      time.Time
	Entities []catalogdomain.Entity
	Registry *calendar.Registry
	// Rand defaults to a PCG source seeded from configuration.
	Rand Rand
}

type GenerateResult struct {
	InvoiceCount int
	LineCount    int
}

var (
	ErrInvalidRange = errors.New("invalid_range")
	ErrInvalidPrice = errors.New("invalid_price_range")
)
