package domain

import (
	"context"
	"errors"
)

type Service interface {
	// Run replaces every stored forecast point with a fresh projection from
	// the persisted models and returns the number of points written.
	Run(ctx context.Context) (int, error)
}

var (
	ErrNoHistory      = errors.New("no_history")
	ErrInvalidHorizon = errors.New("invalid_horizon")
)
