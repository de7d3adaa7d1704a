package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	// Train fits one model per product present in history over [start, end].
	Train(ctx context.Context, history []Observation, start, end time.Time) TrainResult
	// Run loads the sales history, trains and persists the model artifact.
	Run(ctx context.Context) (TrainResult, error)
}

var (
	ErrNoHistory = errors.New("no_history")
	ErrNoModels  = errors.New("no_models")
)
