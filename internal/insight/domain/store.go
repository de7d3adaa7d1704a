package domain

import "context"

// Store is the insight document store.
type Store interface {
	DeleteAll(ctx context.Context) (int64, error)
	InsertOne(ctx context.Context, record InsightRecord) error
	FindAll(ctx context.Context) ([]InsightRecord, error)
}

// TextGenerator turns a prompt into a completion.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
