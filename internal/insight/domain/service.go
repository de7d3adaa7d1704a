package domain

import "context"

type Service interface {
	// Run replaces every stored insight with one fresh summary per forecast product.
	Run(ctx context.Context) ([]InsightRecord, error)
}
