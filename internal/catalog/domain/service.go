package domain

import (
	"context"
	"errors"
)

type Service interface {
	// Load returns the catalog entities in catalog order. Profiles whose stock
	// code has no system product are skipped.
	Load(ctx context.Context) ([]Entity, error)
}

var ErrEmptyCatalog = errors.New("empty_catalog")
