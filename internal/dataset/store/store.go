// Package store persists dataset records. Two implementations share the
// contract: an in-memory store for development and tests, and a PostgreSQL
// store for production.
package store

import (
	"context"

	"github.com/google/uuid"

	"ordr/internal/dataset/models"
	"ordr/internal/dataset/query"
)

// Store is the dataset record persistence contract. Find returns each
// matching record exactly once, ordered by (country name, keydataset code),
// and hands out copies: callers own the returned records.
type Store interface {
	Create(ctx context.Context, d *models.Dataset) error
	Get(ctx context.Context, id uuid.UUID) (*models.Dataset, error)
	Update(ctx context.Context, d *models.Dataset) error
	Delete(ctx context.Context, id uuid.UUID) error
	Find(ctx context.Context, q query.Query) ([]*models.Dataset, error)
}
