package records

import (
	"context"

	"github.com/ramen-kiroku/ramenlog/internal/models"
)

// Repository persists the ramen record collection. SelectAll returns the
// canonical ordering used everywhere downstream: creation time descending.
type Repository interface {
	Insert(ctx context.Context, r *models.Record) error
	Update(ctx context.Context, r *models.Record) error
	Delete(ctx context.Context, id string) error
	SelectAll(ctx context.Context) ([]models.Record, error)
}
