package records

import (
	"context"
	"sort"
	"sync"

	"github.com/ramen-kiroku/ramenlog/internal/common"
	"github.com/ramen-kiroku/ramenlog/internal/models"
)

// InMemoryRepository keeps the collection in a map. Used by tests and by the
// server's ephemeral mode.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records map[string]models.Record
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{records: make(map[string]models.Record)}
}

func (r *InMemoryRepository) Insert(ctx context.Context, rec *models.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.ID] = *rec
	return nil
}

func (r *InMemoryRepository) Update(ctx context.Context, rec *models.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.records[rec.ID]
	if !ok {
		return common.ErrorNotFound
	}
	updated := *rec
	updated.CreatedAt = existing.CreatedAt
	r.records[rec.ID] = updated
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *InMemoryRepository) SelectAll(ctx context.Context) ([]models.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Record, 0, len(r.records))
	for _, rec := range r.records {
		result = append(result, rec)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}
