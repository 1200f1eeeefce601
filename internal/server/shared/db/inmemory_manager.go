package db

import (
	"context"
	"database/sql"

	"github.com/ramen-kiroku/ramenlog/internal/server/repositories/records"
)

type InMemoryRepositoryManager struct {
	records records.Repository
}

func (m *InMemoryRepositoryManager) Conn() *sql.DB {
	return nil
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) Records() records.Repository {
	return m.records
}

func NewInMemoryRepositoryManager() RepositoryManager {
	return &InMemoryRepositoryManager{records: records.NewInMemoryRepository()}
}
