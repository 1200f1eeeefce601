// Package db wires storage backends behind a single manager so the rest of
// the server does not care whether records live in PostgreSQL or in memory.
package db

import (
	"context"
	"database/sql"

	"github.com/ramen-kiroku/ramenlog/internal/server/repositories/records"
)

type RepositoryManager interface {
	Conn() *sql.DB
	RunMigrations(ctx context.Context) error
	Records() records.Repository
}
