// Package gateway issues create, update and delete requests against the
// remote collection. Nothing here retries and nothing touches the mirror:
// each failure is surfaced exactly once to the caller, and successful writes
// become visible only through the next subscription push.
package gateway

import (
	"context"
	"fmt"

	"github.com/ramen-kiroku/ramenlog/internal/client/client"
	"github.com/ramen-kiroku/ramenlog/internal/logging"
	"github.com/ramen-kiroku/ramenlog/internal/models"
)

type Gateway struct {
	client client.Client
	logger logging.Logger
}

func New(c client.Client, logger logging.Logger) *Gateway {
	return &Gateway{client: c, logger: logger}
}

// Create appends a new record; the server assigns the id and both
// timestamps. Resolves only after the remote store acknowledged the write.
func (g *Gateway) Create(ctx context.Context, p models.RecordPayload) error {
	if _, err := g.client.Create(ctx, p); err != nil {
		g.logger.Error(ctx, "create failed", "error", err)
		return fmt.Errorf("create record: %w", err)
	}
	return nil
}

// Update overwrites the named record's fields and stamps a fresh update
// timestamp. A vanished document surfaces as client.ErrNotFound.
func (g *Gateway) Update(ctx context.Context, id string, p models.RecordPayload) error {
	if err := g.client.Update(ctx, id, p); err != nil {
		g.logger.Error(ctx, "update failed", "id", id, "error", err)
		return fmt.Errorf("update record: %w", err)
	}
	return nil
}

// Remove deletes the named record. Deleting an already-deleted id surfaces
// client.ErrNotFound; whether that is benign is the caller's decision.
func (g *Gateway) Remove(ctx context.Context, id string) error {
	if err := g.client.Delete(ctx, id); err != nil {
		g.logger.Error(ctx, "delete failed", "id", id, "error", err)
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}
