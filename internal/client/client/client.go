// Package client implements the transport to the remote record collection:
// REST calls for mutations and a WebSocket watch stream that delivers the
// complete ordered collection on every change. All transport failures are
// classified into the package's sentinel errors before they leave it.
package client

import (
	"context"

	"github.com/ramen-kiroku/ramenlog/internal/models"
)

// WatchEvent is one delivery on the watch stream: either a complete snapshot
// of the collection or a classified subscription error.
type WatchEvent struct {
	Records []models.Record
	Err     error
}

type Client interface {
	List(ctx context.Context) ([]models.Record, error)
	Create(ctx context.Context, p models.RecordPayload) (*models.Record, error)
	Update(ctx context.Context, id string, p models.RecordPayload) error
	Delete(ctx context.Context, id string) error

	// Watch opens the push subscription. The returned channel carries one
	// event per remote change and is closed when ctx is cancelled or the
	// stream dies. Cancelling ctx is the only way to stop the stream.
	Watch(ctx context.Context) (<-chan WatchEvent, error)

	Close() error
}
