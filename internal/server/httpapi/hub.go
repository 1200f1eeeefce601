package httpapi

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ramen-kiroku/ramenlog/internal/logging"
	"github.com/ramen-kiroku/ramenlog/internal/models"
)

const writeTimeout = 5 * time.Second

// Hub fans complete collection snapshots out to every connected watch client.
// It owns all writes on the registered connections; the per-connection read
// loops in the handler only detect disconnects.
type Hub struct {
	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	logger logging.Logger
}

func NewHub(logger logging.Logger) *Hub {
	return &Hub{conns: make(map[*websocket.Conn]struct{}), logger: logger}
}

// Add registers a connection and sends it an initial snapshot obtained from
// fetch. Both the fetch and the send run under the hub lock, serialized
// against Broadcast: a mutation committing concurrently either lands in the
// fetched snapshot or is broadcast after the connection is registered, so no
// change falls between the two. fetch must not call back into the hub.
func (h *Hub) Add(conn *websocket.Conn, fetch func() ([]models.Record, error)) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	initial, err := fetch()
	if err != nil {
		return err
	}
	if !h.write(conn, models.Snapshot{Records: initial}) {
		return nil
	}
	h.conns[conn] = struct{}{}
	return nil
}

// Remove drops a connection from the hub. Safe to call for connections the
// hub has already discarded.
func (h *Hub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
}

// Broadcast sends the snapshot to every registered connection, discarding
// the ones that fail.
func (h *Hub) Broadcast(records []models.Record) {
	h.mu.Lock()
	defer h.mu.Unlock()

	snap := models.Snapshot{Records: records}
	for conn := range h.conns {
		if !h.write(conn, snap) {
			delete(h.conns, conn)
		}
	}
}

// Count returns the number of registered watch connections.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *Hub) write(conn *websocket.Conn, snap models.Snapshot) bool {
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		h.dropConn(conn, err)
		return false
	}
	if err := conn.WriteJSON(snap); err != nil {
		h.dropConn(conn, err)
		return false
	}
	return true
}

func (h *Hub) dropConn(conn *websocket.Conn, err error) {
	h.logger.Warn(context.Background(), "dropping watch connection", "error", err)
	_ = conn.Close()
}
