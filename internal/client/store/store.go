// Package store maintains the live local mirror of the remote record
// collection. The mirror is replaced wholesale on every snapshot delivery and
// is never resorted on the client: the server's creation-time-descending
// order is canonical.
package store

import (
	"context"
	"sync"

	"github.com/ramen-kiroku/ramenlog/internal/client/client"
	"github.com/ramen-kiroku/ramenlog/internal/logging"
	"github.com/ramen-kiroku/ramenlog/internal/models"
)

type Store struct {
	client client.Client
	logger logging.Logger

	mu      sync.RWMutex
	records []models.Record
	cancel  context.CancelFunc
	done    chan struct{}
}

func New(c client.Client, logger logging.Logger) *Store {
	return &Store{client: c, logger: logger}
}

// Subscribe opens the push subscription and consumes it on a single
// goroutine: snapshots replace the mirror and are handed to onChange,
// classified stream errors go to onError while the mirror keeps its
// last-known value. Any previously active subscription is released first;
// only one is ever active. The returned function tears the subscription down.
func (s *Store) Subscribe(ctx context.Context, onChange func([]models.Record), onError func(error)) (func(), error) {
	s.Unsubscribe()

	wctx, cancel := context.WithCancel(ctx)
	events, err := s.client.Watch(wctx)
	if err != nil {
		cancel()
		return nil, err
	}

	done := make(chan struct{})

	s.mu.Lock()
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	go func() {
		defer close(done)
		for ev := range events {
			if ev.Err != nil {
				s.logger.Warn(wctx, "subscription error", "error", ev.Err)
				if onError != nil {
					onError(ev.Err)
				}
				continue
			}
			s.mu.Lock()
			s.records = ev.Records
			s.mu.Unlock()
			if onChange != nil {
				onChange(ev.Records)
			}
		}
	}()

	return func() { s.Unsubscribe() }, nil
}

// Unsubscribe tears down the active subscription, if any, and waits for the
// consumer goroutine to drain.
func (s *Store) Unsubscribe() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Records returns the current mirror. Callers get a shared snapshot reference
// and must not mutate it.
func (s *Store) Records() []models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Find returns the mirrored record with the given id, or false.
func (s *Store) Find(id string) (models.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return models.Record{}, false
}
