// Package records implements the server-side record collection: id
// assignment, server timestamps, canonical ordering and snapshot fan-out.
package records

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ramen-kiroku/ramenlog/internal/logging"
	"github.com/ramen-kiroku/ramenlog/internal/models"
	repo "github.com/ramen-kiroku/ramenlog/internal/server/repositories/records"
)

// Broadcaster receives the complete reordered collection after every
// mutation. The httpapi snapshot hub implements it.
type Broadcaster interface {
	Broadcast(records []models.Record)
}

type Service struct {
	repo        repo.Repository
	broadcaster Broadcaster
	logger      logging.Logger
	now         func() time.Time
}

func NewService(r repo.Repository, b Broadcaster, logger logging.Logger) *Service {
	return &Service{repo: r, broadcaster: b, logger: logger, now: time.Now}
}

// Create normalizes and validates the payload, assigns an id and both server
// timestamps, persists the record and pushes a fresh snapshot.
func (s *Service) Create(ctx context.Context, p models.RecordPayload) (*models.Record, error) {
	p = p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	rec := recordFromPayload(p)
	rec.ID = uuid.NewString()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if err := s.repo.Insert(ctx, &rec); err != nil {
		return nil, fmt.Errorf("insert record: %w", err)
	}

	s.notify(ctx)
	return &rec, nil
}

// Update overwrites the editable fields of an existing record and stamps a
// fresh update timestamp. The creation timestamp is preserved by the
// repository. Missing ids surface as common.ErrorNotFound.
func (s *Service) Update(ctx context.Context, id string, p models.RecordPayload) error {
	p = p.Normalize()
	if err := p.Validate(); err != nil {
		return err
	}

	rec := recordFromPayload(p)
	rec.ID = id
	rec.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, &rec); err != nil {
		return fmt.Errorf("update record: %w", err)
	}

	s.notify(ctx)
	return nil
}

// Delete removes the named record. Deleting an id that is already gone
// surfaces common.ErrorNotFound; idempotency is the caller's decision.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}

	s.notify(ctx)
	return nil
}

// List returns the collection in canonical order.
func (s *Service) List(ctx context.Context) ([]models.Record, error) {
	return s.repo.SelectAll(ctx)
}

// notify reloads the ordered collection and hands it to the broadcaster. A
// failed reload only loses one push; the next mutation delivers a complete
// snapshot again.
func (s *Service) notify(ctx context.Context) {
	if s.broadcaster == nil {
		return
	}
	list, err := s.repo.SelectAll(ctx)
	if err != nil {
		s.logger.Error(ctx, "snapshot reload failed", "error", err)
		return
	}
	s.broadcaster.Broadcast(list)
}

func recordFromPayload(p models.RecordPayload) models.Record {
	return models.Record{
		Date:          p.Date,
		Time:          p.Time,
		Prefecture:    p.Prefecture,
		City:          p.City,
		ShopName:      p.ShopName,
		RamenType:     p.RamenType,
		Menus:         p.Menus,
		BusinessHours: p.BusinessHours,
		Holidays:      p.Holidays,
		Links:         p.Links,
		Notes:         p.Notes,
		Rating:        p.Rating,
		WantToReturn:  p.WantToReturn,
		PhotoDataURL:  p.PhotoDataURL,
	}
}
