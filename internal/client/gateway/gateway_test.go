package gateway

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ramen-kiroku/ramenlog/internal/client/client"
	"github.com/ramen-kiroku/ramenlog/internal/logging"
	"github.com/ramen-kiroku/ramenlog/internal/models"
)

type fakeClient struct {
	client.Client

	createErr error
	updateErr error
	deleteErr error

	created []models.RecordPayload
	updated map[string]models.RecordPayload
	deleted []string
}

func (f *fakeClient) Create(ctx context.Context, p models.RecordPayload) (*models.Record, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, p)
	return &models.Record{ID: "new-id"}, nil
}

func (f *fakeClient) Update(ctx context.Context, id string, p models.RecordPayload) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.updated == nil {
		f.updated = map[string]models.RecordPayload{}
	}
	f.updated[id] = p
	return nil
}

func (f *fakeClient) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func newTestGateway(fc *fakeClient) *Gateway {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return New(fc, logger)
}

func TestCreate(t *testing.T) {
	fc := &fakeClient{}
	g := newTestGateway(fc)

	p := models.RecordPayload{Prefecture: "東京都", City: "渋谷区", ShopName: "一番"}
	require.NoError(t, g.Create(context.Background(), p))
	require.Len(t, fc.created, 1)
	require.Equal(t, "渋谷区", fc.created[0].City)
}

func TestCreate_ErrorKeepsClassification(t *testing.T) {
	fc := &fakeClient{createErr: client.ErrUnavailable}
	g := newTestGateway(fc)

	err := g.Create(context.Background(), models.RecordPayload{})
	require.ErrorIs(t, err, client.ErrUnavailable)
}

func TestUpdate(t *testing.T) {
	fc := &fakeClient{}
	g := newTestGateway(fc)

	require.NoError(t, g.Update(context.Background(), "rec-1", models.RecordPayload{City: "目黒区"}))
	require.Equal(t, "目黒区", fc.updated["rec-1"].City)
}

func TestUpdate_NotFound(t *testing.T) {
	fc := &fakeClient{updateErr: client.ErrNotFound}
	g := newTestGateway(fc)

	err := g.Update(context.Background(), "gone", models.RecordPayload{})
	require.ErrorIs(t, err, client.ErrNotFound)
}

func TestRemove(t *testing.T) {
	fc := &fakeClient{}
	g := newTestGateway(fc)

	require.NoError(t, g.Remove(context.Background(), "rec-1"))
	require.Equal(t, []string{"rec-1"}, fc.deleted)
}

func TestRemove_NotFoundSurfaces(t *testing.T) {
	fc := &fakeClient{deleteErr: client.ErrNotFound}
	g := newTestGateway(fc)

	err := g.Remove(context.Background(), "gone")
	require.ErrorIs(t, err, client.ErrNotFound)
}
