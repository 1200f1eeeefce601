package app

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ramen-kiroku/ramenlog/internal/client/client"
	"github.com/ramen-kiroku/ramenlog/internal/client/filter"
	"github.com/ramen-kiroku/ramenlog/internal/client/gateway"
	"github.com/ramen-kiroku/ramenlog/internal/client/store"
	"github.com/ramen-kiroku/ramenlog/internal/logging"
	"github.com/ramen-kiroku/ramenlog/internal/models"
	"github.com/ramen-kiroku/ramenlog/internal/server/httpapi"
	"github.com/ramen-kiroku/ramenlog/internal/server/records"
	repo "github.com/ramen-kiroku/ramenlog/internal/server/repositories/records"
)

// end-to-end: real server with the in-memory store, real transport, real
// mirror and coordinator, fake presenter.
func newIntegrationApp(t *testing.T) (*App, *fakePresenter) {
	t.Helper()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	hub := httpapi.NewHub(logger)
	svc := records.NewService(repo.NewInMemoryRepository(), hub, logger)
	srv := httpapi.NewServer("", svc, hub, logger)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	transport := client.NewHTTPClient(ts.URL)
	t.Cleanup(func() { _ = transport.Close() })

	fp := &fakePresenter{confirm: true}
	a := New(store.New(transport, logger), gateway.New(transport, logger), fp, logger)
	t.Cleanup(a.Stop)

	require.NoError(t, a.Start(context.Background()))
	waitRenders(t, fp, 1) // initial empty snapshot
	return a, fp
}

func waitForShop(t *testing.T, fp *fakePresenter, shop string) []models.Record {
	t.Helper()
	var list []models.Record
	require.Eventually(t, func() bool {
		latest, ok := fp.lastRender()
		if !ok {
			return false
		}
		for _, r := range latest {
			if r.ShopName == shop {
				list = latest
				return true
			}
		}
		return false
	}, 3*time.Second, 10*time.Millisecond)
	return list
}

func TestEndToEnd_CreateAppearsFirst(t *testing.T) {
	a, fp := newIntegrationApp(t)

	sess := a.CreateSession()
	sess.Prefecture = "東京都"
	sess.City = "渋谷区"
	sess.ShopName = "一番"
	require.NoError(t, a.SubmitCreate(context.Background()))

	list := waitForShop(t, fp, "一番")
	require.Equal(t, "一番", list[0].ShopName)

	// a later create lands at index 0
	sess = a.CreateSession()
	sess.Prefecture = "大阪府"
	sess.City = "堺市"
	sess.ShopName = "二郎"
	require.NoError(t, a.SubmitCreate(context.Background()))

	list = waitForShop(t, fp, "二郎")
	require.Len(t, list, 2)
	require.Equal(t, "二郎", list[0].ShopName)
	require.Equal(t, "一番", list[1].ShopName)
}

func TestEndToEnd_FilterIncludeExclude(t *testing.T) {
	a, fp := newIntegrationApp(t)

	sess := a.CreateSession()
	sess.Prefecture = "東京都"
	sess.City = "渋谷区"
	sess.ShopName = "一番"
	require.NoError(t, a.SubmitCreate(context.Background()))
	waitForShop(t, fp, "一番")

	a.ApplyFilter(filter.Criteria{Prefecture: "東京都", CityContains: "渋谷"})
	list, _ := fp.lastRender()
	require.Len(t, list, 1)

	a.ApplyFilter(filter.Criteria{Prefecture: "大阪府"})
	list, _ = fp.lastRender()
	require.Empty(t, list)

	a.ResetFilter()
	list, _ = fp.lastRender()
	require.Len(t, list, 1)
}

func TestEndToEnd_EmptyMenuRowsDropped(t *testing.T) {
	a, fp := newIntegrationApp(t)

	sess := a.CreateSession()
	sess.Prefecture = "東京都"
	sess.City = "渋谷区"
	sess.ShopName = "一番"
	price := 500
	sess.SetMenuEntry(0, "", &price)
	miso := 900
	sess.SetMenuEntry(1, "味噌", &miso)
	require.NoError(t, a.SubmitCreate(context.Background()))

	list := waitForShop(t, fp, "一番")
	require.Len(t, list[0].Menus, 1)
	require.Equal(t, "味噌", list[0].Menus[0].Name)
	require.Equal(t, 900, *list[0].Menus[0].Price)
}

func TestEndToEnd_EditAndDelete(t *testing.T) {
	a, fp := newIntegrationApp(t)

	sess := a.CreateSession()
	sess.Prefecture = "東京都"
	sess.City = "渋谷区"
	sess.ShopName = "一番"
	require.NoError(t, a.SubmitCreate(context.Background()))
	list := waitForShop(t, fp, "一番")
	id := list[0].ID

	a.BeginEdit(id)
	edit := a.EditSession()
	require.NotNil(t, edit)
	edit.City = "目黒区"
	require.NoError(t, a.SubmitEdit(context.Background()))

	require.Eventually(t, func() bool {
		latest, ok := fp.lastRender()
		return ok && len(latest) == 1 && latest[0].City == "目黒区"
	}, 3*time.Second, 10*time.Millisecond)

	a.Delete(context.Background(), id)
	require.Eventually(t, func() bool {
		latest, ok := fp.lastRender()
		return ok && len(latest) == 0
	}, 3*time.Second, 10*time.Millisecond)
	require.Equal(t, "削除しました", fp.lastMessage())
}

func TestEndToEnd_DeleteRaceIsBenign(t *testing.T) {
	a, fp := newIntegrationApp(t)

	sess := a.CreateSession()
	sess.Prefecture = "東京都"
	sess.City = "渋谷区"
	sess.ShopName = "一番"
	require.NoError(t, a.SubmitCreate(context.Background()))
	list := waitForShop(t, fp, "一番")
	id := list[0].ID

	// someone else deletes the record first, behind the mirror's back
	require.NoError(t, a.gateway.Remove(context.Background(), id))

	// deleting again answers 404; the coordinator counts that as success
	err := a.gateway.Remove(context.Background(), id)
	require.ErrorIs(t, err, client.ErrNotFound)
}
