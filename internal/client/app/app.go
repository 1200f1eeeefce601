// Package app is the client-side coordinator: it owns the mirror store, the
// mutation gateway, the last-applied filter criteria and the two form
// sessions, and drives a Presenter. All remote state arrives through the
// subscription; mutations never touch the rendered list directly.
package app

import (
	"context"
	"errors"
	"sync"

	"github.com/ramen-kiroku/ramenlog/internal/client/client"
	"github.com/ramen-kiroku/ramenlog/internal/client/filter"
	"github.com/ramen-kiroku/ramenlog/internal/client/form"
	"github.com/ramen-kiroku/ramenlog/internal/client/gateway"
	"github.com/ramen-kiroku/ramenlog/internal/client/store"
	"github.com/ramen-kiroku/ramenlog/internal/imagex"
	"github.com/ramen-kiroku/ramenlog/internal/logging"
	"github.com/ramen-kiroku/ramenlog/internal/models"
)

// State is the coordinator lifecycle.
type State int

const (
	StateUninitialized State = iota
	StateSubscribed
	StateTornDown
)

// Severity classifies a notification for the presenter.
type Severity int

const (
	SeveritySuccess Severity = iota
	SeverityError
)

// ActionKind names a per-card action.
type ActionKind int

const (
	ActionEdit ActionKind = iota
	ActionDelete
)

// Action is one card action routed through a single dispatcher.
type Action struct {
	Kind ActionKind
	ID   string
}

// Presenter is the UI collaborator. Notify messages auto-dismiss on the
// presenter's side; ConfirmDelete blocks for the user's answer.
type Presenter interface {
	RenderList(records []models.Record)
	Notify(message string, severity Severity)
	ConfirmDelete(displayName string) bool
}

type App struct {
	store     *store.Store
	gateway   *gateway.Gateway
	presenter Presenter
	logger    logging.Logger

	mu          sync.Mutex
	state       State
	criteria    filter.Criteria
	createSess  *form.Session
	editSess    *form.Session
	unsubscribe func()
}

func New(st *store.Store, gw *gateway.Gateway, p Presenter, logger logging.Logger) *App {
	return &App{
		store:      st,
		gateway:    gw,
		presenter:  p,
		logger:     logger,
		createSess: form.NewCreate(),
	}
}

// Start opens the push subscription and renders the first snapshot when it
// arrives. A failure here is a configuration error: the caller shows a fatal
// pane and does not retry.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.state != StateUninitialized {
		a.mu.Unlock()
		return errors.New("already started")
	}
	a.mu.Unlock()

	unsub, err := a.store.Subscribe(ctx, a.onSnapshot, a.onStreamError)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.unsubscribe = unsub
	a.state = StateSubscribed
	a.mu.Unlock()
	return nil
}

// Stop tears down the subscription. Idempotent.
func (a *App) Stop() {
	a.mu.Lock()
	unsub := a.unsubscribe
	a.unsubscribe = nil
	a.state = StateTornDown
	a.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

func (a *App) onSnapshot(records []models.Record) {
	a.mu.Lock()
	c := a.criteria
	a.mu.Unlock()
	a.presenter.RenderList(filter.Apply(records, c))
}

func (a *App) onStreamError(err error) {
	a.logger.Warn(context.Background(), "subscription error", "error", err)
	if errors.Is(err, client.ErrPermissionDenied) {
		a.presenter.Notify("アクセス権がありません", SeverityError)
		return
	}
	a.presenter.Notify("データの取得に失敗しました", SeverityError)
}

// ApplyFilter stores the criteria and re-renders the view from the current
// mirror immediately; it does not wait for the next push.
func (a *App) ApplyFilter(c filter.Criteria) {
	a.mu.Lock()
	a.criteria = c
	a.mu.Unlock()
	a.render()
}

// ResetFilter clears the criteria and re-renders the full mirror.
func (a *App) ResetFilter() {
	a.ApplyFilter(filter.Criteria{})
}

// Criteria returns the last-applied filter state.
func (a *App) Criteria() filter.Criteria {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.criteria
}

func (a *App) render() {
	a.mu.Lock()
	c := a.criteria
	a.mu.Unlock()
	a.presenter.RenderList(filter.Apply(a.store.Records(), c))
}

// Dispatch routes a card action.
func (a *App) Dispatch(ctx context.Context, action Action) {
	switch action.Kind {
	case ActionEdit:
		a.BeginEdit(action.ID)
	case ActionDelete:
		a.Delete(ctx, action.ID)
	}
}

// CreateSession returns the always-present create form session.
func (a *App) CreateSession() *form.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.createSess
}

// EditSession returns the open edit session, or nil.
func (a *App) EditSession() *form.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.editSess
}

// BeginEdit seeds an edit session from the mirrored record. Editing an id
// that is no longer mirrored is a no-op with an error toast.
func (a *App) BeginEdit(id string) {
	rec, ok := a.store.Find(id)
	if !ok {
		a.presenter.Notify("記録が見つかりません", SeverityError)
		return
	}
	a.mu.Lock()
	a.editSess = form.NewEdit(rec)
	a.mu.Unlock()
}

// CancelEdit discards the edit session without submitting.
func (a *App) CancelEdit() {
	a.mu.Lock()
	a.editSess = nil
	a.mu.Unlock()
}

// SubmitCreate validates and submits the create session. On success the
// session is replaced by a fresh one; on failure it stays intact for another
// attempt.
func (a *App) SubmitCreate(ctx context.Context) error {
	a.mu.Lock()
	sess := a.createSess
	a.mu.Unlock()

	if err := a.submit(ctx, sess, func(ctx context.Context, p models.RecordPayload) error {
		return a.gateway.Create(ctx, p)
	}, "保存しました！🍜", "保存に失敗しました"); err != nil {
		return err
	}

	a.mu.Lock()
	a.createSess = form.NewCreate()
	a.mu.Unlock()
	return nil
}

// SubmitEdit validates and submits the edit session; last writer wins. The
// session closes on success and stays open on failure.
func (a *App) SubmitEdit(ctx context.Context) error {
	a.mu.Lock()
	sess := a.editSess
	a.mu.Unlock()
	if sess == nil {
		return errors.New("no edit session")
	}

	if err := a.submit(ctx, sess, func(ctx context.Context, p models.RecordPayload) error {
		return a.gateway.Update(ctx, sess.TargetID, p)
	}, "記録を更新しました！", "更新に失敗しました。"); err != nil {
		return err
	}

	a.mu.Lock()
	a.editSess = nil
	a.mu.Unlock()
	return nil
}

func (a *App) submit(ctx context.Context, sess *form.Session, send func(context.Context, models.RecordPayload) error, okMsg, failMsg string) error {
	if err := sess.Validate(); err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			a.presenter.Notify(verr.Message, SeverityError)
		}
		return err
	}
	if err := sess.BeginSubmit(); err != nil {
		return err
	}
	defer sess.EndSubmit()

	if err := send(ctx, sess.Payload()); err != nil {
		a.presenter.Notify(failMsg, SeverityError)
		return err
	}
	a.presenter.Notify(okMsg, SeveritySuccess)
	return nil
}

// Delete confirms with the record's shop name, then deletes. A NotFound
// answer means someone else already removed it; that counts as success.
func (a *App) Delete(ctx context.Context, id string) {
	rec, ok := a.store.Find(id)
	if !ok {
		return
	}
	if !a.presenter.ConfirmDelete(rec.ShopName) {
		return
	}

	err := a.gateway.Remove(ctx, id)
	if err != nil && !errors.Is(err, client.ErrNotFound) {
		a.presenter.Notify("削除に失敗しました。", SeverityError)
		return
	}
	a.presenter.Notify("削除しました", SeveritySuccess)

	// a record being edited may have just vanished; the open session stays
	// open deliberately (last writer wins, or a 404 on submit)
}

// AttachPhoto compresses raw image bytes and stores the resulting data URI on
// the session. A decode failure clears any pending photo and toasts once.
func (a *App) AttachPhoto(sess *form.Session, data []byte) error {
	uri, err := imagex.Compress(data)
	if err != nil {
		sess.ClearPhoto()
		a.presenter.Notify("画像の処理に失敗しました", SeverityError)
		return err
	}
	sess.SetPhoto(uri)
	return nil
}

// StateNow reports the lifecycle state.
func (a *App) StateNow() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}
