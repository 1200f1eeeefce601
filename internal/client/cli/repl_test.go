package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ramen-kiroku/ramenlog/internal/client/app"
	"github.com/ramen-kiroku/ramenlog/internal/client/filter"
	"github.com/ramen-kiroku/ramenlog/internal/client/form"
	"github.com/ramen-kiroku/ramenlog/internal/models"
)

// stubCoordinator records routed commands. Its delete path asks the
// presenter for confirmation like the real coordinator does.
type stubCoordinator struct {
	presenter *TerminalPresenter

	criteria   filter.Criteria
	createSess *form.Session
	editSess   *form.Session

	dispatched      []app.Action
	confirmed       []bool
	beganEdit       []string
	submittedCreate int
	submittedEdit   int
	attached        [][]byte
}

func newStubCoordinator(p *TerminalPresenter) *stubCoordinator {
	return &stubCoordinator{presenter: p, createSess: form.NewCreate()}
}

func (s *stubCoordinator) ApplyFilter(c filter.Criteria) { s.criteria = c }
func (s *stubCoordinator) ResetFilter()                  { s.criteria = filter.Criteria{} }
func (s *stubCoordinator) Criteria() filter.Criteria     { return s.criteria }

func (s *stubCoordinator) Dispatch(ctx context.Context, action app.Action) {
	s.dispatched = append(s.dispatched, action)
	if action.Kind == app.ActionDelete {
		s.confirmed = append(s.confirmed, s.presenter.ConfirmDelete("一番"))
	}
}

func (s *stubCoordinator) CreateSession() *form.Session { return s.createSess }
func (s *stubCoordinator) EditSession() *form.Session   { return s.editSess }

func (s *stubCoordinator) BeginEdit(id string) {
	s.beganEdit = append(s.beganEdit, id)
	s.editSess = form.NewEdit(models.Record{ID: id, Date: "2024-05-01", Prefecture: "東京都", City: "渋谷区", ShopName: "一番", Rating: 3})
}

func (s *stubCoordinator) CancelEdit() { s.editSess = nil }

func (s *stubCoordinator) SubmitCreate(ctx context.Context) error {
	s.submittedCreate++
	return nil
}

func (s *stubCoordinator) SubmitEdit(ctx context.Context) error {
	s.submittedEdit++
	return nil
}

func (s *stubCoordinator) AttachPhoto(sess *form.Session, data []byte) error {
	s.attached = append(s.attached, data)
	return nil
}

// newTestREPL builds a REPL and presenter over one shared buffered reader,
// exactly as the client wiring does.
func newTestREPL(input string) (*REPL, *stubCoordinator, *bytes.Buffer) {
	var out bytes.Buffer
	in := bufio.NewReader(strings.NewReader(input))
	p := NewTerminalPresenter(&out, in)
	stub := newStubCoordinator(p)
	return NewREPL(stub, p, in, &out), stub, &out
}

func TestREPL_DeleteConfirmationSharesReader(t *testing.T) {
	repl, stub, _ := newTestREPL("d 1\ny\nexit\n")
	repl.presenter.RenderList([]models.Record{{ID: "rec-1", ShopName: "一番", Date: "2024-05-01", Prefecture: "東京都", City: "渋谷区", Rating: 3}})

	repl.Run(context.Background())

	require.Len(t, stub.dispatched, 1)
	require.Equal(t, app.ActionDelete, stub.dispatched[0].Kind)
	require.Equal(t, "rec-1", stub.dispatched[0].ID)

	// the scripted "y" must reach the confirmation prompt, not be consumed
	// as the next command
	require.Equal(t, []bool{true}, stub.confirmed)
}

func TestREPL_DeleteDeclined(t *testing.T) {
	repl, stub, _ := newTestREPL("d 1\nn\nexit\n")
	repl.presenter.RenderList([]models.Record{{ID: "rec-1", ShopName: "一番", Rating: 3}})

	repl.Run(context.Background())

	require.Equal(t, []bool{false}, stub.confirmed)
}

func TestREPL_DeleteUnknownNumber(t *testing.T) {
	repl, stub, out := newTestREPL("d 9\nexit\n")
	repl.presenter.RenderList([]models.Record{{ID: "rec-1", ShopName: "一番", Rating: 3}})

	repl.Run(context.Background())

	require.Empty(t, stub.dispatched)
	require.Contains(t, out.String(), "その番号の記録はありません")
}

func TestREPL_DeleteWithoutNumber(t *testing.T) {
	repl, stub, out := newTestREPL("d\nexit\n")

	repl.Run(context.Background())

	require.Empty(t, stub.dispatched)
	require.Contains(t, out.String(), "番号を指定してください")
}

func TestREPL_AddRoutesSubmit(t *testing.T) {
	// date, time, prefecture, city, shop, type, menus(end), hours,
	// holidays, links(end), notes, rating, want-to-return
	input := "a\n2024-05-01\n\n東京都\n渋谷区\n一番\n\n\n\n\n\n\n4\n\nexit\n"
	repl, stub, _ := newTestREPL(input)

	repl.Run(context.Background())

	require.Equal(t, 1, stub.submittedCreate)
	sess := stub.createSess
	require.Equal(t, "2024-05-01", sess.Date)
	require.Equal(t, "東京都", sess.Prefecture)
	require.Equal(t, "渋谷区", sess.City)
	require.Equal(t, "一番", sess.ShopName)
	require.Equal(t, 4, sess.Rating)
}

func TestREPL_EditSeedsAndSubmits(t *testing.T) {
	// all prompts keep the seeded values except the city
	input := "e 1\n\n\n\n目黒区\n\n\n\n\n\n\n\n\n\nexit\n"
	repl, stub, _ := newTestREPL(input)
	repl.presenter.RenderList([]models.Record{{ID: "rec-1", ShopName: "一番", Rating: 3}})

	repl.Run(context.Background())

	require.Equal(t, []string{"rec-1"}, stub.beganEdit)
	require.Equal(t, 1, stub.submittedEdit)
	require.Equal(t, "目黒区", stub.editSess.City)
	require.Equal(t, "一番", stub.editSess.ShopName)
}

func TestREPL_FilterAndReset(t *testing.T) {
	repl, stub, _ := newTestREPL("f\n東京都\n渋谷\nreset\nexit\n")

	repl.Run(context.Background())

	// filter was applied, then reset cleared it
	require.True(t, stub.criteria.IsZero())
}

func TestREPL_FilterApplies(t *testing.T) {
	repl, stub, _ := newTestREPL("f\n東京都\n渋谷\nexit\n")

	repl.Run(context.Background())

	require.Equal(t, "東京都", stub.criteria.Prefecture)
	require.Equal(t, "渋谷", stub.criteria.CityContains)
}

func TestREPL_PhotoWithoutPath(t *testing.T) {
	repl, stub, out := newTestREPL("photo\nexit\n")

	repl.Run(context.Background())

	require.Empty(t, stub.attached)
	require.Contains(t, out.String(), "使い方: photo <パス>")
}

func TestREPL_UnknownCommand(t *testing.T) {
	repl, _, out := newTestREPL("dance\nexit\n")

	repl.Run(context.Background())

	require.Contains(t, out.String(), "不明なコマンド: dance")
}

func TestREPL_ExitsOnEOF(t *testing.T) {
	repl, stub, _ := newTestREPL("")

	repl.Run(context.Background())

	require.Empty(t, stub.dispatched)
}
