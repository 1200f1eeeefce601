package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ramen-kiroku/ramenlog/internal/client/app"
	"github.com/ramen-kiroku/ramenlog/internal/client/filter"
	"github.com/ramen-kiroku/ramenlog/internal/client/form"
	"github.com/ramen-kiroku/ramenlog/internal/models"
	"github.com/ramen-kiroku/ramenlog/internal/parsex"
)

// coordinator is the command surface the REPL needs. app.App satisfies it;
// tests can provide a stub.
type coordinator interface {
	ApplyFilter(c filter.Criteria)
	ResetFilter()
	Criteria() filter.Criteria
	Dispatch(ctx context.Context, action app.Action)
	CreateSession() *form.Session
	EditSession() *form.Session
	BeginEdit(id string)
	CancelEdit()
	SubmitCreate(ctx context.Context) error
	SubmitEdit(ctx context.Context) error
	AttachPhoto(sess *form.Session, data []byte) error
}

// REPL reads commands, drives the coordinator and leaves all rendering to the
// presenter. Command handler errors are already toasted by the coordinator,
// so the loop ignores them.
type REPL struct {
	app       coordinator
	presenter *TerminalPresenter
	in        *bufio.Reader
	out       io.Writer
}

// NewREPL shares the presenter's buffered reader so prompts and delete
// confirmations consume from one stream.
func NewREPL(a coordinator, p *TerminalPresenter, in *bufio.Reader, out io.Writer) *REPL {
	return &REPL{app: a, presenter: p, in: in, out: out}
}

// Run loops until EOF or "exit".
func (r *REPL) Run(ctx context.Context) {
	for {
		fmt.Fprint(r.out, "ramen> ")
		line, err := r.in.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "help":
			fmt.Fprintln(r.out, "コマンド: (a)dd, (e)dit <番号>, (d)elete <番号>, (f)ilter, reset, photo <パス>, help, exit")

		case "a", "add":
			r.add(ctx)

		case "e", "edit":
			r.edit(ctx, parts[1:])

		case "d", "delete":
			r.delete(ctx, parts[1:])

		case "f", "filter":
			r.filter()

		case "reset":
			r.app.ResetFilter()

		case "photo":
			r.photo(parts[1:])

		case "exit", "quit":
			return

		default:
			fmt.Fprintln(r.out, "不明なコマンド:", parts[0])
		}
	}
}

func (r *REPL) add(ctx context.Context) {
	sess := r.app.CreateSession()
	if err := r.fill(sess); err != nil {
		return
	}
	_ = r.app.SubmitCreate(ctx)
}

func (r *REPL) edit(ctx context.Context, args []string) {
	rec, ok := r.target(args)
	if !ok {
		return
	}
	r.app.BeginEdit(rec.ID)
	sess := r.app.EditSession()
	if sess == nil {
		return
	}
	if err := r.fill(sess); err != nil {
		r.app.CancelEdit()
		return
	}
	_ = r.app.SubmitEdit(ctx)
}

func (r *REPL) delete(ctx context.Context, args []string) {
	rec, ok := r.target(args)
	if !ok {
		return
	}
	r.app.Dispatch(ctx, app.Action{Kind: app.ActionDelete, ID: rec.ID})
}

func (r *REPL) filter() {
	c := r.app.Criteria()
	pref, err := prompt(r.in, r.out, "都道府県", c.Prefecture)
	if err != nil {
		return
	}
	city, err := prompt(r.in, r.out, "市町村(部分一致)", c.CityContains)
	if err != nil {
		return
	}
	r.app.ApplyFilter(filter.Criteria{Prefecture: pref, CityContains: city})
}

func (r *REPL) photo(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(r.out, "使い方: photo <パス>")
		return
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(r.out, "読み込めません:", err)
		return
	}
	sess := r.app.EditSession()
	if sess == nil {
		sess = r.app.CreateSession()
	}
	_ = r.app.AttachPhoto(sess, data)
}

// target resolves "edit 2" / "delete 2" against the last rendered view.
func (r *REPL) target(args []string) (models.Record, bool) {
	if len(args) == 0 {
		fmt.Fprintln(r.out, "番号を指定してください")
		return models.Record{}, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintln(r.out, "番号を指定してください")
		return models.Record{}, false
	}
	rec, ok := r.presenter.RecordAt(n)
	if !ok {
		fmt.Fprintln(r.out, "その番号の記録はありません")
		return models.Record{}, false
	}
	return rec, true
}

// fill walks the form fields; an empty answer keeps the session's current
// value, so editing only touches what the user retypes.
func (r *REPL) fill(sess *form.Session) error {
	var err error
	if sess.Date, err = prompt(r.in, r.out, "日付 (YYYY-MM-DD)", sess.Date); err != nil {
		return err
	}
	if sess.Time, err = prompt(r.in, r.out, "時刻", sess.Time); err != nil {
		return err
	}
	if sess.Prefecture, err = prompt(r.in, r.out, "都道府県", sess.Prefecture); err != nil {
		return err
	}
	if sess.City, err = prompt(r.in, r.out, "市町村", sess.City); err != nil {
		return err
	}
	if sess.ShopName, err = prompt(r.in, r.out, "店名", sess.ShopName); err != nil {
		return err
	}
	if sess.RamenType, err = prompt(r.in, r.out, "種類", sess.RamenType); err != nil {
		return err
	}

	menus, err := promptMultiline(r.in, r.out, "メニュー (名前=値段、1行1品)")
	if err != nil {
		return err
	}
	if menus != "" {
		for i, line := range strings.Split(menus, "\n") {
			name, price, _ := strings.Cut(line, "=")
			sess.SetMenuEntry(i, strings.TrimSpace(name), parsex.IntPtr(strings.TrimSpace(price)))
		}
	}

	if sess.BusinessHours, err = prompt(r.in, r.out, "営業時間", sess.BusinessHours); err != nil {
		return err
	}
	if sess.Holidays, err = prompt(r.in, r.out, "定休日", sess.Holidays); err != nil {
		return err
	}
	links, err := promptMultiline(r.in, r.out, "リンク (1行1URL)")
	if err != nil {
		return err
	}
	if links != "" {
		sess.Links = links
	}
	if sess.Notes, err = prompt(r.in, r.out, "メモ", sess.Notes); err != nil {
		return err
	}

	rating, err := prompt(r.in, r.out, "評価 (1-5)", strconv.Itoa(sess.Rating))
	if err != nil {
		return err
	}
	sess.Rating = parsex.IntOrDefault(rating, 3)

	if sess.WantToReturn, err = promptYesNo(r.in, r.out, "また行きたい？", sess.WantToReturn); err != nil {
		return err
	}
	return nil
}
