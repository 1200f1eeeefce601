// Package cli is the terminal front end: a Presenter that prints record cards
// and toasts, and a small REPL that routes commands into the coordinator.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ramen-kiroku/ramenlog/internal/client/app"
	"github.com/ramen-kiroku/ramenlog/internal/models"
)

// TerminalPresenter renders the view to a writer and answers delete
// confirmations from a reader. It remembers the last rendered view so that
// commands can address records by their printed number.
//
// The reader must be the same *bufio.Reader the REPL reads commands from:
// two buffered readers over one underlying input would steal lines from
// each other.
type TerminalPresenter struct {
	out io.Writer
	in  *bufio.Reader

	mu   sync.Mutex
	view []models.Record
}

func NewTerminalPresenter(out io.Writer, in *bufio.Reader) *TerminalPresenter {
	return &TerminalPresenter{out: out, in: in}
}

func (p *TerminalPresenter) RenderList(records []models.Record) {
	p.mu.Lock()
	p.view = records
	p.mu.Unlock()

	fmt.Fprintln(p.out)
	renderList(p.out, records)
}

// Notify prints a toast line. In a terminal nothing auto-dismisses; the
// severity icon stands in for the toast styling.
func (p *TerminalPresenter) Notify(message string, severity app.Severity) {
	icon := "✅"
	if severity == app.SeverityError {
		icon = "⚠️"
	}
	fmt.Fprintf(p.out, "%s %s\n", icon, message)
}

// ConfirmDelete asks for the record by its shop name and reads a y/N answer.
func (p *TerminalPresenter) ConfirmDelete(displayName string) bool {
	fmt.Fprintf(p.out, "「%s」の記録を削除しますか？ (y/N): ", displayName)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// RecordAt resolves a 1-based position in the last rendered view.
func (p *TerminalPresenter) RecordAt(n int) (models.Record, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n < 1 || n > len(p.view) {
		return models.Record{}, false
	}
	return p.view[n-1], true
}
