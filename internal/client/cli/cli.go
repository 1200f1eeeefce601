package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ramen-kiroku/ramenlog/internal/client/app"
	clientpkg "github.com/ramen-kiroku/ramenlog/internal/client/client"
	"github.com/ramen-kiroku/ramenlog/internal/client/config"
	"github.com/ramen-kiroku/ramenlog/internal/client/gateway"
	"github.com/ramen-kiroku/ramenlog/internal/client/store"
	"github.com/ramen-kiroku/ramenlog/internal/logging"
)

// App wires the full client: transport, mirror store, gateway, coordinator
// and terminal front end.
type App struct {
	cfg       *config.Config
	logger    logging.Logger
	transport clientpkg.Client
	coord     *app.App
	repl      *REPL
	out       io.Writer
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	transport := clientpkg.NewHTTPClient(cfg.ServerEndpointAddr)
	st := store.New(transport, logger)
	gw := gateway.New(transport, logger)

	// one buffered reader over stdin, shared by the REPL and the
	// presenter's confirmation prompt
	in := bufio.NewReader(os.Stdin)
	presenter := NewTerminalPresenter(os.Stdout, in)
	coord := app.New(st, gw, presenter, logger)
	repl := NewREPL(coord, presenter, in, os.Stdout)

	return &App{
		cfg:       cfg,
		logger:    logger,
		transport: transport,
		coord:     coord,
		repl:      repl,
		out:       os.Stdout,
	}, nil
}

// Run subscribes and enters the REPL. A subscription that cannot be
// established at all is a configuration error: one full-pane message, no
// retry.
func (a *App) Run(ctx context.Context) error {
	defer a.transport.Close()

	if err := a.coord.Start(ctx); err != nil {
		fmt.Fprintln(a.out, "────────────────────────────────────────")
		fmt.Fprintln(a.out, "サーバーに接続できません")
		fmt.Fprintf(a.out, "接続先: %s\n", a.cfg.ServerEndpointAddr)
		fmt.Fprintln(a.out, "設定を確認してから再起動してください")
		fmt.Fprintln(a.out, "────────────────────────────────────────")
		return err
	}
	defer a.coord.Stop()

	fmt.Fprintln(a.out, "ラーメン記録 (help でコマンド一覧)")
	a.repl.Run(ctx)
	return nil
}
