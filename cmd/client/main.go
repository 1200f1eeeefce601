package main

import (
	"context"
	"os"

	"github.com/ramen-kiroku/ramenlog/internal/buildinfo"
	"github.com/ramen-kiroku/ramenlog/internal/client/cli"
	"github.com/ramen-kiroku/ramenlog/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)
	if err != nil {
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		os.Exit(1)
	}
}
