package main

import (
	"context"
	"log"

	"github.com/ramen-kiroku/ramenlog/internal/server"
)

func main() {
	app, err := server.NewApp()
	if err != nil {
		log.Fatalf("initialization error: %v", err)
	}
	app.Run(context.Background())
}
