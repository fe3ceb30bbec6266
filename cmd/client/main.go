package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/sportstore/internal/client/cli"
	"github.com/dmitrijs2005/sportstore/internal/client/config"
	"github.com/dmitrijs2005/sportstore/internal/flagx"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx, flagx.StripArgs(os.Args[1:], config.Flags)); err != nil {
		log.Printf("%v", err)
		if errors.Is(err, cli.ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
