package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/admin/astro-api/internal/app"
)

const appName = "astro_api"

func main() {
	cfg, err := app.NewEnvConfig(appName)
	if err != nil {
		panic(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.New(appName, cfg).Run(ctx); err != nil {
		panic(err)
	}
}
