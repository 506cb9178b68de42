package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"housing-coop-go/internal/app"
	"housing-coop-go/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	log := logger.NewFromEnv().With("service", "coop-server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("app: starting")
	application, err := app.New(ctx, log)
	if err != nil {
		log.Critical("app: init failed", "err", err)
		return 1
	}

	status := 0
	if err := application.Run(ctx); err != nil {
		log.Critical("app: stopped with error", "err", err)
		status = 1
	}
	if err := application.Close(); err != nil {
		log.Error("app: closing database failed", "err", err)
		status = 1
	}
	if status == 0 {
		log.Info("app: stopped")
	}
	return status
}
