package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bellapacxx/squares-backend/cmd"
	"github.com/bellapacxx/squares-backend/utils/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer logger.Sync()

	if err := cmd.Execute(ctx); err != nil {
		logger.Errorf("[FATAL] %v", err)
		logger.Sync()
		os.Exit(1)
	}
}
