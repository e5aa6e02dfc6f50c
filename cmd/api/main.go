package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"cvstudio-backend/internal/cli"
	"cvstudio-backend/internal/shared/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Serve(ctx, config.Load()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
