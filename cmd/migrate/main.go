package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"log"
	"os"

	"cvstudio-backend/internal/cli"
	"cvstudio-backend/internal/shared/config"
)

func main() {
	cfg := config.Load()
	if err := cli.Migrate(context.Background(), cfg.DatabaseURL); err != nil {
		log.Printf("migrate: %v", err)
		os.Exit(1)
	}
}
