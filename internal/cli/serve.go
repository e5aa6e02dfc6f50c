package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cvstudio-backend/internal/bootstrap"
	"cvstudio-backend/internal/shared/config"
	"cvstudio-backend/internal/shared/storage/db"
	"cvstudio-backend/internal/shared/telemetry"
)

func newServeCommand() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  "Run the HTTP API. Settings come from the environment and .env files.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if port != "" {
				cfg.Port = port
			}
			return Serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	return cmd
}

// Serve builds the application and serves it until ctx is cancelled.
func Serve(ctx context.Context, cfg config.Config) error {
	shutdownTracing, err := telemetry.SetupTracing(ctx, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(flushCtx)
	}()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	defer app.Close()

	app.RunBackground(ctx)
	return app.ListenAndServe(ctx)
}

func newMigrateCommand() *cobra.Command {
	var databaseURL string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Example: `  cvstudio migrate
  cvstudio migrate --database-url sqlite://cvstudio.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				databaseURL = config.Load().DatabaseURL
			}
			if err := Migrate(cmd.Context(), databaseURL); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Migrations applied")
			return nil
		},
	}
	cmd.Flags().StringVar(&databaseURL, "database-url", "", "database url (overrides DATABASE_URL)")
	return cmd
}

// Migrate connects to databaseURL and applies the embedded migrations.
func Migrate(ctx context.Context, databaseURL string) error {
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	sqlDB, dialect, err := db.Connect(ctx, databaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB, dialect); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	telemetry.Info("migrate.done", map[string]any{"dialect": string(dialect)})
	return nil
}
