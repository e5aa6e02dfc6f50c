package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	googleauth "cvstudio-backend/internal/auth"
	"cvstudio-backend/internal/coverletter"
	"cvstudio-backend/internal/cv"
	"cvstudio-backend/internal/draft"
	"cvstudio-backend/internal/export"
	"cvstudio-backend/internal/shared/config"
	"cvstudio-backend/internal/shared/server"
	"cvstudio-backend/internal/shared/server/middleware"
	"cvstudio-backend/internal/shared/storage/db"
	"cvstudio-backend/internal/shared/telemetry"
	"cvstudio-backend/internal/users"
)

const shutdownTimeout = 10 * time.Second

// App holds shared dependencies and the router built from them.
type App struct {
	Config      config.Config
	Router      *gin.Engine
	DB          *sql.DB
	Dialect     db.Dialect
	CVRepo      cv.Repo
	LetterRepo  coverletter.Repo
	UsersRepo   users.Repo
	CVGateway   *cv.Gateway
	Letters     *coverletter.Gateway
	Users       *users.Service
	Renderer    *export.Renderer
	CVDrafts    *draft.Store[*draft.CVDraft]
	LetterDraft *draft.Store[*draft.CoverLetterDraft]
	GoogleAuth  *googleauth.GoogleService
}

// Options lets callers replace pieces that need external processes.
type Options struct {
	// Rasterizer overrides the headless Chrome rasterizer.
	Rasterizer export.Rasterizer
}

// Build connects storage, wires services and registers routes.
func Build(cfg config.Config) (*App, error) {
	return BuildWith(context.Background(), cfg, Options{})
}

func BuildWith(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	sqlDB, dialect, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: sqlDB, Dialect: dialect}
	buildRepos(app)

	rasterizer := opts.Rasterizer
	if rasterizer == nil {
		rasterizer = export.NewChromeRasterizer(cfg.ChromePath)
	}

	app.CVGateway = cv.NewGateway(app.CVRepo, nil)
	app.Letters = coverletter.NewGateway(app.LetterRepo, nil)
	app.Users = users.NewService(app.UsersRepo)
	app.Renderer = export.NewRenderer(rasterizer, nil)
	app.CVDrafts = draft.NewStore[*draft.CVDraft](cfg.DraftTTL)
	app.LetterDraft = draft.NewStore[*draft.CoverLetterDraft](cfg.DraftTTL)
	app.GoogleAuth = googleauth.NewGoogleService(
		app.Users,
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL,
		cfg.UIRedirectURL,
	)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:             cfg,
		CVHandler:          cv.NewHandler(app.CVGateway),
		CoverLetterHandler: coverletter.NewHandler(app.Letters),
		CVDraftHandler:     draft.NewCVHandler(app.CVDrafts, app.CVGateway, app.Renderer),
		LetterDraftHandler: draft.NewCoverLetterHandler(app.LetterDraft, app.Letters, app.Renderer),
		UsersHandler:       users.NewHandler(app.Users),
		GoogleAuth:         app.GoogleAuth,
		RateLimiter:        middleware.NewRateLimiter(nil),
	})

	return app, nil
}

// RunBackground evicts idle drafts until ctx is done.
func (a *App) RunBackground(ctx context.Context) {
	interval := a.Config.DraftTTL / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	go a.CVDrafts.Run(ctx, interval)
	go a.LetterDraft.Run(ctx, interval)
}

func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, db.Dialect, error) {
	if cfg.DatabaseURL == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, dialect, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "connect failed", "error": telemetry.ErrField(err)})
			return nil, "", nil
		}
		return nil, "", err
	}

	if err := db.RunMigrations(ctx, sqlDB, dialect); err != nil {
		sqlDB.Close()
		return nil, "", fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, dialect, nil
}

func buildRepos(app *App) {
	if app.DB != nil {
		app.CVRepo = &cv.SQLRepo{DB: app.DB, Dialect: app.Dialect}
		app.LetterRepo = &coverletter.SQLRepo{DB: app.DB, Dialect: app.Dialect}
		app.UsersRepo = &users.SQLRepo{DB: app.DB, Dialect: app.Dialect}
		return
	}
	app.CVRepo = cv.NewMemoryRepo()
	app.LetterRepo = coverletter.NewMemoryRepo()
	app.UsersRepo = users.NewMemoryRepo()
}

// ListenAndServe serves the router on cfg.Port until ctx is done, then shuts
// down gracefully.
func (a *App) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              server.Addr(a.Config.Port),
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		telemetry.Info("server.listening", map[string]any{"addr": srv.Addr, "env": a.Config.Env})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	telemetry.Info("server.shutdown", nil)
	return srv.Shutdown(shutdownCtx)
}
