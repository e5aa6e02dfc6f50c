package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "cvstudio-backend/internal/auth"
	"cvstudio-backend/internal/coverletter"
	"cvstudio-backend/internal/cv"
	"cvstudio-backend/internal/draft"
	"cvstudio-backend/internal/shared/config"
	"cvstudio-backend/internal/shared/metrics"
	"cvstudio-backend/internal/shared/server/middleware"
	"cvstudio-backend/internal/shared/server/respond"
	"cvstudio-backend/internal/users"
)

// RouterDeps carries the handlers mounted under /api/v1. Nil handlers are skipped.
type RouterDeps struct {
	Config             config.Config
	CVHandler          *cv.Handler
	CoverLetterHandler *coverletter.Handler
	CVDraftHandler     *draft.CVHandler
	LetterDraftHandler *draft.CoverLetterHandler
	UsersHandler       *users.Handler
	GoogleAuth         *googleauth.GoogleService
	RateLimiter        *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth("/api/v1/health", "/api/v1/auth/", "/metrics"),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				middleware.ExportRateLimitGroup: {Rate: deps.Config.ExportRate, Burst: deps.Config.ExportBurst},
			},
			GroupFor: middleware.ExportGroup,
			Limiter:  deps.RateLimiter,
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterRoutes(api)
	}
	if deps.CVHandler != nil {
		deps.CVHandler.RegisterRoutes(api)
	}
	if deps.CoverLetterHandler != nil {
		deps.CoverLetterHandler.RegisterRoutes(api)
	}
	if deps.CVDraftHandler != nil {
		deps.CVDraftHandler.RegisterRoutes(api)
	}
	if deps.LetterDraftHandler != nil {
		deps.LetterDraftHandler.RegisterRoutes(api)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
