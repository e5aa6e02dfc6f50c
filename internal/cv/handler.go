package cv

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"cvstudio-backend/internal/notify"
	"cvstudio-backend/internal/shared/server/middleware"
	"cvstudio-backend/internal/shared/server/respond"
)

const maxBodySize = 1 << 20

// Handler exposes saved CVs over HTTP.
type Handler struct {
	Gateway *Gateway
}

func NewHandler(gw *Gateway) *Handler {
	return &Handler{Gateway: gw}
}

// RegisterRoutes attaches CV routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/cvs", h.list)
	rg.GET("/cvs/:id", h.get)
	rg.POST("/cvs", h.save)
	rg.DELETE("/cvs/:id", h.remove)
}

func (h *Handler) list(c *gin.Context) {
	ctx, notices := notify.WithCollector(c.Request.Context())
	docs, err := h.Gateway.FetchAll(ctx, middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err, notices)
		return
	}
	respond.OK(c, gin.H{"cvs": docs})
}

func (h *Handler) get(c *gin.Context) {
	ctx, notices := notify.WithCollector(c.Request.Context())
	doc, err := h.Gateway.FetchOne(ctx, c.Param("id"), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err, notices)
		return
	}
	respond.OK(c, gin.H{"cv": doc})
}

func (h *Handler) save(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read request body", nil)
		return
	}
	if err := ValidatePayload(body); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid cv payload", err.Error())
		return
	}
	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	ctx, notices := notify.WithCollector(c.Request.Context())
	isNew := doc.ID == ""
	saved, err := h.Gateway.Save(ctx, doc, middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err, notices)
		return
	}
	status := http.StatusOK
	if isNew {
		status = http.StatusCreated
	}
	respond.JSON(c, status, gin.H{"cv": saved, "notices": notices.Notices()})
}

func (h *Handler) remove(c *gin.Context) {
	ctx, notices := notify.WithCollector(c.Request.Context())
	if err := h.Gateway.Delete(ctx, c.Param("id"), middleware.UserIDFromContext(c)); err != nil {
		writeError(c, err, notices)
		return
	}
	respond.OK(c, gin.H{"deleted": true, "notices": notices.Notices()})
}

func writeError(c *gin.Context, err error, notices *notify.Collector) {
	message := "request failed"
	if last, ok := notices.Last(); ok {
		message = last.Message
	}
	details := gin.H{"notices": notices.Notices()}
	switch {
	case errors.Is(err, ErrLoginRequired):
		respond.Error(c, http.StatusUnauthorized, "login_required", message, details)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", message, details)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "cv id is required", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "storage_error", message, details)
	}
}
