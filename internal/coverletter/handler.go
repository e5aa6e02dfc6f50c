package coverletter

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

type Handler struct {
	Gateway *Gateway
}

func NewHandler(gw *Gateway) *Handler {
	return &Handler{Gateway: gw}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/cover-letters", h.list)
	rg.GET("/cover-letters/:id", h.get)
	rg.POST("/cover-letters", h.save)
	rg.DELETE("/cover-letters/:id", h.remove)
}

type saveRequest struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Company   string `json:"company"`
	Position  string `json:"position"`
	Recipient string `json:"recipient"`
}

func (h *Handler) list(c *gin.Context) {
	ctx, notices := notify.WithCollector(c.Request.Context())
	docs, err := h.Gateway.FetchAll(ctx, middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err, notices)
		return
	}
	respond.OK(c, gin.H{"coverLetters": docs})
}

func (h *Handler) get(c *gin.Context) {
	ctx, notices := notify.WithCollector(c.Request.Context())
	doc, err := h.Gateway.FetchOne(ctx, c.Param("id"), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err, notices)
		return
	}
	respond.OK(c, gin.H{"coverLetter": doc})
}

func (h *Handler) save(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read request body", nil)
		return
	}
	if err := ValidatePayload(body); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid cover letter payload", err.Error())
		return
	}
	var req saveRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	doc := Document{
		ID:        req.ID,
		Title:     req.Title,
		Content:   req.Content,
		Company:   req.Company,
		Position:  req.Position,
		Recipient: req.Recipient,
	}

	ctx, notices := notify.WithCollector(c.Request.Context())
	saved, err := h.Gateway.Save(ctx, doc, middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err, notices)
		return
	}
	status := http.StatusOK
	if req.ID == "" {
		status = http.StatusCreated
	}
	respond.JSON(c, status, gin.H{"coverLetter": saved, "notices": notices.Notices()})
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
	switch {
	case errors.Is(err, ErrLoginRequired):
		respond.Error(c, http.StatusUnauthorized, "login_required", message, nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", message, nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "cover letter id is required", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "storage_error", message, nil)
	}
}
