package draft

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cvstudio-backend/internal/coverletter"
	"cvstudio-backend/internal/export"
	"cvstudio-backend/internal/notify"
	"cvstudio-backend/internal/preview"
	"cvstudio-backend/internal/shared/server/middleware"
	"cvstudio-backend/internal/shared/server/respond"
)

// CoverLetterState is the client view of an open cover-letter draft.
type CoverLetterState struct {
	ID       string               `json:"id"`
	Document coverletter.Document `json:"document"`
	Saving   bool                 `json:"saving"`
}

// CoverLetterHandler exposes cover-letter editor sessions over HTTP.
type CoverLetterHandler struct {
	Store    *Store[*CoverLetterDraft]
	Gateway  *coverletter.Gateway
	Renderer *export.Renderer
}

func NewCoverLetterHandler(store *Store[*CoverLetterDraft], gw *coverletter.Gateway, renderer *export.Renderer) *CoverLetterHandler {
	return &CoverLetterHandler{Store: store, Gateway: gw, Renderer: renderer}
}

func (h *CoverLetterHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/drafts/cover-letter")
	g.POST("", h.create)
	g.GET("/:draftId", h.get)
	g.PATCH("/:draftId", h.patch)
	g.DELETE("/:draftId", h.discard)
	g.POST("/:draftId/save", h.save)
	g.GET("/:draftId/preview", h.preview)
	g.POST("/:draftId/export/:format", h.export)
}

func (h *CoverLetterHandler) create(c *gin.Context) {
	var req hydrateRequest
	if !bindOptional(c, &req) {
		return
	}
	userID := middleware.UserIDFromContext(c)
	d := NewCoverLetterDraft()
	if req.ID != "" {
		c.Set(middleware.DocumentIDKey, req.ID)
		ctx, notices := notify.WithCollector(c.Request.Context())
		doc, err := h.Gateway.FetchOne(ctx, req.ID, userID)
		if err != nil {
			writeGatewayError(c, err, notices)
			return
		}
		d.Load(doc)
	}
	sess := h.Store.Create(userID, d)
	c.Set(middleware.DraftIDKey, sess.ID)
	respond.JSON(c, http.StatusCreated, gin.H{"draft": letterState(sess)})
}

func (h *CoverLetterHandler) get(c *gin.Context) {
	sess, ok := sessionOf(c, h.Store)
	if !ok {
		return
	}
	respond.OK(c, gin.H{"draft": letterState(sess)})
}

func (h *CoverLetterHandler) patch(c *gin.Context) {
	sess, ok := sessionOf(c, h.Store)
	if !ok {
		return
	}
	fields, ok := bindFields(c)
	if !ok {
		return
	}
	if err := sess.With(func(d *CoverLetterDraft) error { return d.SetFields(fields) }); err != nil {
		writeDraftError(c, err)
		return
	}
	respond.OK(c, gin.H{"draft": letterState(sess)})
}

func (h *CoverLetterHandler) discard(c *gin.Context) {
	id := c.Param("draftId")
	c.Set(middleware.DraftIDKey, id)
	h.Store.Discard(middleware.UserIDFromContext(c), id)
	c.Status(http.StatusNoContent)
}

func (h *CoverLetterHandler) save(c *gin.Context) {
	sess, ok := sessionOf(c, h.Store)
	if !ok {
		return
	}
	if !beginSave(c, sess) {
		return
	}

	userID := middleware.UserIDFromContext(c)
	ctx, notices := notify.WithCollector(c.Request.Context())
	saved, err := func() (coverletter.Document, error) {
		defer sess.EndSave()
		saved, err := h.Gateway.Save(ctx, letterDocument(sess), userID)
		if err != nil {
			return coverletter.Document{}, err
		}
		_ = sess.With(func(d *CoverLetterDraft) error {
			d.MarkSaved(saved.ID, saved.Title, saved.CreatedAt, saved.UpdatedAt)
			return nil
		})
		return saved, nil
	}()
	if err != nil {
		writeGatewayError(c, err, notices)
		return
	}
	c.Set(middleware.DocumentIDKey, saved.ID)

	list, listErr := h.Gateway.FetchAll(c.Request.Context(), userID)
	respond.OK(c, gin.H{
		"document":   saved,
		"draft":      letterState(sess),
		"notices":    notices.Notices(),
		"saved":      list,
		"savedStale": listErr != nil,
	})
}

func (h *CoverLetterHandler) preview(c *gin.Context) {
	sess, ok := sessionOf(c, h.Store)
	if !ok {
		return
	}
	page, err := preview.RenderLetterHTML(preview.BuildCoverLetter(letterDocument(sess)))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "preview_failed", "preview could not be rendered", nil)
		return
	}
	respond.HTML(c, http.StatusOK, []byte(page))
}

func (h *CoverLetterHandler) export(c *gin.Context) {
	sess, ok := sessionOf(c, h.Store)
	if !ok {
		return
	}
	format, ok := parseFormat(c)
	if !ok {
		return
	}
	ctx, notices := notify.WithCollector(c.Request.Context())
	file, err := h.Renderer.ExportCoverLetter(ctx, letterDocument(sess), format)
	if err != nil {
		writeExportError(c, err, notices)
		return
	}
	sendFile(c, file)
}

func letterDocument(sess *Session[*CoverLetterDraft]) coverletter.Document {
	var doc coverletter.Document
	_ = sess.With(func(d *CoverLetterDraft) error {
		doc = d.Document()
		return nil
	})
	return doc
}

func letterState(sess *Session[*CoverLetterDraft]) CoverLetterState {
	st := CoverLetterState{ID: sess.ID, Saving: sess.Saving()}
	st.Document = letterDocument(sess)
	return st
}
