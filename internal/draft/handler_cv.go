package draft

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cvstudio-backend/internal/cv"
	"cvstudio-backend/internal/export"
	"cvstudio-backend/internal/notify"
	"cvstudio-backend/internal/preview"
	"cvstudio-backend/internal/shared/server/middleware"
	"cvstudio-backend/internal/shared/server/respond"
)

// CVState is the client view of an open CV draft.
type CVState struct {
	ID         string      `json:"id"`
	Document   cv.Document `json:"document"`
	SkillsText string      `json:"skillsText"`
	Saving     bool        `json:"saving"`
}

// CVHandler exposes CV editor sessions over HTTP.
type CVHandler struct {
	Store    *Store[*CVDraft]
	Gateway  *cv.Gateway
	Renderer *export.Renderer
}

func NewCVHandler(store *Store[*CVDraft], gw *cv.Gateway, renderer *export.Renderer) *CVHandler {
	return &CVHandler{Store: store, Gateway: gw, Renderer: renderer}
}

func (h *CVHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/drafts/cv")
	g.POST("", h.create)
	g.GET("/:draftId", h.get)
	g.PATCH("/:draftId", h.patch)
	g.DELETE("/:draftId", h.discard)
	g.POST("/:draftId/entries/:list", h.addEntry)
	g.PATCH("/:draftId/entries/:list/:index", h.updateEntry)
	g.DELETE("/:draftId/entries/:list/:index", h.removeEntry)
	g.POST("/:draftId/save", h.save)
	g.GET("/:draftId/preview", h.preview)
	g.POST("/:draftId/export/:format", h.export)
}

func (h *CVHandler) create(c *gin.Context) {
	var req hydrateRequest
	if !bindOptional(c, &req) {
		return
	}
	userID := middleware.UserIDFromContext(c)
	d := NewCVDraft()
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
	respond.JSON(c, http.StatusCreated, gin.H{"draft": cvState(sess)})
}

func (h *CVHandler) get(c *gin.Context) {
	sess, ok := sessionOf(c, h.Store)
	if !ok {
		return
	}
	respond.OK(c, gin.H{"draft": cvState(sess)})
}

func (h *CVHandler) patch(c *gin.Context) {
	sess, ok := sessionOf(c, h.Store)
	if !ok {
		return
	}
	fields, ok := bindFields(c)
	if !ok {
		return
	}
	if err := sess.With(func(d *CVDraft) error { return d.SetFields(fields) }); err != nil {
		writeDraftError(c, err)
		return
	}
	respond.OK(c, gin.H{"draft": cvState(sess)})
}

func (h *CVHandler) discard(c *gin.Context) {
	id := c.Param("draftId")
	c.Set(middleware.DraftIDKey, id)
	h.Store.Discard(middleware.UserIDFromContext(c), id)
	c.Status(http.StatusNoContent)
}

func (h *CVHandler) addEntry(c *gin.Context) {
	sess, ok := sessionOf(c, h.Store)
	if !ok {
		return
	}
	var index int
	err := sess.With(func(d *CVDraft) error {
		var err error
		index, err = d.AddEntry(c.Param("list"))
		return err
	})
	if err != nil {
		writeDraftError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"index": index, "draft": cvState(sess)})
}

func (h *CVHandler) updateEntry(c *gin.Context) {
	sess, ok := sessionOf(c, h.Store)
	if !ok {
		return
	}
	index, ok := parseIndex(c)
	if !ok {
		return
	}
	fields, ok := bindFields(c)
	if !ok {
		return
	}
	list := c.Param("list")
	err := sess.With(func(d *CVDraft) error {
		if err := checkIndex(d, list, index); err != nil {
			return err
		}
		return d.UpdateEntryFields(list, index, fields)
	})
	if err != nil {
		writeDraftError(c, err)
		return
	}
	respond.OK(c, gin.H{"draft": cvState(sess)})
}

func (h *CVHandler) removeEntry(c *gin.Context) {
	sess, ok := sessionOf(c, h.Store)
	if !ok {
		return
	}
	index, ok := parseIndex(c)
	if !ok {
		return
	}
	list := c.Param("list")
	err := sess.With(func(d *CVDraft) error {
		if err := checkIndex(d, list, index); err != nil {
			return err
		}
		return d.RemoveEntry(list, index)
	})
	if err != nil {
		writeDraftError(c, err)
		return
	}
	respond.OK(c, gin.H{"draft": cvState(sess)})
}

func (h *CVHandler) save(c *gin.Context) {
	sess, ok := sessionOf(c, h.Store)
	if !ok {
		return
	}
	if !beginSave(c, sess) {
		return
	}

	userID := middleware.UserIDFromContext(c)
	ctx, notices := notify.WithCollector(c.Request.Context())
	saved, err := func() (cv.Document, error) {
		defer sess.EndSave()
		saved, err := h.Gateway.Save(ctx, cvDocument(sess), userID)
		if err != nil {
			return cv.Document{}, err
		}
		_ = sess.With(func(d *CVDraft) error {
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

	// The refresh runs outside the request collector so a failure does not
	// turn a successful save into an error notice.
	list, listErr := h.Gateway.FetchAll(c.Request.Context(), userID)
	respond.OK(c, gin.H{
		"document":   saved,
		"draft":      cvState(sess),
		"notices":    notices.Notices(),
		"saved":      list,
		"savedStale": listErr != nil,
	})
}

func (h *CVHandler) preview(c *gin.Context) {
	sess, ok := sessionOf(c, h.Store)
	if !ok {
		return
	}
	page, err := preview.RenderCVHTML(preview.BuildCV(cvDocument(sess)))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "preview_failed", "preview could not be rendered", nil)
		return
	}
	respond.HTML(c, http.StatusOK, []byte(page))
}

func (h *CVHandler) export(c *gin.Context) {
	sess, ok := sessionOf(c, h.Store)
	if !ok {
		return
	}
	format, ok := parseFormat(c)
	if !ok {
		return
	}
	var req exportRequest
	if !bindOptional(c, &req) {
		return
	}
	ctx, notices := notify.WithCollector(c.Request.Context())
	file, err := h.Renderer.ExportCV(ctx, cvDocument(sess), format, req.Markup)
	if err != nil {
		writeExportError(c, err, notices)
		return
	}
	sendFile(c, file)
}

func checkIndex(d *CVDraft, list string, index int) error {
	n, err := d.Len(list)
	if err != nil {
		return err
	}
	if index < 0 || index >= n {
		return errIndexOutOfRange
	}
	return nil
}

func cvDocument(sess *Session[*CVDraft]) cv.Document {
	var doc cv.Document
	_ = sess.With(func(d *CVDraft) error {
		doc = d.Document()
		return nil
	})
	return doc
}

func cvState(sess *Session[*CVDraft]) CVState {
	st := CVState{ID: sess.ID, Saving: sess.Saving()}
	_ = sess.With(func(d *CVDraft) error {
		st.Document = d.Document()
		st.SkillsText = d.SkillsText()
		return nil
	})
	return st
}
