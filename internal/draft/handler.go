package draft

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cvstudio-backend/internal/coverletter"
	"cvstudio-backend/internal/cv"
	"cvstudio-backend/internal/export"
	"cvstudio-backend/internal/notify"
	"cvstudio-backend/internal/shared/server/middleware"
	"cvstudio-backend/internal/shared/server/respond"
)

const maxBodySize = 1 << 20

var errIndexOutOfRange = errors.New("entry index out of range")

type hydrateRequest struct {
	ID string `json:"id"`
}

type exportRequest struct {
	Markup string `json:"markup"`
}

// bindOptional decodes a JSON body when one was sent.
func bindOptional(c *gin.Context, dst any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)
	if err := c.ShouldBindJSON(dst); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", err.Error())
		return false
	}
	return true
}

func bindFields(c *gin.Context) (map[string]string, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)
	var fields map[string]string
	if err := c.ShouldBindJSON(&fields); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "body must be an object of string fields", err.Error())
		return nil, false
	}
	return fields, true
}

func parseIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_index", "entry index must be a number", nil)
		return 0, false
	}
	return index, true
}

func parseFormat(c *gin.Context) (export.Format, bool) {
	format, err := export.ParseFormat(c.Param("format"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "unsupported_format", "export format must be doc or pdf", nil)
		return "", false
	}
	c.Set(middleware.ExportKey, string(format))
	return format, true
}

func sessionOf[D any](c *gin.Context, store *Store[D]) (*Session[D], bool) {
	id := c.Param("draftId")
	c.Set(middleware.DraftIDKey, id)
	sess, err := store.Get(middleware.UserIDFromContext(c), id)
	if err != nil {
		respond.Error(c, http.StatusNotFound, "draft_not_found", "draft not found", nil)
		return nil, false
	}
	return sess, true
}

func beginSave[D any](c *gin.Context, sess *Session[D]) bool {
	if !sess.BeginSave() {
		respond.Error(c, http.StatusConflict, "save_in_progress", "A save is already in progress", nil)
		return false
	}
	return true
}

func writeDraftError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnknownField):
		respond.Error(c, http.StatusBadRequest, "unknown_field", err.Error(), nil)
	case errors.Is(err, ErrUnknownList):
		respond.Error(c, http.StatusNotFound, "unknown_list", err.Error(), nil)
	case errors.Is(err, errIndexOutOfRange):
		respond.Error(c, http.StatusBadRequest, "invalid_index", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "draft_error", "draft update failed", nil)
	}
}

// writeGatewayError maps persistence failures of either document kind.
func writeGatewayError(c *gin.Context, err error, notices *notify.Collector) {
	message := "request failed"
	if last, ok := notices.Last(); ok {
		message = last.Message
	}
	details := gin.H{"notices": notices.Notices()}
	switch {
	case errors.Is(err, cv.ErrLoginRequired), errors.Is(err, coverletter.ErrLoginRequired):
		respond.Error(c, http.StatusUnauthorized, "login_required", message, details)
	case errors.Is(err, cv.ErrNotFound), errors.Is(err, coverletter.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", message, details)
	case errors.Is(err, cv.ErrInvalidInput), errors.Is(err, coverletter.ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "document id is required", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "storage_error", message, details)
	}
}

func writeExportError(c *gin.Context, err error, notices *notify.Collector) {
	message := "export failed"
	if last, ok := notices.Last(); ok {
		message = last.Message
	}
	details := gin.H{"notices": notices.Notices()}
	switch {
	case errors.Is(err, export.ErrPreviewMissing):
		respond.Error(c, http.StatusUnprocessableEntity, "preview_missing", message, details)
	case errors.Is(err, export.ErrUnsupportedFormat):
		respond.Error(c, http.StatusBadRequest, "unsupported_format", message, details)
	default:
		respond.Error(c, http.StatusInternalServerError, "export_failed", message, details)
	}
}

func sendFile(c *gin.Context, file export.File) {
	if file.Pages > 0 {
		c.Header("X-Page-Count", strconv.Itoa(file.Pages))
	}
	respond.Attachment(c, file.Name, file.ContentType, file.Data)
}
