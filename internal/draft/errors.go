package draft

import (
	"errors"

	"cvstudio-backend/internal/cv"
)

var (
	// ErrDraftNotFound covers both missing drafts and drafts owned by someone else.
	ErrDraftNotFound = errors.New("draft not found")

	// ErrSaveInFlight rejects a save while another save of the same draft runs.
	ErrSaveInFlight = errors.New("save already in progress")

	ErrUnknownList = errors.New("unknown list")

	ErrUnknownField = cv.ErrUnknownField
)
