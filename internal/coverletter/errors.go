package coverletter

import "errors"

var (
	ErrNotFound      = errors.New("cover letter not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrLoginRequired = errors.New("login required")
	ErrStorage       = errors.New("storage failure")
)
