package cv

import "errors"

var (
	// ErrNotFound indicates the CV does not exist for this user.
	ErrNotFound = errors.New("cv not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLoginRequired is returned before any storage call when no user is known.
	ErrLoginRequired = errors.New("login required")

	// ErrStorage wraps failures reported by the repository.
	ErrStorage = errors.New("storage failure")

	// ErrUnknownField is returned when an entry field name is not recognised.
	ErrUnknownField = errors.New("unknown field")
)
