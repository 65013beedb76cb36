package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the caller is authenticated but does not own the resource.
	ErrForbidden = errors.New("access denied")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("already exists")
	// ErrInsufficientCredits is returned when a plan has no credits left for a generation.
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrRateLimited         = errors.New("too many course generations, try again later")
)
