package calclient

import "errors"

var (
	// ErrUnauthorized means the configured bearer token was rejected.
	ErrUnauthorized = errors.New("calclient: unauthorized")

	// ErrNotFound is returned for mutations against a slot id the
	// backend no longer knows (deleted by another session).
	ErrNotFound = errors.New("calclient: slot not found")

	// ErrInternal covers request construction and transport failures.
	ErrInternal = errors.New("calclient: internal error")

	// ErrInvalidResponse covers unexpected status codes and bodies
	// that fail to decode.
	ErrInvalidResponse = errors.New("calclient: invalid response")
)
