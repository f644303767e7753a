package domain

import "errors"

var (
	// ErrNotFound is returned by repositories and the backend client when
	// the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates a rejected credential (revoked bot token,
	// bad service key). Callers treat it as permanent.
	ErrUnauthorized = errors.New("unauthorized")
)
