// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. Any
// storage-engine error that does not map onto one of these values is
// passed through to the caller unmodified — nothing is silently
// suppressed at this layer.
package repository

import "errors"

// ErrDuplicateIdentity is returned when registration collides with an
// existing username or email. The two cases are deliberately not
// distinguished: the unique constraints cover both columns and the
// caller surfaces a single "already exists" message. Handlers should
// translate this into an HTTP 409 response.
var ErrDuplicateIdentity = errors.New("username or email already exists")

// ErrInvalidCredentials is returned by Authenticate when the username
// is unknown or the password does not match the stored hash. The two
// cases are never distinguished in the returned signal so the API does
// not leak which field was wrong. Handlers should translate this into
// an HTTP 401 response.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrMovieNotFound indicates that a movie id was not located in the DB.
// Handlers should translate this into an HTTP 404 response.
var ErrMovieNotFound = errors.New("movie not found")
