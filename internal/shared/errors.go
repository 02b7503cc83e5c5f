package shared

import "errors"

var (
	// ErrMissingCredential indicates the Authorization header is absent or malformed.
	ErrMissingCredential = errors.New("missing bearer token")
	// ErrInvalidCredential indicates the bearer token matches no stored record.
	ErrInvalidCredential = errors.New("invalid token")
	// ErrCredentialDisabled indicates the token record exists but was deactivated.
	ErrCredentialDisabled = errors.New("token disabled")
	// ErrNoWeddingAccess indicates the token is linked to no wedding at all.
	ErrNoWeddingAccess = errors.New("token has no wedding access")
	// ErrWeddingNotAuthorized indicates the requested wedding is outside the linked set.
	ErrWeddingNotAuthorized = errors.New("wedding not authorized for this token")
	// ErrPermissionDenied indicates the token lacks the (resource, operation) grant.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrUnknownResource indicates the path names a resource outside the allow-list.
	ErrUnknownResource = errors.New("unknown resource")
	// ErrNotFound indicates no row matched both id and wedding scope.
	ErrNotFound = errors.New("not found")
	// ErrBadRequest indicates a malformed request (missing id, bad body, bad column).
	ErrBadRequest = errors.New("bad request")
	// ErrMethodNotAllowed indicates an HTTP verb outside the CRUD mapping.
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// AmbiguousWeddingError is returned when the caller supplied no wedding hint
// and the token is linked to more than one wedding. Authorized carries the
// linked wedding ids so the caller can disambiguate.
type AmbiguousWeddingError struct {
	Authorized []string
}

func (e *AmbiguousWeddingError) Error() string {
	return "wedding_id required: token is linked to multiple weddings"
}

