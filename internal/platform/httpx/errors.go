package httpx

import (
	"errors"
	"net/http"

	"github.com/nozze-app/nozze/internal/shared"
)

// RespondError maps taxonomy errors onto the envelope and status code.
// Unrecognised errors are reported as a generic internal failure; the caller
// is expected to have logged the detail already.
func RespondError(w http.ResponseWriter, err error) {
	var ambiguous *shared.AmbiguousWeddingError
	switch {
	case errors.Is(err, shared.ErrMissingCredential), errors.Is(err, shared.ErrInvalidCredential):
		JSON(w, http.StatusUnauthorized, Envelope{Error: err.Error()})
	case errors.Is(err, shared.ErrCredentialDisabled),
		errors.Is(err, shared.ErrNoWeddingAccess),
		errors.Is(err, shared.ErrWeddingNotAuthorized),
		errors.Is(err, shared.ErrPermissionDenied):
		JSON(w, http.StatusForbidden, Envelope{Error: err.Error()})
	case errors.Is(err, shared.ErrUnknownResource), errors.Is(err, shared.ErrNotFound):
		JSON(w, http.StatusNotFound, Envelope{Error: err.Error()})
	case errors.As(err, &ambiguous):
		JSON(w, http.StatusBadRequest, Envelope{Error: ambiguous.Error(), AuthorizedWeddings: ambiguous.Authorized})
	case errors.Is(err, shared.ErrBadRequest):
		JSON(w, http.StatusBadRequest, Envelope{Error: err.Error()})
	case errors.Is(err, shared.ErrMethodNotAllowed):
		JSON(w, http.StatusMethodNotAllowed, Envelope{Error: err.Error()})
	default:
		JSON(w, http.StatusInternalServerError, Envelope{Error: "internal error"})
	}
}
