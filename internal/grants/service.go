package grants

import (
	"context"
	"fmt"

	"github.com/nozze-app/nozze/internal/shared"
)

// Service decides whether a token may perform an operation on a resource
// within a wedding, and which wedding the request resolves to.
type Service struct {
	loader Loader
}

// NewService constructs a new Service.
func NewService(loader Loader) *Service {
	return &Service{loader: loader}
}

// Authorize resolves the wedding for the request and checks the
// (resource, operation) grant. Wedding resolution: an explicit hint must be
// a member of the linked set; with no hint a single link is used implicitly;
// multiple links without a hint are ambiguous and the error enumerates the
// authorized ids.
func (s *Service) Authorize(ctx context.Context, tokenID, weddingHint, resource string, op Operation) (string, error) {
	set, err := s.loader.Load(ctx, tokenID)
	if err != nil {
		return "", fmt.Errorf("load grants: %w", err)
	}

	if len(set.WeddingIDs) == 0 {
		return "", shared.ErrNoWeddingAccess
	}

	var weddingID string
	switch {
	case weddingHint != "":
		if !set.LinkedTo(weddingHint) {
			return "", shared.ErrWeddingNotAuthorized
		}
		weddingID = weddingHint
	case len(set.WeddingIDs) == 1:
		weddingID = set.WeddingIDs[0]
	default:
		return "", &shared.AmbiguousWeddingError{Authorized: set.WeddingIDs}
	}

	if !set.Allows(resource, op) {
		return "", shared.ErrPermissionDenied
	}

	return weddingID, nil
}
