package invitations

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/nozze-app/nozze/internal/apiproxy"
	"github.com/nozze-app/nozze/internal/apitoken"
	"github.com/nozze-app/nozze/internal/grants"
	"github.com/nozze-app/nozze/internal/platform/httpx"
	"github.com/nozze-app/nozze/internal/shared"
)

// DispatchRequest is the payload for queueing invitation deliveries.
type DispatchRequest struct {
	WeddingID string   `json:"wedding_id"`
	GuestIDs  []string `json:"guest_ids" validate:"required,min=1,dive,required"`
}

// Handler serves the invitation dispatch endpoint.
type Handler struct {
	logger   *slog.Logger
	auth     apiproxy.Authenticator
	authz    apiproxy.Authorizer
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, auth apiproxy.Authenticator, authz apiproxy.Authorizer, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		auth:     auth,
		authz:    authz,
		service:  service,
		validate: validator.New(),
	}
}

// MountRoutes registers the dispatch route. It must be mounted on the same
// router as the resource proxy; chi prefers the static segment over the
// wildcard, so /inviti/dispatch never collides with /{resource}/{id}.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/inviti/dispatch", h.dispatch)
}

func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, err := h.auth.Authenticate(ctx, r.Header.Get("Authorization"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	ctx = apitoken.ContextWithIdentity(ctx, identity)

	var req DispatchRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, errors.Join(shared.ErrBadRequest, err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, errors.Join(shared.ErrBadRequest, err))
		return
	}

	// Dispatch writes invito_inviato, so it rides on the invitati write grant.
	weddingID, err := h.authz.Authorize(ctx, identity.TokenID, req.WeddingID, "invitati", grants.OperationWrite)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	queued, err := h.service.QueueDispatch(ctx, weddingID, req.GuestIDs)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("invitations: dispatch failed", "error", err)
		}
		httpx.RespondError(w, err)
		return
	}

	httpx.OK(w, http.StatusOK, map[string]any{"queued": queued})
}
