package apiproxy

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nozze-app/nozze/internal/apitoken"
	"github.com/nozze-app/nozze/internal/grants"
	"github.com/nozze-app/nozze/internal/platform/httpx"
	"github.com/nozze-app/nozze/internal/shared"
)

// Authenticator resolves the Authorization header into an identity.
type Authenticator interface {
	Authenticate(ctx context.Context, authorization string) (apitoken.Identity, error)
}

// Authorizer resolves the wedding and checks the (resource, operation) grant.
type Authorizer interface {
	Authorize(ctx context.Context, tokenID, weddingHint, resource string, op grants.Operation) (string, error)
}

// AuditRecorder persists a trace of mutating calls.
type AuditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Handler serves /api/{resource} and /api/{resource}/{id}.
type Handler struct {
	logger *slog.Logger
	auth   Authenticator
	authz  Authorizer
	exec   Executor
	audit  AuditRecorder
}

// NewHandler builds Handler instance. audit may be nil.
func NewHandler(logger *slog.Logger, auth Authenticator, authz Authorizer, exec Executor, audit AuditRecorder) *Handler {
	return &Handler{logger: logger, auth: auth, authz: authz, exec: exec, audit: audit}
}

// MountRoutes registers the proxy routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.HandleFunc("/{resource}", h.proxy)
	r.HandleFunc("/{resource}/{id}", h.proxy)
}

// proxy runs the full pipeline: authenticate, route, authorize, execute.
// Every stage converts its failure into the envelope immediately; nothing
// before the executor mutates state except the last-used touch inside
// authentication.
func (h *Handler) proxy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, err := h.auth.Authenticate(ctx, r.Header.Get("Authorization"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	ctx = apitoken.ContextWithIdentity(ctx, identity)

	res, ok := ResourceByName(chi.URLParam(r, "resource"))
	if !ok {
		h.respondError(w, r, shared.ErrUnknownResource)
		return
	}
	id := chi.URLParam(r, "id")

	action, err := ResolveAction(r.Method, id != "")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	weddingID, err := h.authz.Authorize(ctx, identity.TokenID, r.URL.Query().Get("wedding_id"), res.Name, action.Operation())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	switch action {
	case ActionList:
		records, total, err := h.exec.List(ctx, res, weddingID, ParsePage(r.URL.Query()))
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		httpx.OKList(w, records, total)

	case ActionGet:
		record, err := h.exec.Get(ctx, res, weddingID, id)
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		httpx.OK(w, http.StatusOK, record)

	case ActionCreate:
		body, err := decodeBody(r)
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		record, err := h.exec.Create(ctx, res, weddingID, body)
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		h.recordAudit(ctx, identity, weddingID, action, res, recordID(record))
		httpx.OK(w, http.StatusOK, record)

	case ActionUpdate:
		body, err := decodeBody(r)
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		record, err := h.exec.Update(ctx, res, weddingID, id, body)
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		h.recordAudit(ctx, identity, weddingID, action, res, id)
		httpx.OK(w, http.StatusOK, record)

	case ActionDelete:
		if err := h.exec.Delete(ctx, res, weddingID, id); err != nil {
			h.respondError(w, r, err)
			return
		}
		h.recordAudit(ctx, identity, weddingID, action, res, id)
		httpx.OKEmpty(w)
	}
}

func decodeBody(r *http.Request) (map[string]any, error) {
	var body map[string]any
	if err := httpx.DecodeJSON(r, &body); err != nil {
		return nil, errors.Join(shared.ErrBadRequest, err)
	}
	if body == nil {
		return nil, shared.ErrBadRequest
	}
	return body, nil
}

func (h *Handler) recordAudit(ctx context.Context, identity apitoken.Identity, weddingID string, action Action, res Resource, resourceID string) {
	if h.audit == nil {
		return
	}
	err := h.audit.Record(ctx, shared.AuditLog{
		TokenID:    identity.TokenID,
		WeddingID:  weddingID,
		Action:     action.String(),
		Resource:   res.Name,
		ResourceID: resourceID,
		Meta:       map[string]any{"token_name": identity.Name},
	})
	if err != nil && h.logger != nil {
		h.logger.Warn("record api audit", slog.Any("error", err))
	}
}

func recordID(record map[string]any) string {
	if id, ok := record["id"].(string); ok {
		return id
	}
	return ""
}

// respondError logs downstream failures in detail and hands the error to the
// envelope mapping, which reports them to the caller generically.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	if isInternal(err) && h.logger != nil {
		h.logger.Error("api proxy failure",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

func isInternal(err error) bool {
	var ambiguous *shared.AmbiguousWeddingError
	for _, known := range []error{
		shared.ErrMissingCredential, shared.ErrInvalidCredential, shared.ErrCredentialDisabled,
		shared.ErrNoWeddingAccess, shared.ErrWeddingNotAuthorized, shared.ErrPermissionDenied,
		shared.ErrUnknownResource, shared.ErrNotFound, shared.ErrBadRequest, shared.ErrMethodNotAllowed,
	} {
		if errors.Is(err, known) {
			return false
		}
	}
	return !errors.As(err, &ambiguous)
}
