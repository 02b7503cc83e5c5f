package invitations_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/nozze-app/nozze/internal/apitoken"
	"github.com/nozze-app/nozze/internal/grants"
	"github.com/nozze-app/nozze/internal/invitations"
	"github.com/nozze-app/nozze/internal/platform/httpx"
	"github.com/nozze-app/nozze/internal/shared"
)

type stubAuth struct{}

func (stubAuth) Authenticate(ctx context.Context, authorization string) (apitoken.Identity, error) {
	if !strings.HasPrefix(authorization, "Bearer ") {
		return apitoken.Identity{}, shared.ErrMissingCredential
	}
	if strings.TrimPrefix(authorization, "Bearer ") != "writer" {
		return apitoken.Identity{}, shared.ErrInvalidCredential
	}
	return apitoken.Identity{TokenID: "tok-writer", Name: "writer"}, nil
}

type stubAuthz struct {
	deny bool
}

func (s stubAuthz) Authorize(ctx context.Context, tokenID, weddingHint, resource string, op grants.Operation) (string, error) {
	if s.deny {
		return "", shared.ErrPermissionDenied
	}
	return "w1", nil
}

type recordingRepo struct {
	weddingID string
	ids       []string
}

func (r *recordingRepo) GuestsForDispatch(ctx context.Context, weddingID string, ids []string) ([]invitations.Guest, error) {
	r.weddingID = weddingID
	r.ids = ids
	return []invitations.Guest{
		{ID: "g1", Nome: "Anna", Cognome: "Bianchi", Telefono: "+391"},
		{ID: "g2", Nome: "Bruno", Cognome: "Conti", Telefono: ""},
	}, nil
}

type nopDispatcher struct{ count int }

func (d *nopDispatcher) EnqueueSendInvite(ctx context.Context, guestID, weddingID string) error {
	d.count++
	return nil
}

func newDispatchServer(t *testing.T, authz stubAuthz) (*httptest.Server, *recordingRepo, *nopDispatcher) {
	t.Helper()
	repo := &recordingRepo{}
	dispatcher := &nopDispatcher{}
	service := invitations.NewService(repo, dispatcher, nil)
	handler := invitations.NewHandler(nil, stubAuth{}, authz, service)

	r := chi.NewRouter()
	r.Route("/api", func(api chi.Router) {
		handler.MountRoutes(api)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, repo, dispatcher
}

func postDispatch(t *testing.T, srv *httptest.Server, token, body string) (int, httpx.Envelope) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/inviti/dispatch", strings.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()
	var env httpx.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestDispatchQueuesDeliverableGuests(t *testing.T) {
	srv, repo, dispatcher := newDispatchServer(t, stubAuthz{})

	status, env := postDispatch(t, srv, "writer", `{"wedding_id":"w1","guest_ids":["g1","g2"]}`)
	require.Equal(t, http.StatusOK, status)
	require.True(t, env.Success)
	require.Equal(t, "w1", repo.weddingID)
	require.Equal(t, []string{"g1", "g2"}, repo.ids)
	require.Equal(t, 1, dispatcher.count)

	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	require.EqualValues(t, 1, data["queued"])
}

func TestDispatchRequiresCredential(t *testing.T) {
	srv, _, dispatcher := newDispatchServer(t, stubAuthz{})

	status, env := postDispatch(t, srv, "", `{"guest_ids":["g1"]}`)
	require.Equal(t, http.StatusUnauthorized, status)
	require.False(t, env.Success)
	require.Zero(t, dispatcher.count)
}

func TestDispatchRequiresWriteGrant(t *testing.T) {
	srv, _, dispatcher := newDispatchServer(t, stubAuthz{deny: true})

	status, env := postDispatch(t, srv, "writer", `{"guest_ids":["g1"]}`)
	require.Equal(t, http.StatusForbidden, status)
	require.False(t, env.Success)
	require.Zero(t, dispatcher.count)
}

func TestDispatchRejectsEmptyGuestList(t *testing.T) {
	srv, _, _ := newDispatchServer(t, stubAuthz{})

	status, env := postDispatch(t, srv, "writer", `{"guest_ids":[]}`)
	require.Equal(t, http.StatusBadRequest, status)
	require.False(t, env.Success)
}

func TestDispatchRejectsMalformedBody(t *testing.T) {
	srv, _, _ := newDispatchServer(t, stubAuthz{})

	status, _ := postDispatch(t, srv, "writer", `{"guest_ids":`)
	require.Equal(t, http.StatusBadRequest, status)
}
