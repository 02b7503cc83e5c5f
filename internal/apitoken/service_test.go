package apitoken

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nozze-app/nozze/internal/shared"
)

type stubRepo struct {
	mu       sync.Mutex
	byHash   map[string]*APIToken
	byLegacy map[string]*APIToken
	touches  []string
}

func newStubRepo() *stubRepo {
	return &stubRepo{byHash: make(map[string]*APIToken), byLegacy: make(map[string]*APIToken)}
}

func (s *stubRepo) FindByHash(ctx context.Context, hash string) (*APIToken, error) {
	if tok, ok := s.byHash[hash]; ok {
		return tok, nil
	}
	return nil, shared.ErrNotFound
}

func (s *stubRepo) FindByLegacyToken(ctx context.Context, raw string) (*APIToken, error) {
	if tok, ok := s.byLegacy[raw]; ok {
		return tok, nil
	}
	return nil, shared.ErrNotFound
}

func (s *stubRepo) TouchLastUsed(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touches = append(s.touches, id)
	return nil
}

func (s *stubRepo) touchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.touches)
}

func TestAuthenticateMissingCredential(t *testing.T) {
	svc := NewService(newStubRepo(), nil)

	for _, header := range []string{"", "Basic abc", "Bearer", "Bearer   "} {
		_, err := svc.Authenticate(context.Background(), header)
		require.ErrorIs(t, err, shared.ErrMissingCredential, "header %q", header)
	}
}

func TestAuthenticateUnknownToken(t *testing.T) {
	svc := NewService(newStubRepo(), nil)

	_, err := svc.Authenticate(context.Background(), "Bearer nope")
	require.ErrorIs(t, err, shared.ErrInvalidCredential)
}

func TestAuthenticateByDigest(t *testing.T) {
	repo := newStubRepo()
	repo.byHash[HashToken("s3cret")] = &APIToken{ID: "tok-1", Name: "zapier", IsActive: true}
	touched := make(chan string, 1)
	svc := NewService(repo, nil)
	svc.touched = touched

	identity, err := svc.Authenticate(context.Background(), "Bearer s3cret")
	require.NoError(t, err)
	require.Equal(t, Identity{TokenID: "tok-1", Name: "zapier"}, identity)

	select {
	case id := <-touched:
		require.Equal(t, "tok-1", id)
	case <-time.After(2 * time.Second):
		t.Fatal("expected last-used touch")
	}
	require.Equal(t, 1, repo.touchCount())
}

func TestAuthenticateLegacyPlaintextFallback(t *testing.T) {
	repo := newStubRepo()
	repo.byLegacy["old-token"] = &APIToken{ID: "tok-legacy", Name: "legacy", IsActive: true}
	touched := make(chan string, 1)
	svc := NewService(repo, nil)
	svc.touched = touched

	identity, err := svc.Authenticate(context.Background(), "Bearer old-token")
	require.NoError(t, err)
	require.Equal(t, "tok-legacy", identity.TokenID)
	<-touched
}

func TestAuthenticateDisabledToken(t *testing.T) {
	repo := newStubRepo()
	repo.byHash[HashToken("revoked")] = &APIToken{ID: "tok-2", Name: "old", IsActive: false}
	svc := NewService(repo, nil)

	_, err := svc.Authenticate(context.Background(), "Bearer revoked")
	require.ErrorIs(t, err, shared.ErrCredentialDisabled)
	require.Zero(t, repo.touchCount())
}
