package apitoken

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/nozze-app/nozze/internal/shared"
)

const bearerPrefix = "Bearer "

// Service resolves bearer credentials into identities.
type Service struct {
	repo   Repository
	logger *slog.Logger

	// touched receives the token id after each last-used update attempt.
	// Nil outside tests.
	touched chan<- string
}

// NewService constructs a new Service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Authenticate resolves the Authorization header value into an Identity.
// A disabled token resolves to no identity even though its record exists.
// On success the token's last-used timestamp is updated asynchronously;
// a failed update is logged and never fails the request.
func (s *Service) Authenticate(ctx context.Context, authorization string) (Identity, error) {
	raw, err := extractBearer(authorization)
	if err != nil {
		return Identity{}, err
	}

	tok, err := s.resolve(ctx, raw)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Identity{}, shared.ErrInvalidCredential
		}
		return Identity{}, err
	}
	if !tok.IsActive {
		return Identity{}, shared.ErrCredentialDisabled
	}

	go s.touch(tok.ID)

	return Identity{TokenID: tok.ID, Name: tok.Name}, nil
}

// resolve is the single lookup path: digest first, then the legacy plaintext
// fallback. Technical debt: the fallback exists only for tokens issued
// before hashing and goes away with Repository.FindByLegacyToken once the
// migration completes.
func (s *Service) resolve(ctx context.Context, raw string) (*APIToken, error) {
	tok, err := s.repo.FindByHash(ctx, HashToken(raw))
	if err == nil {
		return tok, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return s.repo.FindByLegacyToken(ctx, raw)
}

func (s *Service) touch(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.repo.TouchLastUsed(ctx, id); err != nil && s.logger != nil {
		s.logger.Warn("touch token last used", slog.String("token_id", id), slog.Any("error", err))
	}
	if s.touched != nil {
		s.touched <- id
	}
}

// HashToken returns the hex-encoded SHA-256 digest of a raw token.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func extractBearer(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", shared.ErrMissingCredential
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", shared.ErrMissingCredential
	}
	raw := strings.TrimSpace(header[len(bearerPrefix):])
	if raw == "" {
		return "", shared.ErrMissingCredential
	}
	return raw, nil
}
