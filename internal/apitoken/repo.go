package apitoken

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nozze-app/nozze/internal/shared"
)

// Repository defines persistence operations for API tokens.
type Repository interface {
	FindByHash(ctx context.Context, hash string) (*APIToken, error)
	FindByLegacyToken(ctx context.Context, raw string) (*APIToken, error)
	TouchLastUsed(ctx context.Context, id string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const tokenColumns = `id, nome, token_hash, COALESCE(token, ''), is_active, last_used_at, created_at`

// FindByHash fetches a token by its SHA-256 digest.
func (r *PGRepository) FindByHash(ctx context.Context, hash string) (*APIToken, error) {
	return r.findWhere(ctx, `token_hash = $1`, hash)
}

// FindByLegacyToken fetches a token by its stored plaintext. Compatibility
// path for tokens issued before hashing; remove once all tokens carry a hash.
func (r *PGRepository) FindByLegacyToken(ctx context.Context, raw string) (*APIToken, error) {
	return r.findWhere(ctx, `token = $1`, raw)
}

func (r *PGRepository) findWhere(ctx context.Context, predicate string, arg any) (*APIToken, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+tokenColumns+` FROM api_tokens WHERE `+predicate, arg)
	var tok APIToken
	if err := row.Scan(&tok.ID, &tok.Name, &tok.TokenHash, &tok.LegacyToken, &tok.IsActive, &tok.LastUsedAt, &tok.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tok, nil
}

// TouchLastUsed stamps the token's last-used timestamp.
func (r *PGRepository) TouchLastUsed(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE api_tokens SET last_used_at = NOW() WHERE id = $1`, id)
	return err
}

var _ Repository = (*PGRepository)(nil)
