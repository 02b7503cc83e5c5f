package grants

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Loader fetches the authorization state of a token.
type Loader interface {
	Load(ctx context.Context, tokenID string) (GrantSet, error)
}

// PGRepository loads grant sets from PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Load reads the wedding links and permission grants for a token.
func (r *PGRepository) Load(ctx context.Context, tokenID string) (GrantSet, error) {
	var set GrantSet

	rows, err := r.pool.Query(ctx,
		`SELECT wedding_id FROM api_token_weddings WHERE token_id = $1 ORDER BY wedding_id`, tokenID)
	if err != nil {
		return GrantSet{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return GrantSet{}, err
		}
		set.WeddingIDs = append(set.WeddingIDs, id)
	}
	if err := rows.Err(); err != nil {
		return GrantSet{}, err
	}

	permRows, err := r.pool.Query(ctx,
		`SELECT resource, operation FROM api_token_permissions WHERE token_id = $1`, tokenID)
	if err != nil {
		return GrantSet{}, err
	}
	defer permRows.Close()
	for permRows.Next() {
		var grant Grant
		if err := permRows.Scan(&grant.Resource, &grant.Operation); err != nil {
			return GrantSet{}, err
		}
		set.Permissions = append(set.Permissions, grant)
	}
	if err := permRows.Err(); err != nil {
		return GrantSet{}, err
	}

	return set, nil
}

var _ Loader = (*PGRepository)(nil)
