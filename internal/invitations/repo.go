package invitations

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository loads guests eligible for invitation dispatch.
type Repository interface {
	GuestsForDispatch(ctx context.Context, weddingID string, ids []string) ([]Guest, error)
}

// PGRepository is the Postgres implementation of Repository.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository constructs PGRepository instance.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// GuestsForDispatch returns the requested guests, scoped to the wedding.
// IDs outside the wedding simply do not come back.
func (r *PGRepository) GuestsForDispatch(ctx context.Context, weddingID string, ids []string) ([]Guest, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, nome, cognome, COALESCE(telefono, ''), invito_inviato
		   FROM invitati
		  WHERE wedding_id = $1 AND id = ANY($2)`,
		weddingID, ids,
	)
	if err != nil {
		return nil, fmt.Errorf("invitations: query guests: %w", err)
	}
	defer rows.Close()

	var guests []Guest
	for rows.Next() {
		var g Guest
		if err := rows.Scan(&g.ID, &g.Nome, &g.Cognome, &g.Telefono, &g.InvitoInviato); err != nil {
			return nil, fmt.Errorf("invitations: scan guest: %w", err)
		}
		guests = append(guests, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("invitations: iterate guests: %w", err)
	}
	return guests, nil
}
