package apiproxy

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/nozze-app/nozze/internal/shared"
)

// Executor runs the generic CRUD operations against the backing store.
// Every query carries the wedding scope in the same predicate as the
// identifier match; there is no post-fetch tenant check anywhere.
type Executor interface {
	List(ctx context.Context, res Resource, weddingID string, page Page) ([]map[string]any, int64, error)
	Get(ctx context.Context, res Resource, weddingID, id string) (map[string]any, error)
	Create(ctx context.Context, res Resource, weddingID string, body map[string]any) (map[string]any, error)
	Update(ctx context.Context, res Resource, weddingID, id string, body map[string]any) (map[string]any, error)
	Delete(ctx context.Context, res Resource, weddingID, id string) error
}

// PGExecutor implements Executor using PostgreSQL.
type PGExecutor struct {
	pool *pgxpool.Pool
}

// NewExecutor constructs a PostgreSQL executor.
func NewExecutor(pool *pgxpool.Pool) *PGExecutor {
	return &PGExecutor{pool: pool}
}

// List returns one page of rows plus the total count for the wedding.
func (e *PGExecutor) List(ctx context.Context, res Resource, weddingID string, page Page) ([]map[string]any, int64, error) {
	var (
		records []map[string]any
		total   int64
	)
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		sql, args := buildList(res, weddingID, page)
		rows, err := e.pool.Query(ctx, sql, args...)
		if err != nil {
			return mapPgError(err)
		}
		defer rows.Close()
		records, err = collectRows(rows)
		return err
	})
	group.Go(func() error {
		sql, args := buildCount(res, weddingID)
		if err := e.pool.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
			return mapPgError(err)
		}
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, 0, err
	}
	if records == nil {
		records = []map[string]any{}
	}
	return records, total, nil
}

// Get returns the single row matching id within the wedding scope. A row
// belonging to another wedding is indistinguishable from a missing one.
func (e *PGExecutor) Get(ctx context.Context, res Resource, weddingID, id string) (map[string]any, error) {
	sql, args := buildGet(res, weddingID, id)
	return e.queryOne(ctx, sql, args)
}

// Create inserts the body with the tenant column forced to weddingID and
// returns the stored row including generated fields.
func (e *PGExecutor) Create(ctx context.Context, res Resource, weddingID string, body map[string]any) (map[string]any, error) {
	sql, args, err := buildInsert(res, weddingID, body)
	if err != nil {
		return nil, err
	}
	return e.queryOne(ctx, sql, args)
}

// Update applies a partial update scoped by id and wedding in one predicate.
func (e *PGExecutor) Update(ctx context.Context, res Resource, weddingID, id string, body map[string]any) (map[string]any, error) {
	sql, args, err := buildUpdate(res, weddingID, id, body)
	if err != nil {
		return nil, err
	}
	return e.queryOne(ctx, sql, args)
}

// Delete removes the row scoped by id and wedding; a miss reports not found,
// so a repeated delete of the same id fails the second time.
func (e *PGExecutor) Delete(ctx context.Context, res Resource, weddingID, id string) error {
	sql, args := buildDelete(res, weddingID, id)
	tag, err := e.pool.Exec(ctx, sql, args...)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (e *PGExecutor) queryOne(ctx context.Context, sql string, args []any) (map[string]any, error) {
	rows, err := e.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()
	records, err := collectRows(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, shared.ErrNotFound
	}
	return records[0], nil
}

func collectRows(rows pgx.Rows) ([]map[string]any, error) {
	var records []map[string]any
	fields := rows.FieldDescriptions()
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, mapPgError(err)
		}
		record := make(map[string]any, len(fields))
		for i, field := range fields {
			// pgx scans uuid columns as raw bytes; present them as strings.
			if raw, ok := values[i].([16]byte); ok {
				record[field.Name] = uuid.UUID(raw).String()
				continue
			}
			record[field.Name] = values[i]
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err)
	}
	return records, nil
}

// mapPgError converts caller-induced constraint and typing failures into
// bad-request errors; everything else surfaces as a downstream failure.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "42703", // undefined_column
		"22P02", // invalid_text_representation
		"23502", // not_null_violation
		"23503", // foreign_key_violation
		"23505", // unique_violation
		"23514": // check_violation
		return fmt.Errorf("%w: %s", shared.ErrBadRequest, pgErr.Message)
	}
	return err
}

var _ Executor = (*PGExecutor)(nil)
