package shared

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditLog represents a record stored in api_audit_log.
type AuditLog struct {
	TokenID    string
	WeddingID  string
	Action     string
	Resource   string
	ResourceID string
	Meta       map[string]any
	At         time.Time
}

// AuditLogger writes records into api_audit_log.
type AuditLogger struct {
	pool *pgxpool.Pool
}

// NewAuditLogger returns a new AuditLogger.
func NewAuditLogger(pool *pgxpool.Pool) *AuditLogger {
	return &AuditLogger{pool: pool}
}

// Record persists the log entry.
func (l *AuditLogger) Record(ctx context.Context, log AuditLog) error {
	if l == nil {
		return errors.New("audit logger not initialised")
	}
	if log.Action == "" || log.Resource == "" {
		return errors.New("audit log requires action/resource")
	}
	metaJSON, err := json.Marshal(log.Meta)
	if err != nil {
		return err
	}
	var at any
	if !log.At.IsZero() {
		at = log.At
	}
	_, err = l.pool.Exec(ctx,
		`INSERT INTO api_audit_log (id, token_id, wedding_id, action, resource, resource_id, meta, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, NOW()))`,
		uuid.NewString(), log.TokenID, log.WeddingID, log.Action, log.Resource, log.ResourceID, metaJSON, at)
	return err
}
