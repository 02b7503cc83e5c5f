package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nozze-app/nozze/internal/observability"
)

// MessageSender delivers a text message to a phone number.
type MessageSender interface {
	SendMessage(ctx context.Context, phone, text string) error
}

// NewSendInviteHandler builds the Asynq handler that delivers one wedding
// invitation over WhatsApp and marks the guest as invited.
func NewSendInviteHandler(pool *pgxpool.Pool, sender MessageSender, metrics *observability.Metrics, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload SendInvitePayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			metrics.RecordJob(TaskTypeSendInvite, "skipped")
			return fmt.Errorf("invite: decode payload: %v: %w", err, asynq.SkipRetry)
		}

		var (
			nome, cognome, telefono string
			alreadySent             bool
		)
		err := pool.QueryRow(ctx,
			`SELECT nome, cognome, COALESCE(telefono, ''), invito_inviato
			   FROM invitati
			  WHERE id = $1 AND wedding_id = $2`,
			payload.GuestID, payload.WeddingID,
		).Scan(&nome, &cognome, &telefono, &alreadySent)
		if errors.Is(err, pgx.ErrNoRows) {
			metrics.RecordJob(TaskTypeSendInvite, "skipped")
			logger.Warn("invite: guest not found", "guest_id", payload.GuestID, "wedding_id", payload.WeddingID)
			return fmt.Errorf("invite: guest %s not found: %w", payload.GuestID, asynq.SkipRetry)
		}
		if err != nil {
			metrics.RecordJob(TaskTypeSendInvite, "failed")
			return fmt.Errorf("invite: load guest: %w", err)
		}
		if alreadySent {
			metrics.RecordJob(TaskTypeSendInvite, "skipped")
			logger.Info("invite: already sent", "guest_id", payload.GuestID)
			return nil
		}
		if telefono == "" {
			metrics.RecordJob(TaskTypeSendInvite, "skipped")
			logger.Warn("invite: guest has no phone number", "guest_id", payload.GuestID)
			return fmt.Errorf("invite: guest %s has no phone number: %w", payload.GuestID, asynq.SkipRetry)
		}

		var weddingName string
		if err := pool.QueryRow(ctx,
			`SELECT nome FROM matrimoni WHERE id = $1`, payload.WeddingID,
		).Scan(&weddingName); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				metrics.RecordJob(TaskTypeSendInvite, "skipped")
				return fmt.Errorf("invite: wedding %s not found: %w", payload.WeddingID, asynq.SkipRetry)
			}
			metrics.RecordJob(TaskTypeSendInvite, "failed")
			return fmt.Errorf("invite: load wedding: %w", err)
		}

		text := inviteMessage(nome, cognome, weddingName)
		if err := sender.SendMessage(ctx, telefono, text); err != nil {
			metrics.RecordJob(TaskTypeSendInvite, "failed")
			return fmt.Errorf("invite: send message: %w", err)
		}

		if _, err := pool.Exec(ctx,
			`UPDATE invitati SET invito_inviato = TRUE WHERE id = $1 AND wedding_id = $2`,
			payload.GuestID, payload.WeddingID,
		); err != nil {
			// The message went out; log and keep the task successful so it is
			// not delivered twice on retry.
			logger.Error("invite: mark sent failed", "guest_id", payload.GuestID, "error", err)
		}

		metrics.RecordJob(TaskTypeSendInvite, "sent")
		logger.Info("invite: sent", "guest_id", payload.GuestID, "wedding_id", payload.WeddingID)
		return nil
	}
}

func inviteMessage(nome, cognome, weddingName string) string {
	return fmt.Sprintf(
		"Ciao %s %s! Sei ufficialmente invitato/a al matrimonio %s. Ti aspettiamo!",
		nome, cognome, weddingName,
	)
}
