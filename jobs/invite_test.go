package jobs

import (
	"context"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/nozze-app/nozze/internal/observability"
)

func TestSendInviteHandlerSkipsMalformedPayload(t *testing.T) {
	handler := NewSendInviteHandler(nil, nil, observability.NewMetrics(), nil)

	task := asynq.NewTask(TaskTypeSendInvite, []byte("{not json"))
	err := handler(context.Background(), task)
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestInviteMessageMentionsGuestAndWedding(t *testing.T) {
	msg := inviteMessage("Anna", "Bianchi", "Giulia e Marco")
	require.Contains(t, msg, "Anna Bianchi")
	require.Contains(t, msg, "Giulia e Marco")
}
