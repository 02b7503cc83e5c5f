package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendInvite is the task type for sending a WhatsApp invitation.
	TaskTypeSendInvite = "invite:send"
)

// SendInvitePayload identifies the guest whose invitation should go out.
type SendInvitePayload struct {
	GuestID   string `json:"guest_id"`
	WeddingID string `json:"wedding_id"`
}

// NewSendInviteTask constructs an Asynq task.
func NewSendInviteTask(payload SendInvitePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendInvite, data), nil
}

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueSendInvite enqueues a send-invite task for one guest.
func (c *Client) EnqueueSendInvite(ctx context.Context, guestID, weddingID string) error {
	task, err := NewSendInviteTask(SendInvitePayload{GuestID: guestID, WeddingID: weddingID})
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}

// Close releases the underlying Asynq client.
func (c *Client) Close() error {
	return c.client.Close()
}
