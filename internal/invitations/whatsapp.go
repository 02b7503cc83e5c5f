package invitations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WhatsAppClient wraps interactions with the WhatsApp gateway.
type WhatsAppClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewWhatsAppClient constructs a new client.
func NewWhatsAppClient(baseURL, token string) *WhatsAppClient {
	return &WhatsAppClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Ping checks if the gateway is available.
func (c *WhatsAppClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/health", c.baseURL), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("whatsapp gateway returned status %d", resp.StatusCode)
	}
	return nil
}

// SendMessage delivers a text message to a phone number through the gateway.
func (c *WhatsAppClient) SendMessage(ctx context.Context, phone, text string) error {
	payload, err := json.Marshal(map[string]string{
		"phone":   phone,
		"message": text,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/messages", c.baseURL), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("send failed with status %d", resp.StatusCode)
	}
	return nil
}
