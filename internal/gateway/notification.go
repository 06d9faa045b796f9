package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// NotificationClient delivers messages through the notification service.
// Delivery is best-effort: the caller does not depend on it for correctness.
type NotificationClient struct {
	client  *http.Client
	baseURL string
}

// NewNotificationClient creates new NotificationClient instance
func NewNotificationClient(baseURL string) *NotificationClient {
	return &NotificationClient{
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: baseURL,
	}
}

type notifyRequest struct {
	MessageID string `json:"message_id"`
	UserID    uint64 `json:"user_id"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// Send delivers message to user's contact address
func (c *NotificationClient) Send(ctx context.Context, userID uint64, email, subject, body string) error {
	// POST /notify
	url, err := url.JoinPath(c.baseURL, "notify")
	if err != nil {
		return err
	}

	payload, err := json.Marshal(notifyRequest{
		MessageID: uuid.NewString(),
		UserID:    userID,
		Email:     email,
		Subject:   subject,
		Body:      body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("notification service: unexpected status %d", resp.StatusCode)
	}

	return nil
}
