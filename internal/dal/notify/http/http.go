package notifyhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/handywriterz/order-admin-svc/internal/service/models/notification"
	"github.com/spf13/viper"
)

// ErrUnexpectedStatus is returned when a notification endpoint answers with a non-2xx code.
var ErrUnexpectedStatus = errors.New("unexpected response status")

const (
	emailPath   = "/api/notifications/email"
	messagePath = "/api/messages/send"
)

// Client posts JSON bodies to the notification API.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient creates a notification API client.
func NewClient(baseURL, token string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  client,
	}
}

// MustNewClient creates a notification API client configured from viper.
func MustNewClient() *Client {
	baseURL := viper.GetString("notifications.base_url")
	if baseURL == "" {
		panic("notifications.base_url is not set in config")
	}

	timeout := viper.GetInt("notifications.timeout_seconds")
	if timeout == 0 {
		timeout = 10
	}

	return NewClient(
		baseURL,
		os.Getenv("NOTIFICATIONS_API_TOKEN"),
		&http.Client{Timeout: time.Duration(timeout) * time.Second},
	)
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		return fmt.Errorf("%w: %d, body: %s", ErrUnexpectedStatus, resp.StatusCode, string(respBody))
	}

	return nil
}

// EmailSender delivers status change e-mails.
type EmailSender struct {
	client *Client
}

func NewEmailSender(client *Client) *EmailSender {
	return &EmailSender{client: client}
}

func (s *EmailSender) Name() string {
	return "email"
}

// Send posts the e-mail request. Admin messages and orders without an address are skipped.
func (s *EmailSender) Send(ctx context.Context, event notification.Event) error {
	if event.Kind == notification.KindMessage || event.Order.UserEmail == "" {
		return nil
	}

	return s.client.post(ctx, emailPath, notification.NewEmailRequest(event))
}

// MessageSender delivers in-app messages to the order owner.
type MessageSender struct {
	client *Client
}

func NewMessageSender(client *Client) *MessageSender {
	return &MessageSender{client: client}
}

func (s *MessageSender) Name() string {
	return "message"
}

// Send posts admin messages. A status change goes out here only when the order
// has no e-mail address, so each change reaches the owner over one channel.
func (s *MessageSender) Send(ctx context.Context, event notification.Event) error {
	if event.Order.UserID == "" {
		return nil
	}
	if event.Kind == notification.KindStatusChange && event.Order.UserEmail != "" {
		return nil
	}

	return s.client.post(ctx, messagePath, notification.NewMessageRequest(event))
}
