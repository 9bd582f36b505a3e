package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the SMS gateway over HTTP. The gateway contract is a
// single JSON POST; every call carries the caller's context so dispatch
// deadlines propagate into the connection.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	senderID   string
}

// NewClient creates an SMS gateway client. An empty baseURL produces a
// client whose sends fail immediately; the dispatcher filters the SMS
// channel out via settings before that matters.
func NewClient(baseURL, apiKey, senderID string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
		senderID:   senderID,
	}
}

type sendRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Message string `json:"message"`
}

// Send delivers one SMS. A non-2xx response or a context deadline is an
// error; the caller records the attempt either way.
func (c *Client) Send(ctx context.Context, phone, message string) error {
	if c.baseURL == "" {
		return fmt.Errorf("sms gateway not configured")
	}

	payload, err := json.Marshal(sendRequest{
		To:      phone,
		From:    c.senderID,
		Message: message,
	})
	if err != nil {
		return fmt.Errorf("marshal sms payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sms gateway returned %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
