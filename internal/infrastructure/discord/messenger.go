package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ArxivDigest/internal/ports"
)

// Messenger posts message units to a Discord webhook.
type Messenger struct {
	webhookURL string
	maxLen     int
	client     *http.Client
}

var _ ports.Messenger = (*Messenger)(nil)

// NewMessenger wires the webhook URL and the transport length bound.
func NewMessenger(webhookURL string, maxLen int, timeout time.Duration) *Messenger {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Messenger{
		webhookURL: webhookURL,
		maxLen:     maxLen,
		client:     &http.Client{Timeout: timeout},
	}
}

// Send posts one unit. Units exceeding the length bound are refused rather
// than truncated; the packer upstream guarantees they never appear.
func (m *Messenger) Send(ctx context.Context, unit string) error {
	if unit == "" {
		return nil
	}
	if m.webhookURL == "" {
		return fmt.Errorf("discord messenger misconfigured")
	}
	if m.maxLen > 0 && len([]rune(unit)) > m.maxLen {
		return fmt.Errorf("content is too long: %d > %d", len([]rune(unit)), m.maxLen)
	}

	body, err := json.Marshal(map[string]any{
		"content":          unit,
		"allowed_mentions": map[string]any{"parse": []string{}},
	})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook failed with status %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	return nil
}
