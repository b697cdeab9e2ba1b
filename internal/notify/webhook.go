package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lanwatch/internal/config"
	"lanwatch/internal/retry"
	"lanwatch/internal/types"
	"lanwatch/internal/version"
)

// WebhookNotifier delivers device events to a configured HTTP endpoint
type WebhookNotifier struct {
	config *config.WebhookConfig
	logger *zap.Logger
	client *http.Client
}

// WebhookPayload represents the webhook payload structure
type WebhookPayload struct {
	EventType types.EventType `json:"event_type"`
	EventID   string          `json:"event_id"`
	Timestamp time.Time       `json:"timestamp"`
	Device    types.Device    `json:"device"`
}

// NewWebhookNotifier creates new webhook notifier
func NewWebhookNotifier(cfg *config.WebhookConfig, logger *zap.Logger) *WebhookNotifier {
	client := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 2,
		},
	}

	return &WebhookNotifier{
		config: cfg,
		logger: logger,
		client: client,
	}
}

// Notify delivers one device event
func (n *WebhookNotifier) Notify(ctx context.Context, event types.DeviceEvent) error {
	payload := WebhookPayload{
		EventType: event.Type,
		EventID:   uuid.New().String(),
		Timestamp: time.Now(),
		Device:    event.Device,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	retryCfg := &retry.Config{
		MaxAttempts: n.config.MaxRetries + 1,
		Interval:    time.Second,
		MaxInterval: 10 * time.Second,
	}

	return retry.Execute(ctx, retryCfg, func(ctx context.Context) error {
		return n.send(ctx, payload, data)
	})
}

func (n *WebhookNotifier) send(ctx context.Context, payload WebhookPayload, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.config.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "lanwatch-webhook/"+version.GetInfo().Version)
	req.Header.Set("X-Lanwatch-Event", string(payload.EventType))
	req.Header.Set("X-Lanwatch-Delivery", payload.EventID)

	if n.config.Secret != "" {
		req.Header.Set("X-Lanwatch-Signature", calculateSignature(body, []byte(n.config.Secret)))
	}

	for k, v := range n.config.Headers {
		req.Header.Set(k, v)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			n.logger.Error("Failed to close response body", zap.Error(err))
		}
	}(resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook request failed with status %d", resp.StatusCode)
	}

	return nil
}

// calculateSignature calculates the HMAC-SHA256 payload signature
func calculateSignature(payload []byte, secret []byte) string {
	h := hmac.New(sha256.New, secret)
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}
