// Package notify delivers alerts and report summaries to an external
// webhook endpoint.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/punter-edge/internal/alerts"
	"github.com/yourusername/punter-edge/internal/config"
	"github.com/yourusername/punter-edge/internal/metrics"
)

// Notifier is the outbound alert sink
type Notifier interface {
	SendAlert(ctx context.Context, alert alerts.Alert) error
	SendAlerts(ctx context.Context, fired []alerts.Alert) error
	Close() error
}

// WebhookNotifier posts alert payloads to a configured webhook with
// retries and client-side rate limiting
type WebhookNotifier struct {
	client  *retryablehttp.Client
	limiter *rate.Limiter
	url     string
	token   string
	logger  *logrus.Entry
}

// webhookPayload is the JSON body posted per alert
type webhookPayload struct {
	Type      string    `json:"type"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	Value     float64   `json:"value"`
	Threshold float64   `json:"threshold"`
	CreatedAt time.Time `json:"created_at"`
	Source    string    `json:"source"`
}

// NewWebhookNotifier creates a webhook notifier from configuration.
// Returns a no-op notifier when webhook delivery is disabled.
func NewWebhookNotifier(cfg config.NotifyConfig, logger *logrus.Logger) Notifier {
	if !cfg.Enabled || cfg.WebhookURL == "" {
		return &noopNotifier{}
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = 100 * time.Millisecond
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.Logger = nil
	if cfg.TimeoutSeconds > 0 {
		retryClient.HTTPClient.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	ratePerSecond := cfg.RatePerSecond
	if ratePerSecond <= 0 {
		ratePerSecond = 1
	}

	return &WebhookNotifier{
		client:  retryClient,
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), 1),
		url:     cfg.WebhookURL,
		token:   cfg.WebhookToken,
		logger:  logger.WithField("component", "notify"),
	}
}

// SendAlert delivers a single alert to the webhook
func (n *WebhookNotifier) SendAlert(ctx context.Context, alert alerts.Alert) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	payload := webhookPayload{
		Type:      string(alert.Type),
		Severity:  string(alert.Severity),
		Message:   alert.Message,
		Value:     alert.Value,
		Threshold: alert.Threshold,
		CreatedAt: alert.CreatedAt,
		Source:    "punter-edge",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode alert payload: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.token != "" {
		req.Header.Set("Authorization", "Bearer "+n.token)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		metrics.RecordNotificationFailure()
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		metrics.RecordNotificationFailure()
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	metrics.RecordNotificationSent()
	n.logger.WithFields(logrus.Fields{
		"type":     alert.Type,
		"severity": alert.Severity,
	}).Debug("Alert delivered to webhook")
	return nil
}

// SendAlerts delivers a batch of alerts, continuing past individual
// failures and returning the first error encountered
func (n *WebhookNotifier) SendAlerts(ctx context.Context, fired []alerts.Alert) error {
	var firstErr error
	for _, alert := range fired {
		if err := n.SendAlert(ctx, alert); err != nil {
			n.logger.WithError(err).WithField("type", alert.Type).Error("Failed to deliver alert")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Close releases idle connections
func (n *WebhookNotifier) Close() error {
	n.client.HTTPClient.CloseIdleConnections()
	return nil
}

// noopNotifier swallows alerts when webhook delivery is disabled
type noopNotifier struct{}

func (noopNotifier) SendAlert(context.Context, alerts.Alert) error    { return nil }
func (noopNotifier) SendAlerts(context.Context, []alerts.Alert) error { return nil }
func (noopNotifier) Close() error                                     { return nil }
