// Package mailer wraps the transactional email provider behind a narrow
// gateway interface so the rest of the service never talks HTTP to it
// directly.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/taprate/backend/internal/config"
)

// Mailer sends winner notifications. Delivery is fire-and-forget: the
// caller treats any error as log-only.
type Mailer interface {
	SendWinnerNotification(ctx context.Context, email, companyName string) error
}

// ResendMailer sends email through the Resend HTTP API.
type ResendMailer struct {
	baseURL    string
	apiKey     string
	from       string
	httpClient *http.Client
}

// MockMailer logs notifications instead of sending them. Used in
// development and tests.
type MockMailer struct{}

// New returns the mailer implied by configuration: the real gateway when
// an API key is present, otherwise the mock.
func New(cfg *config.Config) Mailer {
	if cfg.Mailer.Mock || cfg.Mailer.APIKey == "" {
		return &MockMailer{}
	}
	return &ResendMailer{
		baseURL: cfg.Mailer.BaseURL,
		apiKey:  cfg.Mailer.APIKey,
		from:    cfg.Mailer.From,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendWinnerNotification sends the "you won" email for a company's
// drawing.
func (m *ResendMailer) SendWinnerNotification(ctx context.Context, email, companyName string) error {
	payload := sendRequest{
		From:    m.from,
		To:      []string{email},
		Subject: fmt.Sprintf("You won the %s giveaway!", companyName),
		HTML: fmt.Sprintf(
			"<p>Congratulations! You were drawn as the winner of the %s giveaway. The business will be in touch about your reward.</p>",
			companyName,
		),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build notification request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("email gateway returned status %d", resp.StatusCode)
	}

	return nil
}

// SendWinnerNotification simulates a delivery.
func (m *MockMailer) SendWinnerNotification(_ context.Context, email, companyName string) error {
	slog.Info("mock winner notification", "email", email, "company", companyName)
	return nil
}
