package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/config"
)

// EmailSender delivers one email. Implementations report ok=false when the
// provider rejected the send; callers log failures and never retry.
type EmailSender interface {
	Send(ctx context.Context, to, subject, text, html string) (bool, error)
}

// NewEmailSender returns an HTTP-backed sender when an endpoint is
// configured, otherwise a logging no-op so the delivery path stays wired in
// development.
func NewEmailSender(cfg config.EmailConfig, logger *zap.Logger) EmailSender {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return noopEmailSender{logger: logger}
	}

	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &httpEmailSender{
		endpoint: endpoint,
		apiKey:   cfg.APIKey,
		from:     cfg.From,
		client:   &http.Client{Timeout: timeout},
	}
}

type emailRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html,omitempty"`
}

type httpEmailSender struct {
	endpoint string
	apiKey   string
	from     string
	client   *http.Client
}

func (s *httpEmailSender) Send(ctx context.Context, to, subject, text, html string) (bool, error) {
	body, err := json.Marshal(emailRequest{
		From:    s.from,
		To:      to,
		Subject: subject,
		Text:    text,
		HTML:    html,
	})
	if err != nil {
		return false, fmt.Errorf("encode email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return false, fmt.Errorf("email provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return true, nil
}

type noopEmailSender struct {
	logger *zap.Logger
}

func (s noopEmailSender) Send(_ context.Context, to, subject, _, _ string) (bool, error) {
	s.logger.Debug("email provider disabled, dropping email",
		zap.String("to", to),
		zap.String("subject", subject))
	return true, nil
}
