package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultPostmarkEndpoint = "https://api.postmarkapp.com/email"

// PostmarkSettings capture the runtime configuration for the Postmark mailer.
type PostmarkSettings struct {
	ServerToken string
	From        string
	Endpoint    string // overridable for tests
	Timeout     time.Duration
}

type postmarkMailer struct {
	cfg    PostmarkSettings
	client *http.Client
}

// NewPostmarkMailer builds a Mailer backed by the Postmark transactional API.
func NewPostmarkMailer(cfg PostmarkSettings) (Mailer, error) {
	if strings.TrimSpace(cfg.ServerToken) == "" {
		return nil, errors.New("postmark: server token is required")
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultPostmarkEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &postmarkMailer{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type postmarkPayload struct {
	From          string `json:"From"`
	To            string `json:"To"`
	Subject       string `json:"Subject"`
	TextBody      string `json:"TextBody"`
	MessageStream string `json:"MessageStream"`
}

func (m *postmarkMailer) Send(ctx context.Context, msg Message) (err error) {
	defer func() { observeDelivery("postmark", err) }()

	from := strings.TrimSpace(msg.From)
	if from == "" {
		from = m.cfg.From
	}
	if from == "" {
		return errors.New("postmark: sender address is required")
	}
	if len(msg.To) == 0 {
		return errors.New("postmark: at least one recipient is required")
	}

	body, err := json.Marshal(postmarkPayload{
		From:          from,
		To:            strings.Join(msg.To, ", "),
		Subject:       msg.Subject,
		TextBody:      msg.Body,
		MessageStream: "outbound",
	})
	if err != nil {
		return fmt.Errorf("postmark: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("postmark: build request: %w", err)
	}
	req.Header.Set("X-Postmark-Server-Token", m.cfg.ServerToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("postmark: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("postmark: delivery failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	return nil
}
