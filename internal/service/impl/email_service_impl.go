package impl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"wicki/internal/observability/logging"
	"wicki/internal/service"
)

const resendEndpoint = "https://api.resend.com/emails"

// EmailServiceImpl delivers mail through the Resend HTTP API. In development
// it only logs the message.
type EmailServiceImpl struct {
	APIKey   string
	From     string
	Dev      bool
	Endpoint string
	Client   *http.Client
}

func NewEmailServiceImpl(apiKey, from string, dev bool) *EmailServiceImpl {
	return &EmailServiceImpl{
		APIKey:   apiKey,
		From:     from,
		Dev:      dev,
		Endpoint: resendEndpoint,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

func (s *EmailServiceImpl) Send(ctx context.Context, e service.Email) error {
	log := logging.FromContext(ctx)
	if s.Dev {
		log.Info("development email, not sent",
			"to", e.To, "subject", e.Subject, "text", e.Text)
		return nil
	}
	if s.APIKey == "" {
		return fmt.Errorf("%w: no resend api key configured", ErrEmailNotSent)
	}

	body, err := json.Marshal(resendRequest{
		From:    s.From,
		To:      []string{e.To},
		Subject: e.Subject,
		HTML:    e.HTML,
		Text:    e.Text,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEmailNotSent, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: resend status %d: %s", ErrEmailNotSent, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	log.Info("email sent", "to", e.To, "subject", e.Subject)
	return nil
}
