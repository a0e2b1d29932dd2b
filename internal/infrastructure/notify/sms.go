package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SMSConfig carries the settings for the HTTP SMS gateway.
type SMSConfig struct {
	GatewayURL string
	APIKey     string
	Sender     string
	Timeout    time.Duration
}

// SMSGateway implements ports.SMSSender against a form-POST HTTP gateway.
type SMSGateway struct {
	cfg    SMSConfig
	client *http.Client
}

func NewSMSGateway(cfg SMSConfig) *SMSGateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SMSGateway{cfg: cfg, client: &http.Client{Timeout: timeout}}
}

func (g *SMSGateway) SendSMS(ctx context.Context, to, body string) error {
	if to == "" {
		return fmt.Errorf("sms: recipient is required")
	}

	form := url.Values{}
	form.Set("api_key", g.cfg.APIKey)
	form.Set("sender", g.cfg.Sender)
	form.Set("to", to)
	form.Set("message", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.GatewayURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("sms: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sms: gateway returned status %d", resp.StatusCode)
	}
	return nil
}
