package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPConfig carries the settings for the outbound mail relay.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer implements ports.Mailer over a plain SMTP relay. Sends are
// synchronous and bounded by the relay; retries belong to the relay, not
// this layer.
type SMTPMailer struct {
	cfg SMTPConfig
	// send is swappable in tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail}
}

func (m *SMTPMailer) SendEmail(_ context.Context, to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("mailer: recipient is required")
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := m.send(addr, auth, m.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("mailer: %w", err)
	}
	return nil
}
