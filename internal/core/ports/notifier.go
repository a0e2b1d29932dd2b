package ports

import "context"

// Mailer delivers a single email synchronously. Retry policy, if any, lives
// behind the implementation.
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SMSSender delivers a single SMS synchronously.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}
