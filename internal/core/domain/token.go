package domain

import "time"

// TokenReasonPasswordReset is the audit reason recorded when a token is
// consumed by a completed password reset.
const TokenReasonPasswordReset = "Password Reset"

// ValidationToken is a single-use credential artifact proving possession of
// an emailed link or an SMS OTP. There is no expiry timestamp: a token stays
// valid until it is explicitly consumed or administratively deleted.
type ValidationToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	Valid     bool      `json:"valid"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Consume flips the token invalid and records why. Consuming is one-way.
func (t *ValidationToken) Consume(reason string) {
	t.Valid = false
	t.Reason = reason
}
