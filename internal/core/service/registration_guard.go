package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sharemyrevenue/account-service/internal/core/ports"
)

const defaultMaxRegistrations = 10

// RegistrationGuard throttles the volume of accounts created from a single
// IP. Only successful registrations count toward the cap: repeated invalid
// submissions never trip the limiter on their own.
type RegistrationGuard struct {
	store  ports.AttemptStore
	max    int
	logger zerolog.Logger
}

// NewRegistrationGuard creates a guard capped at max successful
// registrations per window. If max <= 0, defaultMaxRegistrations is used.
func NewRegistrationGuard(store ports.AttemptStore, max int, logger zerolog.Logger) *RegistrationGuard {
	if max <= 0 {
		max = defaultMaxRegistrations
	}
	return &RegistrationGuard{store: store, max: max, logger: logger}
}

// IsBlocked reports whether the IP has already reached the cap.
func (g *RegistrationGuard) IsBlocked(ctx context.Context, ip string) (bool, error) {
	count, err := g.store.Count(ctx, ip)
	if err != nil {
		return false, err
	}
	if count >= g.max {
		g.logger.Warn().Str("ip", ip).Int("count", count).Msg("registration blocked by flood control")
		return true, nil
	}
	return false, nil
}

// RecordSuccess increments the window counter. Call it only once a
// registration has actually been accepted.
func (g *RegistrationGuard) RecordSuccess(ctx context.Context, ip string) error {
	return g.store.Increment(ctx, ip)
}
