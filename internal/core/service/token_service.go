package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sharemyrevenue/account-service/internal/core/domain"
	"github.com/sharemyrevenue/account-service/internal/core/ports"
)

// maxDailyIssuance caps how many tokens an account may be issued per
// calendar day, throttling reset and OTP requests.
const maxDailyIssuance = 3

// TokenManager implements ports.TokenService on top of a TokenRepository.
type TokenManager struct {
	repo   ports.TokenRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewTokenManager(repo ports.TokenRepository, logger zerolog.Logger) *TokenManager {
	return &TokenManager{repo: repo, logger: logger, now: time.Now}
}

// Issue persists a fresh valid token for the user. Duplicate token strings
// are allowed; lookups resolve them latest-first.
func (m *TokenManager) Issue(ctx context.Context, user *domain.User, token string) (*domain.ValidationToken, error) {
	if user == nil || token == "" {
		return nil, fmt.Errorf("%w: user and token are required", domain.ErrInvalid)
	}

	created, err := m.repo.Insert(ctx, &domain.ValidationToken{
		UserID:    user.ID,
		Token:     token,
		Valid:     true,
		CreatedAt: m.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info().Str("user_id", user.ID).Str("token_id", created.ID).Msg("validation token issued")
	return created, nil
}

// FindByToken resolves a token string to its most recent record. The record
// must still be valid; consumed tokens resolve to ErrInvalidToken just like
// unknown ones.
func (m *TokenManager) FindByToken(ctx context.Context, token string) (*domain.ValidationToken, error) {
	if token == "" {
		return nil, domain.ErrInvalidToken
	}
	record, err := m.repo.FindLatestByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if record == nil || !record.Valid {
		return nil, domain.ErrInvalidToken
	}
	return record, nil
}

// IsValid reports whether the token string resolves to a currently valid
// record. An empty string is false without error; a missing or consumed
// token surfaces ErrInvalidToken so callers keep the distinction.
func (m *TokenManager) IsValid(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	record, err := m.FindByToken(ctx, token)
	if err != nil {
		return false, err
	}
	return record.Valid, nil
}

// Consume flips the token invalid with an audit reason and persists it.
func (m *TokenManager) Consume(ctx context.Context, token *domain.ValidationToken, reason string) error {
	if token == nil {
		return fmt.Errorf("%w: token is required", domain.ErrInvalid)
	}
	token.Consume(reason)
	if err := m.repo.Update(ctx, token); err != nil {
		return err
	}
	m.logger.Info().Str("token_id", token.ID).Str("reason", reason).Msg("validation token consumed")
	return nil
}

// Delete hard-deletes a token record. Administrative use only.
func (m *TokenManager) Delete(ctx context.Context, id string) error {
	return m.repo.Delete(ctx, id)
}

// DailyIssuanceCount counts tokens created for the user between the start
// and end of the current server-local day, inclusive.
func (m *TokenManager) DailyIssuanceCount(ctx context.Context, user *domain.User) (int64, error) {
	if user == nil {
		return 0, fmt.Errorf("%w: user is required", domain.ErrInvalid)
	}
	from, to := dayBounds(m.now())
	return m.repo.CountByUserCreatedBetween(ctx, user.ID, from, to)
}

// IsDailyLimitExceeded reports whether the user has hit today's issuance
// cap. A nil user fails closed.
func (m *TokenManager) IsDailyLimitExceeded(ctx context.Context, user *domain.User) (bool, error) {
	if user == nil {
		return true, nil
	}
	count, err := m.DailyIssuanceCount(ctx, user)
	if err != nil {
		return false, err
	}
	return count >= maxDailyIssuance, nil
}

// dayBounds returns the inclusive [00:00:00, 23:59:59.999999999] range of
// the day containing t.
func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}
