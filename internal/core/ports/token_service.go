package ports

import (
	"context"

	"github.com/sharemyrevenue/account-service/internal/core/domain"
)

// TokenService owns the validation token lifecycle.
type TokenService interface {
	// Issue persists a fresh valid token for the user. It never searches for
	// or reuses an existing record.
	Issue(ctx context.Context, user *domain.User, token string) (*domain.ValidationToken, error)
	// FindByToken resolves a token string to its most recent record, failing
	// with domain.ErrInvalidToken when the string is empty, unknown, or the
	// record has been invalidated.
	FindByToken(ctx context.Context, token string) (*domain.ValidationToken, error)
	// IsValid reports token validity. An empty string is false, not an error.
	IsValid(ctx context.Context, token string) (bool, error)
	// Consume invalidates the token with an audit reason. One-way.
	Consume(ctx context.Context, token *domain.ValidationToken, reason string) error
	// Delete hard-deletes a token record by id.
	Delete(ctx context.Context, id string) error
	// DailyIssuanceCount counts tokens created for the user today.
	DailyIssuanceCount(ctx context.Context, user *domain.User) (int64, error)
	// IsDailyLimitExceeded reports whether the user may be issued another
	// token today. A nil user fails closed.
	IsDailyLimitExceeded(ctx context.Context, user *domain.User) (bool, error)
}
