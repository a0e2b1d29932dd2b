package ports

import (
	"context"
	"time"

	"github.com/sharemyrevenue/account-service/internal/core/domain"
)

// TokenRepository defines persistence for validation tokens.
//
// Token strings are not unique: FindLatestByToken resolves duplicates by
// returning the most recently created record.
type TokenRepository interface {
	Insert(ctx context.Context, token *domain.ValidationToken) (*domain.ValidationToken, error)
	FindLatestByToken(ctx context.Context, token string) (*domain.ValidationToken, error)
	Update(ctx context.Context, token *domain.ValidationToken) error
	Delete(ctx context.Context, id string) error
	CountByUserCreatedBetween(ctx context.Context, userID string, from, to time.Time) (int64, error)
}
