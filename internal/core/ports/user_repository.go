package ports

import (
	"context"

	"github.com/sharemyrevenue/account-service/internal/core/domain"
)

// ListUsersFilter narrows and pages user listings. Role filters by canonical
// key, Query matches name or username substrings.
type ListUsersFilter struct {
	Role  domain.RoleKey
	Query string
	Page  int
	Limit int
}

// UserRepository defines persistence for accounts. Lookups return
// domain.ErrUserNotFound when no record matches.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByPhoneNumber(ctx context.Context, phone string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByUsernameOrPhone(ctx context.Context, username, phone string) (bool, error)
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
}
