package ports

import (
	"context"

	"github.com/sharemyrevenue/account-service/internal/core/domain"
)

// RegisterInput carries everything a registration needs, including the
// originating client IP for flood control.
type RegisterInput struct {
	Name        string
	Username    string
	PhoneNumber string
	Email       string
	Password    string
	ClientIP    string
}

// ListUsersResult is a paginated page of accounts.
type ListUsersResult struct {
	Items      []*domain.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// AccountService is the only surface the HTTP boundary talks to.
type AccountService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	// Authenticate returns the account on a credential match and (nil, nil)
	// on a password mismatch, so callers can tell a wrong password apart
	// from a missing account without leaking either.
	Authenticate(ctx context.Context, usernameOrPhone, password string) (*domain.User, error)
	// Login authenticates and mints a signed bearer token.
	Login(ctx context.Context, usernameOrPhone, password string) (string, *domain.User, error)

	RequireEmailVerification(ctx context.Context, email, validationPath string) error
	RequestPasswordReset(ctx context.Context, username string) error
	ResetPassword(ctx context.Context, username, token, newPassword string) (*domain.User, error)
	ChangePassword(ctx context.Context, id, currentPassword, newPassword string) (*domain.User, error)
	SetPassword(ctx context.Context, actor *domain.User, id, newPassword string) (*domain.User, error)

	ChangeRole(ctx context.Context, id string, key domain.RoleKey) (*domain.User, error)
	SetRoles(ctx context.Context, id string, roleNames []string) (*domain.User, error)

	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsernameOrPhone(ctx context.Context, usernameOrPhone string) (*domain.User, error)
	ListUsers(ctx context.Context, filter ListUsersFilter) (*ListUsersResult, error)
}
