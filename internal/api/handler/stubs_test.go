package handler

import (
	"context"

	"github.com/sharemyrevenue/account-service/internal/core/domain"
	"github.com/sharemyrevenue/account-service/internal/core/ports"
)

// stubAccountService implements ports.AccountService with per-test function
// hooks. Methods without a hook return zero values.
type stubAccountService struct {
	registerFn       func(ctx context.Context, input ports.RegisterInput) (*domain.User, error)
	loginFn          func(ctx context.Context, usernameOrPhone, password string) (string, *domain.User, error)
	verifyFn         func(ctx context.Context, email, validationPath string) error
	forgotFn         func(ctx context.Context, username string) error
	resetFn          func(ctx context.Context, username, token, newPassword string) (*domain.User, error)
	changePasswordFn func(ctx context.Context, id, currentPassword, newPassword string) (*domain.User, error)
	setPasswordFn    func(ctx context.Context, actor *domain.User, id, newPassword string) (*domain.User, error)
	changeRoleFn     func(ctx context.Context, id string, key domain.RoleKey) (*domain.User, error)
	setRolesFn       func(ctx context.Context, id string, roleNames []string) (*domain.User, error)
	findByIDFn       func(ctx context.Context, id string) (*domain.User, error)
	listFn           func(ctx context.Context, filter ports.ListUsersFilter) (*ports.ListUsersResult, error)
}

func (s *stubAccountService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if s.registerFn != nil {
		return s.registerFn(ctx, input)
	}
	return nil, nil
}

func (s *stubAccountService) Authenticate(ctx context.Context, usernameOrPhone, password string) (*domain.User, error) {
	return nil, nil
}

func (s *stubAccountService) Login(ctx context.Context, usernameOrPhone, password string) (string, *domain.User, error) {
	if s.loginFn != nil {
		return s.loginFn(ctx, usernameOrPhone, password)
	}
	return "", nil, nil
}

func (s *stubAccountService) RequireEmailVerification(ctx context.Context, email, validationPath string) error {
	if s.verifyFn != nil {
		return s.verifyFn(ctx, email, validationPath)
	}
	return nil
}

func (s *stubAccountService) RequestPasswordReset(ctx context.Context, username string) error {
	if s.forgotFn != nil {
		return s.forgotFn(ctx, username)
	}
	return nil
}

func (s *stubAccountService) ResetPassword(ctx context.Context, username, token, newPassword string) (*domain.User, error) {
	if s.resetFn != nil {
		return s.resetFn(ctx, username, token, newPassword)
	}
	return nil, nil
}

func (s *stubAccountService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) (*domain.User, error) {
	if s.changePasswordFn != nil {
		return s.changePasswordFn(ctx, id, currentPassword, newPassword)
	}
	return nil, nil
}

func (s *stubAccountService) SetPassword(ctx context.Context, actor *domain.User, id, newPassword string) (*domain.User, error) {
	if s.setPasswordFn != nil {
		return s.setPasswordFn(ctx, actor, id, newPassword)
	}
	return nil, nil
}

func (s *stubAccountService) ChangeRole(ctx context.Context, id string, key domain.RoleKey) (*domain.User, error) {
	if s.changeRoleFn != nil {
		return s.changeRoleFn(ctx, id, key)
	}
	return nil, nil
}

func (s *stubAccountService) SetRoles(ctx context.Context, id string, roleNames []string) (*domain.User, error) {
	if s.setRolesFn != nil {
		return s.setRolesFn(ctx, id, roleNames)
	}
	return nil, nil
}

func (s *stubAccountService) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if s.findByIDFn != nil {
		return s.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (s *stubAccountService) FindByUsernameOrPhone(ctx context.Context, usernameOrPhone string) (*domain.User, error) {
	return nil, nil
}

func (s *stubAccountService) ListUsers(ctx context.Context, filter ports.ListUsersFilter) (*ports.ListUsersResult, error) {
	if s.listFn != nil {
		return s.listFn(ctx, filter)
	}
	return &ports.ListUsersResult{}, nil
}

// stubTokenService implements ports.TokenService the same way.
type stubTokenService struct {
	isValidFn func(ctx context.Context, token string) (bool, error)
	deleteFn  func(ctx context.Context, id string) error
}

func (s *stubTokenService) Issue(ctx context.Context, user *domain.User, token string) (*domain.ValidationToken, error) {
	return nil, nil
}

func (s *stubTokenService) FindByToken(ctx context.Context, token string) (*domain.ValidationToken, error) {
	return nil, nil
}

func (s *stubTokenService) IsValid(ctx context.Context, token string) (bool, error) {
	if s.isValidFn != nil {
		return s.isValidFn(ctx, token)
	}
	return false, nil
}

func (s *stubTokenService) Consume(ctx context.Context, token *domain.ValidationToken, reason string) error {
	return nil
}

func (s *stubTokenService) Delete(ctx context.Context, id string) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *stubTokenService) DailyIssuanceCount(ctx context.Context, user *domain.User) (int64, error) {
	return 0, nil
}

func (s *stubTokenService) IsDailyLimitExceeded(ctx context.Context, user *domain.User) (bool, error) {
	return false, nil
}
