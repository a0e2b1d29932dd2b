package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sharemyrevenue/account-service/internal/core/domain"
	"github.com/sharemyrevenue/account-service/internal/core/ports"
)

// minPasswordLength is the floor applied to every path that sets a password.
const minPasswordLength = 6

// AccountSettings carries the configuration the account flows depend on.
type AccountSettings struct {
	// AppName appears in OTP and verification message text.
	AppName string
	// BaseAPIURL prefixes composed email confirmation links.
	BaseAPIURL string
	// AdminPhones auto-grant the admin role to matching registrations.
	AdminPhones []string
	JWTSecret   string
	TokenTTL    time.Duration
}

// AccountService orchestrates registration, authentication, credential
// recovery, and role mutation. It is the only component the HTTP boundary
// invokes.
type AccountService struct {
	users    ports.UserRepository
	tokens   ports.TokenService
	guard    *RegistrationGuard
	catalog  *RoleCatalog
	mailer   ports.Mailer
	sms      ports.SMSSender
	tx       ports.Transactor
	settings AccountSettings
	logger   zerolog.Logger
}

func NewAccountService(
	users ports.UserRepository,
	tokens ports.TokenService,
	guard *RegistrationGuard,
	catalog *RoleCatalog,
	mailer ports.Mailer,
	sms ports.SMSSender,
	tx ports.Transactor,
	settings AccountSettings,
	logger zerolog.Logger,
) *AccountService {
	if settings.TokenTTL <= 0 {
		settings.TokenTTL = 24 * time.Hour
	}
	return &AccountService{
		users:    users,
		tokens:   tokens,
		guard:    guard,
		catalog:  catalog,
		mailer:   mailer,
		sms:      sms,
		tx:       tx,
		settings: settings,
		logger:   logger,
	}
}

// Register creates a new account. The base user role is always granted; the
// admin role is granted additionally when the phone number matches one of
// the configured administrator phones.
func (s *AccountService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if input.Password == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrInvalid)
	}
	if input.PhoneNumber == "" {
		return nil, fmt.Errorf("%w: phone number is required", domain.ErrInvalid)
	}
	if len(input.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password length must be at least %d", domain.ErrInvalid, minPasswordLength)
	}

	exists, err := s.users.ExistsByUsernameOrPhone(ctx, input.Username, input.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: username or phone already registered", domain.ErrUserExists)
	}

	blocked, err := s.guard.IsBlocked(ctx, input.ClientIP)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, fmt.Errorf("%w: maximum registrations reached", domain.ErrRateLimited)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         input.Name,
		Username:     input.Username,
		PhoneNumber:  input.PhoneNumber,
		Email:        input.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if s.isAdminPhone(input.PhoneNumber) {
		adminRole, err := s.catalog.Resolve(ctx, domain.RoleAdmin)
		if err != nil {
			return nil, err
		}
		user.GrantRole(*adminRole)
	}

	if err := s.guard.RecordSuccess(ctx, input.ClientIP); err != nil {
		return nil, err
	}

	created, err := s.save(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("account registered")
	return created, nil
}

// save persists the user, enforcing the invariant that every saved account
// holds at least the base user role.
func (s *AccountService) save(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil || user.PasswordHash == "" {
		return nil, fmt.Errorf("%w: user with password is required", domain.ErrInvalid)
	}
	userRole, err := s.catalog.Resolve(ctx, domain.RoleUser)
	if err != nil {
		return nil, err
	}
	user.GrantRole(*userRole)
	user.UpdatedAt = time.Now().UTC()
	return s.users.Save(ctx, user)
}

func (s *AccountService) isAdminPhone(phone string) bool {
	for _, admin := range s.settings.AdminPhones {
		if admin != "" && admin == phone {
			return true
		}
	}
	return false
}

// Authenticate resolves the account by username or phone and verifies the
// password. A mismatch returns (nil, nil): the caller tells "wrong password"
// apart from "no such account" without either leaking into a message.
func (s *AccountService) Authenticate(ctx context.Context, usernameOrPhone, password string) (*domain.User, error) {
	user, err := s.FindByUsernameOrPhone(ctx, usernameOrPhone)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil
	}
	return user, nil
}

// Login authenticates and mints a signed bearer token. The (nil, nil)
// mismatch sentinel from Authenticate passes through unchanged.
func (s *AccountService) Login(ctx context.Context, usernameOrPhone, password string) (string, *domain.User, error) {
	user, err := s.Authenticate(ctx, usernameOrPhone, password)
	if err != nil || user == nil {
		return "", nil, err
	}
	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AccountService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"roles":    user.RoleKeys(),
		"exp":      time.Now().Add(s.settings.TokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.settings.JWTSecret))
}

// RequireEmailVerification issues a session-identifier-strength token for
// the account owning the email and mails it out. With a validationPath the
// mail carries a composed confirmation link, otherwise the raw token.
//
// The token is persisted before the send: a failed delivery surfaces
// ErrDeliveryFailed but leaves the token row in place.
func (s *AccountService) RequireEmailVerification(ctx context.Context, email, validationPath string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrInvalid)
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := s.tokens.Issue(ctx, user, newSessionToken())
	if err != nil {
		return err
	}

	if validationPath == "" {
		subject := s.settings.AppName + " verification token"
		body := "Your verification token is: " + token.Token
		if err := s.mailer.SendEmail(ctx, user.Email, subject, body); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
		}
		return nil
	}

	link := strings.TrimSpace(s.settings.BaseAPIURL) + validationPath + "?token=" + token.Token + "&enabled=true"
	subject := "Please verify your " + s.settings.AppName + " account"
	body := "Please verify your email by clicking this link " + link
	if err := s.mailer.SendEmail(ctx, user.Email, subject, body); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}
	return nil
}

// RequestPasswordReset issues a numeric OTP for the account and delivers it
// by SMS, enforcing the per-day issuance cap. The token row is persisted
// even when the SMS send fails.
func (s *AccountService) RequestPasswordReset(ctx context.Context, username string) error {
	user, err := s.FindByUsernameOrPhone(ctx, username)
	if err != nil {
		return err
	}

	exceeded, err := s.tokens.IsDailyLimitExceeded(ctx, user)
	if err != nil {
		return err
	}
	if exceeded {
		return fmt.Errorf("%w: daily reset limit reached", domain.ErrRateLimited)
	}

	otp := generateOTP()
	if _, err := s.tokens.Issue(ctx, user, otp); err != nil {
		return err
	}

	message := "Your " + s.settings.AppName + " OTP is: " + otp
	if err := s.sms.SendSMS(ctx, user.PhoneNumber, message); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("OTP delivery failed")
		return fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}
	return nil
}

// ResetPassword completes a recovery flow: the presented username must own
// the token, the new password is re-hashed, and the token is consumed. The
// password write and the token invalidation commit atomically.
func (s *AccountService) ResetPassword(ctx context.Context, username, token, newPassword string) (*domain.User, error) {
	if len(newPassword) < minPasswordLength {
		return nil, fmt.Errorf("%w: password length should be at least %d", domain.ErrForbidden, minPasswordLength)
	}

	record, err := s.tokens.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, record.UserID)
	if err != nil {
		return nil, err
	}
	if username == "" || username != user.Username {
		return nil, fmt.Errorf("%w: you are not authorized to do this action", domain.ErrForbidden)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		user.PasswordHash = string(hash)
		saved, err := s.save(ctx, user)
		if err != nil {
			return err
		}
		user = saved
		return s.tokens.Consume(ctx, record, domain.TokenReasonPasswordReset)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("password reset completed")
	return user, nil
}

// ChangePassword is the self-service path: the current password must verify
// against the stored digest.
func (s *AccountService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return nil, fmt.Errorf("%w: password doesn't match", domain.ErrForbidden)
	}
	return s.setHashedPassword(ctx, user, newPassword)
}

// SetPassword is the privileged path: only an admin actor may set another
// account's password, no matter whose password it is.
func (s *AccountService) SetPassword(ctx context.Context, actor *domain.User, id, newPassword string) (*domain.User, error) {
	if actor == nil || !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: you are not authorised to do this action", domain.ErrForbidden)
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.setHashedPassword(ctx, user, newPassword)
}

func (s *AccountService) setHashedPassword(ctx context.Context, user *domain.User, newPassword string) (*domain.User, error) {
	if len(newPassword) < minPasswordLength {
		return nil, fmt.Errorf("%w: password length must be at least %d", domain.ErrInvalid, minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = string(hash)
	return s.save(ctx, user)
}

// ChangeRole replaces the whole role set with the single resolved role.
// Unlike SetRoles there is no admin preservation here.
func (s *AccountService) ChangeRole(ctx context.Context, id string, key domain.RoleKey) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	role, err := s.catalog.Resolve(ctx, key)
	if err != nil {
		return nil, err
	}
	user.ReplaceRoles(*role)
	user.UpdatedAt = time.Now().UTC()
	return s.users.Save(ctx, user)
}

// SetRoles replaces the role set from display names, preserving admin:
// whether the account held admin is snapshotted before the clear and the
// admin role re-granted first, so a bulk update that omits "admin" can never
// silently demote an admin account.
func (s *AccountService) SetRoles(ctx context.Context, id string, roleNames []string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	wasAdmin := user.IsAdmin()
	user.Roles = user.Roles[:0]
	if wasAdmin {
		adminRole, err := s.catalog.Resolve(ctx, domain.RoleAdmin)
		if err != nil {
			return nil, err
		}
		user.GrantRole(*adminRole)
	}

	for _, name := range roleNames {
		role, err := s.catalog.ResolveByDisplayName(ctx, name)
		if err != nil {
			continue
		}
		user.GrantRole(*role)
	}

	return s.save(ctx, user)
}

// FindByID loads a single account.
func (s *AccountService) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", domain.ErrUserNotFound)
	}
	return s.users.FindByID(ctx, id)
}

// FindByUsernameOrPhone treats the handle as a username first and a phone
// number second.
func (s *AccountService) FindByUsernameOrPhone(ctx context.Context, usernameOrPhone string) (*domain.User, error) {
	if usernameOrPhone == "" {
		return nil, fmt.Errorf("%w: identifier is required", domain.ErrUserNotFound)
	}
	user, err := s.users.FindByUsername(ctx, usernameOrPhone)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	return s.users.FindByPhoneNumber(ctx, usernameOrPhone)
}

// ListUsers pages through accounts, optionally filtered by role or a
// name/username search query.
func (s *AccountService) ListUsers(ctx context.Context, filter ports.ListUsersFilter) (*ports.ListUsersResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	items, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ports.ListUsersResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// newSessionToken returns an opaque token with session-identifier strength.
func newSessionToken() string {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%x", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

// generateOTP returns a 6-digit numeric one-time password.
func generateOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return fmt.Sprintf("%06d", time.Now().UnixNano()%1000000)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}
