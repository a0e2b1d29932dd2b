package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sharemyrevenue/account-service/internal/core/domain"
	"github.com/sharemyrevenue/account-service/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub collaborators
// ---------------------------------------------------------------------------

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = append([]domain.Role(nil), u.Roles...)
	return &clone
}

func cloneToken(t *domain.ValidationToken) *domain.ValidationToken {
	if t == nil {
		return nil
	}
	clone := *t
	return &clone
}

type stubUserRepo struct {
	users  []*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{}
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByPhoneNumber(_ context.Context, phone string) (*domain.User, error) {
	for _, u := range r.users {
		if u.PhoneNumber == phone {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByUsernameOrPhone(_ context.Context, username, phone string) (bool, error) {
	for _, u := range r.users {
		if u.Username == username || u.PhoneNumber == phone {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) List(_ context.Context, f ports.ListUsersFilter) ([]*domain.User, int64, error) {
	var matched []*domain.User
	for _, u := range r.users {
		if f.Role != "" && !u.HasRole(f.Role) {
			continue
		}
		if f.Query != "" {
			q := strings.ToLower(f.Query)
			if !strings.Contains(strings.ToLower(u.Name), q) && !strings.Contains(strings.ToLower(u.Username), q) {
				continue
			}
		}
		matched = append(matched, cloneUser(u))
	}
	total := int64(len(matched))
	skip := (f.Page - 1) * f.Limit
	if skip < 0 {
		skip = 0
	}
	if skip > len(matched) {
		return nil, total, nil
	}
	end := skip + f.Limit
	if f.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubUserRepo) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	stored := cloneUser(user)
	if stored.ID == "" {
		r.nextID++
		stored.ID = fmt.Sprintf("user_%d", r.nextID)
		r.users = append(r.users, stored)
		return cloneUser(stored), nil
	}
	for i, u := range r.users {
		if u.ID == stored.ID {
			r.users[i] = stored
			return cloneUser(stored), nil
		}
	}
	r.users = append(r.users, stored)
	return cloneUser(stored), nil
}

type stubTokenRepo struct {
	tokens []*domain.ValidationToken
	nextID int
}

func newStubTokenRepo() *stubTokenRepo {
	return &stubTokenRepo{}
}

func (r *stubTokenRepo) Insert(_ context.Context, token *domain.ValidationToken) (*domain.ValidationToken, error) {
	stored := cloneToken(token)
	r.nextID++
	stored.ID = fmt.Sprintf("tok_%d", r.nextID)
	r.tokens = append(r.tokens, stored)
	return cloneToken(stored), nil
}

// FindLatestByToken scans newest-first, mirroring the Mongo repo's sort on
// descending id.
func (r *stubTokenRepo) FindLatestByToken(_ context.Context, token string) (*domain.ValidationToken, error) {
	for i := len(r.tokens) - 1; i >= 0; i-- {
		if r.tokens[i].Token == token {
			return cloneToken(r.tokens[i]), nil
		}
	}
	return nil, domain.ErrInvalidToken
}

func (r *stubTokenRepo) Update(_ context.Context, token *domain.ValidationToken) error {
	for i, t := range r.tokens {
		if t.ID == token.ID {
			r.tokens[i] = cloneToken(token)
			return nil
		}
	}
	return domain.ErrInvalidToken
}

func (r *stubTokenRepo) Delete(_ context.Context, id string) error {
	for i, t := range r.tokens {
		if t.ID == id {
			r.tokens = append(r.tokens[:i], r.tokens[i+1:]...)
			return nil
		}
	}
	return domain.ErrInvalidToken
}

func (r *stubTokenRepo) CountByUserCreatedBetween(_ context.Context, userID string, from, to time.Time) (int64, error) {
	var n int64
	for _, t := range r.tokens {
		if t.UserID != userID {
			continue
		}
		if t.CreatedAt.Before(from) || t.CreatedAt.After(to) {
			continue
		}
		n++
	}
	return n, nil
}

type stubRoleRepo struct{}

func (r *stubRoleRepo) FindByKey(_ context.Context, key domain.RoleKey) (*domain.Role, error) {
	for i, k := range domain.RoleKeys {
		if k == key {
			return &domain.Role{ID: fmt.Sprintf("role_%d", i+1), Key: k, Name: k.DisplayName()}, nil
		}
	}
	return nil, fmt.Errorf("role %q not seeded", key)
}

func (r *stubRoleRepo) Seed(_ context.Context) error { return nil }

type stubAttemptStore struct {
	counts map[string]int
}

func newStubAttemptStore() *stubAttemptStore {
	return &stubAttemptStore{counts: make(map[string]int)}
}

func (s *stubAttemptStore) Count(_ context.Context, ip string) (int, error) {
	return s.counts[ip], nil
}

func (s *stubAttemptStore) Increment(_ context.Context, ip string) error {
	s.counts[ip]++
	return nil
}

type stubMailer struct {
	fail     bool
	sent     int
	lastTo   string
	lastSubj string
	lastBody string
}

func (m *stubMailer) SendEmail(_ context.Context, to, subject, body string) error {
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.sent++
	m.lastTo, m.lastSubj, m.lastBody = to, subject, body
	return nil
}

type stubSMSSender struct {
	fail     bool
	sent     int
	lastTo   string
	lastBody string
}

func (s *stubSMSSender) SendSMS(_ context.Context, to, body string) error {
	if s.fail {
		return errors.New("gateway unavailable")
	}
	s.sent++
	s.lastTo, s.lastBody = to, body
	return nil
}

// stubTransactor runs the function inline; the stub repos have no notion of
// rollback.
type stubTransactor struct{}

func (stubTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
