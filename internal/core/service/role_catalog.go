package service

import (
	"context"

	"github.com/sharemyrevenue/account-service/internal/core/domain"
	"github.com/sharemyrevenue/account-service/internal/core/ports"
)

// RoleCatalog resolves role grants against the seeded role records. Roles
// are resolved, never created, at grant time.
type RoleCatalog struct {
	repo ports.RoleRepository
}

func NewRoleCatalog(repo ports.RoleRepository) *RoleCatalog {
	return &RoleCatalog{repo: repo}
}

// Resolve returns the persisted record for a canonical key.
func (c *RoleCatalog) Resolve(ctx context.Context, key domain.RoleKey) (*domain.Role, error) {
	return c.repo.FindByKey(ctx, key)
}

// ResolveByDisplayName matches a human-readable role name, falling back to
// the least-privileged user role when the name is unknown.
func (c *RoleCatalog) ResolveByDisplayName(ctx context.Context, name string) (*domain.Role, error) {
	return c.Resolve(ctx, domain.RoleKeyFromDisplayName(name))
}
