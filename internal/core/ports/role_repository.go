package ports

import (
	"context"

	"github.com/sharemyrevenue/account-service/internal/core/domain"
)

// RoleRepository resolves seeded role records by canonical key.
type RoleRepository interface {
	FindByKey(ctx context.Context, key domain.RoleKey) (*domain.Role, error)
	Seed(ctx context.Context) error
}
