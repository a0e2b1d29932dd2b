package domain

import (
	"fmt"
	"strings"
)

// RoleKey is the canonical identifier of a role. The set is closed: every
// grant resolves one of the constants below against the seeded catalog.
type RoleKey string

const (
	RoleAdmin         RoleKey = "ROLE_ADMIN"
	RoleEmployee      RoleKey = "ROLE_EMPLOYEE"
	RoleFieldEmployee RoleKey = "ROLE_FIELD_EMPLOYEE"
	RoleLandlord      RoleKey = "ROLE_LANDLORD"
	RoleUser          RoleKey = "ROLE_USER"
)

// RoleKeys lists every canonical key, used for catalog seeding.
var RoleKeys = []RoleKey{RoleAdmin, RoleEmployee, RoleFieldEmployee, RoleLandlord, RoleUser}

var displayNames = map[RoleKey]string{
	RoleAdmin:         "Admin",
	RoleEmployee:      "Employee",
	RoleFieldEmployee: "Field Employee",
	RoleLandlord:      "LandLord",
	RoleUser:          "User",
}

// DisplayName returns the human-readable name for the key, or "User" for an
// unknown key.
func (k RoleKey) DisplayName() string {
	if name, ok := displayNames[k]; ok {
		return name
	}
	return displayNames[RoleUser]
}

// ParseRoleKey resolves a canonical key string. Unknown keys are an error;
// callers that want the lenient display-name match use RoleKeyFromDisplayName.
func ParseRoleKey(s string) (RoleKey, error) {
	key := RoleKey(s)
	if _, ok := displayNames[key]; !ok {
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalid, s)
	}
	return key, nil
}

// RoleKeyFromDisplayName matches a display name case-insensitively, ignoring
// surrounding whitespace. Unknown names degrade to RoleUser so a bad role
// list can never elevate privileges.
func RoleKeyFromDisplayName(name string) RoleKey {
	needle := strings.ToLower(strings.TrimSpace(name))
	for key, display := range displayNames {
		if strings.ToLower(display) == needle {
			return key
		}
	}
	return RoleUser
}

// Role is a persisted role record. Records are immutable once seeded and are
// resolved, never re-created, on every grant.
type Role struct {
	ID   string  `json:"id"`
	Key  RoleKey `json:"key"`
	Name string  `json:"name"`
}

// IsAdmin reports whether this role is the admin role.
func (r Role) IsAdmin() bool {
	return r.Key == RoleAdmin
}
