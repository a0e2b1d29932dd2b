package domain

import "time"

// User models an account holder. Username and phone number are used
// interchangeably as login handles. Roles is a set: membership matters,
// order does not.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name,omitempty"`
	Username     string    `json:"username"`
	PhoneNumber  string    `json:"phone_number"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasRole reports whether the user holds the role with the given key.
func (u *User) HasRole(key RoleKey) bool {
	for _, r := range u.Roles {
		if r.Key == key {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// GrantRole adds a role to the set. Granting a role the user already holds
// is a no-op.
func (u *User) GrantRole(role Role) {
	if u.HasRole(role.Key) {
		return
	}
	u.Roles = append(u.Roles, role)
}

// ReplaceRoles discards the current role set in favour of the given roles.
func (u *User) ReplaceRoles(roles ...Role) {
	u.Roles = u.Roles[:0]
	for _, r := range roles {
		u.GrantRole(r)
	}
}

// RoleKeys returns the canonical keys of the user's roles.
func (u *User) RoleKeys() []string {
	keys := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		keys = append(keys, string(r.Key))
	}
	return keys
}
