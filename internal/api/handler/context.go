package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sharemyrevenue/account-service/internal/core/domain"
)

// ctxActor rebuilds the acting account from the claims injected by the Auth
// middleware. The resulting user carries only identity and role keys; it is
// never persisted, only consulted for authorization decisions.
func ctxActor(c echo.Context) (*domain.User, error) {
	id, _ := c.Get("user_id").(string)
	if id == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	username, _ := c.Get("username").(string)

	actor := &domain.User{ID: id, Username: username}
	keys, _ := c.Get("roles").([]string)
	for _, k := range keys {
		key, err := domain.ParseRoleKey(k)
		if err != nil {
			continue
		}
		actor.GrantRole(domain.Role{Key: key, Name: key.DisplayName()})
	}
	return actor, nil
}
