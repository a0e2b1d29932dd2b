package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sharemyrevenue/account-service/internal/core/domain"
	"github.com/sharemyrevenue/account-service/internal/core/ports"
)

// UserHandler serves the admin-facing account management endpoints.
type UserHandler struct {
	accounts ports.AccountService
}

func NewUserHandler(accounts ports.AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type setRolesRequest struct {
	Roles []string `json:"roles" validate:"required"`
}

type setPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

type listUsersResponse struct {
	Items      []*domain.User `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

// List returns a page of accounts, optionally filtered by role key or a
// name/username search query.
//
// @Summary      List accounts
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        role   query     string  false  "Canonical role key (e.g. ROLE_LANDLORD)"
// @Param        q      query     string  false  "Name or username substring"
// @Param        page   query     int     false  "Page number (1-based)"
// @Param        limit  query     int     false  "Page size (max 100)"
// @Success      200    {object}  listUsersResponse
// @Failure      403    {object}  map[string]string
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	filter := ports.ListUsersFilter{Query: c.QueryParam("q")}

	if role := c.QueryParam("role"); role != "" {
		key, err := domain.ParseRoleKey(role)
		if err != nil {
			return err
		}
		filter.Role = key
	}
	filter.Page, _ = strconv.Atoi(c.QueryParam("page"))
	filter.Limit, _ = strconv.Atoi(c.QueryParam("limit"))

	result, err := h.accounts.ListUsers(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listUsersResponse{
		Items:      result.Items,
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

// Get returns a single account by id.
//
// @Summary      Get an account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Account id"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.accounts.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ChangeRole replaces the account's whole role set with the single given
// canonical role.
//
// @Summary      Change an account's role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Account id"
// @Param        body  body      changeRoleRequest  true  "Canonical role key"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /users/{id}/role [put]
func (h *UserHandler) ChangeRole(c echo.Context) error {
	var req changeRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	key, err := domain.ParseRoleKey(req.Role)
	if err != nil {
		return err
	}

	user, err := h.accounts.ChangeRole(c.Request().Context(), c.Param("id"), key)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// SetRoles replaces the account's role set with the roles named by display
// name. An existing admin grant always survives the replacement.
//
// @Summary      Replace an account's roles
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Account id"
// @Param        body  body      setRolesRequest  true  "Role display names"
// @Success      200   {object}  domain.User
// @Failure      404   {object}  map[string]string
// @Router       /users/{id}/roles [put]
func (h *UserHandler) SetRoles(c echo.Context) error {
	var req setRolesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.accounts.SetRoles(c.Request().Context(), c.Param("id"), req.Roles)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// SetPassword overwrites an account's password without knowing the current
// one. The acting account must be an admin.
//
// @Summary      Set an account's password (admin)
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Account id"
// @Param        body  body      setPasswordRequest  true  "New password"
// @Success      200   {object}  domain.User
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /users/{id}/password [put]
func (h *UserHandler) SetPassword(c echo.Context) error {
	var req setPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	user, err := h.accounts.SetPassword(c.Request().Context(), actor, c.Param("id"), req.NewPassword)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ChangePassword rotates the caller's own password after verifying the
// current one. The path id must match the authenticated account.
//
// @Summary      Change own password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Account id"
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  domain.User
// @Failure      403   {object}  map[string]string
// @Router       /users/{id}/password [post]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	if actor.ID != id && !actor.IsAdmin() {
		return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
	}

	user, err := h.accounts.ChangePassword(c.Request().Context(), id, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
