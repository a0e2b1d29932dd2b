package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sharemyrevenue/account-service/internal/api/metrics"
	"github.com/sharemyrevenue/account-service/internal/core/domain"
	"github.com/sharemyrevenue/account-service/internal/core/ports"
)

type AuthHandler struct {
	accounts ports.AccountService
}

func NewAuthHandler(accounts ports.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

type registerRequest struct {
	Name        string `json:"name"`
	Username    string `json:"username" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	Email       string `json:"email" validate:"omitempty,email"`
	Password    string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

// Register creates a new account.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("rejected").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.accounts.Register(c.Request().Context(), ports.RegisterInput{
		Name:        req.Name,
		Username:    req.Username,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		Password:    req.Password,
		ClientIP:    c.RealIP(),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRateLimited):
			metrics.RegistrationsTotal.WithLabelValues("blocked").Inc()
		default:
			metrics.RegistrationsTotal.WithLabelValues("rejected").Inc()
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, authResponse{User: user})
}

// Login authenticates by username or phone number and returns a JWT.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.accounts.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("not_found").Inc()
		}
		return err
	}
	// Password mismatch surfaces as a nil user, not an error, so the
	// response cannot reveal whether the account exists.
	if user == nil {
		metrics.LoginsTotal.WithLabelValues("mismatch").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}
