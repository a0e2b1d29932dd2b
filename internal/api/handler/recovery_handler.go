package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sharemyrevenue/account-service/internal/api/metrics"
	"github.com/sharemyrevenue/account-service/internal/core/domain"
	"github.com/sharemyrevenue/account-service/internal/core/ports"
)

// RecoveryHandler serves the validation-token flows: email verification,
// password reset by OTP, and token administration.
type RecoveryHandler struct {
	accounts ports.AccountService
	tokens   ports.TokenService
}

func NewRecoveryHandler(accounts ports.AccountService, tokens ports.TokenService) *RecoveryHandler {
	return &RecoveryHandler{accounts: accounts, tokens: tokens}
}

type verifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	// ValidationPath, when set, turns the mail into a clickable link instead
	// of a raw token.
	ValidationPath string `json:"validation_path"`
}

type forgotPasswordRequest struct {
	Username string `json:"username" validate:"required"`
}

type resetPasswordRequest struct {
	Username    string `json:"username" validate:"required"`
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type tokenValidityResponse struct {
	Valid bool `json:"valid"`
}

// RequestVerification issues a verification token and emails it.
//
// @Summary      Request an email verification token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyRequest  true  "Account email"
// @Success      202   {object}  messageResponse
// @Failure      404   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /auth/verify/request [post]
func (h *RecoveryHandler) RequestVerification(c echo.Context) error {
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.accounts.RequireEmailVerification(c.Request().Context(), req.Email, req.ValidationPath); err != nil {
		if errors.Is(err, domain.ErrDeliveryFailed) {
			// The token is already persisted; only the mail was lost.
			metrics.TokensIssuedTotal.WithLabelValues("verification").Inc()
			metrics.DeliveriesFailedTotal.WithLabelValues("email").Inc()
		}
		return err
	}

	metrics.TokensIssuedTotal.WithLabelValues("verification").Inc()
	return c.JSON(http.StatusAccepted, messageResponse{Message: "verification email sent"})
}

// CheckToken reports whether a token string resolves to a valid record.
//
// @Summary      Check token validity
// @Tags         auth
// @Produce      json
// @Param        token  query     string  true  "Token string"
// @Success      200    {object}  tokenValidityResponse
// @Router       /auth/verify [get]
func (h *RecoveryHandler) CheckToken(c echo.Context) error {
	valid, err := h.tokens.IsValid(c.Request().Context(), c.QueryParam("token"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokenValidityResponse{Valid: valid})
}

// ForgotPassword issues a reset OTP and sends it by SMS.
//
// @Summary      Request a password reset OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Login handle"
// @Success      202   {object}  messageResponse
// @Failure      404   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /auth/password/forgot [post]
func (h *RecoveryHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.accounts.RequestPasswordReset(c.Request().Context(), req.Username); err != nil {
		if errors.Is(err, domain.ErrDeliveryFailed) {
			metrics.TokensIssuedTotal.WithLabelValues("password_reset").Inc()
			metrics.DeliveriesFailedTotal.WithLabelValues("sms").Inc()
		}
		return err
	}

	metrics.TokensIssuedTotal.WithLabelValues("password_reset").Inc()
	return c.JSON(http.StatusAccepted, messageResponse{Message: "password reset code sent"})
}

// ResetPassword replaces the password using a previously issued token. The
// token is consumed atomically with the password change.
//
// @Summary      Reset password with a token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Reset details"
// @Success      200   {object}  authResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /auth/password/reset [post]
func (h *RecoveryHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.accounts.ResetPassword(c.Request().Context(), req.Username, req.Token, req.NewPassword)
	if err != nil {
		return err
	}

	metrics.PasswordResetsTotal.Inc()
	return c.JSON(http.StatusOK, authResponse{User: user})
}

// DeleteToken hard-deletes a token record. Admin only.
//
// @Summary      Delete a validation token
// @Tags         tokens
// @Security     BearerAuth
// @Param        id  path  string  true  "Token record id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Router       /tokens/{id} [delete]
func (h *RecoveryHandler) DeleteToken(c echo.Context) error {
	if err := h.tokens.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
