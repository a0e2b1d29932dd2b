package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/sharemyrevenue/account-service/internal/core/domain"
)

func TestRecoveryHandler_RequestVerification(t *testing.T) {
	var gotEmail, gotPath string
	accounts := &stubAccountService{
		verifyFn: func(ctx context.Context, email, validationPath string) error {
			gotEmail, gotPath = email, validationPath
			return nil
		},
	}
	h := NewRecoveryHandler(accounts, &stubTokenService{})

	body := `{"email":"alice@example.com","validation_path":"/auth/verify"}`
	c, rec := newTestContext(t, http.MethodPost, "/auth/verify/request", body)

	if err := h.RequestVerification(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if gotEmail != "alice@example.com" || gotPath != "/auth/verify" {
		t.Fatalf("unexpected args: %q %q", gotEmail, gotPath)
	}
}

func TestRecoveryHandler_RequestVerification_DeliveryFailure(t *testing.T) {
	accounts := &stubAccountService{
		verifyFn: func(ctx context.Context, email, validationPath string) error {
			return domain.ErrDeliveryFailed
		},
	}
	h := NewRecoveryHandler(accounts, &stubTokenService{})

	c, _ := newTestContext(t, http.MethodPost, "/auth/verify/request", `{"email":"alice@example.com"}`)

	if err := h.RequestVerification(c); !errors.Is(err, domain.ErrDeliveryFailed) {
		t.Fatalf("expected ErrDeliveryFailed, got %v", err)
	}
}

func TestRecoveryHandler_RequestVerification_BadEmail(t *testing.T) {
	accounts := &stubAccountService{
		verifyFn: func(ctx context.Context, email, validationPath string) error {
			t.Fatal("service should not be called")
			return nil
		},
	}
	h := NewRecoveryHandler(accounts, &stubTokenService{})

	c, _ := newTestContext(t, http.MethodPost, "/auth/verify/request", `{"email":"not-an-email"}`)

	err := h.RequestVerification(c)
	if code := httpStatus(t, err); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestRecoveryHandler_CheckToken(t *testing.T) {
	tokens := &stubTokenService{
		isValidFn: func(ctx context.Context, token string) (bool, error) {
			return token == "good", nil
		},
	}
	h := NewRecoveryHandler(&stubAccountService{}, tokens)

	for _, tc := range []struct {
		token string
		want  bool
	}{
		{"good", true},
		{"stale", false},
		{"", false},
	} {
		c, rec := newTestContext(t, http.MethodGet, "/auth/verify?token="+tc.token, "")

		if err := h.CheckToken(c); err != nil {
			t.Fatalf("token %q: handler error: %v", tc.token, err)
		}
		var resp map[string]bool
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("token %q: invalid json: %v", tc.token, err)
		}
		if resp["valid"] != tc.want {
			t.Errorf("token %q: valid = %v, want %v", tc.token, resp["valid"], tc.want)
		}
	}
}

func TestRecoveryHandler_ForgotPassword(t *testing.T) {
	var gotUsername string
	accounts := &stubAccountService{
		forgotFn: func(ctx context.Context, username string) error {
			gotUsername = username
			return nil
		},
	}
	h := NewRecoveryHandler(accounts, &stubTokenService{})

	c, rec := newTestContext(t, http.MethodPost, "/auth/password/forgot", `{"username":"alice"}`)

	if err := h.ForgotPassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if gotUsername != "alice" {
		t.Fatalf("unexpected username: %q", gotUsername)
	}
}

func TestRecoveryHandler_ForgotPassword_DailyLimit(t *testing.T) {
	accounts := &stubAccountService{
		forgotFn: func(ctx context.Context, username string) error {
			return domain.ErrRateLimited
		},
	}
	h := NewRecoveryHandler(accounts, &stubTokenService{})

	c, _ := newTestContext(t, http.MethodPost, "/auth/password/forgot", `{"username":"alice"}`)

	if err := h.ForgotPassword(c); !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestRecoveryHandler_ResetPassword(t *testing.T) {
	accounts := &stubAccountService{
		resetFn: func(ctx context.Context, username, token, newPassword string) (*domain.User, error) {
			if username != "alice" || token != "otp123" || newPassword != "newpass1" {
				t.Fatalf("unexpected args: %s %s %s", username, token, newPassword)
			}
			return &domain.User{ID: "user_1", Username: "alice"}, nil
		},
	}
	h := NewRecoveryHandler(accounts, &stubTokenService{})

	body := `{"username":"alice","token":"otp123","new_password":"newpass1"}`
	c, rec := newTestContext(t, http.MethodPost, "/auth/password/reset", body)

	if err := h.ResetPassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRecoveryHandler_ResetPassword_WrongAccount(t *testing.T) {
	accounts := &stubAccountService{
		resetFn: func(ctx context.Context, username, token, newPassword string) (*domain.User, error) {
			return nil, domain.ErrForbidden
		},
	}
	h := NewRecoveryHandler(accounts, &stubTokenService{})

	body := `{"username":"mallory","token":"otp123","new_password":"newpass1"}`
	c, _ := newTestContext(t, http.MethodPost, "/auth/password/reset", body)

	if err := h.ResetPassword(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRecoveryHandler_DeleteToken(t *testing.T) {
	var gotID string
	tokens := &stubTokenService{
		deleteFn: func(ctx context.Context, id string) error {
			gotID = id
			return nil
		},
	}
	h := NewRecoveryHandler(&stubAccountService{}, tokens)

	c, rec := newTestContext(t, http.MethodDelete, "/tokens/tok_9", "")
	c.SetParamNames("id")
	c.SetParamValues("tok_9")

	if err := h.DeleteToken(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if gotID != "tok_9" {
		t.Fatalf("unexpected id: %q", gotID)
	}
}
