package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eventhub/storefront/internal/core/domain"
	"github.com/eventhub/storefront/internal/core/ports"
)

func TestAuthHandler_SignUp_Success(t *testing.T) {
	stub := &stubAuthService{
		signUpFn: func(in ports.SignUpInput) (*ports.SignInResult, error) {
			if in.Email != "asha@example.com" || in.DisplayName != "Asha" || in.Password != "secret1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.SignInResult{
				Identity: domain.Identity{ID: "u1", Email: in.Email, DisplayName: in.DisplayName},
				Token:    "tok",
			}, nil
		},
	}
	handler := NewAuthHandler(stub, zerolog.Nop())

	c, rec := newContext(http.MethodPost, "/auth/sign-up",
		`{"display_name":"Asha","email":"asha@example.com","password":"secret1"}`, nil)
	if err := handler.SignUp(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp signInResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "tok" || resp.User.ID != "u1" || resp.IsAdmin || resp.Redirect != homePath {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_SignUp_ValidationFailsBeforeService(t *testing.T) {
	stub := &stubAuthService{
		signUpFn: func(ports.SignUpInput) (*ports.SignInResult, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub, zerolog.Nop())

	c, _ := newContext(http.MethodPost, "/auth/sign-up", `{"email":"not-an-email","password":""}`, nil)
	err := handler.SignUp(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_SignUp_PropagatesDomainError(t *testing.T) {
	stub := &stubAuthService{
		signUpFn: func(ports.SignUpInput) (*ports.SignInResult, error) {
			return nil, domain.ErrEmailInUse
		},
	}
	handler := NewAuthHandler(stub, zerolog.Nop())

	c, _ := newContext(http.MethodPost, "/auth/sign-up", `{"email":"asha@example.com","password":"secret1"}`, nil)
	if err := handler.SignUp(c); !errors.Is(err, domain.ErrEmailInUse) {
		t.Fatalf("expected ErrEmailInUse, got %v", err)
	}
}

func TestAuthHandler_SignIn_AdminRedirect(t *testing.T) {
	stub := &stubAuthService{
		signInFn: func(email, password string) (*ports.SignInResult, error) {
			return &ports.SignInResult{Identity: domain.Identity{ID: "a1", Email: email}, Token: "tok", IsAdmin: true}, nil
		},
	}
	handler := NewAuthHandler(stub, zerolog.Nop())

	c, rec := newContext(http.MethodPost, "/auth/sign-in", `{"email":"admin@example.com","password":"secret1"}`, nil)
	if err := handler.SignIn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp signInResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.IsAdmin || resp.Redirect != dashboardPath {
		t.Fatalf("expected admin redirect, got %+v", resp)
	}
}

func TestAuthHandler_AdminSignIn_RejectsPlainUser(t *testing.T) {
	stub := &stubAuthService{
		signInFn: func(email, password string) (*ports.SignInResult, error) {
			return &ports.SignInResult{Identity: domain.Identity{ID: "u1", Email: email}, Token: "user-token"}, nil
		},
	}
	handler := NewAuthHandler(stub, zerolog.Nop())

	c, rec := newContext(http.MethodPost, "/admin/sign-in", `{"email":"asha@example.com","password":"secret1"}`, nil)
	err := handler.AdminSignIn(c)
	if !errors.Is(err, domain.ErrAdminRequired) {
		t.Fatalf("expected ErrAdminRequired, got %v", err)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("token must not be returned to a non-admin")
	}
	if len(stub.signedOut) != 1 || stub.signedOut[0] != "user-token" {
		t.Fatalf("expected the issued token to be revoked, got %v", stub.signedOut)
	}
}

func TestAuthHandler_SignOut(t *testing.T) {
	stub := &stubAuthService{}
	handler := NewAuthHandler(stub, zerolog.Nop())

	c, rec := newContext(http.MethodPost, "/auth/sign-out", "", &domain.Identity{ID: "u1"})
	if err := handler.SignOut(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(stub.signedOut) != 1 || stub.signedOut[0] != "token-u1" {
		t.Fatalf("unexpected revocations: %v", stub.signedOut)
	}
}

func TestProfileHandler_Get(t *testing.T) {
	auth := &stubAuthService{profile: &domain.UserProfile{ID: "u1", Role: domain.RoleUser}}
	orders := &stubOrderService{stats: &ports.ProfileStats{TotalOrders: 2, TotalSpent: 3500, ReviewsGiven: 1}}
	handler := NewProfileHandler(auth, orders)

	c, rec := newContext(http.MethodGet, "/profile", "", &domain.Identity{ID: "u1", Email: "asha@example.com"})
	if err := handler.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp profileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.User.ID != "u1" || resp.Role != domain.RoleUser || resp.Stats == nil || resp.Stats.TotalSpent != 3500 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestProfileHandler_UpdateDisplayName(t *testing.T) {
	auth := &stubAuthService{}
	handler := NewProfileHandler(auth, &stubOrderService{})

	c, rec := newContext(http.MethodPatch, "/profile/display-name", `{"display_name":"Asha K"}`, &domain.Identity{ID: "u1"})
	if err := handler.UpdateDisplayName(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || auth.renamed != "Asha K" {
		t.Fatalf("expected rename, got %d %q", rec.Code, auth.renamed)
	}
}

func TestProfileHandler_RequiresIdentity(t *testing.T) {
	handler := NewProfileHandler(&stubAuthService{}, &stubOrderService{})

	c, _ := newContext(http.MethodGet, "/profile", "", nil)
	if err := handler.Get(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
