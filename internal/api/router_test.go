package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/eventhub/storefront/internal/core/domain"
	"github.com/eventhub/storefront/internal/core/ports"
)

type stubProvider struct {
	ports.IdentityProvider
	tokens map[string]domain.Identity
}

func (p *stubProvider) Verify(_ context.Context, token string) (*domain.Identity, error) {
	id, ok := p.tokens[token]
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return &id, nil
}

func (p *stubProvider) SubscribeAuthState(ports.AuthStateListener) func() { return func() {} }

type stubProfiles map[string]domain.Role

func (s stubProfiles) Get(_ context.Context, id string) (*domain.UserProfile, error) {
	role, ok := s[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &domain.UserProfile{ID: id, Role: role}, nil
}

type countingAdmin struct {
	ports.AdminService
	calls int
}

func (a *countingAdmin) Dashboard(context.Context) (*ports.DashboardStats, error) {
	a.calls++
	return &ports.DashboardStats{TotalUsers: 2}, nil
}

func (a *countingAdmin) ListUsers(context.Context) ([]domain.UserProfile, error) {
	a.calls++
	return nil, nil
}

type stubCheckout struct{ calls int }

func (s *stubCheckout) Checkout(context.Context, string) (*ports.CheckoutResult, error) {
	s.calls++
	return nil, domain.ErrEmptyCart
}

func newTestRouter(admin ports.AdminService, checkout ports.CheckoutService) http.Handler {
	reg := prometheus.NewRegistry()
	return NewRouter(Dependencies{
		Provider: &stubProvider{tokens: map[string]domain.Identity{
			"admin-token": {ID: "a1"},
			"user-token":  {ID: "u1"},
		}},
		Profiles:   stubProfiles{"a1": domain.RoleAdmin, "u1": domain.RoleUser},
		Admin:      admin,
		Checkout:   checkout,
		Registerer: reg,
		Gatherer:   reg,
		Logger:     zerolog.Nop(),
	})
}

func TestRouter_AdminGate(t *testing.T) {
	cases := []struct {
		name     string
		token    string
		wantCode int
		calls    int
	}{
		{"anonymous", "", http.StatusSeeOther, 0},
		{"plain user", "user-token", http.StatusSeeOther, 0},
		{"forged token", "forged", http.StatusSeeOther, 0},
		{"admin", "admin-token", http.StatusOK, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			admin := &countingAdmin{}
			router := newTestRouter(admin, &stubCheckout{})

			req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			if tc.wantCode == http.StatusSeeOther && rec.Header().Get("Location") != "/admin/sign-in" {
				t.Fatalf("unexpected location %q", rec.Header().Get("Location"))
			}
			if admin.calls != tc.calls {
				t.Fatalf("expected %d admin service calls, got %d", tc.calls, admin.calls)
			}
		})
	}
}

func TestRouter_AdminSignInIsNotGated(t *testing.T) {
	router := newTestRouter(&countingAdmin{}, &stubCheckout{})

	req := httptest.NewRequest(http.MethodPost, "/admin/sign-in", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected validation failure (400), got %d", rec.Code)
	}
}

func TestRouter_CheckoutRequiresSignIn(t *testing.T) {
	checkout := &stubCheckout{}
	router := newTestRouter(&countingAdmin{}, checkout)

	req := httptest.NewRequest(http.MethodPost, "/cart/checkout", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if checkout.calls != 0 {
		t.Fatalf("checkout must not run for anonymous callers")
	}

	req = httptest.NewRequest(http.MethodPost, "/cart/checkout", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity || checkout.calls != 1 {
		t.Fatalf("expected 422 from an empty cart, got %d (%d calls)", rec.Code, checkout.calls)
	}
}

func TestRouter_Liveness(t *testing.T) {
	router := newTestRouter(&countingAdmin{}, &stubCheckout{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
