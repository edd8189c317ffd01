package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eventhub/storefront/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{domain.ErrUnauthenticated, http.StatusUnauthorized, "sign in required"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{domain.ErrInvalidAccessKey, http.StatusForbidden, "invalid admin access key"},
		{domain.ErrEmailInUse, http.StatusConflict, "email already in use"},
		{domain.ErrDuplicateFeedback, http.StatusConflict, "feedback already submitted for this listing"},
		{domain.ErrCheckoutInProgress, http.StatusConflict, "checkout already in progress"},
		{fmt.Errorf("list cart: %w", domain.ErrEmptyCart), http.StatusUnprocessableEntity, "cart is empty"},
		{domain.ErrWeakPassword, http.StatusBadRequest, "password must be at least 6 characters"},
		{domain.ErrListingNotFound, http.StatusNotFound, "listing not found"},
		{echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload"},
		{errors.New("mongo: connection reset"), http.StatusInternalServerError, "internal server error"},
	}

	h := NewHTTPErrorHandler(zerolog.Nop())
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			h(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error != tc.msg {
				t.Fatalf("expected %q, got %q", tc.msg, body.Error)
			}
		})
	}
}
