package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eventhub/storefront/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

var errorStatuses = []struct {
	err  error
	code int
}{
	{domain.ErrUnauthenticated, http.StatusUnauthorized},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	{domain.ErrFederatedSignInFailed, http.StatusUnauthorized},

	{domain.ErrInvalidAccessKey, http.StatusForbidden},
	{domain.ErrAdminRequired, http.StatusForbidden},

	{domain.ErrOrderNotFound, http.StatusNotFound},
	{domain.ErrListingNotFound, http.StatusNotFound},
	{domain.ErrUserNotFound, http.StatusNotFound},
	{domain.ErrContactNotFound, http.StatusNotFound},
	{domain.ErrFeedbackNotFound, http.StatusNotFound},

	{domain.ErrEmailInUse, http.StatusConflict},
	{domain.ErrDuplicateFeedback, http.StatusConflict},
	{domain.ErrCheckoutInProgress, http.StatusConflict},

	{domain.ErrEmptyCart, http.StatusUnprocessableEntity},
	{domain.ErrInvalidStatus, http.StatusUnprocessableEntity},

	{domain.ErrWeakPassword, http.StatusBadRequest},
	{domain.ErrRatingRequired, http.StatusBadRequest},
	{domain.ErrInvalidRating, http.StatusBadRequest},
	{domain.ErrReviewTooLong, http.StatusBadRequest},
	{domain.ErrInvalidResetToken, http.StatusBadRequest},
	{domain.ErrDisplayNameRequired, http.StatusBadRequest},
	{domain.ErrContactIncomplete, http.StatusBadRequest},
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes. The sentinel's own
	// message is rendered so wrapping context never reaches the client.
	for _, m := range errorStatuses {
		if errors.Is(err, m.err) {
			return m.code, m.err.Error()
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
