package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/eventhub/storefront/internal/api/middleware"
	"github.com/eventhub/storefront/internal/core/domain"
)

// currentIdentity returns the identity the Session middleware signed in. It
// fails fast with ErrUnauthenticated before any service call.
func currentIdentity(c echo.Context) (domain.Identity, error) {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	id := sess.CurrentIdentity()
	if id == nil {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return *id, nil
}

func listingParam(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid listing id")
	}
	return id, nil
}

// bindAndValidate decodes the request body into req and runs the struct
// validator registered on the echo instance.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
