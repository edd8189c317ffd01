package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/eventhub/storefront/internal/core/domain"
	"github.com/eventhub/storefront/internal/core/ports"
)

type ProfileHandler struct {
	authService  ports.AuthService
	orderService ports.OrderService
}

func NewProfileHandler(authService ports.AuthService, orderService ports.OrderService) *ProfileHandler {
	return &ProfileHandler{authService: authService, orderService: orderService}
}

type profileResponse struct {
	User domain.Identity `json:"user"`
	// Role is empty when the identity has no profile record.
	Role      domain.Role         `json:"role,omitempty"`
	CreatedAt string              `json:"created_at,omitempty"`
	Stats     *ports.ProfileStats `json:"stats"`
}

type displayNameRequest struct {
	DisplayName string `json:"display_name" validate:"required,max=100"`
}

// Get returns the caller's identity, role and activity stats.
//
// @Summary      Current profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  map[string]string
// @Router       /profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var (
		profile *domain.UserProfile
		stats   *ports.ProfileStats
	)
	g, ctx := errgroup.WithContext(c.Request().Context())
	g.Go(func() error {
		p, err := h.authService.Profile(ctx, id.ID)
		if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		s, err := h.orderService.ProfileStats(ctx, id.ID)
		stats = s
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	resp := profileResponse{User: id, Stats: stats}
	if profile != nil {
		resp.Role = profile.Role
		resp.CreatedAt = profile.CreatedAt.UTC().Format("2006-01-02T15:04:05Z")
	}
	return c.JSON(http.StatusOK, resp)
}

// UpdateDisplayName renames the caller.
//
// @Summary      Update display name
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      displayNameRequest  true  "New display name"
// @Success      200   {object}  domain.Identity
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /profile/display-name [patch]
func (h *ProfileHandler) UpdateDisplayName(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req displayNameRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := h.authService.UpdateDisplayName(c.Request().Context(), id.ID, req.DisplayName)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}
