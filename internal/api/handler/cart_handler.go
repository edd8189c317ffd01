package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eventhub/storefront/internal/api/metrics"
	"github.com/eventhub/storefront/internal/core/domain"
	"github.com/eventhub/storefront/internal/core/ports"
)

type CartHandler struct {
	cartService     ports.CartService
	checkoutService ports.CheckoutService
	logger          zerolog.Logger
}

func NewCartHandler(cartService ports.CartService, checkoutService ports.CheckoutService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{cartService: cartService, checkoutService: checkoutService, logger: logger}
}

type cartResponse struct {
	Items []domain.CartLine `json:"items"`
	Count int               `json:"count"`
	Total int64             `json:"total"`
}

type addToCartRequest struct {
	ListingID int `json:"listing_id" validate:"required,gt=0"`
}

type checkoutResponse struct {
	Order       domain.Order `json:"order"`
	CartCleared bool         `json:"cart_cleared"`
	// ConfirmationDelayMS is how long the confirmation stays on screen.
	ConfirmationDelayMS int64  `json:"confirmation_delay_ms"`
	Message             string `json:"message"`
}

// List returns the caller's cart and its total.
//
// @Summary      Get cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  cartResponse
// @Failure      401  {object}  map[string]string
// @Router       /cart [get]
func (h *CartHandler) List(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	lines, err := h.cartService.ListCart(c.Request().Context(), id.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cartResponse{
		Items: lines,
		Count: len(lines),
		Total: domain.ComputeTotal(lines),
	})
}

// Add puts a listing in the cart. Adding the same listing twice keeps one line.
//
// @Summary      Add to cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addToCartRequest  true  "Listing to add"
// @Success      201   {object}  domain.CartLine
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /cart [post]
func (h *CartHandler) Add(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req addToCartRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	line, err := h.cartService.AddToCart(c.Request().Context(), id.ID, req.ListingID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, line)
}

// Remove deletes one cart line. Removing a missing line succeeds.
//
// @Summary      Remove from cart
// @Tags         cart
// @Security     BearerAuth
// @Param        line_id  path  string  true  "Cart line id"
// @Success      204
// @Failure      401  {object}  map[string]string
// @Router       /cart/{line_id} [delete]
func (h *CartHandler) Remove(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	if err := h.cartService.RemoveFromCart(c.Request().Context(), id.ID, c.Param("line_id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Checkout turns the cart into a pending order. When the order was stored
// but some cart lines could not be removed, the response is still 201 with
// cart_cleared set to false.
//
// @Summary      Check out
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  checkoutResponse
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /cart/checkout [post]
func (h *CartHandler) Checkout(c echo.Context) error {
	start := time.Now()
	id, err := currentIdentity(c)
	if err != nil {
		observeCheckout(metrics.ResultUnauthenticated, start)
		return err
	}

	res, err := h.checkoutService.Checkout(c.Request().Context(), id.ID)
	partial := err != nil && res != nil && errors.Is(err, domain.ErrCartNotCleared)
	if err != nil && !partial {
		observeCheckout(checkoutResult(err), start)
		return err
	}

	metrics.OrderRevenueTotal.Add(float64(res.Order.TotalCost))
	resp := checkoutResponse{
		Order:               res.Order,
		CartCleared:         res.CartCleared,
		ConfirmationDelayMS: res.ConfirmationDelay.Milliseconds(),
		Message:             "Order placed successfully!",
	}
	if partial {
		metrics.CartClearFailuresTotal.Inc()
		observeCheckout(metrics.ResultPartialClear, start)
		h.logger.Warn().
			Err(err).
			Str("user_id", id.ID).
			Str("order_id", res.Order.ID).
			Msg("order placed with items left in cart")
		resp.Message = "Order placed, but some items could not be removed from your cart."
	} else {
		observeCheckout(metrics.ResultSuccess, start)
	}
	return c.JSON(http.StatusCreated, resp)
}

func checkoutResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		return metrics.ResultEmptyCart
	case errors.Is(err, domain.ErrCheckoutInProgress):
		return metrics.ResultInProgress
	case errors.Is(err, domain.ErrUnauthenticated):
		return metrics.ResultUnauthenticated
	default:
		return metrics.ResultError
	}
}

func observeCheckout(result string, start time.Time) {
	metrics.CheckoutsTotal.WithLabelValues(result).Inc()
	metrics.CheckoutDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
}
