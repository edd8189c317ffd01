package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/eventhub/storefront/internal/api/metrics"
	"github.com/eventhub/storefront/internal/core/domain"
	"github.com/eventhub/storefront/internal/core/ports"
)

// AdminHandler serves the moderation console. Every route is mounted behind
// middleware.RequireAdmin.
// allFilter is the console's "no filter" value for status and rating.
const allFilter = "all"

type AdminHandler struct {
	adminService    ports.AdminService
	orderService    ports.OrderService
	contactService  ports.ContactService
	feedbackService ports.FeedbackService
	logger          zerolog.Logger
}

func NewAdminHandler(
	adminService ports.AdminService,
	orderService ports.OrderService,
	contactService ports.ContactService,
	feedbackService ports.FeedbackService,
	logger zerolog.Logger,
) *AdminHandler {
	return &AdminHandler{
		adminService:    adminService,
		orderService:    orderService,
		contactService:  contactService,
		feedbackService: feedbackService,
		logger:          logger,
	}
}

type usersResponse struct {
	Users []domain.UserProfile `json:"users"`
}

type adminOrdersResponse struct {
	Orders []domain.OrderView `json:"orders"`
	// Stats covers every order, not only the filtered rows.
	Stats domain.OrderStats `json:"stats"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type updateStatusResponse struct {
	OrderID string             `json:"order_id"`
	UserID  string             `json:"user_id"`
	Status  domain.OrderStatus `json:"status"`
}

type contactsResponse struct {
	Contacts []domain.ContactMessage `json:"contacts"`
}

// Dashboard returns the console counters.
//
// @Summary      Admin dashboard
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.DashboardStats
// @Success      303  "Redirect to /admin/sign-in"
// @Router       /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	stats, err := h.adminService.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Users lists every profile.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  usersResponse
// @Success      303  "Redirect to /admin/sign-in"
// @Router       /admin/users [get]
func (h *AdminHandler) Users(c echo.Context) error {
	users, err := h.adminService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	if users == nil {
		users = []domain.UserProfile{}
	}
	return c.JSON(http.StatusOK, usersResponse{Users: users})
}

// DeleteUser removes a profile record. The account itself is kept by the
// identity provider.
//
// @Summary      Delete a user profile
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  string  true  "User id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id := c.Param("id")
	if err := h.adminService.DeleteUser(c.Request().Context(), id); err != nil {
		return err
	}
	metrics.ModerationDeletesTotal.WithLabelValues("user").Inc()
	h.logger.Info().Str("user_id", id).Msg("user profile deleted")
	return c.NoContent(http.StatusNoContent)
}

// Orders lists orders across all users, optionally filtered.
//
// @Summary      List all orders
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "pending, confirmed, completed, cancelled or all"
// @Param        search  query     string  false  "Order id, user name or email"
// @Success      200     {object}  adminOrdersResponse
// @Failure      422     {object}  map[string]string
// @Router       /admin/orders [get]
func (h *AdminHandler) Orders(c echo.Context) error {
	filter := ports.OrderFilter{Search: c.QueryParam("search")}
	if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" && raw != allFilter {
		filter.Status = domain.OrderStatus(raw)
	}

	var (
		all      []domain.OrderView
		filtered []domain.OrderView
	)
	g, ctx := errgroup.WithContext(c.Request().Context())
	g.Go(func() error {
		var err error
		filtered, err = h.orderService.ListAllOrders(ctx, filter)
		return err
	})
	if filter != (ports.OrderFilter{}) {
		g.Go(func() error {
			var err error
			all, err = h.orderService.ListAllOrders(ctx, ports.OrderFilter{})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if all == nil {
		all = filtered
	}
	if filtered == nil {
		filtered = []domain.OrderView{}
	}

	orders := make([]domain.Order, len(all))
	for i, v := range all {
		orders[i] = v.Order
	}
	return c.JSON(http.StatusOK, adminOrdersResponse{
		Orders: filtered,
		Stats:  domain.ComputeOrderStats(orders),
	})
}

// UpdateOrderStatus sets an order's status. Any known status may follow any other.
//
// @Summary      Update order status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user_id   path      string               true  "Order owner"
// @Param        order_id  path      string               true  "Order id"
// @Param        body      body      updateStatusRequest  true  "New status"
// @Success      200       {object}  updateStatusResponse
// @Failure      404       {object}  map[string]string
// @Failure      422       {object}  map[string]string
// @Router       /admin/orders/{user_id}/{order_id}/status [patch]
func (h *AdminHandler) UpdateOrderStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	userID, orderID := c.Param("user_id"), c.Param("order_id")
	status := domain.OrderStatus(req.Status)
	if err := h.orderService.UpdateOrderStatus(c.Request().Context(), userID, orderID, status); err != nil {
		return err
	}
	metrics.OrderStatusUpdatesTotal.WithLabelValues(string(status)).Inc()
	return c.JSON(http.StatusOK, updateStatusResponse{OrderID: orderID, UserID: userID, Status: status})
}

// Contacts lists contact messages, newest first.
//
// @Summary      List contact messages
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Name, email or message text"
// @Success      200     {object}  contactsResponse
// @Router       /admin/contacts [get]
func (h *AdminHandler) Contacts(c echo.Context) error {
	msgs, err := h.contactService.List(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return err
	}
	if msgs == nil {
		msgs = []domain.ContactMessage{}
	}
	return c.JSON(http.StatusOK, contactsResponse{Contacts: msgs})
}

// DeleteContact removes a contact message.
//
// @Summary      Delete a contact message
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  string  true  "Message id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /admin/contacts/{id} [delete]
func (h *AdminHandler) DeleteContact(c echo.Context) error {
	if err := h.contactService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	metrics.ModerationDeletesTotal.WithLabelValues("contact").Inc()
	return c.NoContent(http.StatusNoContent)
}

// Feedbacks lists feedback with rating stats.
//
// @Summary      List feedback
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        rating  query     int     false  "Exact rating, 1 to 5"
// @Param        search  query     string  false  "Listing title, user name or review text"
// @Success      200     {object}  ports.FeedbackConsole
// @Failure      400     {object}  map[string]string
// @Router       /admin/feedbacks [get]
func (h *AdminHandler) Feedbacks(c echo.Context) error {
	filter := ports.FeedbackFilter{Search: c.QueryParam("search")}
	if raw := strings.TrimSpace(c.QueryParam("rating")); raw != "" && raw != allFilter {
		rating, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "rating must be a number")
		}
		filter.Rating = rating
	}

	console, err := h.feedbackService.ListAllFeedback(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, console)
}

// DeleteFeedback removes a feedback record.
//
// @Summary      Delete feedback
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  string  true  "Feedback id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /admin/feedbacks/{id} [delete]
func (h *AdminHandler) DeleteFeedback(c echo.Context) error {
	if err := h.feedbackService.DeleteFeedback(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	metrics.ModerationDeletesTotal.WithLabelValues("feedback").Inc()
	return c.NoContent(http.StatusNoContent)
}
