package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"

	"github.com/eventhub/storefront/internal/core/domain"
	"github.com/eventhub/storefront/internal/core/ports"
)

var admin = &domain.Identity{ID: "a1", Email: "admin@example.com"}

func orderViews() []domain.OrderView {
	return []domain.OrderView{
		{Order: domain.Order{ID: "o-1", IdentityID: "u1", TotalCost: 2000, Status: domain.StatusPending}, UserName: "Asha"},
		{Order: domain.Order{ID: "o-2", IdentityID: "u2", TotalCost: 1500, Status: domain.StatusCompleted}, UserName: "Ravi"},
		{Order: domain.Order{ID: "o-3", IdentityID: "u2", TotalCost: 900, Status: domain.StatusCancelled}, UserName: "Ravi"},
	}
}

func TestAdminHandler_Orders_StatsCoverAllOrders(t *testing.T) {
	orders := &stubOrderService{views: orderViews()}
	handler := NewAdminHandler(nil, orders, nil, nil, zerolog.Nop())

	c, rec := newContext(http.MethodGet, "/admin/orders?status=pending", "", admin)
	if err := handler.Orders(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp adminOrdersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Orders) != 1 || resp.Orders[0].ID != "o-1" {
		t.Fatalf("expected only the pending order, got %+v", resp.Orders)
	}
	if resp.Stats.Total != 3 || resp.Stats.Revenue != 3500 || resp.Stats.Pending != 1 || resp.Stats.Completed != 1 {
		t.Fatalf("unexpected stats: %+v", resp.Stats)
	}
	if len(orders.filters) != 2 {
		t.Fatalf("expected a filtered and an unfiltered read, got %d", len(orders.filters))
	}
}

func TestAdminHandler_Orders_InvalidStatus(t *testing.T) {
	handler := NewAdminHandler(nil, &stubOrderService{views: orderViews()}, nil, nil, zerolog.Nop())

	c, _ := newContext(http.MethodGet, "/admin/orders?status=shipped", "", admin)
	if err := handler.Orders(c); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestAdminHandler_Orders_AllStatusIsUnfiltered(t *testing.T) {
	orders := &stubOrderService{views: orderViews()}
	handler := NewAdminHandler(nil, orders, nil, nil, zerolog.Nop())

	c, rec := newContext(http.MethodGet, "/admin/orders?status=all", "", admin)
	if err := handler.Orders(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp adminOrdersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Orders) != 3 {
		t.Fatalf("expected every order, got %d", len(resp.Orders))
	}
	if len(orders.filters) != 1 || orders.filters[0] != (ports.OrderFilter{}) {
		t.Fatalf("expected one unfiltered read, got %+v", orders.filters)
	}
}

func TestAdminHandler_UpdateOrderStatus(t *testing.T) {
	orders := &stubOrderService{}
	handler := NewAdminHandler(nil, orders, nil, nil, zerolog.Nop())

	c, rec := newContext(http.MethodPatch, "/admin/orders/u1/o-1/status", `{"status":"completed"}`, admin)
	c.SetParamNames("user_id", "order_id")
	c.SetParamValues("u1", "o-1")
	if err := handler.UpdateOrderStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp updateStatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Status != domain.StatusCompleted || resp.OrderID != "o-1" || resp.UserID != "u1" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	c, _ = newContext(http.MethodPatch, "/admin/orders/u1/o-1/status", `{"status":"shipped"}`, admin)
	c.SetParamNames("user_id", "order_id")
	c.SetParamValues("u1", "o-1")
	if err := handler.UpdateOrderStatus(c); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if len(orders.updated) != 1 {
		t.Fatalf("invalid status must not be written")
	}
}

func TestAdminHandler_Feedbacks_RatingFilter(t *testing.T) {
	feedback := &stubFeedbackService{}
	handler := NewAdminHandler(nil, nil, nil, feedback, zerolog.Nop())

	c, rec := newContext(http.MethodGet, "/admin/feedbacks?rating=4&search=party", "", admin)
	if err := handler.Feedbacks(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if feedback.filter != (ports.FeedbackFilter{Rating: 4, Search: "party"}) {
		t.Fatalf("unexpected filter: %+v", feedback.filter)
	}

	c, _ = newContext(http.MethodGet, "/admin/feedbacks?rating=high", "", admin)
	if err := handler.Feedbacks(c); err == nil {
		t.Fatalf("expected an error for a non-numeric rating")
	}
}
