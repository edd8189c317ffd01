package ports

import (
	"context"

	"github.com/eventhub/storefront/internal/core/domain"
)

// OrderFilter narrows the admin order list. Zero values match everything.
type OrderFilter struct {
	Status domain.OrderStatus
	// Search matches order id, user name, email or item title, case-insensitively.
	Search string
}

// ProfileStats summarizes one identity's activity on the profile page.
type ProfileStats struct {
	TotalOrders     int   `json:"total_orders"`
	CompletedOrders int   `json:"completed_orders"`
	PendingOrders   int   `json:"pending_orders"`
	CancelledOrders int   `json:"cancelled_orders"`
	TotalSpent      int64 `json:"total_spent"`
	ReviewsGiven    int64 `json:"reviews_given"`
}

type OrderService interface {
	ListOrders(ctx context.Context, identityID string) ([]domain.Order, error)
	ListAllOrders(ctx context.Context, filter OrderFilter) ([]domain.OrderView, error)
	UpdateOrderStatus(ctx context.Context, identityID, orderID string, status domain.OrderStatus) error
	ProfileStats(ctx context.Context, identityID string) (*ProfileStats, error)
}
