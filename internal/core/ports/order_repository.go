package ports

import (
	"context"

	"github.com/eventhub/storefront/internal/core/domain"
)

// OrderRepository persists orders in per-identity partitions.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	// ListByIdentity returns the identity's orders, newest first.
	ListByIdentity(ctx context.Context, identityID string) ([]domain.Order, error)
	// UpdateStatus overwrites the status field without checking the current value.
	UpdateStatus(ctx context.Context, identityID, orderID string, status domain.OrderStatus) error
}

// OrderEventPublisher announces order lifecycle changes to downstream consumers.
type OrderEventPublisher interface {
	OrderPlaced(ctx context.Context, order domain.Order) error
	OrderStatusUpdated(ctx context.Context, identityID, orderID string, status domain.OrderStatus) error
}
