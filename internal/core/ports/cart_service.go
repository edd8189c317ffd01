package ports

import (
	"context"
	"time"

	"github.com/eventhub/storefront/internal/core/domain"
)

type CartService interface {
	ListCart(ctx context.Context, identityID string) ([]domain.CartLine, error)
	AddToCart(ctx context.Context, identityID string, listingID int) (*domain.CartLine, error)
	RemoveFromCart(ctx context.Context, identityID, lineID string) error
}

// CheckoutResult describes a committed order. When CartCleared is false the
// order exists but some cart lines survived the clear step.
type CheckoutResult struct {
	Order       domain.Order
	CartCleared bool
	// ConfirmationDelay is how long clients keep the confirmation on screen
	// before dropping their local cart view.
	ConfirmationDelay time.Duration
}

// CheckoutService moves an identity's cart into a new order.
type CheckoutService interface {
	Checkout(ctx context.Context, identityID string) (*CheckoutResult, error)
}
