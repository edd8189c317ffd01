package ports

import (
	"context"

	"github.com/eventhub/storefront/internal/core/domain"
)

// CartRepository stores each identity's cart as a partition of lines keyed
// by listing id.
type CartRepository interface {
	// List returns the identity's lines in storage order.
	List(ctx context.Context, identityID string) ([]domain.CartLine, error)
	// Upsert writes the line, replacing any line with the same key.
	Upsert(ctx context.Context, line domain.CartLine) error
	// Delete removes one line. Deleting a missing line is not an error.
	Delete(ctx context.Context, identityID, lineID string) error
}

// CheckoutGuard marks a checkout as in flight for an identity so a second
// submission is refused until the first finishes.
type CheckoutGuard interface {
	// Acquire returns a token for the new hold; ok is false while another hold is live.
	Acquire(ctx context.Context, identityID string) (token string, ok bool, err error)
	// Release drops the hold only if token still owns it.
	Release(ctx context.Context, identityID, token string) error
}
