package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/eventhub/storefront/internal/core/domain"
	"github.com/eventhub/storefront/internal/core/ports"
)

// confirmationDelay is how long clients show the order confirmation before
// clearing their cart view. It has no effect on persistence.
const confirmationDelay = 3 * time.Second

// CheckoutService turns an identity's cart into an order.
//
// The order write and the cart clear are two sequential steps, not one
// transaction. The order is the record that a checkout happened: once it is
// written it is never rolled back, even if clearing the cart fails.
type CheckoutService struct {
	cart   ports.CartRepository
	orders ports.OrderRepository
	guard  ports.CheckoutGuard
	events ports.OrderEventPublisher
	logger zerolog.Logger
	now    func() time.Time
	newID  func() string
}

func NewCheckoutService(
	cart ports.CartRepository,
	orders ports.OrderRepository,
	guard ports.CheckoutGuard,
	events ports.OrderEventPublisher,
	logger zerolog.Logger,
) *CheckoutService {
	return &CheckoutService{
		cart:   cart,
		orders: orders,
		guard:  guard,
		events: events,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

// Checkout snapshots the cart, writes one pending order holding a copy of
// the snapshot and its total, then deletes every line still stored for the
// identity.
//
// If the order write fails nothing else happens and the cart is untouched.
// If the clear fails the committed order is returned together with an error
// wrapping domain.ErrCartNotCleared.
//
// A submitted checkout cannot be cancelled: the workflow runs to completion
// even if ctx is cancelled, so a client going away never leaves an order
// next to an uncleared cart. Repositories bound each call with their own
// timeouts.
func (s *CheckoutService) Checkout(ctx context.Context, identityID string) (*ports.CheckoutResult, error) {
	if identityID == "" {
		return nil, domain.ErrUnauthenticated
	}
	ctx = context.WithoutCancel(ctx)

	// 1. Refuse a second submission while one is in flight.
	token, acquired, err := s.guard.Acquire(ctx, identityID)
	switch {
	case err != nil:
		s.logger.Warn().Err(err).Str("user_id", identityID).Msg("checkout guard unavailable, proceeding")
	case !acquired:
		return nil, domain.ErrCheckoutInProgress
	default:
		defer s.release(ctx, identityID, token)
	}

	// 2. Snapshot the cart as it is now.
	snapshot, err := s.cart.List(ctx, identityID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", identityID).Msg("checkout: failed to read cart")
		return nil, fmt.Errorf("checkout: read cart: %w", err)
	}
	if len(snapshot) == 0 {
		return nil, domain.ErrEmptyCart
	}

	// 3. Commit the order. Nothing is deleted unless this succeeds.
	order := domain.Order{
		ID:         s.newID(),
		IdentityID: identityID,
		Items:      domain.CloneLines(snapshot),
		TotalCost:  domain.ComputeTotal(snapshot),
		Status:     domain.StatusPending,
		CreatedAt:  s.now(),
	}
	if err := s.orders.Create(ctx, &order); err != nil {
		s.logger.Error().Err(err).Str("user_id", identityID).Msg("checkout: failed to create order")
		return nil, fmt.Errorf("checkout: create order: %w", err)
	}

	s.logger.Info().
		Str("user_id", identityID).
		Str("order_id", order.ID).
		Int("items", len(order.Items)).
		Int64("total_cost", order.TotalCost).
		Msg("order created")

	// 4. Clear whatever is stored now, including lines added since the snapshot.
	result := &ports.CheckoutResult{Order: order, CartCleared: true, ConfirmationDelay: confirmationDelay}
	clearErr := s.clearCart(ctx, identityID)
	if clearErr != nil {
		result.CartCleared = false
		s.logger.Error().Err(clearErr).
			Str("user_id", identityID).
			Str("order_id", order.ID).
			Msg("checkout: order committed but cart not fully cleared")
	}

	// 5. Announce the order (non-fatal).
	if err := s.events.OrderPlaced(ctx, order); err != nil {
		s.logger.Warn().Err(err).Str("order_id", order.ID).Msg("failed to publish order placed event")
	}

	if clearErr != nil {
		return result, fmt.Errorf("checkout: %w: %v", domain.ErrCartNotCleared, clearErr)
	}
	return result, nil
}

// clearCart enumerates the stored lines and deletes them concurrently,
// waiting for every deletion before reporting.
func (s *CheckoutService) clearCart(ctx context.Context, identityID string) error {
	lines, err := s.cart.List(ctx, identityID)
	if err != nil {
		return fmt.Errorf("enumerate cart: %w", err)
	}

	var g errgroup.Group
	for _, line := range lines {
		line := line
		g.Go(func() error {
			if err := s.cart.Delete(ctx, identityID, line.ID); err != nil {
				return fmt.Errorf("delete line %s: %w", line.ID, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (s *CheckoutService) release(ctx context.Context, identityID, token string) {
	if err := s.guard.Release(ctx, identityID, token); err != nil {
		s.logger.Warn().Err(err).Str("user_id", identityID).Msg("failed to release checkout guard")
	}
}
