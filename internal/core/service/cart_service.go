package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventhub/storefront/internal/core/domain"
	"github.com/eventhub/storefront/internal/core/ports"
)

// CartService implements the per-identity cart.
type CartService struct {
	repo    ports.CartRepository
	catalog ports.Catalog
	logger  zerolog.Logger
	now     func() time.Time
}

func NewCartService(repo ports.CartRepository, catalog ports.Catalog, logger zerolog.Logger) *CartService {
	return &CartService{
		repo:    repo,
		catalog: catalog,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// ListCart returns the identity's lines in storage order. Without an
// identity the cart is empty.
func (s *CartService) ListCart(ctx context.Context, identityID string) ([]domain.CartLine, error) {
	if identityID == "" {
		return []domain.CartLine{}, nil
	}
	lines, err := s.repo.List(ctx, identityID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", identityID).Msg("failed to list cart")
		return nil, fmt.Errorf("list cart: %w", err)
	}
	return lines, nil
}

// AddToCart snapshots the listing into the cart. Adding a listing that is
// already there replaces the line and refreshes its timestamp.
func (s *CartService) AddToCart(ctx context.Context, identityID string, listingID int) (*domain.CartLine, error) {
	if identityID == "" {
		return nil, domain.ErrUnauthenticated
	}
	listing, err := s.catalog.Get(listingID)
	if err != nil {
		return nil, err
	}

	line := domain.NewCartLine(identityID, listing, s.now())
	if err := s.repo.Upsert(ctx, line); err != nil {
		s.logger.Error().Err(err).Str("user_id", identityID).Int("listing_id", listingID).Msg("failed to add to cart")
		return nil, fmt.Errorf("add to cart: %w", err)
	}

	s.logger.Info().Str("user_id", identityID).Int("listing_id", listingID).Msg("added to cart")
	return &line, nil
}

// RemoveFromCart deletes one line. Removing a missing line succeeds.
func (s *CartService) RemoveFromCart(ctx context.Context, identityID, lineID string) error {
	if identityID == "" {
		return domain.ErrUnauthenticated
	}
	if err := s.repo.Delete(ctx, identityID, lineID); err != nil {
		s.logger.Error().Err(err).Str("user_id", identityID).Str("line_id", lineID).Msg("failed to remove from cart")
		return fmt.Errorf("remove from cart: %w", err)
	}
	return nil
}
