package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/eventhub/storefront/internal/core/domain"
	"github.com/eventhub/storefront/internal/core/ports"
)

const (
	unknownUserName  = "Unknown User"
	unknownUserEmail = "N/A"
	// maxOrderFanOut bounds concurrent per-identity reads in ListAllOrders.
	maxOrderFanOut = 8
)

type OrderService struct {
	orders    ports.OrderRepository
	profiles  ports.ProfileRepository
	feedbacks ports.FeedbackRepository
	events    ports.OrderEventPublisher
	logger    zerolog.Logger
}

func NewOrderService(
	orders ports.OrderRepository,
	profiles ports.ProfileRepository,
	feedbacks ports.FeedbackRepository,
	events ports.OrderEventPublisher,
	logger zerolog.Logger,
) *OrderService {
	return &OrderService{
		orders:    orders,
		profiles:  profiles,
		feedbacks: feedbacks,
		events:    events,
		logger:    logger,
	}
}

// ListOrders returns the identity's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, identityID string) ([]domain.Order, error) {
	if identityID == "" {
		return nil, domain.ErrUnauthenticated
	}
	orders, err := s.orders.ListByIdentity(ctx, identityID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", identityID).Msg("failed to list orders")
		return nil, fmt.Errorf("list orders: %w", err)
	}
	sortOrdersDesc(orders)
	return orders, nil
}

// ListAllOrders walks every profile, collects its orders and joins the
// owner's name and email. Orders are returned newest first across all users.
func (s *OrderService) ListAllOrders(ctx context.Context, filter ports.OrderFilter) ([]domain.OrderView, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	profiles, err := s.profiles.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list profiles for orders")
		return nil, fmt.Errorf("list all orders: %w", err)
	}

	var (
		mu    sync.Mutex
		views []domain.OrderView
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxOrderFanOut)
	for _, p := range profiles {
		p := p
		g.Go(func() error {
			orders, err := s.orders.ListByIdentity(gctx, p.ID)
			if err != nil {
				return fmt.Errorf("orders of %s: %w", p.ID, err)
			}
			name, email := p.DisplayName, p.Email
			if name == "" {
				name = unknownUserName
			}
			if email == "" {
				email = unknownUserEmail
			}
			mu.Lock()
			for _, o := range orders {
				views = append(views, domain.OrderView{Order: o, UserName: name, UserEmail: email})
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("failed to collect orders")
		return nil, fmt.Errorf("list all orders: %w", err)
	}

	views = filterOrderViews(views, filter)
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})
	return views, nil
}

func filterOrderViews(views []domain.OrderView, filter ports.OrderFilter) []domain.OrderView {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]domain.OrderView, 0, len(views))
	for _, v := range views {
		if filter.Status != "" && v.Status != filter.Status {
			continue
		}
		if search != "" && !orderViewMatches(v, search) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// orderViewMatches reports whether the lowercased search occurs in the order
// id, the buyer's name or email, or any item title.
func orderViewMatches(v domain.OrderView, search string) bool {
	for _, field := range []string{v.ID, v.UserName, v.UserEmail} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	for _, item := range v.Items {
		if strings.Contains(strings.ToLower(item.Title), search) {
			return true
		}
	}
	return false
}

// UpdateOrderStatus overwrites the status. Any known status may replace any
// other; there is no transition order.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, identityID, orderID string, status domain.OrderStatus) error {
	if !status.Valid() {
		return domain.ErrInvalidStatus
	}
	if identityID == "" || orderID == "" {
		return domain.ErrOrderNotFound
	}

	if err := s.orders.UpdateStatus(ctx, identityID, orderID, status); err != nil {
		s.logger.Error().Err(err).
			Str("user_id", identityID).
			Str("order_id", orderID).
			Str("status", string(status)).
			Msg("failed to update order status")
		return fmt.Errorf("update order status: %w", err)
	}

	s.logger.Info().
		Str("user_id", identityID).
		Str("order_id", orderID).
		Str("status", string(status)).
		Msg("order status updated")

	if err := s.events.OrderStatusUpdated(ctx, identityID, orderID, status); err != nil {
		s.logger.Warn().Err(err).Str("order_id", orderID).Msg("failed to publish order status event")
	}
	return nil
}

// ProfileStats summarizes the identity's orders and reviews. TotalSpent
// counts every order regardless of status.
func (s *OrderService) ProfileStats(ctx context.Context, identityID string) (*ports.ProfileStats, error) {
	orders, err := s.ListOrders(ctx, identityID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.feedbacks.CountByIdentity(ctx, identityID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", identityID).Msg("failed to count reviews")
		return nil, fmt.Errorf("profile stats: %w", err)
	}

	stats := &ports.ProfileStats{TotalOrders: len(orders), ReviewsGiven: reviews}
	for _, o := range orders {
		stats.TotalSpent += o.TotalCost
		switch o.Status {
		case domain.StatusCompleted:
			stats.CompletedOrders++
		case domain.StatusPending:
			stats.PendingOrders++
		case domain.StatusCancelled:
			stats.CancelledOrders++
		}
	}
	return stats, nil
}

func sortOrdersDesc(orders []domain.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
