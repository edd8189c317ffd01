package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/eventhub/storefront/internal/core/domain"
	"github.com/eventhub/storefront/internal/core/ports"
)

// AdminService backs the dashboard and user moderation. Order, feedback and
// contact moderation live in their own services.
type AdminService struct {
	profiles  ports.ProfileRepository
	contacts  ports.ContactRepository
	feedbacks ports.FeedbackRepository
	orders    ports.OrderService
	logger    zerolog.Logger
}

func NewAdminService(
	profiles ports.ProfileRepository,
	contacts ports.ContactRepository,
	feedbacks ports.FeedbackRepository,
	orders ports.OrderService,
	logger zerolog.Logger,
) *AdminService {
	return &AdminService{
		profiles:  profiles,
		contacts:  contacts,
		feedbacks: feedbacks,
		orders:    orders,
		logger:    logger,
	}
}

// Dashboard gathers the counters concurrently. Revenue counts every order,
// cancelled included.
func (s *AdminService) Dashboard(ctx context.Context) (*ports.DashboardStats, error) {
	var (
		stats     ports.DashboardStats
		orders    []domain.OrderView
		feedbacks []domain.Feedback
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalUsers, err = s.profiles.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalContacts, err = s.contacts.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		orders, err = s.orders.ListAllOrders(gctx, ports.OrderFilter{})
		return err
	})
	g.Go(func() (err error) {
		feedbacks, err = s.feedbacks.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("failed to build dashboard")
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	stats.TotalOrders = len(orders)
	for _, o := range orders {
		stats.TotalRevenue += o.TotalCost
		if o.Status == domain.StatusPending {
			stats.PendingOrders++
		}
	}
	stats.TotalReviews = len(feedbacks)
	stats.AverageRating = domain.AverageRating(feedbacks)
	return &stats, nil
}

func (s *AdminService) ListUsers(ctx context.Context) ([]domain.UserProfile, error) {
	users, err := s.profiles.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list users")
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// DeleteUser removes the profile record. Credentials, orders and feedback
// are left in place.
func (s *AdminService) DeleteUser(ctx context.Context, identityID string) error {
	if err := s.profiles.Delete(ctx, identityID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		s.logger.Error().Err(err).Str("user_id", identityID).Msg("failed to delete user")
		return fmt.Errorf("delete user: %w", err)
	}
	s.logger.Info().Str("user_id", identityID).Msg("user profile deleted")
	return nil
}
