package ports

import (
	"context"

	"github.com/eventhub/storefront/internal/core/domain"
)

// DashboardStats backs the admin dashboard counters.
type DashboardStats struct {
	TotalUsers    int64   `json:"total_users"`
	TotalOrders   int     `json:"total_orders"`
	TotalRevenue  int64   `json:"total_revenue"`
	PendingOrders int     `json:"pending_orders"`
	TotalContacts int64   `json:"total_contacts"`
	TotalReviews  int     `json:"total_reviews"`
	AverageRating float64 `json:"average_rating"`
}

type AdminService interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
	ListUsers(ctx context.Context) ([]domain.UserProfile, error)
	// DeleteUser removes the profile record only; the account stays with the
	// identity provider.
	DeleteUser(ctx context.Context, identityID string) error
}
