package ports

import (
	"context"

	"github.com/eventhub/storefront/internal/core/domain"
)

type ContactRepository interface {
	Create(ctx context.Context, m *domain.ContactMessage) error
	// List returns messages ordered by timestamp, newest first.
	List(ctx context.Context) ([]domain.ContactMessage, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
