package ports

import (
	"context"

	"github.com/eventhub/storefront/internal/core/domain"
)

// ProfileReader is the read side of the profile store, used to resolve roles.
type ProfileReader interface {
	Get(ctx context.Context, identityID string) (*domain.UserProfile, error)
}

// ProfileRepository persists user profiles in the users collection.
type ProfileRepository interface {
	ProfileReader
	// Upsert writes the profile keyed by its id.
	Upsert(ctx context.Context, profile *domain.UserProfile) error
	// CreateIfMissing writes the profile only when no record exists for its id
	// and reports whether it did.
	CreateIfMissing(ctx context.Context, profile *domain.UserProfile) (bool, error)
	UpdateDisplayName(ctx context.Context, identityID, name string) error
	List(ctx context.Context) ([]domain.UserProfile, error)
	Delete(ctx context.Context, identityID string) error
	Count(ctx context.Context) (int64, error)
}
