package ports

import (
	"context"

	"github.com/eventhub/storefront/internal/core/domain"
)

// FeedbackRepository persists ratings in the feedbacks collection.
type FeedbackRepository interface {
	// Create inserts the feedback. A second record for the same
	// (identity, listing) pair fails with domain.ErrDuplicateFeedback.
	Create(ctx context.Context, f *domain.Feedback) error
	// FindByIdentityAndListing looks up the composite key and returns
	// domain.ErrFeedbackNotFound when absent.
	FindByIdentityAndListing(ctx context.Context, identityID string, listingID int) (*domain.Feedback, error)
	// ListByListing returns the listing's feedback, newest first.
	ListByListing(ctx context.Context, listingID int) ([]domain.Feedback, error)
	// List returns every feedback record, newest first.
	List(ctx context.Context) ([]domain.Feedback, error)
	CountByIdentity(ctx context.Context, identityID string) (int64, error)
	Delete(ctx context.Context, id string) error
}
