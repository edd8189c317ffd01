package ports

import (
	"context"

	"github.com/eventhub/storefront/internal/core/domain"
)

// SubmitFeedbackInput carries a rating for one listing.
type SubmitFeedbackInput struct {
	Identity  domain.Identity
	ListingID int
	Rating    int
	Review    string
}

// ListingFeedback is the aggregate view shown on a listing page.
type ListingFeedback struct {
	ListingID     int               `json:"listing_id"`
	Feedbacks     []domain.Feedback `json:"feedbacks"`
	AverageRating float64           `json:"average_rating"`
	Count         int               `json:"count"`
}

// FeedbackFilter narrows the admin feedback list. Zero values match everything.
type FeedbackFilter struct {
	Rating int
	// Search matches listing title, user name or review text, case-insensitively.
	Search string
}

// FeedbackConsole is the admin feedback page: filtered rows plus stats over
// all feedback.
type FeedbackConsole struct {
	Feedbacks []domain.Feedback    `json:"feedbacks"`
	Stats     domain.FeedbackStats `json:"stats"`
}

type FeedbackService interface {
	SubmitFeedback(ctx context.Context, in SubmitFeedbackInput) (*ListingFeedback, error)
	ListFeedback(ctx context.Context, listingID int) (*ListingFeedback, error)
	ListAllFeedback(ctx context.Context, filter FeedbackFilter) (*FeedbackConsole, error)
	DeleteFeedback(ctx context.Context, id string) error
}
