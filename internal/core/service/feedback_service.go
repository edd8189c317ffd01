package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eventhub/storefront/internal/core/domain"
	"github.com/eventhub/storefront/internal/core/ports"
)

type FeedbackService struct {
	repo    ports.FeedbackRepository
	catalog ports.Catalog
	logger  zerolog.Logger
	now     func() time.Time
}

func NewFeedbackService(repo ports.FeedbackRepository, catalog ports.Catalog, logger zerolog.Logger) *FeedbackService {
	return &FeedbackService{
		repo:    repo,
		catalog: catalog,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// SubmitFeedback stores one rating per identity and listing and returns the
// listing's refreshed feedback.
func (s *FeedbackService) SubmitFeedback(ctx context.Context, in ports.SubmitFeedbackInput) (*ports.ListingFeedback, error) {
	if in.Identity.ID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if err := domain.ValidateRating(in.Rating); err != nil {
		return nil, err
	}
	review := strings.TrimSpace(in.Review)
	if err := domain.ValidateReview(review); err != nil {
		return nil, err
	}
	listing, err := s.catalog.Get(in.ListingID)
	if err != nil {
		return nil, err
	}

	_, err = s.repo.FindByIdentityAndListing(ctx, in.Identity.ID, in.ListingID)
	switch {
	case err == nil:
		return nil, domain.ErrDuplicateFeedback
	case !errors.Is(err, domain.ErrFeedbackNotFound):
		s.logger.Error().Err(err).Str("user_id", in.Identity.ID).Int("listing_id", in.ListingID).Msg("failed to check existing feedback")
		return nil, fmt.Errorf("submit feedback: %w", err)
	}

	f := &domain.Feedback{
		ID:           uuid.NewString(),
		ListingID:    listing.ID,
		ListingTitle: listing.Title,
		IdentityID:   in.Identity.ID,
		UserName:     in.Identity.Name(),
		UserEmail:    in.Identity.Email,
		Rating:       in.Rating,
		Review:       review,
		CreatedAt:    s.now(),
	}
	if err := s.repo.Create(ctx, f); err != nil {
		if errors.Is(err, domain.ErrDuplicateFeedback) {
			return nil, domain.ErrDuplicateFeedback
		}
		s.logger.Error().Err(err).Str("user_id", in.Identity.ID).Int("listing_id", in.ListingID).Msg("failed to store feedback")
		return nil, fmt.Errorf("submit feedback: %w", err)
	}

	s.logger.Info().
		Str("user_id", in.Identity.ID).
		Int("listing_id", in.ListingID).
		Int("rating", in.Rating).
		Msg("feedback submitted")

	return s.ListFeedback(ctx, in.ListingID)
}

// ListFeedback returns the listing's feedback, newest first, with its
// average rating.
func (s *FeedbackService) ListFeedback(ctx context.Context, listingID int) (*ports.ListingFeedback, error) {
	feedbacks, err := s.repo.ListByListing(ctx, listingID)
	if err != nil {
		s.logger.Error().Err(err).Int("listing_id", listingID).Msg("failed to list feedback")
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	if feedbacks == nil {
		feedbacks = []domain.Feedback{}
	}
	return &ports.ListingFeedback{
		ListingID:     listingID,
		Feedbacks:     feedbacks,
		AverageRating: domain.AverageRating(feedbacks),
		Count:         len(feedbacks),
	}, nil
}

// ListAllFeedback backs the admin console. Stats cover all feedback, not
// just the filtered rows.
func (s *FeedbackService) ListAllFeedback(ctx context.Context, filter ports.FeedbackFilter) (*ports.FeedbackConsole, error) {
	if filter.Rating != 0 {
		if err := domain.ValidateRating(filter.Rating); err != nil {
			return nil, err
		}
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list all feedback")
		return nil, fmt.Errorf("list all feedback: %w", err)
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	rows := make([]domain.Feedback, 0, len(all))
	for _, f := range all {
		if filter.Rating != 0 && f.Rating != filter.Rating {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(f.ListingTitle), search) &&
			!strings.Contains(strings.ToLower(f.UserName), search) &&
			!strings.Contains(strings.ToLower(f.Review), search) {
			continue
		}
		rows = append(rows, f)
	}

	return &ports.FeedbackConsole{
		Feedbacks: rows,
		Stats:     domain.ComputeFeedbackStats(all),
	}, nil
}

func (s *FeedbackService) DeleteFeedback(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrFeedbackNotFound) {
			return err
		}
		s.logger.Error().Err(err).Str("feedback_id", id).Msg("failed to delete feedback")
		return fmt.Errorf("delete feedback: %w", err)
	}
	s.logger.Info().Str("feedback_id", id).Msg("feedback deleted")
	return nil
}
