package domain

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	MinRating       = 1
	MaxRating       = 5
	MaxReviewLength = 500
)

// Feedback is a star rating with an optional review. At most one exists per
// (identity, listing) pair.
type Feedback struct {
	ID           string    `json:"id" bson:"_id"`
	ListingID    int       `json:"listing_id" bson:"listing_id"`
	ListingTitle string    `json:"listing_title" bson:"listing_title"`
	IdentityID   string    `json:"user_id" bson:"user_id"`
	UserName     string    `json:"user_name" bson:"user_name"`
	UserEmail    string    `json:"user_email" bson:"user_email"`
	Rating       int       `json:"rating" bson:"rating"`
	Review       string    `json:"review,omitempty" bson:"review"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// ValidateRating rejects an unset rating before range checking it.
func ValidateRating(rating int) error {
	if rating == 0 {
		return ErrRatingRequired
	}
	if rating < MinRating || rating > MaxRating {
		return ErrInvalidRating
	}
	return nil
}

// ValidateReview enforces the review length limit in characters.
func ValidateReview(review string) error {
	if utf8.RuneCountInString(review) > MaxReviewLength {
		return ErrReviewTooLong
	}
	return nil
}

// Validate checks the record before it is written or after it is decoded.
func (f *Feedback) Validate() error {
	if f.ID == "" || f.IdentityID == "" {
		return fmt.Errorf("%w: feedback is missing its id or author", ErrInvalidRecord)
	}
	if err := ValidateRating(f.Rating); err != nil {
		return fmt.Errorf("%w: feedback %s: %v", ErrInvalidRecord, f.ID, err)
	}
	if err := ValidateReview(f.Review); err != nil {
		return fmt.Errorf("%w: feedback %s: %v", ErrInvalidRecord, f.ID, err)
	}
	return nil
}

// AverageRating returns the mean rating rounded to one decimal place, or 0
// for an empty slice.
func AverageRating(feedbacks []Feedback) float64 {
	if len(feedbacks) == 0 {
		return 0
	}
	var sum int64
	for _, f := range feedbacks {
		sum += int64(f.Rating)
	}
	avg, _ := decimal.NewFromInt(sum).
		Div(decimal.NewFromInt(int64(len(feedbacks)))).
		Round(1).
		Float64()
	return avg
}

// RatingBucket is one row of the rating distribution.
type RatingBucket struct {
	Rating     int `json:"rating"`
	Count      int `json:"count"`
	Percentage int `json:"percentage"`
}

// FeedbackStats aggregates the admin feedback console.
type FeedbackStats struct {
	Total        int            `json:"total"`
	Average      float64        `json:"average"`
	Distribution []RatingBucket `json:"distribution"`
}

// ComputeFeedbackStats builds the distribution from 5 stars down to 1.
// Percentages are rounded to whole numbers.
func ComputeFeedbackStats(feedbacks []Feedback) FeedbackStats {
	counts := make(map[int]int, MaxRating)
	for _, f := range feedbacks {
		counts[f.Rating]++
	}

	st := FeedbackStats{
		Total:        len(feedbacks),
		Average:      AverageRating(feedbacks),
		Distribution: make([]RatingBucket, 0, MaxRating),
	}
	for r := MaxRating; r >= MinRating; r-- {
		b := RatingBucket{Rating: r, Count: counts[r]}
		if st.Total > 0 {
			b.Percentage = int(decimal.NewFromInt(int64(b.Count) * 100).
				Div(decimal.NewFromInt(int64(st.Total))).
				Round(0).
				IntPart())
		}
		st.Distribution = append(st.Distribution, b)
	}
	return st
}
