package domain

import "errors"

// Authentication errors. These carry user-facing messages and never end a session.
var (
	ErrUnauthenticated       = errors.New("sign in required")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrEmailInUse            = errors.New("email already in use")
	ErrWeakPassword          = errors.New("password must be at least 6 characters")
	ErrFederatedSignInFailed = errors.New("federated sign-in failed")
	ErrInvalidResetToken     = errors.New("invalid or expired password reset token")
	ErrInvalidAccessKey      = errors.New("invalid admin access key")
	ErrDisplayNameRequired   = errors.New("display name is required")
	ErrAdminRequired         = errors.New("access denied: admin privileges required")
)

// Validation errors, raised before any storage call.
var (
	ErrRatingRequired    = errors.New("please select a rating")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrReviewTooLong     = errors.New("review must be at most 500 characters")
	ErrDuplicateFeedback = errors.New("feedback already submitted for this listing")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrContactIncomplete = errors.New("email and message are required")
	ErrInvalidRecord     = errors.New("invalid record")
)

// Workflow and lookup errors.
var (
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	ErrCartNotCleared     = errors.New("order placed but cart could not be fully cleared")
	ErrOrderNotFound      = errors.New("order not found")
	ErrListingNotFound    = errors.New("listing not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrContactNotFound    = errors.New("contact message not found")
	ErrFeedbackNotFound   = errors.New("feedback not found")
)
