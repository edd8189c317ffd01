package ports

import (
	"context"
	"time"

	"github.com/eventhub/storefront/internal/core/domain"
)

// SignUpInput carries the fields collected by the sign-up forms.
type SignUpInput struct {
	DisplayName string
	Email       string
	Password    string
}

// SignInResult is returned by every sign-in and sign-up path.
type SignInResult struct {
	Identity  domain.Identity
	Token     string
	ExpiresAt time.Time
	// IsAdmin is resolved from the stored profile, not from the token.
	IsAdmin bool
}

type AuthService interface {
	SignUp(ctx context.Context, in SignUpInput) (*SignInResult, error)
	AdminSignUp(ctx context.Context, accessKey string, in SignUpInput) (*SignInResult, error)
	AdminFederatedSignUp(ctx context.Context, accessKey, idToken string) (*SignInResult, error)
	SignIn(ctx context.Context, email, password string) (*SignInResult, error)
	SignInFederated(ctx context.Context, idToken string) (*SignInResult, error)
	SignOut(ctx context.Context, token string) error
	SendPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, resetToken, newPassword string) error
	UpdateDisplayName(ctx context.Context, identityID, name string) (*domain.Identity, error)
	Profile(ctx context.Context, identityID string) (*domain.UserProfile, error)
}
