package ports

import (
	"context"
	"time"

	"github.com/eventhub/storefront/internal/core/domain"
)

// AuthResult is returned by the identity provider after a successful sign-in
// or sign-up.
type AuthResult struct {
	Identity  domain.Identity
	Token     string
	ExpiresAt time.Time
	// Created is true when a federated sign-in created a new account.
	Created bool
}

// AuthStateListener is called on every auth state change of identityID with
// the identity's new state, or with nil after sign-out.
type AuthStateListener func(identityID string, identity *domain.Identity)

// IdentityProvider is the external collaborator that owns accounts and
// credentials. The storefront only consumes this contract.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password, displayName string) (*AuthResult, error)
	SignIn(ctx context.Context, email, password string) (*AuthResult, error)
	SignInFederated(ctx context.Context, idToken string) (*AuthResult, error)
	SendPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, resetToken, newPassword string) error
	SignOut(ctx context.Context, token string) error
	UpdateDisplayName(ctx context.Context, identityID, name string) (*domain.Identity, error)
	// Verify resolves a token issued by SignIn back to its identity.
	Verify(ctx context.Context, token string) (*domain.Identity, error)
	SubscribeAuthState(listener AuthStateListener) (unsubscribe func())
}

// Mailer delivers password reset links.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, resetToken string) error
}
