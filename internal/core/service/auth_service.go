package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventhub/storefront/internal/core/domain"
	"github.com/eventhub/storefront/internal/core/ports"
)

// AuthService implements registration and sign-in on top of the identity
// provider and mirrors every account into the users collection.
type AuthService struct {
	provider  ports.IdentityProvider
	profiles  ports.ProfileRepository
	accessKey string
	logger    zerolog.Logger
	now       func() time.Time
}

func NewAuthService(provider ports.IdentityProvider, profiles ports.ProfileRepository, adminAccessKey string, logger zerolog.Logger) *AuthService {
	return &AuthService{
		provider:  provider,
		profiles:  profiles,
		accessKey: adminAccessKey,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *AuthService) SignUp(ctx context.Context, in ports.SignUpInput) (*ports.SignInResult, error) {
	return s.signUp(ctx, in, domain.RoleUser)
}

// AdminSignUp checks the access key before anything reaches the provider.
func (s *AuthService) AdminSignUp(ctx context.Context, accessKey string, in ports.SignUpInput) (*ports.SignInResult, error) {
	if !s.validAccessKey(accessKey) {
		return nil, domain.ErrInvalidAccessKey
	}
	return s.signUp(ctx, in, domain.RoleAdmin)
}

// AdminFederatedSignUp signs in through the federated provider and grants
// the admin role, creating or overwriting the profile.
func (s *AuthService) AdminFederatedSignUp(ctx context.Context, accessKey, idToken string) (*ports.SignInResult, error) {
	if !s.validAccessKey(accessKey) {
		return nil, domain.ErrInvalidAccessKey
	}
	res, err := s.provider.SignInFederated(ctx, idToken)
	if err != nil {
		return nil, err
	}

	profile := s.newProfile(res.Identity, domain.RoleAdmin)
	if existing, err := s.profiles.Get(ctx, res.Identity.ID); err == nil {
		profile.CreatedAt = existing.CreatedAt
	}
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		s.logger.Error().Err(err).Str("user_id", res.Identity.ID).Msg("failed to write admin profile")
		return nil, fmt.Errorf("admin sign up: %w", err)
	}

	s.logger.Info().Str("user_id", res.Identity.ID).Msg("admin registered via federated sign-in")
	return toSignInResult(res, true), nil
}

func (s *AuthService) signUp(ctx context.Context, in ports.SignUpInput, role domain.Role) (*ports.SignInResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if len(in.Password) < domain.MinPasswordLength {
		return nil, domain.ErrWeakPassword
	}

	res, err := s.provider.SignUp(ctx, in.Email, in.Password, in.DisplayName)
	if err != nil {
		return nil, err
	}

	if err := s.profiles.Upsert(ctx, s.newProfile(res.Identity, role)); err != nil {
		s.logger.Error().Err(err).Str("user_id", res.Identity.ID).Msg("failed to write profile after sign up")
		return nil, fmt.Errorf("sign up: %w", err)
	}

	s.logger.Info().Str("user_id", res.Identity.ID).Str("role", string(role)).Msg("account registered")
	return toSignInResult(res, role == domain.RoleAdmin), nil
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*ports.SignInResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	res, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return toSignInResult(res, s.isAdmin(ctx, res.Identity.ID)), nil
}

// SignInFederated creates a user profile on first sign-in. Existing profiles
// keep their role.
func (s *AuthService) SignInFederated(ctx context.Context, idToken string) (*ports.SignInResult, error) {
	res, err := s.provider.SignInFederated(ctx, idToken)
	if err != nil {
		return nil, err
	}

	created, err := s.profiles.CreateIfMissing(ctx, s.newProfile(res.Identity, domain.RoleUser))
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", res.Identity.ID).Msg("failed to create profile on federated sign-in")
		return nil, fmt.Errorf("federated sign in: %w", err)
	}
	if created {
		s.logger.Info().Str("user_id", res.Identity.ID).Msg("profile created on federated sign-in")
		return toSignInResult(res, false), nil
	}
	return toSignInResult(res, s.isAdmin(ctx, res.Identity.ID)), nil
}

func (s *AuthService) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrUnauthenticated
	}
	return s.provider.SignOut(ctx, token)
}

func (s *AuthService) SendPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.ErrInvalidCredentials
	}
	return s.provider.SendPasswordReset(ctx, email)
}

func (s *AuthService) ConfirmPasswordReset(ctx context.Context, resetToken, newPassword string) error {
	if resetToken == "" {
		return domain.ErrInvalidResetToken
	}
	if len(newPassword) < domain.MinPasswordLength {
		return domain.ErrWeakPassword
	}
	return s.provider.ConfirmPasswordReset(ctx, resetToken, newPassword)
}

// UpdateDisplayName renames the account and its profile. A missing profile
// is not an error.
func (s *AuthService) UpdateDisplayName(ctx context.Context, identityID, name string) (*domain.Identity, error) {
	if identityID == "" {
		return nil, domain.ErrUnauthenticated
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrDisplayNameRequired
	}

	identity, err := s.provider.UpdateDisplayName(ctx, identityID, name)
	if err != nil {
		return nil, err
	}
	if err := s.profiles.UpdateDisplayName(ctx, identityID, name); err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Error().Err(err).Str("user_id", identityID).Msg("failed to mirror display name")
			return nil, fmt.Errorf("update display name: %w", err)
		}
		s.logger.Warn().Str("user_id", identityID).Msg("display name updated without a profile record")
	}
	return identity, nil
}

func (s *AuthService) Profile(ctx context.Context, identityID string) (*domain.UserProfile, error) {
	if identityID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.profiles.Get(ctx, identityID)
}

func (s *AuthService) validAccessKey(key string) bool {
	if s.accessKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(s.accessKey)) == 1
}

// isAdmin reads the profile role. Failures are logged and treated as non-admin.
func (s *AuthService) isAdmin(ctx context.Context, identityID string) bool {
	profile, err := s.profiles.Get(ctx, identityID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Error().Err(err).Str("user_id", identityID).Msg("profile read failed, treating as non-admin")
		}
		return false
	}
	return profile.IsAdmin()
}

func (s *AuthService) newProfile(id domain.Identity, role domain.Role) *domain.UserProfile {
	return &domain.UserProfile{
		ID:          id.ID,
		DisplayName: id.DisplayName,
		Email:       id.Email,
		Role:        role,
		CreatedAt:   s.now(),
	}
}

func toSignInResult(res *ports.AuthResult, isAdmin bool) *ports.SignInResult {
	return &ports.SignInResult{
		Identity:  res.Identity,
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		IsAdmin:   isAdmin,
	}
}
