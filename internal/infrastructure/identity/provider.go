// Package identity is a self-hosted identity provider: bcrypt password
// credentials, HS256 session tokens, federated sign-in through a signed id
// token, and password reset links.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/eventhub/storefront/internal/core/domain"
	"github.com/eventhub/storefront/internal/core/ports"
)

// CredentialStore persists accounts. Lookups return domain.ErrUserNotFound
// when nothing matches; Create returns domain.ErrEmailInUse for a taken email.
type CredentialStore interface {
	Create(ctx context.Context, c *domain.Credential) error
	FindByID(ctx context.Context, id string) (*domain.Credential, error)
	FindByEmail(ctx context.Context, email string) (*domain.Credential, error)
	FindBySubject(ctx context.Context, subject string) (*domain.Credential, error)
	UpdatePassword(ctx context.Context, id, hash string) error
	UpdateDisplayName(ctx context.Context, id, name string) error
	LinkSubject(ctx context.Context, id, subject string) error
}

// TokenStore keeps the revoked-session deny list and pending reset tokens.
type TokenStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	SaveReset(ctx context.Context, token, credentialID string, ttl time.Duration) error
	ConsumeReset(ctx context.Context, token string) (credentialID string, ok bool, err error)
}

type Config struct {
	JWTSecret string
	TokenTTL  time.Duration
	// FederatedSecret verifies id tokens from the federated provider.
	// Federated sign-in is refused when empty.
	FederatedSecret string
	ResetTTL        time.Duration
}

type sessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// federatedClaims is the payload of a federated id token.
type federatedClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Provider implements ports.IdentityProvider.
type Provider struct {
	creds  CredentialStore
	tokens TokenStore
	mailer ports.Mailer
	cfg    Config
	logger zerolog.Logger
	now    func() time.Time

	mu        sync.Mutex
	nextID    int
	listeners map[int]ports.AuthStateListener
}

func New(creds CredentialStore, tokens TokenStore, mailer ports.Mailer, cfg Config, logger zerolog.Logger) *Provider {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = time.Hour
	}
	return &Provider{
		creds:     creds,
		tokens:    tokens,
		mailer:    mailer,
		cfg:       cfg,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		listeners: make(map[int]ports.AuthStateListener),
	}
}

func (p *Provider) SignUp(ctx context.Context, email, password, displayName string) (*ports.AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if len(password) < domain.MinPasswordLength {
		return nil, domain.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := p.now()
	c := &domain.Credential{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: string(hash),
		Provider:     domain.ProviderPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := p.creds.Create(ctx, c); err != nil {
		return nil, err
	}
	return p.signedIn(c, true)
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	c, err := p.creds.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if c.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return p.signedIn(c, false)
}

// SignInFederated verifies the id token, then finds the account by subject,
// links it by email, or creates it.
func (p *Provider) SignInFederated(ctx context.Context, idToken string) (*ports.AuthResult, error) {
	claims, err := p.parseFederated(idToken)
	if err != nil {
		p.logger.Warn().Err(err).Msg("federated id token rejected")
		return nil, domain.ErrFederatedSignInFailed
	}

	c, err := p.creds.FindBySubject(ctx, claims.Subject)
	if err == nil {
		return p.signedIn(c, false)
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	c, err = p.creds.FindByEmail(ctx, claims.Email)
	switch {
	case err == nil:
		if err := p.creds.LinkSubject(ctx, c.ID, claims.Subject); err != nil {
			return nil, err
		}
		c.Subject = claims.Subject
		return p.signedIn(c, false)
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, err
	}

	now := p.now()
	c = &domain.Credential{
		ID:          uuid.NewString(),
		Email:       claims.Email,
		DisplayName: claims.Name,
		Provider:    domain.ProviderFederated,
		Subject:     claims.Subject,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := p.creds.Create(ctx, c); err != nil {
		return nil, err
	}
	return p.signedIn(c, true)
}

func (p *Provider) parseFederated(idToken string) (*federatedClaims, error) {
	if p.cfg.FederatedSecret == "" {
		return nil, errors.New("federated sign-in is not configured")
	}
	claims := &federatedClaims{}
	_, err := jwt.ParseWithClaims(idToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(p.cfg.FederatedSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" || claims.Email == "" {
		return nil, errors.New("id token is missing sub or email")
	}
	return claims, nil
}

// SendPasswordReset issues a single-use reset token and mails it.
func (p *Provider) SendPasswordReset(ctx context.Context, email string) error {
	c, err := p.creds.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	token := uuid.NewString()
	if err := p.tokens.SaveReset(ctx, token, c.ID, p.cfg.ResetTTL); err != nil {
		return err
	}
	return p.mailer.SendPasswordReset(ctx, c.Email, token)
}

func (p *Provider) ConfirmPasswordReset(ctx context.Context, resetToken, newPassword string) error {
	if len(newPassword) < domain.MinPasswordLength {
		return domain.ErrWeakPassword
	}
	id, ok, err := p.tokens.ConsumeReset(ctx, resetToken)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := p.creds.UpdatePassword(ctx, id, string(hash)); err != nil {
		return err
	}
	p.logger.Info().Str("user_id", id).Msg("password reset")
	return nil
}

// SignOut revokes the token until it would have expired and announces the
// sign-out to subscribers.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	claims, err := p.parse(token)
	if err != nil {
		return domain.ErrUnauthenticated
	}
	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(p.now())
	}
	if err := p.tokens.Revoke(ctx, claims.ID, ttl); err != nil {
		return err
	}
	p.emit(claims.Subject, nil)
	return nil
}

func (p *Provider) UpdateDisplayName(ctx context.Context, identityID, name string) (*domain.Identity, error) {
	if err := p.creds.UpdateDisplayName(ctx, identityID, name); err != nil {
		return nil, err
	}
	c, err := p.creds.FindByID(ctx, identityID)
	if err != nil {
		return nil, err
	}
	id := c.Identity()
	p.emit(id.ID, &id)
	return &id, nil
}

// Verify checks the signature, expiry and revocation of token and returns
// the account's current identity.
func (p *Provider) Verify(ctx context.Context, token string) (*domain.Identity, error) {
	claims, err := p.parse(token)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	revoked, err := p.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, domain.ErrUnauthenticated
	}

	c, err := p.creds.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}
	id := c.Identity()
	return &id, nil
}

func (p *Provider) parse(token string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(p.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(p.now))
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, errors.New("token is missing sub or jti")
	}
	return claims, nil
}

func (p *Provider) signedIn(c *domain.Credential, created bool) (*ports.AuthResult, error) {
	now := p.now()
	expires := now.Add(p.cfg.TokenTTL)
	claims := sessionClaims{
		Email: c.Email,
		Name:  c.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   c.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(p.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	id := c.Identity()
	p.emit(id.ID, &id)
	return &ports.AuthResult{Identity: id, Token: token, ExpiresAt: expires, Created: created}, nil
}

// SubscribeAuthState registers listener for every identity's auth changes.
func (p *Provider) SubscribeAuthState(listener ports.AuthStateListener) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = listener
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.listeners, id)
			p.mu.Unlock()
		})
	}
}

func (p *Provider) emit(identityID string, identity *domain.Identity) {
	p.mu.Lock()
	ls := make([]ports.AuthStateListener, 0, len(p.listeners))
	for _, l := range p.listeners {
		ls = append(ls, l)
	}
	p.mu.Unlock()

	for _, l := range ls {
		var snapshot *domain.Identity
		if identity != nil {
			cp := *identity
			snapshot = &cp
		}
		l(identityID, snapshot)
	}
}
