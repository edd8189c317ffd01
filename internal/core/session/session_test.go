package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhub/storefront/internal/core/domain"
	"github.com/eventhub/storefront/internal/core/ports"
)

type stubProfiles struct {
	profiles map[string]*domain.UserProfile
	err      error
	// before runs inside Get, letting a test change state mid-read.
	before func()
}

func (p *stubProfiles) Get(_ context.Context, id string) (*domain.UserProfile, error) {
	if p.before != nil {
		p.before()
	}
	if p.err != nil {
		return nil, p.err
	}
	prof, ok := p.profiles[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return prof, nil
}

type stubProvider struct {
	ports.IdentityProvider
	mu         sync.Mutex
	listeners  []ports.AuthStateListener
	signOutErr error
	signedOut  []string
}

func (p *stubProvider) SubscribeAuthState(l ports.AuthStateListener) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, l)
	idx := len(p.listeners) - 1
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.listeners[idx] = nil
	}
}

func (p *stubProvider) emit(id string, identity *domain.Identity) {
	p.mu.Lock()
	ls := append([]ports.AuthStateListener(nil), p.listeners...)
	p.mu.Unlock()
	for _, l := range ls {
		if l != nil {
			l(id, identity)
		}
	}
}

func (p *stubProvider) SignOut(_ context.Context, token string) error {
	if p.signOutErr != nil {
		return p.signOutErr
	}
	p.signedOut = append(p.signedOut, token)
	return nil
}

func adminProfiles() *stubProfiles {
	return &stubProfiles{profiles: map[string]*domain.UserProfile{
		"admin-1": {ID: "admin-1", Role: domain.RoleAdmin},
		"user-1":  {ID: "user-1", Role: domain.RoleUser},
	}}
}

func TestContext_StartsSignedOut(t *testing.T) {
	s := New(adminProfiles(), zerolog.Nop())

	assert.Nil(t, s.CurrentIdentity())
	assert.Equal(t, domain.RoleUnknown, s.Role())
	assert.False(t, s.IsAdmin())
}

func TestContext_ResolvesAdminRole(t *testing.T) {
	s := New(adminProfiles(), zerolog.Nop())

	var states []State
	unsubscribe := s.Subscribe(func(st State) { states = append(states, st) })
	defer unsubscribe()

	s.HandleAuthState(context.Background(), &domain.Identity{ID: "admin-1", Email: "boss@example.com"})

	require.NotNil(t, s.CurrentIdentity())
	assert.Equal(t, "admin-1", s.CurrentIdentity().ID)
	assert.True(t, s.IsAdmin())

	require.Len(t, states, 2)
	assert.Equal(t, domain.RoleUnknown, states[0].Role, "role must be unknown before the profile read")
	assert.Equal(t, domain.RoleAdmin, states[1].Role)
}

func TestContext_UnknownRoleIsNotAdmin(t *testing.T) {
	profiles := adminProfiles()
	s := New(profiles, zerolog.Nop())

	var duringRead bool
	profiles.before = func() { duringRead = s.IsAdmin() }

	s.HandleAuthState(context.Background(), &domain.Identity{ID: "admin-1"})

	assert.False(t, duringRead)
	assert.True(t, s.IsAdmin())
}

func TestContext_ProfileReadFailureDefaultsToUser(t *testing.T) {
	s := New(&stubProfiles{err: errors.New("mongo down")}, zerolog.Nop())

	s.HandleAuthState(context.Background(), &domain.Identity{ID: "admin-1"})

	assert.NotNil(t, s.CurrentIdentity())
	assert.Equal(t, domain.RoleUser, s.Role())
	assert.False(t, s.IsAdmin())
}

func TestContext_StaleRoleReadDiscarded(t *testing.T) {
	profiles := adminProfiles()
	s := New(profiles, zerolog.Nop())

	// While the admin's profile is being read, the caller signs out.
	profiles.before = func() {
		profiles.before = nil
		s.HandleAuthState(context.Background(), nil)
	}
	s.HandleAuthState(context.Background(), &domain.Identity{ID: "admin-1"})

	assert.Nil(t, s.CurrentIdentity())
	assert.False(t, s.IsAdmin())
}

func TestContext_Unsubscribe(t *testing.T) {
	s := New(adminProfiles(), zerolog.Nop())

	calls := 0
	unsubscribe := s.Subscribe(func(State) { calls++ })
	unsubscribe()
	unsubscribe()

	s.HandleAuthState(context.Background(), &domain.Identity{ID: "user-1"})
	assert.Zero(t, calls)
}

func TestContext_BindFollowsOwnIdentityOnly(t *testing.T) {
	provider := &stubProvider{}
	s := New(adminProfiles(), zerolog.Nop())
	s.HandleAuthState(context.Background(), &domain.Identity{ID: "user-1", DisplayName: "Old"})

	unbind := s.Bind(context.Background(), provider)
	defer unbind()

	provider.emit("someone-else", nil)
	require.NotNil(t, s.CurrentIdentity())

	provider.emit("user-1", &domain.Identity{ID: "user-1", DisplayName: "New"})
	assert.Equal(t, "New", s.CurrentIdentity().DisplayName)
	assert.Equal(t, domain.RoleUser, s.Role(), "rename keeps the resolved role")

	provider.emit("user-1", nil)
	assert.Nil(t, s.CurrentIdentity())
}

func TestContext_SignOut(t *testing.T) {
	provider := &stubProvider{}
	s := New(adminProfiles(), zerolog.Nop())
	s.HandleAuthState(context.Background(), &domain.Identity{ID: "admin-1"})
	unbind := s.Bind(context.Background(), provider)
	defer unbind()

	require.NoError(t, s.SignOut(context.Background(), "tok"))

	assert.Equal(t, []string{"tok"}, provider.signedOut)
	assert.Nil(t, s.CurrentIdentity())
	assert.False(t, s.IsAdmin())
}

func TestContext_SignOutFailureKeepsIdentity(t *testing.T) {
	provider := &stubProvider{signOutErr: errors.New("network")}
	s := New(adminProfiles(), zerolog.Nop())
	s.HandleAuthState(context.Background(), &domain.Identity{ID: "user-1"})
	unbind := s.Bind(context.Background(), provider)
	defer unbind()

	assert.Error(t, s.SignOut(context.Background(), "tok"))
	assert.NotNil(t, s.CurrentIdentity())
}
