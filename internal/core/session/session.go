// Package session holds the current identity of one caller and the role
// resolved for it.
//
// A Context is created per caller and passed to whoever needs it; there is no
// process-wide current user. The role starts as domain.RoleUnknown and is
// filled in by a profile read after the identity is set. Until that read
// completes, IsAdmin reports false.
package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/eventhub/storefront/internal/core/domain"
	"github.com/eventhub/storefront/internal/core/ports"
)

// State is a snapshot delivered to subscribers.
type State struct {
	Identity *domain.Identity
	Role     domain.Role
}

// Context tracks one caller's identity and role.
type Context struct {
	profiles ports.ProfileReader
	log      zerolog.Logger

	mu         sync.RWMutex
	identity   *domain.Identity
	role       domain.Role
	generation uint64
	provider   ports.IdentityProvider

	subMu   sync.Mutex
	nextSub int
	subs    map[int]func(State)
}

// New returns an empty Context. profiles resolves roles after sign-in.
func New(profiles ports.ProfileReader, log zerolog.Logger) *Context {
	return &Context{
		profiles: profiles,
		log:      log,
		subs:     make(map[int]func(State)),
	}
}

// CurrentIdentity returns a copy of the identity, or nil when signed out.
func (s *Context) CurrentIdentity() *domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	id := *s.identity
	return &id
}

// Role returns the resolved role, or domain.RoleUnknown while the profile
// read is outstanding or when signed out.
func (s *Context) Role() domain.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

// IsAdmin is true only once the admin role has been resolved.
func (s *Context) IsAdmin() bool {
	return s.Role() == domain.RoleAdmin
}

// State returns the current snapshot.
func (s *Context) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

func (s *Context) stateLocked() State {
	st := State{Role: s.role}
	if s.identity != nil {
		id := *s.identity
		st.Identity = &id
	}
	return st
}

// Subscribe registers fn for every identity or role change and returns the
// function that removes it.
func (s *Context) Subscribe(fn func(State)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Context) notify(st State) {
	s.subMu.Lock()
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

// HandleAuthState applies an auth state change. A non-nil identity is stored
// with an unknown role, then the role is read from the profile store. A
// failed read is logged and leaves the caller as a plain user. A read that
// finishes after the identity has changed again is discarded.
func (s *Context) HandleAuthState(ctx context.Context, identity *domain.Identity) {
	s.mu.Lock()
	if identity == nil && s.identity == nil {
		s.mu.Unlock()
		return
	}
	s.generation++
	gen := s.generation
	if identity == nil {
		s.identity = nil
		s.role = domain.RoleUnknown
		st := s.stateLocked()
		s.mu.Unlock()
		s.notify(st)
		return
	}

	id := *identity
	sameID := s.identity != nil && s.identity.ID == id.ID
	s.identity = &id
	if !sameID {
		s.role = domain.RoleUnknown
	}
	st := s.stateLocked()
	s.mu.Unlock()
	s.notify(st)

	if sameID && st.Role != domain.RoleUnknown {
		return
	}

	role := s.resolveRole(ctx, id.ID)

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return
	}
	s.role = role
	st = s.stateLocked()
	s.mu.Unlock()
	s.notify(st)
}

func (s *Context) resolveRole(ctx context.Context, identityID string) domain.Role {
	profile, err := s.profiles.Get(ctx, identityID)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", identityID).Msg("profile read failed, treating as non-admin")
		return domain.RoleUser
	}
	if profile.IsAdmin() {
		return domain.RoleAdmin
	}
	return domain.RoleUser
}

// Bind follows the provider's auth state stream for the current identity:
// display name changes update it and sign-out clears it. Events about other
// identities are ignored.
func (s *Context) Bind(ctx context.Context, provider ports.IdentityProvider) (unsubscribe func()) {
	s.mu.Lock()
	s.provider = provider
	s.mu.Unlock()

	return provider.SubscribeAuthState(func(identityID string, identity *domain.Identity) {
		current := s.CurrentIdentity()
		if current == nil || current.ID != identityID {
			return
		}
		s.HandleAuthState(ctx, identity)
	})
}

// SignOut revokes token with the bound provider and clears the identity.
func (s *Context) SignOut(ctx context.Context, token string) error {
	s.mu.RLock()
	provider := s.provider
	s.mu.RUnlock()

	if provider != nil {
		if err := provider.SignOut(ctx, token); err != nil {
			return err
		}
	}
	s.HandleAuthState(ctx, nil)
	return nil
}
