// Package profile manages the signed-in user's profile document: lazy
// get-or-create on sign-in, merge updates, and the custom username flow.
package profile

import (
	"context"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"github.com/leetscape/leetscape/pkg/core"
	"github.com/leetscape/leetscape/pkg/typed"
)

var usernameRE = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

// ValidateUsername checks the custom username rule: 3 to 20 characters,
// letters, digits and underscores only.
func ValidateUsername(username string) error {
	if !usernameRE.MatchString(username) {
		return &core.ValidationError{
			Field:  "username",
			Reason: "must be 3-20 characters of letters, digits or underscores",
		}
	}
	return nil
}

// Service tracks the current user's profile. It subscribes to the identity
// stream on Init and releases the subscription on Dispose; between the two it
// holds the loaded (or freshly created) profile for synchronous reads.
type Service struct {
	docs     core.DocumentStore
	coll     *typed.Collection[core.UserProfile]
	provider core.IdentityProvider
	logger   *slog.Logger
	now      func() time.Time

	mu          sync.RWMutex
	current     *core.UserProfile
	loading     bool
	unsubscribe func()
}

// NewService creates a profile service. provider may be nil when the caller
// drives HandleSignIn directly.
func NewService(docs core.DocumentStore, provider core.IdentityProvider, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		docs:     docs,
		coll:     typed.NewCollection[core.UserProfile](docs, core.CollectionUsers),
		provider: provider,
		logger:   logger,
		now:      time.Now,
	}
}

// SetClock overrides the timestamp source.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// Init subscribes to the identity stream. The provider replays the current
// identity, so a user already signed in is picked up immediately.
func (s *Service) Init(ctx context.Context) error {
	if s.provider == nil {
		return nil
	}
	s.unsubscribe = s.provider.Subscribe(func(identity *core.Identity) {
		if identity == nil {
			s.handleSignOut()
			return
		}
		s.HandleSignIn(ctx, identity)
	})
	return nil
}

// Dispose releases the identity subscription. Idempotent.
func (s *Service) Dispose() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

func (s *Service) handleSignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.loading = false
}

// HandleSignIn loads the profile for identity, creating it on first sign-in.
// The profile read fails open: on transport failure a transient in-memory
// profile is served and the store document is left untouched.
func (s *Service) HandleSignIn(ctx context.Context, identity *core.Identity) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	profile := s.loadOrCreate(ctx, identity)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = profile
	s.loading = false
}

func (s *Service) loadOrCreate(ctx context.Context, identity *core.Identity) *core.UserProfile {
	now := s.now().UTC()

	existing, err := s.coll.Get(ctx, identity.UID)
	switch {
	case err == nil:
		partial := core.Fields{"lastLoginAt": now}
		if uerr := s.docs.Update(ctx, core.CollectionUsers, identity.UID, partial); uerr != nil {
			s.logger.Warn("failed to stamp last login", "uid", identity.UID, "error", uerr)
		} else {
			existing.LastLoginAt = now
		}
		return existing

	case core.IsNotFound(err):
		profile := &core.UserProfile{
			UID:            identity.UID,
			Email:          identity.Email,
			DisplayName:    identity.DisplayName,
			CustomUsername: identity.DisplayName,
			PhotoURL:       identity.PhotoURL,
			CreatedAt:      now,
			LastLoginAt:    now,
		}
		if serr := s.coll.Set(ctx, identity.UID, *profile); serr != nil {
			s.logger.Error("failed to create profile, serving transient copy",
				"uid", identity.UID, "error", serr)
		}
		return profile

	default:
		s.logger.Error("failed to load profile, serving transient copy",
			"uid", identity.UID, "error", err)
		return &core.UserProfile{
			UID:         identity.UID,
			Email:       identity.Email,
			DisplayName: identity.DisplayName,
			PhotoURL:    identity.PhotoURL,
			CreatedAt:   now,
			LastLoginAt: now,
		}
	}
}

// UpdateProfile merges partial into the current user's profile document and
// refreshes the in-memory copy. Every update also refreshes lastLoginAt.
// Fails closed.
func (s *Service) UpdateProfile(ctx context.Context, partial core.Fields) error {
	s.mu.RLock()
	current := s.current
	s.mu.RUnlock()
	if current == nil {
		return &core.ValidationError{Field: "user", Reason: "no signed-in user"}
	}

	merged := make(core.Fields, len(partial)+1)
	for k, v := range partial {
		merged[k] = v
	}
	merged["lastLoginAt"] = s.now().UTC()

	if err := s.docs.Update(ctx, core.CollectionUsers, current.UID, merged); err != nil {
		return &core.WriteError{Op: "update profile", Collection: core.CollectionUsers, ID: current.UID, Err: err}
	}

	refreshed, err := s.coll.Get(ctx, current.UID)
	if err != nil {
		s.logger.Warn("profile updated but re-read failed", "uid", current.UID, "error", err)
		return nil
	}

	s.mu.Lock()
	s.current = refreshed
	s.mu.Unlock()
	return nil
}

// SetUsername validates and persists the custom username.
func (s *Service) SetUsername(ctx context.Context, username string) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}
	return s.UpdateProfile(ctx, core.Fields{"customUsername": username})
}

// Current returns a copy of the loaded profile, or nil when signed out.
func (s *Service) Current() *core.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	copied := *s.current
	return &copied
}

// Loading reports whether a sign-in profile load is still in progress.
func (s *Service) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// NeedsOnboarding reports whether the user still has no valid custom
// username and should be prompted to pick one.
func (s *Service) NeedsOnboarding() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return false
	}
	return ValidateUsername(s.current.CustomUsername) != nil
}
