package profile

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	UID             string `json:"uid"`
	Loading         bool   `json:"loading"`
	Subscribed      bool   `json:"subscribed"`
	NeedsOnboarding bool   `json:"needs_onboarding"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	uid := ""
	needsOnboarding := false
	if s.current != nil {
		uid = s.current.UID
		needsOnboarding = ValidateUsername(s.current.CustomUsername) != nil
	}

	return ServiceState{
		UID:             uid,
		Loading:         s.loading,
		Subscribed:      s.unsubscribe != nil,
		NeedsOnboarding: needsOnboarding,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "profile-service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
