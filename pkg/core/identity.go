package core

// Identity is the opaque account information supplied by the external
// identity provider on successful sign-in.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
}

// IdentityProvider is the contract with the external authentication service.
// The tracker never performs the authentication handshake itself; it only
// observes sign-in and sign-out events.
type IdentityProvider interface {
	// Subscribe registers fn for identity changes and returns an unsubscribe
	// function. fn receives the signed-in identity, or nil on sign-out.
	// Implementations replay the current state to new subscribers.
	Subscribe(fn func(*Identity)) (unsubscribe func())
}
