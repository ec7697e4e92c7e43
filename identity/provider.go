package identity

import "context"

// Provider issues and removes identities.
type Provider interface {
	// SignIn authenticates a credential. Failures are *AuthError values.
	SignIn(ctx context.Context, cred Credential) (*Session, error)

	// SignOut ends the session on the provider side.
	SignOut(ctx context.Context, s *Session) error

	// Remove deletes the identity behind the session. It returns an error
	// wrapping ErrStaleCredential when the provider requires a fresh sign-in.
	Remove(ctx context.Context, s *Session) error
}
