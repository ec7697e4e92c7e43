package identity

import (
	"errors"
	"fmt"
)

var (
	// ErrStaleCredential is returned by Provider.Remove when the session's
	// sign-in is too old for a sensitive operation.
	ErrStaleCredential = errors.New("identity: credential too old, sign in again")

	// ErrAccountNotFound is returned when the session's account no longer exists.
	ErrAccountNotFound = errors.New("identity: account not found")

	// ErrSessionClosed is returned when operating on a signed-out session.
	ErrSessionClosed = errors.New("identity: session closed")
)

// Kind classifies a sign-in failure.
type Kind int

const (
	// KindUnknown is any failure without a more specific classification.
	KindUnknown Kind = iota
	// KindCancelled means the user abandoned the sign-in.
	KindCancelled
	// KindConflictingCredential means the email is registered with a
	// different sign-in method.
	KindConflictingCredential
	// KindInvalidCredential means the email or password is wrong.
	KindInvalidCredential
	// KindRateLimited means too many failed attempts were made.
	KindRateLimited
	// KindIncomplete means required credential fields were empty.
	KindIncomplete
)

// String returns a stable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindCancelled:
		return "cancelled"
	case KindConflictingCredential:
		return "conflicting_credential"
	case KindInvalidCredential:
		return "invalid_credential"
	case KindRateLimited:
		return "rate_limited"
	case KindIncomplete:
		return "incomplete"
	default:
		return "unknown"
	}
}

// AuthError is a classified sign-in failure.
type AuthError struct {
	Kind Kind
	Err  error
}

// NewAuthError wraps err with a sign-in failure kind.
func NewAuthError(kind Kind, err error) *AuthError {
	return &AuthError{Kind: kind, Err: err}
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("identity: sign-in failed (%s)", e.Kind)
	}
	return fmt.Sprintf("identity: sign-in failed (%s): %v", e.Kind, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// KindOf returns the sign-in failure kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}
