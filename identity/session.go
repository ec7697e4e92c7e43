package identity

import (
	"time"

	"github.com/jozzer182/Yuva/id"
)

// Method is the credential path a session was established with.
type Method string

const (
	// MethodPassword is an email and password sign-in.
	MethodPassword Method = "password"
	// MethodFederated is a sign-in through an external identity provider.
	MethodFederated Method = "federated"
)

// Session is the authenticated principal. It is immutable once created;
// the flow state machine owns its lifecycle.
type Session struct {
	ID         id.SessionID `json:"id"`
	UID        string       `json:"uid"`
	Email      string       `json:"email"`
	Method     Method       `json:"method"`
	Provider   string       `json:"provider,omitempty"`
	SignedInAt time.Time    `json:"signed_in_at"`

	token string
}

// NewSession creates a session for the given subject. token is the
// provider-issued credential needed to remove the identity later; it may
// be empty for providers that track sessions themselves.
func NewSession(uid, email string, method Method, signedInAt time.Time, token string) *Session {
	return &Session{
		ID:         id.NewSessionID(),
		UID:        uid,
		Email:      email,
		Method:     method,
		SignedInAt: signedInAt,
		token:      token,
	}
}

// Token returns the provider credential backing this session.
func (s *Session) Token() string { return s.token }

// Valid reports whether s names a subject.
func (s *Session) Valid() bool { return s != nil && s.UID != "" }
