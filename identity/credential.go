package identity

import (
	"errors"
	"strings"
)

// Credential is the input of an interactive sign-in.
type Credential struct {
	Method Method

	// Email and Password are set for MethodPassword.
	Email    string
	Password string

	// Provider and Token are set for MethodFederated. An empty Token means
	// the user abandoned the provider's consent screen.
	Provider string
	Token    string
}

// PasswordCredential builds an email and password credential. Surrounding
// whitespace is trimmed from the email only.
func PasswordCredential(email, password string) Credential {
	return Credential{
		Method:   MethodPassword,
		Email:    strings.TrimSpace(email),
		Password: password,
	}
}

// FederatedCredential builds a credential for an external identity provider.
func FederatedCredential(provider, token string) Credential {
	return Credential{
		Method:   MethodFederated,
		Provider: provider,
		Token:    token,
	}
}

// Validate rejects credentials that cannot be sent to a provider.
func (c Credential) Validate() error {
	switch c.Method {
	case MethodPassword:
		if c.Email == "" || c.Password == "" {
			return NewAuthError(KindIncomplete, errors.New("email and password are required"))
		}
	case MethodFederated:
		if c.Token == "" {
			return NewAuthError(KindCancelled, errors.New("federated sign-in abandoned"))
		}
	default:
		return NewAuthError(KindUnknown, errors.New("unsupported credential method "+string(c.Method)))
	}
	return nil
}
