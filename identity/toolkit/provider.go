// Package toolkit implements identity.Provider against the Identity Toolkit
// REST API (email and password accounts plus federated identity providers).
//
// Usage:
//
//	p := toolkit.New(apiKey)
//	s, err := p.SignIn(ctx, identity.PasswordCredential(email, password))
package toolkit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jozzer182/Yuva/identity"
)

// Compile-time interface check.
var _ identity.Provider = (*Provider)(nil)

// DefaultEndpoint is the public Identity Toolkit v1 base URL.
const DefaultEndpoint = "https://identitytoolkit.googleapis.com/v1"

// Provider talks to the Identity Toolkit REST API.
type Provider struct {
	endpoint   string
	apiKey     string
	requestURI string
	client     *http.Client
	now        func() time.Time
	logger     *slog.Logger
}

// Option configures the Provider.
type Option func(*Provider)

// WithEndpoint overrides the API base URL.
func WithEndpoint(endpoint string) Option {
	return func(p *Provider) { p.endpoint = strings.TrimRight(endpoint, "/") }
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) { p.client = c }
}

// WithRequestURI sets the continue URI sent with federated sign-ins.
func WithRequestURI(uri string) Option {
	return func(p *Provider) { p.requestURI = uri }
}

// WithClock overrides the time source used to stamp sessions.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

// WithLogger sets the logger for the provider.
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) { p.logger = l }
}

// New creates a Provider authenticating API calls with apiKey.
func New(apiKey string, opts ...Option) *Provider {
	p := &Provider{
		endpoint:   DefaultEndpoint,
		apiKey:     apiKey,
		requestURI: "http://localhost",
		client:     &http.Client{Timeout: 15 * time.Second},
		now:        time.Now,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type signInResponse struct {
	LocalID          string `json:"localId"`
	Email            string `json:"email"`
	IDToken          string `json:"idToken"`
	ProviderID       string `json:"providerId"`
	NeedConfirmation bool   `json:"needConfirmation"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// apiError is a non-2xx response. Code is the leading token of the
// message, e.g. "INVALID_PASSWORD".
type apiError struct {
	Status  int
	Code    string
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("identity/toolkit: %d %s", e.Status, e.Message)
}

// SignIn authenticates a credential.
func (p *Provider) SignIn(ctx context.Context, cred identity.Credential) (*identity.Session, error) {
	if err := cred.Validate(); err != nil {
		return nil, err
	}

	var (
		resp signInResponse
		err  error
	)
	switch cred.Method {
	case identity.MethodPassword:
		err = p.call(ctx, "accounts:signInWithPassword", map[string]any{
			"email":             cred.Email,
			"password":          cred.Password,
			"returnSecureToken": true,
		}, &resp)
	default:
		body := url.Values{}
		body.Set("id_token", cred.Token)
		body.Set("providerId", cred.Provider)
		err = p.call(ctx, "accounts:signInWithIdp", map[string]any{
			"postBody":            body.Encode(),
			"requestUri":          p.requestURI,
			"returnSecureToken":   true,
			"returnIdpCredential": true,
		}, &resp)
	}
	if err != nil {
		return nil, identity.NewAuthError(classifySignIn(err), err)
	}
	if resp.NeedConfirmation {
		return nil, identity.NewAuthError(identity.KindConflictingCredential,
			fmt.Errorf("%s is registered with another sign-in method", resp.Email))
	}

	s := identity.NewSession(resp.LocalID, resp.Email, cred.Method, p.now(), resp.IDToken)
	s.Provider = cred.Provider
	return s, nil
}

// SignOut is local: ID tokens are bearer credentials and are simply dropped.
func (p *Provider) SignOut(_ context.Context, s *identity.Session) error {
	if s != nil {
		p.logger.Debug("signed out", slog.String("session_id", s.ID.String()))
	}
	return nil
}

// Remove deletes the account behind the session's ID token.
func (p *Provider) Remove(ctx context.Context, s *identity.Session) error {
	if !s.Valid() || s.Token() == "" {
		return identity.ErrSessionClosed
	}

	err := p.call(ctx, "accounts:delete", map[string]any{"idToken": s.Token()}, nil)
	if err == nil {
		return nil
	}

	var ae *apiError
	if errors.As(err, &ae) {
		switch ae.Code {
		// A disabled account cannot sign in again, so it is not stale.
		case "CREDENTIAL_TOO_OLD_LOGIN_AGAIN", "TOKEN_EXPIRED", "INVALID_ID_TOKEN":
			return fmt.Errorf("%w: %w", identity.ErrStaleCredential, err)
		case "USER_NOT_FOUND":
			return fmt.Errorf("%w: %w", identity.ErrAccountNotFound, err)
		}
	}
	return err
}

func classifySignIn(err error) identity.Kind {
	var ae *apiError
	if !errors.As(err, &ae) {
		return identity.KindUnknown
	}
	switch ae.Code {
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "INVALID_EMAIL", "INVALID_IDP_RESPONSE":
		return identity.KindInvalidCredential
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return identity.KindRateLimited
	case "FEDERATED_USER_ID_ALREADY_LINKED", "EMAIL_EXISTS":
		return identity.KindConflictingCredential
	default:
		return identity.KindUnknown
	}
}

func (p *Provider) call(ctx context.Context, method string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("identity/toolkit: encode %s: %w", method, err)
	}

	u := p.endpoint + "/" + method + "?key=" + url.QueryEscape(p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("identity/toolkit: build %s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("identity/toolkit: %s: %w", method, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("identity/toolkit: read %s: %w", method, err)
	}

	if res.StatusCode/100 != 2 {
		var er errorResponse
		_ = json.Unmarshal(data, &er) //nolint:errcheck // fall back to the status code
		msg := er.Error.Message
		if msg == "" {
			msg = http.StatusText(res.StatusCode)
		}
		code, _, _ := strings.Cut(msg, " ")
		return &apiError{Status: res.StatusCode, Code: code, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("identity/toolkit: decode %s: %w", method, err)
	}
	return nil
}
