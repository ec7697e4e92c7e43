// Package memory implements identity.Provider in process.
//
// Accounts are registered up front with AddPasswordAccount or created on the
// first federated sign-in of an identity registered with AddFederatedIdentity.
// Passwords are stored as bcrypt hashes. Failed password attempts are
// throttled per email; removal refuses sessions older than the configured
// maximum credential age with identity.ErrStaleCredential.
package memory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/jozzer182/Yuva/identity"
)

// Compile-time interface check.
var _ identity.Provider = (*Provider)(nil)

// DefaultMaxCredentialAge is how long a sign-in stays fresh enough for removal.
const DefaultMaxCredentialAge = 5 * time.Minute

type account struct {
	uid      string
	email    string
	hash     []byte
	provider string
}

// Provider is an in-memory identity provider. Safe for concurrent use.
type Provider struct {
	mu sync.Mutex

	accounts   map[string]*account // key: uid
	byEmail    map[string]string   // key: lowercased email
	federated  map[string]string   // key: provider|token, value: email
	sessions   map[string]string   // key: session ID, value: uid
	limiters   map[string]*rate.Limiter
	limit      rate.Limit
	burst      int
	maxAge     time.Duration
	bcryptCost int
	now        func() time.Time
	logger     *slog.Logger
}

// Option configures the Provider.
type Option func(*Provider)

// WithMaxCredentialAge sets how old a sign-in may be before Remove
// demands re-authentication. Zero disables the check.
func WithMaxCredentialAge(d time.Duration) Option {
	return func(p *Provider) { p.maxAge = d }
}

// WithRateLimit sets the failed-attempt budget per email.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(p *Provider) {
		p.limit = limit
		p.burst = burst
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

// WithBcryptCost sets the hashing cost for new passwords.
func WithBcryptCost(cost int) Option {
	return func(p *Provider) { p.bcryptCost = cost }
}

// WithLogger sets the logger for the provider.
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) { p.logger = l }
}

// New returns an empty Provider.
func New(opts ...Option) *Provider {
	p := &Provider{
		accounts:   make(map[string]*account),
		byEmail:    make(map[string]string),
		federated:  make(map[string]string),
		sessions:   make(map[string]string),
		limiters:   make(map[string]*rate.Limiter),
		limit:      rate.Every(time.Minute),
		burst:      5,
		maxAge:     DefaultMaxCredentialAge,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AddPasswordAccount registers an email and password account and returns its UID.
func (p *Provider) AddPasswordAccount(email, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("identity/memory: hash password: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	key := strings.ToLower(email)
	if _, exists := p.byEmail[key]; exists {
		return "", fmt.Errorf("identity/memory: email %q already registered", email)
	}
	acc := &account{uid: uuid.NewString(), email: email, hash: hash}
	p.accounts[acc.uid] = acc
	p.byEmail[key] = acc.uid
	return acc.uid, nil
}

// AddFederatedIdentity registers an identity at an external provider: a
// sign-in with the given provider and token resolves to email.
func (p *Provider) AddFederatedIdentity(provider, token, email string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.federated[provider+"|"+token] = email
}

// Lookup returns the UID registered for email.
func (p *Provider) Lookup(email string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	uid, ok := p.byEmail[strings.ToLower(email)]
	return uid, ok
}

// SignIn authenticates a credential.
func (p *Provider) SignIn(ctx context.Context, cred identity.Credential) (*identity.Session, error) {
	if err := cred.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, identity.NewAuthError(identity.KindUnknown, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var (
		acc *account
		err error
	)
	switch cred.Method {
	case identity.MethodPassword:
		acc, err = p.passwordAccount(cred)
	default:
		acc, err = p.federatedAccount(cred)
	}
	if err != nil {
		return nil, err
	}

	s := identity.NewSession(acc.uid, acc.email, cred.Method, p.now(), "")
	s.Provider = cred.Provider
	p.sessions[s.ID.String()] = acc.uid

	p.logger.Debug("signed in",
		slog.String("session_id", s.ID.String()),
		slog.String("method", string(cred.Method)),
	)
	return s, nil
}

func (p *Provider) passwordAccount(cred identity.Credential) (*account, error) {
	key := strings.ToLower(cred.Email)
	lim := p.limiter(key)
	now := p.now()
	if lim.TokensAt(now) < 1 {
		return nil, identity.NewAuthError(identity.KindRateLimited, errors.New("too many failed attempts"))
	}

	uid, ok := p.byEmail[key]
	var acc *account
	if ok {
		acc = p.accounts[uid]
	}
	if acc == nil || acc.hash == nil ||
		bcrypt.CompareHashAndPassword(acc.hash, []byte(cred.Password)) != nil {
		lim.AllowN(now, 1)
		return nil, identity.NewAuthError(identity.KindInvalidCredential, errors.New("wrong email or password"))
	}
	return acc, nil
}

func (p *Provider) federatedAccount(cred identity.Credential) (*account, error) {
	email, ok := p.federated[cred.Provider+"|"+cred.Token]
	if !ok {
		return nil, identity.NewAuthError(identity.KindInvalidCredential, errors.New("unknown federated token"))
	}

	key := strings.ToLower(email)
	if uid, exists := p.byEmail[key]; exists {
		acc := p.accounts[uid]
		if acc.provider != cred.Provider {
			return nil, identity.NewAuthError(identity.KindConflictingCredential,
				fmt.Errorf("%s is registered with another sign-in method", email))
		}
		return acc, nil
	}

	acc := &account{uid: uuid.NewString(), email: email, provider: cred.Provider}
	p.accounts[acc.uid] = acc
	p.byEmail[key] = acc.uid
	return acc, nil
}

func (p *Provider) limiter(key string) *rate.Limiter {
	lim, ok := p.limiters[key]
	if !ok {
		lim = rate.NewLimiter(p.limit, p.burst)
		p.limiters[key] = lim
	}
	return lim
}

// SignOut forgets the session.
func (p *Provider) SignOut(_ context.Context, s *identity.Session) error {
	if s == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.sessions, s.ID.String())
	return nil
}

// Remove deletes the account behind the session.
func (p *Provider) Remove(ctx context.Context, s *identity.Session) error {
	if !s.Valid() {
		return identity.ErrSessionClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, live := p.sessions[s.ID.String()]; !live {
		return identity.ErrSessionClosed
	}
	if p.maxAge > 0 && p.now().Sub(s.SignedInAt) > p.maxAge {
		return fmt.Errorf("identity/memory: remove %s: %w", s.UID, identity.ErrStaleCredential)
	}

	acc, ok := p.accounts[s.UID]
	if !ok {
		return fmt.Errorf("identity/memory: remove %s: %w", s.UID, identity.ErrAccountNotFound)
	}
	delete(p.accounts, acc.uid)
	delete(p.byEmail, strings.ToLower(acc.email))
	for sid, uid := range p.sessions {
		if uid == acc.uid {
			delete(p.sessions, sid)
		}
	}
	return nil
}
