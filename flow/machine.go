package flow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jozzer182/Yuva"
	"github.com/jozzer182/Yuva/deletion"
	"github.com/jozzer182/Yuva/identity"
)

// Runner executes a deletion run. *deletion.Orchestrator satisfies it.
type Runner interface {
	Run(ctx context.Context, s *identity.Session, progress deletion.ProgressFunc) deletion.Outcome
}

// State is an immutable snapshot of the machine.
type State struct {
	Phase        Phase
	Email        string
	Confirmation string
	CanSubmit    bool
	LoginError   string
	DeleteError  string
	Progress     string
	// Deleted is the record count of the last run.
	Deleted int
}

// Visible reports whether p is the phase to render.
func (s State) Visible(p Phase) bool { return s.Phase == p }

// Machine is the workflow state machine. It is the only owner of the
// signed-in session: the session is created by SignIn and destroyed by
// Cancel or a successful deletion. Safe for concurrent use.
type Machine struct {
	mu sync.Mutex

	provider identity.Provider
	runner   Runner
	gate     Gate
	observer func(State)
	logger   *slog.Logger

	phase        Phase
	session      *identity.Session
	stale        bool
	confirmation string
	loginErr     string
	deleteErr    string
	progress     string
	deleted      int
}

// Option configures a Machine.
type Option func(*Machine)

// WithGate sets the confirmation gate.
func WithGate(g Gate) Option {
	return func(m *Machine) { m.gate = g }
}

// WithObserver registers a callback invoked with a snapshot after every
// state change, progress updates included. It must not call back into the
// machine synchronously.
func WithObserver(fn func(State)) Option {
	return func(m *Machine) { m.observer = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) { m.logger = l }
}

// NewMachine creates a machine in PhaseLoggedOut.
func NewMachine(provider identity.Provider, runner Runner, opts ...Option) *Machine {
	m := &Machine{
		provider: provider,
		runner:   runner,
		gate:     NewGate(""),
		logger:   slog.Default(),
		phase:    PhaseLoggedOut,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Gate returns the confirmation gate.
func (m *Machine) Gate() Gate { return m.gate }

// State returns the current snapshot.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

func (m *Machine) snapshot() State {
	return State{
		Phase:        m.phase,
		Email:        m.sessionEmail(),
		Confirmation: m.confirmation,
		CanSubmit:    m.phase == PhaseAwaitingConfirmation && m.gate.IsConfirmed(m.confirmation),
		LoginError:   m.loginErr,
		DeleteError:  m.deleteErr,
		Progress:     m.progress,
		Deleted:      m.deleted,
	}
}

func (m *Machine) sessionEmail() string {
	if m.session == nil {
		return ""
	}
	return m.session.Email
}

// update applies fn under the lock and notifies the observer outside it.
func (m *Machine) update(fn func() error) error {
	m.mu.Lock()
	err := fn()
	st := m.snapshot()
	m.mu.Unlock()

	if m.observer != nil {
		m.observer(st)
	}
	return err
}

func (m *Machine) expect(p Phase) error {
	if m.phase != p {
		return fmt.Errorf("%w: want %s, have %s", yuva.ErrInvalidPhase, p, m.phase)
	}
	return nil
}

// SignIn authenticates and moves to PhaseAwaitingConfirmation. On failure
// the machine stays logged out and State().LoginError explains why.
func (m *Machine) SignIn(ctx context.Context, cred identity.Credential) error {
	m.mu.Lock()
	if err := m.expect(PhaseLoggedOut); err != nil {
		m.mu.Unlock()
		return err
	}
	m.mu.Unlock()

	s, err := m.provider.SignIn(ctx, cred)
	var orphaned bool
	uerr := m.update(func() error {
		if perr := m.expect(PhaseLoggedOut); perr != nil {
			orphaned = err == nil
			return perr
		}
		if err != nil {
			m.loginErr = LoginMessage(identity.KindOf(err), cred.Method)
			m.logger.Info("sign-in failed",
				slog.String("method", string(cred.Method)),
				slog.String("kind", identity.KindOf(err).String()),
			)
			return err
		}
		m.session = s
		m.stale = false
		m.phase = PhaseAwaitingConfirmation
		m.confirmation = ""
		m.loginErr = ""
		m.deleteErr = ""
		m.deleted = 0
		return nil
	})
	if orphaned {
		// Another sign-in won the race; this session is never used.
		if serr := m.provider.SignOut(ctx, s); serr != nil {
			m.logger.Warn("sign-out failed", slog.String("error", serr.Error()))
		}
	}
	return uerr
}

// SetConfirmation records the typed confirmation text; State().CanSubmit
// is re-evaluated on every call.
func (m *Machine) SetConfirmation(text string) error {
	return m.update(func() error {
		if err := m.expect(PhaseAwaitingConfirmation); err != nil {
			return err
		}
		m.confirmation = text
		return nil
	})
}

// Cancel signs out, discards the session and returns to PhaseLoggedOut.
func (m *Machine) Cancel(ctx context.Context) error {
	m.mu.Lock()
	if err := m.expect(PhaseAwaitingConfirmation); err != nil {
		m.mu.Unlock()
		return err
	}
	s := m.session
	m.mu.Unlock()

	if err := m.provider.SignOut(ctx, s); err != nil {
		m.logger.Warn("sign-out failed", slog.String("error", err.Error()))
	}
	return m.update(func() error {
		m.reset()
		return nil
	})
}

func (m *Machine) reset() {
	m.phase = PhaseLoggedOut
	m.session = nil
	m.stale = false
	m.confirmation = ""
	m.loginErr = ""
	m.deleteErr = ""
	m.progress = ""
	m.deleted = 0
}

// Submit runs the deletion. It returns an error, without running anything,
// unless the machine awaits confirmation, the gate passes and the session
// is still usable. The run's own result is returned as the Outcome.
func (m *Machine) Submit(ctx context.Context) (deletion.Outcome, error) {
	var s *identity.Session
	err := m.update(func() error {
		if err := m.expect(PhaseAwaitingConfirmation); err != nil {
			return err
		}
		if !m.gate.IsConfirmed(m.confirmation) {
			return yuva.ErrNotConfirmed
		}
		if m.session == nil {
			return yuva.ErrNotAuthenticated
		}
		if m.stale {
			m.deleteErr = MsgReauthenticate
			return yuva.ErrReauthenticationRequired
		}
		s = m.session
		m.phase = PhaseProcessing
		m.deleteErr = ""
		m.progress = ""
		return nil
	})
	if err != nil {
		return deletion.Outcome{}, err
	}

	out := m.runner.Run(ctx, s, func(msg string) {
		_ = m.update(func() error {
			m.progress = msg
			return nil
		})
	})

	_ = m.update(func() error {
		m.progress = ""
		m.deleted = out.Deleted()
		switch out.Kind {
		case deletion.KindSuccess:
			m.phase = PhaseSucceeded
			m.session = nil
			m.confirmation = ""
		case deletion.KindRequiresReauthentication:
			m.phase = PhaseAwaitingConfirmation
			m.stale = true
			m.deleteErr = OutcomeMessage(out.Kind)
		default:
			m.phase = PhaseAwaitingConfirmation
			m.deleteErr = OutcomeMessage(out.Kind)
		}
		return nil
	})
	return out, nil
}
