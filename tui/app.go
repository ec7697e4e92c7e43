// Package tui is the terminal surface of the account deletion workflow.
// It is a bubbletea model over a flow.Machine: every phase of the machine
// has one view and exactly one view is rendered at a time.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jozzer182/Yuva/deletion"
	"github.com/jozzer182/Yuva/flow"
	"github.com/jozzer182/Yuva/identity"
)

// MachineFactory builds the workflow machine the App drives. The App
// passes its own observer; engine.Engine.NewFlow has this signature.
type MachineFactory func(opts ...flow.Option) *flow.Machine

// Option customizes App construction.
type Option func(*App)

// WithFederatedProvider sets the provider ID used for federated sign-in
// (ctrl+g on the login view). Defaults to "google.com".
func WithFederatedProvider(id string) Option {
	return func(a *App) {
		if id != "" {
			a.federatedProvider = id
		}
	}
}

type loginField int

const (
	fieldEmail loginField = iota
	fieldPassword
)

// stateMsg signals that the machine changed.
type stateMsg struct{}

// QuitMsg asks the App to exit, e.g. on SIGTERM. While a deletion runs the
// exit is deferred until the run has finished.
type QuitMsg struct{}

type signInDoneMsg struct{ err error }

type submitDoneMsg struct {
	outcome deletion.Outcome
	err     error
}

type cancelDoneMsg struct{ err error }

// App is the bubbletea model.
type App struct {
	ctx     context.Context
	machine *flow.Machine
	updates chan struct{}
	state   flow.State

	email    textinput.Model
	password textinput.Model
	token    textinput.Model
	confirm  textinput.Model
	focus    loginField

	federated         bool
	federatedProvider string
	busy              bool
	quitPending       bool
	spinner           spinner.Model

	width  int
	height int
}

// New creates the App and its machine.
func New(ctx context.Context, factory MachineFactory, opts ...Option) *App {
	a := &App{
		ctx:               ctx,
		updates:           make(chan struct{}, 1),
		federatedProvider: "google.com",
	}
	for _, opt := range opts {
		opt(a)
	}

	a.machine = factory(flow.WithObserver(a.observe))
	a.state = a.machine.State()

	a.email = textinput.New()
	a.email.Placeholder = "correo@ejemplo.com"
	a.email.Prompt = "Correo: "
	a.email.Focus()

	a.password = textinput.New()
	a.password.Prompt = "Contraseña: "
	a.password.EchoMode = textinput.EchoPassword
	a.password.EchoCharacter = '•'

	a.token = textinput.New()
	a.token.Prompt = "Token de " + a.federatedProvider + ": "

	a.confirm = textinput.New()
	a.confirm.Placeholder = a.machine.Gate().Phrase()
	a.confirm.Prompt = "> "

	a.spinner = spinner.New()
	a.spinner.Spinner = spinner.Dot
	a.spinner.Style = spinnerStyle
	return a
}

// Machine returns the workflow machine the App drives.
func (a *App) Machine() *flow.Machine { return a.machine }

// observe runs on whatever goroutine changed the machine. Snapshots are
// not queued: the model re-reads the machine when it wakes up.
func (a *App) observe(flow.State) {
	select {
	case a.updates <- struct{}{}:
	default:
	}
}

func (a *App) waitForState() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-a.updates:
			return stateMsg{}
		case <-a.ctx.Done():
			return nil
		}
	}
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.waitForState())
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case stateMsg:
		a.setState(a.machine.State())
		return a, a.waitForState()

	case signInDoneMsg:
		a.busy = false
		a.setState(a.machine.State())
		return a, nil

	case submitDoneMsg:
		a.busy = false
		a.setState(a.machine.State())
		if a.quitPending {
			return a, tea.Quit
		}
		return a, nil

	case QuitMsg:
		if a.processing() {
			a.quitPending = true
			return a, nil
		}
		return a, tea.Quit

	case cancelDoneMsg:
		a.busy = false
		a.setState(a.machine.State())
		return a, nil

	case spinner.TickMsg:
		if !a.busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			if a.processing() {
				return a, nil
			}
			return a, tea.Quit
		}
		if a.busy {
			return a, nil
		}
		switch a.state.Phase {
		case flow.PhaseLoggedOut:
			return a.updateLogin(msg)
		case flow.PhaseAwaitingConfirmation:
			return a.updateConfirm(msg)
		case flow.PhaseSucceeded:
			switch msg.String() {
			case "enter", "esc", "q":
				return a, tea.Quit
			}
		}
		return a, nil
	}
	return a, nil
}

// processing reports whether a deletion run is in flight. A run cannot be
// interrupted once it has started.
func (a *App) processing() bool {
	return a.machine.State().Phase == flow.PhaseProcessing
}

func (a *App) setState(s flow.State) {
	prev := a.state.Phase
	a.state = s
	if prev == s.Phase {
		return
	}
	switch s.Phase {
	case flow.PhaseLoggedOut:
		a.password.SetValue("")
		a.token.SetValue("")
		a.focusLogin(fieldEmail)
	case flow.PhaseAwaitingConfirmation:
		a.confirm.SetValue(s.Confirmation)
		a.confirm.Focus()
	}
}

func (a *App) focusLogin(f loginField) {
	a.focus = f
	a.email.Blur()
	a.password.Blur()
	a.token.Blur()
	switch {
	case a.federated:
		a.token.Focus()
	case f == fieldEmail:
		a.email.Focus()
	default:
		a.password.Focus()
	}
}

func (a *App) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+g":
		a.federated = !a.federated
		a.focusLogin(fieldEmail)
		return a, nil
	case "tab", "shift+tab", "up", "down":
		if !a.federated {
			a.focusLogin(1 - a.focus)
		}
		return a, nil
	case "enter":
		var cred identity.Credential
		if a.federated {
			cred = identity.FederatedCredential(a.federatedProvider, a.token.Value())
		} else {
			cred = identity.PasswordCredential(a.email.Value(), a.password.Value())
		}
		a.busy = true
		return a, tea.Batch(a.signIn(cred), a.spinner.Tick)
	}

	var cmd tea.Cmd
	switch {
	case a.federated:
		a.token, cmd = a.token.Update(msg)
	case a.focus == fieldEmail:
		a.email, cmd = a.email.Update(msg)
	default:
		a.password, cmd = a.password.Update(msg)
	}
	return a, cmd
}

func (a *App) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.busy = true
		return a, a.cancel()
	case "enter":
		if !a.state.CanSubmit {
			return a, nil
		}
		a.busy = true
		return a, tea.Batch(a.submit(), a.spinner.Tick)
	}

	var cmd tea.Cmd
	a.confirm, cmd = a.confirm.Update(msg)
	if a.confirm.Value() != a.state.Confirmation {
		_ = a.machine.SetConfirmation(a.confirm.Value())
		a.state = a.machine.State()
	}
	return a, cmd
}

func (a *App) signIn(cred identity.Credential) tea.Cmd {
	return func() tea.Msg {
		return signInDoneMsg{err: a.machine.SignIn(a.ctx, cred)}
	}
}

func (a *App) submit() tea.Cmd {
	return func() tea.Msg {
		// Only the step and removal timeouts bound the run.
		out, err := a.machine.Submit(context.WithoutCancel(a.ctx))
		return submitDoneMsg{outcome: out, err: err}
	}
}

func (a *App) cancel() tea.Cmd {
	return func() tea.Msg {
		return cancelDoneMsg{err: a.machine.Cancel(a.ctx)}
	}
}
