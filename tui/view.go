package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jozzer182/Yuva/flow"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF5F87")).
			MarginBottom(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5F5F87")).
			Padding(1, 2)

	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAF00"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD787")).Bold(true)
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).MarginTop(1)
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
)

// View renders the view of the current phase.
func (a *App) View() string {
	var body string
	switch {
	case a.state.Visible(flow.PhaseLoggedOut):
		body = a.loginView()
	case a.state.Visible(flow.PhaseAwaitingConfirmation):
		body = a.confirmView()
	case a.state.Visible(flow.PhaseProcessing):
		body = a.processingView()
	case a.state.Visible(flow.PhaseSucceeded):
		body = a.successView()
	}

	box := boxStyle
	if a.width > 8 {
		box = box.Width(min(a.width-4, 72))
	}
	return box.Render(body) + "\n"
}

func (a *App) loginView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Eliminar cuenta"))
	b.WriteString("\nInicia sesión para continuar.\n\n")

	if a.federated {
		b.WriteString(a.token.View())
	} else {
		b.WriteString(a.email.View())
		b.WriteString("\n")
		b.WriteString(a.password.View())
	}
	b.WriteString("\n")

	if a.busy {
		fmt.Fprintf(&b, "\n%s Iniciando sesión...\n", a.spinner.View())
	}
	if a.state.LoginError != "" {
		b.WriteString("\n" + errorStyle.Render(a.state.LoginError) + "\n")
	}

	mode := "ctrl+g: iniciar con " + a.federatedProvider
	if a.federated {
		mode = "ctrl+g: usar correo y contraseña"
	}
	b.WriteString(hintStyle.Render("enter: iniciar sesión · tab: cambiar campo · " + mode + " · ctrl+c: salir"))
	return b.String()
}

func (a *App) confirmView() string {
	phrase := a.machine.Gate().Phrase()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Eliminar cuenta"))
	fmt.Fprintf(&b, "\nSesión iniciada como %s.\n\n", a.state.Email)
	b.WriteString(warnStyle.Render("Esta acción es permanente. Se eliminarán tu perfil, tus trabajos, tus conversaciones y tus notificaciones."))
	fmt.Fprintf(&b, "\n\nEscribe %s para confirmar:\n", phrase)
	b.WriteString(a.confirm.View())
	b.WriteString("\n")

	if a.state.DeleteError != "" {
		b.WriteString("\n" + errorStyle.Render(a.state.DeleteError) + "\n")
	}

	submit := "enter: eliminar"
	if !a.state.CanSubmit {
		submit = "enter: (escribe " + phrase + ")"
	}
	b.WriteString(hintStyle.Render(submit + " · esc: cerrar sesión · ctrl+c: salir"))
	return b.String()
}

func (a *App) processingView() string {
	progress := a.state.Progress
	if progress == "" {
		progress = "Preparando..."
	}
	return titleStyle.Render("Eliminando cuenta") + "\n" +
		a.spinner.View() + " " + progress + "\n" +
		hintStyle.Render("No cierres esta ventana.")
}

func (a *App) successView() string {
	var b strings.Builder
	b.WriteString(successStyle.Render("Cuenta eliminada"))
	b.WriteString("\n\n" + flow.MsgDeleted + "\n")
	if a.state.Deleted > 0 {
		fmt.Fprintf(&b, "Registros eliminados: %d\n", a.state.Deleted)
	}
	b.WriteString(hintStyle.Render("enter: salir"))
	return b.String()
}
