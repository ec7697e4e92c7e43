package flow

import (
	"github.com/jozzer182/Yuva/deletion"
	"github.com/jozzer182/Yuva/identity"
)

// User-facing messages.
const (
	MsgLoginCancelled       = "Inicio de sesión cancelado."
	MsgLoginConflict        = "Ya existe una cuenta con este correo usando otro método de inicio de sesión."
	MsgLoginInvalid         = "Correo o contraseña incorrectos."
	MsgLoginRateLimited     = "Demasiados intentos fallidos. Por favor espera unos minutos."
	MsgLoginIncomplete      = "Por favor ingresa tu correo y contraseña."
	MsgLoginFederatedFailed = "Error al iniciar sesión con Google. Por favor intenta de nuevo."
	MsgLoginFailed          = "Error al iniciar sesión. Por favor intenta de nuevo."

	MsgReauthenticate = "Por seguridad, necesitas volver a iniciar sesión antes de eliminar tu cuenta. Por favor cierra sesión e inicia sesión de nuevo."
	MsgDeleteFailed   = "Error al eliminar la cuenta. Por favor intenta de nuevo o contacta a soporte."
	MsgDeleted        = "Tu cuenta y todos tus datos han sido eliminados."
)

// LoginMessage maps a sign-in failure to the message shown on the login view.
func LoginMessage(kind identity.Kind, method identity.Method) string {
	switch kind {
	case identity.KindCancelled:
		return MsgLoginCancelled
	case identity.KindConflictingCredential:
		return MsgLoginConflict
	case identity.KindInvalidCredential:
		return MsgLoginInvalid
	case identity.KindRateLimited:
		return MsgLoginRateLimited
	case identity.KindIncomplete:
		return MsgLoginIncomplete
	}
	if method == identity.MethodFederated {
		return MsgLoginFederatedFailed
	}
	return MsgLoginFailed
}

// OutcomeMessage maps a run outcome to the message shown after it.
func OutcomeMessage(kind deletion.Kind) string {
	switch kind {
	case deletion.KindSuccess:
		return MsgDeleted
	case deletion.KindRequiresReauthentication:
		return MsgReauthenticate
	default:
		return MsgDeleteFailed
	}
}
