package yuva

import "errors"

var (
	// Collaborator errors.
	ErrNoStore            = errors.New("yuva: no resource store configured")
	ErrNoIdentityProvider = errors.New("yuva: no identity provider configured")
	ErrUnknownDriver      = errors.New("yuva: unknown store driver")

	// Plan errors.
	ErrEmptyPlan         = errors.New("yuva: plan has no removal step")
	ErrInvalidCollection = errors.New("yuva: invalid collection reference")
	ErrDuplicateStep     = errors.New("yuva: duplicate step name")

	// Store errors.
	ErrBatchIncomplete = errors.New("yuva: batch delete removed fewer records than matched")

	// Workflow errors.
	ErrInvalidPhase             = errors.New("yuva: invalid phase transition")
	ErrNotConfirmed             = errors.New("yuva: confirmation phrase not entered")
	ErrNotAuthenticated         = errors.New("yuva: no authenticated session")
	ErrReauthenticationRequired = errors.New("yuva: session must re-authenticate before retrying")
)
