// Package flow holds the self-service deletion workflow independent of any
// rendering technology.
//
// A [Machine] owns the signed-in session and moves through four phases:
//
//	LoggedOut ──SignIn──▶ AwaitingConfirmation ──Submit──▶ Processing ──▶ Succeeded
//	    ▲                        │    ▲                        │
//	    └────────Cancel──────────┘    └──── reauth / failed ───┘
//
// Submit is only accepted once the [Gate] matches the typed confirmation.
// A presentation layer calls the transition methods and renders
// [State] snapshots delivered to its observer.
package flow
