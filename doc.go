// Package yuva implements a self-service account deletion engine.
//
// A signed-in user confirms an irreversible intent by typing a fixed phrase,
// after which the engine removes every record owned by the user's subject
// identifier across independent resource collections and finally removes the
// identity itself from the identity provider.
//
// # Architecture
//
// Cleanup work is expressed as an ordered [cleanup.Plan]: tolerated
// collection steps followed by exactly one terminal identity removal step.
// The [deletion.Orchestrator] drives a plan sequentially. Failures of
// collection steps are recorded and absorbed; failure of the removal step
// classifies the run as either requiring re-authentication or failed.
//
// The [flow.Machine] owns the session lifecycle and the workflow phases
// (logged out, awaiting confirmation, processing, succeeded) independently
// of any rendering technology.
//
// Persistence backends implement [resource.Store]: memory, MongoDB,
// PostgreSQL (pgx), Bun and Redis.
//
// # Quick Start
//
//	eng, err := engine.New(store, provider,
//	    engine.WithLogger(logger),
//	    engine.WithCollections(cleanup.DefaultCollections()...),
//	)
//	m := eng.NewFlow()
//	_ = m.SignIn(ctx, identity.PasswordCredential(email, password))
//	m.SetConfirmation("eliminar")
//	outcome, err := m.Submit(ctx)
package yuva
