// Package engine wires the Yuva subsystems together and provides the
// application-level entry point.
//
// # Building an Engine
//
//	eng, err := engine.New(store, provider,
//	    engine.WithLogger(logger),
//	    engine.WithConfig(cfg),
//	    engine.WithCollections(cleanup.DefaultCollections()...),
//	    engine.WithExtension(myExtension),
//	)
//
// The engine always registers the observability metrics extension and
// installs the tracing, metrics, logging and annotate middleware around
// every step. Middleware added with [WithMiddleware] runs inside them.
//
// # Running a Deletion
//
// Interactive surfaces drive a workflow machine:
//
//	m := eng.NewFlow(flow.WithObserver(render))
//	m.SignIn(ctx, identity.PasswordCredential(email, password))
//	m.SetConfirmation("ELIMINAR")
//	out, err := m.Submit(ctx)
//
// Callers that already hold a session can run the orchestrator directly:
//
//	out := eng.Orchestrator().Run(ctx, session, nil)
package engine
