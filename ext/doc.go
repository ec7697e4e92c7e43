// Package ext defines the extension system for Yuva.
//
// Extensions are notified of deletion lifecycle events and can react to
// them, for example by recording metrics or invalidating caches.
// Each lifecycle hook is a separate interface so extensions opt in only
// to the events they care about.
//
// # Implementing an Extension
//
//	type MyExtension struct{}
//
//	func (e *MyExtension) Name() string { return "my-extension" }
//
//	func (e *MyExtension) OnStepFinished(ctx context.Context, runID id.RunID, res cleanup.Result) error {
//	    log.Printf("%s: %s %s", runID, res.Step, res.Status)
//	    return nil
//	}
//
// # Hooks
//
//   - [DeletionStarted] a run began
//   - [StepFinished] a cleanup step finished (completed, skipped or failed)
//   - [IdentityRemoved] the identity was removed; the run succeeded
//   - [ReauthenticationRequired] removal was refused for a stale sign-in
//   - [DeletionFailed] removal failed for any other reason
//
// The [Registry] fans out each event to all registered extensions that
// implement the corresponding hook interface. Hook errors are logged and
// dropped.
package ext
