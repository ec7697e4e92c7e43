// Package deletion runs a cleanup plan for one authenticated subject and
// classifies the result.
//
// [Orchestrator.Run] executes every tolerated step of the plan strictly in
// order, reporting a progress message before each one, and then attempts
// identity removal exactly once. Cleanup failures are recorded in the
// [Outcome] and never stop the run. Only the removal decides the outcome:
//
//	removal succeeded               → KindSuccess
//	provider demands a fresh login  → KindRequiresReauthentication
//	anything else                   → KindFailed
//
// Records deleted before a failed removal stay deleted. A later run for the
// same subject finds nothing for them and reports those steps as skipped.
package deletion
