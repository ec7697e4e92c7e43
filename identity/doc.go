// Package identity defines the authenticated principal and the contract of
// the identity provider that issues and removes it.
//
// A [Session] is captured once at sign-in and carries the subject identifier
// (UID) used by every cleanup step. Sign-in failures are classified into an
// [AuthError] kind; removal failures distinguish [ErrStaleCredential], which
// requires the user to sign in again, from every other error.
//
// # Providers
//
//   - identity/memory: in-process accounts for development and tests
//   - identity/toolkit: Identity Toolkit REST API
package identity
