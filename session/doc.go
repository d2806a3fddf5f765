// Package session defines the ephemeral per-caller authentication
// session — its phase machine and its single-slot persistence.
//
// A Session is not an account: it holds a weak reference to an identity
// plus the phase the caller has reached (anonymous, password verified
// awaiting MFA, authenticated). Stores persist exactly one current
// session, mirroring the browser-local storage the storefront demo
// replaces.
package session
