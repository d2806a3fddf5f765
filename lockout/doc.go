// Package lockout implements the failed-attempt counting and time-boxed
// account lock policy applied by the engine during login.
//
// The policy is pure: it operates on a [State] value and returns an
// updated one. Persisting the result is the caller's job, which keeps
// the policy trivially testable and free of clock or storage globals.
package lockout
