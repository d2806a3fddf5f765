// Package securecart provides the authentication engine behind the
// SecureCart storefront demo: registration, password login with a
// mandatory second factor, failure-driven account lockout, single-use
// password-reset tokens, and a persisted session that survives
// restarts.
//
// The engine is safe for concurrent use after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// securecart is the public surface. It exposes [Engine], [Builder],
// [Config], the collaborator interfaces ([IdentityStore], [AuditSink],
// [Notifier], [CodeVerifier]), and value types. Audit dispatch and
// metrics live under internal/ and are never exported directly; the
// reusable building blocks (password scoring and codecs, lockout
// policy, session encoding, token signing, identity stores) live in
// their own sub-packages so callers can substitute them.
//
// # What this package must NOT do
//
//   - Expose Redis clients or store encoding details in its public API.
//   - Perform I/O outside of Engine methods (construction via Builder
//     is allocation-only until Build).
//   - Import any sub-package that re-imports securecart.
//
// # Enumeration contract
//
// Login and password-reset paths must not reveal whether an email is
// registered. Unknown-email and wrong-password failures return the
// same error, take comparable time, and RequestPasswordReset returns
// the same shape either way.
package securecart
