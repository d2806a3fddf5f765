// Package password provides the candidate-strength evaluator used to
// gate registration and reset, plus the credential codecs that turn a
// plaintext password into the opaque digest stored on an identity.
//
// Two codecs ship with the engine: [Plain], the reversible demo
// encoding the storefront simulation uses, and [Argon2], a real
// Argon2id KDF for deployments that outgrow the demo. Both satisfy
// [Codec], so swapping them requires no engine changes.
package password
