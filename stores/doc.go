// Package stores provides ready-made IdentityStore backends: an
// in-memory map for demos and tests, and a Redis store for state that
// must outlive the process.
//
// Both enforce the same contract: exact case-sensitive email lookup,
// duplicate rejection on insert, and atomic read-modify-write through
// Update. The Redis store uses WATCH so concurrent Updates retry
// instead of clobbering each other.
package stores
