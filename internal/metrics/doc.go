// Package metrics holds the engine's internal counters.
//
// The collector is a fixed array of atomic counters indexed by ID, so
// incrementing on hot paths never allocates or takes a lock. A nil
// *Metrics is the disabled form and is safe to call.
package metrics
