package metrics

import "sync/atomic"

// ID identifies a single counter.
type ID int

const (
	LoginSuccess ID = iota
	LoginFailure
	AccountLockout
	MFASuccess
	MFAFailure
	RegisterSuccess
	RegisterRejected
	ResetRequest
	ResetComplete
	ResetFailure
	Logout

	idCount
)

var names = [idCount]string{
	LoginSuccess:     "login_success",
	LoginFailure:     "login_failure",
	AccountLockout:   "account_lockout",
	MFASuccess:       "mfa_success",
	MFAFailure:       "mfa_failure",
	RegisterSuccess:  "register_success",
	RegisterRejected: "register_rejected",
	ResetRequest:     "reset_request",
	ResetComplete:    "reset_complete",
	ResetFailure:     "reset_failure",
	Logout:           "logout",
}

// String returns the snake_case name of the counter.
func (id ID) String() string {
	if id < 0 || id >= idCount {
		return "unknown"
	}
	return names[id]
}

// Metrics is a fixed set of lock-free counters. A nil *Metrics is a
// valid disabled instance: all methods are no-ops returning zeros.
type Metrics struct {
	counters [idCount]atomic.Uint64
}

// New returns a collector, or nil when disabled.
func New(enabled bool) *Metrics {
	if !enabled {
		return nil
	}
	return &Metrics{}
}

// Inc increments the counter by one.
func (m *Metrics) Inc(id ID) {
	if m == nil || id < 0 || id >= idCount {
		return
	}
	m.counters[id].Add(1)
}

// Value returns the current value of a single counter.
func (m *Metrics) Value(id ID) uint64 {
	if m == nil || id < 0 || id >= idCount {
		return 0
	}
	return m.counters[id].Load()
}

// Snapshot returns all non-zero counters keyed by name.
func (m *Metrics) Snapshot() map[string]uint64 {
	if m == nil {
		return nil
	}
	out := make(map[string]uint64)
	for id := ID(0); id < idCount; id++ {
		if v := m.counters[id].Load(); v != 0 {
			out[id.String()] = v
		}
	}
	return out
}
