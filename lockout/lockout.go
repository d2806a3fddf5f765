package lockout

import "time"

const (
	// DefaultMaxAttempts is the number of consecutive credential
	// failures after which an identity is locked.
	DefaultMaxAttempts = 5

	// DefaultLockDuration is how long a triggered lock refuses logins.
	DefaultLockDuration = 5 * time.Minute
)

// State is the lockout-relevant slice of an identity record. A zero
// LockedUntil means the identity is not locked.
type State struct {
	FailedAttempts int
	LockedUntil    time.Time
}

// Policy holds the lockout thresholds. The zero value is not usable;
// construct via [Default] or fill both fields.
type Policy struct {
	MaxAttempts  int
	LockDuration time.Duration
}

// Default returns the stock 5-failures / 5-minute policy.
func Default() Policy {
	return Policy{
		MaxAttempts:  DefaultMaxAttempts,
		LockDuration: DefaultLockDuration,
	}
}

// OnFailure records one failed credential check. When the updated
// counter reaches MaxAttempts the returned state carries a lock expiring
// at now+LockDuration and the counter is cleared to zero, so the count
// restarts fresh after the lock expires.
//
// Failures while already locked are a caller error: the engine rejects
// locked identities before verifying credentials, so a lock is never
// extended by attempts made during its window.
func (p Policy) OnFailure(s State, now time.Time) State {
	s.FailedAttempts++
	if s.FailedAttempts >= p.MaxAttempts {
		return State{
			FailedAttempts: 0,
			LockedUntil:    now.Add(p.LockDuration),
		}
	}
	return s
}

// OnSuccess clears the counter and any lock after a successful
// credential verification.
func (p Policy) OnSuccess(State) State {
	return State{}
}

// IsLocked reports whether the state refuses logins at the given time.
func (p Policy) IsLocked(s State, now time.Time) bool {
	return !s.LockedUntil.IsZero() && s.LockedUntil.After(now)
}

// Remaining returns how long the lock still holds, or zero when the
// state is not locked.
func (p Policy) Remaining(s State, now time.Time) time.Duration {
	if !p.IsLocked(s, now) {
		return 0
	}
	return s.LockedUntil.Sub(now)
}
