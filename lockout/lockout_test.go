package lockout

import (
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestOnFailureIncrementsBelowThreshold(t *testing.T) {
	p := Default()
	s := State{}

	for i := 1; i < p.MaxAttempts; i++ {
		s = p.OnFailure(s, testNow)
		if s.FailedAttempts != i {
			t.Fatalf("after %d failures: FailedAttempts = %d", i, s.FailedAttempts)
		}
		if !s.LockedUntil.IsZero() {
			t.Fatalf("after %d failures: unexpected lock at %v", i, s.LockedUntil)
		}
	}
}

func TestOnFailureLocksAtThreshold(t *testing.T) {
	p := Default()
	s := State{FailedAttempts: 4}

	s = p.OnFailure(s, testNow)

	if want := testNow.Add(DefaultLockDuration); !s.LockedUntil.Equal(want) {
		t.Fatalf("LockedUntil = %v, want %v", s.LockedUntil, want)
	}
	if s.FailedAttempts != 0 {
		t.Fatalf("counter not cleared on lock: %d", s.FailedAttempts)
	}
	if !p.IsLocked(s, testNow) {
		t.Fatal("expected locked state")
	}
}

func TestLockExpires(t *testing.T) {
	p := Default()
	s := p.OnFailure(State{FailedAttempts: 4}, testNow)

	if !p.IsLocked(s, testNow.Add(DefaultLockDuration-time.Second)) {
		t.Fatal("lock released early")
	}
	if p.IsLocked(s, testNow.Add(DefaultLockDuration)) {
		t.Fatal("lock held at expiry instant")
	}
	if p.IsLocked(s, testNow.Add(DefaultLockDuration+time.Second)) {
		t.Fatal("lock held past expiry")
	}
}

func TestRemaining(t *testing.T) {
	p := Default()
	s := p.OnFailure(State{FailedAttempts: 4}, testNow)

	if got := p.Remaining(s, testNow.Add(2*time.Minute)); got != 3*time.Minute {
		t.Fatalf("Remaining = %v, want 3m", got)
	}
	if got := p.Remaining(State{}, testNow); got != 0 {
		t.Fatalf("Remaining on unlocked state = %v", got)
	}
}

func TestOnSuccessClearsEverything(t *testing.T) {
	p := Default()
	s := State{FailedAttempts: 3, LockedUntil: testNow.Add(time.Minute)}

	s = p.OnSuccess(s)

	if s.FailedAttempts != 0 || !s.LockedUntil.IsZero() {
		t.Fatalf("OnSuccess left residue: %+v", s)
	}
}

func TestCustomThreshold(t *testing.T) {
	p := Policy{MaxAttempts: 2, LockDuration: time.Minute}
	s := p.OnFailure(State{}, testNow)
	if p.IsLocked(s, testNow) {
		t.Fatal("locked after one failure with threshold 2")
	}
	s = p.OnFailure(s, testNow)
	if !p.IsLocked(s, testNow) {
		t.Fatal("not locked at threshold 2")
	}
}
