package metrics

import (
	"sync"
	"testing"
)

func TestIncAndValue(t *testing.T) {
	m := New(true)
	m.Inc(LoginSuccess)
	m.Inc(LoginSuccess)
	m.Inc(AccountLockout)

	if got := m.Value(LoginSuccess); got != 2 {
		t.Fatalf("LoginSuccess = %d, want 2", got)
	}
	if got := m.Value(AccountLockout); got != 1 {
		t.Fatalf("AccountLockout = %d, want 1", got)
	}
	if got := m.Value(LoginFailure); got != 0 {
		t.Fatalf("LoginFailure = %d, want 0", got)
	}
}

func TestDisabledIsNil(t *testing.T) {
	m := New(false)
	if m != nil {
		t.Fatal("disabled collector should be nil")
	}
	m.Inc(LoginSuccess)
	if m.Value(LoginSuccess) != 0 {
		t.Fatal("nil collector reported a value")
	}
	if m.Snapshot() != nil {
		t.Fatal("nil collector returned a snapshot")
	}
}

func TestSnapshotSkipsZeros(t *testing.T) {
	m := New(true)
	m.Inc(ResetRequest)
	m.Inc(ResetComplete)

	snap := m.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("snapshot has %d entries, want 2", len(snap))
	}
	if snap["reset_request"] != 1 || snap["reset_complete"] != 1 {
		t.Fatalf("unexpected snapshot: %v", snap)
	}
}

func TestConcurrentInc(t *testing.T) {
	m := New(true)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				m.Inc(MFASuccess)
			}
		}()
	}
	wg.Wait()
	if got := m.Value(MFASuccess); got != 8000 {
		t.Fatalf("MFASuccess = %d, want 8000", got)
	}
}
