package securecart_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/securecart/securecart"
)

// failLogin asserts one wrong-password attempt yields err matching want.
func failLogin(t *testing.T, env *testEnv, want error) error {
	t.Helper()

	err := env.engine.Login(context.Background(), testEmail, "wrong-password")
	if !errors.Is(err, want) {
		t.Fatalf("got %v, want %v", err, want)
	}
	return err
}

func TestFifthFailureLocksAccount(t *testing.T) {
	env := newTestEnv(t)
	env.register(t)

	for i := 0; i < 4; i++ {
		failLogin(t, env, securecart.ErrInvalidCredentials)
	}
	err := failLogin(t, env, securecart.ErrAccountLocked)

	var locked *securecart.AccountLockedError
	if !errors.As(err, &locked) {
		t.Fatalf("got %T, want *AccountLockedError", err)
	}
	if locked.RetryIn != 5*time.Minute {
		t.Fatalf("RetryIn = %v, want 5m", locked.RetryIn)
	}
}

func TestLockedAccountRejectsCorrectPassword(t *testing.T) {
	env := newTestEnv(t)
	env.register(t)

	for i := 0; i < 5; i++ {
		_ = env.engine.Login(context.Background(), testEmail, "wrong-password")
	}

	err := env.engine.Login(context.Background(), testEmail, testPassword)
	if !errors.Is(err, securecart.ErrAccountLocked) {
		t.Fatalf("got %v, want ErrAccountLocked", err)
	}
}

func TestAttemptsDuringLockDoNotExtendIt(t *testing.T) {
	env := newTestEnv(t)
	identity := env.register(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_ = env.engine.Login(ctx, testEmail, "wrong-password")
	}
	lockedAt, err := env.store.FindByID(ctx, identity.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}

	env.clock.Advance(2 * time.Minute)
	failLogin(t, env, securecart.ErrAccountLocked)

	after, err := env.store.FindByID(ctx, identity.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if !after.LockedUntil.Equal(lockedAt.LockedUntil) {
		t.Fatalf("LockedUntil moved from %v to %v", lockedAt.LockedUntil, after.LockedUntil)
	}
}

func TestLockExpiresAndCounterRestartsFresh(t *testing.T) {
	env := newTestEnv(t)
	env.register(t)

	for i := 0; i < 5; i++ {
		_ = env.engine.Login(context.Background(), testEmail, "wrong-password")
	}

	env.clock.Advance(5*time.Minute + time.Second)

	// The lock cleared the counter, so four more failures stay below
	// the threshold.
	for i := 0; i < 4; i++ {
		failLogin(t, env, securecart.ErrInvalidCredentials)
	}
	env.login(t)
}

func TestLockoutEmitsWarningAuditAndMetric(t *testing.T) {
	env := newTestEnv(t)
	identity := env.register(t)

	for i := 0; i < 5; i++ {
		_ = env.engine.Login(context.Background(), testEmail, "wrong-password")
	}

	snap := env.engine.MetricsSnapshot()
	if snap["account_lockout"] != 1 {
		t.Fatalf("account_lockout = %d, want 1", snap["account_lockout"])
	}
	if snap["login_failure"] != 5 {
		t.Fatalf("login_failure = %d, want 5", snap["login_failure"])
	}

	events := env.drainAudit()
	ev := requireAudit(t, events, "account_lockout", securecart.OutcomeWarning)
	if ev.Subject != identity.ID {
		t.Fatalf("subject = %q, want %q", ev.Subject, identity.ID)
	}
}
