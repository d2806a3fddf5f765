package securecart_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/securecart/securecart"
	"github.com/securecart/securecart/stores"
)

const (
	testEmail    = "ada@example.com"
	testPassword = "Abc12345!"
	testMFACode  = "123456"
)

var testStart = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// fakeClock is a mutable time source shared with the engine under test.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock { return &fakeClock{t: testStart} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type testEnv struct {
	engine   *securecart.Engine
	store    *stores.Memory
	notifier *securecart.ChannelNotifier
	sink     *securecart.ChannelSink
	clock    *fakeClock
}

func testConfig() securecart.Config {
	return securecart.Config{
		Lockout:  securecart.LockoutConfig{MaxAttempts: 5, LockDuration: 5 * time.Minute},
		Password: securecart.PasswordConfig{MinScore: 3},
		Reset:    securecart.ResetConfig{TokenTTL: time.Hour},
		Token: securecart.TokenConfig{
			SigningKey: []byte("0123456789abcdef0123456789abcdef"),
			TTL:        time.Hour,
		},
		Account: securecart.AccountConfig{DefaultRole: securecart.RoleCustomer},
		Audit:   securecart.AuditConfig{Enabled: true, BufferSize: 128},
		Metrics: securecart.MetricsConfig{Enabled: true},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		store:    stores.NewMemory(),
		notifier: securecart.NewChannelNotifier(8),
		sink:     securecart.NewChannelSink(128),
		clock:    newFakeClock(),
	}

	engine, err := securecart.New().
		WithConfig(testConfig()).
		WithIdentityStore(env.store).
		WithNotifier(env.notifier).
		WithAuditSink(env.sink).
		WithClock(env.clock.Now).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(engine.Close)

	env.engine = engine
	return env
}

func (env *testEnv) register(t *testing.T) securecart.Identity {
	t.Helper()

	identity, err := env.engine.Register(context.Background(), securecart.RegisterInput{
		Email:    testEmail,
		Password: testPassword,
		FullName: "Ada Lovelace",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return identity
}

func (env *testEnv) login(t *testing.T) {
	t.Helper()

	if err := env.engine.Login(context.Background(), testEmail, testPassword); err != nil {
		t.Fatalf("Login: %v", err)
	}
}

func (env *testEnv) authenticate(t *testing.T) string {
	t.Helper()

	env.login(t)
	signed, err := env.engine.ConfirmMFA(context.Background(), testMFACode)
	if err != nil {
		t.Fatalf("ConfirmMFA: %v", err)
	}
	return signed
}

// drainAudit closes the engine and collects every event that reached
// the sink.
func (env *testEnv) drainAudit() []securecart.AuditEvent {
	env.engine.Close()

	var events []securecart.AuditEvent
	for {
		select {
		case ev := <-env.sink.Events():
			events = append(events, ev)
		default:
			return events
		}
	}
}

func requireAudit(t *testing.T, events []securecart.AuditEvent, action string, outcome securecart.Outcome) securecart.AuditEvent {
	t.Helper()

	for _, ev := range events {
		if ev.Action == action && ev.Outcome == outcome {
			return ev
		}
	}
	t.Fatalf("no %s event with outcome %s in %d events", action, outcome, len(events))
	return securecart.AuditEvent{}
}
