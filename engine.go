package securecart

import (
	"context"
	"math/rand"
	"sync"
	"time"

	internalaudit "github.com/securecart/securecart/internal/audit"
	internalmetrics "github.com/securecart/securecart/internal/metrics"
	"github.com/securecart/securecart/password"
	"github.com/securecart/securecart/session"
	"github.com/securecart/securecart/token"
)

// Engine drives the storefront's authentication state machine. Build
// one through [Builder]; after Build all methods are safe for
// concurrent use.
//
// The engine owns a single current session, mirroring a browser tab:
// Login moves it to [PhaseMFAPending], ConfirmMFA to
// [PhaseAuthenticated], Logout and CancelMFA back to [PhaseAnonymous].
// Every transition is persisted through the configured [session.Store]
// so Restore can pick it up after a restart.
type Engine struct {
	config   Config
	store    IdentityStore
	sessions session.Store
	audit    *internalaudit.Dispatcher
	metrics  *internalmetrics.Metrics
	codec    password.Codec
	verifier CodeVerifier
	notifier Notifier
	tokens   *token.Manager

	// decoyDigest is verified against when the email is unknown, so
	// the unknown-email path costs the same as a wrong password.
	decoyDigest string

	now func() time.Time

	mu   sync.Mutex
	sess session.Session
}

// Close flushes and stops the audit dispatcher. It is idempotent.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// Current returns a copy of the engine's session state.
func (e *Engine) Current() Session {
	if e == nil {
		return session.Anonymous()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess
}

// AuditDropped reports how many audit events were discarded because
// the dispatcher buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns all non-zero counters keyed by name. It
// returns nil when metrics are disabled.
func (e *Engine) MetricsSnapshot() map[string]uint64 {
	if e == nil {
		return nil
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id internalmetrics.ID) {
	e.metrics.Inc(id)
}

// setSession swaps the current session and persists it. Persistence
// failures are audited, not returned: the in-memory transition already
// happened and must not be rolled back by a storage hiccup.
func (e *Engine) setSession(ctx context.Context, next session.Session) {
	e.mu.Lock()
	e.sess = next
	e.mu.Unlock()

	var err error
	if next.Phase == session.PhaseAnonymous {
		err = e.sessions.Clear(ctx)
	} else {
		err = e.sessions.Save(ctx, next)
	}
	if err != nil {
		e.emitAudit(ctx, auditEventSessionPersist, OutcomeWarning, next.IdentityID, map[string]string{
			"error": err.Error(),
		})
	}
}

// sleep pauses for a uniformly random duration in [min, max]. A zero
// max disables the pause.
func (e *Engine) sleep(min, max time.Duration) {
	if max <= 0 {
		return
	}
	d := min
	if span := max - min; span > 0 {
		d += time.Duration(rand.Int63n(int64(span) + 1))
	}
	time.Sleep(d)
}
