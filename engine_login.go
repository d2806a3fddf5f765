package securecart

import (
	"context"
	"errors"
	"time"

	internalmetrics "github.com/securecart/securecart/internal/metrics"
	"github.com/securecart/securecart/lockout"
	"github.com/securecart/securecart/session"
)

// Login verifies email and password and, on success, moves the session
// to [PhaseMFAPending]. It never authenticates by itself: the caller
// must follow up with [Engine.ConfirmMFA].
//
// Unknown email and wrong password both return
// [ErrInvalidCredentials]; a locked account returns
// [*AccountLockedError] without touching the failure counter. The
// failure that crosses the lockout threshold locks the account and
// returns [*AccountLockedError] immediately.
func (e *Engine) Login(ctx context.Context, email, plaintext string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	identity, err := e.store.FindByEmail(ctx, email)
	if errors.Is(err, ErrIdentityNotFound) {
		// Burn a verification anyway so this path is not measurably
		// faster than a wrong password.
		_, _ = e.codec.Verify(plaintext, e.decoyDigest)
		e.metricInc(internalmetrics.LoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, OutcomeWarning, SubjectUnknown, map[string]string{
			"email": email,
		})
		return ErrInvalidCredentials
	}
	if err != nil {
		return err
	}

	now := e.now()
	state := lockoutState(identity)
	if e.lockoutPolicy().IsLocked(state, now) {
		e.metricInc(internalmetrics.LoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, OutcomeFailure, identity.ID, map[string]string{
			"reason": "account_locked",
		})
		return &AccountLockedError{RetryIn: e.lockoutPolicy().Remaining(state, now)}
	}

	ok, err := e.codec.Verify(plaintext, identity.CredentialDigest)
	if err != nil {
		return err
	}
	if !ok {
		return e.recordLoginFailure(ctx, identity.ID, now)
	}

	if _, err := e.store.Update(ctx, identity.ID, func(id *Identity) error {
		next := e.lockoutPolicy().OnSuccess(lockoutState(*id))
		id.FailedAttempts = next.FailedAttempts
		id.LockedUntil = next.LockedUntil
		return nil
	}); err != nil {
		return err
	}

	e.metricInc(internalmetrics.LoginSuccess)
	e.emitAudit(ctx, auditEventLoginPasswordVerified, OutcomeSuccess, identity.ID, nil)
	e.setSession(ctx, session.Session{
		IdentityID: identity.ID,
		Phase:      session.PhaseMFAPending,
		CreatedAt:  now,
	})
	return nil
}

// recordLoginFailure bumps the failure counter atomically and locks the
// account when the threshold is reached.
func (e *Engine) recordLoginFailure(ctx context.Context, identityID string, now time.Time) error {
	var next lockout.State
	if _, err := e.store.Update(ctx, identityID, func(id *Identity) error {
		next = e.lockoutPolicy().OnFailure(lockoutState(*id), now)
		id.FailedAttempts = next.FailedAttempts
		id.LockedUntil = next.LockedUntil
		return nil
	}); err != nil {
		return err
	}

	e.metricInc(internalmetrics.LoginFailure)
	e.emitAudit(ctx, auditEventLoginFailure, OutcomeFailure, identityID, map[string]string{
		"reason": "credential_mismatch",
	})

	if e.lockoutPolicy().IsLocked(next, now) {
		e.metricInc(internalmetrics.AccountLockout)
		e.emitAudit(ctx, auditEventAccountLockout, OutcomeWarning, identityID, map[string]string{
			"lock_duration": e.config.Lockout.LockDuration.String(),
		})
		return &AccountLockedError{RetryIn: e.lockoutPolicy().Remaining(next, now)}
	}
	return ErrInvalidCredentials
}

// ConfirmMFA checks the second-factor code for the pending login and,
// on success, issues a signed token and moves the session to
// [PhaseAuthenticated]. A wrong code returns [ErrMFAMismatch] and
// leaves the session in [PhaseMFAPending] so the caller can retry.
func (e *Engine) ConfirmMFA(ctx context.Context, code string) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}

	current := e.Current()
	if current.Phase != session.PhaseMFAPending {
		return "", ErrNotAwaitingMFA
	}

	if d := e.config.MFA.ConfirmDelay; d > 0 {
		e.sleep(d, d)
	}

	identity, err := e.store.FindByID(ctx, current.IdentityID)
	if err != nil {
		return "", err
	}

	now := e.now()
	if !e.verifier.Verify(identity.MFASecret, code, now) {
		e.metricInc(internalmetrics.MFAFailure)
		e.emitAudit(ctx, auditEventMFAVerify, OutcomeFailure, identity.ID, nil)
		return "", ErrMFAMismatch
	}

	signed, err := e.tokens.Issue(identity.ID, string(identity.Role), now)
	if err != nil {
		return "", err
	}

	e.metricInc(internalmetrics.MFASuccess)
	e.emitAudit(ctx, auditEventMFAVerify, OutcomeSuccess, identity.ID, nil)
	e.setSession(ctx, session.Session{
		IdentityID: identity.ID,
		Phase:      session.PhaseAuthenticated,
		Token:      signed,
		CreatedAt:  current.CreatedAt,
	})
	return signed, nil
}

// CancelMFA abandons a pending second-factor confirmation and returns
// the session to [PhaseAnonymous].
func (e *Engine) CancelMFA(ctx context.Context) error {
	if e == nil {
		return ErrEngineNotReady
	}

	current := e.Current()
	if current.Phase != session.PhaseMFAPending {
		return ErrNotAwaitingMFA
	}

	e.emitAudit(ctx, auditEventMFACancelled, OutcomeSuccess, current.IdentityID, nil)
	e.setSession(ctx, session.Anonymous())
	return nil
}

// Logout ends an authenticated session. Calling it in any other phase
// returns [ErrNotAuthenticated].
func (e *Engine) Logout(ctx context.Context) error {
	if e == nil {
		return ErrEngineNotReady
	}

	current := e.Current()
	if current.Phase != session.PhaseAuthenticated {
		return ErrNotAuthenticated
	}

	e.metricInc(internalmetrics.Logout)
	e.emitAudit(ctx, auditEventLogout, OutcomeSuccess, current.IdentityID, nil)
	e.setSession(ctx, session.Anonymous())
	return nil
}

// Restore loads the persisted session, if any, and adopts it as the
// engine's current state. An authenticated session whose token no
// longer verifies degrades to anonymous rather than erroring: a stale
// blob must never grant access.
func (e *Engine) Restore(ctx context.Context) (Session, error) {
	if e == nil {
		return session.Anonymous(), ErrEngineNotReady
	}

	persisted, err := e.sessions.Load(ctx)
	if errors.Is(err, session.ErrNotPersisted) {
		e.mu.Lock()
		e.sess = session.Anonymous()
		e.mu.Unlock()
		return session.Anonymous(), nil
	}
	if err != nil {
		return session.Anonymous(), err
	}

	if persisted.Phase == session.PhaseAuthenticated {
		if _, err := e.tokens.Parse(persisted.Token); err != nil {
			e.emitAudit(ctx, auditEventSessionRestored, OutcomeWarning, persisted.IdentityID, map[string]string{
				"reason": "token_invalid",
			})
			e.setSession(ctx, session.Anonymous())
			return session.Anonymous(), nil
		}
	}

	e.mu.Lock()
	e.sess = persisted
	e.mu.Unlock()
	e.emitAudit(ctx, auditEventSessionRestored, OutcomeSuccess, persisted.IdentityID, map[string]string{
		"phase": persisted.Phase.String(),
	})
	return persisted, nil
}

func (e *Engine) lockoutPolicy() lockout.Policy {
	return lockout.Policy{
		MaxAttempts:  e.config.Lockout.MaxAttempts,
		LockDuration: e.config.Lockout.LockDuration,
	}
}

func lockoutState(id Identity) lockout.State {
	return lockout.State{
		FailedAttempts: id.FailedAttempts,
		LockedUntil:    id.LockedUntil,
	}
}
