package securecart

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"time"

	internalmetrics "github.com/securecart/securecart/internal/metrics"
	"github.com/securecart/securecart/password"
)

const resetTokenBytes = 32

// RequestPasswordReset issues a single-use reset token for email and
// hands it to the configured [Notifier]. The call has the same shape
// for known and unknown emails: it returns nil either way, and a
// randomized pause keeps the two paths from being timed apart. Only
// the audit trail records which case occurred.
//
// A new request replaces any outstanding token for the identity.
func (e *Engine) RequestPasswordReset(ctx context.Context, email string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	e.sleep(e.config.Reset.EnumerationDelayMin, e.config.Reset.EnumerationDelayMax)
	e.metricInc(internalmetrics.ResetRequest)

	identity, err := e.store.FindByEmail(ctx, email)
	if errors.Is(err, ErrIdentityNotFound) {
		e.emitAudit(ctx, auditEventResetRequest, OutcomeWarning, SubjectUnknown, map[string]string{
			"email": email,
		})
		return nil
	}
	if err != nil {
		// Backend trouble must not leak either; the requester sees the
		// same nil, the audit trail sees the error.
		e.emitAudit(ctx, auditEventResetRequest, OutcomeWarning, SubjectSystem, map[string]string{
			"error": err.Error(),
		})
		return nil
	}

	token, err := newResetToken()
	if err != nil {
		e.emitAudit(ctx, auditEventResetRequest, OutcomeWarning, SubjectSystem, map[string]string{
			"error": err.Error(),
		})
		return nil
	}

	hash := sha256.Sum256([]byte(token))
	expiry := e.now().Add(e.config.Reset.TokenTTL)
	if _, err := e.store.Update(ctx, identity.ID, func(id *Identity) error {
		id.ResetTokenHash = hash
		id.ResetTokenExpiry = expiry
		return nil
	}); err != nil {
		e.emitAudit(ctx, auditEventResetRequest, OutcomeWarning, identity.ID, map[string]string{
			"error": err.Error(),
		})
		return nil
	}

	if err := e.notifier.Deliver(ctx, identity.Email, token); err != nil {
		e.emitAudit(ctx, auditEventResetRequest, OutcomeWarning, identity.ID, map[string]string{
			"reason": "delivery_failed",
			"error":  err.Error(),
		})
		return nil
	}

	e.emitAudit(ctx, auditEventResetRequest, OutcomeSuccess, identity.ID, nil)
	return nil
}

// CompletePasswordReset consumes a reset token and installs a new
// password. Unknown email, wrong token, and expired token all return
// [ErrResetTokenInvalid]. A password below the strength requirement
// returns [*WeakPasswordError] and leaves the token outstanding so the
// caller can retry with a stronger one.
//
// Success clears the token, the failure counter, and any active lock:
// proving control of the reset channel ends the lockout.
func (e *Engine) CompletePasswordReset(ctx context.Context, email, token, newPassword string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	identity, err := e.store.FindByEmail(ctx, email)
	if errors.Is(err, ErrIdentityNotFound) {
		// Compare against a zero hash so the unknown-email path does
		// the same work as a mismatch.
		presented := sha256.Sum256([]byte(token))
		var zero [sha256.Size]byte
		subtle.ConstantTimeCompare(presented[:], zero[:])
		return e.failReset(ctx, SubjectUnknown, "unknown_email")
	}
	if err != nil {
		return err
	}

	now := e.now()
	if !resetTokenMatches(identity, token, now) {
		if tokenExpired(identity, now) {
			// Lazy cleanup: drop the stale token so the record does not
			// carry dead hashes around.
			_, _ = e.store.Update(ctx, identity.ID, func(id *Identity) error {
				clearResetToken(id)
				return nil
			})
			return e.failReset(ctx, identity.ID, "token_expired")
		}
		return e.failReset(ctx, identity.ID, "token_mismatch")
	}

	if score := password.Score(newPassword); score < e.config.Password.MinScore {
		e.metricInc(internalmetrics.ResetFailure)
		e.emitAudit(ctx, auditEventResetComplete, OutcomeFailure, identity.ID, map[string]string{
			"reason": "weak_password",
		})
		return &WeakPasswordError{Score: score}
	}

	digest, err := e.codec.Digest(newPassword)
	if err != nil {
		return err
	}

	if _, err := e.store.Update(ctx, identity.ID, func(id *Identity) error {
		id.CredentialDigest = digest
		clearResetToken(id)
		id.FailedAttempts = 0
		id.LockedUntil = time.Time{}
		return nil
	}); err != nil {
		return err
	}

	e.metricInc(internalmetrics.ResetComplete)
	e.emitAudit(ctx, auditEventResetComplete, OutcomeSuccess, identity.ID, nil)
	return nil
}

func (e *Engine) failReset(ctx context.Context, subject, reason string) error {
	e.metricInc(internalmetrics.ResetFailure)
	e.emitAudit(ctx, auditEventResetComplete, OutcomeFailure, subject, map[string]string{
		"reason": reason,
	})
	return ErrResetTokenInvalid
}

func newResetToken() (string, error) {
	raw := make([]byte, resetTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// resetTokenMatches requires an outstanding, unexpired token whose
// SHA-256 equals the presented one. The compare is constant time.
func resetTokenMatches(id Identity, token string, now time.Time) bool {
	var zero [sha256.Size]byte
	if id.ResetTokenHash == zero {
		return false
	}
	if tokenExpired(id, now) {
		return false
	}
	presented := sha256.Sum256([]byte(token))
	return subtle.ConstantTimeCompare(presented[:], id.ResetTokenHash[:]) == 1
}

func tokenExpired(id Identity, now time.Time) bool {
	return !id.ResetTokenExpiry.IsZero() && !id.ResetTokenExpiry.After(now)
}

func clearResetToken(id *Identity) {
	id.ResetTokenHash = [sha256.Size]byte{}
	id.ResetTokenExpiry = time.Time{}
}
