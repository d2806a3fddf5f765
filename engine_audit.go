package securecart

import (
	"context"

	internalaudit "github.com/securecart/securecart/internal/audit"
)

const (
	auditEventLoginPasswordVerified = "login_password_verified"
	auditEventLoginFailure          = "login_failure"
	auditEventAccountLockout        = "account_lockout"
	auditEventMFAVerify             = "mfa_verify"
	auditEventMFACancelled          = "mfa_cancelled"
	auditEventLogout                = "logout"
	auditEventIdentityRegistered    = "identity_registered"
	auditEventResetRequest          = "password_reset_request"
	auditEventResetComplete         = "password_reset_complete"
	auditEventSessionRestored       = "session_restored"
	auditEventSessionPersist        = "session_persist"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	action string,
	outcome Outcome,
	subject string,
	metadata map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}
	if subject == "" {
		subject = SubjectUnknown
	}

	e.audit.Record(ctx, internalaudit.Event{
		Timestamp: e.now().UTC(),
		Subject:   subject,
		Action:    action,
		Outcome:   outcome,
		IP:        clientIPFromContext(ctx),
		Metadata:  metadata,
	})
}
