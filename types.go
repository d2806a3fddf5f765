package securecart

import (
	"context"
	"io"
	"time"

	internalaudit "github.com/securecart/securecart/internal/audit"
	"github.com/securecart/securecart/session"
)

// Role is the coarse authorization level carried on an identity and in
// issued session tokens.
type Role string

const (
	// RoleCustomer is the default role for self-registered identities.
	RoleCustomer Role = "CUSTOMER"
	// RoleAdmin marks back-office identities.
	RoleAdmin Role = "ADMIN"
)

// Identity is the full account record managed through [IdentityStore].
// CredentialDigest is an opaque string produced by the configured
// [password.Codec]; the engine never inspects its format.
//
// A zero LockedUntil means the account is not locked. ResetTokenHash is
// the SHA-256 of the last issued reset token, all-zero when no token is
// outstanding.
type Identity struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	FullName         string    `json:"full_name,omitempty"`
	CredentialDigest string    `json:"credential_digest"`
	Role             Role      `json:"role"`
	FailedAttempts   int       `json:"failed_attempts,omitempty"`
	LockedUntil      time.Time `json:"locked_until,omitzero"`
	ResetTokenHash   [32]byte  `json:"reset_token_hash,omitempty"`
	ResetTokenExpiry time.Time `json:"reset_token_expiry,omitzero"`
	MFAEnabled       bool      `json:"mfa_enabled"`
	MFASecret        string    `json:"mfa_secret,omitempty"`
	CreatedAt        time.Time `json:"created_at,omitzero"`
}

// IdentityStore is the interface callers implement to persist accounts.
// Email lookup is exact and case-sensitive. Update must apply mutate
// atomically: load the current record, run mutate on a copy, and
// persist the copy only if mutate returns nil. Implementations return
// [ErrIdentityNotFound] for unknown IDs/emails and
// [ErrDuplicateIdentity] when Insert collides on ID or email.
type IdentityStore interface {
	FindByEmail(ctx context.Context, email string) (Identity, error)
	FindByID(ctx context.Context, id string) (Identity, error)
	Insert(ctx context.Context, identity Identity) error
	Update(ctx context.Context, id string, mutate func(*Identity) error) (Identity, error)
}

// RegisterInput is the input for [Engine.Register]. Email and Password
// are required; Role defaults to [Config.Account.DefaultRole] when
// empty.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Role     Role
}

// Notifier delivers password-reset tokens out of band. The engine calls
// Deliver after a reset request for a known email; delivery failures
// are audited but never surfaced to the requester.
type Notifier interface {
	Deliver(ctx context.Context, email, token string) error
}

// CodeVerifier checks a second-factor code for an identity.
type CodeVerifier interface {
	Verify(secret, code string, at time.Time) bool
}

// Phase is the session authentication phase.
type Phase = session.Phase

const (
	// PhaseAnonymous is the signed-out state.
	PhaseAnonymous = session.PhaseAnonymous
	// PhaseMFAPending means the password was verified and a second
	// factor is outstanding.
	PhaseMFAPending = session.PhaseMFAPending
	// PhaseAuthenticated is the fully signed-in state.
	PhaseAuthenticated = session.PhaseAuthenticated
)

// Session is the engine's current authentication state.
type Session = session.Session

// AuditEvent is a structured audit record emitted by the engine.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the engine's audit
// dispatcher.
type AuditSink = internalaudit.Sink

// Outcome classifies an audit event.
type Outcome = internalaudit.Outcome

const (
	// OutcomeSuccess marks a completed operation.
	OutcomeSuccess = internalaudit.OutcomeSuccess
	// OutcomeFailure marks a rejected operation.
	OutcomeFailure = internalaudit.OutcomeFailure
	// OutcomeWarning marks a suspicious but non-fatal observation.
	OutcomeWarning = internalaudit.OutcomeWarning
)

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to
// an [io.Writer], one per line.
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer
// capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

// Audit subjects used when no identity is resolved.
const (
	// SubjectUnknown is recorded when the presented email matches no
	// identity.
	SubjectUnknown = "unknown"
	// SubjectSystem is recorded for engine-initiated events.
	SubjectSystem = "system"
)
