package session

import "time"

// Phase is the authentication stage a session has reached. Transitions
// are driven only by the engine; collaborators treat the value as
// opaque state to persist.
type Phase uint8

const (
	// PhaseAnonymous is the initial and post-logout phase.
	PhaseAnonymous Phase = iota
	// PhaseMFAPending means the password verified and the second
	// factor is outstanding.
	PhaseMFAPending
	// PhaseAuthenticated means both factors verified.
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseAnonymous:
		return "ANONYMOUS"
	case PhaseMFAPending:
		return "PASSWORD_VERIFIED_MFA_PENDING"
	case PhaseAuthenticated:
		return "AUTHENTICATED"
	default:
		return "UNKNOWN"
	}
}

// Session is the ephemeral client-held authentication state. IdentityID
// is a lookup reference, not ownership; the identity record lives in
// the credential store.
type Session struct {
	IdentityID string    `json:"identity_id,omitempty"`
	Phase      Phase     `json:"phase"`
	Token      string    `json:"token,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
}

// Anonymous returns the zero session every process starts from.
func Anonymous() Session {
	return Session{Phase: PhaseAnonymous}
}
