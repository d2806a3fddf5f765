package securecart

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	internalmetrics "github.com/securecart/securecart/internal/metrics"
	"github.com/securecart/securecart/password"
)

// Register creates a new identity. The password must reach the
// configured strength score or the call fails with
// [*WeakPasswordError]; an email already on file fails with
// [ErrDuplicateIdentity]. Registration never changes the session:
// the new customer still has to log in.
func (e *Engine) Register(ctx context.Context, input RegisterInput) (Identity, error) {
	if e == nil {
		return Identity{}, ErrEngineNotReady
	}
	if input.Email == "" {
		return Identity{}, errors.New("email required")
	}

	if score := password.Score(input.Password); score < e.config.Password.MinScore {
		e.metricInc(internalmetrics.RegisterRejected)
		e.emitAudit(ctx, auditEventIdentityRegistered, OutcomeFailure, SubjectUnknown, map[string]string{
			"email":  input.Email,
			"reason": "weak_password",
			"score":  strconv.Itoa(score),
		})
		return Identity{}, &WeakPasswordError{Score: score}
	}

	digest, err := e.codec.Digest(input.Password)
	if err != nil {
		return Identity{}, err
	}

	role := input.Role
	if role == "" {
		role = e.config.Account.DefaultRole
	}

	identity := Identity{
		ID:               uuid.NewString(),
		Email:            input.Email,
		FullName:         input.FullName,
		CredentialDigest: digest,
		Role:             role,
		MFAEnabled:       true,
		CreatedAt:        e.now(),
	}

	if err := e.store.Insert(ctx, identity); err != nil {
		if errors.Is(err, ErrDuplicateIdentity) {
			e.metricInc(internalmetrics.RegisterRejected)
			e.emitAudit(ctx, auditEventIdentityRegistered, OutcomeFailure, SubjectUnknown, map[string]string{
				"email":  input.Email,
				"reason": "duplicate",
			})
		}
		return Identity{}, err
	}

	e.metricInc(internalmetrics.RegisterSuccess)
	e.emitAudit(ctx, auditEventIdentityRegistered, OutcomeSuccess, identity.ID, map[string]string{
		"role": string(identity.Role),
	})
	return identity, nil
}
