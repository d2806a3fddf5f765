package securecart

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidCredentials covers unknown email and wrong password
	// alike so a caller cannot probe which emails are registered.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountLocked is wrapped by [AccountLockedError].
	ErrAccountLocked = errors.New("account locked")
	// ErrMFAMismatch is returned by ConfirmMFA for a wrong code.
	ErrMFAMismatch = errors.New("mfa code mismatch")
	// ErrNotAwaitingMFA is returned by ConfirmMFA and CancelMFA when no
	// password verification is pending.
	ErrNotAwaitingMFA = errors.New("no mfa confirmation pending")
	// ErrNotAuthenticated is returned by Logout in any signed-out phase.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrWeakPassword is wrapped by [WeakPasswordError].
	ErrWeakPassword = errors.New("password below strength requirement")
	// ErrDuplicateIdentity is returned by Register and by
	// [IdentityStore.Insert] for an email already on file.
	ErrDuplicateIdentity = errors.New("identity already exists")
	// ErrIdentityNotFound is returned by [IdentityStore] lookups.
	ErrIdentityNotFound = errors.New("identity not found")
	// ErrResetTokenInvalid covers absent, mismatched, expired, and
	// already-consumed reset tokens without distinguishing them.
	ErrResetTokenInvalid = errors.New("password reset token invalid")
	// ErrEngineNotReady is returned when a required collaborator was
	// not supplied before Build.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// AccountLockedError reports a lockout together with the time left
// until the lock expires. It unwraps to [ErrAccountLocked].
type AccountLockedError struct {
	RetryIn time.Duration
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account locked, retry in %s", e.RetryIn.Round(time.Second))
}

// Unwrap supports errors.Is(err, ErrAccountLocked).
func (e *AccountLockedError) Unwrap() error { return ErrAccountLocked }

// WeakPasswordError reports the achieved strength score of a rejected
// password. It unwraps to [ErrWeakPassword].
type WeakPasswordError struct {
	Score int
}

func (e *WeakPasswordError) Error() string {
	return fmt.Sprintf("password scored %d, below required strength", e.Score)
}

// Unwrap supports errors.Is(err, ErrWeakPassword).
func (e *WeakPasswordError) Unwrap() error { return ErrWeakPassword }
