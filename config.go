package securecart

import (
	"errors"
	"time"

	"github.com/securecart/securecart/lockout"
	"github.com/securecart/securecart/password"
)

// Config defines the engine's tunables. Instances are configured
// during initialization and treated as immutable after Build.
type Config struct {
	Lockout  LockoutConfig
	Password PasswordConfig
	Reset    ResetConfig
	MFA      MFAConfig
	Session  SessionConfig
	Token    TokenConfig
	Account  AccountConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

// LockoutConfig controls failure-driven account lockout.
type LockoutConfig struct {
	MaxAttempts  int
	LockDuration time.Duration
}

// PasswordConfig controls the strength gate applied at registration
// and reset completion.
type PasswordConfig struct {
	MinScore int
}

// ResetConfig controls password-reset token issuance.
type ResetConfig struct {
	TokenTTL time.Duration
	// EnumerationDelayMin/Max bound the randomized pause added to
	// RequestPasswordReset so known and unknown emails take comparable
	// time. Zero values disable the pause (tests rely on this).
	EnumerationDelayMin time.Duration
	EnumerationDelayMax time.Duration
}

// MFAConfig controls the second login factor.
type MFAConfig struct {
	// ConfirmDelay is an artificial pause before each code check,
	// simulating an out-of-band verification round-trip. Zero disables
	// it.
	ConfirmDelay time.Duration
}

// SessionConfig parameterizes the session store Build constructs for
// [Builder.WithSessionRedis]: the key prefix and expiry of the
// persisted session blob. It is not consulted when
// [Builder.WithSessionStore] supplies a prebuilt store.
type SessionConfig struct {
	RedisPrefix string
	TTL         time.Duration
}

// sessionKey derives the Redis key from the prefix. Empty means the
// store default.
func (c SessionConfig) sessionKey() string {
	if c.RedisPrefix == "" {
		return ""
	}
	return c.RedisPrefix + "current"
}

// TokenConfig controls signed session tokens.
type TokenConfig struct {
	SigningKey []byte
	TTL        time.Duration
	Issuer     string
}

// AccountConfig controls registration defaults.
type AccountConfig struct {
	DefaultRole Role
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	policy := lockout.Default()
	return Config{
		Lockout: LockoutConfig{
			MaxAttempts:  policy.MaxAttempts,
			LockDuration: policy.LockDuration,
		},
		Password: PasswordConfig{MinScore: password.MinAcceptableScore},
		Reset: ResetConfig{
			TokenTTL:            time.Hour,
			EnumerationDelayMin: 20 * time.Millisecond,
			EnumerationDelayMax: 40 * time.Millisecond,
		},
		MFA:     MFAConfig{ConfirmDelay: 800 * time.Millisecond},
		Session: SessionConfig{RedisPrefix: "sc:session:", TTL: 24 * time.Hour},
		Token: TokenConfig{
			TTL:    24 * time.Hour,
			Issuer: "securecart",
		},
		Account: AccountConfig{DefaultRole: RoleCustomer},
		Audit:   AuditConfig{Enabled: true, BufferSize: 256},
		Metrics: MetricsConfig{Enabled: true},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	if cfg.Token.SigningKey != nil {
		out.Token.SigningKey = make([]byte, len(cfg.Token.SigningKey))
		copy(out.Token.SigningKey, cfg.Token.SigningKey)
	}
	return out
}

// Validate reports configuration that cannot produce a working engine.
func (c Config) Validate() error {
	if c.Lockout.MaxAttempts < 1 {
		return errors.New("lockout: MaxAttempts must be at least 1")
	}
	if c.Lockout.LockDuration <= 0 {
		return errors.New("lockout: LockDuration must be positive")
	}
	if c.Password.MinScore < 0 || c.Password.MinScore > password.MaxScore {
		return errors.New("password: MinScore out of range")
	}
	if c.Reset.TokenTTL <= 0 {
		return errors.New("reset: TokenTTL must be positive")
	}
	if c.Reset.EnumerationDelayMax < c.Reset.EnumerationDelayMin {
		return errors.New("reset: EnumerationDelayMax below EnumerationDelayMin")
	}
	if len(c.Token.SigningKey) < 32 {
		return errors.New("token: SigningKey must be at least 32 bytes")
	}
	if c.Token.TTL <= 0 {
		return errors.New("token: TTL must be positive")
	}
	if c.Audit.Enabled && c.Audit.BufferSize < 1 {
		return errors.New("audit: BufferSize must be at least 1")
	}
	return nil
}
