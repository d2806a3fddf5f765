package securecart

import (
	"bytes"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.Token.SigningKey = bytes.Repeat([]byte("k"), 32)

	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
	if cfg.Lockout.MaxAttempts != 5 || cfg.Lockout.LockDuration != 5*time.Minute {
		t.Fatalf("lockout defaults = %d/%v, want 5/5m", cfg.Lockout.MaxAttempts, cfg.Lockout.LockDuration)
	}
	if cfg.Reset.TokenTTL != time.Hour {
		t.Fatalf("reset TTL = %v, want 1h", cfg.Reset.TokenTTL)
	}
	if cfg.MFA.ConfirmDelay != 800*time.Millisecond {
		t.Fatalf("ConfirmDelay = %v, want 800ms", cfg.MFA.ConfirmDelay)
	}
	if cfg.Reset.EnumerationDelayMin != 20*time.Millisecond || cfg.Reset.EnumerationDelayMax != 40*time.Millisecond {
		t.Fatalf("enumeration window = [%v, %v], want [20ms, 40ms]",
			cfg.Reset.EnumerationDelayMin, cfg.Reset.EnumerationDelayMax)
	}
}

func TestSessionKeyDerivation(t *testing.T) {
	if got := (SessionConfig{}).sessionKey(); got != "" {
		t.Fatalf("empty prefix key = %q, want store default", got)
	}
	if got := (SessionConfig{RedisPrefix: "sc:session:"}).sessionKey(); got != "sc:session:current" {
		t.Fatalf("key = %q, want sc:session:current", got)
	}
}

func TestCloneConfigDetachesSigningKey(t *testing.T) {
	cfg := defaultConfig()
	cfg.Token.SigningKey = bytes.Repeat([]byte("k"), 32)

	clone := cloneConfig(cfg)
	cfg.Token.SigningKey[0] = 'x'

	if clone.Token.SigningKey[0] != 'k' {
		t.Fatal("clone shares the caller's signing key slice")
	}
}

func TestValidateRejections(t *testing.T) {
	base := defaultConfig()
	base.Token.SigningKey = bytes.Repeat([]byte("k"), 32)

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero max attempts", func(c *Config) { c.Lockout.MaxAttempts = 0 }},
		{"negative lock duration", func(c *Config) { c.Lockout.LockDuration = -time.Minute }},
		{"zero reset ttl", func(c *Config) { c.Reset.TokenTTL = 0 }},
		{"inverted enumeration window", func(c *Config) {
			c.Reset.EnumerationDelayMin = 40 * time.Millisecond
			c.Reset.EnumerationDelayMax = 20 * time.Millisecond
		}},
		{"short signing key", func(c *Config) { c.Token.SigningKey = []byte("short") }},
		{"zero audit buffer", func(c *Config) { c.Audit.BufferSize = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := cloneConfig(base)
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("Validate accepted a broken config")
			}
		})
	}
}
