// Command securecart-demo walks the full authentication flow against
// either in-memory or Redis-backed state: registration, a lockout from
// repeated bad passwords, recovery via password reset, the two-step
// login with the demo second factor, and logout. Run it twice against
// Redis to watch the session survive the restart.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/redis/go-redis/v9"
	"github.com/securecart/securecart"
	"github.com/securecart/securecart/stores"
)

type demoConfig struct {
	RedisAddr  string        `env:"SECURECART_REDIS_ADDR"`
	SigningKey string        `env:"SECURECART_SIGNING_KEY" envDefault:"demo-signing-key-0123456789abcdef"`
	Email      string        `env:"SECURECART_EMAIL" envDefault:"demo@securecart.example"`
	Password   string        `env:"SECURECART_PASSWORD" envDefault:"Cart4You!"`
	MFACode    string        `env:"SECURECART_MFA_CODE" envDefault:"123456"`
	SessionTTL time.Duration `env:"SECURECART_SESSION_TTL" envDefault:"24h"`
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	var cfg demoConfig
	if err := env.Parse(&cfg); err != nil {
		log.Error("parse environment", "error", err)
		os.Exit(1)
	}
	if err := run(log, cfg); err != nil {
		log.Error("demo failed", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger, cfg demoConfig) error {
	ctx := context.Background()

	var (
		identities securecart.IdentityStore
		client     *redis.Client
	)
	if cfg.RedisAddr != "" {
		client = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			return err
		}
		identities = stores.NewRedis(client, "")
		log.Info("using redis state", "addr", cfg.RedisAddr)
	} else {
		identities = stores.NewMemory()
		log.Info("using in-memory state")
	}

	notifier := securecart.NewChannelNotifier(4)

	engineCfg := securecart.Config{
		Lockout:  securecart.LockoutConfig{MaxAttempts: 5, LockDuration: 5 * time.Minute},
		Password: securecart.PasswordConfig{MinScore: 3},
		Reset: securecart.ResetConfig{
			TokenTTL:            time.Hour,
			EnumerationDelayMin: 20 * time.Millisecond,
			EnumerationDelayMax: 40 * time.Millisecond,
		},
		MFA:     securecart.MFAConfig{ConfirmDelay: 800 * time.Millisecond},
		Session: securecart.SessionConfig{RedisPrefix: "sc:session:", TTL: cfg.SessionTTL},
		Token:   securecart.TokenConfig{SigningKey: []byte(cfg.SigningKey), TTL: cfg.SessionTTL},
		Account: securecart.AccountConfig{DefaultRole: securecart.RoleCustomer},
		Audit:   securecart.AuditConfig{Enabled: true, BufferSize: 256},
		Metrics: securecart.MetricsConfig{Enabled: true},
	}

	builder := securecart.New().
		WithConfig(engineCfg).
		WithIdentityStore(identities).
		WithNotifier(notifier).
		WithAuditSink(securecart.NewJSONWriterSink(os.Stdout))
	if client != nil {
		builder = builder.WithSessionRedis(client)
	}
	engine, err := builder.Build()
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx = securecart.WithClientIP(ctx, "127.0.0.1")

	restored, err := engine.Restore(ctx)
	if err != nil {
		return err
	}
	if restored.Phase != securecart.PhaseAnonymous {
		log.Info("session restored from previous run", "phase", restored.Phase.String(), "identity", restored.IdentityID)
		if restored.Phase == securecart.PhaseAuthenticated {
			if err := engine.Logout(ctx); err != nil {
				return err
			}
			log.Info("logged restored session out")
		}
	}

	identity, err := engine.Register(ctx, securecart.RegisterInput{
		Email:    cfg.Email,
		Password: cfg.Password,
		FullName: "Demo Shopper",
	})
	switch {
	case errors.Is(err, securecart.ErrDuplicateIdentity):
		log.Info("identity already registered", "email", cfg.Email)
	case err != nil:
		return err
	default:
		log.Info("registered", "id", identity.ID, "role", string(identity.Role))
	}

	// Hammer the account with bad passwords until it locks.
	for i := 1; ; i++ {
		err := engine.Login(ctx, cfg.Email, "definitely-wrong")
		var locked *securecart.AccountLockedError
		if errors.As(err, &locked) {
			log.Info("account locked", "after_attempts", i, "retry_in", locked.RetryIn.String())
			break
		}
		if !errors.Is(err, securecart.ErrInvalidCredentials) {
			return err
		}
	}

	// Recover through the reset flow instead of waiting out the lock.
	if err := engine.RequestPasswordReset(ctx, cfg.Email); err != nil {
		return err
	}
	delivery := <-notifier.Deliveries()
	log.Info("reset token delivered", "email", delivery.Email)

	if err := engine.CompletePasswordReset(ctx, cfg.Email, delivery.Token, cfg.Password); err != nil {
		return err
	}
	log.Info("password reset complete, lock cleared")

	if err := engine.Login(ctx, cfg.Email, cfg.Password); err != nil {
		return err
	}
	log.Info("password verified", "phase", engine.Current().Phase.String())

	token, err := engine.ConfirmMFA(ctx, cfg.MFACode)
	if err != nil {
		return err
	}
	log.Info("authenticated", "token_bytes", len(token))

	if err := engine.Logout(ctx); err != nil {
		return err
	}
	log.Info("logged out", "metrics", engine.MetricsSnapshot())
	return nil
}
