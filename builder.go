package securecart

import (
	"errors"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	internalaudit "github.com/securecart/securecart/internal/audit"
	internalmetrics "github.com/securecart/securecart/internal/metrics"
	"github.com/securecart/securecart/password"
	"github.com/securecart/securecart/session"
	"github.com/securecart/securecart/token"
)

// Builder assembles an [Engine]. Construction is allocation-only; no
// I/O happens until the first Engine method call.
//
//	engine, err := securecart.New().
//		WithConfig(cfg).
//		WithIdentityStore(store).
//		Build()
type Builder struct {
	config        Config
	configSet     bool
	store         IdentityStore
	sessions      session.Store
	sessionClient redis.UniversalClient
	sink          AuditSink
	notifier      Notifier
	verifier      CodeVerifier
	codec         password.Codec
	now           func() time.Time
}

// New returns a Builder preloaded with defaults.
func New() *Builder {
	return &Builder{}
}

// WithConfig replaces the default configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	b.configSet = true
	return b
}

// WithIdentityStore sets the account backend. Required.
func (b *Builder) WithIdentityStore(store IdentityStore) *Builder {
	b.store = store
	return b
}

// WithSessionStore sets session persistence. Defaults to an in-memory
// store.
func (b *Builder) WithSessionStore(store session.Store) *Builder {
	b.sessions = store
	return b
}

// WithSessionRedis has Build persist the session in Redis, keyed and
// expired per [Config.Session]. A store supplied through
// [Builder.WithSessionStore] takes precedence.
func (b *Builder) WithSessionRedis(client redis.UniversalClient) *Builder {
	b.sessionClient = client
	return b
}

// WithAuditSink sets the audit destination. Defaults to JSON lines on
// stderr when auditing is enabled.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.sink = sink
	return b
}

// WithNotifier sets the reset-token delivery channel. Defaults to
// [LogNotifier] on stderr.
func (b *Builder) WithNotifier(n Notifier) *Builder {
	b.notifier = n
	return b
}

// WithCodeVerifier sets the second-factor check. Defaults to
// [StaticCodeVerifier] accepting "123456".
func (b *Builder) WithCodeVerifier(v CodeVerifier) *Builder {
	b.verifier = v
	return b
}

// WithCredentialCodec sets the password digest scheme. Defaults to
// [password.Plain], the reversible demo stand-in; production setups
// substitute [password.NewArgon2].
func (b *Builder) WithCredentialCodec(c password.Codec) *Builder {
	b.codec = c
	return b
}

// WithClock overrides the engine's time source. Intended for tests and
// deterministic replays; defaults to [time.Now].
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build validates the configuration, fills remaining defaults, and
// returns a ready Engine.
func (b *Builder) Build() (*Engine, error) {
	if b.store == nil {
		return nil, errors.New("securecart: identity store is required")
	}

	cfg := b.config
	if !b.configSet {
		cfg = defaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	codec := b.codec
	if codec == nil {
		codec = password.Plain{}
	}
	verifier := b.verifier
	if verifier == nil {
		verifier = StaticCodeVerifier{}
	}
	notifier := b.notifier
	if notifier == nil {
		notifier = LogNotifier{W: os.Stderr}
	}
	sessions := b.sessions
	if sessions == nil {
		if b.sessionClient != nil {
			sessions = session.NewRedisStore(b.sessionClient, cfg.Session.sessionKey(), cfg.Session.TTL)
		} else {
			sessions = session.NewMemoryStore()
		}
	}
	now := b.now
	if now == nil {
		now = time.Now
	}

	sink := b.sink
	if sink == nil {
		sink = internalaudit.NewJSONWriterSink(os.Stderr)
	}
	dispatcher := internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, sink)

	tokens, err := token.New(token.Config{
		SigningKey: cfg.Token.SigningKey,
		TTL:        cfg.Token.TTL,
		Issuer:     cfg.Token.Issuer,
		Now:        now,
	})
	if err != nil {
		return nil, err
	}

	// The decoy digest anchors the unknown-email verification cost.
	decoy, err := codec.Digest("decoy-credential-for-unknown-identities")
	if err != nil {
		return nil, err
	}

	return &Engine{
		config:      cfg,
		store:       b.store,
		sessions:    sessions,
		audit:       dispatcher,
		metrics:     internalmetrics.New(cfg.Metrics.Enabled),
		codec:       codec,
		verifier:    verifier,
		notifier:    notifier,
		tokens:      tokens,
		decoyDigest: decoy,
		now:         now,
		sess:        session.Anonymous(),
	}, nil
}
