package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const minKeyBytes = 32

// ErrInvalid covers every way a presented token can fail: bad
// signature, wrong algorithm, expired, malformed. Callers get one
// answer so the failure reason never leaks.
var ErrInvalid = errors.New("token: invalid")

// Config for a [Manager]. SigningKey must be at least 32 bytes. Now
// overrides the clock used for expiry checks; nil means [time.Now].
type Config struct {
	SigningKey []byte
	TTL        time.Duration
	Issuer     string
	Now        func() time.Time
}

// Claims carried by a session token.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Manager signs and parses HS256 session tokens.
type Manager struct {
	cfg Config
}

// New validates cfg and returns a Manager.
func New(cfg Config) (*Manager, error) {
	if len(cfg.SigningKey) < minKeyBytes {
		return nil, errors.New("token: signing key must be at least 32 bytes")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("token: ttl must be positive")
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "securecart"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Manager{cfg: cfg}, nil
}

// Issue signs a token for the identity, valid from now for the
// configured TTL.
func (m *Manager) Issue(identityID, role string, now time.Time) (string, error) {
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identityID,
			Issuer:    m.cfg.Issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.cfg.SigningKey)
}

// Parse validates signature, algorithm, issuer, and expiry, returning
// the claims or [ErrInvalid].
func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	var claims Claims

	parsed, err := jwt.ParseWithClaims(tokenStr, &claims,
		func(*jwt.Token) (any, error) { return m.cfg.SigningKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.cfg.Now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalid
	}
	if claims.Subject == "" {
		return nil, ErrInvalid
	}
	return &claims, nil
}
