package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

// Argon2Config sets the Argon2id cost parameters. Memory is in KiB.
type Argon2Config struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Config returns interactive-login costs: 64 MiB memory,
// 3 passes, 2 lanes.
func DefaultArgon2Config() Argon2Config {
	return Argon2Config{
		Memory:      64 * 1024,
		Time:        3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Argon2 is a [Codec] producing PHC-formatted Argon2id digests
// ($argon2id$v=19$m=...,t=...,p=...$salt$key, both parts standard
// base64).
type Argon2 struct {
	cfg Argon2Config
}

// NewArgon2 validates cfg and returns the codec. Costs below the
// minimums (8 MiB, 1 pass, 1 lane, 16-byte salt and key) are rejected
// rather than silently raised.
func NewArgon2(cfg Argon2Config) (*Argon2, error) {
	switch {
	case cfg.Memory < 8*1024:
		return nil, errors.New("argon2: memory below 8192 KiB")
	case cfg.Time < 1:
		return nil, errors.New("argon2: time cost below 1")
	case cfg.Parallelism < 1:
		return nil, errors.New("argon2: parallelism below 1")
	case cfg.SaltLength < 16:
		return nil, errors.New("argon2: salt below 16 bytes")
	case cfg.KeyLength < 16:
		return nil, errors.New("argon2: key below 16 bytes")
	}
	return &Argon2{cfg: cfg}, nil
}

// Digest derives a fresh-salted Argon2id digest of the plaintext.
func (a *Argon2) Digest(plaintext string) (string, error) {
	salt := make([]byte, a.cfg.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	key := argon2.IDKey([]byte(plaintext), salt, a.cfg.Time, a.cfg.Memory, a.cfg.Parallelism, a.cfg.KeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		a.cfg.Memory, a.cfg.Time, a.cfg.Parallelism,
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(key),
	), nil
}

// Verify re-derives the key with the parameters embedded in the digest
// and compares in constant time. A malformed digest is an error, not a
// mismatch, so callers can distinguish corrupt storage from a wrong
// password.
func (a *Argon2) Verify(plaintext, digest string) (bool, error) {
	memory, timeCost, parallelism, salt, key, err := parseArgon2Digest(digest)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey([]byte(plaintext), salt, timeCost, memory, parallelism, uint32(len(key)))
	return subtle.ConstantTimeCompare(computed, key) == 1, nil
}

func parseArgon2Digest(digest string) (memory, timeCost uint32, parallelism uint8, salt, key []byte, err error) {
	var (
		version int
		saltB64 string
		keyB64  string
		p       uint32
	)

	n, err := fmt.Sscanf(digest, "$argon2id$v=%d$m=%d,t=%d,p=%d$%s", &version, &memory, &timeCost, &p, &saltB64)
	if err != nil || n != 5 {
		return 0, 0, 0, nil, nil, errors.New("argon2: malformed digest")
	}
	if version != argon2.Version {
		return 0, 0, 0, nil, nil, errors.New("argon2: unsupported version")
	}
	if p == 0 || p > 255 {
		return 0, 0, 0, nil, nil, errors.New("argon2: invalid parallelism")
	}
	parallelism = uint8(p)

	// Sscanf's %s consumed "salt$key"; split the remaining pair.
	for i := 0; i < len(saltB64); i++ {
		if saltB64[i] == '$' {
			keyB64 = saltB64[i+1:]
			saltB64 = saltB64[:i]
			break
		}
	}
	if keyB64 == "" {
		return 0, 0, 0, nil, nil, errors.New("argon2: malformed digest")
	}

	salt, err = base64.StdEncoding.DecodeString(saltB64)
	if err != nil || len(salt) < 16 {
		return 0, 0, 0, nil, nil, errors.New("argon2: invalid salt")
	}
	key, err = base64.StdEncoding.DecodeString(keyB64)
	if err != nil || len(key) < 16 {
		return 0, 0, 0, nil, nil, errors.New("argon2: invalid key")
	}

	return memory, timeCost, parallelism, salt, key, nil
}
