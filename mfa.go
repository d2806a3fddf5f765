package securecart

import (
	"crypto/subtle"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// StaticCodeVerifier accepts exactly one hard-coded code and ignores
// the identity's secret. It is the out-of-the-box verifier: the demo
// storefront ships with a fixed second factor so the flow can be
// exercised without a provisioned authenticator.
type StaticCodeVerifier struct {
	Code string
}

// Verify reports whether code equals the configured value. Comparison
// is constant time.
func (v StaticCodeVerifier) Verify(_, code string, _ time.Time) bool {
	expected := v.Code
	if expected == "" {
		expected = "123456"
	}
	return subtle.ConstantTimeCompare([]byte(code), []byte(expected)) == 1
}

// TOTPVerifier validates RFC 6238 time-based codes against the
// identity's base32 secret. Substitute it for [StaticCodeVerifier] via
// [Builder.WithCodeVerifier] to run real authenticator apps.
type TOTPVerifier struct {
	// Skew is the number of adjacent 30s periods accepted on either
	// side of the current one. Defaults to 1.
	Skew uint
}

func (v TOTPVerifier) Verify(secret, code string, at time.Time) bool {
	if secret == "" {
		return false
	}
	skew := v.Skew
	if skew == 0 {
		skew = 1
	}
	ok, err := totp.ValidateCustom(code, secret, at, totp.ValidateOpts{
		Period:    30,
		Skew:      skew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}
