// Package otpgen produces the short numeric codes used for email
// verification and password reset.
package otpgen

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"time"
)

// DefaultTTL is the code lifetime used by both verification and reset flows.
const DefaultTTL = 5 * time.Minute

var sixDigits = regexp.MustCompile(`^[0-9]{6}$`)

// Generate returns a uniformly random six-digit code and its absolute expiry.
// Codes are drawn from [100000, 999999]; values with a leading zero are never
// produced. A non-positive ttl falls back to DefaultTTL.
func Generate(ttl time.Duration) (code string, expiresAt time.Time, err error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+100000), time.Now().Add(ttl), nil
}

// IsValid reports whether code is exactly six ASCII digits.
func IsValid(code string) bool {
	return sixDigits.MatchString(code)
}
