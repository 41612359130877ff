package domain

import (
	"strings"
	"time"
)

// OTPPurpose distinguishes what a code proves. A code issued for one
// purpose is never accepted for the other, even if the digits match.
type OTPPurpose string

const (
	PurposeEmailVerification OTPPurpose = "email_verification"
	PurposePasswordReset     OTPPurpose = "password_reset"
)

// MaxOTPAttempts is the number of wrong-code submissions tolerated before
// a record is permanently rejected.
const MaxOTPAttempts = 3

// OTPRecord is one outstanding one-time passcode.
// PK: otp_id (ULID), GSI: email-purpose-index (email HASH, purpose RANGE).
// ExpiresAt is a Unix timestamp doubling as the DynamoDB TTL attribute, so
// expired records are reaped by the table itself; reads must still filter
// on expiry because TTL deletion is lazy.
type OTPRecord struct {
	OTPID     string     `json:"id" dynamodbav:"otp_id"`
	Email     string     `json:"email" dynamodbav:"email"`
	Code      string     `json:"-" dynamodbav:"code"`
	Purpose   OTPPurpose `json:"purpose" dynamodbav:"purpose"`
	ExpiresAt int64      `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
	Attempts  int        `json:"attempts" dynamodbav:"attempts"`
	Used      bool       `json:"used" dynamodbav:"used"`
	CreatedAt time.Time  `json:"created_at" dynamodbav:"created_at"`
}

// Expired reports whether the record is invalid at t. The boundary instant
// itself counts as expired.
func (r *OTPRecord) Expired(t time.Time) bool {
	return r.ExpiresAt <= t.Unix()
}

// NormalizeEmail lowercases and trims an address so all OTP and user
// lookups agree on the key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
