package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")

	// OTP verification outcomes. ErrCodeInvalid deliberately covers wrong,
	// expired and already-consumed codes alike so responses never reveal which.
	ErrCodeInvalid     = errors.New("invalid or expired OTP")
	ErrTooManyAttempts = errors.New("too many failed attempts")

	ErrAlreadyVerified = errors.New("email already verified")
	ErrSendFailed      = errors.New("failed to send email")
)
