// Package otp issues and verifies one-time passcodes.
package otp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/synergysphere/auth-api/internal/domain"
	"github.com/synergysphere/auth-api/internal/pkg/id"
	"github.com/synergysphere/auth-api/internal/pkg/otpgen"
)

type Service interface {
	// Issue generates a fresh code for the pair and stores it. Previously
	// issued codes stay valid until they individually expire or are
	// consumed; issuance never revokes them.
	Issue(ctx context.Context, email string, purpose domain.OTPPurpose) (string, error)
	// Verify runs one verification attempt. It returns nil exactly once per
	// issued code; afterwards the record is consumed and every retry fails
	// with domain.ErrCodeInvalid.
	Verify(ctx context.Context, email, code string, purpose domain.OTPPurpose) error
}

type otpStore interface {
	Put(ctx context.Context, rec *domain.OTPRecord) error
	FindActive(ctx context.Context, email, code string, purpose domain.OTPPurpose) (*domain.OTPRecord, error)
	FindCurrent(ctx context.Context, email string, purpose domain.OTPPurpose) (*domain.OTPRecord, error)
	MarkUsed(ctx context.Context, otpID string) error
	IncrementAttempts(ctx context.Context, otpID string) error
}

type service struct {
	repo otpStore
	ttl  time.Duration
}

func NewService(repo otpStore, ttl time.Duration) Service {
	if ttl <= 0 {
		ttl = otpgen.DefaultTTL
	}
	return &service{repo: repo, ttl: ttl}
}

func (s *service) Issue(ctx context.Context, email string, purpose domain.OTPPurpose) (string, error) {
	email = domain.NormalizeEmail(email)
	code, expiresAt, err := otpgen.Generate(s.ttl)
	if err != nil {
		return "", err
	}
	rec := &domain.OTPRecord{
		OTPID:     id.New(),
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: expiresAt.Unix(),
		Attempts:  0,
		Used:      false,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Put(ctx, rec); err != nil {
		return "", err
	}
	return code, nil
}

func (s *service) Verify(ctx context.Context, email, code string, purpose domain.OTPPurpose) error {
	email = domain.NormalizeEmail(email)

	rec, err := s.repo.FindActive(ctx, email, code, purpose)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return s.recordMiss(ctx, email, purpose)
		}
		return err
	}

	// Pre-check: a record past its budget is rejected without touching the
	// counter again, even when the submitted code is correct.
	if rec.Attempts >= domain.MaxOTPAttempts {
		return fmt.Errorf("otp %s: %w", rec.OTPID, domain.ErrTooManyAttempts)
	}

	// Success path: consume the record. The conditional write is the single
	// source of truth — if a concurrent attempt got there first, this one
	// reports the same uniform failure as a wrong code.
	if err := s.repo.MarkUsed(ctx, rec.OTPID); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return fmt.Errorf("otp %s consumed concurrently: %w", rec.OTPID, domain.ErrCodeInvalid)
		}
		return err
	}
	return nil
}

// recordMiss handles a submission that matched no active record for its
// code. If an outstanding record exists for the pair, the guess was wrong
// and counts against its budget; with no record at all there is nothing to
// increment.
func (s *service) recordMiss(ctx context.Context, email string, purpose domain.OTPPurpose) error {
	cur, err := s.repo.FindCurrent(ctx, email, purpose)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrCodeInvalid
		}
		return err
	}
	if err := s.repo.IncrementAttempts(ctx, cur.OTPID); err != nil && !errors.Is(err, domain.ErrConflict) {
		// A lost increment undercounts the budget; log it, but the caller
		// still gets the uniform rejection.
		slog.Warn("failed to increment otp attempts", "otp_id", cur.OTPID, "err", err)
	}
	return domain.ErrCodeInvalid
}
