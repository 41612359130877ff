// Package account implements the user-facing auth workflows: registration
// with email verification, login, and OTP-backed password reset.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/synergysphere/auth-api/internal/application/otp"
	"github.com/synergysphere/auth-api/internal/domain"
	"github.com/synergysphere/auth-api/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldEmailVerified = "email_verified"
	fieldPasswordHash  = "password_hash"
	fieldLastLogin     = "last_login"
)

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, string, error)
	Login(ctx context.Context, req domain.LoginRequest) (*domain.User, string, error)
	VerifyEmail(ctx context.Context, email, code string) (*domain.User, error)
	ResendVerification(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type userStore interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type mailSender interface {
	SendOTP(ctx context.Context, to, code string, purpose domain.OTPPurpose) error
	SendWelcome(ctx context.Context, to, firstName string) error
}

type tokenSigner interface {
	Sign(userID, email string) (string, error)
}

type service struct {
	repo   userStore
	otpSvc otp.Service
	mailer mailSender
	signer tokenSigner
}

type ServiceDeps struct {
	UserRepo userStore
	OTPSvc   otp.Service
	Mailer   mailSender
	Signer   tokenSigner // may be nil when JWT keys are not configured
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:   deps.UserRepo,
		otpSvc: deps.OTPSvc,
		mailer: deps.Mailer,
		signer: deps.Signer,
	}
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, string, error) {
	email := domain.NormalizeEmail(req.Email)
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, "", fmt.Errorf("user already exists with this email address: %w", domain.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        email,
		PasswordHash: string(hash),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, u); err != nil {
		return nil, "", err
	}

	// Sending the verification code is best-effort: a mail outage must not
	// roll back the account.
	if err := s.issueAndSend(ctx, email, domain.PurposeEmailVerification); err != nil {
		slog.Warn("failed to send verification email", "email", email, "err", err)
	}

	bearer, err := s.sign(u)
	if err != nil {
		return nil, "", err
	}
	return u, bearer, nil
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*domain.User, string, error) {
	email := domain.NormalizeEmail(req.Email)
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		// Uniform message for unknown email and wrong password.
		return nil, "", fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	}
	if !u.Active {
		return nil, "", fmt.Errorf("account has been deactivated: %w", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	}

	now := time.Now().UTC()
	u.LastLogin = &now
	if err := s.repo.Update(ctx, u.UserID, map[string]interface{}{fieldLastLogin: now.Format(time.RFC3339)}); err != nil {
		slog.Warn("failed to update last login", "user_id", u.UserID, "err", err)
	}

	bearer, err := s.sign(u)
	if err != nil {
		return nil, "", err
	}
	return u, bearer, nil
}

func (s *service) VerifyEmail(ctx context.Context, email, code string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if err := s.otpSvc.Verify(ctx, email, code, domain.PurposeEmailVerification); err != nil {
		return nil, err
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if err := s.repo.Update(ctx, u.UserID, map[string]interface{}{fieldEmailVerified: true}); err != nil {
		return nil, err
	}
	u.EmailVerified = true

	if err := s.mailer.SendWelcome(ctx, u.Email, u.FirstName); err != nil {
		slog.Warn("failed to send welcome email", "email", u.Email, "err", err)
	}
	return u, nil
}

func (s *service) ResendVerification(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if u.EmailVerified {
		return fmt.Errorf("email is already verified: %w", domain.ErrAlreadyVerified)
	}
	// Unlike registration, an explicit resend surfaces a mail failure to the
	// caller — the send is the whole point of the request.
	if err := s.issueAndSend(ctx, email, domain.PurposeEmailVerification); err != nil {
		slog.Error("failed to resend verification email", "email", email, "err", err)
		return fmt.Errorf("failed to send verification email: %w", domain.ErrSendFailed)
	}
	return nil
}

func (s *service) ForgotPassword(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Never reveal whether an account exists: no record, no send,
			// same outcome as the success path.
			return nil
		}
		return err
	}
	if err := s.issueAndSend(ctx, u.Email, domain.PurposePasswordReset); err != nil {
		slog.Warn("failed to send password reset email", "email", u.Email, "err", err)
	}
	return nil
}

func (s *service) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = domain.NormalizeEmail(email)
	if err := s.otpSvc.Verify(ctx, email, code, domain.PurposePasswordReset); err != nil {
		return err
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.Update(ctx, u.UserID, map[string]interface{}{fieldPasswordHash: string(hash)})
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}

func (s *service) issueAndSend(ctx context.Context, email string, purpose domain.OTPPurpose) error {
	code, err := s.otpSvc.Issue(ctx, email, purpose)
	if err != nil {
		return err
	}
	return s.mailer.SendOTP(ctx, email, code, purpose)
}

func (s *service) sign(u *domain.User) (string, error) {
	if s.signer == nil {
		slog.Warn("jwt signer not configured, issuing no token", "user_id", u.UserID)
		return "", nil
	}
	return s.signer.Sign(u.UserID, u.Email)
}
