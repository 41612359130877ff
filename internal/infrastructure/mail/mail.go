// Package mail sends transactional email: OTP codes, welcome messages and
// test probes. Two implementations of Sender exist — plain SMTP for local
// development (MailHog) and AWS SES for production — selected by MAIL_DRIVER.
package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/synergysphere/auth-api/internal/domain"
)

// Sender delivers notification email. Sends are best-effort from the
// caller's point of view; orchestrator flows decide whether a failure is
// fatal.
type Sender interface {
	SendOTP(ctx context.Context, to, code string, purpose domain.OTPPurpose) error
	SendWelcome(ctx context.Context, to, firstName string) error
	SendTest(ctx context.Context, to string) error
}

func otpSubject(purpose domain.OTPPurpose) string {
	if purpose == domain.PurposePasswordReset {
		return "Reset your SynergySphere password"
	}
	return "Verify your SynergySphere account"
}

func otpBody(code string, purpose domain.OTPPurpose, ttl time.Duration) string {
	heading := "Verify Your Email Address"
	intro := "Thank you for signing up with SynergySphere! To complete your registration, please verify your email address using the OTP below:"
	if purpose == domain.PurposePasswordReset {
		heading = "Reset Your Password"
		intro = "You requested to reset your password. Use the OTP below to create a new password:"
	}
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="text-align: center; margin-bottom: 30px;">
    <h1 style="color: #4F46E5; margin: 0;">SynergySphere</h1>
    <p style="color: #6B7280; margin: 5px 0 0 0;">Collaborate. Innovate. Succeed.</p>
  </div>
  <div style="background: #F9FAFB; padding: 30px; border-radius: 8px;">
    <h2 style="color: #1F2937; text-align: center;">%s</h2>
    <p style="color: #4B5563; line-height: 1.6;">%s</p>
    <div style="text-align: center; margin: 30px 0;">
      <div style="display: inline-block; background: #4F46E5; color: white; padding: 15px 30px; border-radius: 8px; font-size: 24px; font-weight: bold; letter-spacing: 3px;">%s</div>
    </div>
    <p style="color: #6B7280; font-size: 14px; text-align: center;">This OTP will expire in %d minutes. If you didn't request this, please ignore this email.</p>
  </div>
</div>`, heading, intro, code, int(ttl.Minutes()))
}

func welcomeBody(firstName string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="text-align: center; margin-bottom: 30px;">
    <h1 style="color: #4F46E5; margin: 0;">SynergySphere</h1>
    <p style="color: #6B7280; margin: 5px 0 0 0;">Collaborate. Innovate. Succeed.</p>
  </div>
  <div style="background: #F9FAFB; padding: 30px; border-radius: 8px;">
    <h2 style="color: #1F2937; text-align: center;">Welcome to SynergySphere, %s!</h2>
    <p style="color: #4B5563; line-height: 1.6;">Your account has been successfully created and verified. You're now ready to start collaborating with your team.</p>
  </div>
</div>`, firstName)
}

func testBody() string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1>Email Test Successful!</h1>
  <p>If you receive this email, your email service is working correctly.</p>
  <p>Timestamp: %s</p>
</div>`, time.Now().UTC().Format(time.RFC3339))
}
