package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/synergysphere/auth-api/internal/domain"
)

func TestStruct_OTPTag(t *testing.T) {
	ok := domain.VerifyEmailRequest{Email: "alice@example.com", OTP: "123456"}
	require.NoError(t, Struct(&ok))

	short := domain.VerifyEmailRequest{Email: "alice@example.com", OTP: "12345"}
	err := Struct(&short)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "otp")

	alpha := domain.VerifyEmailRequest{Email: "alice@example.com", OTP: "12345a"}
	assert.Error(t, Struct(&alpha))
}

func TestStruct_EmailAndPassword(t *testing.T) {
	err := Struct(&domain.RegisterRequest{
		FirstName: "Alice", LastName: "Smith",
		Email: "not-an-email", Password: "longenough",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Email")

	err = Struct(&domain.RegisterRequest{
		FirstName: "Alice", LastName: "Smith",
		Email: "alice@example.com", Password: "short",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min")
}
