package otpgen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_SixDigits_NoLeadingZero(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, _, err := Generate(5 * time.Minute)
		require.NoError(t, err)
		require.Len(t, code, 6)
		assert.True(t, IsValid(code), "code %q must be six digits", code)
		assert.NotEqual(t, byte('0'), code[0], "code %q must not start with zero", code)
	}
}

func TestGenerate_ExpiryInFuture(t *testing.T) {
	before := time.Now()
	_, expiresAt, err := Generate(5 * time.Minute)
	require.NoError(t, err)
	assert.True(t, expiresAt.After(before.Add(4*time.Minute)))
	assert.True(t, expiresAt.Before(before.Add(6*time.Minute)))
}

func TestGenerate_NonPositiveTTL_UsesDefault(t *testing.T) {
	before := time.Now()
	_, expiresAt, err := Generate(0)
	require.NoError(t, err)
	assert.True(t, expiresAt.After(before.Add(DefaultTTL-time.Minute)))
}

func TestGenerate_FreshCodes(t *testing.T) {
	// 6-digit codes collide occasionally, but 20 draws repeating a single
	// value would mean the random source is broken.
	seen := map[string]int{}
	for i := 0; i < 20; i++ {
		code, _, err := Generate(time.Minute)
		require.NoError(t, err)
		seen[code]++
	}
	assert.Greater(t, len(seen), 1)
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("123456"))
	assert.True(t, IsValid("100000"))
	assert.False(t, IsValid("12345"))
	assert.False(t, IsValid("1234567"))
	assert.False(t, IsValid("12345a"))
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("12 456"))
}
