package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateVerificationCodeShape(t *testing.T) {
	code, err := GenerateVerificationCode()
	require.NoError(t, err)

	assert.Len(t, code, VerificationCodeLength)
	assert.True(t, IsValidVerificationCode(code))

	other, err := GenerateVerificationCode()
	require.NoError(t, err)
	assert.NotEqual(t, code, other)
}

func TestIsValidVerificationCode(t *testing.T) {
	valid := strings.Repeat("0f", 16)
	assert.True(t, IsValidVerificationCode(valid))

	assert.False(t, IsValidVerificationCode(""))
	assert.False(t, IsValidVerificationCode(valid[:31]))
	assert.False(t, IsValidVerificationCode(valid+"0"))
	assert.False(t, IsValidVerificationCode(strings.ToUpper(valid)))
	assert.False(t, IsValidVerificationCode(strings.Repeat("0g", 16)))
	assert.False(t, IsValidVerificationCode(strings.Repeat("0-", 16)))
}
