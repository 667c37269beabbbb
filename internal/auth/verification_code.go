package auth

import (
	"crypto/rand"
	"encoding/hex"
)

// VerificationCodeLength is the exact length of an email verification
// code: 16 random bytes hex-encoded.
const VerificationCodeLength = 32

// GenerateVerificationCode returns a 32-character lowercase hex code.
func GenerateVerificationCode() (string, error) {
	buf := make([]byte, VerificationCodeLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// IsValidVerificationCode reports whether the code has the exact wire
// shape: 32 lowercase hex characters. Checked before any database
// lookup happens.
func IsValidVerificationCode(code string) bool {
	if len(code) != VerificationCodeLength {
		return false
	}
	for _, c := range code {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
