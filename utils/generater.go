package utils

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/google/uuid"
)

// GenerateVerificationCode returns an opaque single-use code for account
// verification / password reset emails.
func GenerateVerificationCode() string {
	return uuid.NewString()
}

// GenerateState returns a random URL-safe string for OAuth state parameters.
func GenerateState() string {
	b := make([]byte, 16)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
