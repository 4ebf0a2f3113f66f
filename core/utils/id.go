package utils

import (
	"crypto/rand"
	"encoding/base64"
	"strings"

	"ndrop-api/core/constants"

	"github.com/gosimple/slug"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// GenerateEventCode returns a short human-readable join code (e.g. "7KQ2M8A").
func GenerateEventCode() (string, error) {
	return gonanoid.Generate(constants.EventCodeAlphabet, constants.EventCodeLength)
}

// GenerateCardSlug builds a public share slug from a display name plus a short
// random suffix so two users with the same name never collide.
func GenerateCardSlug(displayName string) string {
	base := slug.Make(displayName)
	if base == "" {
		base = "card"
	}
	suffix, err := gonanoid.Generate("0123456789abcdefghijklmnopqrstuvwxyz", 6)
	if err != nil {
		return base
	}
	return strings.Join([]string{base, suffix}, "-")
}

// GenerateRandomString generates a cryptographically secure random string
func GenerateRandomString(length int) string {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to nanoid if crypto/rand fails
		id, _ := gonanoid.Generate("0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz", length)
		return id
	}
	return base64.URLEncoding.EncodeToString(bytes)[:length]
}
