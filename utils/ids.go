package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateShortID returns 8 lowercase hex characters taken from a random UUID
func GenerateShortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// UniqueSlug appends a short random suffix so listings with the same title
// get distinct URLs.
func UniqueSlug(name string) string {
	base := Slugify(name)
	if base == "" {
		return GenerateShortID()
	}
	return base + "-" + GenerateShortID()
}

// BearerToken extracts the token from an "Authorization: Bearer ..." header.
func BearerToken(header string) string {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
