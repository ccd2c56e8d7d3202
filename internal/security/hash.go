package security

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashEmail returns the hex SHA-256 of the lowercased, trimmed email. All
// duplicate and identity checks run against this digest, never the raw
// address.
func HashEmail(email string) string {
	norm := strings.ToLower(strings.TrimSpace(email))
	sum := sha256.Sum256([]byte(norm))
	return hex.EncodeToString(sum[:])
}

// HashIP returns the hex SHA-256 of the client IP for rate-limit bucketing.
func HashIP(ip string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(ip)))
	return hex.EncodeToString(sum[:])
}
