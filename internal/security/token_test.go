package security

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenSigner_RoundTrip(t *testing.T) {
	s := NewTokenSigner("test-secret", 24*time.Hour)

	tok := s.Sign("rev-123", "user@example.com")
	payload, err := s.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "rev-123", payload.RecordID)
	assert.Equal(t, "user@example.com", payload.Email)
	assert.WithinDuration(t, time.Now(), payload.IssuedAt, 2*time.Second)
}

func TestTokenSigner_RejectsTampering(t *testing.T) {
	s := NewTokenSigner("test-secret", 24*time.Hour)
	tok := s.Sign("rev-123", "user@example.com")

	cases := map[string]string{
		"garbage":           "not-a-token",
		"no separator":      strings.ReplaceAll(tok, ".", "_"),
		"flipped signature": tok[:len(tok)-2] + "AA",
		"empty":             "",
	}
	for name, bad := range cases {
		_, err := s.Verify(bad)
		assert.ErrorIs(t, err, ErrInvalidToken, name)

		_, _, err = s.Decode(bad)
		assert.ErrorIs(t, err, ErrInvalidToken, name)
	}
}

func TestTokenSigner_WrongSecret(t *testing.T) {
	tok := NewTokenSigner("secret-a", time.Hour).Sign("rev-1", "a@b.c")
	_, err := NewTokenSigner("secret-b", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenSigner_Expiry(t *testing.T) {
	s := NewTokenSigner("test-secret", time.Hour)

	tok := s.signAt("rev-123", "user@example.com", time.Now().Add(-2*time.Hour))
	_, err := s.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	payload, expired, err := s.Decode(tok)
	require.NoError(t, err)
	assert.True(t, expired)
	assert.Equal(t, "rev-123", payload.RecordID, "expired tokens still yield the record for auditing")

	_, expired, err = s.Decode(s.Sign("rev-123", "user@example.com"))
	require.NoError(t, err)
	assert.False(t, expired)
}

func TestTokenSigner_Decode_ForgedExpiredStaysOpaque(t *testing.T) {
	s := NewTokenSigner("test-secret", time.Hour)
	forged := NewTokenSigner("other", time.Hour).signAt("rev-1", "a@b.c", time.Now().Add(-2*time.Hour))

	_, expired, err := s.Decode(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.False(t, expired, "forged tokens never report expired")
}
