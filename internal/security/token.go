package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidToken is returned for every verification failure: bad encoding,
// malformed payload, signature mismatch, or expiry. Callers must not be able
// to tell which check failed from the error alone.
var ErrInvalidToken = errors.New("invalid or expired token")

// errTokenExpired never leaves this package; Decode lets internal callers
// distinguish expiry from forgery.
var errTokenExpired = errors.New("token expired")

// TokenPayload is the decoded content of a correctly signed token.
type TokenPayload struct {
	RecordID string
	Email    string
	IssuedAt time.Time
}

// TokenSigner issues and verifies HMAC-SHA256 signed, time-limited tokens
// used in email verification links.
type TokenSigner struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenSigner(secret string, ttl time.Duration) *TokenSigner {
	return &TokenSigner{secret: []byte(secret), ttl: ttl}
}

// Sign builds a token binding recordID and email to the current time.
// Format: base64url(recordID:email:unixts) + "." + base64url(hmac).
func (s *TokenSigner) Sign(recordID, email string) string {
	return s.signAt(recordID, email, time.Now())
}

func (s *TokenSigner) signAt(recordID, email string, at time.Time) string {
	payload := fmt.Sprintf("%s:%s:%d", recordID, email, at.Unix())
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	sig := mac.Sum(nil)
	return base64.RawURLEncoding.EncodeToString([]byte(payload)) + "." + base64.RawURLEncoding.EncodeToString(sig)
}

// Verify checks encoding, signature and TTL, collapsing every failure into
// ErrInvalidToken.
func (s *TokenSigner) Verify(token string) (*TokenPayload, error) {
	payload, err := s.decode(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return payload, nil
}

// Decode checks encoding and signature but tells expiry apart: it returns
// (payload, true, nil) for a signed-but-expired token so the caller can
// audit the attempt against the right record. Forgeries stay opaque.
func (s *TokenSigner) Decode(token string) (payload *TokenPayload, expired bool, err error) {
	payload, err = s.decode(token)
	if errors.Is(err, errTokenExpired) {
		return payload, true, nil
	}
	if err != nil {
		return nil, false, ErrInvalidToken
	}
	return payload, false, nil
}

func (s *TokenSigner) decode(token string) (*TokenPayload, error) {
	dot := strings.LastIndex(token, ".")
	if dot < 0 {
		return nil, ErrInvalidToken
	}

	payloadRaw, err := base64.RawURLEncoding.DecodeString(token[:dot])
	if err != nil {
		return nil, ErrInvalidToken
	}
	sig, err := base64.RawURLEncoding.DecodeString(token[dot+1:])
	if err != nil {
		return nil, ErrInvalidToken
	}

	// Signature before expiry: a forged-but-stale token must never reach
	// the expiry branch.
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(payloadRaw)
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return nil, ErrInvalidToken
	}

	payload := string(payloadRaw)
	first := strings.Index(payload, ":")
	last := strings.LastIndex(payload, ":")
	if first < 0 || last <= first {
		return nil, ErrInvalidToken
	}

	ts, err := strconv.ParseInt(payload[last+1:], 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}
	issued := time.Unix(ts, 0)

	decoded := &TokenPayload{
		RecordID: payload[:first],
		Email:    payload[first+1 : last],
		IssuedAt: issued,
	}
	if time.Since(issued) > s.ttl {
		return decoded, errTokenExpired
	}
	return decoded, nil
}
