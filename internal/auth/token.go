package auth

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the lifetime of every issued admin token.
const TokenTTL = 7 * 24 * time.Hour

// ErrTokenRejected is the only error Verify returns to callers. The wrapped
// cause says which check failed and is meant for server-side logs.
var ErrTokenRejected = errors.New("token rejected")

// Claims is the token payload.
type Claims struct {
	Role string `json:"role"`
	// Exp is the absolute expiry in milliseconds since the Unix epoch.
	Exp float64 `json:"exp"`
}

// ExpiresAt returns Exp as a time.
func (c Claims) ExpiresAt() time.Time {
	return time.UnixMilli(int64(c.Exp))
}

// TokenCodec issues and verifies compact admin bearer tokens of the form
// base64url(claims JSON) "." base64url(HMAC-SHA256(secret, encoded claims)).
// The MAC covers the encoded segment so verification never re-serializes JSON.
type TokenCodec struct {
	secret []byte
}

// NewTokenCodec builds a codec keyed by secret.
func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret)}
}

// Issue signs an admin token expiring TokenTTL after now.
func (tc *TokenCodec) Issue(now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(TokenTTL)
	payload, err := json.Marshal(Claims{Role: RoleAdmin, Exp: float64(expiresAt.UnixMilli())})
	if err != nil {
		return "", time.Time{}, err
	}

	encodedClaims := base64.RawURLEncoding.EncodeToString(payload)
	sig, err := tc.sign(encodedClaims)
	if err != nil {
		return "", time.Time{}, err
	}
	return encodedClaims + "." + base64.RawURLEncoding.EncodeToString(sig), expiresAt, nil
}

// Verify checks structure, signature, role and expiry, in that order.
// Every failure is ErrTokenRejected.
func (tc *TokenCodec) Verify(token string, now time.Time) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return nil, reject("expected 2 segments, got %d", len(parts))
	}
	encodedClaims, encodedSig := parts[0], parts[1]

	payload, err := decodeSegment(encodedClaims)
	if err != nil {
		return nil, reject("claims segment: %v", err)
	}
	supplied, err := decodeSegment(encodedSig)
	if err != nil {
		return nil, reject("signature segment: %v", err)
	}

	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(payload))
	if err := dec.Decode(&raw); err != nil || raw == nil {
		return nil, reject("claims are not a JSON object")
	}
	if dec.More() {
		return nil, reject("trailing data after claims")
	}

	expected, err := tc.sign(encodedClaims)
	if err != nil {
		return nil, reject("sign: %v", err)
	}
	if !constantTimeEqual(expected, supplied) {
		return nil, reject("signature mismatch")
	}

	role, _ := raw["role"].(string)
	if role != RoleAdmin {
		return nil, reject("role %q is not admin", role)
	}
	exp, ok := raw["exp"].(float64)
	if !ok || math.IsNaN(exp) || math.IsInf(exp, 0) {
		return nil, reject("exp is not a finite number")
	}
	if exp <= float64(now.UnixMilli()) {
		return nil, reject("expired")
	}
	return &Claims{Role: role, Exp: exp}, nil
}

// sign computes the raw HMAC-SHA256 of the encoded claims segment.
func (tc *TokenCodec) sign(encodedClaims string) ([]byte, error) {
	return jwt.SigningMethodHS256.Sign(encodedClaims, tc.secret)
}

// constantTimeEqual compares every byte regardless of where the first
// difference is. A length mismatch is known to the caller anyway.
func constantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var diff byte
	for i := range a {
		diff |= a[i] ^ b[i]
	}
	return diff == 0
}

// decodeSegment accepts unpadded base64url, or correctly padded base64url.
// Decoding is strict: non-zero unused bits in the final character are an
// error, so each byte string has exactly one unpadded spelling.
func decodeSegment(seg string) ([]byte, error) {
	if strings.HasSuffix(seg, "=") {
		return base64.URLEncoding.Strict().DecodeString(seg)
	}
	return base64.RawURLEncoding.Strict().DecodeString(seg)
}

func reject(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrTokenRejected, fmt.Sprintf(format, args...))
}
