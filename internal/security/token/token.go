// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

/*
Package token provides random and HMAC-signed, time-bound secrets.

It backs every place in Vendora where a durable, tamper-evident value must be
minted: email verification links, password reset proofs, and signed payloads
exchanged with the storefront frontend.

Architecture:

  - Random tokens: crypto/rand, hex or URL-safe base64 encoded.
  - Signed tokens: HMAC-SHA256 over a payload with an embedded Unix timestamp.
  - Expiry: optional absolute expiry for random tokens, optional max-age for
    signed tokens, both enforced at verification time.

The signing key is the application secret loaded from configuration. A missing
secret is a startup-time contract violation, never a per-request error.
*/
package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// # Constants & Types

const (
	// DefaultLength is the byte length of random tokens when unspecified.
	DefaultLength = 32

	// payloadSeparator joins the data and the timestamp inside the signed
	// payload. The data half must not contain this rune.
	payloadSeparator = "|"
)

// ExpiringToken pairs a random token with its absolute Unix expiry.
type ExpiringToken struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// SignedToken is the decoded result of a successfully verified signed token.
type SignedToken struct {
	// Data is the original payload handed to [Service.GenerateSigned].
	Data string
	// Timestamp is the Unix time the token was minted.
	Timestamp int64
}

// Service generates and verifies random and signed tokens.
//
// # Concurrency
//
// Service is immutable after construction and safe for concurrent use.
type Service struct {
	secret []byte
	now    func() time.Time
}

// NewService constructs a token [Service] from the application secret.
//
// An empty secret is a fatal configuration error: callers (main.go) must treat
// a non-nil error as unrecoverable rather than continuing without signing.
func NewService(secret string) (*Service, error) {
	if secret == "" {
		return nil, fmt.Errorf("token: application secret must not be empty")
	}
	return &Service{secret: []byte(secret), now: time.Now}, nil
}

// # Random Tokens

/*
Generate creates a cryptographically secure random token.

Parameters:
  - length: Number of random bytes (hex output is twice as long). Values < 1
    fall back to [DefaultLength].

Returns:
  - string: Lowercase hex token
  - error: Entropy source failures
*/
func (service *Service) Generate(length int) (string, error) {
	if length < 1 {
		length = DefaultLength
	}

	buffer := make([]byte, length)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("token: failed to read random bytes: %w", err)
	}

	return hex.EncodeToString(buffer), nil
}

/*
GenerateURLSafe creates a random token using only the [A-Za-z0-9_-] alphabet.

Description: Suitable for embedding in URLs and cookies without escaping.

Returns:
  - string: URL-safe token of [DefaultLength] random bytes
  - error: Entropy source failures
*/
func (service *Service) GenerateURLSafe() (string, error) {
	buffer := make([]byte, DefaultLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("token: failed to read random bytes: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buffer), nil
}

/*
GenerateWithExpiry creates a random token carrying an absolute Unix expiry.

Parameters:
  - length: Number of random bytes
  - ttl: Validity window from now

Returns:
  - ExpiringToken: Token plus expires_at (now + ttl)
  - error: Entropy source failures
*/
func (service *Service) GenerateWithExpiry(length int, ttl time.Duration) (ExpiringToken, error) {
	value, err := service.Generate(length)
	if err != nil {
		return ExpiringToken{}, err
	}

	return ExpiringToken{
		Token:     value,
		ExpiresAt: service.now().Add(ttl).Unix(),
	}, nil
}

// HasExpired reports whether the given Unix timestamp lies in the past.
func (service *Service) HasExpired(unixTimestamp int64) bool {
	return service.now().Unix() > unixTimestamp
}

// # Signed Tokens

/*
GenerateSigned mints a tamper-evident token over the given data using the
instance secret.

Description: The wire format is base64url(data|timestamp) + "." + hex(HMAC),
where the HMAC-SHA256 is computed over the raw payload before encoding. The
base64url alphabet guarantees the payload half never contains an unencoded
dot, so [Service.VerifySigned] can split on the first "." only.

Parameters:
  - data: Arbitrary payload. Must not contain the "|" separator.

Returns:
  - string: Signed token
*/
func (service *Service) GenerateSigned(data string) string {
	return service.GenerateSignedWithKey(data, nil)
}

// GenerateSignedWithKey is [Service.GenerateSigned] with an override key.
// A nil key falls back to the instance secret.
func (service *Service) GenerateSignedWithKey(data string, key []byte) string {
	payload := data + payloadSeparator + strconv.FormatInt(service.now().Unix(), 10)
	signature := service.sign([]byte(payload), key)

	return base64.RawURLEncoding.EncodeToString([]byte(payload)) + "." + signature
}

/*
VerifySigned checks a signed token's integrity and freshness.

Description: Fails (ok == false) on malformed structure, a payload or signature
half that does not match, or — when maxAge > 0 — a mint timestamp older than
maxAge. Signature comparison is constant-time.

Parameters:
  - tokenString: The signed token
  - maxAge: Maximum accepted age; 0 disables the age check

Returns:
  - SignedToken: Decoded data and mint timestamp
  - bool: Whether the token is authentic and fresh
*/
func (service *Service) VerifySigned(tokenString string, maxAge time.Duration) (SignedToken, bool) {
	return service.VerifySignedWithKey(tokenString, nil, maxAge)
}

// VerifySignedWithKey is [Service.VerifySigned] with an override key.
// A nil key falls back to the instance secret.
func (service *Service) VerifySignedWithKey(tokenString string, key []byte, maxAge time.Duration) (SignedToken, bool) {
	// Split on the FIRST dot: the payload half is base64url and cannot
	// contain one, the signature half is plain hex.
	encodedPayload, signature, found := strings.Cut(tokenString, ".")
	if !found || encodedPayload == "" || signature == "" {
		return SignedToken{}, false
	}

	payload, err := base64.RawURLEncoding.DecodeString(encodedPayload)
	if err != nil {
		return SignedToken{}, false
	}

	expected := service.sign(payload, key)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return SignedToken{}, false
	}

	// The timestamp is the suffix after the LAST separator, so the data half
	// itself may never contain one (enforced by convention on the caller).
	separatorIndex := strings.LastIndex(string(payload), payloadSeparator)
	if separatorIndex < 0 {
		return SignedToken{}, false
	}

	timestamp, err := strconv.ParseInt(string(payload[separatorIndex+1:]), 10, 64)
	if err != nil {
		return SignedToken{}, false
	}

	if maxAge > 0 && service.now().Unix()-timestamp > int64(maxAge.Seconds()) {
		return SignedToken{}, false
	}

	return SignedToken{
		Data:      string(payload[:separatorIndex]),
		Timestamp: timestamp,
	}, true
}

// sign computes the lowercase hex HMAC-SHA256 of payload with the given key,
// falling back to the instance secret when key is nil.
func (service *Service) sign(payload []byte, key []byte) string {
	if key == nil {
		key = service.secret
	}

	mac := hmac.New(sha256.New, key)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
