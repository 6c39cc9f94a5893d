// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

/*
GenerateSecureToken produces a cryptographically random opaque token.

Description: Used for refresh tokens and similar bearer secrets. The value is
hex-encoded, so the returned string is twice the requested byte length.

Parameters:
  - byteLength: int (Entropy in bytes)

Returns:
  - string: Hex-encoded token
  - error: Entropy source failures
*/
func GenerateSecureToken(byteLength int) (string, error) {
	buffer := make([]byte, byteLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(buffer), nil
}

// HashToken returns the lowercase hex SHA-256 digest of a token.
//
// Bearer secrets are never stored verbatim; only this digest is persisted, so
// a database leak does not expose usable refresh tokens. SHA-256 (not bcrypt)
// because the input is already high-entropy and lookups must be exact-match.
func HashToken(token string) string {
	digest := sha256.Sum256([]byte(token))
	return hex.EncodeToString(digest[:])
}
