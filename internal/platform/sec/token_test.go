// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package sec

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecureToken_HexLengthAndUniqueness(t *testing.T) {
	first, err := GenerateSecureToken(32)
	require.NoError(t, err)

	second, err := GenerateSecureToken(32)
	require.NoError(t, err)

	// Hex encoding doubles the byte length.
	assert.Len(t, first, 64)

	_, err = hex.DecodeString(first)
	assert.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestHashToken_DeterministicDigest(t *testing.T) {
	hash := HashToken("some-refresh-token")

	// SHA-256 hex digest is always 64 characters.
	assert.Len(t, hash, 64)
	assert.Equal(t, hash, HashToken("some-refresh-token"))
	assert.NotEqual(t, hash, HashToken("some-other-token"))

	// Exact-match lookups depend on the digest never containing the input.
	assert.NotContains(t, hash, "refresh")
}
