package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedURLRoundTrip(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)

	token, expiresAt, err := signer.Generate("dec-1", "clearance_CS001_123.pdf")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	decisionID, relPath, _, err := signer.Parse(token, false)
	require.NoError(t, err)
	assert.Equal(t, "dec-1", decisionID)
	assert.Equal(t, "clearance_CS001_123.pdf", relPath)
}

func TestSignedURLRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)

	token, _, err := signer.Generate("dec-1", "clearance_CS001_123.pdf")
	require.NoError(t, err)

	_, _, _, err = signer.Parse(token+"x", false)
	assert.Error(t, err)

	other := NewSignedURLSigner("different-secret", time.Hour)
	_, _, _, err = other.Parse(token, false)
	assert.Error(t, err)
}

func TestSignedURLExpiry(t *testing.T) {
	signer := &SignedURLSigner{secret: []byte("secret"), ttl: -time.Hour}

	token, _, err := signer.Generate("dec-1", "file.pdf")
	require.NoError(t, err)

	_, _, _, err = signer.Parse(token, false)
	assert.Error(t, err)

	_, relPath, _, err := signer.Parse(token, true)
	require.NoError(t, err)
	assert.Equal(t, "file.pdf", relPath)
}
