package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	digest, err := Hash("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", digest)

	assert.True(t, Verify("s3cret!", digest))
	assert.False(t, Verify("s3cret", digest))
	assert.False(t, Verify("", digest))
	assert.False(t, Verify("s3cret!", ""))
}

func TestHashIsSalted(t *testing.T) {
	a, err := Hash("same")
	require.NoError(t, err)
	b, err := Hash("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashRejectsEmpty(t *testing.T) {
	_, err := Hash("")
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestHashRejectsInputBcryptWouldTruncate(t *testing.T) {
	_, err := Hash(strings.Repeat("a", MaxBytes+1))
	assert.ErrorIs(t, err, ErrTooLong)

	// multi-byte runes count by bytes
	_, err = Hash(strings.Repeat("é", 40))
	assert.ErrorIs(t, err, ErrTooLong)

	_, err = Hash(strings.Repeat("a", MaxBytes))
	assert.NoError(t, err)
}
