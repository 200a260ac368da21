package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("swordfish")
	require.NoError(t, err)
	assert.NotEqual(t, "swordfish", hash)

	assert.True(t, CheckPassword(hash, "swordfish"))
	assert.False(t, CheckPassword(hash, "Swordfish"))
	assert.False(t, CheckPassword("not-a-hash", "swordfish"))
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("swordfish")
	require.NoError(t, err)
	h2, err := HashPassword("swordfish")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
