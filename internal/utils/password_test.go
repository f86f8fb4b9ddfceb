package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("pw12345678", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, "pw12345678", hash)

	require.True(t, VerifyPassword(hash, "pw12345678"))
	require.False(t, VerifyPassword(hash, "wrongpw"))
	require.False(t, VerifyPassword("", "pw12345678"))
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("pw12345678", bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := HashPassword("pw12345678", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, h1, h2, "two hashes of the same password must differ by salt")
}
