package security

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("password1")
	require.NoError(t, err)
	require.NotContains(t, string(hash), "password1")

	ok, err := VerifyPassword("password1", hash)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = VerifyPassword("wrongpass", hash)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPasswordHashUniqueSalt(t *testing.T) {
	first, err := HashPassword("password1")
	require.NoError(t, err)
	second, err := HashPassword("password1")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	_, err := VerifyPassword("password1", []byte("not-a-hash"))
	require.Error(t, err)
}
