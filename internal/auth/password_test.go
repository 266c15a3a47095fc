package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("korrekt horse battery")
	require.NoError(t, err)
	require.NotEqual(t, "korrekt horse battery", hash)
	require.True(t, strings.HasPrefix(hash, "$2a$"))

	require.True(t, CheckPassword(hash, "korrekt horse battery"))
	require.False(t, CheckPassword(hash, "korrekt horse batterY"))
	require.False(t, CheckPassword(hash, ""))
}

func TestHashesAreSalted(t *testing.T) {
	a, err := HashPassword("same input")
	require.NoError(t, err)
	b, err := HashPassword("same input")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestCheckPasswordGarbageHash(t *testing.T) {
	require.False(t, CheckPassword("not a bcrypt hash", "anything"))
}
