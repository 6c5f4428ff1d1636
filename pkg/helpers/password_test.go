package helpers

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashSecretRoundTrip(t *testing.T) {
	hash, err := HashSecret("hunter22")
	require.NoError(t, err)
	require.True(t, CompareHashAndSecret(hash, "hunter22"))
	require.False(t, CompareHashAndSecret(hash, "hunter23"))
}

func TestHashToken_AcceptsInputsBeyondBcryptLimit(t *testing.T) {
	// Signed JWTs are far past bcrypt's 72-byte input cap.
	long := strings.Repeat("eyJhbGciOiJIUzI1NiJ9.", 20)
	hash, err := HashToken(long)
	require.NoError(t, err)
	require.True(t, CompareHashAndToken(hash, long))
	require.False(t, CompareHashAndToken(hash, long+"x"))
}

func TestGenOTPCode_Format(t *testing.T) {
	re := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 50; i++ {
		code, err := GenOTPCode()
		require.NoError(t, err)
		require.True(t, re.MatchString(code), "got %q", code)
	}
}

func TestGenOpaqueToken_LengthAndUniqueness(t *testing.T) {
	a, err := GenOpaqueToken(32)
	require.NoError(t, err)
	b, err := GenOpaqueToken(32)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
	// 32 bytes -> 43 chars of unpadded base64url.
	require.Len(t, a, 43)
}
