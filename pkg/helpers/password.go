package helpers

import (
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

// HashCost applies to every client-supplied secret stored at rest:
// passwords, refresh tokens, verification codes, and reset tokens.
const HashCost = 10

// HashSecret hashes plain text secret material using bcrypt
func HashSecret(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), HashCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndSecret compares a bcrypt hash with the plain secret
func CompareHashAndSecret(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// bcrypt rejects inputs longer than 72 bytes, so signed tokens are digested
// with SHA-256 before hashing.
func tokenDigest(plain string) []byte {
	sum := sha256.Sum256([]byte(plain))
	out := make([]byte, base64.RawStdEncoding.EncodedLen(len(sum)))
	base64.RawStdEncoding.Encode(out, sum[:])
	return out
}

// HashToken hashes long token material (refresh JWTs) at rest.
func HashToken(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword(tokenDigest(plain), HashCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndToken compares a HashToken hash with the plain token.
func CompareHashAndToken(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), tokenDigest(plain)) == nil
}
