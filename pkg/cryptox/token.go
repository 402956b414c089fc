package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// Token sizes in bytes before encoding.
const (
	TokenSize128 = 16
	TokenSize256 = 32

	// NonceSize is the entropy of a request-signing nonce (24 hex chars).
	NonceSize = 12

	// LinkCodeSize is the entropy of a link code (8 hex chars).
	LinkCodeSize = 4
)

// GenerateToken returns size random bytes as base64url without padding.
// Refresh tokens use TokenSize256.
func GenerateToken(size int) (string, error) {
	buf, err := randomBytes(size)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// GenerateHex returns size random bytes as lowercase hex.
func GenerateHex(size int) (string, error) {
	buf, err := randomBytes(size)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// MustGenerateHex is GenerateHex that panics when the system RNG fails.
func MustGenerateHex(size int) string {
	s, err := GenerateHex(size)
	if err != nil {
		panic(fmt.Sprintf("cryptox: %v", err))
	}
	return s
}

func randomBytes(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate random token: %w", err)
	}
	return buf, nil
}

// FingerprintToken is the SHA-256 of token as base64url (43 chars). Refresh
// tokens are stored by fingerprint only.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// SHA256Hex is the lowercase hex SHA-256 of b.
func SHA256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
