package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

const resetTokenBytes = 32

// RandomResetTokens draws url-safe reset tokens from crypto/rand and stores
// them as hex SHA-256 digests.
type RandomResetTokens struct{}

func (RandomResetTokens) NewResetToken() (string, string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	raw := base64.RawURLEncoding.EncodeToString(buf)
	return raw, RandomResetTokens{}.HashResetToken(raw), nil
}

func (RandomResetTokens) HashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
