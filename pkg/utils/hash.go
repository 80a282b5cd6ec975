package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashContent returns the hex SHA-256 digest of a post's content, used as
// its dedupe identity.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
