package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
)

// ComputeHash returns the hex-encoded SHA-256 of content.
func ComputeHash(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:])
}
