package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashAPIKey returns the hex-encoded SHA-256 digest of an API key. API keys
// are high-entropy signed tokens, so a single deterministic digest is enough
// and keeps the lookup-by-hash path O(1).
func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// VerifyAPIKeyHash recomputes the digest of key and compares it with hash.
func VerifyAPIKeyHash(key, hash string) bool {
	return HashAPIKey(key) == hash
}
