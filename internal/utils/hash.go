package utils

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// ContentHash returns the hex-encoded BLAKE2b-256 digest of a document's
// content. DocumentUpdated events carry this value as their base hash, so it
// must stay stable across devices and releases.
//
// Example usage:
//
//	hash := utils.ContentHash("# Title\n")
func ContentHash(content string) string {
	sum := blake2b.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
