package citation

import (
	"crypto/sha256"
	"encoding/hex"
)

// FingerprintLength is the number of hex characters kept from a digest.
const FingerprintLength = 12

// Variant is one generated citation.
type Variant struct {
	// Text is the human-readable citation shown on the page.
	Text string `json:"text"`
	// ID is the fingerprint of a fresh random UUID, also embedded in Text.
	ID string `json:"id"`
	// Hash is the fingerprint of Text and the registry uniqueness key.
	Hash string `json:"hash"`
}

// Fingerprint returns the first FingerprintLength hex characters of the
// SHA-256 digest of s.
func Fingerprint(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:FingerprintLength]
}
