// Package cache implements the incremental-compilation blob store that
// consumes the serialization core: encoded unit streams are persisted on
// disk keyed by content hash, with a SQLite index of entries and a
// session-spanning allocation-id bridge. The cache owns the outer file
// format; the codec owns everything inside a blob.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentHasher computes content hashes used as blob keys and for change
// detection.
type ContentHasher struct{}

// NewContentHasher creates a new content hasher.
func NewContentHasher() *ContentHasher {
	return &ContentHasher{}
}

// HashBlob computes the SHA-256 hash of an encoded blob.
func (ch *ContentHasher) HashBlob(blob []byte) string {
	sum := sha256.Sum256(blob)
	return hex.EncodeToString(sum[:])
}

// HashString computes the SHA-256 hash of a string.
func (ch *ContentHasher) HashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
