// Package fingerprint computes the deterministic content hash used to
// detect suspect links: a requirement's parent is re-fingerprinted at
// link time, and later divergence flags the edge for review.
package fingerprint

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sort"
)

// Compute returns the hex-encoded SHA-256 fingerprint of (title, body,
// tags). Tags are sorted lexicographically before encoding so that tag
// insertion order never affects the result. No other field (identity,
// HRID, relations, timestamps) contributes.
func Compute(title, body string, tags []string) string {
	sorted := append([]string(nil), tags...)
	sort.Strings(sorted)

	h := sha256.New()
	writeLengthPrefixed(h, title)
	writeLengthPrefixed(h, body)

	var countBuf [8]byte
	binary.BigEndian.PutUint64(countBuf[:], uint64(len(sorted)))
	h.Write(countBuf[:])
	for _, tag := range sorted {
		writeLengthPrefixed(h, tag)
	}

	return hex.EncodeToString(h.Sum(nil))
}

func writeLengthPrefixed(h interface{ Write([]byte) (int, error) }, s string) {
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(s)))
	h.Write(lenBuf[:])
	h.Write([]byte(s))
}
