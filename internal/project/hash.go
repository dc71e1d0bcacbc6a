package project

import (
	"crypto/sha256"
)

// Digest is a sha256 content hash.
type Digest [32]byte

// Combine hashes content followed by deps. The order of deps is significant.
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Sum hashes data.
func Sum(data []byte) Digest {
	return sha256.Sum256(data)
}
