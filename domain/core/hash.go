package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"math"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// FingerprintAnalysis hashes a method name, its rendered options, and both
// input arrays into a stable cache key. Float bits are written raw so that
// distinct inputs cannot alias through string formatting.
func FingerprintAnalysis(method string, options string, x, y []float64) Hash {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{0})
	h.Write([]byte(options))
	h.Write([]byte{0})
	writeFloats(h, x)
	h.Write([]byte{0})
	writeFloats(h, y)
	return Hash(hex.EncodeToString(h.Sum(nil)))
}

func writeFloats(h hash.Hash, vals []float64) {
	var buf [8]byte
	for _, v := range vals {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
}
