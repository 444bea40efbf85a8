// Package codeblock derives fixed-size pseudorandom code blocks from a secret
// seed and a sub-epoch index. Every block is a pure function of
// (seed, index, bit length, scheme):
//   - a 256-bit key is derived per index from seed || LE32(index)
//   - the key drives a ChaCha20 keystream with an all-zero nonce
//   - ceil(bitLength/8) bytes are taken from keystream position zero
//   - unused high bits of the last byte are cleared
//
// Nothing in this package reads an entropy source or keeps shared state, so
// all functions are safe for concurrent use.
package codeblock

import (
	"encoding/binary"
	"errors"

	"golang.org/x/crypto/chacha20"
)

// ErrZeroBitLength is returned by callers that validate a block bit length
// before deriving. Derive itself never fails.
var ErrZeroBitLength = errors.New("block bit length must be greater than 0")

// zeroNonce is shared read-only; per-index separation comes from the key.
var zeroNonce [chacha20.NonceSize]byte

// Derive returns the code block for index using the default scheme.
func Derive(seed []byte, index uint32, bitLength uint32) []byte {
	return DefaultScheme.Derive(seed, index, bitLength)
}

// ByteLength returns the number of bytes needed to hold bitLength bits.
func ByteLength(bitLength uint32) int {
	return int((uint64(bitLength) + 7) / 8)
}

// indexBytes encodes index as four little-endian bytes.
func indexBytes(index uint32) [4]byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], index)
	return b
}

// expand fills a block of ceil(bitLength/8) bytes from the ChaCha20 keystream
// keyed by key and masks the trailing bits.
func expand(key *[chacha20.KeySize]byte, bitLength uint32) []byte {
	out := make([]byte, ByteLength(bitLength))
	if len(out) == 0 {
		return out
	}

	c, err := chacha20.NewUnauthenticatedCipher(key[:], zeroNonce[:])
	if err != nil {
		// Key and nonce sizes are fixed at compile time.
		panic("codeblock: chacha20 init: " + err.Error())
	}
	// XOR over a zeroed buffer yields the raw keystream.
	c.XORKeyStream(out, out)

	mask(out, bitLength)
	return out
}

// mask clears the bits of the final byte beyond bitLength.
func mask(block []byte, bitLength uint32) {
	extra := bitLength % 8
	if extra == 0 || len(block) == 0 {
		return
	}
	block[len(block)-1] &= byte(1<<extra) - 1
}

// wipe zeroes key material once it is no longer needed.
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
