package utils

import (
	"encoding/hex"
	"errors"
	"fmt"

	"lukechampine.com/blake3"
)

// fingerprintContext separates seed fingerprints from every other BLAKE3 use.
const fingerprintContext = "codegen 2024-06 seed fingerprint v1"

// FingerprintSize is the byte length of a seed fingerprint.
const FingerprintSize = 8

// ErrEmptyHex is returned by ParseHex for an empty string.
var ErrEmptyHex = errors.New("hex string is empty")

// Blake3Hash returns the 32-byte BLAKE3 hash of msg.
func Blake3Hash(msg []byte) []byte {
	sum := blake3.Sum256(msg)
	return sum[:]
}

// SeedFingerprint returns a short, non-reversible identifier for seed so that
// operators can confirm two parties share the same key material without
// printing it. The fingerprint is hex encoded.
func SeedFingerprint(seed []byte) string {
	var fp [FingerprintSize]byte
	blake3.DeriveKey(fp[:], fingerprintContext, seed)
	return hex.EncodeToString(fp[:])
}

// ParseHex decodes s as case-insensitive hexadecimal. Empty input is rejected
// with ErrEmptyHex.
func ParseHex(s string) ([]byte, error) {
	if s == "" {
		return nil, ErrEmptyHex
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return b, nil
}
