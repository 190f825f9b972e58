// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainhash provides the Bitcoin-family hash primitives the rest of
// this module builds on: SHA-256, HASH256 (double SHA-256), HASH160
// (RIPEMD-160 of SHA-256), HMAC-SHA256, and a fixed-size Hash type that
// serializes in Bitcoin's reversed, little-endian-displayed byte order.
package chainhash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/ripemd160"
)

// HashSize is the size, in bytes, of a SHA-256 digest.
const HashSize = 32

// Hash is a SHA-256 (or HASH256) digest. Bitcoin displays and parses hashes
// byte-reversed relative to their internal, little-endian-serialized form;
// String and NewHashFromStr handle that translation so callers working with
// block explorers and RPC output don't have to.
type Hash [HashSize]byte

// String renders the hash byte-reversed and hex-encoded, matching how block
// explorers and bitcoind display txids and block hashes.
func (h Hash) String() string {
	reversed := reverse(h)
	return hex.EncodeToString(reversed[:])
}

// NewHashFromStr parses a byte-reversed hex string back into a Hash.
func NewHashFromStr(s string) (Hash, error) {
	if len(s) != HashSize*2 {
		return Hash{}, fmt.Errorf("chainhash: hash string has length %d, want %d", len(s), HashSize*2)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, fmt.Errorf("chainhash: %w", err)
	}
	var h Hash
	copy(h[:], b)
	return reverse(h), nil
}

// CloneBytes returns a copy of the hash's internal byte representation.
func (h Hash) CloneBytes() []byte {
	out := make([]byte, HashSize)
	copy(out, h[:])
	return out
}

// IsEqual reports whether h and other hold the same digest.
func (h Hash) IsEqual(other Hash) bool {
	return h == other
}

func reverse(h Hash) Hash {
	var out Hash
	for i := 0; i < HashSize; i++ {
		out[i] = h[HashSize-1-i]
	}
	return out
}

// Sha256 computes a single SHA-256 digest.
func Sha256(b []byte) Hash {
	return Hash(sha256.Sum256(b))
}

// HashB computes a single SHA-256 digest, returning raw bytes for callers
// that need a leaf hash before it is wrapped in a Hash value.
func HashB(b []byte) []byte {
	sum := sha256.Sum256(b)
	return sum[:]
}

// HashH computes SHA-256 and returns it as a Hash.
func HashH(b []byte) Hash {
	return Hash(sha256.Sum256(b))
}

// DoubleHashB computes HASH256 = SHA256(SHA256(b)), returning raw bytes.
func DoubleHashB(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:]
}

// DoubleHashH computes HASH256 and returns it as a Hash.
func DoubleHashH(b []byte) Hash {
	return Hash(DoubleHashB(b))
}

// Hash160 computes RIPEMD160(SHA256(b)), Bitcoin's standard pubkey/script
// hash used for P2PKH, P2SH and P2WPKH/P2WSH programs.
func Hash160(b []byte) []byte {
	sha := sha256.Sum256(b)
	ripemd := ripemd160.New()
	ripemd.Write(sha[:])
	return ripemd.Sum(nil)
}

// HMACSHA256 computes an HMAC-SHA256 tag, used by RFC 6979 deterministic
// nonce generation.
func HMACSHA256(key, msg []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(msg)
	return mac.Sum(nil)
}
