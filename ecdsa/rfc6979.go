// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecdsa

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"math/big"

	"github.com/toole-brendan/shell/curve"
	"github.com/toole-brendan/shell/internal/bignum"
)

// deterministicK derives the per-signature nonce k from the secret key and
// message hash per RFC 6979 §3.2, specialized to HMAC-SHA256 and secp256k1's
// order N. Using the same (secret, hash) pair always yields the same k,
// eliminating the reused-nonce key-recovery failure mode of naive random k
// (the attack that leaked the Sony PS3 signing key).
func deterministicK(secret *big.Int, hash []byte) *big.Int {
	qlen := curve.N.BitLen()
	holen := sha256.Size

	secretBytes := bignum.PadBytes(secret.Bytes(), 32)
	msgBytes := bitsToOctets(hash, qlen)

	v := bytes.Repeat([]byte{0x01}, holen)
	k := bytes.Repeat([]byte{0x00}, holen)

	k = hmacSHA256(k, concat(v, []byte{0x00}, secretBytes, msgBytes))
	v = hmacSHA256(k, v)
	k = hmacSHA256(k, concat(v, []byte{0x01}, secretBytes, msgBytes))
	v = hmacSHA256(k, v)

	for {
		v = hmacSHA256(k, v)
		candidate := bitsToInt(v, qlen)
		if candidate.Sign() > 0 && candidate.Cmp(curve.N) < 0 {
			return candidate
		}
		k = hmacSHA256(k, append(append([]byte{}, v...), 0x00))
		v = hmacSHA256(k, v)
	}
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func hmacSHA256(key, msg []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(msg)
	return mac.Sum(nil)
}

// bitsToInt implements RFC 6979 §2.3.2: interpret b as a qlen-bit integer by
// truncating (not reducing mod N) any excess low-order bits.
func bitsToInt(b []byte, qlen int) *big.Int {
	n := new(big.Int).SetBytes(b)
	blen := len(b) * 8
	if blen > qlen {
		n.Rsh(n, uint(blen-qlen))
	}
	return n
}

// bitsToOctets implements RFC 6979 §2.3.4: bits2int then reduce mod N, then
// re-render as a fixed-width big-endian byte string.
func bitsToOctets(b []byte, qlen int) []byte {
	z := bitsToInt(b, qlen)
	z = bignum.Mod(z, curve.N)
	return bignum.PadBytes(z.Bytes(), 32)
}
