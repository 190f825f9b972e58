// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecdsa

import (
	"fmt"
	"math/big"

	"github.com/toole-brendan/shell/curve"
	"github.com/toole-brendan/shell/internal/bignum"
)

// PrivateKey is a secp256k1 secret scalar together with its derived public
// point.
type PrivateKey struct {
	Secret *big.Int
	Point  curve.Point
}

// NewPrivateKey derives the public point secret·G. Panics if secret is not
// in [1, N): every call site constructs this from either a hard-coded test
// vector or bytes that have already passed through a typed-error parser
// (WIF decode, key generation), so an out-of-range secret here is always a
// programmer error, never adversarial input.
func NewPrivateKey(secret *big.Int) PrivateKey {
	if !inRange(secret) {
		panic("ecdsa: secret key out of range [1, N)")
	}
	return PrivateKey{
		Secret: secret,
		Point:  curve.S256ScalarMul(curve.Generator(), secret),
	}
}

// Sign produces a deterministic ECDSA signature over hash (the 32-byte
// digest of the message, e.g. HASH256 of a sighash preimage): generate k via
// RFC 6979, compute r = (k·G).x mod N, then s = k⁻¹(z + r·secret) mod N, and
// flip s to n-s when it is not already the low-S canonical value required by
// BIP-62/BIP-146.
func (pk PrivateKey) Sign(hash []byte) Signature {
	z := hashToInt(hash)

	for {
		k := deterministicK(pk.Secret, hash)
		r := bignum.Mod(curve.S256ScalarMul(curve.Generator(), k).X.Num, curve.N)
		if r.Sign() == 0 {
			continue
		}

		kInv := bignum.Inverse(k, curve.N)
		s := bignum.Mod(new(big.Int).Mul(kInv, new(big.Int).Add(z, new(big.Int).Mul(r, pk.Secret))), curve.N)
		if s.Sign() == 0 {
			continue
		}

		half := new(big.Int).Rsh(curve.N, 1)
		if s.Cmp(half) > 0 {
			s = new(big.Int).Sub(curve.N, s)
		}
		return Signature{R: r, S: s}
	}
}

// hashToInt treats hash as a big-endian integer, truncating excess bits the
// same way Verify and Sign must agree on when the digest is wider than N.
// The result is not reduced mod N; Sign and Verify reduce after multiplying.
func hashToInt(hash []byte) *big.Int {
	z := new(big.Int).SetBytes(hash)
	orderBits := curve.N.BitLen()
	if excess := len(hash)*8 - orderBits; excess > 0 {
		z.Rsh(z, uint(excess))
	}
	return z
}

// Verify checks sig against hash and the public point pubKey using the
// standard ECDSA verification equation u·G + v·pubKey, whose x-coordinate
// must equal r.
func Verify(pubKey curve.Point, hash []byte, sig Signature) bool {
	if !inRange(sig.R) || !inRange(sig.S) {
		return false
	}
	z := hashToInt(hash)
	sInv := bignum.Inverse(sig.S, curve.N)
	u := bignum.Mod(new(big.Int).Mul(z, sInv), curve.N)
	v := bignum.Mod(new(big.Int).Mul(sig.R, sInv), curve.N)

	total := curve.S256ScalarMul(curve.Generator(), u).Add(curve.S256ScalarMul(pubKey, v))
	if total.IsInfinity() {
		return false
	}
	return bignum.Mod(total.X.Num, curve.N).Cmp(sig.R) == 0
}

// String renders the key for debugging, showing only the public point and
// never the secret. Wallet Import Format encoding lives in the addresses
// package (EncodeWIF/DecodeWIF), not here.
func (pk PrivateKey) String() string {
	return fmt.Sprintf("PrivateKey(point=%s)", pk.Point)
}
