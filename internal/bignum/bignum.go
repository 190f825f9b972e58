// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package bignum provides small math/big helpers shared by the field, curve
// and ecdsa packages. None of these panic on their own; callers are
// responsible for validating inputs that came from untrusted bytes before
// reaching here.
package bignum

import "math/big"

// Mod returns n mod m, always in [0, m) even when n is negative. big.Int's
// own Mod already does this for positive m, but Go's % operator (and a naive
// big.Int.Rem) would return a negative remainder for a negative n; this
// helper exists so every caller gets the mathematical convention rather than
// the Euclidean-division-by-hand version.
func Mod(n, m *big.Int) *big.Int {
	r := new(big.Int).Mod(n, m)
	return r
}

// PowMod computes base^exp mod m, handling a negative exponent by first
// reducing it modulo m-1 via Fermat's little theorem (m must be prime for
// that reduction to be valid; callers that pass a negative exponent are
// expected to know m is prime).
func PowMod(base, exp, m *big.Int) *big.Int {
	if exp.Sign() >= 0 {
		return new(big.Int).Exp(base, exp, m)
	}
	mMinusOne := new(big.Int).Sub(m, big.NewInt(1))
	posExp := new(big.Int).Mod(exp, mMinusOne)
	return new(big.Int).Exp(base, posExp, m)
}

// Inverse returns the modular multiplicative inverse of n modulo m using
// Fermat's little theorem: n^(m-2) mod m. Valid only when m is prime and n
// is not a multiple of m.
func Inverse(n, m *big.Int) *big.Int {
	exp := new(big.Int).Sub(m, big.NewInt(2))
	return new(big.Int).Exp(n, exp, m)
}

// PadBytes left-pads b with zero bytes until it is exactly size bytes long.
// It panics if b is already longer than size, since that indicates a
// programmer error (a miscomputed field width), not adversarial input.
func PadBytes(b []byte, size int) []byte {
	if len(b) > size {
		panic("bignum: value too large to pad to requested size")
	}
	if len(b) == size {
		return b
	}
	out := make([]byte, size)
	copy(out[size-len(b):], b)
	return out
}
