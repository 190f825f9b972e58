// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package field implements arithmetic over a finite field F_p for an
// arbitrary prime p. secp256k1's own prime lives in the curve package;
// this package stays prime-agnostic so it can be exercised directly by
// small-prime test vectors as well as by real secp256k1 operations.
package field

import (
	"fmt"
	"math/big"

	"github.com/toole-brendan/shell/internal/bignum"
)

// Element is a single value in F_p: an integer in [0, Prime).
//
// Construction with Num outside [0, Prime) is a programmer error, not
// something adversarial input can trigger through any codec path in this
// module, so it panics rather than returning an error.
type Element struct {
	Num   *big.Int
	Prime *big.Int
}

// New returns the field element num mod nothing. num must already be
// reduced into [0, prime); it panics if it is not.
func New(num, prime *big.Int) Element {
	if num.Sign() < 0 || num.Cmp(prime) >= 0 {
		panic(fmt.Sprintf("field: num %s not in field range 0 to %s", num, prime))
	}
	return Element{Num: new(big.Int).Set(num), Prime: new(big.Int).Set(prime)}
}

// NewInt64 is a convenience constructor for small test values such as
// FieldElement(7, 13).
func NewInt64(num, prime int64) Element {
	return New(big.NewInt(num), big.NewInt(prime))
}

func (e Element) checkSameField(other Element) {
	if e.Prime.Cmp(other.Prime) != 0 {
		panic("field: operands belong to different fields")
	}
}

// Equal reports whether e and other have the same value over the same
// prime.
func (e Element) Equal(other Element) bool {
	return e.Num.Cmp(other.Num) == 0 && e.Prime.Cmp(other.Prime) == 0
}

// Add returns e + other mod Prime.
func (e Element) Add(other Element) Element {
	e.checkSameField(other)
	sum := bignum.Mod(new(big.Int).Add(e.Num, other.Num), e.Prime)
	return Element{Num: sum, Prime: e.Prime}
}

// Sub returns e - other mod Prime. The prime is added before subtracting so
// the intermediate big.Int never goes negative.
func (e Element) Sub(other Element) Element {
	e.checkSameField(other)
	diff := new(big.Int).Add(e.Num, e.Prime)
	diff.Sub(diff, other.Num)
	diff = bignum.Mod(diff, e.Prime)
	return Element{Num: diff, Prime: e.Prime}
}

// Mul returns e * other mod Prime.
func (e Element) Mul(other Element) Element {
	e.checkSameField(other)
	prod := bignum.Mod(new(big.Int).Mul(e.Num, other.Num), e.Prime)
	return Element{Num: prod, Prime: e.Prime}
}

// Pow returns e^exponent mod Prime. A negative exponent is first reduced
// modulo p-1 (Fermat's little theorem), so e^-1 is computed as e^(p-2).
func (e Element) Pow(exponent *big.Int) Element {
	result := bignum.PowMod(e.Num, exponent, e.Prime)
	return Element{Num: result, Prime: e.Prime}
}

// Div returns e / other mod Prime, computed as e * other^(p-2).
func (e Element) Div(other Element) Element {
	e.checkSameField(other)
	inv := bignum.Inverse(other.Num, other.Prime)
	prod := bignum.Mod(new(big.Int).Mul(e.Num, inv), e.Prime)
	return Element{Num: prod, Prime: e.Prime}
}

// ModInverse returns e^(p-2) mod Prime, the multiplicative inverse of e.
func (e Element) ModInverse() Element {
	inv := bignum.Inverse(e.Num, e.Prime)
	return Element{Num: inv, Prime: e.Prime}
}

// Sqrt returns a square root of e using the p ≡ 3 (mod 4) shortcut
// b^((p+1)/4). Only valid when Prime ≡ 3 (mod 4), which holds for
// secp256k1's field prime; callers on other primes must verify the
// congruence themselves.
func (e Element) Sqrt() Element {
	exp := new(big.Int).Add(e.Prime, big.NewInt(1))
	exp.Div(exp, big.NewInt(4))
	return e.Pow(exp)
}

// IsZero reports whether e is the additive identity of its field.
func (e Element) IsZero() bool {
	return e.Num.Sign() == 0
}

// String renders the element for debugging as FieldElement_<prime>(<num>).
func (e Element) String() string {
	return fmt.Sprintf("FieldElement_%s(%s)", e.Prime, e.Num)
}
