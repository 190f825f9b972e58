// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package curve

import (
	"math/big"

	"github.com/toole-brendan/shell/field"
	"github.com/toole-brendan/shell/internal/bignum"
)

// secp256k1 domain parameters: field prime P, curve order N, curve
// coefficients A and B (y² = x³ + 7), and base point G.
var (
	P = mustBig("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f")
	N = mustBig("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141")
	A = big.NewInt(0)
	B = big.NewInt(7)

	Gx = mustBig("79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")
	Gy = mustBig("483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8")
)

func mustBig(hexStr string) *big.Int {
	n, ok := new(big.Int).SetString(hexStr, 16)
	if !ok {
		panic("curve: bad hard-coded secp256k1 constant " + hexStr)
	}
	return n
}

// fieldA and fieldB are the curve coefficients lifted into F_p, computed
// once since they're immutable process-wide constants.
var (
	fieldA = field.New(A, P)
	fieldB = field.New(B, P)
)

// FieldElement constructs an F_p element for the secp256k1 prime. Exported
// so callers (ecdsa, addresses) can build X/Y coordinates without reaching
// into field directly.
func FieldElement(num *big.Int) field.Element {
	return field.New(bignum.Mod(num, P), P)
}

// Generator returns secp256k1's base point G.
func Generator() Point {
	return New(FieldElement(Gx), FieldElement(Gy), fieldA, fieldB)
}

// NewS256Point constructs a secp256k1 point from affine coordinates already
// reduced mod P.
func NewS256Point(x, y *big.Int) Point {
	return New(FieldElement(x), FieldElement(y), fieldA, fieldB)
}

// S256Infinity is the identity on the secp256k1 curve.
func S256Infinity() Point {
	return Infinity(fieldA, fieldB)
}

// IsSecp256k1 reports whether p lies on the secp256k1 curve (as opposed to
// some other test curve sharing the Point type).
func IsSecp256k1(p Point) bool {
	return p.A.Equal(fieldA) && p.B.Equal(fieldB)
}

// S256ScalarMul computes coefficient·p, first reducing the coefficient
// modulo N as an optimization valid specifically for secp256k1 since
// N·G = 0.
func S256ScalarMul(p Point, coefficient *big.Int) Point {
	reduced := bignum.Mod(coefficient, N)
	return p.ScalarMul(reduced)
}

// --- SEC encoding ---

// SECUncompressed serializes p as 0x04 || X(32) || Y(32).
func SECUncompressed(p Point) []byte {
	if p.IsInfinity() {
		panic("curve: cannot SEC-encode the point at infinity")
	}
	out := make([]byte, 65)
	out[0] = 0x04
	copy(out[1:33], bignum.PadBytes(p.X.Num.Bytes(), 32))
	copy(out[33:65], bignum.PadBytes(p.Y.Num.Bytes(), 32))
	return out
}

// SECCompressed serializes p as 0x02/0x03 || X(32) depending on Y's parity.
func SECCompressed(p Point) []byte {
	if p.IsInfinity() {
		panic("curve: cannot SEC-encode the point at infinity")
	}
	out := make([]byte, 33)
	if p.Y.Num.Bit(0) == 0 {
		out[0] = 0x02
	} else {
		out[0] = 0x03
	}
	copy(out[1:33], bignum.PadBytes(p.X.Num.Bytes(), 32))
	return out
}

// ParseSEC parses either SEC form into a secp256k1 point, recovering Y from
// X via the curve equation for the compressed form.
//
// ParseSEC never panics on malformed input. An adversarial byte stream (e.g.
// from a parsed script_sig) must surface as a typed EncodingError instead.
func ParseSEC(data []byte) (Point, error) {
	if len(data) == 0 {
		return Point{}, encodingError(InvalidSECLength, "empty SEC data")
	}
	switch data[0] {
	case 0x04:
		if len(data) != 65 {
			return Point{}, encodingError(InvalidSECLength, "uncompressed SEC must be 65 bytes, got %d", len(data))
		}
		x := new(big.Int).SetBytes(data[1:33])
		y := new(big.Int).SetBytes(data[33:65])
		return parseAffine(x, y)
	case 0x02, 0x03:
		if len(data) != 33 {
			return Point{}, encodingError(InvalidSECLength, "compressed SEC must be 33 bytes, got %d", len(data))
		}
		x := new(big.Int).SetBytes(data[1:33])
		if x.Cmp(P) >= 0 {
			return Point{}, encodingError(InvalidSECCoordinate, "SEC x coordinate out of field range")
		}
		xElem := FieldElement(x)
		alpha := xElem.Mul(xElem).Mul(xElem).Add(fieldB)
		beta := alpha.Sqrt()
		evenBeta, oddBeta := beta, beta
		if beta.Num.Bit(0) == 0 {
			oddBeta = FieldElement(new(big.Int).Sub(P, beta.Num))
		} else {
			evenBeta = FieldElement(new(big.Int).Sub(P, beta.Num))
		}
		wantOdd := data[0] == 0x03
		var y field.Element
		if wantOdd {
			y = oddBeta
		} else {
			y = evenBeta
		}
		// Verify the recovered point actually satisfies the curve equation;
		// a malicious x with no valid square root must error, not panic.
		if !y.Mul(y).Equal(alpha) {
			return Point{}, encodingError(PointNotOnCurve, "SEC x coordinate is not on the curve")
		}
		return New(xElem, y, fieldA, fieldB), nil
	default:
		return Point{}, encodingError(InvalidSECPrefix, "0x%02x", data[0])
	}
}

func parseAffine(x, y *big.Int) (pt Point, err error) {
	if x.Sign() < 0 || x.Cmp(P) >= 0 || y.Sign() < 0 || y.Cmp(P) >= 0 {
		return Point{}, encodingError(InvalidSECCoordinate, "coordinate out of field range")
	}
	defer func() {
		if r := recover(); r != nil {
			err = encodingError(PointNotOnCurve, "%v", r)
		}
	}()
	pt = New(FieldElement(x), FieldElement(y), fieldA, fieldB)
	return pt, nil
}
