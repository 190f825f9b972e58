// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package curve implements short Weierstrass elliptic-curve point
// arithmetic (y² = x³ + ax + b) over an arbitrary field.Element field, and
// specializes it to secp256k1 for SEC encoding and scalar multiplication
// bound to the curve order n. Like field.Element, Point is deliberately
// curve-agnostic so it can be driven directly with small test curves as
// well as real secp256k1 points.
package curve

import (
	"fmt"
	"math/big"

	"github.com/toole-brendan/shell/field"
)

// Point is a point on y² = x³ + ax + b over some field, or the identity
// (point at infinity) when X and Y are both nil. A and B accompany every
// point so Add can assert both operands share a curve.
type Point struct {
	X, Y *field.Element
	A, B field.Element
}

// IsInfinity reports whether p is the additive identity.
func (p Point) IsInfinity() bool {
	return p.X == nil && p.Y == nil
}

// New constructs an affine point and validates it lies on the curve
// y² = x³ + ax + b. Panics on an off-curve point: constructing a Point from
// fixed curve parameters is never influenced by adversarial bytes, so this
// is a programmer-error panic, not a typed error.
func New(x, y, a, b field.Element) Point {
	lhs := y.Mul(y)
	rhs := x.Mul(x).Mul(x).Add(a.Mul(x)).Add(b)
	if !lhs.Equal(rhs) {
		panic(fmt.Sprintf("curve: point (%s, %s) is not on the curve", x, y))
	}
	return Point{X: &x, Y: &y, A: a, B: b}
}

// Infinity returns the identity element for the curve described by a, b.
func Infinity(a, b field.Element) Point {
	return Point{A: a, B: b}
}

func (p Point) sameCurve(q Point) {
	if !p.A.Equal(q.A) || !p.B.Equal(q.B) {
		panic("curve: points belong to different curves")
	}
}

// Equal reports whether p and q are the same point on the same curve.
func (p Point) Equal(q Point) bool {
	if !p.A.Equal(q.A) || !p.B.Equal(q.B) {
		return false
	}
	if p.IsInfinity() || q.IsInfinity() {
		return p.IsInfinity() == q.IsInfinity()
	}
	return p.X.Equal(*q.X) && p.Y.Equal(*q.Y)
}

// Add implements elliptic-curve point addition by cases: identity operand,
// vertical line (inverse points), distinct x-coordinates, and doubling.
func (p Point) Add(q Point) Point {
	p.sameCurve(q)

	// Case 2: either operand is the identity.
	if p.IsInfinity() {
		return q
	}
	if q.IsInfinity() {
		return p
	}

	// Case 3: vertical line, x1 == x2 but y1 != y2.
	if p.X.Equal(*q.X) && !p.Y.Equal(*q.Y) {
		return Infinity(p.A, p.B)
	}

	// Case 4: x1 != x2.
	if !p.X.Equal(*q.X) {
		slope := q.Y.Sub(*p.Y).Div(q.X.Sub(*p.X))
		x3 := slope.Mul(slope).Sub(*p.X).Sub(*q.X)
		y3 := slope.Mul(p.X.Sub(x3)).Sub(*p.Y)
		return Point{X: &x3, Y: &y3, A: p.A, B: p.B}
	}

	// Case 5: P == Q.
	if p.Equal(q) {
		// Tangent is vertical when y == 0.
		if p.Y.IsZero() {
			return Infinity(p.A, p.B)
		}
		two := field.New(big.NewInt(2), p.X.Prime)
		three := field.New(big.NewInt(3), p.X.Prime)
		slope := three.Mul(*p.X).Mul(*p.X).Add(p.A).Div(two.Mul(*p.Y))
		x3 := slope.Mul(slope).Sub(*p.X).Sub(*q.X)
		y3 := slope.Mul(p.X.Sub(x3)).Sub(*p.Y)
		return Point{X: &x3, Y: &y3, A: p.A, B: p.B}
	}

	// x1 == x2, y1 == y2 was handled above; anything left falls back to the
	// vertical-line case (x1 == x2, opposite y), covering field elements
	// that compare unequal only by sign under Equal already returning false.
	return Infinity(p.A, p.B)
}

// ScalarMul computes coefficient·p via double-and-add over the bit
// expansion of coefficient, with the identity as the accumulator.
func (p Point) ScalarMul(coefficient *big.Int) Point {
	coef := new(big.Int).Set(coefficient)
	current := p
	result := Infinity(p.A, p.B)
	zero := big.NewInt(0)
	for coef.Cmp(zero) > 0 {
		if coef.Bit(0) == 1 {
			result = result.Add(current)
		}
		current = current.Add(current)
		coef.Rsh(coef, 1)
	}
	return result
}

func (p Point) String() string {
	if p.IsInfinity() {
		return "Point(infinity)"
	}
	return fmt.Sprintf("Point(%s, %s)", p.X, p.Y)
}
