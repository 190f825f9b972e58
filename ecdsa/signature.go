// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ecdsa implements ECDSA signing and verification over secp256k1,
// DER signature encoding, RFC 6979 deterministic nonce generation, and the
// raw secret-key -> public-point pipeline (WIF encoding lives in the
// addresses package). It deliberately does not import a secp256k1
// library: together with field/curve, this package is itself the secp256k1
// implementation rather than a consumer of one.
package ecdsa

import (
	"fmt"
	"math/big"

	"github.com/toole-brendan/shell/curve"
)

// Signature is an ECDSA signature (r, s), both in [1, N).
type Signature struct {
	R, S *big.Int
}

// IsLowS reports whether s is canonical, i.e. s <= n/2, as BIP-62 requires.
func (sig Signature) IsLowS() bool {
	half := new(big.Int).Rsh(curve.N, 1)
	return sig.S.Cmp(half) <= 0
}

// DER encodes sig as 0x30 len 0x02 rlen r 0x02 slen s, stripping leading
// zero bytes from each integer and re-padding with a single 0x00 when the
// high bit would otherwise be set.
func (sig Signature) DER() []byte {
	rBytes := derInt(sig.R)
	sBytes := derInt(sig.S)

	body := make([]byte, 0, len(rBytes)+len(sBytes)+4)
	body = append(body, 0x02, byte(len(rBytes)))
	body = append(body, rBytes...)
	body = append(body, 0x02, byte(len(sBytes)))
	body = append(body, sBytes...)

	out := make([]byte, 0, len(body)+2)
	out = append(out, 0x30, byte(len(body)))
	out = append(out, body...)
	return out
}

// derInt renders n as a minimal big-endian byte string, prefixed with 0x00
// if the top bit is set (so it is never misread as negative in ASN.1
// INTEGER encoding).
func derInt(n *big.Int) []byte {
	b := n.Bytes()
	if len(b) == 0 {
		return []byte{0x00}
	}
	if b[0]&0x80 != 0 {
		padded := make([]byte, len(b)+1)
		copy(padded[1:], b)
		return padded
	}
	return b
}

// ParseDER parses a DER-encoded signature, inverting Signature.DER. It never
// panics on malformed input: a signature arrives over the wire embedded in
// a script_sig, so it must surface a typed curve.EncodingError instead.
func ParseDER(data []byte) (Signature, error) {
	if len(data) < 6 {
		return Signature{}, derError("signature too short (%d bytes)", len(data))
	}
	if data[0] != 0x30 {
		return Signature{}, derError("must start with 0x30, got 0x%02x", data[0])
	}
	totalLen := int(data[1])
	if totalLen+2 > len(data) {
		return Signature{}, derError("length mismatch")
	}
	buf := data[2 : totalLen+2]

	r, rest, err := derReadInt(buf)
	if err != nil {
		return Signature{}, err
	}
	s, rest2, err := derReadInt(rest)
	if err != nil {
		return Signature{}, err
	}
	if len(rest2) != 0 {
		return Signature{}, derError("trailing bytes after signature")
	}
	return Signature{R: r, S: s}, nil
}

func derReadInt(buf []byte) (*big.Int, []byte, error) {
	if len(buf) < 2 {
		return nil, nil, derError("truncated integer")
	}
	if buf[0] != 0x02 {
		return nil, nil, derError("expected integer marker 0x02, got 0x%02x", buf[0])
	}
	length := int(buf[1])
	if 2+length > len(buf) {
		return nil, nil, derError("integer length exceeds buffer")
	}
	n := new(big.Int).SetBytes(buf[2 : 2+length])
	return n, buf[2+length:], nil
}

// derError builds a curve.EncodingError tagged InvalidDER, the same typed
// family ParseSEC uses for malformed point encodings.
func derError(format string, args ...interface{}) curve.EncodingError {
	return curve.EncodingError{Kind: curve.InvalidDER, Description: fmt.Sprintf(format, args...)}
}

// inRange reports whether n is in [1, N).
func inRange(n *big.Int) bool {
	return n.Sign() > 0 && n.Cmp(curve.N) < 0
}
