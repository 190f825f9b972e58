// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package base58 implements Bitcoin's Base58 and Base58Check encodings:
// the 58-symbol alphabet that excludes visually ambiguous characters (0, O,
// I, l), plus a 4-byte HASH256 checksum used by addresses and WIF.
package base58

import (
	"fmt"
	"math/big"

	"github.com/toole-brendan/shell/chaincfg/chainhash"
)

const alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

var (
	radix       = big.NewInt(58)
	alphabetMap [256]int8
)

func init() {
	for i := range alphabetMap {
		alphabetMap[i] = -1
	}
	for i, c := range alphabet {
		alphabetMap[byte(c)] = int8(i)
	}
}

// Encode renders b in Base58, preserving each leading 0x00 byte as a
// leading '1' (the encoding of zero).
func Encode(b []byte) string {
	leadingZeros := 0
	for leadingZeros < len(b) && b[leadingZeros] == 0 {
		leadingZeros++
	}

	num := new(big.Int).SetBytes(b)
	var out []byte
	zero := big.NewInt(0)
	mod := new(big.Int)
	for num.Cmp(zero) > 0 {
		num.DivMod(num, radix, mod)
		out = append(out, alphabet[mod.Int64()])
	}
	for i := 0; i < leadingZeros; i++ {
		out = append(out, '1')
	}
	reverseBytes(out)
	return string(out)
}

// Decode inverts Encode. Returns an error (not a panic) on any character
// outside the Base58 alphabet, since the input is always attacker-supplied
// text (an address or WIF string) at the point this is called.
func Decode(s string) ([]byte, error) {
	leadingOnes := 0
	for leadingOnes < len(s) && s[leadingOnes] == '1' {
		leadingOnes++
	}

	num := big.NewInt(0)
	for i := 0; i < len(s); i++ {
		digit := alphabetMap[s[i]]
		if digit < 0 {
			return nil, fmt.Errorf("base58: invalid character %q at offset %d", s[i], i)
		}
		num.Mul(num, radix)
		num.Add(num, big.NewInt(int64(digit)))
	}

	decoded := num.Bytes()
	out := make([]byte, leadingOnes+len(decoded))
	copy(out[leadingOnes:], decoded)
	return out, nil
}

// CheckEncode appends a 4-byte HASH256 checksum to payload (prefixed with
// version) and Base58-encodes the result.
func CheckEncode(payload []byte, version byte) string {
	full := make([]byte, 0, len(payload)+5)
	full = append(full, version)
	full = append(full, payload...)
	checksum := chainhash.DoubleHashB(full)
	full = append(full, checksum[:4]...)
	return Encode(full)
}

// CheckDecode inverts CheckEncode, verifying the checksum and returning the
// version byte and payload separately.
func CheckDecode(s string) (payload []byte, version byte, err error) {
	decoded, err := Decode(s)
	if err != nil {
		return nil, 0, err
	}
	if len(decoded) < 5 {
		return nil, 0, fmt.Errorf("base58: decoded data too short for version+checksum")
	}
	body := decoded[:len(decoded)-4]
	checksum := decoded[len(decoded)-4:]

	want := chainhash.DoubleHashB(body)
	for i := 0; i < 4; i++ {
		if checksum[i] != want[i] {
			return nil, 0, fmt.Errorf("base58: checksum mismatch")
		}
	}
	return body[1:], body[0], nil
}

func reverseBytes(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
