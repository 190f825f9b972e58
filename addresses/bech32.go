// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addresses

import (
	"fmt"
	"strings"
)

// bech32 implements BIP-173 (segwit v0) and BIP-350 (bech32m, segwit v1+)
// encoding directly from the BIP descriptions.

const charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

var charsetRev = func() [128]int8 {
	var m [128]int8
	for i := range m {
		m[i] = -1
	}
	for i, c := range charset {
		m[c] = int8(i)
	}
	return m
}()

type encoding int

const (
	bech32Encoding encoding = iota
	bech32mEncoding
)

func (e encoding) constant() uint32 {
	if e == bech32mEncoding {
		return 0x2bc830a3
	}
	return 1
}

func polymod(values []byte) uint32 {
	gen := [5]uint32{0x3b6a57b2, 0x26508e6d, 0x1ea119fa, 0x3d4233dd, 0x2a1462b3}
	chk := uint32(1)
	for _, v := range values {
		top := chk >> 25
		chk = (chk&0x1ffffff)<<5 ^ uint32(v)
		for i := 0; i < 5; i++ {
			if (top>>uint(i))&1 != 0 {
				chk ^= gen[i]
			}
		}
	}
	return chk
}

func hrpExpand(hrp string) []byte {
	out := make([]byte, 0, len(hrp)*2+1)
	for i := 0; i < len(hrp); i++ {
		out = append(out, hrp[i]>>5)
	}
	out = append(out, 0)
	for i := 0; i < len(hrp); i++ {
		out = append(out, hrp[i]&31)
	}
	return out
}

func createChecksum(hrp string, data []byte, enc encoding) []byte {
	values := append(hrpExpand(hrp), data...)
	values = append(values, make([]byte, 6)...)
	mod := polymod(values) ^ enc.constant()
	checksum := make([]byte, 6)
	for i := 0; i < 6; i++ {
		checksum[i] = byte((mod >> uint(5*(5-i))) & 31)
	}
	return checksum
}

func verifyChecksum(hrp string, data []byte, enc encoding) bool {
	values := append(hrpExpand(hrp), data...)
	return polymod(values) == enc.constant()
}

// bech32Encode encodes hrp and 5-bit data groups per BIP-173/350.
func bech32Encode(hrp string, data []byte, enc encoding) (string, error) {
	if len(hrp) < 1 {
		return "", fmt.Errorf("addresses: bech32 hrp must not be empty")
	}
	checksum := createChecksum(hrp, data, enc)
	combined := append(append([]byte{}, data...), checksum...)

	var sb strings.Builder
	sb.WriteString(hrp)
	sb.WriteByte('1')
	for _, b := range combined {
		if b >= 32 {
			return "", fmt.Errorf("addresses: bech32 data value out of range: %d", b)
		}
		sb.WriteByte(charset[b])
	}
	return sb.String(), nil
}

// bech32Decode splits and validates a bech32/bech32m string, returning the
// human-readable part and the raw 5-bit data groups (checksum stripped).
func bech32Decode(s string) (hrp string, data []byte, enc encoding, err error) {
	if strings.ToLower(s) != s && strings.ToUpper(s) != s {
		return "", nil, 0, fmt.Errorf("addresses: bech32 string has mixed case")
	}
	s = strings.ToLower(s)

	pos := strings.LastIndexByte(s, '1')
	if pos < 1 || pos+7 > len(s) {
		return "", nil, 0, fmt.Errorf("addresses: invalid bech32 separator position")
	}
	hrp = s[:pos]
	for i := 0; i < len(hrp); i++ {
		if hrp[i] < 33 || hrp[i] > 126 {
			return "", nil, 0, fmt.Errorf("addresses: invalid character in bech32 hrp")
		}
	}

	dataPart := s[pos+1:]
	decoded := make([]byte, len(dataPart))
	for i := 0; i < len(dataPart); i++ {
		c := dataPart[i]
		if c >= 128 || charsetRev[c] < 0 {
			return "", nil, 0, fmt.Errorf("addresses: invalid bech32 character %q", c)
		}
		decoded[i] = byte(charsetRev[c])
	}

	if verifyChecksum(hrp, decoded, bech32Encoding) {
		enc = bech32Encoding
	} else if verifyChecksum(hrp, decoded, bech32mEncoding) {
		enc = bech32mEncoding
	} else {
		return "", nil, 0, fmt.Errorf("addresses: bech32 checksum verification failed")
	}

	return hrp, decoded[:len(decoded)-6], enc, nil
}

// convertBits repacks a byte slice between fromBits-wide and toBits-wide
// groups, used to go between 8-bit program bytes and 5-bit bech32 symbols.
func convertBits(data []byte, fromBits, toBits uint, pad bool) ([]byte, error) {
	var acc uint32
	var bits uint
	maxv := uint32(1<<toBits) - 1
	var out []byte

	for _, b := range data {
		if uint32(b)>>fromBits != 0 {
			return nil, fmt.Errorf("addresses: input data exceeds %d-bit width", fromBits)
		}
		acc = (acc << fromBits) | uint32(b)
		bits += fromBits
		for bits >= toBits {
			bits -= toBits
			out = append(out, byte((acc>>bits)&maxv))
		}
	}

	if pad {
		if bits > 0 {
			out = append(out, byte((acc<<(toBits-bits))&maxv))
		}
	} else if bits >= fromBits || (acc<<(toBits-bits))&maxv != 0 {
		return nil, fmt.Errorf("addresses: invalid padding in bit conversion")
	}
	return out, nil
}
