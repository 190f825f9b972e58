// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package addresses implements Bitcoin-style address encoding: legacy
// Base58Check P2PKH/P2SH, WIF private-key encoding, and BIP-173/350
// bech32/bech32m segwit addresses. Built on this module's own
// base58/chainhash/curve/ecdsa packages instead of btcsuite's
// btcec/btcutil: every byte of the encoding is produced by code in this
// module.
package addresses

import (
	"fmt"

	"github.com/toole-brendan/shell/base58"
	"github.com/toole-brendan/shell/chaincfg"
	"github.com/toole-brendan/shell/chaincfg/chainhash"
	"github.com/toole-brendan/shell/curve"
)

// AddressType identifies the kind of address a string decodes to.
type AddressType int

const (
	// P2PKH is a legacy pay-to-pubkey-hash address (Base58Check, version
	// byte chaincfg.Params.PubKeyHashAddrID).
	P2PKH AddressType = iota
	// P2SH is a pay-to-script-hash address (Base58Check, version byte
	// chaincfg.Params.ScriptHashAddrID).
	P2SH
	// WitnessV0 is a segwit v0 address (P2WPKH 20-byte or P2WSH 32-byte
	// program), bech32-encoded per BIP-173.
	WitnessV0
	// WitnessV1 is a segwit v1 (taproot) address, bech32m-encoded per
	// BIP-350.
	WitnessV1
)

// Address is a decoded Bitcoin-family address: its type, the network it was
// decoded against, and its payload (a 20-byte hash for P2PKH/P2SH/P2WPKH, a
// 32-byte hash for P2WSH, or a 32-byte x-only key for taproot).
type Address struct {
	Type    AddressType
	Params  *chaincfg.Params
	Payload []byte
}

// PubKeyHashFromPubKey hashes a compressed public key the way a P2PKH
// address's payload is derived: HASH160(SEC-compressed pubkey).
func PubKeyHashFromPubKey(pub curve.Point) []byte {
	return chainhash.Hash160(curve.SECCompressed(pub))
}

// NewP2PKH builds a P2PKH address from a 20-byte pubkey hash.
func NewP2PKH(pubKeyHash []byte, params *chaincfg.Params) (Address, error) {
	if len(pubKeyHash) != 20 {
		return Address{}, fmt.Errorf("addresses: P2PKH hash must be 20 bytes, got %d", len(pubKeyHash))
	}
	return Address{Type: P2PKH, Params: params, Payload: append([]byte{}, pubKeyHash...)}, nil
}

// NewP2SH builds a P2SH address from a 20-byte script hash.
func NewP2SH(scriptHash []byte, params *chaincfg.Params) (Address, error) {
	if len(scriptHash) != 20 {
		return Address{}, fmt.Errorf("addresses: P2SH hash must be 20 bytes, got %d", len(scriptHash))
	}
	return Address{Type: P2SH, Params: params, Payload: append([]byte{}, scriptHash...)}, nil
}

// NewWitness builds a segwit address for witness version ver (0 for P2WPKH/
// P2WSH, 1 for taproot) over the given program.
func NewWitness(ver byte, program []byte, params *chaincfg.Params) (Address, error) {
	if ver == 0 {
		if len(program) != 20 && len(program) != 32 {
			return Address{}, fmt.Errorf("addresses: witness v0 program must be 20 or 32 bytes, got %d", len(program))
		}
		return Address{Type: WitnessV0, Params: params, Payload: program}, nil
	}
	if ver == 1 {
		if len(program) != 32 {
			return Address{}, fmt.Errorf("addresses: witness v1 program must be 32 bytes, got %d", len(program))
		}
		return Address{Type: WitnessV1, Params: params, Payload: program}, nil
	}
	return Address{}, fmt.Errorf("addresses: unsupported witness version %d", ver)
}

// witnessVersion reports the address's witness version, valid only for
// WitnessV0/WitnessV1 addresses.
func (a Address) witnessVersion() byte {
	if a.Type == WitnessV1 {
		return 1
	}
	return 0
}

// String encodes a to its human-readable form.
func (a Address) String() string {
	switch a.Type {
	case P2PKH:
		return base58.CheckEncode(a.Payload, a.Params.PubKeyHashAddrID)
	case P2SH:
		return base58.CheckEncode(a.Payload, a.Params.ScriptHashAddrID)
	case WitnessV0, WitnessV1:
		data, err := convertBits(a.Payload, 8, 5, true)
		if err != nil {
			return ""
		}
		combined := append([]byte{a.witnessVersion()}, data...)
		enc := bech32Encoding
		if a.Type == WitnessV1 {
			enc = bech32mEncoding
		}
		s, err := bech32Encode(a.Params.Bech32HRPSegwit, combined, enc)
		if err != nil {
			return ""
		}
		return s
	default:
		return ""
	}
}

// Decode parses a human-readable address for the given network, trying
// Base58Check first and bech32/bech32m on failure.
func Decode(s string, params *chaincfg.Params) (Address, error) {
	if addr, err := decodeBase58(s, params); err == nil {
		return addr, nil
	}
	return decodeBech32(s, params)
}

func decodeBase58(s string, params *chaincfg.Params) (Address, error) {
	payload, version, err := base58.CheckDecode(s)
	if err != nil {
		return Address{}, err
	}
	switch version {
	case params.PubKeyHashAddrID:
		return NewP2PKH(payload, params)
	case params.ScriptHashAddrID:
		return NewP2SH(payload, params)
	default:
		return Address{}, fmt.Errorf("addresses: version byte 0x%02x does not match network %s", version, params.Name)
	}
}

func decodeBech32(s string, params *chaincfg.Params) (Address, error) {
	hrp, data, enc, err := bech32Decode(s)
	if err != nil {
		return Address{}, err
	}
	if !chaincfg.IsBech32SegwitPrefix(hrp + "1") {
		return Address{}, fmt.Errorf("addresses: unrecognized bech32 hrp %q", hrp)
	}
	if hrp != params.Bech32HRPSegwit {
		return Address{}, fmt.Errorf("addresses: bech32 hrp %q does not match network %s", hrp, params.Name)
	}
	if len(data) < 1 {
		return Address{}, fmt.Errorf("addresses: empty bech32 data")
	}
	ver := data[0]
	program, err := convertBits(data[1:], 5, 8, false)
	if err != nil {
		return Address{}, err
	}
	wantEnc := bech32Encoding
	if ver != 0 {
		wantEnc = bech32mEncoding
	}
	if enc != wantEnc {
		return Address{}, fmt.Errorf("addresses: witness version %d requires the other bech32 variant", ver)
	}
	return NewWitness(ver, program, params)
}
