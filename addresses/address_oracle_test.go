// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Cross-validates this package's hand-rolled Base58Check and bech32/bech32m
// codecs against btcsuite's btcutil, the reference implementation the wider
// ecosystem trusts. Mirrors the cross-library oracle pattern used in
// curve/curve_oracle_test.go and ecdsa/ecdsa_oracle_test.go: catch an
// encoding bug a self-consistent round trip would miss.
package addresses_test

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"

	"github.com/toole-brendan/shell/addresses"
	"github.com/toole-brendan/shell/chaincfg"
)

func TestP2PKHMatchesBtcutilBase58Check(t *testing.T) {
	hash := make([]byte, 20)
	for i := range hash {
		hash[i] = byte(i * 7)
	}

	addr, err := addresses.NewP2PKH(hash, &chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("NewP2PKH: %v", err)
	}
	ours := addr.String()
	want := base58.CheckEncode(hash, chaincfg.MainNetParams.PubKeyHashAddrID)
	if ours != want {
		t.Fatalf("P2PKH address mismatch\n ours: %s\n want: %s", ours, want)
	}

	payload, version, err := base58.CheckDecode(ours)
	if err != nil {
		t.Fatalf("base58.CheckDecode: %v", err)
	}
	if version != chaincfg.MainNetParams.PubKeyHashAddrID {
		t.Fatalf("version byte = 0x%02x, want 0x%02x", version, chaincfg.MainNetParams.PubKeyHashAddrID)
	}
	if string(payload) != string(hash) {
		t.Fatalf("decoded payload mismatch: got %x want %x", payload, hash)
	}
}

func TestP2SHMatchesBtcutilBase58Check(t *testing.T) {
	hash := make([]byte, 20)
	for i := range hash {
		hash[i] = byte(255 - i)
	}

	addr, err := addresses.NewP2SH(hash, &chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("NewP2SH: %v", err)
	}
	ours := addr.String()
	want := base58.CheckEncode(hash, chaincfg.MainNetParams.ScriptHashAddrID)
	if ours != want {
		t.Fatalf("P2SH address mismatch\n ours: %s\n want: %s", ours, want)
	}
}

func TestWitnessV0MatchesBtcutilBech32(t *testing.T) {
	program := make([]byte, 20)
	for i := range program {
		program[i] = byte(i * 3)
	}

	addr, err := addresses.NewWitness(0, program, &chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("NewWitness: %v", err)
	}
	ours := addr.String()

	converted, err := bech32.ConvertBits(program, 8, 5, true)
	if err != nil {
		t.Fatalf("bech32.ConvertBits: %v", err)
	}
	combined := append([]byte{0}, converted...)
	want, err := bech32.Encode(chaincfg.MainNetParams.Bech32HRPSegwit, combined)
	if err != nil {
		t.Fatalf("bech32.Encode: %v", err)
	}
	if ours != want {
		t.Fatalf("witness v0 address mismatch\n ours: %s\n want: %s", ours, want)
	}

	hrp, data, err := bech32.Decode(ours)
	if err != nil {
		t.Fatalf("bech32.Decode: %v", err)
	}
	if hrp != chaincfg.MainNetParams.Bech32HRPSegwit {
		t.Fatalf("hrp mismatch: got %q want %q", hrp, chaincfg.MainNetParams.Bech32HRPSegwit)
	}
	if data[0] != 0 {
		t.Fatalf("witness version mismatch: got %d want 0", data[0])
	}
}
