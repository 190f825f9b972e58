// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"bytes"
	"math/big"
	"testing"
	"time"

	"github.com/toole-brendan/shell/chaincfg"
	"github.com/toole-brendan/shell/chaincfg/chainhash"
)

func fixedHash(b byte) chainhash.Hash {
	var h chainhash.Hash
	for i := range h {
		h[i] = b
	}
	return h
}

func TestHeaderSerializeDeserializeRoundTrip(t *testing.T) {
	h := &BlockHeader{
		Version:    1,
		PrevBlock:  fixedHash(0x11),
		MerkleRoot: fixedHash(0x22),
		Timestamp:  time.Unix(1231006505, 0).UTC(),
		Bits:       0x1d00ffff,
		Nonce:      2083236893,
	}

	var buf bytes.Buffer
	if err := h.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if buf.Len() != HeaderSize {
		t.Fatalf("serialized length = %d, want %d", buf.Len(), HeaderSize)
	}

	got, err := DeserializeHeader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("DeserializeHeader: %v", err)
	}
	if got.Version != h.Version || got.Bits != h.Bits || got.Nonce != h.Nonce {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if !got.Timestamp.Equal(h.Timestamp) {
		t.Fatalf("timestamp = %v, want %v", got.Timestamp, h.Timestamp)
	}
}

func TestBitsToTargetToBitsRoundTrip(t *testing.T) {
	cases := []uint32{0x1d00ffff, 0x1b0404cb, 0x207fffff}
	for _, bits := range cases {
		target := BitsToTarget(bits)
		got := TargetToBits(target)
		if got != bits {
			t.Errorf("TargetToBits(BitsToTarget(0x%x)) = 0x%x, want 0x%x", bits, got, bits)
		}
	}
}

func TestBitsToTargetKnownValue(t *testing.T) {
	// 0x1d00ffff is Bitcoin mainnet's genesis difficulty: coefficient
	// 0xffff, exponent 0x1d (29), target = 0xffff * 256^(29-3).
	got := BitsToTarget(0x1d00ffff)
	want := new(big.Int).Mul(big.NewInt(0xffff), new(big.Int).Exp(big.NewInt(256), big.NewInt(26), nil))
	if got.Cmp(want) != 0 {
		t.Fatalf("BitsToTarget(0x1d00ffff) = %s, want %s", got, want)
	}
}

func TestCheckProofOfWorkRejectsHighHash(t *testing.T) {
	h := &BlockHeader{
		Version:    1,
		PrevBlock:  fixedHash(0x00),
		MerkleRoot: fixedHash(0x00),
		Timestamp:  time.Unix(0, 0).UTC(),
		Bits:       0x03000001, // the minimum possible target: 1
		Nonce:      0,
	}
	ok, err := h.CheckProofOfWork()
	if err != nil {
		t.Fatalf("CheckProofOfWork: %v", err)
	}
	if ok {
		t.Fatal("expected an arbitrary header to fail proof-of-work against an all-but-impossible target")
	}
}

func TestNextWorkRequiredNoRetargetingKeepsBits(t *testing.T) {
	first := &BlockHeader{Timestamp: time.Unix(0, 0).UTC(), Bits: 0x1d00ffff}
	last := &BlockHeader{Timestamp: time.Unix(1000000, 0).UTC(), Bits: 0x1d00ffff}

	params := chaincfg.MainNetParams
	params.PoWNoRetargeting = true
	got := NextWorkRequired(first, last, &params)
	if got != last.Bits {
		t.Fatalf("NextWorkRequired = 0x%x, want 0x%x (PoWNoRetargeting keeps last bits)", got, last.Bits)
	}
}

func TestNextWorkRequiredFasterBlocksLowersTarget(t *testing.T) {
	params := chaincfg.MainNetParams
	first := &BlockHeader{Timestamp: time.Unix(0, 0).UTC(), Bits: 0x1d00ffff}
	// Actual timespan far shorter than target: difficulty should rise
	// (target falls).
	last := &BlockHeader{Timestamp: time.Unix(int64(params.TargetTimespan.Seconds()) / 8, 0).UTC(), Bits: 0x1d00ffff}

	newBits := NextWorkRequired(first, last, &params)
	newTarget := BitsToTarget(newBits)
	oldTarget := BitsToTarget(last.Bits)
	if newTarget.Cmp(oldTarget) >= 0 {
		t.Fatalf("expected a shorter-than-target timespan to lower the target: got 0x%x from 0x%x", newBits, last.Bits)
	}
}
