// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"testing"
	"time"
)

func openTestStore(t *testing.T) *HeaderStore {
	t.Helper()
	s, err := OpenHeaderStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenHeaderStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testHeader(b byte, nonce uint32) *BlockHeader {
	return &BlockHeader{
		Version:    1,
		PrevBlock:  fixedHash(b),
		MerkleRoot: fixedHash(b + 1),
		Timestamp:  time.Unix(1600000000, 0).UTC(),
		Bits:       0x1d00ffff,
		Nonce:      nonce,
	}
}

func TestHeaderStoreAcceptAndLookup(t *testing.T) {
	s := openTestStore(t)

	h0 := testHeader(0x00, 1)
	h1 := testHeader(0x01, 2)

	if err := s.Accept(0, h0); err != nil {
		t.Fatalf("Accept(0): %v", err)
	}
	if err := s.Accept(1, h1); err != nil {
		t.Fatalf("Accept(1): %v", err)
	}

	if s.TipHeight() != 1 {
		t.Fatalf("TipHeight = %d, want 1", s.TipHeight())
	}

	got, err := s.HeaderByHeight(1)
	if err != nil {
		t.Fatalf("HeaderByHeight(1): %v", err)
	}
	if got.Nonce != h1.Nonce {
		t.Fatalf("HeaderByHeight(1).Nonce = %d, want %d", got.Nonce, h1.Nonce)
	}

	wantHash, err := h0.Hash()
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	byHash, err := s.HeaderByHash(wantHash)
	if err != nil {
		t.Fatalf("HeaderByHash: %v", err)
	}
	if byHash.Nonce != h0.Nonce {
		t.Fatalf("HeaderByHash.Nonce = %d, want %d", byHash.Nonce, h0.Nonce)
	}
}

func TestHeaderStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := OpenHeaderStore(dir)
	if err != nil {
		t.Fatalf("OpenHeaderStore: %v", err)
	}
	h0 := testHeader(0x05, 9)
	if err := s.Accept(0, h0); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenHeaderStore(dir)
	if err != nil {
		t.Fatalf("reopen OpenHeaderStore: %v", err)
	}
	defer reopened.Close()

	if reopened.TipHeight() != 0 {
		t.Fatalf("reopened TipHeight = %d, want 0", reopened.TipHeight())
	}
	got, err := reopened.HeaderByHeight(0)
	if err != nil {
		t.Fatalf("reopened HeaderByHeight: %v", err)
	}
	if got.Nonce != h0.Nonce {
		t.Fatalf("reopened header nonce = %d, want %d", got.Nonce, h0.Nonce)
	}
}

func TestLocatorHashesIncludesTip(t *testing.T) {
	s := openTestStore(t)
	for i := int32(0); i < 3; i++ {
		if err := s.Accept(i, testHeader(byte(i), uint32(i))); err != nil {
			t.Fatalf("Accept(%d): %v", i, err)
		}
	}

	locator, err := s.LocatorHashes()
	if err != nil {
		t.Fatalf("LocatorHashes: %v", err)
	}
	if len(locator) == 0 {
		t.Fatal("expected a non-empty locator")
	}
	tipHeader, err := s.HeaderByHeight(2)
	if err != nil {
		t.Fatalf("HeaderByHeight(2): %v", err)
	}
	tipHash, err := tipHeader.Hash()
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if locator[0] != tipHash {
		t.Fatalf("locator[0] = %v, want tip hash %v", locator[0], tipHash)
	}
}
