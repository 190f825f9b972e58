// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"testing"

	"github.com/toole-brendan/shell/chaincfg/chainhash"
)

func leaf(b byte) chainhash.Hash {
	var h chainhash.Hash
	h[0] = b
	return h
}

func TestMerkleParentIsDoubleSHA256(t *testing.T) {
	left, right := leaf(1), leaf(2)
	got := merkleParent(left, right)

	var buf [64]byte
	copy(buf[:32], left[:])
	copy(buf[32:], right[:])
	want := chainhash.DoubleHashH(buf[:])

	if got != want {
		t.Fatalf("merkleParent mismatch: got %s want %s", got, want)
	}
}

func TestMerkleRootSingleLeaf(t *testing.T) {
	l := leaf(7)
	if got := MerkleRoot([]chainhash.Hash{l}); got != l {
		t.Fatalf("single-leaf root should equal the leaf: got %s want %s", got, l)
	}
}

func TestMerkleRootDuplicatesOddLevel(t *testing.T) {
	a, b, c := leaf(1), leaf(2), leaf(3)
	got := MerkleRoot([]chainhash.Hash{a, b, c})

	// Bitcoin duplicates the last hash of an odd level: {a,b,c,c}.
	top := merkleParentLevel([]chainhash.Hash{a, b, c})
	want := merkleParent(top[0], top[1])

	if got != want {
		t.Fatalf("odd-level root mismatch: got %s want %s", got, want)
	}
}

func TestMerkleRootFourLeaves(t *testing.T) {
	a, b, c, d := leaf(1), leaf(2), leaf(3), leaf(4)
	ab := merkleParent(a, b)
	cd := merkleParent(c, d)
	want := merkleParent(ab, cd)

	got := MerkleRoot([]chainhash.Hash{a, b, c, d})
	if got != want {
		t.Fatalf("four-leaf root mismatch: got %s want %s", got, want)
	}
}

func TestHashMerkleBranchesMatchesMerkleParent(t *testing.T) {
	left, right := leaf(5), leaf(6)
	if HashMerkleBranches(&left, &right) != merkleParent(left, right) {
		t.Fatalf("HashMerkleBranches should be the same primitive as merkleParent")
	}
}

// TestMerkleTreePopulateFourLeaves builds a full tree from four leaves,
// extracts a BIP-37 style flag/hash proof (every leaf included, so every bit
// is 1 down to the leaves and 0 at the leaves themselves), and checks that a
// fresh cursor populated from that proof reproduces the same root.
func TestMerkleTreePopulateFourLeaves(t *testing.T) {
	a, b, c, d := leaf(1), leaf(2), leaf(3), leaf(4)
	ab := merkleParent(a, b)
	cd := merkleParent(c, d)
	root := merkleParent(ab, cd)

	// Depth-first bit order visited by populate: root=1 (descend),
	// left subtree=1 (descend), leaf a=0, leaf b=0, right subtree=1
	// (descend), leaf c=0, leaf d=0 -> bits (LSB first) 1,1,0,0,1,0,0.
	flagBits := []byte{0b00010011}
	hashes := []chainhash.Hash{a, b, c, d}

	tree := NewMerkleTree(4)
	if err := tree.PopulateTree(flagBits, hashes); err != nil {
		t.Fatalf("PopulateTree failed: %v", err)
	}
	if got := tree.Root(); got == nil || *got != root {
		t.Fatalf("populated root mismatch: got %v want %s", got, root)
	}
}

func TestMerkleTreePopulateRejectsTruncatedProof(t *testing.T) {
	tree := NewMerkleTree(4)
	err := tree.PopulateTree([]byte{0b00000001}, nil)
	if err == nil {
		t.Fatal("expected an error from a truncated proof")
	}
}
