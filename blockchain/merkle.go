// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"
	"math"

	"github.com/toole-brendan/shell/chaincfg/chainhash"
)

// merkleParent hashes two child hashes into their parent, HASH256(left ||
// right). Callers pass the left child twice when there is no right one
// (odd node count at that level), matching Bitcoin's merkle tree convention.
func merkleParent(left, right chainhash.Hash) chainhash.Hash {
	var buf [chainhash.HashSize * 2]byte
	copy(buf[:chainhash.HashSize], left[:])
	copy(buf[chainhash.HashSize:], right[:])
	return chainhash.DoubleHashH(buf[:])
}

// merkleParentLevel hashes an entire level of the tree into its parent
// level, duplicating the final hash if the level has an odd count.
func merkleParentLevel(level []chainhash.Hash) []chainhash.Hash {
	if len(level)%2 == 1 {
		level = append(append([]chainhash.Hash{}, level...), level[len(level)-1])
	}
	parent := make([]chainhash.Hash, 0, len(level)/2)
	for i := 0; i < len(level); i += 2 {
		parent = append(parent, merkleParent(level[i], level[i+1]))
	}
	return parent
}

// MerkleRoot reduces a level of leaf hashes all the way up to the single
// root hash.
func MerkleRoot(leaves []chainhash.Hash) chainhash.Hash {
	level := leaves
	for len(level) > 1 {
		level = merkleParentLevel(level)
	}
	return level[0]
}

// HashMerkleBranches hashes two node hashes together, the same primitive as
// merkleParent under the name callers constructing merkle proofs expect.
func HashMerkleBranches(left, right *chainhash.Hash) chainhash.Hash {
	return merkleParent(*left, *right)
}

// MerkleTree is a navigable binary merkle tree cursor over nLeaves leaves,
// used to populate a tree from a peer-supplied partial proof (BIP-37 style
// merkle blocks): nodes are filled in level by level from supplied hashes
// and "is this subtree fully included" flag bits, and Root reports the
// computed root once every node has a value.
type MerkleTree struct {
	total int
	depth int
	nodes [][]*chainhash.Hash

	currentDepth int
	currentIndex int
}

// NewMerkleTree creates a cursor for a tree with nLeaves leaves, with every
// node initially unpopulated.
func NewMerkleTree(nLeaves int) *MerkleTree {
	depth := int(math.Ceil(math.Log2(float64(nLeaves)))) + 1
	if nLeaves <= 1 {
		depth = 1
	}
	nodes := make([][]*chainhash.Hash, depth)
	for level := 0; level < depth; level++ {
		levelSize := int(math.Ceil(float64(nLeaves) / math.Pow(2, float64(depth-level-1))))
		nodes[level] = make([]*chainhash.Hash, levelSize)
	}
	return &MerkleTree{total: nLeaves, depth: depth, nodes: nodes}
}

func (t *MerkleTree) String() string {
	return fmt.Sprintf("MerkleTree(leaves=%d, depth=%d)", t.total, t.depth)
}

// Up moves the cursor to the current node's parent.
func (t *MerkleTree) Up() {
	t.currentDepth--
	t.currentIndex /= 2
}

// Left moves the cursor to the current node's left child.
func (t *MerkleTree) Left() {
	t.currentDepth++
	t.currentIndex *= 2
}

// Right moves the cursor to the current node's right sibling of Left.
func (t *MerkleTree) Right() {
	t.currentDepth++
	t.currentIndex = t.currentIndex*2 + 1
}

// Root returns the hash at the tree's root node, or nil if it hasn't been
// populated yet.
func (t *MerkleTree) Root() *chainhash.Hash {
	return t.nodes[0][0]
}

// SetCurrentNode sets the hash at the cursor's current position.
func (t *MerkleTree) SetCurrentNode(h chainhash.Hash) {
	t.nodes[t.currentDepth][t.currentIndex] = &h
}

// GetCurrentNode returns the hash at the cursor's current position, or nil.
func (t *MerkleTree) GetCurrentNode() *chainhash.Hash {
	return t.nodes[t.currentDepth][t.currentIndex]
}

// IsLeaf reports whether the cursor is on a leaf (bottom-level) node.
func (t *MerkleTree) IsLeaf() bool {
	return t.currentDepth == t.depth-1
}

// RightExists reports whether the current node has a right child, which is
// false for the rightmost parent of an odd-sized level (the left child is
// duplicated to stand in for it per Bitcoin's merkle convention).
func (t *MerkleTree) RightExists() bool {
	return len(t.nodes[t.currentDepth+1]) > t.currentIndex*2+1
}

// flagReader walks a BIP-37 style flag-bit/hash pair, doling out one bit or
// hash at a time to populateNode.
type flagReader struct {
	flagBits []byte
	hashes   []chainhash.Hash
	bitIdx   int
	hashIdx  int
}

func (r *flagReader) nextBit() (byte, error) {
	if r.bitIdx >= len(r.flagBits)*8 {
		return 0, fmt.Errorf("blockchain: ran out of flag bits")
	}
	bit := (r.flagBits[r.bitIdx/8] >> uint(r.bitIdx%8)) & 1
	r.bitIdx++
	return bit, nil
}

func (r *flagReader) nextHash() (chainhash.Hash, error) {
	if r.hashIdx >= len(r.hashes) {
		return chainhash.Hash{}, fmt.Errorf("blockchain: ran out of hashes")
	}
	h := r.hashes[r.hashIdx]
	r.hashIdx++
	return h, nil
}

// PopulateTree fills in every node of the tree given the flag bits and
// hashes a peer sent in a merkleblock-style message: a 0 bit means the
// current subtree's hash is supplied directly and not descended into, a 1
// bit on an internal node means descend into its children first, per
// BIP-37's partial merkle tree algorithm.
func (t *MerkleTree) PopulateTree(flagBits []byte, hashes []chainhash.Hash) error {
	r := &flagReader{flagBits: flagBits, hashes: hashes}
	if err := t.populate(r); err != nil {
		return err
	}
	if t.Root() == nil {
		return fmt.Errorf("blockchain: merkle tree left unpopulated")
	}
	return nil
}

// populate recursively fills in the subtree rooted at the cursor's current
// position, leaving the cursor back where it started on return.
func (t *MerkleTree) populate(r *flagReader) error {
	bit, err := r.nextBit()
	if err != nil {
		return err
	}

	if t.IsLeaf() || bit == 0 {
		h, err := r.nextHash()
		if err != nil {
			return err
		}
		t.SetCurrentNode(h)
		return nil
	}

	t.Left()
	if err := t.populate(r); err != nil {
		return err
	}
	left := t.GetCurrentNode()
	t.Up()

	var right *chainhash.Hash
	if t.RightExists() {
		t.Right()
		if err := t.populate(r); err != nil {
			return err
		}
		right = t.GetCurrentNode()
		t.Up()
	} else {
		right = left
	}

	parent := merkleParent(*left, *right)
	t.SetCurrentNode(parent)
	return nil
}
