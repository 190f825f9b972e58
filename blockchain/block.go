// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"
	"io"

	"github.com/toole-brendan/shell/chaincfg/chainhash"
	"github.com/toole-brendan/shell/wire"
)

// Block pairs a header with its full transaction list.
type Block struct {
	Header       BlockHeader
	Transactions []*wire.Tx
}

// Serialize writes the full block: the 80-byte header, a varint
// transaction count, then each transaction in its own legacy/segwit form.
func (b *Block) Serialize(w io.Writer) error {
	if err := b.Header.Serialize(w); err != nil {
		return err
	}
	if err := chainhash.WriteVarInt(w, uint64(len(b.Transactions))); err != nil {
		return err
	}
	for _, tx := range b.Transactions {
		if err := tx.Serialize(w); err != nil {
			return err
		}
	}
	return nil
}

// DeserializeBlock parses a full block from r.
func DeserializeBlock(r io.Reader) (*Block, error) {
	header, err := DeserializeHeader(r)
	if err != nil {
		return nil, fmt.Errorf("blockchain: parsing block header: %w", err)
	}

	txCount, err := chainhash.ReadVarInt(r)
	if err != nil {
		return nil, fmt.Errorf("blockchain: reading block tx count: %w", err)
	}

	txs := make([]*wire.Tx, txCount)
	for i := range txs {
		tx, err := wire.Deserialize(r)
		if err != nil {
			return nil, fmt.Errorf("blockchain: parsing block tx %d: %w", i, err)
		}
		txs[i] = tx
	}

	return &Block{Header: *header, Transactions: txs}, nil
}

// MerkleRootValid recomputes the merkle root over Transactions' txids and
// compares it against Header.MerkleRoot. chainhash.Hash keeps a consistent
// internal byte order across txid, merkle, and header fields, so no
// reversal is needed here.
func (b *Block) MerkleRootValid() (bool, error) {
	if len(b.Transactions) == 0 {
		return false, fmt.Errorf("blockchain: block has no transactions")
	}

	leaves := make([]chainhash.Hash, len(b.Transactions))
	for i, tx := range b.Transactions {
		id, err := tx.ID()
		if err != nil {
			return false, err
		}
		leaves[i] = id
	}

	return MerkleRoot(leaves) == b.Header.MerkleRoot, nil
}
