// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/toole-brendan/shell/chaincfg/chainhash"
	"github.com/toole-brendan/shell/txscript"
	"github.com/toole-brendan/shell/wire"
)

func coinbaseTx(t *testing.T, height uint32) *wire.Tx {
	t.Helper()
	return &wire.Tx{
		Version: 1,
		Inputs: []wire.TxInput{{
			PrevTxID:  chainhash.Hash{},
			PrevIndex: 0xffffffff,
			ScriptSig: txscript.NewScript(txscript.DataCmd([]byte{byte(height), byte(height >> 8), byte(height >> 16)})),
			Sequence:  0xffffffff,
		}},
		Outputs: []wire.TxOutput{{
			Amount:       5000000000,
			ScriptPubKey: txscript.NewScript(txscript.OpCmd(txscript.OP_1)),
		}},
		Locktime: 0,
	}
}

func buildBlock(t *testing.T, txs ...*wire.Tx) *Block {
	t.Helper()
	leaves := make([]chainhash.Hash, len(txs))
	for i, tx := range txs {
		id, err := tx.ID()
		require.NoError(t, err)
		leaves[i] = id
	}
	return &Block{
		Header: BlockHeader{
			Version:    1,
			PrevBlock:  chainhash.Hash{},
			MerkleRoot: MerkleRoot(leaves),
			Timestamp:  time.Unix(1231006505, 0).UTC(),
			Bits:       0x1d00ffff,
			Nonce:      2083236893,
		},
		Transactions: txs,
	}
}

func TestBlockSerializeDeserializeRoundTrip(t *testing.T) {
	block := buildBlock(t, coinbaseTx(t, 100))

	var buf bytes.Buffer
	require.NoError(t, block.Serialize(&buf))

	got, err := DeserializeBlock(&buf)
	require.NoError(t, err)
	require.Equal(t, block.Header, got.Header)
	require.Len(t, got.Transactions, 1)
	require.True(t, got.Transactions[0].IsCoinbase())
}

func TestBlockMerkleRootValid(t *testing.T) {
	block := buildBlock(t, coinbaseTx(t, 1))

	ok, err := block.MerkleRootValid()
	require.NoError(t, err)
	require.True(t, ok)
}

func TestBlockMerkleRootInvalidWhenTampered(t *testing.T) {
	block := buildBlock(t, coinbaseTx(t, 1))
	block.Header.MerkleRoot = chainhash.Hash{0xff}

	ok, err := block.MerkleRootValid()
	require.NoError(t, err)
	require.False(t, ok)
}
