// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"encoding/binary"
	"time"

	"github.com/toole-brendan/shell/chaincfg/chainhash"
)

// genesisMerkleRoot is the merkle root shared by the mainnet and testnet3
// genesis blocks: the txid of their single coinbase transaction, whose
// scriptSig embeds "The Times 03/Jan/2009 Chancellor on brink of second
// bailout for banks". Written in display (byte-reversed) order.
var genesisMerkleRoot = mustParseHash("4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b")

func mustParseHash(s string) chainhash.Hash {
	h, err := chainhash.NewHashFromStr(s)
	if err != nil {
		panic("chaincfg: bad hard-coded hash " + s)
	}
	return h
}

// genesisHeaderMain is Bitcoin mainnet's genesis block header. The block
// hash is computed below from the header fields rather than transcribed as
// a hex constant.
var genesisHeaderMain = GenesisHeader{
	Version:    1,
	MerkleRoot: genesisMerkleRoot,
	Timestamp:  time.Unix(1231006505, 0),
	Bits:       0x1d00ffff,
	Nonce:      2083236893,
}

var genesisHashMain = computeGenesisHash(genesisHeaderMain)

var genesisHeaderTest3 = GenesisHeader{
	Version:    1,
	MerkleRoot: genesisMerkleRoot,
	Timestamp:  time.Unix(1296688602, 0),
	Bits:       0x1d00ffff,
	Nonce:      414098458,
}

var genesisHashTest3 = computeGenesisHash(genesisHeaderTest3)

// computeGenesisHash serializes a genesis header (whose previous-block hash
// is all zero, by definition) and returns its HASH256, matching how every
// other block header's id is derived.
func computeGenesisHash(h GenesisHeader) chainhash.Hash {
	buf := make([]byte, 80)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(h.Version))
	// bytes 4:36 are the previous block hash, zero for a genesis block.
	copy(buf[36:68], h.MerkleRoot[:])
	binary.LittleEndian.PutUint32(buf[68:72], uint32(h.Timestamp.Unix()))
	binary.LittleEndian.PutUint32(buf[72:76], h.Bits)
	binary.LittleEndian.PutUint32(buf[76:80], h.Nonce)
	return chainhash.DoubleHashH(buf)
}
