// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/toole-brendan/shell/chaincfg/chainhash"
)

// HeaderStore persists a chain of block headers keyed by both height and
// hash, so a restarted SPV node can resume headers-sync from its last
// accepted tip instead of refetching from genesis.
//
// Two leveldb key prefixes share one database: 'h' + 4-byte big-endian
// height -> hash, and 'b' + hash -> serialized header, the same
// height-index / block-index split a full node's on-disk block index uses.
type HeaderStore struct {
	db *leveldb.DB

	tipHeight int32
	tipHash   chainhash.Hash
}

var (
	heightPrefix = byte('h')
	hashPrefix   = byte('b')
)

// OpenHeaderStore opens (creating if absent) a leveldb-backed HeaderStore
// at path.
func OpenHeaderStore(path string) (*HeaderStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("blockchain: opening header store: %w", err)
	}
	s := &HeaderStore{db: db, tipHeight: -1}
	if err := s.loadTip(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *HeaderStore) Close() error { return s.db.Close() }

func heightKey(height int32) []byte {
	buf := make([]byte, 5)
	buf[0] = heightPrefix
	binary.BigEndian.PutUint32(buf[1:], uint32(height))
	return buf
}

func hashKey(hash chainhash.Hash) []byte {
	buf := make([]byte, 1+chainhash.HashSize)
	buf[0] = hashPrefix
	copy(buf[1:], hash.CloneBytes())
	return buf
}

func (s *HeaderStore) loadTip() error {
	iter := s.db.NewIterator(util.BytesPrefix([]byte{heightPrefix}), nil)
	defer iter.Release()

	for iter.Next() {
		height := int32(binary.BigEndian.Uint32(iter.Key()[1:]))
		if height > s.tipHeight {
			s.tipHeight = height
			var hash [32]byte
			copy(hash[:], iter.Value())
			s.tipHash = chainhash.Hash(hash)
		}
	}
	return iter.Error()
}

// TipHeight returns the height of the highest accepted header, or -1 if the
// store is empty.
func (s *HeaderStore) TipHeight() int32 { return s.tipHeight }

// TipHash returns the hash of the highest accepted header.
func (s *HeaderStore) TipHash() chainhash.Hash { return s.tipHash }

// Accept stores header at height, extending the tip. It does not validate
// proof-of-work or linkage to the previous header; callers run
// CheckProofOfWork and compare header.PrevBlock against TipHash themselves,
// so a reorg can replace a stored height with a competing header.
func (s *HeaderStore) Accept(height int32, header *BlockHeader) error {
	hash, err := header.Hash()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := header.Serialize(&buf); err != nil {
		return err
	}

	batch := new(leveldb.Batch)
	batch.Put(heightKey(height), hash.CloneBytes())
	batch.Put(hashKey(hash), buf.Bytes())
	if err := s.db.Write(batch, nil); err != nil {
		return fmt.Errorf("blockchain: writing header at height %d: %w", height, err)
	}

	if height > s.tipHeight {
		s.tipHeight = height
		s.tipHash = hash
		log.Debugf("accepted header %s at height %d", hash, height)
	}
	return nil
}

// HeaderByHeight returns the header stored at height.
func (s *HeaderStore) HeaderByHeight(height int32) (*BlockHeader, error) {
	hashBytes, err := s.db.Get(heightKey(height), nil)
	if err != nil {
		return nil, fmt.Errorf("blockchain: no header at height %d: %w", height, err)
	}
	var hash [32]byte
	copy(hash[:], hashBytes)
	return s.HeaderByHash(chainhash.Hash(hash))
}

// HeaderByHash returns the header stored under hash.
func (s *HeaderStore) HeaderByHash(hash chainhash.Hash) (*BlockHeader, error) {
	raw, err := s.db.Get(hashKey(hash), nil)
	if err != nil {
		return nil, fmt.Errorf("blockchain: no header for hash %s: %w", hash, err)
	}
	return DeserializeHeader(bytes.NewReader(raw))
}

// LocatorHashes returns a block-locator hash list for a getheaders message:
// the tip, then exponentially sparser ancestors back to genesis, the shape
// real Bitcoin peers expect so they can find the most recent common
// ancestor regardless of how far this node has reorganized.
func (s *HeaderStore) LocatorHashes() ([]chainhash.Hash, error) {
	if s.tipHeight < 0 {
		return nil, nil
	}

	var hashes []chainhash.Hash
	step := int32(1)
	height := s.tipHeight
	for height >= 0 {
		h, err := s.HeaderByHeight(height)
		if err != nil {
			return nil, err
		}
		hash, err := h.Hash()
		if err != nil {
			return nil, err
		}
		hashes = append(hashes, hash)

		if height == 0 {
			break
		}
		if len(hashes) >= 10 {
			step *= 2
		}
		height -= step
		if height < 0 {
			height = 0
		}
	}
	return hashes, nil
}
