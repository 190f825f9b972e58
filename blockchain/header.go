// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/toole-brendan/shell/chaincfg"
	"github.com/toole-brendan/shell/chaincfg/chainhash"
)

// BlockHeader is an 80-byte Bitcoin block header. Serialized and hashed in
// little-endian, displayed byte-reversed by convention (the same convention
// chainhash.Hash.String follows).
type BlockHeader struct {
	Version    int32
	PrevBlock  chainhash.Hash
	MerkleRoot chainhash.Hash
	Timestamp  time.Time
	Bits       uint32
	Nonce      uint32
}

// HeaderSize is the fixed wire size of a serialized BlockHeader.
const HeaderSize = 80

// Serialize writes the 80-byte wire encoding of h.
func (h *BlockHeader) Serialize(w io.Writer) error {
	var buf [HeaderSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(h.Version))
	copy(buf[4:36], h.PrevBlock.CloneBytes())
	copy(buf[36:68], h.MerkleRoot.CloneBytes())
	binary.LittleEndian.PutUint32(buf[68:72], uint32(h.Timestamp.Unix()))
	binary.LittleEndian.PutUint32(buf[72:76], h.Bits)
	binary.LittleEndian.PutUint32(buf[76:80], h.Nonce)
	_, err := w.Write(buf[:])
	return err
}

// DeserializeHeader parses an 80-byte BlockHeader.
func DeserializeHeader(r io.Reader) (*BlockHeader, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, fmt.Errorf("blockchain: reading header: %w", err)
	}
	var prevBlock, merkleRoot [32]byte
	copy(prevBlock[:], buf[4:36])
	copy(merkleRoot[:], buf[36:68])
	return &BlockHeader{
		Version:    int32(binary.LittleEndian.Uint32(buf[0:4])),
		PrevBlock:  chainhash.Hash(prevBlock),
		MerkleRoot: chainhash.Hash(merkleRoot),
		Timestamp:  time.Unix(int64(binary.LittleEndian.Uint32(buf[68:72])), 0).UTC(),
		Bits:       binary.LittleEndian.Uint32(buf[72:76]),
		Nonce:      binary.LittleEndian.Uint32(buf[76:80]),
	}, nil
}

// Hash returns HASH256 of h's 80-byte serialization.
func (h *BlockHeader) Hash() (chainhash.Hash, error) {
	var buf [HeaderSize]byte
	w := sliceWriter{buf: buf[:0]}
	if err := h.Serialize(&w); err != nil {
		return chainhash.Hash{}, err
	}
	return chainhash.DoubleHashH(w.buf), nil
}

// sliceWriter is a zero-allocation io.Writer backed by a fixed array,
// avoiding a bytes.Buffer for the hot header-hashing path.
type sliceWriter struct{ buf []byte }

func (w *sliceWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	return len(p), nil
}

// BitsToTarget converts a compact "bits" encoding to its big.Int target:
// exponent is the top byte, coefficient the low 24 bits.
func BitsToTarget(bits uint32) *big.Int {
	exponent := bits >> 24
	coefficient := big.NewInt(int64(bits & 0x00ffffff))

	if exponent <= 3 {
		coefficient.Rsh(coefficient, uint(8*(3-exponent)))
		return coefficient
	}
	return coefficient.Lsh(coefficient, uint(8*(exponent-3)))
}

// TargetToBits converts a big.Int target to its compact "bits" encoding,
// the inverse of BitsToTarget.
func TargetToBits(target *big.Int) uint32 {
	raw := target.Bytes() // big-endian, no leading zeros

	var exponent int
	var coefficient []byte
	if len(raw) > 0 && raw[0] >= 0x80 {
		exponent = len(raw) + 1
		coefficient = append([]byte{0x00}, raw...)
	} else {
		exponent = len(raw)
		coefficient = raw
	}
	if len(coefficient) > 3 {
		coefficient = coefficient[:3]
	}
	for len(coefficient) < 3 {
		coefficient = append(coefficient, 0x00)
	}

	bits := uint32(exponent) << 24
	bits |= uint32(coefficient[0]) << 16
	bits |= uint32(coefficient[1]) << 8
	bits |= uint32(coefficient[2])
	return bits
}

// CheckProofOfWork reports whether h's HASH256, read as a uint256 in its
// byte-reversed display order (the raw digest taken little-endian), is below
// the target encoded by h.Bits.
func (h *BlockHeader) CheckProofOfWork() (bool, error) {
	hash, err := h.Hash()
	if err != nil {
		return false, err
	}
	reversed := hash.CloneBytes()
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	hashInt := new(big.Int).SetBytes(reversed)
	return hashInt.Cmp(BitsToTarget(h.Bits)) < 0, nil
}

// NextWorkRequired computes the retarget bits for the block following
// lastHeader, given firstHeader (2016 blocks earlier). The measured timespan
// is clamped to within a factor of params.RetargetAdjustmentFactor of
// params.TargetTimespan, and the new target is capped at params.PowLimit;
// params.PoWNoRetargeting networks keep the same bits.
func NextWorkRequired(firstHeader, lastHeader *BlockHeader, params *chaincfg.Params) uint32 {
	if params.PoWNoRetargeting {
		return lastHeader.Bits
	}

	timeDiff := lastHeader.Timestamp.Sub(firstHeader.Timestamp)
	minTimespan := params.TargetTimespan / time.Duration(params.RetargetAdjustmentFactor)
	maxTimespan := params.TargetTimespan * time.Duration(params.RetargetAdjustmentFactor)
	if timeDiff < minTimespan {
		timeDiff = minTimespan
	}
	if timeDiff > maxTimespan {
		timeDiff = maxTimespan
	}

	lastTarget := BitsToTarget(lastHeader.Bits)
	newTarget := new(big.Int).Mul(lastTarget, big.NewInt(int64(timeDiff)))
	newTarget.Div(newTarget, big.NewInt(int64(params.TargetTimespan)))

	if newTarget.Cmp(params.PowLimit) > 0 {
		newTarget = params.PowLimit
	}
	return TargetToBits(newTarget)
}
