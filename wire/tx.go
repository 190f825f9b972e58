// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wire defines the Bitcoin transaction wire format: TxInput,
// TxOutput, Tx, their legacy and segwit serializations, coinbase
// recognition, and signature hashing and verification.
package wire

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/toole-brendan/shell/chaincfg/chainhash"
	"github.com/toole-brendan/shell/txscript"
)

// TxInput is one transaction input.
type TxInput struct {
	PrevTxID  chainhash.Hash
	PrevIndex uint32
	ScriptSig txscript.Script
	Sequence  uint32

	// Witness holds the segwit witness stack for this input, nil for a
	// legacy input.
	Witness [][]byte

	// Height holds the BIP-34 coinbase height when this input's
	// script_sig begins with a height push, nil otherwise.
	Height *uint32
}

// TxOutput is one transaction output.
type TxOutput struct {
	Amount       uint64
	ScriptPubKey txscript.Script
}

// Tx is a Bitcoin transaction. Segwit is a serialization-shape flag, not
// consensus data; Testnet selects network parameters for address encoding
// and TxLookup endpoints but is never serialized.
type Tx struct {
	Version  uint32
	Inputs   []TxInput
	Outputs  []TxOutput
	Locktime uint32
	Testnet  bool
	Segwit   bool
}

const segwitMarker = 0x00
const segwitFlag = 0x01

// IsCoinbase reports whether tx has the single all-zero, max-index input
// that marks a coinbase transaction.
func (tx *Tx) IsCoinbase() bool {
	if len(tx.Inputs) != 1 {
		return false
	}
	in := tx.Inputs[0]
	return in.PrevTxID == chainhash.Hash{} && in.PrevIndex == 0xffffffff
}

// Serialize writes tx's legacy or segwit wire encoding depending on
// tx.Segwit.
func (tx *Tx) Serialize(w io.Writer) error {
	if tx.Segwit {
		return tx.serializeSegwit(w)
	}
	return tx.serializeLegacy(w)
}

func (tx *Tx) serializeLegacy(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, tx.Version); err != nil {
		return err
	}
	if err := chainhash.WriteVarInt(w, uint64(len(tx.Inputs))); err != nil {
		return err
	}
	for i := range tx.Inputs {
		if err := writeTxInput(w, &tx.Inputs[i]); err != nil {
			return err
		}
	}
	if err := chainhash.WriteVarInt(w, uint64(len(tx.Outputs))); err != nil {
		return err
	}
	for i := range tx.Outputs {
		if err := writeTxOutput(w, &tx.Outputs[i]); err != nil {
			return err
		}
	}
	return binary.Write(w, binary.LittleEndian, tx.Locktime)
}

func (tx *Tx) serializeSegwit(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, tx.Version); err != nil {
		return err
	}
	if _, err := w.Write([]byte{segwitMarker, segwitFlag}); err != nil {
		return err
	}
	if err := chainhash.WriteVarInt(w, uint64(len(tx.Inputs))); err != nil {
		return err
	}
	for i := range tx.Inputs {
		if err := writeTxInput(w, &tx.Inputs[i]); err != nil {
			return err
		}
	}
	if err := chainhash.WriteVarInt(w, uint64(len(tx.Outputs))); err != nil {
		return err
	}
	for i := range tx.Outputs {
		if err := writeTxOutput(w, &tx.Outputs[i]); err != nil {
			return err
		}
	}
	for i := range tx.Inputs {
		items := tx.Inputs[i].Witness
		if err := chainhash.WriteVarInt(w, uint64(len(items))); err != nil {
			return err
		}
		for _, item := range items {
			if err := chainhash.WriteVarInt(w, uint64(len(item))); err != nil {
				return err
			}
			if _, err := w.Write(item); err != nil {
				return err
			}
		}
	}
	return binary.Write(w, binary.LittleEndian, tx.Locktime)
}

func writeTxInput(w io.Writer, in *TxInput) error {
	if _, err := w.Write(in.PrevTxID.CloneBytes()); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, in.PrevIndex); err != nil {
		return err
	}
	raw, err := in.ScriptSig.Serialize()
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, in.Sequence)
}

func writeTxOutput(w io.Writer, out *TxOutput) error {
	if err := binary.Write(w, binary.LittleEndian, out.Amount); err != nil {
		return err
	}
	raw, err := out.ScriptPubKey.Serialize()
	if err != nil {
		return err
	}
	_, err = w.Write(raw)
	return err
}

// Deserialize parses a transaction, peeking at byte offset 4 to pick the
// legacy or segwit shape.
func Deserialize(r io.Reader) (*Tx, error) {
	// typed passes TxError and txscript.ScriptError through and wraps any
	// other read failure from the body in a TxError.
	typed := func(err error) error {
		switch err.(type) {
		case nil, TxError, txscript.ScriptError:
			return err
		}
		return txError(BadVarint, "reading transaction body: %v", err)
	}

	var versionBytes [4]byte
	if _, err := io.ReadFull(r, versionBytes[:]); err != nil {
		return nil, txError(BadVarint, "reading version: %v", err)
	}
	tx := &Tx{Version: binary.LittleEndian.Uint32(versionBytes[:])}

	var marker [1]byte
	if _, err := io.ReadFull(r, marker[:]); err != nil {
		return nil, txError(BadVarint, "reading input count: %v", err)
	}

	if marker[0] == segwitMarker {
		var flag [1]byte
		if _, err := io.ReadFull(r, flag[:]); err != nil {
			return nil, txError(BadSegwitMarker, "reading segwit flag: %v", err)
		}
		if flag[0] != segwitFlag {
			return nil, txError(BadSegwitMarker, "unsupported segwit flag 0x%02x", flag[0])
		}
		tx.Segwit = true
		return tx, typed(tx.deserializeSegwitBody(r))
	}

	// marker[0] is really the first byte of the legacy input-count varint.
	return tx, typed(tx.deserializeLegacyBody(io.MultiReader(bytes.NewReader(marker[:]), r)))
}

func (tx *Tx) deserializeLegacyBody(r io.Reader) error {
	nIn, err := chainhash.ReadVarInt(r)
	if err != nil {
		return err
	}
	tx.Inputs = make([]TxInput, nIn)
	for i := range tx.Inputs {
		if err := readTxInput(r, &tx.Inputs[i]); err != nil {
			return err
		}
	}

	nOut, err := chainhash.ReadVarInt(r)
	if err != nil {
		return err
	}
	tx.Outputs = make([]TxOutput, nOut)
	for i := range tx.Outputs {
		if err := readTxOutput(r, &tx.Outputs[i]); err != nil {
			return err
		}
	}

	if err := binary.Read(r, binary.LittleEndian, &tx.Locktime); err != nil {
		return err
	}
	tx.captureCoinbaseHeight()
	return nil
}

func (tx *Tx) deserializeSegwitBody(r io.Reader) error {
	nIn, err := chainhash.ReadVarInt(r)
	if err != nil {
		return err
	}
	tx.Inputs = make([]TxInput, nIn)
	for i := range tx.Inputs {
		if err := readTxInput(r, &tx.Inputs[i]); err != nil {
			return err
		}
	}

	nOut, err := chainhash.ReadVarInt(r)
	if err != nil {
		return err
	}
	tx.Outputs = make([]TxOutput, nOut)
	for i := range tx.Outputs {
		if err := readTxOutput(r, &tx.Outputs[i]); err != nil {
			return err
		}
	}

	for i := range tx.Inputs {
		nItems, err := chainhash.ReadVarInt(r)
		if err != nil {
			return err
		}
		items := make([][]byte, nItems)
		for j := range items {
			itemLen, err := chainhash.ReadVarInt(r)
			if err != nil {
				return err
			}
			item := make([]byte, itemLen)
			if _, err := io.ReadFull(r, item); err != nil {
				return err
			}
			items[j] = item
		}
		tx.Inputs[i].Witness = items
	}

	if err := binary.Read(r, binary.LittleEndian, &tx.Locktime); err != nil {
		return err
	}
	tx.captureCoinbaseHeight()
	return nil
}

func readTxInput(r io.Reader, in *TxInput) error {
	var prevTxID [32]byte
	if _, err := io.ReadFull(r, prevTxID[:]); err != nil {
		return err
	}
	in.PrevTxID = chainhash.Hash(prevTxID)
	if err := binary.Read(r, binary.LittleEndian, &in.PrevIndex); err != nil {
		return err
	}
	script, err := txscript.Parse(r)
	if err != nil {
		return err
	}
	in.ScriptSig = script
	return binary.Read(r, binary.LittleEndian, &in.Sequence)
}

func readTxOutput(r io.Reader, out *TxOutput) error {
	if err := binary.Read(r, binary.LittleEndian, &out.Amount); err != nil {
		return err
	}
	script, err := txscript.Parse(r)
	if err != nil {
		return err
	}
	out.ScriptPubKey = script
	return nil
}

// captureCoinbaseHeight fills Inputs[0].Height for a BIP-34 coinbase.
func (tx *Tx) captureCoinbaseHeight() {
	if !tx.IsCoinbase() {
		return
	}
	if height, ok := txscript.ExtractCoinbaseHeight(tx.Inputs[0].ScriptSig); ok {
		h := height
		tx.Inputs[0].Height = &h
	}
}

// ID returns the transaction's txid, HASH256 of its legacy serialization
// (the witness never contributes to the txid).
func (tx *Tx) ID() (chainhash.Hash, error) {
	legacy := &Tx{Version: tx.Version, Inputs: tx.Inputs, Outputs: tx.Outputs, Locktime: tx.Locktime}
	var buf bytes.Buffer
	if err := legacy.serializeLegacy(&buf); err != nil {
		return chainhash.Hash{}, err
	}
	return chainhash.DoubleHashH(buf.Bytes()), nil
}
