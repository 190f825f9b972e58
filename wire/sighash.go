// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"encoding/binary"

	"github.com/toole-brendan/shell/chaincfg/chainhash"
	"github.com/toole-brendan/shell/txscript"
)

// Sighash types, as appended to the preimage before hashing and to the DER
// signature itself.
const (
	SighashAll    uint32 = 1
	SighashNone   uint32 = 2
	SighashSingle uint32 = 3
)

// LegacySigHash computes the pre-segwit signature hash for input i: every
// script_sig is emptied, input i's is replaced by referenceScript (the
// previous output's script_pubkey, or the embedded redeem script for a P2SH
// input), and the result is serialized and hashed with the sighash type
// appended.
func (tx *Tx) LegacySigHash(i int, sigHashType uint32, referenceScript txscript.Script) (chainhash.Hash, error) {
	if i < 0 || i >= len(tx.Inputs) {
		return chainhash.Hash{}, txError(IndexOutOfRange, "sighash input index %d out of range", i)
	}

	modified := &Tx{
		Version:  tx.Version,
		Outputs:  tx.Outputs,
		Locktime: tx.Locktime,
	}
	modified.Inputs = make([]TxInput, len(tx.Inputs))
	for idx, in := range tx.Inputs {
		cleared := in
		cleared.ScriptSig = txscript.Script{}
		if idx == i {
			cleared.ScriptSig = referenceScript
		}
		modified.Inputs[idx] = cleared
	}

	var buf bytes.Buffer
	if err := modified.serializeLegacy(&buf); err != nil {
		return chainhash.Hash{}, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, sigHashType); err != nil {
		return chainhash.Hash{}, err
	}
	return chainhash.DoubleHashH(buf.Bytes()), nil
}

// ReferenceScriptFromP2SH extracts the embedded redeem script from a P2SH
// signature-script's last push, the script_sig shape BIP-16 requires.
func ReferenceScriptFromP2SH(scriptSig txscript.Script) (txscript.Script, error) {
	if len(scriptSig.Cmds) == 0 {
		return txscript.Script{}, txError(UnknownInputKind, "empty script_sig has no embedded redeem script")
	}
	last := scriptSig.Cmds[len(scriptSig.Cmds)-1]
	if !last.IsData {
		return txscript.Script{}, txError(UnknownInputKind, "script_sig's last command is not a data push")
	}
	return txscript.ParseRaw(last.Data)
}

// synthesizeP2PKH builds OP_DUP OP_HASH160 <hash> OP_EQUALVERIFY OP_CHECKSIG
// over hash, used as scriptCode when building a BIP-143 sighash.
func synthesizeP2PKH(hash []byte) txscript.Script {
	return txscript.NewScript(
		txscript.OpCmd(txscript.OP_DUP), txscript.OpCmd(txscript.OP_HASH160), txscript.DataCmd(hash),
		txscript.OpCmd(txscript.OP_EQUALVERIFY), txscript.OpCmd(txscript.OP_CHECKSIG),
	)
}

// WitnessV0SigHash computes the BIP-143 signature hash for witness v0 input
// i, given its value and scriptCode.
func (tx *Tx) WitnessV0SigHash(i int, value uint64, scriptCode txscript.Script, sigHashType uint32) (chainhash.Hash, error) {
	if i < 0 || i >= len(tx.Inputs) {
		return chainhash.Hash{}, txError(IndexOutOfRange, "sighash input index %d out of range", i)
	}

	var prevouts, sequences bytes.Buffer
	for _, in := range tx.Inputs {
		prevouts.Write(in.PrevTxID.CloneBytes())
		binary.Write(&prevouts, binary.LittleEndian, in.PrevIndex)
		binary.Write(&sequences, binary.LittleEndian, in.Sequence)
	}
	hashPrevouts := chainhash.DoubleHashB(prevouts.Bytes())
	hashSequence := chainhash.DoubleHashB(sequences.Bytes())

	var outputs bytes.Buffer
	for idx := range tx.Outputs {
		writeTxOutput(&outputs, &tx.Outputs[idx])
	}
	hashOutputs := chainhash.DoubleHashB(outputs.Bytes())

	in := tx.Inputs[i]
	scriptCodeRaw, err := scriptCode.Serialize()
	if err != nil {
		return chainhash.Hash{}, err
	}

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, tx.Version)
	buf.Write(hashPrevouts)
	buf.Write(hashSequence)
	buf.Write(in.PrevTxID.CloneBytes())
	binary.Write(&buf, binary.LittleEndian, in.PrevIndex)
	buf.Write(scriptCodeRaw)
	binary.Write(&buf, binary.LittleEndian, value)
	binary.Write(&buf, binary.LittleEndian, in.Sequence)
	buf.Write(hashOutputs)
	binary.Write(&buf, binary.LittleEndian, tx.Locktime)
	binary.Write(&buf, binary.LittleEndian, sigHashType)

	return chainhash.DoubleHashH(buf.Bytes()), nil
}
