// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"github.com/toole-brendan/shell/chaincfg/chainhash"
	"github.com/toole-brendan/shell/curve"
	"github.com/toole-brendan/shell/ecdsa"
	"github.com/toole-brendan/shell/txscript"
)

// TxLookup resolves a previous output by txid, as needed to verify an
// input's signature and compute a transaction's fee. Defined here, rather
// than in package txlookup, so that wire need not import its own consumer;
// txlookup's concrete fetchers satisfy this interface.
type TxLookup interface {
	Fetch(txidHex string, testnet, fresh bool) (*Tx, error)
}

// VerifyInput verifies input i of tx by locating its previous output via
// lookup, choosing the sighash path for the recognized script type, and
// evaluating script_sig||script_pubkey.
func (tx *Tx) VerifyInput(i int, lookup TxLookup) (bool, error) {
	if i < 0 || i >= len(tx.Inputs) {
		return false, txError(IndexOutOfRange, "verify input index %d out of range", i)
	}
	in := tx.Inputs[i]

	prevTx, err := lookup.Fetch(in.PrevTxID.String(), tx.Testnet, false)
	if err != nil {
		return false, txError(LookupFailed, "%v", err)
	}
	if int(in.PrevIndex) >= len(prevTx.Outputs) {
		return false, txError(IndexOutOfRange, "previous output index %d out of range", in.PrevIndex)
	}
	prevOut := prevTx.Outputs[in.PrevIndex]

	if hash, ok := txscript.IsP2SH(prevOut.ScriptPubKey); ok {
		redeem, err := ReferenceScriptFromP2SH(in.ScriptSig)
		if err != nil {
			return false, err
		}
		redeemRaw, err := redeem.RawBytes()
		if err != nil {
			return false, err
		}
		if !bytesEqual(chainhash.Hash160(redeemRaw), hash) {
			return false, nil
		}

		if witnessHash, ok := txscript.IsP2WPKH(redeem); ok {
			return tx.verifyWitnessV0(i, prevOut.Amount, synthesizeP2PKH(witnessHash), redeem)
		}
		if _, ok := txscript.IsP2WSH(redeem); ok {
			if len(in.Witness) == 0 {
				return false, txError(MissingWitness, "P2WSH input missing witness")
			}
			witnessScript, err := txscript.ParseRaw(in.Witness[len(in.Witness)-1])
			if err != nil {
				return false, err
			}
			return tx.verifyWitnessV0(i, prevOut.Amount, witnessScript, redeem)
		}

		z, err := tx.LegacySigHash(i, SighashAll, redeem)
		if err != nil {
			return false, err
		}
		return txscript.Evaluate(in.ScriptSig, prevOut.ScriptPubKey, z[:], in.Witness)
	}

	if hash, ok := txscript.IsP2WPKH(prevOut.ScriptPubKey); ok {
		return tx.verifyWitnessV0(i, prevOut.Amount, synthesizeP2PKH(hash), prevOut.ScriptPubKey)
	}
	if _, ok := txscript.IsP2WSH(prevOut.ScriptPubKey); ok {
		if len(in.Witness) == 0 {
			return false, txError(MissingWitness, "P2WSH input missing witness")
		}
		witnessScript, err := txscript.ParseRaw(in.Witness[len(in.Witness)-1])
		if err != nil {
			return false, err
		}
		return tx.verifyWitnessV0(i, prevOut.Amount, witnessScript, prevOut.ScriptPubKey)
	}

	z, err := tx.LegacySigHash(i, SighashAll, prevOut.ScriptPubKey)
	if err != nil {
		return false, err
	}
	return txscript.Evaluate(in.ScriptSig, prevOut.ScriptPubKey, z[:], in.Witness)
}

// verifyWitnessV0 computes the BIP-143 sighash over scriptCode and then
// evaluates the witness program itself (witnessPubKeyScript), letting the
// interpreter's native-segwit splice run scriptCode against the witness.
func (tx *Tx) verifyWitnessV0(i int, value uint64, scriptCode, witnessPubKeyScript txscript.Script) (bool, error) {
	z, err := tx.WitnessV0SigHash(i, value, scriptCode, SighashAll)
	if err != nil {
		return false, err
	}
	in := tx.Inputs[i]
	return txscript.Evaluate(txscript.Script{}, witnessPubKeyScript, z[:], in.Witness)
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Fee returns the transaction's fee: sum of input values (via lookup) minus
// sum of output amounts.
func (tx *Tx) Fee(lookup TxLookup) (int64, error) {
	var total int64
	for _, in := range tx.Inputs {
		prevTx, err := lookup.Fetch(in.PrevTxID.String(), tx.Testnet, false)
		if err != nil {
			return 0, txError(LookupFailed, "%v", err)
		}
		if int(in.PrevIndex) >= len(prevTx.Outputs) {
			return 0, txError(IndexOutOfRange, "previous output index %d out of range", in.PrevIndex)
		}
		total += int64(prevTx.Outputs[in.PrevIndex].Amount)
	}
	for _, out := range tx.Outputs {
		total -= int64(out.Amount)
	}
	return total, nil
}

// Verify reports whether tx is non-coinbase, every input verifies, and the
// fee is non-negative.
func (tx *Tx) Verify(lookup TxLookup) (bool, error) {
	if tx.IsCoinbase() {
		return false, txError(UnknownInputKind, "cannot verify a coinbase transaction")
	}
	for i := range tx.Inputs {
		ok, err := tx.VerifyInput(i, lookup)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	fee, err := tx.Fee(lookup)
	if err != nil {
		return false, err
	}
	return fee >= 0, nil
}

// SignInput signs input i against its previous output prevOut, handling the
// two script shapes this library knows how to spend from: a P2PKH output
// gets a script_sig of [signature, SEC(pubkey)]; a P2WPKH output gets an
// empty script_sig and the same two items pushed as its witness stack
// instead. Any other previous-output shape (P2SH, P2WSH, bare P2PK, P2TR,
// ...) returns TxError{UnknownInputKind}: this library only produces
// signatures for the two most common standard output types, not arbitrary
// redeem logic.
func (tx *Tx) SignInput(i int, priv ecdsa.PrivateKey, prevOut TxOutput) error {
	if i < 0 || i >= len(tx.Inputs) {
		return txError(IndexOutOfRange, "sign input index %d out of range", i)
	}

	pubKeyBytes := curve.SECCompressed(priv.Point)

	if _, ok := txscript.IsP2PKH(prevOut.ScriptPubKey); ok {
		z, err := tx.LegacySigHash(i, SighashAll, prevOut.ScriptPubKey)
		if err != nil {
			return err
		}
		sig := priv.Sign(z[:])
		sigBytes := txscript.AppendSigHashType(sig.DER(), SighashAll)
		tx.Inputs[i].ScriptSig = txscript.NewScript(txscript.DataCmd(sigBytes), txscript.DataCmd(pubKeyBytes))
		return nil
	}

	if hash, ok := txscript.IsP2WPKH(prevOut.ScriptPubKey); ok {
		z, err := tx.WitnessV0SigHash(i, prevOut.Amount, synthesizeP2PKH(hash), SighashAll)
		if err != nil {
			return err
		}
		sig := priv.Sign(z[:])
		sigBytes := txscript.AppendSigHashType(sig.DER(), SighashAll)
		tx.Inputs[i].ScriptSig = txscript.Script{}
		tx.Inputs[i].Witness = [][]byte{sigBytes, pubKeyBytes}
		tx.Segwit = true
		return nil
	}

	return txError(UnknownInputKind, "cannot sign for previous output script type")
}
