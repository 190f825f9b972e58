// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Cross-validates this package's script serialization and P2PKH/P2SH
// recognizers against btcsuite's btcd/txscript, the reference engine. Same
// oracle pattern as curve/curve_oracle_test.go.
package txscript_test

import (
	"bytes"
	"testing"

	btcdtxscript "github.com/btcsuite/btcd/txscript"

	"github.com/toole-brendan/shell/txscript"
)

func TestP2PKHScriptMatchesBtcdTxscript(t *testing.T) {
	hash := make([]byte, 20)
	for i := range hash {
		hash[i] = byte(i + 1)
	}

	ours := txscript.NewScript(
		txscript.OpCmd(txscript.OP_DUP),
		txscript.OpCmd(txscript.OP_HASH160),
		txscript.DataCmd(hash),
		txscript.OpCmd(txscript.OP_EQUALVERIFY),
		txscript.OpCmd(txscript.OP_CHECKSIG),
	)
	ourBytes, err := ours.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	want, err := btcdtxscript.NewScriptBuilder().
		AddOp(btcdtxscript.OP_DUP).
		AddOp(btcdtxscript.OP_HASH160).
		AddData(hash).
		AddOp(btcdtxscript.OP_EQUALVERIFY).
		AddOp(btcdtxscript.OP_CHECKSIG).
		Script()
	if err != nil {
		t.Fatalf("btcd ScriptBuilder: %v", err)
	}

	if !bytes.Equal(ourBytes, want) {
		t.Fatalf("P2PKH script mismatch\n ours: %x\n want: %x", ourBytes, want)
	}

	gotHash, ok := txscript.IsP2PKH(ours)
	if !ok {
		t.Fatal("IsP2PKH should recognize a standard P2PKH scriptPubKey")
	}
	if !bytes.Equal(gotHash, hash) {
		t.Fatalf("IsP2PKH hash = %x, want %x", gotHash, hash)
	}

	scriptClass := btcdtxscript.GetScriptClass(want)
	if scriptClass != btcdtxscript.PubKeyHashTy {
		t.Fatalf("btcd classifies our P2PKH bytes as %s, want %s", scriptClass, btcdtxscript.PubKeyHashTy)
	}
}

func TestP2SHScriptMatchesBtcdTxscript(t *testing.T) {
	hash := make([]byte, 20)
	for i := range hash {
		hash[i] = byte(255 - i)
	}

	ours := txscript.NewScript(
		txscript.OpCmd(txscript.OP_HASH160),
		txscript.DataCmd(hash),
		txscript.OpCmd(txscript.OP_EQUAL),
	)
	ourBytes, err := ours.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	want, err := btcdtxscript.NewScriptBuilder().
		AddOp(btcdtxscript.OP_HASH160).
		AddData(hash).
		AddOp(btcdtxscript.OP_EQUAL).
		Script()
	if err != nil {
		t.Fatalf("btcd ScriptBuilder: %v", err)
	}

	if !bytes.Equal(ourBytes, want) {
		t.Fatalf("P2SH script mismatch\n ours: %x\n want: %x", ourBytes, want)
	}

	scriptClass := btcdtxscript.GetScriptClass(want)
	if scriptClass != btcdtxscript.ScriptHashTy {
		t.Fatalf("btcd classifies our P2SH bytes as %s, want %s", scriptClass, btcdtxscript.ScriptHashTy)
	}
	if _, ok := txscript.IsP2SH(ours); !ok {
		t.Fatal("IsP2SH should recognize a standard P2SH scriptPubKey")
	}
}
