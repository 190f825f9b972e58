// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/toole-brendan/shell/chaincfg/chainhash"
	"github.com/toole-brendan/shell/curve"
	"github.com/toole-brendan/shell/ecdsa"
)

func TestScriptSerializeParseRoundTrip(t *testing.T) {
	s := NewScript(opCmd(OP_DUP), opCmd(OP_HASH160), dataCmd(bytes.Repeat([]byte{0x11}, 20)), opCmd(OP_EQUALVERIFY), opCmd(OP_CHECKSIG))
	serialized, err := s.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	parsed, err := Parse(bytes.NewReader(serialized))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(parsed.Cmds) != len(s.Cmds) {
		t.Fatalf("round trip cmd count = %d, want %d", len(parsed.Cmds), len(s.Cmds))
	}
}

func TestIsP2PKH(t *testing.T) {
	hash := bytes.Repeat([]byte{0x02}, 20)
	s := NewScript(opCmd(OP_DUP), opCmd(OP_HASH160), dataCmd(hash), opCmd(OP_EQUALVERIFY), opCmd(OP_CHECKSIG))
	got, ok := IsP2PKH(s)
	if !ok || !bytes.Equal(got, hash) {
		t.Fatalf("IsP2PKH failed to recognize a P2PKH script")
	}
}

func TestIsP2WPKH(t *testing.T) {
	hash := bytes.Repeat([]byte{0x03}, 20)
	s := NewScript(opCmd(OP_0), dataCmd(hash))
	got, ok := IsP2WPKH(s)
	if !ok || !bytes.Equal(got, hash) {
		t.Fatal("IsP2WPKH failed to recognize a P2WPKH script")
	}
}

func TestEncodeDecodeNum(t *testing.T) {
	cases := []int64{0, 1, -1, 127, 128, -128, 255, 256, -256, 1 << 20, -(1 << 20)}
	for _, n := range cases {
		if got := decodeNum(encodeNum(n)); got != n {
			t.Errorf("encodeNum/decodeNum(%d) round trip = %d", n, got)
		}
	}
}

func TestIsTruthy(t *testing.T) {
	cases := []struct {
		b    []byte
		want bool
	}{
		{nil, false},
		{[]byte{0}, false},
		{[]byte{0x80}, false}, // negative zero
		{[]byte{1}, true},
		{[]byte{0, 0, 1}, true},
	}
	for _, c := range cases {
		if got := isTruthy(c.b); got != c.want {
			t.Errorf("isTruthy(%x) = %v, want %v", c.b, got, c.want)
		}
	}
}

func testPrivKey() ecdsa.PrivateKey {
	return ecdsa.NewPrivateKey(big.NewInt(424242))
}

func TestEvaluateP2PKH(t *testing.T) {
	priv := testPrivKey()
	pubKeyBytes := curve.SECCompressed(priv.Point)
	pubKeyHash := chainhash.Hash160(pubKeyBytes)

	z := chainhash.DoubleHashB([]byte("a transaction to sign"))
	sig := priv.Sign(z)
	sigBytes := AppendSigHashType(sig.DER(), 1)

	scriptSig := NewScript(dataCmd(sigBytes), dataCmd(pubKeyBytes))
	scriptPubKey := NewScript(opCmd(OP_DUP), opCmd(OP_HASH160), dataCmd(pubKeyHash), opCmd(OP_EQUALVERIFY), opCmd(OP_CHECKSIG))

	ok, err := Evaluate(scriptSig, scriptPubKey, z, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !ok {
		t.Fatal("expected a valid P2PKH script to evaluate true")
	}
}

func TestEvaluateP2PKHWrongSignatureFails(t *testing.T) {
	priv := testPrivKey()
	other := ecdsa.NewPrivateKey(big.NewInt(99999))
	pubKeyBytes := curve.SECCompressed(priv.Point)
	pubKeyHash := chainhash.Hash160(pubKeyBytes)

	z := chainhash.DoubleHashB([]byte("a transaction to sign"))
	sig := other.Sign(z) // signed with the wrong key
	sigBytes := AppendSigHashType(sig.DER(), 1)

	scriptSig := NewScript(dataCmd(sigBytes), dataCmd(pubKeyBytes))
	scriptPubKey := NewScript(opCmd(OP_DUP), opCmd(OP_HASH160), dataCmd(pubKeyHash), opCmd(OP_EQUALVERIFY), opCmd(OP_CHECKSIG))

	ok, err := Evaluate(scriptSig, scriptPubKey, z, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if ok {
		t.Fatal("expected a script signed by the wrong key to fail")
	}
}

func TestEvaluateP2SH(t *testing.T) {
	priv := testPrivKey()
	pubKeyBytes := curve.SECCompressed(priv.Point)
	pubKeyHash := chainhash.Hash160(pubKeyBytes)

	redeem := NewScript(opCmd(OP_DUP), opCmd(OP_HASH160), dataCmd(pubKeyHash), opCmd(OP_EQUALVERIFY), opCmd(OP_CHECKSIG))
	redeemRaw, err := redeem.RawBytes()
	if err != nil {
		t.Fatalf("RawBytes: %v", err)
	}
	scriptHash := chainhash.Hash160(redeemRaw)

	z := chainhash.DoubleHashB([]byte("p2sh transaction"))
	sig := priv.Sign(z)
	sigBytes := AppendSigHashType(sig.DER(), 1)

	scriptSig := NewScript(dataCmd(sigBytes), dataCmd(pubKeyBytes), dataCmd(redeemRaw))
	scriptPubKey := NewScript(opCmd(OP_HASH160), dataCmd(scriptHash), opCmd(OP_EQUAL))

	ok, err := Evaluate(scriptSig, scriptPubKey, z, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !ok {
		t.Fatal("expected a valid P2SH script to evaluate true")
	}
}

func TestEvaluateP2WPKH(t *testing.T) {
	priv := testPrivKey()
	pubKeyBytes := curve.SECCompressed(priv.Point)
	pubKeyHash := chainhash.Hash160(pubKeyBytes)

	z := chainhash.DoubleHashB([]byte("segwit transaction"))
	sig := priv.Sign(z)
	sigBytes := AppendSigHashType(sig.DER(), 1)

	scriptPubKey := NewScript(opCmd(OP_0), dataCmd(pubKeyHash))
	witness := [][]byte{sigBytes, pubKeyBytes}

	ok, err := Evaluate(Script{}, scriptPubKey, z, witness)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !ok {
		t.Fatal("expected a valid P2WPKH script to evaluate true")
	}
}

func TestExtractCoinbaseHeight(t *testing.T) {
	scriptSig := NewScript(dataCmd([]byte{0x64, 0x00, 0x00})) // height 100, little-endian
	height, ok := ExtractCoinbaseHeight(scriptSig)
	if !ok || height != 100 {
		t.Fatalf("ExtractCoinbaseHeight = (%d, %v), want (100, true)", height, ok)
	}
}
