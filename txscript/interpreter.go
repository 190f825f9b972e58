// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"

	"github.com/toole-brendan/shell/chaincfg/chainhash"
	"github.com/toole-brendan/shell/curve"
	"github.com/toole-brendan/shell/ecdsa"
)

// interpreter runs a combined script_sig||script_pubkey command stream over
// an explicit operand stack, following the classic Script.evaluate shape:
// pop an opcode, dispatch it against the stack, and splice in P2SH/segwit
// sub-scripts as they're recognized along the way.
type interpreter struct {
	cmds    []Cmd
	stack   [][]byte
	witness [][]byte
	z       []byte
}

// Evaluate runs scriptSig followed by scriptPubKey against sighash z (the
// 32-byte digest OP_CHECKSIG/OP_CHECKMULTISIG verify against) and an
// optional witness stack, splicing in P2SH/P2WPKH/P2WSH sub-scripts as they
// are recognized. Returns true iff the final stack is non-empty and its top
// element is not the canonical zero.
func Evaluate(scriptSig, scriptPubKey Script, z []byte, witness [][]byte) (bool, error) {
	in := &interpreter{
		cmds:    append(append([]Cmd{}, scriptSig.Cmds...), scriptPubKey.Cmds...),
		witness: witness,
		z:       z,
	}

	for len(in.cmds) > 0 {
		cmd := in.cmds[0]
		in.cmds = in.cmds[1:]

		if cmd.IsData {
			in.stack = append(in.stack, cmd.Data)
		} else if cmd.Op == OP_0 {
			in.stack = append(in.stack, nil)
		} else {
			ok, err := in.execute(cmd.Op)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}

		failed, err := in.spliceEmbedded()
		if err != nil {
			return false, err
		}
		if failed {
			return false, nil
		}
	}

	if len(in.stack) == 0 {
		return false, nil
	}
	return isTruthy(in.stack[len(in.stack)-1]), nil
}

func (in *interpreter) pop() ([]byte, error) {
	if len(in.stack) == 0 {
		return nil, scriptError(ErrStackUnderflow, "pop on empty stack")
	}
	top := in.stack[len(in.stack)-1]
	in.stack = in.stack[:len(in.stack)-1]
	return top, nil
}

func (in *interpreter) push(b []byte) { in.stack = append(in.stack, b) }

// spliceEmbedded implements the three "after a push, peek for embedded
// patterns" cases: P2SH and the two native segwit program lengths. The
// returned bool reports whether the embedded check itself failed the
// script outright (a hash mismatch), as opposed to an error, which reports
// a malformed stream.
func (in *interpreter) spliceEmbedded() (failed bool, err error) {
	spliced, matched := in.spliceP2SH()
	if spliced {
		return !matched, nil
	}
	if err := in.spliceNativeSegwit(); err != nil {
		return false, err
	}
	return false, nil
}

// spliceP2SH consumes OP_HASH160 <20> OP_EQUAL from the remaining command
// stream when the just-pushed stack element is a redeem script, per BIP-16.
// This is the inlined HASH160/EQUAL/VERIFY: the redeem script raw bytes are
// popped (as HASH160 would pop them) and, on a hash match, its parsed
// commands are spliced into the stream to run against the now-uncovered
// stack (as VERIFY having consumed the boolean would leave it).
func (in *interpreter) spliceP2SH() (spliced, matched bool) {
	if len(in.stack) == 0 || len(in.cmds) < 3 {
		return false, false
	}
	c := in.cmds
	if c[0].IsData || c[0].Op != OP_HASH160 {
		return false, false
	}
	if !c[1].IsData || len(c[1].Data) != 20 {
		return false, false
	}
	if c[2].IsData || c[2].Op != OP_EQUAL {
		return false, false
	}

	redeemRaw := in.stack[len(in.stack)-1]
	in.stack = in.stack[:len(in.stack)-1]
	in.cmds = in.cmds[3:]

	if !bytes.Equal(chainhash.Hash160(redeemRaw), c[1].Data) {
		return true, false
	}

	redeemScript, err := ParseRaw(redeemRaw)
	if err != nil {
		in.cmds = nil
		return true, false
	}
	in.cmds = append(append([]Cmd{}, redeemScript.Cmds...), in.cmds...)
	return true, true
}

// spliceNativeSegwit implements the native P2WPKH/P2WSH cases: the stack's
// top two elements are an empty item (from OP_0) followed by a 20- or
// 32-byte witness program.
func (in *interpreter) spliceNativeSegwit() error {
	if len(in.stack) < 2 {
		return nil
	}
	top := in.stack[len(in.stack)-1]
	below := in.stack[len(in.stack)-2]
	if len(below) != 0 {
		return nil
	}

	switch len(top) {
	case 20:
		in.stack = in.stack[:len(in.stack)-2]
		witnessCmds := make([]Cmd, 0, len(in.witness))
		for _, item := range in.witness {
			witnessCmds = append(witnessCmds, dataCmd(item))
		}
		p2pkh := Script{Cmds: []Cmd{opCmd(OP_DUP), opCmd(OP_HASH160), dataCmd(top), opCmd(OP_EQUALVERIFY), opCmd(OP_CHECKSIG)}}
		in.cmds = append(append(witnessCmds, p2pkh.Cmds...), in.cmds...)
		return nil

	case 32:
		in.stack = in.stack[:len(in.stack)-2]
		if len(in.witness) == 0 {
			return scriptError(ErrScriptFailed, "P2WSH requires a non-empty witness")
		}
		witnessScriptRaw := in.witness[len(in.witness)-1]
		if !bytes.Equal(chainhash.HashB(witnessScriptRaw), top) {
			return scriptError(ErrScriptFailed, "witness script does not match P2WSH program")
		}
		witnessCmds := make([]Cmd, 0, len(in.witness)-1)
		for _, item := range in.witness[:len(in.witness)-1] {
			witnessCmds = append(witnessCmds, dataCmd(item))
		}
		witnessScript, err := ParseRaw(witnessScriptRaw)
		if err != nil {
			return scriptError(ErrMalformedPush, "parsing witness script: %v", err)
		}
		in.cmds = append(append(witnessCmds, witnessScript.Cmds...), in.cmds...)
		return nil

	default:
		return nil
	}
}

// execute dispatches a single opcode against the operand stack, over the
// supported opcode subset. Returns (false, nil) for an opcode that validly
// fails the script (e.g. OP_EQUALVERIFY/OP_VERIFY on a falsy value), and a
// non-nil error only for malformed input (stack underflow, an opcode
// outside the supported subset).
func (in *interpreter) execute(op byte) (bool, error) {
	if isSmallInt(op) {
		in.push(encodeNum(int64(smallIntValue(op))))
		return true, nil
	}

	switch op {
	case OP_DUP:
		top, err := in.pop()
		if err != nil {
			return false, err
		}
		in.push(top)
		in.push(top)
		return true, nil

	case OP_EQUAL:
		a, err := in.pop()
		if err != nil {
			return false, err
		}
		b, err := in.pop()
		if err != nil {
			return false, err
		}
		if bytes.Equal(a, b) {
			in.push([]byte{1})
		} else {
			in.push(nil)
		}
		return true, nil

	case OP_EQUALVERIFY:
		ok, err := in.execute(OP_EQUAL)
		if err != nil || !ok {
			return ok, err
		}
		return in.execute(OP_VERIFY)

	case OP_VERIFY:
		top, err := in.pop()
		if err != nil {
			return false, err
		}
		return isTruthy(top), nil

	case OP_RETURN:
		return false, nil

	case OP_ADD:
		a, err := in.pop()
		if err != nil {
			return false, err
		}
		b, err := in.pop()
		if err != nil {
			return false, err
		}
		in.push(encodeNum(decodeNum(a) + decodeNum(b)))
		return true, nil

	case OP_MUL:
		a, err := in.pop()
		if err != nil {
			return false, err
		}
		b, err := in.pop()
		if err != nil {
			return false, err
		}
		in.push(encodeNum(decodeNum(a) * decodeNum(b)))
		return true, nil

	case OP_HASH160:
		top, err := in.pop()
		if err != nil {
			return false, err
		}
		in.push(chainhash.Hash160(top))
		return true, nil

	case OP_HASH256:
		top, err := in.pop()
		if err != nil {
			return false, err
		}
		in.push(chainhash.DoubleHashB(top))
		return true, nil

	case OP_CHECKSIG:
		return in.opCheckSig()

	case OP_CHECKMULTISIG:
		return in.opCheckMultiSig()

	default:
		return false, scriptError(ErrUnknownOpcode, "%s (0x%02x)", opcodeName(op), op)
	}
}

// opCheckSig implements OP_CHECKSIG: pop pubkey then signature (whose
// trailing sighash-type byte verifyDERSignature drops), verify against z,
// and push the boolean result.
func (in *interpreter) opCheckSig() (bool, error) {
	pubKeyBytes, err := in.pop()
	if err != nil {
		return false, err
	}
	sigBytes, err := in.pop()
	if err != nil {
		return false, err
	}

	ok := verifyDERSignature(pubKeyBytes, sigBytes, in.z)
	if ok {
		in.push([]byte{1})
	} else {
		in.push(nil)
	}
	return true, nil
}

// opCheckMultiSig implements OP_CHECKMULTISIG over the classic
// m-of-n stack layout: n, pubkey_n..pubkey_1, m, sig_m..sig_1, dummy.
//
// When there are more required signatures than available public keys to
// check them against, this pushes the canonical empty-string false value
// rather than `1`. The extra dummy element below the signatures is still
// consumed, as in Bitcoin Script.
func (in *interpreter) opCheckMultiSig() (bool, error) {
	n, err := in.popSmallInt()
	if err != nil {
		return false, err
	}
	pubKeys := make([][]byte, n)
	for i := n - 1; i >= 0; i-- {
		pubKeys[i], err = in.pop()
		if err != nil {
			return false, err
		}
	}

	m, err := in.popSmallInt()
	if err != nil {
		return false, err
	}
	sigs := make([][]byte, m)
	for i := m - 1; i >= 0; i-- {
		sigs[i], err = in.pop()
		if err != nil {
			return false, err
		}
	}

	// The off-by-one dummy element OP_CHECKMULTISIG famously consumes.
	if _, err := in.pop(); err != nil {
		return false, err
	}

	if m > n {
		in.push(nil)
		return true, nil
	}

	pkIdx := 0
	matched := 0
	for _, sig := range sigs {
		for pkIdx < len(pubKeys) {
			candidate := pubKeys[pkIdx]
			pkIdx++
			if verifyDERSignature(candidate, sig, in.z) {
				matched++
				break
			}
		}
	}

	if matched == len(sigs) {
		in.push([]byte{1})
	} else {
		in.push(nil)
	}
	return true, nil
}

func (in *interpreter) popSmallInt() (int, error) {
	b, err := in.pop()
	if err != nil {
		return 0, err
	}
	return int(decodeNum(b)), nil
}

// verifyDERSignature parses a SEC pubkey and a DER signature (with its
// trailing sighash-type byte stripped) and checks it against z.
func verifyDERSignature(pubKeyBytes, sigBytes []byte, z []byte) bool {
	if len(sigBytes) == 0 {
		return false
	}
	derBytes := sigBytes[:len(sigBytes)-1] // drop the sighash-type byte

	pubKey, err := curve.ParseSEC(pubKeyBytes)
	if err != nil {
		return false
	}
	sig, err := ecdsa.ParseDER(derBytes)
	if err != nil {
		return false
	}
	return ecdsa.Verify(pubKey, z, sig)
}

// AppendSigHashType appends a sighash type byte to a DER signature, the
// inverse of the trim verifyDERSignature performs, used by a signer
// producing a script_sig (wire.SignInput).
func AppendSigHashType(der []byte, sigHashType uint32) []byte {
	return append(append([]byte{}, der...), byte(sigHashType))
}
