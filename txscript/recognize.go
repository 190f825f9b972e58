// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

// Recognizers pattern-match a parsed script_pubkey/script_sig against the
// standard output shapes (P2PKH, P2SH, P2WPKH, P2WSH, P2PK, P2TR). Each
// returns the payload bytes (hash or pubkey) on a match.

func IsP2PKH(s Script) (pubKeyHash []byte, ok bool) {
	c := s.Cmds
	if len(c) == 5 &&
		!c[0].IsData && c[0].Op == OP_DUP &&
		!c[1].IsData && c[1].Op == OP_HASH160 &&
		c[2].IsData && len(c[2].Data) == 20 &&
		!c[3].IsData && c[3].Op == OP_EQUALVERIFY &&
		!c[4].IsData && c[4].Op == OP_CHECKSIG {
		return c[2].Data, true
	}
	return nil, false
}

func IsP2SH(s Script) (scriptHash []byte, ok bool) {
	c := s.Cmds
	if len(c) == 3 &&
		!c[0].IsData && c[0].Op == OP_HASH160 &&
		c[1].IsData && len(c[1].Data) == 20 &&
		!c[2].IsData && c[2].Op == OP_EQUAL {
		return c[1].Data, true
	}
	return nil, false
}

func IsP2WPKH(s Script) (program []byte, ok bool) {
	c := s.Cmds
	if len(c) == 2 && !c[0].IsData && c[0].Op == OP_0 && c[1].IsData && len(c[1].Data) == 20 {
		return c[1].Data, true
	}
	return nil, false
}

func IsP2WSH(s Script) (program []byte, ok bool) {
	c := s.Cmds
	if len(c) == 2 && !c[0].IsData && c[0].Op == OP_0 && c[1].IsData && len(c[1].Data) == 32 {
		return c[1].Data, true
	}
	return nil, false
}

func IsP2PK(s Script) (pubKey []byte, ok bool) {
	c := s.Cmds
	if len(c) == 2 && c[0].IsData && (len(c[0].Data) == 33 || len(c[0].Data) == 65) &&
		!c[1].IsData && c[1].Op == OP_CHECKSIG {
		return c[0].Data, true
	}
	return nil, false
}

// IsP2TR recognizes a taproot output, OP_1 <32-byte-output-key>. Taproot
// spending (BIP-341/342 script-path and key-path validation) is out of
// scope here; the script is only recognized, never executed.
func IsP2TR(s Script) (outputKey []byte, ok bool) {
	c := s.Cmds
	if len(c) == 2 && !c[0].IsData && c[0].Op == OP_1 && c[1].IsData && len(c[1].Data) == 32 {
		return c[1].Data, true
	}
	return nil, false
}

// IsP2SHSig recognizes a P2SH signature-script shape OP_0 <sig> <pubkey>
// <redeem_script> (the classic multisig-in-P2SH wrapping).
func IsP2SHSig(s Script) (redeemScript []byte, ok bool) {
	c := s.Cmds
	if len(c) == 4 &&
		!c[0].IsData && c[0].Op == OP_0 &&
		c[1].IsData && c[2].IsData && c[3].IsData {
		return c[3].Data, true
	}
	return nil, false
}
