// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import "github.com/toole-brendan/shell/addresses"

// PayToAddrScript builds the standard script_pubkey paying to addr,
// following the same addr.AddrType() switch shape as btcd's txscript
// package of the same name.
func PayToAddrScript(addr addresses.Address) (Script, error) {
	switch addr.Type {
	case addresses.P2PKH:
		return NewScript(
			opCmd(OP_DUP), opCmd(OP_HASH160), dataCmd(addr.Payload),
			opCmd(OP_EQUALVERIFY), opCmd(OP_CHECKSIG),
		), nil

	case addresses.P2SH:
		return NewScript(opCmd(OP_HASH160), dataCmd(addr.Payload), opCmd(OP_EQUAL)), nil

	case addresses.WitnessV0:
		return NewScript(opCmd(OP_0), dataCmd(addr.Payload)), nil

	case addresses.WitnessV1:
		return NewScript(opCmd(OP_1), dataCmd(addr.Payload)), nil

	default:
		return Script{}, scriptError(ErrMalformedPush, "unsupported address type for script construction")
	}
}
