// Copyright (c) 2016-2017 The btcsuite developers
// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

// Version-bit constants from BIP-9. Only the one-shot bit tests below
// (bip9/bip91/bip141) are implemented, not the full threshold-activation
// state machine (LockedIn/Started/Active voting); that machinery requires
// tracking confirmation windows across a UTXO-aware full node, which full
// consensus validation is out of scope here.
const (
	// vbTopBits is the value that must occupy the top 3 bits of a block
	// version for it to be using the version-bits signaling scheme.
	vbTopBits = 0x20000000

	// vbTopMask isolates the top 3 bits of a block version.
	vbTopMask = 0xe0000000
)

// IsVersionBitsSignal reports whether version uses the BIP-9 signaling
// scheme (top 3 bits equal to 0b001) and has the given bit set.
func IsVersionBitsSignal(version int32, bit uint8) bool {
	v := uint32(version)
	if v&vbTopMask != vbTopBits {
		return false
	}
	return v&(1<<bit) != 0
}

// IsBIP9 reports whether version signals via the BIP-9 top-bits convention
// at all, independent of any particular bit.
func IsBIP9(version int32) bool {
	return uint32(version)&vbTopMask == vbTopBits
}

// IsBIP91 reports whether version signals readiness for the BIP-91
// (SegWit2x) soft fork, bit 4.
func IsBIP91(version int32) bool {
	return uint32(version)>>4&1 == 1
}

// IsBIP141 reports whether version signals readiness for the BIP-141
// (segregated witness) soft fork, bit 1.
func IsBIP141(version int32) bool {
	return uint32(version)>>1&1 == 1
}
