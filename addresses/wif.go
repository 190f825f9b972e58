// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addresses

import (
	"fmt"
	"math/big"

	"github.com/toole-brendan/shell/base58"
	"github.com/toole-brendan/shell/chaincfg"
	"github.com/toole-brendan/shell/curve"
	"github.com/toole-brendan/shell/ecdsa"
)

// compressedFlag is appended to a WIF payload to mark that the
// corresponding public key should be serialized in compressed SEC form.
const compressedFlag = 0x01

// EncodeWIF encodes a private key in Wallet Import Format: version byte ||
// 32-byte big-endian secret [|| 0x01 if compressed] with a Base58Check
// checksum.
func EncodeWIF(priv ecdsa.PrivateKey, params *chaincfg.Params, compressed bool) string {
	secretBytes := priv.Secret.FillBytes(make([]byte, 32))
	payload := secretBytes
	if compressed {
		payload = append(append([]byte{}, secretBytes...), compressedFlag)
	}
	return base58.CheckEncode(payload, params.PrivateKeyID)
}

// DecodeWIF reverses EncodeWIF, reporting whether the encoded key requests
// a compressed public key.
func DecodeWIF(wif string, params *chaincfg.Params) (priv ecdsa.PrivateKey, compressed bool, err error) {
	payload, version, err := base58.CheckDecode(wif)
	if err != nil {
		return ecdsa.PrivateKey{}, false, err
	}
	if version != params.PrivateKeyID {
		return ecdsa.PrivateKey{}, false, fmt.Errorf("addresses: WIF version byte 0x%02x does not match network %s", version, params.Name)
	}
	switch len(payload) {
	case 32:
		compressed = false
	case 33:
		if payload[32] != compressedFlag {
			return ecdsa.PrivateKey{}, false, fmt.Errorf("addresses: unrecognized WIF compression flag 0x%02x", payload[32])
		}
		compressed = true
		payload = payload[:32]
	default:
		return ecdsa.PrivateKey{}, false, fmt.Errorf("addresses: WIF payload must be 32 or 33 bytes, got %d", len(payload))
	}

	secret := new(big.Int).SetBytes(payload)
	if secret.Sign() <= 0 || secret.Cmp(curve.N) >= 0 {
		return ecdsa.PrivateKey{}, false, fmt.Errorf("addresses: WIF secret out of range")
	}
	return ecdsa.NewPrivateKey(secret), compressed, nil
}
