// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaincfg defines network parameters (magic bytes, address
// prefixes, genesis block, proof-of-work limits, difficulty retarget
// constants) for mainnet and testnet3; simnet has only its magic value
// (SimNet) here, with no Params of its own. No BIP-9 voting deployment
// fields (full consensus validation is out of scope for this library), no
// BIP-32 HD key IDs (no HD wallet module exists here).
package chaincfg

import (
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/toole-brendan/shell/chaincfg/chainhash"
)

// BitcoinNet represents which Bitcoin network a message belongs to, carried
// in the p2p envelope's magic field.
type BitcoinNet uint32

// Network magic values, matching the real Bitcoin-family networks.
const (
	MainNet  BitcoinNet = 0xd9b4bef9
	TestNet3 BitcoinNet = 0x0709110b
	SimNet   BitcoinNet = 0x12141c16
)

var (
	bigOne = big.NewInt(1)

	// mainPowLimit is 2^224 - 1, the highest (easiest) proof-of-work target
	// permitted on mainnet and testnet3.
	mainPowLimit = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 224), bigOne)

	// regressionPowLimit is 2^255 - 1, used by regtest-like networks with no
	// effective difficulty floor.
	regressionPowLimit = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 255), bigOne)
)

// GenesisHeader holds the fixed fields of a network's first block header.
// Kept separate from blockchain.BlockHeader to avoid a chaincfig<->blockchain
// import cycle (blockchain.Params-consuming code constructs its own header
// type from these fields).
type GenesisHeader struct {
	Version    int32
	MerkleRoot chainhash.Hash
	Timestamp  time.Time
	Bits       uint32
	Nonce      uint32
}

// Checkpoint identifies a known-good block for fast validation skip.
type Checkpoint struct {
	Height int32
	Hash   *chainhash.Hash
}

// DNSSeed identifies a DNS seed used for peer discovery.
type DNSSeed struct {
	Host         string
	HasFiltering bool
}

func (d DNSSeed) String() string { return d.Host }

// Params defines a Bitcoin-family network by its consensus and encoding
// parameters.
type Params struct {
	Name        string
	Net         BitcoinNet
	DefaultPort string
	DNSSeeds    []DNSSeed

	GenesisHeader GenesisHeader
	GenesisHash   *chainhash.Hash

	PowLimit         *big.Int
	PowLimitBits     uint32
	PoWNoRetargeting bool

	BIP0034Height int32
	BIP0065Height int32
	BIP0066Height int32

	CoinbaseMaturity         uint16
	SubsidyReductionInterval int32
	TargetTimespan           time.Duration
	TargetTimePerBlock       time.Duration
	RetargetAdjustmentFactor int64
	ReduceMinDifficulty      bool
	MinDiffReductionTime     time.Duration

	Checkpoints []Checkpoint

	// Bech32HRPSegwit is the human-readable part for bech32/bech32m segwit
	// addresses (BIP-173/350), e.g. "bc" for mainnet, "tb" for testnet.
	Bech32HRPSegwit string

	PubKeyHashAddrID byte // version byte for P2PKH addresses
	ScriptHashAddrID byte // version byte for P2SH addresses
	PrivateKeyID     byte // version byte for WIF private keys
}

// MainNetParams are the parameters for Bitcoin's main network.
var MainNetParams = Params{
	Name:        "mainnet",
	Net:         MainNet,
	DefaultPort: "8333",
	DNSSeeds: []DNSSeed{
		{"seed.bitcoin.sipa.be", true},
		{"dnsseed.bluematt.me", true},
		{"dnsseed.bitcoin.dashjr.org", false},
		{"seed.bitcoinstats.com", true},
	},

	GenesisHeader: genesisHeaderMain,
	GenesisHash:   &genesisHashMain,

	PowLimit:         mainPowLimit,
	PowLimitBits:     0x1d00ffff,
	PoWNoRetargeting: false,

	BIP0034Height: 227931,
	BIP0065Height: 388381,
	BIP0066Height: 363725,

	CoinbaseMaturity:         100,
	SubsidyReductionInterval: 210000,
	TargetTimespan:           time.Hour * 24 * 14,
	TargetTimePerBlock:       time.Minute * 10,
	RetargetAdjustmentFactor: 4,
	ReduceMinDifficulty:      false,
	MinDiffReductionTime:     0,

	Bech32HRPSegwit: "bc",

	PubKeyHashAddrID: 0x00,
	ScriptHashAddrID: 0x05,
	PrivateKeyID:     0x80,
}

// TestNet3Params are the parameters for the public Bitcoin test network
// (version 3).
var TestNet3Params = Params{
	Name:        "testnet3",
	Net:         TestNet3,
	DefaultPort: "18333",
	DNSSeeds: []DNSSeed{
		{"testnet-seed.bitcoin.jonasschnelli.ch", true},
		{"seed.tbtc.petertodd.org", true},
	},

	GenesisHeader: genesisHeaderTest3,
	GenesisHash:   &genesisHashTest3,

	PowLimit:         mainPowLimit,
	PowLimitBits:     0x1d00ffff,
	PoWNoRetargeting: false,

	BIP0034Height: 21111,
	BIP0065Height: 581885,
	BIP0066Height: 330776,

	CoinbaseMaturity:         100,
	SubsidyReductionInterval: 210000,
	TargetTimespan:           time.Hour * 24 * 14,
	TargetTimePerBlock:       time.Minute * 10,
	RetargetAdjustmentFactor: 4,
	ReduceMinDifficulty:      true,
	MinDiffReductionTime:     time.Minute * 20,

	Bech32HRPSegwit: "tb",

	PubKeyHashAddrID: 0x6f,
	ScriptHashAddrID: 0xc4,
	PrivateKeyID:     0xef,
}

var (
	ErrDuplicateNet = errors.New("chaincfg: duplicate network")
)

var (
	registeredNets       = make(map[BitcoinNet]struct{})
	pubKeyHashAddrIDs    = make(map[byte]struct{})
	scriptHashAddrIDs    = make(map[byte]struct{})
	bech32SegwitPrefixes = make(map[string]struct{})
)

// Register makes a network's address-prefix metadata visible to
// IsPubKeyHashAddrID / IsScriptHashAddrID / IsBech32SegwitPrefix, the way a
// main package would register a custom network before using the addresses
// package against it.
func Register(params *Params) error {
	if _, ok := registeredNets[params.Net]; ok {
		return ErrDuplicateNet
	}
	registeredNets[params.Net] = struct{}{}
	pubKeyHashAddrIDs[params.PubKeyHashAddrID] = struct{}{}
	scriptHashAddrIDs[params.ScriptHashAddrID] = struct{}{}
	bech32SegwitPrefixes[strings.ToLower(params.Bech32HRPSegwit)+"1"] = struct{}{}
	return nil
}

func mustRegister(params *Params) {
	if err := Register(params); err != nil {
		panic("chaincfg: failed to register network: " + err.Error())
	}
}

// IsPubKeyHashAddrID reports whether id prefixes a P2PKH address on any
// registered network.
func IsPubKeyHashAddrID(id byte) bool {
	_, ok := pubKeyHashAddrIDs[id]
	return ok
}

// IsScriptHashAddrID reports whether id prefixes a P2SH address on any
// registered network.
func IsScriptHashAddrID(id byte) bool {
	_, ok := scriptHashAddrIDs[id]
	return ok
}

// IsBech32SegwitPrefix reports whether prefix (hrp + "1") is known.
func IsBech32SegwitPrefix(prefix string) bool {
	_, ok := bech32SegwitPrefixes[strings.ToLower(prefix)]
	return ok
}

func init() {
	mustRegister(&MainNetParams)
	mustRegister(&TestNet3Params)
}
