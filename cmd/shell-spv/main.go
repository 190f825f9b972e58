// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command shell-spv is a minimal SPV demo: it connects to one peer,
// performs the version/verack handshake, syncs block headers into a local
// store, and then idles waiting for inv messages unless --synconly is set.
// It exists only to exercise the core library end to end.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/btcsuite/go-socks/socks"

	"github.com/toole-brendan/shell/blockchain"
	"github.com/toole-brendan/shell/chaincfg"
	"github.com/toole-brendan/shell/chaincfg/chainhash"
	"github.com/toole-brendan/shell/p2p"
	"github.com/toole-brendan/shell/peer"
)

const userAgent = "/shell-spv:0.1.0/"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "shell-spv:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := initLogRotator(cfg.logFile()); err != nil {
		return err
	}
	setLogLevel("all", cfg.DebugLevel)

	host, portStr, err := net.SplitHostPort(cfg.Peer)
	if err != nil {
		return fmt.Errorf("invalid --peer %q: %w", cfg.Peer, err)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return fmt.Errorf("invalid --peer port %q: %w", portStr, err)
	}

	params := &chaincfg.MainNetParams
	if cfg.TestNet {
		params = &chaincfg.TestNet3Params
	}

	nodeCfg := peer.Config{
		Params:      params,
		DialTimeout: 15 * time.Second,
	}
	if cfg.ProxyAddr != "" {
		nodeCfg.Proxy = &socks.Proxy{
			Addr:     cfg.ProxyAddr,
			Username: cfg.ProxyUser,
			Password: cfg.ProxyPass,
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	node, err := peer.Connect(ctx, host, uint16(port), nodeCfg)
	if err != nil {
		return err
	}
	defer node.Close()

	defaultPort, err := strconv.ParseUint(params.DefaultPort, 10, 16)
	if err != nil {
		return fmt.Errorf("invalid default port %q in network params: %w", params.DefaultPort, err)
	}

	identity := peer.HandshakeIdentity{
		Nonce:     rand.Uint64(),
		UserAgent: userAgent,
		LastBlock: 0,
		AddrMe:    p2p.IPv4NetAddr(0, 0, 0, 0, 0, uint16(defaultPort)),
		AddrPeer:  p2p.IPv4NetAddr(0, 127, 0, 0, 1, uint16(port)),
	}
	if err := node.Handshake(ctx, identity); err != nil {
		return fmt.Errorf("handshake: %w", err)
	}
	log.Infof("handshake complete with %s", cfg.Peer)

	store, err := blockchain.OpenHeaderStore(cfg.headerStoreDir())
	if err != nil {
		return err
	}
	defer store.Close()

	if store.TipHeight() < 0 {
		genesis := params.GenesisHeader
		if err := store.Accept(0, genesisBlockHeader(genesis)); err != nil {
			return err
		}
	}

	syncCtx, syncCancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer syncCancel()
	if err := node.SyncHeaders(syncCtx, store); err != nil {
		return fmt.Errorf("header sync: %w", err)
	}
	log.Infof("header sync complete, tip height %d, tip hash %s", store.TipHeight(), store.TipHash())

	if cfg.SyncOnly {
		return nil
	}

	idleCtx, idleCancel := context.WithCancel(context.Background())
	defer idleCancel()
	for {
		if _, err := node.WaitFor(idleCtx, "inv"); err != nil {
			return err
		}
	}
}

func genesisBlockHeader(g chaincfg.GenesisHeader) *blockchain.BlockHeader {
	return &blockchain.BlockHeader{
		Version:    g.Version,
		PrevBlock:  chainhash.Hash{},
		MerkleRoot: g.MerkleRoot,
		Timestamp:  g.Timestamp,
		Bits:       g.Bits,
		Nonce:      g.Nonce,
	}
}
