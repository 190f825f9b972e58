// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package peer implements an SPV node's single peer connection: connecting
// to a Bitcoin-family peer, running the version/verack handshake, and the
// wait-for loop that answers ping keepalives while a caller waits for a
// specific command.
package peer

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/btcsuite/btclog"
	"github.com/btcsuite/go-socks/socks"
	"github.com/davecgh/go-spew/spew"

	"github.com/toole-brendan/shell/blockchain"
	"github.com/toole-brendan/shell/chaincfg"
	"github.com/toole-brendan/shell/p2p"
)

// log is a logger that is initialized with no output filters. This means
// the package will not perform any logging by default until the caller
// requests it.
var log btclog.Logger

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// DisableLog disables all library log output. Logging output is disabled
// by default until UseLogger is called.
func DisableLog() {
	log = btclog.Disabled
}

func init() {
	DisableLog()
}

// Config holds the parameters Connect needs beyond host/port.
type Config struct {
	// Params selects the network magic the envelope framing uses.
	// Defaults to chaincfg.MainNetParams.
	Params *chaincfg.Params

	// Proxy, if non-nil, routes the TCP dial through a SOCKS5 proxy, the
	// usual way a full node reaches Tor-hidden-service peers.
	Proxy *socks.Proxy

	// DialTimeout bounds the initial TCP (or proxied) connect.
	DialTimeout time.Duration
}

// Node is one peer connection: a framed, serial byte stream plus the
// handshake and wait-for loops below. A Node serializes its own reads and
// writes; it shares no state with any other Node.
type Node struct {
	conn   net.Conn
	params *chaincfg.Params
}

// Connect opens a TCP connection to host:port, optionally through cfg's
// SOCKS5 proxy.
func Connect(ctx context.Context, host string, port uint16, cfg Config) (*Node, error) {
	params := cfg.Params
	if params == nil {
		params = &chaincfg.MainNetParams
	}
	addr := net.JoinHostPort(host, strconv.Itoa(int(port)))

	var conn net.Conn
	var err error
	if cfg.Proxy != nil {
		conn, err = cfg.Proxy.Dial("tcp", addr)
	} else {
		d := net.Dialer{Timeout: cfg.DialTimeout}
		conn, err = d.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("peer: connecting to %s: %w", addr, err)
	}

	log.Infof("connected to peer %s", addr)
	return &Node{conn: conn, params: params}, nil
}

// Close closes the underlying socket.
func (n *Node) Close() error {
	return n.conn.Close()
}

// withDeadline runs fn against n.conn honoring ctx's deadline and
// cancellation, so every suspension point (connect/send/read) is cancelable
// without implicitly closing the socket: cancellation only forces the
// in-flight read/write to unblock.
func (n *Node) withDeadline(ctx context.Context, fn func() error) error {
	if dl, ok := ctx.Deadline(); ok {
		if err := n.conn.SetDeadline(dl); err != nil {
			return err
		}
		defer n.conn.SetDeadline(time.Time{})
	}

	done := make(chan error, 1)
	go func() { done <- fn() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		n.conn.SetDeadline(time.Unix(0, 1))
		<-done
		return ctx.Err()
	}
}

// Send wraps msg in a NetworkEnvelope under this node's network magic and
// writes it to the socket.
func (n *Node) Send(ctx context.Context, msg p2p.Message) error {
	var buf bytes.Buffer
	if err := msg.Serialize(&buf); err != nil {
		return fmt.Errorf("peer: serializing %s: %w", msg.Command(), err)
	}
	envelope := p2p.NewEnvelope(n.params.Net, msg.Command(), buf.Bytes())

	err := n.withDeadline(ctx, func() error { return envelope.Serialize(n.conn) })
	if err != nil {
		return fmt.Errorf("peer: sending %s: %w", msg.Command(), err)
	}
	log.Debugf("sent %s (%d byte payload)", msg.Command(), buf.Len())
	return nil
}

// Read reads exactly one framed message: a 24-byte header followed by its
// payload.
func (n *Node) Read(ctx context.Context) (p2p.NetworkEnvelope, error) {
	var envelope p2p.NetworkEnvelope
	err := n.withDeadline(ctx, func() error {
		e, err := p2p.ReadEnvelope(n.conn)
		if err != nil {
			return err
		}
		envelope = e
		return nil
	})
	if err != nil {
		return p2p.NetworkEnvelope{}, err
	}

	if envelope.Magic != n.params.Net {
		return p2p.NetworkEnvelope{}, p2p.NetError{
			Kind: p2p.ErrBadMagic,
			Msg:  fmt.Sprintf("got %#x, want %#x", uint32(envelope.Magic), uint32(n.params.Net)),
		}
	}

	log.Debugf("received %s (%d byte payload)", envelope.Command, len(envelope.Payload))
	log.Tracef("envelope payload: %s", spew.Sdump(envelope.Payload))
	return envelope, nil
}

// HandshakeIdentity is the local side of the version message the handshake
// announces to the remote peer.
type HandshakeIdentity struct {
	Nonce     uint64
	UserAgent string
	LastBlock int32
	AddrMe    p2p.NetAddr
	AddrPeer  p2p.NetAddr
}

// Handshake sends a version message then loops until both a version and a
// verack have been received from the peer, answering pings with pongs and
// dropping every other message in between.
func (n *Node) Handshake(ctx context.Context, id HandshakeIdentity) error {
	version := &p2p.MsgVersion{
		ProtocolVersion: int32(p2p.ProtocolVersion),
		Services:        0,
		Timestamp:       time.Now(),
		AddrRecv:        id.AddrPeer,
		AddrFrom:        id.AddrMe,
		Nonce:           id.Nonce,
		UserAgent:       id.UserAgent,
		LastBlock:       id.LastBlock,
		Relay:           false,
	}
	if err := n.Send(ctx, version); err != nil {
		return err
	}

	var versionReceived, verackReceived bool
	for !versionReceived || !verackReceived {
		envelope, err := n.Read(ctx)
		if err != nil {
			return err
		}

		switch envelope.Command {
		case "version":
			versionReceived = true
			log.Debugf("handshake: version received")
		case "verack":
			verackReceived = true
			log.Debugf("handshake: verack received")
			if err := n.Send(ctx, &p2p.MsgVerAck{}); err != nil {
				return err
			}
		case "ping":
			if err := n.replyPong(ctx, envelope); err != nil {
				return err
			}
		default:
			log.Debugf("handshake: dropping %s", envelope.Command)
		}
	}
	return nil
}

func (n *Node) replyPong(ctx context.Context, envelope p2p.NetworkEnvelope) error {
	var ping p2p.MsgPing
	if err := ping.Deserialize(bytes.NewReader(envelope.Payload)); err != nil {
		return fmt.Errorf("peer: parsing ping: %w", err)
	}
	return n.Send(ctx, &p2p.MsgPong{Nonce: ping.Nonce})
}

// WaitFor loops reading messages, automatically replying to ping and
// silently dropping version/verack (unless waited for), until it reads a
// message whose command is in commands, which it returns.
func (n *Node) WaitFor(ctx context.Context, commands ...string) (p2p.NetworkEnvelope, error) {
	want := make(map[string]bool, len(commands))
	for _, c := range commands {
		want[c] = true
	}

	for {
		envelope, err := n.Read(ctx)
		if err != nil {
			return p2p.NetworkEnvelope{}, err
		}

		if envelope.Command == "ping" {
			if err := n.replyPong(ctx, envelope); err != nil {
				return p2p.NetworkEnvelope{}, err
			}
			if !want["ping"] {
				continue
			}
		}

		if want[envelope.Command] {
			return envelope, nil
		}
	}
}

// SyncHeaders drives getheaders/headers against the connected peer,
// accepting each returned header into store, until the peer reports fewer
// than 2000 headers in a single response, the same initial-block-download
// loop btcd-family SPV clients use, persisting accepted headers to store
// as it goes.
func (n *Node) SyncHeaders(ctx context.Context, store *blockchain.HeaderStore) error {
	const maxHeadersPerMessage = 2000

	for {
		locator, err := store.LocatorHashes()
		if err != nil {
			return fmt.Errorf("peer: building locator: %w", err)
		}

		getHeaders := &p2p.MsgGetHeaders{
			Version:            p2p.ProtocolVersion,
			BlockLocatorHashes: locator,
		}
		if err := n.Send(ctx, getHeaders); err != nil {
			return err
		}

		envelope, err := n.WaitFor(ctx, "headers")
		if err != nil {
			return err
		}

		var headers p2p.MsgHeaders
		if err := headers.Deserialize(bytes.NewReader(envelope.Payload)); err != nil {
			return fmt.Errorf("peer: parsing headers: %w", err)
		}
		if len(headers.Headers) == 0 {
			return nil
		}

		height := store.TipHeight() + 1
		for _, h := range headers.Headers {
			if ok, err := h.CheckProofOfWork(); err != nil {
				return fmt.Errorf("peer: checking proof of work at height %d: %w", height, err)
			} else if !ok {
				return fmt.Errorf("peer: header at height %d fails proof of work", height)
			}
			if err := store.Accept(height, h); err != nil {
				return err
			}
			height++
		}

		log.Infof("synced %d headers, tip now %d", len(headers.Headers), store.TipHeight())
		if len(headers.Headers) < maxHeadersPerMessage {
			return nil
		}
	}
}
