// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package p2p implements the Bitcoin wire protocol envelope and the
// message set a headers-only SPV node needs: NetworkEnvelope framing and
// the version/verack/ping/pong/getheaders/headers/getdata/inv/block
// messages it exchanges with a full node.
package p2p

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/toole-brendan/shell/chaincfg"
	"github.com/toole-brendan/shell/chaincfg/chainhash"
)

// commandSize is the fixed width of a NetworkEnvelope's zero-padded ASCII
// command field.
const commandSize = 12

// ErrorKind classifies a NetworkEnvelope parse failure.
type ErrorKind int

const (
	ErrChecksumMismatch ErrorKind = iota
	ErrShortRead
	ErrInvalidHeadersMessage
	ErrBadMagic
	ErrBadCommand
	ErrUnsupportedCommand
	ErrMalformedPayload
)

func (k ErrorKind) String() string {
	switch k {
	case ErrChecksumMismatch:
		return "checksum mismatch"
	case ErrShortRead:
		return "short read"
	case ErrInvalidHeadersMessage:
		return "invalid headers message"
	case ErrBadMagic:
		return "bad magic"
	case ErrBadCommand:
		return "bad command"
	case ErrUnsupportedCommand:
		return "unsupported command"
	case ErrMalformedPayload:
		return "malformed payload"
	default:
		return "unknown p2p error"
	}
}

// NetError reports why reading or parsing a message failed.
type NetError struct {
	Kind ErrorKind
	Msg  string
}

func (e NetError) Error() string { return fmt.Sprintf("p2p: %s: %s", e.Kind, e.Msg) }

// NetworkEnvelope is the common framing every peer message travels in:
// a 4-byte magic, a 12-byte zero-padded command, a length, a checksum, and
// the command-specific payload.
type NetworkEnvelope struct {
	Magic   chaincfg.BitcoinNet
	Command string
	Payload []byte
}

// NewEnvelope builds an envelope carrying command and payload under net's
// magic.
func NewEnvelope(net chaincfg.BitcoinNet, command string, payload []byte) NetworkEnvelope {
	return NetworkEnvelope{Magic: net, Command: command, Payload: payload}
}

// Serialize writes the wire form: magic(4) || command(12) || length(4 LE)
// || checksum(4) || payload.
func (e NetworkEnvelope) Serialize(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(e.Magic)); err != nil {
		return err
	}

	var cmd [commandSize]byte
	copy(cmd[:], e.Command)
	if _, err := w.Write(cmd[:]); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(e.Payload))); err != nil {
		return err
	}
	checksum := chainhash.DoubleHashB(e.Payload)
	if _, err := w.Write(checksum[:4]); err != nil {
		return err
	}
	_, err := w.Write(e.Payload)
	return err
}

// ReadEnvelope reads exactly one framed message from r: a 24-byte header
// (magic, command, length, checksum) followed by length bytes of payload.
func ReadEnvelope(r io.Reader) (NetworkEnvelope, error) {
	var header [24]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return NetworkEnvelope{}, NetError{Kind: ErrShortRead, Msg: err.Error()}
	}

	magic := chaincfg.BitcoinNet(binary.LittleEndian.Uint32(header[0:4]))
	command := bytes.TrimRight(header[4:16], "\x00")
	length := binary.LittleEndian.Uint32(header[16:20])
	wantChecksum := header[20:24]

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return NetworkEnvelope{}, NetError{Kind: ErrShortRead, Msg: err.Error()}
	}

	gotChecksum := chainhash.DoubleHashB(payload)[:4]
	if !bytes.Equal(gotChecksum, wantChecksum) {
		return NetworkEnvelope{}, NetError{Kind: ErrChecksumMismatch, Msg: string(command)}
	}

	return NetworkEnvelope{Magic: magic, Command: string(command), Payload: payload}, nil
}
