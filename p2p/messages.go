// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p2p

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/toole-brendan/shell/blockchain"
	"github.com/toole-brendan/shell/chaincfg/chainhash"
)

// Message is satisfied by every concrete message type this package frames:
// each exposes its command name and a serialize()/deserialize() pair.
type Message interface {
	Command() string
	Serialize(w io.Writer) error
	Deserialize(r io.Reader) error
}

// NetAddr is the fixed-width peer address embedded in a version message.
// Port is transmitted big-endian, everything else little-endian, matching
// the wider envelope convention.
type NetAddr struct {
	Services uint64
	IP       [16]byte
	Port     uint16
}

func (a *NetAddr) serialize(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, a.Services); err != nil {
		return err
	}
	if _, err := w.Write(a.IP[:]); err != nil {
		return err
	}
	return binary.Write(w, binary.BigEndian, a.Port)
}

func (a *NetAddr) deserialize(r io.Reader) error {
	if err := binary.Read(r, binary.LittleEndian, &a.Services); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, a.IP[:]); err != nil {
		return err
	}
	return binary.Read(r, binary.BigEndian, &a.Port)
}

// IPv4NetAddr maps a dotted-quad IPv4 address into NetAddr's IPv4-in-IPv6
// form, the shape a real peer expects in its version message.
func IPv4NetAddr(services uint64, a, b, c, d byte, port uint16) NetAddr {
	na := NetAddr{Services: services, Port: port}
	na.IP[10] = 0xff
	na.IP[11] = 0xff
	na.IP[12], na.IP[13], na.IP[14], na.IP[15] = a, b, c, d
	return na
}

// MsgVersion is the first message sent in the handshake.
type MsgVersion struct {
	ProtocolVersion int32
	Services        uint64
	Timestamp       time.Time
	AddrRecv        NetAddr
	AddrFrom        NetAddr
	Nonce           uint64
	UserAgent       string
	LastBlock       int32
	Relay           bool
}

func (m *MsgVersion) Command() string { return "version" }

func (m *MsgVersion) Serialize(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, m.ProtocolVersion); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, m.Services); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, m.Timestamp.Unix()); err != nil {
		return err
	}
	if err := m.AddrRecv.serialize(w); err != nil {
		return err
	}
	if err := m.AddrFrom.serialize(w); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, m.Nonce); err != nil {
		return err
	}
	if err := chainhash.WriteVarInt(w, uint64(len(m.UserAgent))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, m.UserAgent); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, m.LastBlock); err != nil {
		return err
	}
	relay := byte(0)
	if m.Relay {
		relay = 1
	}
	_, err := w.Write([]byte{relay})
	return err
}

func (m *MsgVersion) Deserialize(r io.Reader) error {
	if err := binary.Read(r, binary.LittleEndian, &m.ProtocolVersion); err != nil {
		return err
	}
	if err := binary.Read(r, binary.LittleEndian, &m.Services); err != nil {
		return err
	}
	var ts int64
	if err := binary.Read(r, binary.LittleEndian, &ts); err != nil {
		return err
	}
	m.Timestamp = time.Unix(ts, 0).UTC()
	if err := m.AddrRecv.deserialize(r); err != nil {
		return err
	}
	if err := m.AddrFrom.deserialize(r); err != nil {
		return err
	}
	if err := binary.Read(r, binary.LittleEndian, &m.Nonce); err != nil {
		return err
	}
	uaLen, err := chainhash.ReadVarInt(r)
	if err != nil {
		return err
	}
	ua := make([]byte, uaLen)
	if _, err := io.ReadFull(r, ua); err != nil {
		return err
	}
	m.UserAgent = string(ua)
	if err := binary.Read(r, binary.LittleEndian, &m.LastBlock); err != nil {
		return err
	}
	var relay [1]byte
	if _, err := io.ReadFull(r, relay[:]); err != nil {
		return err
	}
	m.Relay = relay[0] != 0
	return nil
}

// MsgVerAck is the empty acknowledgement that completes the handshake.
type MsgVerAck struct{}

func (m *MsgVerAck) Command() string              { return "verack" }
func (m *MsgVerAck) Serialize(w io.Writer) error   { return nil }
func (m *MsgVerAck) Deserialize(r io.Reader) error { return nil }

// MsgPing carries a nonce the peer must echo back in a pong.
type MsgPing struct {
	Nonce uint64
}

func (m *MsgPing) Command() string { return "ping" }

func (m *MsgPing) Serialize(w io.Writer) error {
	return binary.Write(w, binary.LittleEndian, m.Nonce)
}

func (m *MsgPing) Deserialize(r io.Reader) error {
	return binary.Read(r, binary.LittleEndian, &m.Nonce)
}

// MsgPong echoes the nonce from a MsgPing.
type MsgPong struct {
	Nonce uint64
}

func (m *MsgPong) Command() string { return "pong" }

func (m *MsgPong) Serialize(w io.Writer) error {
	return binary.Write(w, binary.LittleEndian, m.Nonce)
}

func (m *MsgPong) Deserialize(r io.Reader) error {
	return binary.Read(r, binary.LittleEndian, &m.Nonce)
}

// MsgGetHeaders requests headers starting after any hash in
// BlockLocatorHashes, up to HashStop (the zero hash means "as many as you
// can").
type MsgGetHeaders struct {
	Version            uint32
	BlockLocatorHashes []chainhash.Hash
	HashStop           chainhash.Hash
}

func (m *MsgGetHeaders) Command() string { return "getheaders" }

func (m *MsgGetHeaders) Serialize(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, m.Version); err != nil {
		return err
	}
	if err := chainhash.WriteVarInt(w, uint64(len(m.BlockLocatorHashes))); err != nil {
		return err
	}
	for _, h := range m.BlockLocatorHashes {
		if _, err := w.Write(h[:]); err != nil {
			return err
		}
	}
	_, err := w.Write(m.HashStop[:])
	return err
}

func (m *MsgGetHeaders) Deserialize(r io.Reader) error {
	if err := binary.Read(r, binary.LittleEndian, &m.Version); err != nil {
		return err
	}
	n, err := chainhash.ReadVarInt(r)
	if err != nil {
		return err
	}
	m.BlockLocatorHashes = make([]chainhash.Hash, n)
	for i := range m.BlockLocatorHashes {
		if _, err := io.ReadFull(r, m.BlockLocatorHashes[i][:]); err != nil {
			return err
		}
	}
	_, err = io.ReadFull(r, m.HashStop[:])
	return err
}

// MsgHeaders carries a batch of block headers, each followed by a
// transaction count that must be exactly zero on the wire.
type MsgHeaders struct {
	Headers []*blockchain.BlockHeader
}

func (m *MsgHeaders) Command() string { return "headers" }

func (m *MsgHeaders) Serialize(w io.Writer) error {
	if err := chainhash.WriteVarInt(w, uint64(len(m.Headers))); err != nil {
		return err
	}
	for _, h := range m.Headers {
		if err := h.Serialize(w); err != nil {
			return err
		}
		if err := chainhash.WriteVarInt(w, 0); err != nil {
			return err
		}
	}
	return nil
}

func (m *MsgHeaders) Deserialize(r io.Reader) error {
	n, err := chainhash.ReadVarInt(r)
	if err != nil {
		return err
	}
	m.Headers = make([]*blockchain.BlockHeader, n)
	for i := range m.Headers {
		h, err := blockchain.DeserializeHeader(r)
		if err != nil {
			return err
		}
		txCount, err := chainhash.ReadVarInt(r)
		if err != nil {
			return err
		}
		if txCount != 0 {
			return NetError{Kind: ErrInvalidHeadersMessage, Msg: fmt.Sprintf("header %d carries %d transactions", i, txCount)}
		}
		m.Headers[i] = h
	}
	return nil
}

// InvType identifies the kind of object an inventory vector names.
type InvType uint32

const (
	InvTx           InvType = 1
	InvBlock        InvType = 2
	InvWitnessTx    InvType = 0x40000001
	InvWitnessBlock InvType = 0x40000002
)

// InvVect is a single inventory vector entry: an object type and its hash.
type InvVect struct {
	Type InvType
	Hash chainhash.Hash
}

func (v *InvVect) serialize(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(v.Type)); err != nil {
		return err
	}
	_, err := w.Write(v.Hash[:])
	return err
}

func (v *InvVect) deserialize(r io.Reader) error {
	var t uint32
	if err := binary.Read(r, binary.LittleEndian, &t); err != nil {
		return err
	}
	v.Type = InvType(t)
	_, err := io.ReadFull(r, v.Hash[:])
	return err
}

func serializeInvList(w io.Writer, list []InvVect) error {
	if err := chainhash.WriteVarInt(w, uint64(len(list))); err != nil {
		return err
	}
	for i := range list {
		if err := list[i].serialize(w); err != nil {
			return err
		}
	}
	return nil
}

func deserializeInvList(r io.Reader) ([]InvVect, error) {
	n, err := chainhash.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	list := make([]InvVect, n)
	for i := range list {
		if err := list[i].deserialize(r); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// MsgGetData requests the full objects named by Inventory.
type MsgGetData struct {
	Inventory []InvVect
}

func (m *MsgGetData) Command() string            { return "getdata" }
func (m *MsgGetData) Serialize(w io.Writer) error { return serializeInvList(w, m.Inventory) }
func (m *MsgGetData) Deserialize(r io.Reader) error {
	list, err := deserializeInvList(r)
	m.Inventory = list
	return err
}

// MsgInv advertises objects a peer has available.
type MsgInv struct {
	Inventory []InvVect
}

func (m *MsgInv) Command() string            { return "inv" }
func (m *MsgInv) Serialize(w io.Writer) error { return serializeInvList(w, m.Inventory) }
func (m *MsgInv) Deserialize(r io.Reader) error {
	list, err := deserializeInvList(r)
	m.Inventory = list
	return err
}

// MsgBlock carries a full block: its header plus the transactions it
// commits to via the merkle root.
type MsgBlock struct {
	Block *blockchain.Block
}

func (m *MsgBlock) Command() string { return "block" }

func (m *MsgBlock) Serialize(w io.Writer) error {
	return m.Block.Serialize(w)
}

func (m *MsgBlock) Deserialize(r io.Reader) error {
	block, err := blockchain.DeserializeBlock(r)
	if err != nil {
		return err
	}
	m.Block = block
	return nil
}

// NewMessage constructs the zero value of the message type named by
// command, or an UnsupportedCommand NetError if command isn't recognized.
func NewMessage(command string) (Message, error) {
	switch command {
	case "version":
		return &MsgVersion{}, nil
	case "verack":
		return &MsgVerAck{}, nil
	case "ping":
		return &MsgPing{}, nil
	case "pong":
		return &MsgPong{}, nil
	case "getheaders":
		return &MsgGetHeaders{}, nil
	case "headers":
		return &MsgHeaders{}, nil
	case "getdata":
		return &MsgGetData{}, nil
	case "inv":
		return &MsgInv{}, nil
	case "block":
		return &MsgBlock{}, nil
	default:
		return nil, NetError{Kind: ErrUnsupportedCommand, Msg: command}
	}
}

// ParseMessage decodes an envelope's payload into its typed message,
// looking up the concrete type from envelope.Command.
func ParseMessage(envelope NetworkEnvelope) (Message, error) {
	msg, err := NewMessage(envelope.Command)
	if err != nil {
		return nil, err
	}
	if err := msg.Deserialize(bytes.NewReader(envelope.Payload)); err != nil {
		return nil, NetError{Kind: ErrMalformedPayload, Msg: fmt.Sprintf("parsing %s payload: %v", envelope.Command, err)}
	}
	return msg, nil
}
