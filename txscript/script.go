// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/toole-brendan/shell/chaincfg/chainhash"
)

// Cmd is one parsed script command: either a data push (IsData true, Data
// set) or a single-byte opcode (Op set).
type Cmd struct {
	IsData bool
	Data   []byte
	Op     byte
}

func dataCmd(d []byte) Cmd { return Cmd{IsData: true, Data: d} }
func opCmd(op byte) Cmd    { return Cmd{Op: op} }

// Script is an ordered list of parsed commands, script_sig or script_pubkey.
type Script struct {
	Cmds []Cmd
}

// Parse reads a varint-prefixed serialized script (as embedded in a
// transaction) into a Script.
func Parse(r io.Reader) (Script, error) {
	length, err := chainhash.ReadVarInt(r)
	if err != nil {
		return Script{}, scriptError(ErrMalformedPush, "reading script length: %v", err)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Script{}, scriptError(ErrMalformedPush, "reading script body: %v", err)
	}
	return ParseRaw(buf)
}

// ParseRaw parses a raw (length-prefix already stripped) script body into
// its commands.
func ParseRaw(body []byte) (Script, error) {
	var cmds []Cmd
	i := 0
	for i < len(body) {
		b := body[i]
		i++
		switch {
		case b >= 1 && b <= 75:
			if i+int(b) > len(body) {
				return Script{}, scriptError(ErrMalformedPush, "push of %d bytes overruns script", b)
			}
			cmds = append(cmds, dataCmd(body[i:i+int(b)]))
			i += int(b)

		case b == OP_PUSHDATA1:
			if i+1 > len(body) {
				return Script{}, scriptError(ErrMalformedPush, "truncated OP_PUSHDATA1 length")
			}
			n := int(body[i])
			i++
			if i+n > len(body) {
				return Script{}, scriptError(ErrMalformedPush, "OP_PUSHDATA1 of %d bytes overruns script", n)
			}
			cmds = append(cmds, dataCmd(body[i:i+n]))
			i += n

		case b == OP_PUSHDATA2:
			if i+2 > len(body) {
				return Script{}, scriptError(ErrMalformedPush, "truncated OP_PUSHDATA2 length")
			}
			n := int(binary.LittleEndian.Uint16(body[i : i+2]))
			i += 2
			if i+n > len(body) {
				return Script{}, scriptError(ErrMalformedPush, "OP_PUSHDATA2 of %d bytes overruns script", n)
			}
			cmds = append(cmds, dataCmd(body[i:i+n]))
			i += n

		default:
			cmds = append(cmds, opCmd(b))
		}
	}
	return Script{Cmds: cmds}, nil
}

// RawBytes serializes the script's commands without the outer varint
// length prefix (used when splicing a redeem/witness script's raw form
// into a running interpreter, and when hashing scriptCode for OP_CHECKSIG).
func (s Script) RawBytes() ([]byte, error) {
	var buf bytes.Buffer
	for _, cmd := range s.Cmds {
		if !cmd.IsData {
			buf.WriteByte(cmd.Op)
			continue
		}
		n := len(cmd.Data)
		switch {
		case n <= 75:
			buf.WriteByte(byte(n))
		case n <= 255:
			buf.WriteByte(OP_PUSHDATA1)
			buf.WriteByte(byte(n))
		case n <= 65535:
			buf.WriteByte(OP_PUSHDATA2)
			var lenBuf [2]byte
			binary.LittleEndian.PutUint16(lenBuf[:], uint16(n))
			buf.Write(lenBuf[:])
		default:
			return nil, scriptError(ErrMalformedPush, "data push of %d bytes has no encoding", n)
		}
		buf.Write(cmd.Data)
	}
	return buf.Bytes(), nil
}

// Serialize renders the script with its varint length prefix, the form
// stored inside a transaction.
func (s Script) Serialize() ([]byte, error) {
	raw, err := s.RawBytes()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := chainhash.WriteVarInt(&buf, uint64(len(raw))); err != nil {
		return nil, scriptError(ErrMalformedPush, "writing script length: %v", err)
	}
	buf.Write(raw)
	return buf.Bytes(), nil
}

// Add returns a copy of s with cmds appended, for building scripts
// fluently; s itself is not modified.
func (s Script) Add(cmds ...Cmd) Script {
	s.Cmds = append(append([]Cmd{}, s.Cmds...), cmds...)
	return s
}

// NewScript builds a Script directly from commands.
func NewScript(cmds ...Cmd) Script { return Script{Cmds: cmds} }

// DataCmd and OpCmd are exported constructors for callers assembling
// scripts outside this package (addresses, wire).
func DataCmd(d []byte) Cmd { return dataCmd(d) }
func OpCmd(op byte) Cmd    { return opCmd(op) }

// ExtractCoinbaseHeight reads the BIP-34 height a coinbase's script_sig
// encodes in its first push, when present. The first script command is
// parsed with the usual rules; if it is a 1-4 byte data push, its
// little-endian value is the height.
func ExtractCoinbaseHeight(scriptSig Script) (height uint32, ok bool) {
	if len(scriptSig.Cmds) == 0 {
		return 0, false
	}
	first := scriptSig.Cmds[0]
	if !first.IsData || len(first.Data) == 0 || len(first.Data) > 4 {
		return 0, false
	}
	var padded [4]byte
	copy(padded[:], first.Data)
	return binary.LittleEndian.Uint32(padded[:]), true
}
