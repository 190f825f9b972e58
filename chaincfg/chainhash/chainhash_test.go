// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainhash

import (
	"bytes"
	"testing"
)

func TestHashStringRoundTrip(t *testing.T) {
	h := HashH([]byte("hello"))
	s := h.String()

	parsed, err := NewHashFromStr(s)
	if err != nil {
		t.Fatalf("NewHashFromStr: %v", err)
	}
	if !parsed.IsEqual(h) {
		t.Fatal("hash string round trip changed the value")
	}
}

func TestDoubleHashIsSHA256Twice(t *testing.T) {
	msg := []byte("shell")
	want := HashB(HashB(msg))
	got := DoubleHashB(msg)
	if !bytes.Equal(want, got) {
		t.Fatal("DoubleHashB should equal SHA256(SHA256(msg))")
	}
}

func TestHash160Length(t *testing.T) {
	out := Hash160([]byte("pubkey bytes"))
	if len(out) != 20 {
		t.Fatalf("HASH160 should be 20 bytes, got %d", len(out))
	}
}

func TestHash160Deterministic(t *testing.T) {
	a := Hash160([]byte("same input"))
	b := Hash160([]byte("same input"))
	if !bytes.Equal(a, b) {
		t.Fatal("HASH160 should be deterministic")
	}
}

func TestVarIntRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 0xfc, 0xfd, 0xffff, 0x10000, 0xffffffff, 0x100000000, 1<<64 - 1}
	for _, v := range values {
		var buf bytes.Buffer
		if err := WriteVarInt(&buf, v); err != nil {
			t.Fatalf("WriteVarInt(%d): %v", v, err)
		}
		if buf.Len() != VarIntSerializeSize(v) {
			t.Fatalf("value %d: wrote %d bytes, want %d", v, buf.Len(), VarIntSerializeSize(v))
		}
		got, err := ReadVarInt(&buf)
		if err != nil {
			t.Fatalf("ReadVarInt(%d): %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip mismatch: wrote %d, read %d", v, got)
		}
	}
}

func TestReadVarIntTruncated(t *testing.T) {
	buf := bytes.NewReader([]byte{0xfd, 0x01})
	if _, err := ReadVarInt(buf); err == nil {
		t.Fatal("expected error reading truncated varint")
	}
}
