// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package base58

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{0x00},
		{0x00, 0x00, 0x01},
		[]byte("hello world"),
		{0xff, 0xff, 0xff, 0xff},
	}
	for _, c := range cases {
		enc := Encode(c)
		dec, err := Decode(enc)
		if err != nil {
			t.Fatalf("Decode(%x): %v", c, err)
		}
		if string(dec) != string(c) {
			t.Fatalf("round trip mismatch for %x: got %x", c, dec)
		}
	}
}

func TestEncodeKnownVector(t *testing.T) {
	// "hello world" in Base58 is a widely cited worked example.
	got := Encode([]byte("hello world"))
	want := "StV1DL6CwTryKyV"
	if got != want {
		t.Fatalf("Encode(hello world) = %q, want %q", got, want)
	}
}

func TestDecodeRejectsInvalidCharacter(t *testing.T) {
	if _, err := Decode("invalid0OIl"); err == nil {
		t.Fatal("expected error decoding characters outside the Base58 alphabet")
	}
}

func TestCheckEncodeDecodeRoundTrip(t *testing.T) {
	payload := []byte{0xde, 0xad, 0xbe, 0xef, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
		0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10}
	s := CheckEncode(payload, 0x00)

	got, version, err := CheckDecode(s)
	if err != nil {
		t.Fatalf("CheckDecode: %v", err)
	}
	if version != 0x00 {
		t.Fatalf("version = 0x%02x, want 0x00", version)
	}
	if string(got) != string(payload) {
		t.Fatalf("payload mismatch: got %x, want %x", got, payload)
	}
}

func TestCheckDecodeRejectsCorruptedChecksum(t *testing.T) {
	s := CheckEncode([]byte{1, 2, 3, 4}, 0x00)
	corrupted := s[:len(s)-1] + "9"
	if corrupted == s {
		corrupted = s[:len(s)-1] + "8"
	}
	if _, _, err := CheckDecode(corrupted); err == nil {
		t.Fatal("expected checksum mismatch error")
	}
}
