// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "fmt"

// TxErrorKind classifies a TxError: one typed error family for every
// transaction codec/validation path, rather than bare errors.New, so
// callers can switch on Kind.
type TxErrorKind int

const (
	BadVarint TxErrorKind = iota
	BadSegwitMarker
	UnknownInputKind
	SigHashUnsupported
	IndexOutOfRange
	MissingWitness
	LookupFailed
)

var txErrorKindStrings = map[TxErrorKind]string{
	BadVarint:          "bad varint",
	BadSegwitMarker:    "bad segwit marker",
	UnknownInputKind:   "unrecognized previous output script type",
	SigHashUnsupported: "unsupported sighash type",
	IndexOutOfRange:    "index out of range",
	MissingWitness:     "missing witness",
	LookupFailed:       "previous transaction lookup failed",
}

func (k TxErrorKind) String() string {
	if s, ok := txErrorKindStrings[k]; ok {
		return s
	}
	return "unknown tx error kind"
}

// TxError is the typed error every transaction parsing, sighash, and
// verification path in this package returns: a transaction arrives over
// the wire or is looked up from an untrusted peer, so no bare error
// escapes this package on a path driven by that data. Failures inside
// script parsing or evaluation surface as txscript.ScriptError.
type TxError struct {
	Kind        TxErrorKind
	Description string
}

func (e TxError) Error() string {
	return fmt.Sprintf("wire: %s: %s", e.Kind, e.Description)
}

func txError(kind TxErrorKind, desc string, args ...interface{}) TxError {
	return TxError{Kind: kind, Description: fmt.Sprintf(desc, args...)}
}
