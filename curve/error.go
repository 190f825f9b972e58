// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package curve

import "fmt"

// EncodingKind classifies an EncodingError: one typed error family for every
// fixed-width point/signature encoding this module parses from untrusted
// bytes, rather than bare errors.New, so callers can switch on Kind.
type EncodingKind int

const (
	InvalidSECPrefix EncodingKind = iota
	InvalidSECLength
	InvalidSECCoordinate
	PointNotOnCurve
	InvalidDER
)

var encodingKindStrings = map[EncodingKind]string{
	InvalidSECPrefix:     "invalid SEC prefix",
	InvalidSECLength:     "invalid SEC length",
	InvalidSECCoordinate: "SEC coordinate out of field range",
	PointNotOnCurve:      "point not on curve",
	InvalidDER:           "invalid DER signature",
}

func (k EncodingKind) String() string {
	if s, ok := encodingKindStrings[k]; ok {
		return s
	}
	return "unknown encoding error kind"
}

// EncodingError is the typed error every SEC/DER parsing path in this module
// returns: a byte string lifted straight from a script_sig or pubkey push is
// adversarial input, so no bare error escapes the parser on that path.
type EncodingError struct {
	Kind        EncodingKind
	Description string
}

func (e EncodingError) Error() string {
	return fmt.Sprintf("curve: %s: %s", e.Kind, e.Description)
}

func encodingError(kind EncodingKind, desc string, args ...interface{}) EncodingError {
	return EncodingError{Kind: kind, Description: fmt.Sprintf(desc, args...)}
}
