// Package sexp implements an s-expression text codec.
//
// The format is a small Lisp-style surface syntax:
//   - Constants: #nil, #t, #f
//   - Keywords:  #:name
//   - Symbols:   bare identifiers starting with a letter
//   - Strings:   "quoted, with \n-style and \u00XX escapes"
//   - Numbers:   integers and decimal floats (no exponent notation)
//   - Lists:     (a b c), possibly dotted: (a b . c)
//
// Keyed data uses association lists whose entries are `(key . value)`
// pairs; the flat form `(key v1 v2)` is equivalent to
// `(key . (v1 v2))`.
//
// # Decoding
//
// Unmarshal and Decoder bind input to native Go values the way
// encoding/json does, honoring `sexp:"name"` struct tags and the
// Unmarshaler interface. Parse builds the generic Sexp tree instead.
// Decoder also exposes shape-directed reads (ReadSeq, ReadAlist,
// ReadVariant) for types that want to drive parsing themselves.
//
// # Encoding
//
// Marshal writes compact canonical text; MarshalIndent writes an
// indented form that decodes to exactly the same values. Layout is
// pluggable through the Formatter interface.
//
// # Streaming
//
// StreamDecoder iterates whitespace-separated top-level values and
// reports a byte offset after each success, so decoding can resume
// from the unconsumed remainder of the input.
package sexp
