package sexp

import "strings"

// AtomKind distinguishes the three textual atom flavors.
type AtomKind uint8

const (
	// AtomSymbol is a bare identifier, e.g. `hostname`.
	AtomSymbol AtomKind = iota
	// AtomKeyword is a self-evaluating identifier written `#:name`.
	AtomKeyword
	// AtomString is a quote-delimited string, e.g. `"hello"`.
	AtomString
)

// String returns the kind name.
func (k AtomKind) String() string {
	switch k {
	case AtomSymbol:
		return "symbol"
	case AtomKeyword:
		return "keyword"
	case AtomString:
		return "string"
	default:
		return "unknown"
	}
}

// Atom is a symbol, keyword, or string. The text never includes the
// `#:` keyword marker or the surrounding string quotes.
type Atom struct {
	kind AtomKind
	text string
}

// NewSymbol returns a symbol atom.
func NewSymbol(text string) Atom { return Atom{kind: AtomSymbol, text: text} }

// NewKeyword returns a keyword atom. The `#:` marker must not be included.
func NewKeyword(text string) Atom { return Atom{kind: AtomKeyword, text: text} }

// NewString returns a string atom. The quotes must not be included.
func NewString(text string) Atom { return Atom{kind: AtomString, text: text} }

// DiscriminateAtom classifies raw token text: a `#:` prefix makes a
// keyword (marker stripped), quote characters at both ends make a
// string (quotes stripped), anything else is a symbol.
func DiscriminateAtom(raw string) Atom {
	if strings.HasPrefix(raw, "#:") {
		return NewKeyword(raw[2:])
	}
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		return NewString(raw[1 : len(raw)-1])
	}
	return NewSymbol(raw)
}

// Kind returns the atom kind.
func (a Atom) Kind() AtomKind { return a.kind }

// Text returns the atom payload without markers or quotes.
func (a Atom) Text() string { return a.text }

// IsSymbol reports whether the atom is a symbol.
func (a Atom) IsSymbol() bool { return a.kind == AtomSymbol }

// IsKeyword reports whether the atom is a keyword.
func (a Atom) IsKeyword() bool { return a.kind == AtomKeyword }

// IsString reports whether the atom is a string.
func (a Atom) IsString() bool { return a.kind == AtomString }

// Equal reports whether two atoms have the same kind and text.
func (a Atom) Equal(b Atom) bool { return a.kind == b.kind && a.text == b.text }

// String renders the atom in source form: keywords regain their `#:`
// marker and strings their quotes (without escaping).
func (a Atom) String() string {
	switch a.kind {
	case AtomKeyword:
		return "#:" + a.text
	case AtomString:
		return `"` + a.text + `"`
	default:
		return a.text
	}
}
