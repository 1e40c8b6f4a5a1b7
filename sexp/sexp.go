package sexp

import "fmt"

// Kind identifies the variant held by a Sexp.
type Kind uint8

const (
	// KindNil is the distinguished empty value, written `#nil`.
	KindNil Kind = iota
	// KindBoolean is `#t` or `#f`.
	KindBoolean
	// KindAtom is a symbol, keyword, or string.
	KindAtom
	// KindNumber is an integer or float.
	KindNumber
	// KindList is a proper parenthesized list, possibly empty.
	KindList
	// KindImproperList is a dotted list: zero or more elements
	// followed by a non-nil tail, e.g. `(a b . c)`.
	KindImproperList
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBoolean:
		return "boolean"
	case KindAtom:
		return "atom"
	case KindNumber:
		return "number"
	case KindList:
		return "list"
	case KindImproperList:
		return "improper list"
	default:
		return "unknown"
	}
}

// Sexp is a decoded s-expression value. The zero value is Nil.
type Sexp struct {
	kind Kind
	b    bool
	atom Atom
	num  Number
	list []Sexp
	tail *Sexp
}

// Nil returns the `#nil` value.
func Nil() Sexp { return Sexp{kind: KindNil} }

// Bool returns a boolean value.
func Bool(v bool) Sexp { return Sexp{kind: KindBoolean, b: v} }

// Int returns an integer number value.
func Int(v int64) Sexp { return Sexp{kind: KindNumber, num: NumberFromInt64(v)} }

// Uint returns a non-negative integer number value.
func Uint(v uint64) Sexp { return Sexp{kind: KindNumber, num: NumberFromUint64(v)} }

// Float returns a floating number value. NaN and infinities have no
// representation and collapse to Nil.
func Float(v float64) Sexp {
	n, ok := NumberFromFloat64(v)
	if !ok {
		return Nil()
	}
	return Sexp{kind: KindNumber, num: n}
}

// Num returns a number value.
func Num(n Number) Sexp { return Sexp{kind: KindNumber, num: n} }

// Symbol returns a symbol atom value.
func Symbol(text string) Sexp { return Sexp{kind: KindAtom, atom: NewSymbol(text)} }

// Keyword returns a keyword atom value.
func Keyword(text string) Sexp { return Sexp{kind: KindAtom, atom: NewKeyword(text)} }

// Str returns a string atom value.
func Str(text string) Sexp { return Sexp{kind: KindAtom, atom: NewString(text)} }

// FromAtom returns an atom value.
func FromAtom(a Atom) Sexp { return Sexp{kind: KindAtom, atom: a} }

// List returns a proper list of the given elements.
func List(elems ...Sexp) Sexp {
	return Sexp{kind: KindList, list: elems}
}

// NewImproperList returns a dotted list with the given elements and
// tail. A Nil tail yields a proper list, and an improper-list tail is
// spliced so the result stays in canonical form.
func NewImproperList(elems []Sexp, tail Sexp) Sexp {
	switch tail.kind {
	case KindNil:
		return List(elems...)
	case KindList:
		return List(append(elems, tail.list...)...)
	case KindImproperList:
		return NewImproperList(append(elems, tail.list...), *tail.tail)
	}
	t := tail
	return Sexp{kind: KindImproperList, list: elems, tail: &t}
}

// Pair returns the dotted pair `(car . cdr)`.
func Pair(car, cdr Sexp) Sexp { return NewImproperList([]Sexp{car}, cdr) }

// NewEntry returns the association-list entry `(key . value)` with a
// symbol key.
func NewEntry(key string, value Sexp) Sexp { return Pair(Symbol(key), value) }

// Kind returns which variant the value holds.
func (s Sexp) Kind() Kind { return s.kind }

// IsNil reports whether the value is `#nil`.
func (s Sexp) IsNil() bool { return s.kind == KindNil }

// AsBool returns the boolean payload.
func (s Sexp) AsBool() (bool, error) {
	if s.kind != KindBoolean {
		return false, fmt.Errorf("sexp: expected boolean, got %s", s.kind)
	}
	return s.b, nil
}

// AsAtom returns the atom payload.
func (s Sexp) AsAtom() (Atom, error) {
	if s.kind != KindAtom {
		return Atom{}, fmt.Errorf("sexp: expected atom, got %s", s.kind)
	}
	return s.atom, nil
}

// AsNumber returns the number payload.
func (s Sexp) AsNumber() (Number, error) {
	if s.kind != KindNumber {
		return Number{}, fmt.Errorf("sexp: expected number, got %s", s.kind)
	}
	return s.num, nil
}

// AsText returns the text of a string, symbol, or keyword atom.
func (s Sexp) AsText() (string, error) {
	if s.kind != KindAtom {
		return "", fmt.Errorf("sexp: expected atom, got %s", s.kind)
	}
	return s.atom.text, nil
}

// AsList returns the elements of a proper list.
func (s Sexp) AsList() ([]Sexp, error) {
	if s.kind != KindList {
		return nil, fmt.Errorf("sexp: expected list, got %s", s.kind)
	}
	return s.list, nil
}

// AsImproperList returns the elements and tail of a dotted list.
func (s Sexp) AsImproperList() ([]Sexp, Sexp, error) {
	if s.kind != KindImproperList {
		return nil, Sexp{}, fmt.Errorf("sexp: expected improper list, got %s", s.kind)
	}
	return s.list, *s.tail, nil
}

// Len returns the number of elements in a proper or improper list, not
// counting an improper tail. Non-lists have length zero.
func (s Sexp) Len() int { return len(s.list) }

// Index returns the i'th element of a proper or improper list.
func (s Sexp) Index(i int) (Sexp, error) {
	if s.kind != KindList && s.kind != KindImproperList {
		return Sexp{}, fmt.Errorf("sexp: expected list, got %s", s.kind)
	}
	if i < 0 || i >= len(s.list) {
		return Sexp{}, fmt.Errorf("sexp: index %d out of range (len %d)", i, len(s.list))
	}
	return s.list[i], nil
}

// Get looks up key in an association-list shaped value: a list whose
// elements are entries of the form `(key . value)` or `(key v1 v2 ...)`.
// For the dotted form the result is the single value; for the flat form
// it is the list of trailing values. Keys match against symbol, string,
// and keyword text.
func (s Sexp) Get(key string) (Sexp, bool) {
	if s.kind != KindList {
		return Sexp{}, false
	}
	for _, entry := range s.list {
		k, v, ok := entry.Entry()
		if ok && k.text == key {
			return v, true
		}
	}
	return Sexp{}, false
}

// Entry deconstructs an association-list entry. An improper list with a
// single atom head `(key . value)` yields that value; a proper list with
// an atom head `(key v1 v2 ...)` yields the list `(v1 v2 ...)`.
func (s Sexp) Entry() (key Atom, value Sexp, ok bool) {
	switch s.kind {
	case KindImproperList:
		if len(s.list) == 1 && s.list[0].kind == KindAtom {
			return s.list[0].atom, *s.tail, true
		}
	case KindList:
		if len(s.list) >= 1 && s.list[0].kind == KindAtom {
			return s.list[0].atom, List(s.list[1:]...), true
		}
	}
	return Atom{}, Sexp{}, false
}

// Equal reports deep structural equality.
func (s Sexp) Equal(o Sexp) bool {
	if s.kind != o.kind {
		return false
	}
	switch s.kind {
	case KindNil:
		return true
	case KindBoolean:
		return s.b == o.b
	case KindAtom:
		return s.atom.Equal(o.atom)
	case KindNumber:
		return s.num.Equal(o.num)
	case KindList, KindImproperList:
		if len(s.list) != len(o.list) {
			return false
		}
		for i := range s.list {
			if !s.list[i].Equal(o.list[i]) {
				return false
			}
		}
		if s.kind == KindImproperList {
			return s.tail.Equal(*o.tail)
		}
		return true
	}
	return false
}

// String renders the value in compact form.
func (s Sexp) String() string {
	out, err := MarshalString(s)
	if err != nil {
		return fmt.Sprintf("<error: %v>", err)
	}
	return out
}
