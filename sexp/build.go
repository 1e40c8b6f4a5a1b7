package sexp

import "fmt"

// V converts a Go scalar, Atom, Number, Sexp, or nil to a tree value.
// It panics on anything else; it exists for writing literals, and a
// literal of an unencodable type is a programming error. Use ToValue
// for data of unknown shape.
func V(x any) Sexp {
	switch x := x.(type) {
	case nil:
		return Nil()
	case Sexp:
		return x
	case Atom:
		return FromAtom(x)
	case Number:
		return Num(x)
	case bool:
		return Bool(x)
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint:
		return Uint(uint64(x))
	case uint8:
		return Uint(uint64(x))
	case uint16:
		return Uint(uint64(x))
	case uint32:
		return Uint(uint64(x))
	case uint64:
		return Uint(x)
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	case string:
		return Str(x)
	default:
		panic(fmt.Sprintf("sexp: V(%T) not supported", x))
	}
}

// ListOf builds a proper list, converting each item with V.
func ListOf(items ...any) Sexp {
	elems := make([]Sexp, len(items))
	for i, item := range items {
		elems[i] = V(item)
	}
	return List(elems...)
}

// PairOf builds the dotted pair `(car . cdr)`, converting with V.
func PairOf(car, cdr any) Sexp { return Pair(V(car), V(cdr)) }

// EntryOf builds the alist entry `(key . value)` with a symbol key,
// converting the value with V.
func EntryOf(key string, value any) Sexp { return NewEntry(key, V(value)) }

// AlistOf builds a keyed aggregate from entries made with EntryOf or
// PairOf.
func AlistOf(entries ...Sexp) Sexp { return List(entries...) }

// MustParse parses source text and panics on error. For literals in
// tests and fixtures.
func MustParse(s string) Sexp {
	v, err := ParseString(s)
	if err != nil {
		panic(fmt.Sprintf("sexp: MustParse(%q): %v", s, err))
	}
	return v
}
