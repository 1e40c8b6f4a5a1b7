package sexp

import (
	"math"
	"strconv"
)

type numberKind uint8

const (
	numUint numberKind = iota
	numInt
	numFloat
)

// Number holds an s-expression numeric value in one of three internal
// forms: a non-negative integer (uint64), a negative integer (int64,
// always below zero), or a finite float64. Which form a decoded number
// takes depends only on its textual spelling and magnitude.
type Number struct {
	kind numberKind
	u    uint64
	i    int64
	f    float64
}

// NumberFromUint64 returns a Number holding u.
func NumberFromUint64(u uint64) Number { return Number{kind: numUint, u: u} }

// NumberFromInt64 returns a Number holding i. Non-negative values are
// stored in unsigned form.
func NumberFromInt64(i int64) Number {
	if i >= 0 {
		return Number{kind: numUint, u: uint64(i)}
	}
	return Number{kind: numInt, i: i}
}

// NumberFromFloat64 returns a Number holding f. NaN and infinities
// cannot be represented; for those ok is false.
func NumberFromFloat64(f float64) (n Number, ok bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Number{}, false
	}
	return Number{kind: numFloat, f: f}, true
}

// IsUint64 reports whether the number can be read back with AsUint64.
func (n Number) IsUint64() bool { return n.kind == numUint }

// IsInt64 reports whether the number can be read back with AsInt64.
func (n Number) IsInt64() bool {
	switch n.kind {
	case numInt:
		return true
	case numUint:
		return n.u <= math.MaxInt64
	default:
		return false
	}
}

// IsFloat64 reports whether the number is stored in floating form.
func (n Number) IsFloat64() bool { return n.kind == numFloat }

// AsUint64 returns the value as a uint64 if it is a non-negative integer.
func (n Number) AsUint64() (uint64, bool) {
	if n.kind == numUint {
		return n.u, true
	}
	return 0, false
}

// AsInt64 returns the value as an int64 if it is an integer in range.
func (n Number) AsInt64() (int64, bool) {
	switch n.kind {
	case numInt:
		return n.i, true
	case numUint:
		if n.u <= math.MaxInt64 {
			return int64(n.u), true
		}
	}
	return 0, false
}

// AsFloat64 returns the value as a float64. Integer forms are converted,
// which may lose precision above 2^53.
func (n Number) AsFloat64() (float64, bool) {
	switch n.kind {
	case numUint:
		return float64(n.u), true
	case numInt:
		return float64(n.i), true
	default:
		return n.f, true
	}
}

// Equal reports whether two numbers have the same form and value.
func (n Number) Equal(m Number) bool {
	if n.kind != m.kind {
		return false
	}
	switch n.kind {
	case numUint:
		return n.u == m.u
	case numInt:
		return n.i == m.i
	default:
		return n.f == m.f
	}
}

// String renders the number in source form: minimal decimal digits for
// integers, shortest round-tripping decimal (never exponent notation)
// for floats.
func (n Number) String() string {
	switch n.kind {
	case numUint:
		return strconv.FormatUint(n.u, 10)
	case numInt:
		return strconv.FormatInt(n.i, 10)
	default:
		s := strconv.FormatFloat(n.f, 'f', -1, 64)
		for i := 0; i < len(s); i++ {
			if s[i] == '.' {
				return s
			}
		}
		return s + ".0"
	}
}
