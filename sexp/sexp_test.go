package sexp

import (
	"math"
	"testing"
)

// ============================================================
// Atom Tests
// ============================================================

func TestDiscriminateAtom(t *testing.T) {
	tests := []struct {
		raw  string
		kind AtomKind
		text string
	}{
		{"#:key", AtomKeyword, "key"},
		{`"quoted"`, AtomString, "quoted"},
		{"plain", AtomSymbol, "plain"},
		{"#notakeyword", AtomSymbol, "#notakeyword"},
		{`"unterminated`, AtomSymbol, `"unterminated`},
		{"#:", AtomKeyword, ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			a := DiscriminateAtom(tt.raw)
			if a.Kind() != tt.kind {
				t.Fatalf("kind: expected %s, got %s", tt.kind, a.Kind())
			}
			if a.Text() != tt.text {
				t.Errorf("text: expected %q, got %q", tt.text, a.Text())
			}
		})
	}
}

func TestAtomString(t *testing.T) {
	if got := NewKeyword("k").String(); got != "#:k" {
		t.Errorf("keyword: got %q", got)
	}
	if got := NewString("s").String(); got != `"s"` {
		t.Errorf("string: got %q", got)
	}
	if got := NewSymbol("sym").String(); got != "sym" {
		t.Errorf("symbol: got %q", got)
	}
}

// ============================================================
// Number Tests
// ============================================================

func TestNumberForms(t *testing.T) {
	n := NumberFromUint64(math.MaxUint64)
	if !n.IsUint64() || n.IsInt64() || n.IsFloat64() {
		t.Fatalf("MaxUint64 form wrong")
	}
	if _, ok := n.AsInt64(); ok {
		t.Errorf("MaxUint64 should not read as int64")
	}

	n = NumberFromInt64(-5)
	if !n.IsInt64() || n.IsUint64() {
		t.Fatalf("-5 form wrong")
	}
	if i, ok := n.AsInt64(); !ok || i != -5 {
		t.Errorf("AsInt64: got %d, %v", i, ok)
	}
	if _, ok := n.AsUint64(); ok {
		t.Errorf("-5 should not read as uint64")
	}

	// Non-negative int64 values store unsigned.
	n = NumberFromInt64(7)
	if u, ok := n.AsUint64(); !ok || u != 7 {
		t.Errorf("AsUint64: got %d, %v", u, ok)
	}

	if _, ok := NumberFromFloat64(math.NaN()); ok {
		t.Errorf("NaN should not construct")
	}
	if _, ok := NumberFromFloat64(math.Inf(1)); ok {
		t.Errorf("+Inf should not construct")
	}
	if f, ok := NumberFromFloat64(2.5); !ok {
		t.Fatalf("2.5 should construct")
	} else if v, _ := f.AsFloat64(); v != 2.5 {
		t.Errorf("AsFloat64: got %v", v)
	}
}

func TestNumberString(t *testing.T) {
	tests := []struct {
		n    Number
		want string
	}{
		{NumberFromUint64(0), "0"},
		{NumberFromUint64(math.MaxUint64), "18446744073709551615"},
		{NumberFromInt64(-42), "-42"},
		{mustFloat(3.0), "3.0"},
		{mustFloat(0.5), "0.5"},
		{mustFloat(-1.25), "-1.25"},
	}
	for _, tt := range tests {
		if got := tt.n.String(); got != tt.want {
			t.Errorf("String(): expected %q, got %q", tt.want, got)
		}
	}
}

func mustFloat(f float64) Number {
	n, ok := NumberFromFloat64(f)
	if !ok {
		panic("not finite")
	}
	return n
}

// ============================================================
// Value Tests
// ============================================================

func TestSexpAccessors(t *testing.T) {
	if !Nil().IsNil() {
		t.Fatalf("Nil not nil")
	}
	var zero Sexp
	if !zero.IsNil() {
		t.Fatalf("zero value should be nil")
	}

	b, err := Bool(true).AsBool()
	if err != nil || !b {
		t.Fatalf("AsBool: %v %v", b, err)
	}
	if _, err := Bool(true).AsList(); err == nil {
		t.Errorf("AsList on boolean should fail")
	}

	l := List(Symbol("a"), Uint(1))
	elems, err := l.AsList()
	if err != nil || len(elems) != 2 {
		t.Fatalf("AsList: %v %v", elems, err)
	}
	e, err := l.Index(1)
	if err != nil || !e.Equal(Uint(1)) {
		t.Fatalf("Index: %v %v", e, err)
	}
	if _, err := l.Index(5); err == nil {
		t.Errorf("Index out of range should fail")
	}
}

func TestImproperListNormalization(t *testing.T) {
	// A nil tail makes a proper list, and list tails splice.
	if v := NewImproperList([]Sexp{Symbol("a")}, Nil()); v.Kind() != KindList {
		t.Errorf("nil tail: got %s", v.Kind())
	}
	v := Pair(Symbol("a"), List(Symbol("b"), Symbol("c")))
	if !v.Equal(List(Symbol("a"), Symbol("b"), Symbol("c"))) {
		t.Errorf("list tail should splice, got %s", v)
	}
	v = Pair(Symbol("a"), Symbol("b"))
	if v.Kind() != KindImproperList {
		t.Fatalf("pair kind: got %s", v.Kind())
	}
	elems, tail, err := v.AsImproperList()
	if err != nil || len(elems) != 1 || !tail.Equal(Symbol("b")) {
		t.Fatalf("AsImproperList: %v %v %v", elems, tail, err)
	}
}

func TestGet(t *testing.T) {
	v := MustParse(`((a . 1) (b 2 3) ("c" . "x"))`)

	one, ok := v.Get("a")
	if !ok || !one.Equal(Uint(1)) {
		t.Errorf("Get a: %v %v", one, ok)
	}
	two, ok := v.Get("b")
	if !ok || !two.Equal(List(Uint(2), Uint(3))) {
		t.Errorf("Get b: %v %v", two, ok)
	}
	three, ok := v.Get("c")
	if !ok || !three.Equal(Str("x")) {
		t.Errorf("Get c: %v %v", three, ok)
	}
	if _, ok := v.Get("missing"); ok {
		t.Errorf("Get missing should fail")
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		a, b  Sexp
		equal bool
	}{
		{Nil(), Nil(), true},
		{Nil(), Bool(false), false},
		{Str("a"), Symbol("a"), false},
		{Uint(1), Int(1), true},
		{Int(-1), Float(-1), false},
		{List(Uint(1)), List(Uint(1)), true},
		{List(Uint(1)), List(Uint(2)), false},
		{Pair(Symbol("a"), Uint(1)), Pair(Symbol("a"), Uint(1)), true},
		{Pair(Symbol("a"), Uint(1)), List(Symbol("a"), Uint(1)), false},
	}
	for _, tt := range tests {
		if got := tt.a.Equal(tt.b); got != tt.equal {
			t.Errorf("%s == %s: expected %v, got %v", tt.a, tt.b, tt.equal, got)
		}
	}
}

func TestBuilders(t *testing.T) {
	v := ListOf(1, "two", true, nil)
	want := List(Int(1), Str("two"), Bool(true), Nil())
	if !v.Equal(want) {
		t.Fatalf("ListOf: got %s", v)
	}

	entry := EntryOf("name", "ada")
	if !entry.Equal(MustParse(`(name . "ada")`)) {
		t.Errorf("EntryOf: got %s", entry)
	}

	alist := AlistOf(EntryOf("a", 1), EntryOf("b", 2))
	if !alist.Equal(MustParse("((a . 1) (b . 2))")) {
		t.Errorf("AlistOf: got %s", alist)
	}

	defer func() {
		if recover() == nil {
			t.Errorf("V on unsupported type should panic")
		}
	}()
	V(make(chan int))
}
