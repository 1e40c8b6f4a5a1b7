package sexp

import (
	"errors"
	"math"
	"strings"
	"testing"
)

// ============================================================
// Scalar Parsing
// ============================================================

func TestParseScalars(t *testing.T) {
	tests := []struct {
		input string
		want  Sexp
	}{
		{"#t", Bool(true)},
		{"#f", Bool(false)},
		{"#nil", Nil()},
		{"#:key", Keyword("key")},
		{"foo", Symbol("foo")},
		{"foo-bar.baz", Symbol("foo-bar.baz")},
		{`"hello"`, Str("hello")},
		{`""`, Str("")},
		{"  #t  ", Bool(true)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := ParseString(tt.input)
			if err != nil {
				t.Fatalf("ParseString failed: %v", err)
			}
			if !v.Equal(tt.want) {
				t.Errorf("expected %s, got %s", tt.want, v)
			}
		})
	}
}

func TestParseStringEscapes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"a\nb"`, "a\nb"},
		{`"a\tb\rc"`, "a\tb\rc"},
		{`"quote \" backslash \\ slash \/"`, `quote " backslash \ slash /`},
		{`"\b\f"`, "\b\f"},
		{`"\u0041"`, "A"},
		{`"h\u00e9llo"`, "h\u00e9llo"},
		{`"\u0001"`, "\x01"},
		{`"\ud834\udd1e"`, "\U0001d11e"},
		{`"mixed \u0041 text"`, "mixed A text"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := ParseString(tt.input)
			if err != nil {
				t.Fatalf("ParseString failed: %v", err)
			}
			got, err := v.AsText()
			if err != nil || got != tt.want {
				t.Errorf("expected %q, got %q (%v)", tt.want, got, err)
			}
		})
	}
}

func TestParseBadEscapes(t *testing.T) {
	tests := []struct {
		input string
		code  ErrorCode
	}{
		{`"\x"`, CodeInvalidEscape},
		{`"\u00zz"`, CodeInvalidEscape},
		{`"\udc00"`, CodeLoneLeadingSurrogateInHexEscape},
		{`"\ud834\n"`, CodeLoneLeadingSurrogateInHexEscape},
		{`"\ud834"`, CodeLoneLeadingSurrogateInHexEscape},
		{`"\ud834`, CodeUnexpectedEndOfHexEscape},
		{`"\ud834\ud835"`, CodeInvalidUnicodeCodePoint},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseString(tt.input)
			assertCode(t, err, tt.code)
			var se *Error
			if errors.As(err, &se) && !se.IsSyntax() {
				t.Errorf("expected syntax category, got %s", se.Category())
			}
		})
	}
}

// ============================================================
// Number Parsing
// ============================================================

func TestParseNumbers(t *testing.T) {
	tests := []struct {
		input string
		want  Sexp
	}{
		{"0", Uint(0)},
		{"-0", Uint(0)},
		{"7", Uint(7)},
		{"-7", Int(-7)},
		{"12345", Uint(12345)},
		{"0.5", Float(0.5)},
		{"3.5", Float(3.5)},
		{"-1.25", Float(-1.25)},
		{"0.0", Float(0)},
		{"18446744073709551615", Uint(math.MaxUint64)},
		{"-9223372036854775808", Int(math.MinInt64)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := ParseString(tt.input)
			if err != nil {
				t.Fatalf("ParseString failed: %v", err)
			}
			if !v.Equal(tt.want) {
				t.Errorf("expected %s, got %s", tt.want, v)
			}
		})
	}
}

// Integers one past the int64/uint64 boundaries keep parsing, as floats.
func TestParseNumberOverflowToFloat(t *testing.T) {
	tests := []struct {
		input  string
		approx float64
	}{
		{"18446744073709551616", 1.8446744073709552e19},
		{"-9223372036854775809", -9.223372036854776e18},
		{"123456789012345678901234567890", 1.2345678901234568e29},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := ParseString(tt.input)
			if err != nil {
				t.Fatalf("ParseString failed: %v", err)
			}
			n, err := v.AsNumber()
			if err != nil || !n.IsFloat64() {
				t.Fatalf("expected float, got %s (%v)", v, err)
			}
			f, _ := n.AsFloat64()
			if math.Abs(f-tt.approx) > math.Abs(tt.approx)*1e-12 {
				t.Errorf("expected about %g, got %g", tt.approx, f)
			}
		})
	}
}

// Fraction digits beyond float precision are consumed and ignored.
func TestParseLongFraction(t *testing.T) {
	v, err := ParseString("1.00000000000000000000000000000000000001")
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}
	n, _ := v.AsNumber()
	f, _ := n.AsFloat64()
	if f != 1.0 {
		t.Errorf("expected 1.0, got %g", f)
	}
}

func TestParseBadNumbers(t *testing.T) {
	tests := []struct {
		input string
		code  ErrorCode
	}{
		{"00", CodeInvalidNumber},
		{"01", CodeInvalidNumber},
		{"-00", CodeInvalidNumber},
		{"1.", CodeInvalidNumber},
		{"-", CodeInvalidNumber},
		{"-a", CodeInvalidNumber},
		{"1e5", CodeTrailingCharacters}, // no exponent syntax
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseString(tt.input)
			assertCode(t, err, tt.code)
		})
	}
}

// ============================================================
// List Parsing
// ============================================================

func TestParseLists(t *testing.T) {
	tests := []struct {
		input string
		want  Sexp
	}{
		{"()", List()},
		{"(a)", List(Symbol("a"))},
		{"(a b c)", List(Symbol("a"), Symbol("b"), Symbol("c"))},
		{"( a  b )", List(Symbol("a"), Symbol("b"))},
		{"(a . b)", Pair(Symbol("a"), Symbol("b"))},
		{"(a b . c)", NewImproperList([]Sexp{Symbol("a"), Symbol("b")}, Symbol("c"))},
		{"(a . (b c))", List(Symbol("a"), Symbol("b"), Symbol("c"))},
		{"(1 (2 3) #t)", List(Uint(1), List(Uint(2), Uint(3)), Bool(true))},
		{"((a . 1))", List(Pair(Symbol("a"), Uint(1)))},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := ParseString(tt.input)
			if err != nil {
				t.Fatalf("ParseString failed: %v", err)
			}
			if !v.Equal(tt.want) {
				t.Errorf("expected %s, got %s", tt.want, v)
			}
		})
	}
}

func TestParseListErrors(t *testing.T) {
	tests := []struct {
		input string
		code  ErrorCode
	}{
		{`(a"b")`, CodeExpectedListEltOrEnd},
		{"(a . b c)", CodeTrailingCharacters},
		{"(a .)", CodeExpectedSomeValue},
		{"(. a)", CodeExpectedSomeValue},
		{"(a", CodeEofWhileParsingList},
		{"(", CodeEofWhileParsingList},
		{")", CodeExpectedSomeValue},
		{"", CodeEofWhileParsingValue},
		{`"abc`, CodeEofWhileParsingString},
		{"#t #t", CodeTrailingCharacters},
		{"#x", CodeExpectedSomeIdent},
		{"#nix", CodeExpectedSomeIdent},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseString(tt.input)
			assertCode(t, err, tt.code)
		})
	}
}

func TestErrorCategories(t *testing.T) {
	_, err := ParseString("(a")
	var se *Error
	if !errors.As(err, &se) || !se.IsEof() {
		t.Errorf("unterminated list should be eof, got %v", err)
	}
	_, err = ParseString("00")
	if !errors.As(err, &se) || !se.IsSyntax() {
		t.Errorf("bad number should be syntax, got %v", err)
	}
	var target int
	err = UnmarshalString("#t", &target)
	if !errors.As(err, &se) || !se.IsData() {
		t.Errorf("shape mismatch should be data, got %v", err)
	}
}

func TestErrorPosition(t *testing.T) {
	_, err := ParseString("(\n00)")
	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if se.Line() != 2 {
		t.Errorf("expected line 2, got %d", se.Line())
	}
	if !strings.Contains(se.Error(), "at line 2 column") {
		t.Errorf("message missing position: %q", se.Error())
	}
}

func TestRecursionLimit(t *testing.T) {
	deep := strings.Repeat("(", 129)
	_, err := ParseString(deep)
	assertCode(t, err, CodeRecursionLimitExceeded)

	ok := strings.Repeat("(", 100) + strings.Repeat(")", 100)
	if _, err := ParseString(ok); err != nil {
		t.Errorf("100 levels should parse: %v", err)
	}
}

// ============================================================
// io.Reader Source
// ============================================================

func TestDecodeFromReader(t *testing.T) {
	input := "((name . \"ada\\u0021\")\n (tags lisp math))"
	var v Sexp
	d := NewDecoder(strings.NewReader(input))
	if err := d.Decode(&v); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if err := d.End(); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	name, ok := v.Get("name")
	if !ok || !name.Equal(Str("ada!")) {
		t.Errorf("name: %v %v", name, ok)
	}
	tags, ok := v.Get("tags")
	if !ok || !tags.Equal(List(Symbol("lisp"), Symbol("math"))) {
		t.Errorf("tags: %v %v", tags, ok)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestDecodeIoError(t *testing.T) {
	var v Sexp
	err := NewDecoder(failingReader{}).Decode(&v)
	var se *Error
	if !errors.As(err, &se) || !se.IsIo() {
		t.Fatalf("expected io error, got %v", err)
	}
	if se.Unwrap() == nil {
		t.Errorf("io error should unwrap")
	}
}

// ============================================================
// Shape-Directed Reads
// ============================================================

func TestReadVariantUnit(t *testing.T) {
	for _, input := range []string{`"Dog"`, "Dog"} {
		d := NewDecoderString(input)
		name, vr, err := d.ReadVariant()
		if err != nil {
			t.Fatalf("ReadVariant(%q) failed: %v", input, err)
		}
		if name != "Dog" || vr != nil {
			t.Errorf("ReadVariant(%q): name=%q vr=%v", input, name, vr)
		}
	}
}

func TestReadVariantData(t *testing.T) {
	d := NewDecoderString(`(Frog "Puddle" (1 2))`)
	name, vr, err := d.ReadVariant()
	if err != nil {
		t.Fatalf("ReadVariant failed: %v", err)
	}
	if name != "Frog" || vr == nil {
		t.Fatalf("head: name=%q vr=%v", name, vr)
	}
	seq := vr.Seq()

	more, err := seq.More()
	if err != nil || !more {
		t.Fatalf("More 1: %v %v", more, err)
	}
	s, err := d.ReadString()
	if err != nil || s != "Puddle" {
		t.Fatalf("payload 1: %q %v", s, err)
	}

	more, err = seq.More()
	if err != nil || !more {
		t.Fatalf("More 2: %v %v", more, err)
	}
	var legs []int
	if err := d.Decode(&legs); err != nil {
		t.Fatalf("payload 2: %v", err)
	}
	if len(legs) != 2 || legs[0] != 1 || legs[1] != 2 {
		t.Errorf("legs: %v", legs)
	}

	more, err = seq.More()
	if err != nil || more {
		t.Fatalf("More 3: %v %v", more, err)
	}
	if err := vr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := d.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
}

func TestReadOption(t *testing.T) {
	d := NewDecoderString("#nil #t")
	present, err := d.ReadOption()
	if err != nil || present {
		t.Fatalf("first: present=%v err=%v", present, err)
	}
	present, err = d.ReadOption()
	if err != nil || !present {
		t.Fatalf("second: present=%v err=%v", present, err)
	}
	b, err := d.ReadBool()
	if err != nil || !b {
		t.Fatalf("bool after option: %v %v", b, err)
	}
}

func assertCode(t *testing.T, err error, code ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error code %d, got nil", code)
	}
	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if se.Code() != code {
		t.Fatalf("expected code %d, got %d (%v)", code, se.Code(), se)
	}
}
