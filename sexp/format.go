package sexp

import (
	"io"
	"strconv"
)

// CharEscape names how a string byte must be escaped. Code is one of
// the short escape letters (`b`, `t`, `n`, `f`, `r`, `"`, `\`) or `u`
// for the numeric `\u00XX` form, in which case Byte carries the value.
type CharEscape struct {
	Code byte
	Byte byte
}

// escapeTable maps each byte to its escape code, or 0 for bytes that
// pass through unescaped. Control bytes without a short form use `u`.
var escapeTable = func() [256]byte {
	var t [256]byte
	for i := 0; i < 0x20; i++ {
		t[i] = 'u'
	}
	t['\b'] = 'b'
	t['\t'] = 't'
	t['\n'] = 'n'
	t['\f'] = 'f'
	t['\r'] = 'r'
	t['"'] = '"'
	t['\\'] = '\\'
	return t
}()

// Formatter renders the lexical layer of encoded output. Encoder drives
// it with one event per token, so layout (whitespace, indentation) is
// fully pluggable while token spelling stays consistent.
type Formatter interface {
	// WriteNil writes the `#nil` constant.
	WriteNil(w io.Writer) error
	// WriteBool writes `#t` or `#f`.
	WriteBool(w io.Writer, v bool) error
	// WriteInt writes a signed integer in minimal decimal form.
	WriteInt(w io.Writer, v int64) error
	// WriteUint writes an unsigned integer in minimal decimal form.
	WriteUint(w io.Writer, v uint64) error
	// WriteFloat writes a finite float in the shortest decimal form
	// that round-trips at the given bit width. Exponent notation is
	// never used; a decimal point is always present.
	WriteFloat(w io.Writer, v float64, bits int) error
	// WriteSymbol writes a bare identifier.
	WriteSymbol(w io.Writer, s string) error
	// WriteKeyword writes a `#:`-marked identifier.
	WriteKeyword(w io.Writer, s string) error
	// BeginString writes the opening quote.
	BeginString(w io.Writer) error
	// EndString writes the closing quote.
	EndString(w io.Writer) error
	// WriteStringFragment writes a run of string bytes needing no escape.
	WriteStringFragment(w io.Writer, s string) error
	// WriteCharEscape writes one escaped string byte.
	WriteCharEscape(w io.Writer, e CharEscape) error
	// WritePairDot writes the `.` separating a pair's tail, with
	// surrounding spacing.
	WritePairDot(w io.Writer) error
	// BeginArray opens a list.
	BeginArray(w io.Writer) error
	// EndArray closes a list.
	EndArray(w io.Writer) error
	// BeginArrayValue starts a list element; first marks the first one.
	BeginArrayValue(w io.Writer, first bool) error
	// EndArrayValue finishes a list element.
	EndArrayValue(w io.Writer) error
	// BeginObject opens a keyed aggregate.
	BeginObject(w io.Writer) error
	// EndObject closes a keyed aggregate.
	EndObject(w io.Writer) error
	// BeginObjectEntry starts a `(key . value)` entry.
	BeginObjectEntry(w io.Writer, first bool) error
	// EndObjectEntry finishes an entry.
	EndObjectEntry(w io.Writer) error
	// BeginObjectValue separates an entry's key from its value.
	BeginObjectValue(w io.Writer) error
}

func writeByte(w io.Writer, b byte) error {
	_, err := w.Write([]byte{b})
	return err
}

func writeString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}

// CompactFormatter renders values on one line with single spaces
// between siblings. Its output is the canonical compact form: encoding
// it again changes nothing.
type CompactFormatter struct{}

// WriteNil implements Formatter.
func (CompactFormatter) WriteNil(w io.Writer) error { return writeString(w, "#nil") }

// WriteBool implements Formatter.
func (CompactFormatter) WriteBool(w io.Writer, v bool) error {
	if v {
		return writeString(w, "#t")
	}
	return writeString(w, "#f")
}

// WriteInt implements Formatter.
func (CompactFormatter) WriteInt(w io.Writer, v int64) error {
	var buf [20]byte
	_, err := w.Write(strconv.AppendInt(buf[:0], v, 10))
	return err
}

// WriteUint implements Formatter.
func (CompactFormatter) WriteUint(w io.Writer, v uint64) error {
	var buf [20]byte
	_, err := w.Write(strconv.AppendUint(buf[:0], v, 10))
	return err
}

// WriteFloat implements Formatter.
func (CompactFormatter) WriteFloat(w io.Writer, v float64, bits int) error {
	var buf [32]byte
	out := strconv.AppendFloat(buf[:0], v, 'f', -1, bits)
	if !hasDot(out) {
		out = append(out, '.', '0')
	}
	_, err := w.Write(out)
	return err
}

func hasDot(b []byte) bool {
	for _, c := range b {
		if c == '.' {
			return true
		}
	}
	return false
}

// WriteSymbol implements Formatter.
func (CompactFormatter) WriteSymbol(w io.Writer, s string) error { return writeString(w, s) }

// WriteKeyword implements Formatter.
func (CompactFormatter) WriteKeyword(w io.Writer, s string) error {
	if err := writeString(w, "#:"); err != nil {
		return err
	}
	return writeString(w, s)
}

// BeginString implements Formatter.
func (CompactFormatter) BeginString(w io.Writer) error { return writeByte(w, '"') }

// EndString implements Formatter.
func (CompactFormatter) EndString(w io.Writer) error { return writeByte(w, '"') }

// WriteStringFragment implements Formatter.
func (CompactFormatter) WriteStringFragment(w io.Writer, s string) error {
	return writeString(w, s)
}

// WriteCharEscape implements Formatter.
func (CompactFormatter) WriteCharEscape(w io.Writer, e CharEscape) error {
	if e.Code != 'u' {
		_, err := w.Write([]byte{'\\', e.Code})
		return err
	}
	const hex = "0123456789abcdef"
	_, err := w.Write([]byte{'\\', 'u', '0', '0', hex[e.Byte>>4], hex[e.Byte&0xF]})
	return err
}

// WritePairDot implements Formatter.
func (CompactFormatter) WritePairDot(w io.Writer) error { return writeString(w, ". ") }

// BeginArray implements Formatter.
func (CompactFormatter) BeginArray(w io.Writer) error { return writeByte(w, '(') }

// EndArray implements Formatter.
func (CompactFormatter) EndArray(w io.Writer) error { return writeByte(w, ')') }

// BeginArrayValue implements Formatter.
func (CompactFormatter) BeginArrayValue(w io.Writer, first bool) error {
	if first {
		return nil
	}
	return writeByte(w, ' ')
}

// EndArrayValue implements Formatter.
func (CompactFormatter) EndArrayValue(w io.Writer) error { return nil }

// BeginObject implements Formatter.
func (CompactFormatter) BeginObject(w io.Writer) error { return writeByte(w, '(') }

// EndObject implements Formatter.
func (CompactFormatter) EndObject(w io.Writer) error { return writeByte(w, ')') }

// BeginObjectEntry implements Formatter.
func (CompactFormatter) BeginObjectEntry(w io.Writer, first bool) error {
	if !first {
		if err := writeByte(w, ' '); err != nil {
			return err
		}
	}
	return writeByte(w, '(')
}

// EndObjectEntry implements Formatter.
func (CompactFormatter) EndObjectEntry(w io.Writer) error { return writeByte(w, ')') }

// BeginObjectValue implements Formatter.
func (CompactFormatter) BeginObjectValue(w io.Writer) error { return writeString(w, " . ") }

// PrettyFormatter renders one value per line with indentation. Pretty
// output decodes to exactly the same values as compact output.
type PrettyFormatter struct {
	CompactFormatter
	indent        string
	currentIndent int
	hasValue      bool
}

// NewPrettyFormatter returns a PrettyFormatter indenting with two
// spaces.
func NewPrettyFormatter() *PrettyFormatter { return NewPrettyFormatterIndent("  ") }

// NewPrettyFormatterIndent returns a PrettyFormatter indenting with the
// given string per nesting level.
func NewPrettyFormatterIndent(indent string) *PrettyFormatter {
	return &PrettyFormatter{indent: indent}
}

func (f *PrettyFormatter) newline(w io.Writer) error {
	if err := writeByte(w, '\n'); err != nil {
		return err
	}
	for i := 0; i < f.currentIndent; i++ {
		if err := writeString(w, f.indent); err != nil {
			return err
		}
	}
	return nil
}

// BeginArray implements Formatter.
func (f *PrettyFormatter) BeginArray(w io.Writer) error {
	f.currentIndent++
	f.hasValue = false
	return writeByte(w, '(')
}

// EndArray implements Formatter.
func (f *PrettyFormatter) EndArray(w io.Writer) error {
	f.currentIndent--
	if f.hasValue {
		if err := f.newline(w); err != nil {
			return err
		}
	}
	return writeByte(w, ')')
}

// BeginArrayValue implements Formatter.
func (f *PrettyFormatter) BeginArrayValue(w io.Writer, first bool) error {
	return f.newline(w)
}

// EndArrayValue implements Formatter.
func (f *PrettyFormatter) EndArrayValue(w io.Writer) error {
	f.hasValue = true
	return nil
}

// BeginObject implements Formatter.
func (f *PrettyFormatter) BeginObject(w io.Writer) error {
	f.currentIndent++
	f.hasValue = false
	return writeByte(w, '(')
}

// EndObject implements Formatter.
func (f *PrettyFormatter) EndObject(w io.Writer) error {
	f.currentIndent--
	if f.hasValue {
		if err := f.newline(w); err != nil {
			return err
		}
	}
	return writeByte(w, ')')
}

// BeginObjectEntry implements Formatter.
func (f *PrettyFormatter) BeginObjectEntry(w io.Writer, first bool) error {
	if err := f.newline(w); err != nil {
		return err
	}
	return writeByte(w, '(')
}

// EndObjectEntry implements Formatter.
func (f *PrettyFormatter) EndObjectEntry(w io.Writer) error {
	f.hasValue = true
	return writeByte(w, ')')
}
