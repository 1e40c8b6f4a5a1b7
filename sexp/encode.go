package sexp

import (
	"bytes"
	"io"
	"math"
)

// Encoder writes s-expression values to an output stream through a
// Formatter. The zero-configuration form writes compact text.
type Encoder struct {
	w io.Writer
	f Formatter
}

// NewEncoder returns an Encoder writing compact output to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, f: CompactFormatter{}}
}

// NewEncoderWithFormatter returns an Encoder writing through f.
func NewEncoderWithFormatter(w io.Writer, f Formatter) *Encoder {
	return &Encoder{w: w, f: f}
}

// Marshal encodes v in compact form.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalString encodes v in compact form as a string.
func MarshalString(v any) (string, error) {
	b, err := Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// MarshalIndent encodes v in pretty form, indenting nested values with
// indent per level.
func MarshalIndent(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	e := NewEncoderWithFormatter(&buf, NewPrettyFormatterIndent(indent))
	if err := e.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Encoder) wrap(err error) error {
	if err == nil {
		return nil
	}
	return ioError(err)
}

// Encode writes v, using the reflection bridge for native Go values.
func (e *Encoder) Encode(v any) error {
	return encodeAny(e, v)
}

// EncodeSexp writes a generic tree value.
func (e *Encoder) EncodeSexp(v Sexp) error {
	switch v.kind {
	case KindNil:
		return e.EncodeNil()
	case KindBoolean:
		return e.EncodeBool(v.b)
	case KindNumber:
		return e.EncodeNumber(v.num)
	case KindAtom:
		return e.EncodeAtom(v.atom)
	case KindList, KindImproperList:
		l, err := e.BeginList()
		if err != nil {
			return err
		}
		for _, elem := range v.list {
			if err := l.Next(); err != nil {
				return err
			}
			if err := e.EncodeSexp(elem); err != nil {
				return err
			}
		}
		if v.kind == KindImproperList {
			if err := l.Next(); err != nil {
				return err
			}
			if err := e.wrap(e.f.WritePairDot(e.w)); err != nil {
				return err
			}
			if err := e.EncodeSexp(*v.tail); err != nil {
				return err
			}
		}
		return l.End()
	}
	return dataError("cannot encode value of kind %s", v.kind)
}

// ============================================================
// Scalars
// ============================================================

// EncodeNil writes `#nil`.
func (e *Encoder) EncodeNil() error { return e.wrap(e.f.WriteNil(e.w)) }

// EncodeBool writes `#t` or `#f`.
func (e *Encoder) EncodeBool(v bool) error { return e.wrap(e.f.WriteBool(e.w, v)) }

// EncodeInt writes a signed integer.
func (e *Encoder) EncodeInt(v int64) error { return e.wrap(e.f.WriteInt(e.w, v)) }

// EncodeUint writes an unsigned integer.
func (e *Encoder) EncodeUint(v uint64) error { return e.wrap(e.f.WriteUint(e.w, v)) }

// EncodeFloat32 writes a float at 32-bit precision. Non-finite values
// have no numeric form and are written as `#nil`.
func (e *Encoder) EncodeFloat32(v float32) error {
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		return e.EncodeNil()
	}
	return e.wrap(e.f.WriteFloat(e.w, float64(v), 32))
}

// EncodeFloat64 writes a float. Non-finite values have no numeric form
// and are written as `#nil`.
func (e *Encoder) EncodeFloat64(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return e.EncodeNil()
	}
	return e.wrap(e.f.WriteFloat(e.w, v, 64))
}

// EncodeNumber writes a Number in its stored form.
func (e *Encoder) EncodeNumber(n Number) error {
	switch n.kind {
	case numUint:
		return e.EncodeUint(n.u)
	case numInt:
		return e.EncodeInt(n.i)
	default:
		return e.EncodeFloat64(n.f)
	}
}

// EncodeString writes a quoted, escaped string.
func (e *Encoder) EncodeString(s string) error {
	if err := e.wrap(e.f.BeginString(e.w)); err != nil {
		return err
	}
	if err := e.writeStringContents(s); err != nil {
		return err
	}
	return e.wrap(e.f.EndString(e.w))
}

func (e *Encoder) writeStringContents(s string) error {
	start := 0
	for i := 0; i < len(s); i++ {
		code := escapeTable[s[i]]
		if code == 0 {
			continue
		}
		if start < i {
			if err := e.wrap(e.f.WriteStringFragment(e.w, s[start:i])); err != nil {
				return err
			}
		}
		if err := e.wrap(e.f.WriteCharEscape(e.w, CharEscape{Code: code, Byte: s[i]})); err != nil {
			return err
		}
		start = i + 1
	}
	if start < len(s) {
		return e.wrap(e.f.WriteStringFragment(e.w, s[start:]))
	}
	return nil
}

// EncodeSymbol writes a bare identifier.
func (e *Encoder) EncodeSymbol(s string) error { return e.wrap(e.f.WriteSymbol(e.w, s)) }

// EncodeKeyword writes a `#:`-marked identifier.
func (e *Encoder) EncodeKeyword(s string) error { return e.wrap(e.f.WriteKeyword(e.w, s)) }

// EncodeAtom writes an atom in its kind's spelling.
func (e *Encoder) EncodeAtom(a Atom) error {
	switch a.kind {
	case AtomKeyword:
		return e.EncodeKeyword(a.text)
	case AtomString:
		return e.EncodeString(a.text)
	default:
		return e.EncodeSymbol(a.text)
	}
}

// EncodeBytes writes a byte slice as a list of unsigned integers.
func (e *Encoder) EncodeBytes(b []byte) error {
	l, err := e.BeginList()
	if err != nil {
		return err
	}
	for _, c := range b {
		if err := l.Next(); err != nil {
			return err
		}
		if err := e.EncodeUint(uint64(c)); err != nil {
			return err
		}
	}
	return l.End()
}

// ============================================================
// Aggregates
// ============================================================

// ListEncoder brackets the elements of a list being encoded. Call Next
// before each element, then End.
type ListEncoder struct {
	e     *Encoder
	first bool
}

// BeginList opens a list.
func (e *Encoder) BeginList() (*ListEncoder, error) {
	if err := e.wrap(e.f.BeginArray(e.w)); err != nil {
		return nil, err
	}
	return &ListEncoder{e: e, first: true}, nil
}

// Next starts the next element. The caller then writes exactly one
// value through the Encoder.
func (l *ListEncoder) Next() error {
	if !l.first {
		if err := l.e.wrap(l.e.f.EndArrayValue(l.e.w)); err != nil {
			return err
		}
	}
	err := l.e.wrap(l.e.f.BeginArrayValue(l.e.w, l.first))
	l.first = false
	return err
}

// End closes the list.
func (l *ListEncoder) End() error {
	if !l.first {
		if err := l.e.wrap(l.e.f.EndArrayValue(l.e.w)); err != nil {
			return err
		}
	}
	return l.e.wrap(l.e.f.EndArray(l.e.w))
}

// AlistEncoder brackets the `(key . value)` entries of a keyed
// aggregate. Call Key, write the value, call EndEntry; finish with End.
type AlistEncoder struct {
	e     *Encoder
	first bool
}

// BeginAlist opens a keyed aggregate.
func (e *Encoder) BeginAlist() (*AlistEncoder, error) {
	if err := e.wrap(e.f.BeginObject(e.w)); err != nil {
		return nil, err
	}
	return &AlistEncoder{e: e, first: true}, nil
}

// Key opens an entry and writes its key. Only strings, atoms, and
// integers (rendered as quoted decimal text) may key an aggregate;
// anything else reports KeyMustBeAString.
func (m *AlistEncoder) Key(k any) error {
	if err := m.e.wrap(m.e.f.BeginObjectEntry(m.e.w, m.first)); err != nil {
		return err
	}
	m.first = false
	if err := encodeKey(m.e, k); err != nil {
		return err
	}
	return m.e.wrap(m.e.f.BeginObjectValue(m.e.w))
}

// EndEntry closes the current entry after its value is written.
func (m *AlistEncoder) EndEntry() error {
	return m.e.wrap(m.e.f.EndObjectEntry(m.e.w))
}

// End closes the aggregate.
func (m *AlistEncoder) End() error {
	return m.e.wrap(m.e.f.EndObject(m.e.w))
}

func encodeKey(e *Encoder, k any) error {
	switch k := k.(type) {
	case string:
		return e.EncodeString(k)
	case Atom:
		return e.EncodeAtom(k)
	case int:
		return encodeIntKey(e, int64(k))
	case int8:
		return encodeIntKey(e, int64(k))
	case int16:
		return encodeIntKey(e, int64(k))
	case int32:
		return encodeIntKey(e, int64(k))
	case int64:
		return encodeIntKey(e, k)
	case uint:
		return encodeUintKey(e, uint64(k))
	case uint8:
		return encodeUintKey(e, uint64(k))
	case uint16:
		return encodeUintKey(e, uint64(k))
	case uint32:
		return encodeUintKey(e, uint64(k))
	case uint64:
		return encodeUintKey(e, k)
	default:
		return keyMustBeAStringError()
	}
}

func encodeIntKey(e *Encoder, v int64) error {
	if err := e.wrap(e.f.BeginString(e.w)); err != nil {
		return err
	}
	if err := e.EncodeInt(v); err != nil {
		return err
	}
	return e.wrap(e.f.EndString(e.w))
}

func encodeUintKey(e *Encoder, v uint64) error {
	if err := e.wrap(e.f.BeginString(e.w)); err != nil {
		return err
	}
	if err := e.EncodeUint(v); err != nil {
		return err
	}
	return e.wrap(e.f.EndString(e.w))
}

// ============================================================
// Enum variants
// ============================================================

// EncodeUnitVariant writes a variant with no payload as a quoted name.
func (e *Encoder) EncodeUnitVariant(name string) error {
	return e.EncodeString(name)
}

// BeginVariant opens a data-carrying variant `(name payload...)`. Write
// each payload value after Next on the returned list, then End.
func (e *Encoder) BeginVariant(name string) (*ListEncoder, error) {
	l, err := e.BeginList()
	if err != nil {
		return nil, err
	}
	if err := l.Next(); err != nil {
		return nil, err
	}
	if err := e.EncodeSymbol(name); err != nil {
		return nil, err
	}
	return l, nil
}
