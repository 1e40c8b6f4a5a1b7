package sexp

import (
	"io"
	"math"
)

// maxDepth is the aggregate nesting budget. The decoder is recursive,
// so unbounded nesting would overflow the goroutine stack.
const maxDepth = 128

// Decoder reads s-expression values from an input source. A Decoder
// may decode several values in sequence; see Stream for the resumable
// iteration form.
type Decoder struct {
	r              reader
	scratch        []byte
	remainingDepth int
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: newStreamReader(r), remainingDepth: maxDepth}
}

// NewDecoderBytes returns a Decoder reading from data.
func NewDecoderBytes(data []byte) *Decoder {
	return &Decoder{r: newSliceReader(data), remainingDepth: maxDepth}
}

// NewDecoderString returns a Decoder reading from s.
func NewDecoderString(s string) *Decoder {
	return &Decoder{r: newSliceReader([]byte(s)), remainingDepth: maxDepth}
}

// Unmarshal decodes one value from data into v and requires the rest
// of the input to be whitespace.
func Unmarshal(data []byte, v any) error {
	d := NewDecoderBytes(data)
	if err := d.Decode(v); err != nil {
		return err
	}
	return d.End()
}

// UnmarshalString is Unmarshal for string input.
func UnmarshalString(s string, v any) error {
	d := NewDecoderString(s)
	if err := d.Decode(v); err != nil {
		return err
	}
	return d.End()
}

// Parse decodes one value from data into its generic tree form and
// requires the rest of the input to be whitespace.
func Parse(data []byte) (Sexp, error) {
	d := NewDecoderBytes(data)
	v, err := d.ParseValue()
	if err != nil {
		return Sexp{}, err
	}
	return v, d.End()
}

// ParseString is Parse for string input.
func ParseString(s string) (Sexp, error) {
	d := NewDecoderString(s)
	v, err := d.ParseValue()
	if err != nil {
		return Sexp{}, err
	}
	return v, d.End()
}

// Decode reads the next value from the input into v, which must be a
// non-nil pointer. Input after the value is left unread.
func (d *Decoder) Decode(v any) error {
	if err := d.decodeAny(v); err != nil {
		return d.fixPosition(err)
	}
	return nil
}

// ParseValue reads the next value from the input as a generic tree.
func (d *Decoder) ParseValue() (Sexp, error) {
	v, err := d.parseValue()
	if err != nil {
		return Sexp{}, d.fixPosition(err)
	}
	return v, nil
}

// End requires the remaining input to be whitespace.
func (d *Decoder) End() error {
	_, ok, err := d.parseWhitespace()
	if err != nil {
		return err
	}
	if ok {
		return d.peekError(CodeTrailingCharacters)
	}
	return nil
}

// ============================================================
// Low-level cursor helpers
// ============================================================

func (d *Decoder) peekByte() (byte, bool, error) {
	b, ok, err := d.r.peek()
	if err != nil {
		return 0, false, ioError(err)
	}
	return b, ok, nil
}

func (d *Decoder) nextByte() (byte, bool, error) {
	b, ok, err := d.r.next()
	if err != nil {
		return 0, false, ioError(err)
	}
	return b, ok, nil
}

// parseWhitespace skips whitespace and peeks the first byte after it.
func (d *Decoder) parseWhitespace() (byte, bool, error) {
	for {
		b, ok, err := d.peekByte()
		if err != nil || !ok {
			return 0, ok, err
		}
		if !isWhitespace(b) {
			return b, true, nil
		}
		d.r.discard()
	}
}

func (d *Decoder) error(code ErrorCode) *Error {
	return syntaxError(code, d.r.position())
}

// peekError reports an error at the lookahead byte rather than the last
// consumed one. The readers track only consumed positions, so this can
// be off by one; matching the consumed position keeps messages stable
// across sources.
func (d *Decoder) peekError(code ErrorCode) *Error {
	return syntaxError(code, d.r.position())
}

// fixPosition stamps the current input position onto errors that were
// raised without one. The first recorded position wins.
func (d *Decoder) fixPosition(err error) error {
	if e, ok := err.(*Error); ok {
		return e.withPosition(d.r.position())
	}
	return err
}

func (d *Decoder) readStringText() (string, error) {
	ref, scratch, err := d.r.readString(d.scratch[:0])
	d.scratch = scratch
	if err != nil {
		return "", ioError(err)
	}
	return ref.text(), nil
}

func (d *Decoder) readSymbolText() (string, error) {
	ref, scratch, err := d.r.readSymbol(d.scratch[:0])
	d.scratch = scratch
	if err != nil {
		return "", ioError(err)
	}
	return ref.text(), nil
}

// parseIdent consumes the exact bytes of ident or fails.
func (d *Decoder) parseIdent(ident string) error {
	for i := 0; i < len(ident); i++ {
		b, ok, err := d.nextByte()
		if err != nil {
			return err
		}
		if !ok || b != ident[i] {
			return d.error(CodeExpectedSomeIdent)
		}
	}
	return nil
}

// ============================================================
// Generic tree parsing
// ============================================================

func (d *Decoder) parseValue() (Sexp, error) {
	b, ok, err := d.parseWhitespace()
	if err != nil {
		return Sexp{}, err
	}
	if !ok {
		return Sexp{}, d.peekError(CodeEofWhileParsingValue)
	}
	switch {
	case b == '#':
		d.r.discard()
		return d.parseHash()
	case b == '-':
		d.r.discard()
		n, err := d.parseInteger(false)
		if err != nil {
			return Sexp{}, err
		}
		return Num(n), nil
	case b >= '0' && b <= '9':
		n, err := d.parseInteger(true)
		if err != nil {
			return Sexp{}, err
		}
		return Num(n), nil
	case b == '"':
		d.r.discard()
		s, err := d.readStringText()
		if err != nil {
			return Sexp{}, err
		}
		return Str(s), nil
	case b == '(':
		return d.parseList()
	case isLetter(b):
		s, err := d.readSymbolText()
		if err != nil {
			return Sexp{}, err
		}
		return Symbol(s), nil
	default:
		return Sexp{}, d.peekError(CodeExpectedSomeValue)
	}
}

// parseHash dispatches the `#` constants and keywords. The marker byte
// is already consumed.
func (d *Decoder) parseHash() (Sexp, error) {
	b, ok, err := d.nextByte()
	if err != nil {
		return Sexp{}, err
	}
	if !ok {
		return Sexp{}, d.peekError(CodeEofWhileParsingValue)
	}
	switch b {
	case 't':
		return Bool(true), nil
	case 'f':
		return Bool(false), nil
	case 'n':
		if err := d.parseIdent("il"); err != nil {
			return Sexp{}, err
		}
		return Nil(), nil
	case ':':
		s, err := d.readSymbolText()
		if err != nil {
			return Sexp{}, err
		}
		if s == "" {
			return Sexp{}, d.error(CodeExpectedSomeIdent)
		}
		return Keyword(s), nil
	default:
		return Sexp{}, d.error(CodeExpectedSomeIdent)
	}
}

// parseList consumes a parenthesized form, handling the `.` tail marker.
func (d *Decoder) parseList() (Sexp, error) {
	d.remainingDepth--
	if d.remainingDepth == 0 {
		return Sexp{}, d.peekError(CodeRecursionLimitExceeded)
	}
	defer func() { d.remainingDepth++ }()
	d.r.discard() // '('

	var elems []Sexp
	first := true
	for {
		b, ok, err := d.peekByte()
		if err != nil {
			return Sexp{}, err
		}
		if !ok {
			return Sexp{}, d.peekError(CodeEofWhileParsingList)
		}
		// Elements must be separated by whitespace.
		if !first && b != ')' && !isWhitespace(b) {
			return Sexp{}, d.peekError(CodeExpectedListEltOrEnd)
		}
		b, ok, err = d.parseWhitespace()
		if err != nil {
			return Sexp{}, err
		}
		if !ok {
			return Sexp{}, d.peekError(CodeEofWhileParsingList)
		}
		if b == ')' {
			d.r.discard()
			return List(elems...), nil
		}
		if b == '.' {
			if first {
				return Sexp{}, d.peekError(CodeExpectedSomeValue)
			}
			d.r.discard()
			tail, err := d.parseValue()
			if err != nil {
				return Sexp{}, err
			}
			b, ok, err = d.parseWhitespace()
			if err != nil {
				return Sexp{}, err
			}
			if !ok {
				return Sexp{}, d.peekError(CodeEofWhileParsingList)
			}
			if b != ')' {
				return Sexp{}, d.peekError(CodeTrailingCharacters)
			}
			d.r.discard()
			return NewImproperList(elems, tail), nil
		}
		elem, err := d.parseValue()
		if err != nil {
			return Sexp{}, err
		}
		elems = append(elems, elem)
		first = false
	}
}

// ============================================================
// Numbers
// ============================================================

// parseInteger reads the digits of a number. pos is false when a `-`
// sign was already consumed; when true the first digit is still unread.
func (d *Decoder) parseInteger(pos bool) (Number, error) {
	b, ok, err := d.nextByte()
	if err != nil {
		return Number{}, err
	}
	if !ok {
		return Number{}, d.error(CodeInvalidNumber)
	}
	switch {
	case b == '0':
		// A leading zero must stand alone before the decimal point.
		nb, ok, err := d.peekByte()
		if err != nil {
			return Number{}, err
		}
		if ok && nb >= '0' && nb <= '9' {
			return Number{}, d.peekError(CodeInvalidNumber)
		}
		return d.parseNumber(pos, 0)
	case b >= '1' && b <= '9':
		res := uint64(b - '0')
		for {
			c, ok, err := d.peekByte()
			if err != nil {
				return Number{}, err
			}
			if !ok || c < '0' || c > '9' {
				return d.parseNumber(pos, res)
			}
			d.r.discard()
			digit := uint64(c - '0')
			// Past u64 range the value can only be a float; stop
			// accumulating and count remaining digits as exponent.
			if overflowsUint64(res, digit) {
				f, err := d.parseLongInteger(pos, res)
				if err != nil {
					return Number{}, err
				}
				return floatNumber(d, f)
			}
			res = res*10 + digit
		}
	default:
		return Number{}, d.error(CodeInvalidNumber)
	}
}

func overflowsUint64(res, digit uint64) bool {
	const max10 = math.MaxUint64 / 10
	return res >= max10 && (res > max10 || digit > math.MaxUint64%10)
}

// parseLongInteger handles integers whose digits exceed uint64 range.
// significand holds the digits accumulated so far; one further digit has
// been consumed already.
func (d *Decoder) parseLongInteger(pos bool, significand uint64) (float64, error) {
	exponent := 1
	for {
		c, ok, err := d.peekByte()
		if err != nil {
			return 0, err
		}
		switch {
		case ok && c >= '0' && c <= '9':
			d.r.discard()
			exponent++
		case ok && c == '.':
			return d.parseDecimal(pos, significand, exponent)
		default:
			return d.f64FromParts(pos, significand, exponent)
		}
	}
}

// parseNumber finishes a number whose integral digits fit uint64.
func (d *Decoder) parseNumber(pos bool, significand uint64) (Number, error) {
	b, ok, err := d.peekByte()
	if err != nil {
		return Number{}, err
	}
	if ok && b == '.' {
		f, err := d.parseDecimal(pos, significand, 0)
		if err != nil {
			return Number{}, err
		}
		return floatNumber(d, f)
	}
	if pos {
		return NumberFromUint64(significand), nil
	}
	if significand == 0 {
		return NumberFromUint64(0), nil
	}
	neg := -int64(significand)
	if neg > 0 {
		// Below int64 range; fall back to float.
		return floatNumber(d, -float64(significand))
	}
	return Number{kind: numInt, i: neg}, nil
}

// parseDecimal reads the fractional digits after the decimal point
// (still unread on entry). At least one digit is required. Once the
// significand is saturated, further fraction digits are consumed but
// contribute nothing.
func (d *Decoder) parseDecimal(pos bool, significand uint64, exponent int) (float64, error) {
	d.r.discard() // '.'
	atLeastOne := false
	for {
		c, ok, err := d.peekByte()
		if err != nil {
			return 0, err
		}
		if !ok || c < '0' || c > '9' {
			break
		}
		d.r.discard()
		digit := uint64(c - '0')
		atLeastOne = true
		if overflowsUint64(significand, digit) {
			for {
				c, ok, err := d.peekByte()
				if err != nil {
					return 0, err
				}
				if !ok || c < '0' || c > '9' {
					break
				}
				d.r.discard()
			}
			break
		}
		significand = significand*10 + digit
		exponent--
	}
	if !atLeastOne {
		return 0, d.peekError(CodeInvalidNumber)
	}
	return d.f64FromParts(pos, significand, exponent)
}

// f64FromParts assembles significand * 10^exponent.
func (d *Decoder) f64FromParts(pos bool, significand uint64, exponent int) (float64, error) {
	f := float64(significand)
	for {
		if exponent >= -308 && exponent <= 308 {
			if exponent >= 0 {
				f *= pow10[exponent]
				if math.IsInf(f, 0) {
					return 0, d.error(CodeNumberOutOfRange)
				}
			} else {
				f /= pow10[-exponent]
			}
			break
		}
		if f == 0 {
			break
		}
		if exponent >= 0 {
			return 0, d.error(CodeNumberOutOfRange)
		}
		f /= 1e308
		exponent += 308
	}
	if !pos {
		f = -f
	}
	return f, nil
}

func floatNumber(d *Decoder, f float64) (Number, error) {
	n, ok := NumberFromFloat64(f)
	if !ok {
		return Number{}, d.error(CodeNumberOutOfRange)
	}
	return n, nil
}

// ============================================================
// Shape-directed reads
// ============================================================

// ReadNil consumes `#nil`.
func (d *Decoder) ReadNil() error {
	v, err := d.parseValue()
	if err != nil {
		return err
	}
	if !v.IsNil() {
		return dataError("expected nil, got %s", v.kind)
	}
	return nil
}

// ReadBool consumes `#t` or `#f`.
func (d *Decoder) ReadBool() (bool, error) {
	v, err := d.parseValue()
	if err != nil {
		return false, err
	}
	b, aerr := v.AsBool()
	if aerr != nil {
		return false, dataError("expected boolean, got %s", v.kind)
	}
	return b, nil
}

// ReadNumber consumes a number.
func (d *Decoder) ReadNumber() (Number, error) {
	v, err := d.parseValue()
	if err != nil {
		return Number{}, err
	}
	n, aerr := v.AsNumber()
	if aerr != nil {
		return Number{}, dataError("expected number, got %s", v.kind)
	}
	return n, nil
}

// ReadAtom consumes a symbol, keyword, or quoted string.
func (d *Decoder) ReadAtom() (Atom, error) {
	v, err := d.parseValue()
	if err != nil {
		return Atom{}, err
	}
	a, aerr := v.AsAtom()
	if aerr != nil {
		return Atom{}, dataError("expected atom, got %s", v.kind)
	}
	return a, nil
}

// ReadString consumes a quoted string, symbol, or keyword and returns
// its text.
func (d *Decoder) ReadString() (string, error) {
	a, err := d.ReadAtom()
	if err != nil {
		return "", err
	}
	return a.text, nil
}

// ReadOption reports whether the next value is present: `#nil` is
// consumed and reported absent, anything else is left unread.
func (d *Decoder) ReadOption() (present bool, err error) {
	b, ok, err := d.parseWhitespace()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, d.peekError(CodeEofWhileParsingValue)
	}
	if b == '#' {
		b2, ok2, err := d.r.peek2()
		if err != nil {
			return false, ioError(err)
		}
		if ok2 && b2 == 'n' {
			d.r.discard()
			d.r.discard()
			if err := d.parseIdent("il"); err != nil {
				return false, err
			}
			return false, nil
		}
	}
	return true, nil
}

// skipValue consumes one value and drops it.
func (d *Decoder) skipValue() error {
	_, err := d.parseValue()
	return err
}

// pushDepth enters a nested aggregate.
func (d *Decoder) pushDepth() error {
	d.remainingDepth--
	if d.remainingDepth == 0 {
		d.remainingDepth++
		return d.peekError(CodeRecursionLimitExceeded)
	}
	return nil
}

func (d *Decoder) popDepth() { d.remainingDepth++ }

// SeqReader iterates the elements of a list being decoded. Obtain one
// with Decoder.ReadSeq, then alternate More with element reads and
// finish with End.
type SeqReader struct {
	d     *Decoder
	first bool
	// open marks a reader that consumed the list's `(` itself and owns
	// the matching `)`.
	open bool
}

// ReadSeq consumes a `(` and returns a reader for the list's elements.
func (d *Decoder) ReadSeq() (*SeqReader, error) {
	b, ok, err := d.parseWhitespace()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, d.peekError(CodeEofWhileParsingValue)
	}
	if b != '(' {
		return nil, d.peekError(CodeExpectedList)
	}
	if err := d.pushDepth(); err != nil {
		return nil, err
	}
	d.r.discard()
	return &SeqReader{d: d, first: true, open: true}, nil
}

// More reports whether another element follows. When it returns true
// the caller must read exactly one value before calling More again.
func (s *SeqReader) More() (bool, error) {
	b, ok, err := s.d.peekByte()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, s.d.peekError(CodeEofWhileParsingList)
	}
	if !s.first && b != ')' && !isWhitespace(b) {
		return false, s.d.peekError(CodeExpectedListEltOrEnd)
	}
	b, ok, err = s.d.parseWhitespace()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, s.d.peekError(CodeEofWhileParsingList)
	}
	if b == ')' {
		return false, nil
	}
	s.first = false
	return true, nil
}

// End consumes the closing `)` after More has returned false. Readers
// scoped to an enclosing entry leave the delimiter for the entry.
func (s *SeqReader) End() error {
	if !s.open {
		return nil
	}
	b, ok, err := s.d.parseWhitespace()
	if err != nil {
		return err
	}
	if !ok {
		return s.d.peekError(CodeEofWhileParsingList)
	}
	if b != ')' {
		return s.d.peekError(CodeTrailingCharacters)
	}
	s.d.r.discard()
	s.d.popDepth()
	return nil
}

// AlistReader iterates the `(key . value)` entries of a keyed
// aggregate. Obtain one with Decoder.ReadAlist; alternate NextKey with
// value reads and finish with End.
type AlistReader struct {
	d *Decoder
}

// ReadAlist consumes the opening `(` of a keyed aggregate and returns a
// reader for its entries.
func (d *Decoder) ReadAlist() (*AlistReader, error) {
	b, ok, err := d.parseWhitespace()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, d.peekError(CodeEofWhileParsingValue)
	}
	if b != '(' {
		return nil, d.peekError(CodeExpectedList)
	}
	if err := d.pushDepth(); err != nil {
		return nil, err
	}
	d.r.discard()
	return &AlistReader{d: d}, nil
}

// NextKey opens the next entry and returns its key text. ok is false
// when the aggregate has no more entries.
func (m *AlistReader) NextKey() (key string, ok bool, err error) {
	b, present, err := m.d.parseWhitespace()
	if err != nil {
		return "", false, err
	}
	if !present {
		return "", false, m.d.peekError(CodeEofWhileParsingAlist)
	}
	if b == ')' {
		return "", false, nil
	}
	if b != '(' {
		return "", false, m.d.peekError(CodeExpectedList)
	}
	m.d.r.discard()
	b, present, err = m.d.parseWhitespace()
	if err != nil {
		return "", false, err
	}
	if !present {
		return "", false, m.d.peekError(CodeEofWhileParsingAlist)
	}
	switch {
	case b == '"':
		m.d.r.discard()
		key, err = m.d.readStringText()
	case isLetter(b):
		key, err = m.d.readSymbolText()
	default:
		return "", false, m.d.peekError(CodeExpectedSomeIdent)
	}
	if err != nil {
		return "", false, err
	}
	return key, true, nil
}

// Dotted reports which form the entry's value takes: true for
// `(key . value)` with the dot consumed, false for the flat
// `(key v1 v2 ...)` form whose values read as a sequence via ValueSeq.
func (m *AlistReader) Dotted() (bool, error) {
	b, ok, err := m.d.parseWhitespace()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, m.d.peekError(CodeEofWhileParsingAlist)
	}
	if b == '.' {
		m.d.r.discard()
		return true, nil
	}
	return false, nil
}

// ValueSeq returns a reader over the flat values of an undotted entry.
// It terminates at the entry's `)`, which EndEntry then consumes.
func (m *AlistReader) ValueSeq() *SeqReader {
	return &SeqReader{d: m.d, first: true}
}

// EndEntry consumes the `)` that closes the current entry.
func (m *AlistReader) EndEntry() error {
	b, ok, err := m.d.parseWhitespace()
	if err != nil {
		return err
	}
	if !ok {
		return m.d.peekError(CodeEofWhileParsingAlist)
	}
	if b != ')' {
		return m.d.peekError(CodeTrailingCharacters)
	}
	m.d.r.discard()
	return nil
}

// End consumes the `)` that closes the aggregate, after NextKey has
// reported no more entries.
func (m *AlistReader) End() error {
	b, ok, err := m.d.parseWhitespace()
	if err != nil {
		return err
	}
	if !ok {
		return m.d.peekError(CodeEofWhileParsingAlist)
	}
	if b != ')' {
		return m.d.peekError(CodeTrailingCharacters)
	}
	m.d.r.discard()
	m.d.popDepth()
	return nil
}

// VariantReader scopes the payload of a parenthesized enum variant.
type VariantReader struct {
	d *Decoder
}

// ReadVariant reads an enum variant head. A bare symbol or quoted
// string is a unit variant and returns a nil VariantReader. A `(` opens
// a data-carrying variant: the name is read and the returned reader
// scopes the payload, which the caller decodes with further reads
// before calling Close.
func (d *Decoder) ReadVariant() (name string, vr *VariantReader, err error) {
	b, ok, err := d.parseWhitespace()
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, d.peekError(CodeEofWhileParsingValue)
	}
	switch {
	case b == '"':
		d.r.discard()
		name, err = d.readStringText()
		return name, nil, err
	case isLetter(b):
		name, err = d.readSymbolText()
		return name, nil, err
	case b == '(':
		if err := d.pushDepth(); err != nil {
			return "", nil, err
		}
		d.r.discard()
		b, ok, err = d.parseWhitespace()
		if err != nil {
			return "", nil, err
		}
		if !ok {
			return "", nil, d.peekError(CodeEofWhileParsingList)
		}
		switch {
		case b == '"':
			d.r.discard()
			name, err = d.readStringText()
		case isLetter(b):
			name, err = d.readSymbolText()
		default:
			return "", nil, d.peekError(CodeExpectedSomeIdent)
		}
		if err != nil {
			return "", nil, err
		}
		return name, &VariantReader{d: d}, nil
	default:
		return "", nil, d.peekError(CodeExpectedSomeValue)
	}
}

// Seq returns a reader over the variant's payload values, terminating
// at the closing `)`.
func (v *VariantReader) Seq() *SeqReader {
	return &SeqReader{d: v.d, first: true}
}

// Close consumes the `)` ending the variant.
func (v *VariantReader) Close() error {
	b, ok, err := v.d.parseWhitespace()
	if err != nil {
		return err
	}
	if !ok {
		return v.d.peekError(CodeEofWhileParsingList)
	}
	if b != ')' {
		return v.d.peekError(CodeTrailingCharacters)
	}
	v.d.r.discard()
	v.d.popDepth()
	return nil
}
