package sexp

import (
	"bufio"
	"io"
	"unicode/utf16"
	"unicode/utf8"
)

// stringRef is the result of reading a string body: either a window
// into the source buffer or a copy accumulated in the decoder scratch
// buffer. The distinction is an allocation optimization only.
type stringRef struct {
	b      []byte
	copied bool
}

func (r stringRef) text() string { return string(r.b) }

// reader abstracts the three input sources (byte slice, string, and
// io.Reader) behind one single-byte-lookahead cursor. All decoding runs
// on this interface; only string reading differs between sources.
type reader interface {
	// peek returns the next byte without consuming it. ok is false at EOF.
	peek() (b byte, ok bool, err error)
	// peek2 returns the byte after the next one.
	peek2() (b byte, ok bool, err error)
	// next consumes and returns the next byte.
	next() (b byte, ok bool, err error)
	// discard consumes the byte last returned by peek.
	discard()
	// byteOffset reports how many bytes have been consumed.
	byteOffset() int
	// position reports the line/column cursor location, for errors.
	position() Position
	// readString consumes a string body up to and including the closing
	// quote (the opening quote must already be consumed) and returns the
	// unescaped contents. scratch is reused and returned possibly grown.
	readString(scratch []byte) (stringRef, []byte, error)
	// readSymbol consumes a bare token up to (not including) the next
	// delimiter and returns its text.
	readSymbol(scratch []byte) (stringRef, []byte, error)
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// Symbols run until whitespace, a paren, a quote, or EOF.
func isSymbolEnd(b byte) bool {
	return isWhitespace(b) || b == '(' || b == ')' || b == '"'
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// ============================================================
// Slice source
// ============================================================

type sliceReader struct {
	data  []byte
	index int
}

func newSliceReader(data []byte) *sliceReader { return &sliceReader{data: data} }

func (r *sliceReader) peek() (byte, bool, error) {
	if r.index < len(r.data) {
		return r.data[r.index], true, nil
	}
	return 0, false, nil
}

func (r *sliceReader) peek2() (byte, bool, error) {
	if r.index+1 < len(r.data) {
		return r.data[r.index+1], true, nil
	}
	return 0, false, nil
}

func (r *sliceReader) next() (byte, bool, error) {
	if r.index < len(r.data) {
		b := r.data[r.index]
		r.index++
		return b, true, nil
	}
	return 0, false, nil
}

func (r *sliceReader) discard() { r.index++ }

func (r *sliceReader) byteOffset() int { return r.index }

// position scans from the start of the buffer. Errors are rare, so line
// accounting is not kept during the hot path.
func (r *sliceReader) position() Position {
	line, start := 1, 0
	for i := 0; i < r.index && i < len(r.data); i++ {
		if r.data[i] == '\n' {
			line++
			start = i + 1
		}
	}
	return Position{Line: line, Column: r.index - start}
}

func (r *sliceReader) readString(scratch []byte) (stringRef, []byte, error) {
	start := r.index
	// Fast path: no escapes, return a window into the buffer.
	for r.index < len(r.data) {
		switch r.data[r.index] {
		case '"':
			ref := stringRef{b: r.data[start:r.index]}
			r.index++
			return ref, scratch, nil
		case '\\':
			scratch = append(scratch, r.data[start:r.index]...)
			r.index++
			return r.readStringCopied(scratch)
		default:
			r.index++
		}
	}
	return stringRef{}, scratch, syntaxError(CodeEofWhileParsingString, r.position())
}

// readStringCopied continues after the first backslash, accumulating
// into scratch.
func (r *sliceReader) readStringCopied(scratch []byte) (stringRef, []byte, error) {
	var err error
	scratch, err = appendEscape(r, scratch)
	if err != nil {
		return stringRef{}, scratch, err
	}
	start := r.index
	for r.index < len(r.data) {
		switch r.data[r.index] {
		case '"':
			scratch = append(scratch, r.data[start:r.index]...)
			r.index++
			return stringRef{b: scratch, copied: true}, scratch, nil
		case '\\':
			scratch = append(scratch, r.data[start:r.index]...)
			r.index++
			scratch, err = appendEscape(r, scratch)
			if err != nil {
				return stringRef{}, scratch, err
			}
			start = r.index
		default:
			r.index++
		}
	}
	return stringRef{}, scratch, syntaxError(CodeEofWhileParsingString, r.position())
}

func (r *sliceReader) readSymbol(scratch []byte) (stringRef, []byte, error) {
	start := r.index
	for r.index < len(r.data) && !isSymbolEnd(r.data[r.index]) {
		r.index++
	}
	return stringRef{b: r.data[start:r.index]}, scratch, nil
}

// ============================================================
// io.Reader source
// ============================================================

type streamReader struct {
	r      *bufio.Reader
	peeked []byte // 0..2 bytes read ahead but not consumed
	eof    bool
	offset int
	line   int
	col    int
}

func newStreamReader(r io.Reader) *streamReader {
	return &streamReader{r: bufio.NewReader(r), line: 1}
}

func (r *streamReader) fill(n int) error {
	for len(r.peeked) < n && !r.eof {
		b, err := r.r.ReadByte()
		if err == io.EOF {
			r.eof = true
			return nil
		}
		if err != nil {
			return err
		}
		r.peeked = append(r.peeked, b)
	}
	return nil
}

func (r *streamReader) peek() (byte, bool, error) {
	if err := r.fill(1); err != nil {
		return 0, false, err
	}
	if len(r.peeked) < 1 {
		return 0, false, nil
	}
	return r.peeked[0], true, nil
}

func (r *streamReader) peek2() (byte, bool, error) {
	if err := r.fill(2); err != nil {
		return 0, false, err
	}
	if len(r.peeked) < 2 {
		return 0, false, nil
	}
	return r.peeked[1], true, nil
}

func (r *streamReader) next() (byte, bool, error) {
	if err := r.fill(1); err != nil {
		return 0, false, err
	}
	if len(r.peeked) < 1 {
		return 0, false, nil
	}
	b := r.peeked[0]
	r.peeked = r.peeked[:copy(r.peeked, r.peeked[1:])]
	r.offset++
	if b == '\n' {
		r.line++
		r.col = 0
	} else {
		r.col++
	}
	return b, true, nil
}

func (r *streamReader) discard() { r.next() }

func (r *streamReader) byteOffset() int { return r.offset }

func (r *streamReader) position() Position {
	return Position{Line: r.line, Column: r.col}
}

func (r *streamReader) readString(scratch []byte) (stringRef, []byte, error) {
	for {
		b, ok, err := r.next()
		if err != nil {
			return stringRef{}, scratch, err
		}
		if !ok {
			return stringRef{}, scratch, syntaxError(CodeEofWhileParsingString, r.position())
		}
		switch b {
		case '"':
			return stringRef{b: scratch, copied: true}, scratch, nil
		case '\\':
			scratch, err = appendEscape(r, scratch)
			if err != nil {
				return stringRef{}, scratch, err
			}
		default:
			scratch = append(scratch, b)
		}
	}
}

func (r *streamReader) readSymbol(scratch []byte) (stringRef, []byte, error) {
	for {
		b, ok, err := r.peek()
		if err != nil {
			return stringRef{}, scratch, err
		}
		if !ok || isSymbolEnd(b) {
			return stringRef{b: scratch, copied: true}, scratch, nil
		}
		scratch = append(scratch, b)
		r.discard()
	}
}

// ============================================================
// Escapes
// ============================================================

// appendEscape decodes one escape sequence (the backslash is already
// consumed) and appends the resulting bytes to scratch.
func appendEscape(r reader, scratch []byte) ([]byte, error) {
	b, ok, err := r.next()
	if err != nil {
		return scratch, err
	}
	if !ok {
		return scratch, syntaxError(CodeEofWhileParsingString, r.position())
	}
	switch b {
	case '"':
		return append(scratch, '"'), nil
	case '\\':
		return append(scratch, '\\'), nil
	case '/':
		return append(scratch, '/'), nil
	case 'b':
		return append(scratch, '\b'), nil
	case 'f':
		return append(scratch, '\f'), nil
	case 'n':
		return append(scratch, '\n'), nil
	case 'r':
		return append(scratch, '\r'), nil
	case 't':
		return append(scratch, '\t'), nil
	case 'u':
		return appendUnicodeEscape(r, scratch)
	default:
		return scratch, syntaxError(CodeInvalidEscape, r.position())
	}
}

func decodeHex4(r reader) (rune, error) {
	var n rune
	for i := 0; i < 4; i++ {
		b, ok, err := r.next()
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, syntaxError(CodeEofWhileParsingString, r.position())
		}
		var d rune
		switch {
		case b >= '0' && b <= '9':
			d = rune(b - '0')
		case b >= 'a' && b <= 'f':
			d = rune(b-'a') + 10
		case b >= 'A' && b <= 'F':
			d = rune(b-'A') + 10
		default:
			return 0, syntaxError(CodeInvalidEscape, r.position())
		}
		n = n<<4 + d
	}
	return n, nil
}

func appendUnicodeEscape(r reader, scratch []byte) ([]byte, error) {
	n, err := decodeHex4(r)
	if err != nil {
		return scratch, err
	}
	if utf16.IsSurrogate(n) {
		if n >= 0xDC00 {
			// Unpaired trailing surrogate.
			return scratch, syntaxError(CodeLoneLeadingSurrogateInHexEscape, r.position())
		}
		for _, expect := range []byte{'\\', 'u'} {
			b, ok, err := r.next()
			if err != nil {
				return scratch, err
			}
			if !ok {
				return scratch, syntaxError(CodeUnexpectedEndOfHexEscape, r.position())
			}
			if b != expect {
				return scratch, syntaxError(CodeLoneLeadingSurrogateInHexEscape, r.position())
			}
		}
		n2, err := decodeHex4(r)
		if err != nil {
			return scratch, err
		}
		c := utf16.DecodeRune(n, n2)
		if c == utf8.RuneError {
			return scratch, syntaxError(CodeInvalidUnicodeCodePoint, r.position())
		}
		return utf8.AppendRune(scratch, c), nil
	}
	return utf8.AppendRune(scratch, n), nil
}
