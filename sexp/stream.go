package sexp

// StreamDecoder iterates a sequence of whitespace-separated
// parenthesized values and tracks a resumable byte offset: after any
// successful decode, feeding input[ByteOffset():] to a fresh decoder
// continues exactly where this one stopped. Every top-level value in a
// stream must be a list.
type StreamDecoder struct {
	d      *Decoder
	offset int
	failed bool
}

// Stream returns a StreamDecoder over d's remaining input.
func (d *Decoder) Stream() *StreamDecoder {
	return &StreamDecoder{d: d, offset: d.r.byteOffset()}
}

// NewStreamDecoderBytes returns a StreamDecoder over data.
func NewStreamDecoderBytes(data []byte) *StreamDecoder {
	return NewDecoderBytes(data).Stream()
}

// NewStreamDecoderString returns a StreamDecoder over s.
func NewStreamDecoderString(s string) *StreamDecoder {
	return NewDecoderString(s).Stream()
}

// ByteOffset reports the number of input bytes consumed by fully
// decoded values, including any trailing whitespace scanned past. Bytes
// of a value that failed mid-decode are not counted.
func (s *StreamDecoder) ByteOffset() int { return s.offset }

// More skips whitespace and reports whether another value follows.
// A next value that does not start with `(` is an error.
func (s *StreamDecoder) More() (bool, error) {
	if s.failed {
		return false, nil
	}
	b, ok, err := s.d.parseWhitespace()
	if err != nil {
		s.failed = true
		return false, err
	}
	if !ok {
		s.offset = s.d.r.byteOffset()
		return false, nil
	}
	if b != '(' {
		s.failed = true
		return false, s.d.peekError(CodeExpectedList)
	}
	s.offset = s.d.r.byteOffset()
	return true, nil
}

// Next decodes the next value into v. io.EOF is never returned; call
// More first to detect the end of the stream.
func (s *StreamDecoder) Next(v any) error {
	if err := s.d.Decode(v); err != nil {
		s.failed = true
		return err
	}
	s.offset = s.d.r.byteOffset()
	return nil
}

// NextValue decodes the next value as a generic tree.
func (s *StreamDecoder) NextValue() (Sexp, error) {
	v, err := s.d.ParseValue()
	if err != nil {
		s.failed = true
		return Sexp{}, err
	}
	s.offset = s.d.r.byteOffset()
	return v, nil
}
