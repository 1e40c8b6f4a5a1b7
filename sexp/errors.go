package sexp

import "fmt"

// Position is a 1-based line/column location in decoder input. Line 0
// means the position is unknown.
type Position struct {
	Line   int
	Column int
}

// String returns "line:column".
func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// Category groups error codes by broad cause.
type Category uint8

const (
	// CategoryIo is a failure to read or write bytes.
	CategoryIo Category = iota
	// CategorySyntax is input that is not syntactically valid.
	CategorySyntax
	// CategoryData is input that is valid syntax but the wrong shape
	// for the requested target, or an unencodable source value.
	CategoryData
	// CategoryEof is input that ended in the middle of a value.
	CategoryEof
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryIo:
		return "io"
	case CategorySyntax:
		return "syntax"
	case CategoryData:
		return "data"
	case CategoryEof:
		return "eof"
	default:
		return "unknown"
	}
}

// ErrorCode identifies the precise failure.
type ErrorCode uint8

const (
	// CodeMessage is a free-form data error raised by a caller or the
	// reflection bridge.
	CodeMessage ErrorCode = iota
	// CodeIo wraps an underlying read or write error.
	CodeIo
	// CodeEofWhileParsingList is EOF inside a list.
	CodeEofWhileParsingList
	// CodeEofWhileParsingAlist is EOF inside a keyed aggregate.
	CodeEofWhileParsingAlist
	// CodeEofWhileParsingString is EOF inside a quoted string.
	CodeEofWhileParsingString
	// CodeEofWhileParsingValue is EOF while a value was expected.
	CodeEofWhileParsingValue
	// CodeExpectedPairDot is a missing `.` in a dotted pair.
	CodeExpectedPairDot
	// CodeExpectedListEltOrEnd is a list element not separated from the
	// previous one by whitespace.
	CodeExpectedListEltOrEnd
	// CodeExpectedPairOrEnd is a character where `.` or `)` was required.
	CodeExpectedPairOrEnd
	// CodeExpectedList is a value that had to be parenthesized but was not.
	CodeExpectedList
	// CodeExpectedSomeIdent is a missing identifier.
	CodeExpectedSomeIdent
	// CodeExpectedSomeValue is a character that cannot start a value.
	CodeExpectedSomeValue
	// CodeExpectedSomeString is a missing quoted string.
	CodeExpectedSomeString
	// CodeInvalidEscape is an unrecognized `\` escape in a string.
	CodeInvalidEscape
	// CodeInvalidNumber is malformed numeric text.
	CodeInvalidNumber
	// CodeNumberOutOfRange is a number too large for any numeric form.
	CodeNumberOutOfRange
	// CodeInvalidUnicodeCodePoint is a `\u` escape naming no valid rune.
	CodeInvalidUnicodeCodePoint
	// CodeKeyMustBeAString is an aggregate key of an unkeyable type.
	CodeKeyMustBeAString
	// CodeLoneLeadingSurrogateInHexEscape is a leading surrogate with no
	// trailing pair.
	CodeLoneLeadingSurrogateInHexEscape
	// CodeTrailingCharacters is non-whitespace input after a complete value.
	CodeTrailingCharacters
	// CodeUnexpectedEndOfHexEscape is a `\u` escape with fewer than four
	// hex digits.
	CodeUnexpectedEndOfHexEscape
	// CodeRecursionLimitExceeded is aggregate nesting past the depth budget.
	CodeRecursionLimitExceeded
)

func (c ErrorCode) message() string {
	switch c {
	case CodeEofWhileParsingList:
		return "EOF while parsing a list"
	case CodeEofWhileParsingAlist:
		return "EOF while parsing an alist"
	case CodeEofWhileParsingString:
		return "EOF while parsing a string"
	case CodeEofWhileParsingValue:
		return "EOF while parsing a value"
	case CodeExpectedPairDot:
		return "expected `.`"
	case CodeExpectedListEltOrEnd:
		return "expected list element or `)`"
	case CodeExpectedPairOrEnd:
		return "expected `.` or `)`"
	case CodeExpectedList:
		return "expected list"
	case CodeExpectedSomeIdent:
		return "expected identifier"
	case CodeExpectedSomeValue:
		return "expected value"
	case CodeExpectedSomeString:
		return "expected string"
	case CodeInvalidEscape:
		return "invalid escape"
	case CodeInvalidNumber:
		return "invalid number"
	case CodeNumberOutOfRange:
		return "number out of range"
	case CodeInvalidUnicodeCodePoint:
		return "invalid unicode code point"
	case CodeKeyMustBeAString:
		return "key must be a string"
	case CodeLoneLeadingSurrogateInHexEscape:
		return "lone leading surrogate in hex escape"
	case CodeTrailingCharacters:
		return "trailing characters"
	case CodeUnexpectedEndOfHexEscape:
		return "unexpected end of hex escape"
	case CodeRecursionLimitExceeded:
		return "recursion limit exceeded"
	default:
		return "unknown error"
	}
}

// Error is the error type produced by decoding and encoding. It carries
// an ErrorCode, a Category derived from it, and for decode errors the
// input position where the failure was observed.
type Error struct {
	code ErrorCode
	msg  string // CodeMessage payload
	err  error  // CodeIo payload
	pos  Position
}

func syntaxError(code ErrorCode, pos Position) *Error {
	return &Error{code: code, pos: pos}
}

func ioError(err error) *Error {
	if e, ok := err.(*Error); ok {
		return e
	}
	return &Error{code: CodeIo, err: err}
}

func dataError(format string, args ...any) *Error {
	return &Error{code: CodeMessage, msg: fmt.Sprintf(format, args...)}
}

func keyMustBeAStringError() *Error {
	return &Error{code: CodeKeyMustBeAString}
}

// withPosition fills in the position of an error that does not have one
// yet. The first position recorded wins.
func (e *Error) withPosition(pos Position) *Error {
	if e.code == CodeIo || e.pos.Line != 0 {
		return e
	}
	c := *e
	c.pos = pos
	return &c
}

// Code returns the error code.
func (e *Error) Code() ErrorCode { return e.code }

// Position returns where in the input the error was observed. Line 0
// means the position is unknown or not applicable.
func (e *Error) Position() Position { return e.pos }

// Line returns the 1-based line of the error, or 0 if unknown.
func (e *Error) Line() int { return e.pos.Line }

// Column returns the column of the error, or 0 if unknown.
func (e *Error) Column() int { return e.pos.Column }

// Category classifies the error by broad cause.
func (e *Error) Category() Category {
	switch e.code {
	case CodeMessage, CodeKeyMustBeAString:
		return CategoryData
	case CodeIo:
		return CategoryIo
	case CodeEofWhileParsingList,
		CodeEofWhileParsingAlist,
		CodeEofWhileParsingString,
		CodeEofWhileParsingValue:
		return CategoryEof
	default:
		return CategorySyntax
	}
}

// IsIo reports whether the error is an io failure.
func (e *Error) IsIo() bool { return e.Category() == CategoryIo }

// IsSyntax reports whether the error is a syntax failure.
func (e *Error) IsSyntax() bool { return e.Category() == CategorySyntax }

// IsData reports whether the error is a shape or value failure.
func (e *Error) IsData() bool { return e.Category() == CategoryData }

// IsEof reports whether the input ended prematurely.
func (e *Error) IsEof() bool { return e.Category() == CategoryEof }

// Unwrap returns the wrapped io error, if any.
func (e *Error) Unwrap() error { return e.err }

// Error formats the message, with ` at line L column C` appended when a
// position is known.
func (e *Error) Error() string {
	var msg string
	switch e.code {
	case CodeMessage:
		msg = e.msg
	case CodeIo:
		msg = e.err.Error()
	default:
		msg = e.code.message()
	}
	if e.pos.Line == 0 {
		return msg
	}
	return fmt.Sprintf("%s at line %d column %d", msg, e.pos.Line, e.pos.Column)
}
