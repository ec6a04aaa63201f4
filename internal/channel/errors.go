package channel

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. A *ParseError unwraps to exactly one of these.
var (
	ErrBufferTooShort    = errors.New("channel list too short")
	ErrBufferSize        = errors.New("channel list size not a multiple of the record size")
	ErrCountMismatch     = errors.New("channel list record count mismatch")
	ErrRecordSize        = errors.New("record has wrong size")
	ErrUnknownType       = errors.New("unknown channel type")
	ErrReservedMismatch  = errors.New("reserved field mismatch")
	ErrTitleLength       = errors.New("title length out of range")
	ErrTitleEncoding     = errors.New("title is not valid UTF-8")
	ErrDispNoLength      = errors.New("display number too long")
	ErrDispNoEncoding    = errors.New("display number is not ASCII")
	ErrTooManyChannels   = errors.New("too many channels for the list header")
	ErrMalformedDocument = errors.New("wrong XML document")
)

// ParseError carries a message and an ordered list of context strings. Each
// layer that sees the error may append context before passing it on; the
// original message is never replaced.
type ParseError struct {
	Msg     string
	Context []string
	Err     error
}

// NewParseError builds a ParseError of the given kind.
func NewParseError(kind error, format string, args ...any) *ParseError {
	return &ParseError{Msg: fmt.Sprintf(format, args...), Err: kind}
}

func (e *ParseError) Error() string {
	if len(e.Context) == 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s [context: %s]", e.Msg, strings.Join(e.Context, "; "))
}

func (e *ParseError) Unwrap() error { return e.Err }

// AddContext appends one more layer of context.
func (e *ParseError) AddContext(format string, args ...any) *ParseError {
	e.Context = append(e.Context, fmt.Sprintf(format, args...))
	return e
}
