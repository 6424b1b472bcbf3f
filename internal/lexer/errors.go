package lexer

import (
	"errors"
	"fmt"

	"osta/internal/diag"
	"osta/internal/source"
	"osta/internal/token"
)

// ErrorKind classifies a lexical error.
type ErrorKind uint8

const (
	// UnknownToken: no rule matched, or a string literal never closed.
	UnknownToken ErrorKind = iota
	// InvalidInteger: a sized type width does not fit in uint64.
	InvalidInteger
	// UnterminatedBlockComment: input ended inside /* ... */.
	UnterminatedBlockComment
)

var (
	ErrUnknownToken             = errors.New("unknown token")
	ErrInvalidInteger           = errors.New("invalid integer")
	ErrUnterminatedBlockComment = errors.New("unterminated block comment")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case InvalidInteger:
		return ErrInvalidInteger
	case UnterminatedBlockComment:
		return ErrUnterminatedBlockComment
	default:
		return ErrUnknownToken
	}
}

func (k ErrorKind) String() string {
	return k.sentinel().Error()
}

// Error is a per-token lexical failure. Text is the consumed source slice.
type Error struct {
	Kind ErrorKind
	Span source.Span
	Text string
	Err  error // причина, например *strconv.NumError для InvalidInteger

	code diag.Code
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %q: %v", e.Kind, e.Text, e.Err)
	}
	return fmt.Sprintf("%s %q", e.Kind, e.Text)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the package sentinel of the error kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// NewError builds an Error with an explicit diagnostic code. A zero code
// selects the default code of kind.
func NewError(kind ErrorKind, sp source.Span, text string, cause error, code diag.Code) *Error {
	return &Error{Kind: kind, Span: sp, Text: text, Err: cause, code: code}
}

// Code returns the diagnostic code reported for the error.
func (e *Error) Code() diag.Code {
	if e.code != diag.UnknownCode {
		return e.code
	}
	switch e.Kind {
	case InvalidInteger:
		return diag.LexInvalidInteger
	case UnterminatedBlockComment:
		return diag.LexUnterminatedBlockComment
	default:
		return diag.LexUnknownToken
	}
}

// Result is one pull result: a token or an error, never both.
type Result struct {
	Token token.Token
	Err   error
}

// OK reports whether the result carries a token.
func (r Result) OK() bool { return r.Err == nil }

// Span returns the source range of the token or of the failed input.
func (r Result) Span() source.Span {
	var lexErr *Error
	if errors.As(r.Err, &lexErr) {
		return lexErr.Span
	}
	return r.Token.Span
}
