package lexer

import (
	"osta/internal/diag"
	"osta/internal/token"
)

// IdentMode selects the identifier character classes.
type IdentMode uint8

const (
	// IdentASCII accepts [a-zA-Z_][a-zA-Z0-9_]*.
	IdentASCII IdentMode = iota
	// IdentUnicode accepts (XID_Start | _) XID_Continue*.
	IdentUnicode
)

func (m IdentMode) String() string {
	switch m {
	case IdentASCII:
		return "ascii"
	case IdentUnicode:
		return "unicode"
	default:
		return "unknown"
	}
}

// OperatorMatcher recognises user-defined operators at the start of rest.
// It is consulted only when no built-in rule matched; n must be > 0 on success.
type OperatorMatcher interface {
	MatchOperator(rest []byte) (n int, id token.OperatorID, ok bool)
}

// OperatorMatcherFunc adapts a plain function to OperatorMatcher.
type OperatorMatcherFunc func(rest []byte) (int, token.OperatorID, bool)

// MatchOperator implements OperatorMatcher.
func (f OperatorMatcherFunc) MatchOperator(rest []byte) (int, token.OperatorID, bool) {
	return f(rest)
}

type Options struct {
	Reporter    diag.Reporter   // nil: ошибки только возвращаются в Result
	Identifiers IdentMode       // фиксируется при создании сканера
	Operators   OperatorMatcher // nil: операторов нет
}

// DefaultOptions returns options with the build-time identifier mode.
func DefaultOptions() Options {
	return Options{Identifiers: DefaultIdentMode}
}
