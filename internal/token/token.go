package token

import (
	"osta/internal/source"
)

// Token represents a single classified source token.
type Token struct {
	Kind  Kind
	Span  source.Span
	Text  string
	Width uint64     // bit width of IntType/UintType/FloatType
	Op    OperatorID // operator table entry of Operator
}

// IsKeyword reports whether the token is a reserved word.
func (t Token) IsKeyword() bool { return t.Kind.IsKeyword() }

// IsIdent reports whether the token is an identifier of any flavour.
func (t Token) IsIdent() bool { return t.Kind.IsIdent() }

// IsLiteral reports whether the token is a numeric or string literal.
func (t Token) IsLiteral() bool { return t.Kind.IsLiteral() }

// IsSymbol reports whether the token is fixed punctuation.
func (t Token) IsSymbol() bool { return t.Kind.IsSymbol() }

// IsTrivia reports whether a parser would normally skip the token.
func (t Token) IsTrivia() bool { return t.Kind.IsTrivia() }

// Sigil returns the prefix byte of a sigil identifier, or 0.
func (t Token) Sigil() byte {
	switch t.Kind {
	case MacroIdent:
		return '@'
	case ComptimeIdent:
		return '#'
	case DirectiveIdent:
		return '$'
	default:
		return 0
	}
}

// Name returns the identifier body without its sigil.
func (t Token) Name() string {
	if t.Sigil() != 0 && len(t.Text) > 0 {
		return t.Text[1:]
	}
	return t.Text
}
