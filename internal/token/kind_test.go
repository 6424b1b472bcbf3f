package token_test

import (
	"testing"

	"osta/internal/source"
	"osta/internal/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: 0}}
}

func TestIsLiteral(t *testing.T) {
	lits := []token.Kind{
		token.DecInt, token.BinInt, token.OctInt, token.HexInt,
		token.Float, token.IntFloat, token.FloatExp, token.IntExp,
		token.String, token.RawString,
	}
	for _, k := range lits {
		if !tok(k).IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	non := []token.Kind{token.Ident, token.KwLet, token.Arrow, token.LParen, token.IntType, token.Comment}
	for _, k := range non {
		if tok(k).IsLiteral() {
			t.Fatalf("%v must NOT be literal", k)
		}
	}
}

func TestIsSymbol(t *testing.T) {
	syms := []token.Kind{
		token.LParen, token.RParen, token.LBrace, token.RBrace, token.LBracket, token.RBracket,
		token.Comma, token.Colon, token.Semicolon, token.Arrow,
	}
	for _, k := range syms {
		if !tok(k).IsSymbol() {
			t.Fatalf("%v should be symbol", k)
		}
	}
	if tok(token.Operator).IsSymbol() {
		t.Fatalf("Operator must NOT be a fixed symbol")
	}
}

func TestIdentFamilies(t *testing.T) {
	for _, k := range []token.Kind{token.Ident, token.MacroIdent, token.ComptimeIdent, token.DirectiveIdent} {
		if !tok(k).IsIdent() {
			t.Fatalf("%v should be ident", k)
		}
	}
	if tok(token.KwFn).IsIdent() {
		t.Fatalf("KwFn must not be ident")
	}
}

func TestSigilAndName(t *testing.T) {
	cases := []struct {
		tok   token.Token
		sigil byte
		name  string
	}{
		{token.Token{Kind: token.MacroIdent, Text: "@derive"}, '@', "derive"},
		{token.Token{Kind: token.ComptimeIdent, Text: "#size"}, '#', "size"},
		{token.Token{Kind: token.DirectiveIdent, Text: "$include"}, '$', "include"},
		{token.Token{Kind: token.Ident, Text: "plain"}, 0, "plain"},
	}
	for _, c := range cases {
		if got := c.tok.Sigil(); got != c.sigil {
			t.Errorf("%q: Sigil() = %q, want %q", c.tok.Text, got, c.sigil)
		}
		if got := c.tok.Name(); got != c.name {
			t.Errorf("%q: Name() = %q, want %q", c.tok.Text, got, c.name)
		}
	}
}

func TestKindStringRoundTrip(t *testing.T) {
	for _, k := range token.Kinds() {
		name := k.String()
		back, ok := token.ParseKind(name)
		if !ok || back != k {
			t.Fatalf("ParseKind(%q) = %v, %v; want %v", name, back, ok, k)
		}
	}
	if _, ok := token.ParseKind("NoSuchKind"); ok {
		t.Fatalf("ParseKind accepted an unknown name")
	}
}

func TestSizedTypes(t *testing.T) {
	for _, k := range []token.Kind{token.IntType, token.UintType, token.FloatType} {
		if !k.IsSizedType() || !k.IsPrimitiveType() {
			t.Fatalf("%v should be a sized primitive type", k)
		}
	}
	for _, k := range []token.Kind{token.IsizeType, token.UsizeType, token.Never, token.Void} {
		if k.IsSizedType() || !k.IsPrimitiveType() {
			t.Fatalf("%v should be an unsized primitive type", k)
		}
	}
}
