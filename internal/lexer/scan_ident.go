package lexer

import "osta/internal/token"

// sizedTypeKind matches [uif]0*[1-9][0-9]* and returns the type kind.
func sizedTypeKind(text []byte) (token.Kind, bool) {
	if len(text) < 2 {
		return token.Invalid, false
	}
	var kind token.Kind
	switch text[0] {
	case 'i':
		kind = token.IntType
	case 'u':
		kind = token.UintType
	case 'f':
		kind = token.FloatType
	default:
		return token.Invalid, false
	}
	nonZero := false
	for _, b := range text[1:] {
		if !isDec(b) {
			return token.Invalid, false
		}
		if b != '0' {
			nonZero = true
		}
	}
	return kind, nonZero
}

// sigilKind maps an identifier sigil to its token kind.
func sigilKind(b byte) (token.Kind, bool) {
	switch b {
	case '@':
		return token.MacroIdent, true
	case '#':
		return token.ComptimeIdent, true
	case '$':
		return token.DirectiveIdent, true
	default:
		return token.Invalid, false
	}
}

// scanIdent lexes an identifier, keyword or sized type starting at the cursor.
// The caller guarantees an identifier start at the cursor.
func (s *Scanner) scanIdent() Result {
	start := s.cur.Mark()
	rest := s.cur.Rest()
	n := identLen(rest, s.opts.Identifiers)
	text := rest[:n]
	s.cur.Advance(n)
	sp := s.cur.SpanFrom(start)

	if kw, ok := token.LookupKeyword(string(text)); ok {
		return s.tok(kw, sp)
	}
	if kind, ok := sizedTypeKind(text); ok {
		width, err := parseTypeWidth(string(text[1:]))
		if err != nil {
			return s.fail(InvalidInteger, sp, err, "type width does not fit in 64 bits")
		}
		res := s.tok(kind, sp)
		res.Token.Width = width
		return res
	}
	return s.tok(token.Ident, sp)
}

// scanSigilIdent lexes @name, #name and $name. ok is false for a bare sigil.
func (s *Scanner) scanSigilIdent(kind token.Kind) (Result, bool) {
	start := s.cur.Mark()
	s.cur.Bump()
	n := identLen(s.cur.Rest(), s.opts.Identifiers)
	if n == 0 {
		s.cur.Reset(start)
		return Result{}, false
	}
	s.cur.Advance(n)
	return s.tok(kind, s.cur.SpanFrom(start)), true
}
