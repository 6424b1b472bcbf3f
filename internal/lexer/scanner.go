package lexer

import (
	"fmt"
	"strings"

	"osta/internal/diag"
	"osta/internal/source"
	"osta/internal/token"
)

// Scanner classifies one token per Scan call. It keeps no lookahead; wrap it
// in a Lexer for Peek.
type Scanner struct {
	file *source.File
	cur  Cursor
	opts Options
}

// NewScanner creates a scanner over file. The identifier mode is fixed here.
func NewScanner(file *source.File, opts Options) *Scanner {
	return &Scanner{
		file: file,
		cur:  NewCursor(file),
		opts: opts,
	}
}

// File returns the scanned file.
func (s *Scanner) File() *source.File { return s.file }

// Offset returns the byte offset of the next unscanned input.
func (s *Scanner) Offset() uint32 { return s.cur.Off }

// Scan returns the next result, or false once the input is exhausted.
// Whitespace is skipped and never produces a token.
func (s *Scanner) Scan() (Result, bool) {
	s.skipSpace()
	if s.cur.EOF() {
		return Result{}, false
	}
	return s.scanOne(), true
}

func (s *Scanner) skipSpace() {
	for !s.cur.EOF() && isSpace(s.cur.Peek()) {
		s.cur.Bump()
	}
}

// scanOne выбирает правило по первому байту.
func (s *Scanner) scanOne() Result {
	if b0, b1, ok := s.cur.Peek2(); ok && b0 == '/' {
		switch b1 {
		case '*':
			return s.scanBlockComment()
		case '/':
			return s.scanLineComment()
		}
	}

	b0 := s.cur.Peek()
	switch {
	case b0 == 'r':
		if hashes, ok := rawStringPrefix(s.cur.Rest()); ok {
			return s.scanRawString(hashes)
		}
	case b0 == '"':
		return s.scanString()
	case isDec(b0):
		start := s.cur.Mark()
		n, kind := scanNumber(s.cur.Rest())
		s.cur.Advance(n)
		return s.tok(kind, s.cur.SpanFrom(start))
	}

	if identLen(s.cur.Rest(), s.opts.Identifiers) > 0 {
		return s.scanIdent()
	}
	if kind, ok := sigilKind(b0); ok {
		if res, ok := s.scanSigilIdent(kind); ok {
			return res
		}
	}
	if res, ok := s.scanSymbol(); ok {
		return res
	}
	if res, ok := s.scanOperator(); ok {
		return res
	}
	return s.unknown()
}

func (s *Scanner) scanBlockComment() Result {
	start := s.cur.Mark()
	s.cur.Advance(2)
	n, ok := scanBlockComment(s.cur.Rest())
	s.cur.Advance(n)
	sp := s.cur.SpanFrom(start)
	if !ok {
		return s.failCode(UnterminatedBlockComment, diag.UnknownCode, sp, nil,
			"unterminated block comment", "close the comment", "*/")
	}
	return s.tok(token.Comment, sp)
}

func (s *Scanner) scanLineComment() Result {
	start := s.cur.Mark()
	s.cur.Advance(2)
	s.cur.Advance(scanLineComment(s.cur.Rest()))
	return s.tok(token.Comment, s.cur.SpanFrom(start))
}

func (s *Scanner) scanRawString(hashes int) Result {
	start := s.cur.Mark()
	s.cur.Advance(hashes + 2) // r, #..., "
	n, ok := scanRawString(s.cur.Rest(), hashes)
	s.cur.Advance(n)
	sp := s.cur.SpanFrom(start)
	if !ok {
		return s.failCode(UnknownToken, diag.LexUnterminatedRawString, sp, nil,
			"unterminated raw string literal",
			"insert the closing delimiter", `"`+strings.Repeat("#", hashes))
	}
	return s.tok(token.RawString, sp)
}

func (s *Scanner) scanString() Result {
	start := s.cur.Mark()
	s.cur.Bump() // opening '"'
	n, ok := scanQuotedString(s.cur.Rest())
	if !ok {
		// без закрывающей кавычки ошибка только на '"', дальше лексим как обычно
		return s.failCode(UnknownToken, diag.LexUnterminatedString, s.cur.SpanFrom(start), nil,
			"unterminated string literal", "", "")
	}
	s.cur.Advance(n)
	return s.tok(token.String, s.cur.SpanFrom(start))
}

func (s *Scanner) scanSymbol() (Result, bool) {
	start := s.cur.Mark()
	var kind token.Kind
	switch s.cur.Bump() {
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	case ',':
		kind = token.Comma
	case ':':
		kind = token.Colon
	case ';':
		kind = token.Semicolon
	case '-':
		if !s.cur.Eat('>') {
			s.cur.Reset(start)
			return Result{}, false
		}
		kind = token.Arrow
	default:
		s.cur.Reset(start)
		return Result{}, false
	}
	return s.tok(kind, s.cur.SpanFrom(start)), true
}

func (s *Scanner) scanOperator() (Result, bool) {
	if s.opts.Operators == nil {
		return Result{}, false
	}
	rest := s.cur.Rest()
	n, id, ok := s.opts.Operators.MatchOperator(rest)
	if !ok || n <= 0 {
		return Result{}, false
	}
	start := s.cur.Mark()
	s.cur.Advance(min(n, len(rest)))
	res := s.tok(token.Operator, s.cur.SpanFrom(start))
	res.Token.Op = id
	return res, true
}

// unknown consumes exactly one rune.
func (s *Scanner) unknown() Result {
	start := s.cur.Mark()
	s.cur.BumpRune()
	sp := s.cur.SpanFrom(start)
	return s.fail(UnknownToken, sp, nil, fmt.Sprintf("unknown token %q", s.text(sp)))
}

func (s *Scanner) text(sp source.Span) string {
	return string(s.file.Content[sp.Start:sp.End])
}

func (s *Scanner) tok(kind token.Kind, sp source.Span) Result {
	return Result{Token: token.Token{Kind: kind, Span: sp, Text: s.text(sp)}}
}

func (s *Scanner) fail(kind ErrorKind, sp source.Span, cause error, msg string) Result {
	return s.failCode(kind, diag.UnknownCode, sp, cause, msg, "", "")
}

// failCode builds the error result and forwards it to the reporter. When
// fixText is set, a fix inserting it at the end of sp is attached.
func (s *Scanner) failCode(kind ErrorKind, code diag.Code, sp source.Span, cause error, msg, fixTitle, fixText string) Result {
	err := NewError(kind, sp, s.text(sp), cause, code)
	if s.opts.Reporter != nil {
		b := diag.ReportError(s.opts.Reporter, err.Code(), sp, msg)
		if fixText != "" {
			at := source.Span{File: sp.File, Start: sp.End, End: sp.End}
			b.WithFix(fixTitle, diag.FixEdit{Span: at, NewText: fixText})
		}
		b.Emit()
	}
	return Result{Err: err}
}
