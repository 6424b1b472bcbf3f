package lexer

import (
	"osta/internal/source"
	"osta/internal/token"
)

// Lexer adds a FIFO lookahead buffer on top of a Scanner. Results are
// delivered in the order the scanner produced them.
type Lexer struct {
	file *source.File
	scan *Scanner
	buf  []Result // буфер просмотра вперёд, голова в buf[0]
	done bool     // сканер исчерпан, больше не вызываем
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file: file,
		scan: NewScanner(file, opts),
	}
}

// Next pops the earliest buffered result or scans a new one.
// After exhaustion it always returns false.
func (lx *Lexer) Next() (Result, bool) {
	if len(lx.buf) > 0 {
		res := lx.buf[0]
		lx.buf[0] = Result{}
		lx.buf = lx.buf[1:]
		return res, true
	}
	return lx.pull()
}

// Peek returns the n-th upcoming result (0 is the next one) without
// consuming it. It returns false when fewer than n+1 results remain.
func (lx *Lexer) Peek(n int) (Result, bool) {
	if n < 0 {
		return Result{}, false
	}
	for len(lx.buf) <= n {
		res, ok := lx.pull()
		if !ok {
			return Result{}, false
		}
		lx.buf = append(lx.buf, res)
	}
	return lx.buf[n], true
}

// PeekKind returns the kind of the n-th upcoming token, or token.Invalid
// when that result is an error or past the end.
func (lx *Lexer) PeekKind(n int) token.Kind {
	res, ok := lx.Peek(n)
	if !ok || !res.OK() {
		return token.Invalid
	}
	return res.Token.Kind
}

// Buffered returns the number of results scanned but not yet consumed.
func (lx *Lexer) Buffered() int { return len(lx.buf) }

// All drains the lexer.
func (lx *Lexer) All() []Result {
	var out []Result
	for {
		res, ok := lx.Next()
		if !ok {
			return out
		}
		out = append(out, res)
	}
}

// Slice returns the source text covered by tok's span.
func (lx *Lexer) Slice(tok token.Token) string {
	return lx.file.Slice(tok.Span)
}

// File returns the lexed file.
func (lx *Lexer) File() *source.File { return lx.file }

func (lx *Lexer) pull() (Result, bool) {
	if lx.done {
		return Result{}, false
	}
	res, ok := lx.scan.Scan()
	if !ok {
		lx.done = true
		return Result{}, false
	}
	return res, true
}
