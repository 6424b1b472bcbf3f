package lexer

import "unicode/utf8"

// scanBlockComment consumes the body of a block comment whose opening "/*"
// is already consumed. Pairs are evaluated on a one-rune sliding window, so
// "*/*" closes one level and then opens another.
// On failure n is the length of everything consumed (the rest of the input).
func scanBlockComment(rest []byte) (n int, ok bool) {
	depth := 1
	var prev rune
	for n < len(rest) {
		c, sz := utf8.DecodeRune(rest[n:])
		n += sz

		if prev == '*' && c == '/' {
			depth--
			if depth == 0 {
				return n, true
			}
		}
		if prev == '/' && c == '*' {
			depth++
		}
		prev = c
	}
	return n, false
}

// scanLineComment returns the length of a line comment body after "//",
// stopping before CR, LF or EOF.
func scanLineComment(rest []byte) int {
	for i, b := range rest {
		if b == '\r' || b == '\n' {
			return i
		}
	}
	return len(rest)
}
