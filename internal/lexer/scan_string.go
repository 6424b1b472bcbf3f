package lexer

import (
	"strconv"
	"unicode/utf8"
)

// scanQuotedString matches "(?:[^"]|\\")*" after the opening quote and
// returns the length up to and including the closing quote. A quote
// preceded by a backslash may continue the literal; the longest such
// match wins.
func scanQuotedString(rest []byte) (n int, ok bool) {
	end := -1
	for i, b := range rest {
		if b != '"' {
			continue
		}
		end = i + 1
		if i == 0 || rest[i-1] != '\\' {
			break
		}
	}
	if end < 0 {
		return 0, false
	}
	return end, true
}

// scanRawString consumes a raw string body after r, hashes '#' and the
// opening quote. Backslash pairs toggle an escape flag that only guards the
// closing quote; the literal ends at an unescaped quote followed by hashes
// '#'. On failure n covers the rest of the input.
func scanRawString(rest []byte, hashes int) (n int, ok bool) {
	var exiting, escape bool
	count := hashes
	for n < len(rest) {
		c, sz := utf8.DecodeRune(rest[n:])
		n += sz

		if exiting {
			if c == '#' {
				if count == 1 {
					return n, true
				}
				count--
				continue
			}
			// не '#': выходим из режима закрытия и разбираем c как обычно
			count = hashes
			exiting = false
		}

		switch {
		case c == '\\':
			escape = !escape
		case c == '"' && !escape:
			if hashes == 0 {
				return n, true
			}
			exiting = true
		default:
			escape = false
		}
	}
	return n, false
}

// rawStringPrefix reports the hash count when rest starts with r#*".
func rawStringPrefix(rest []byte) (hashes int, ok bool) {
	if len(rest) < 2 || rest[0] != 'r' {
		return 0, false
	}
	i := 1
	for i < len(rest) && rest[i] == '#' {
		i++
	}
	if i >= len(rest) || rest[i] != '"' {
		return 0, false
	}
	return i - 1, true
}

// parseTypeWidth parses the bit width of a sized type name (the digits after
// u, i or f).
func parseTypeWidth(digits string) (uint64, error) {
	return strconv.ParseUint(digits, 10, 64)
}
