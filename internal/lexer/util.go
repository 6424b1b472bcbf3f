package lexer

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/rangetable"
)

// ===== Классификаторы =====

// Приближение XID_Start / XID_Continue по таблицам пакета unicode.
var (
	idStartTable    = rangetable.Merge(unicode.L, unicode.Nl, unicode.Other_ID_Start)
	idContinueTable = rangetable.Merge(idStartTable, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue)
)

func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b)
}

func isIdentStartRune(r rune) bool {
	if r < utf8.RuneSelf {
		return isIdentStartByte(byte(r))
	}
	return unicode.Is(idStartTable, r)
}

func isIdentContinueRune(r rune) bool {
	if r < utf8.RuneSelf {
		return isIdentContinueByte(byte(r))
	}
	return unicode.Is(idContinueTable, r)
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }
func isBin(b byte) bool { return b == '0' || b == '1' }
func isOct(b byte) bool { return b >= '0' && b <= '7' }
func isHex(b byte) bool {
	return (b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'f') ||
		(b >= 'A' && b <= 'F')
}

// isSpace matches the skipped whitespace set: space, \t, \r, \n, \f.
func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n' || b == '\f'
}

// identLen returns the byte length of the identifier at the start of rest,
// or 0 when rest does not begin with an identifier start character.
func identLen(rest []byte, mode IdentMode) int {
	if len(rest) == 0 {
		return 0
	}
	if mode == IdentASCII {
		if !isIdentStartByte(rest[0]) {
			return 0
		}
		n := 1
		for n < len(rest) && isIdentContinueByte(rest[n]) {
			n++
		}
		return n
	}
	r, sz := utf8.DecodeRune(rest)
	if r == utf8.RuneError || !isIdentStartRune(r) {
		return 0
	}
	n := sz
	for n < len(rest) {
		if b := rest[n]; b < utf8.RuneSelf {
			if !isIdentContinueByte(b) {
				break
			}
			n++
			continue
		}
		r, sz = utf8.DecodeRune(rest[n:])
		if r == utf8.RuneError || !isIdentContinueRune(r) {
			break
		}
		n += sz
	}
	return n
}
