package lexer

import "osta/internal/token"

// digitRun returns the end of the run [d]+(_+[d]+)* starting at i, or i when
// rest[i] is not a digit. Trailing underscores are left unconsumed.
func digitRun(rest []byte, i int, digit func(byte) bool) int {
	if i >= len(rest) || !digit(rest[i]) {
		return i
	}
	for {
		for i < len(rest) && digit(rest[i]) {
			i++
		}
		j := i
		for j < len(rest) && rest[j] == '_' {
			j++
		}
		if j == i || j >= len(rest) || !digit(rest[j]) {
			return i
		}
		i = j
	}
}

// exponent returns the end of [eE][+-]?run starting at i, or i when the
// exponent is missing or incomplete.
func exponent(rest []byte, i int) int {
	if i >= len(rest) || (rest[i] != 'e' && rest[i] != 'E') {
		return i
	}
	j := i + 1
	if j < len(rest) && (rest[j] == '+' || rest[j] == '-') {
		j++
	}
	if end := digitRun(rest, j, isDec); end > j {
		return end
	}
	return i
}

// scanNumber classifies the numeric literal at the start of rest, which must
// begin with a decimal digit, and returns its length.
func scanNumber(rest []byte) (int, token.Kind) {
	if len(rest) >= 3 && rest[0] == '0' {
		var (
			digit func(byte) bool
			kind  token.Kind
		)
		switch rest[1] {
		case 'b', 'B':
			digit, kind = isBin, token.BinInt
		case 'o', 'O':
			digit, kind = isOct, token.OctInt
		case 'x', 'X':
			digit, kind = isHex, token.HexInt
		}
		// префикс без цифры после него: "0" остаётся DecInt
		if digit != nil && digit(rest[2]) {
			return digitRun(rest, 2, digit), kind
		}
	}

	n := digitRun(rest, 0, isDec)
	if n < len(rest) && rest[n] == '.' {
		frac := digitRun(rest, n+1, isDec)
		if frac == n+1 {
			return frac, token.IntFloat
		}
		if e := exponent(rest, frac); e > frac {
			return e, token.FloatExp
		}
		return frac, token.Float
	}
	if e := exponent(rest, n); e > n {
		return e, token.IntExp
	}
	return n, token.DecInt
}
