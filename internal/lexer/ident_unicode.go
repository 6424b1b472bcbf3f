//go:build osta_unicode

package lexer

// DefaultIdentMode is the identifier mode of DefaultOptions.
const DefaultIdentMode = IdentUnicode
