//go:build !osta_unicode

package lexer

// DefaultIdentMode is the identifier mode of DefaultOptions.
// Build with -tags osta_unicode to switch it to IdentUnicode.
const DefaultIdentMode = IdentASCII
