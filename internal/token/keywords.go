package token

var keywords = map[string]Kind{
	"const":    KwConst,
	"static":   KwStatic,
	"pub":      KwPub,
	"move":     KwMove,
	"if":       KwIf,
	"else":     KwElse,
	"while":    KwWhile,
	"for":      KwFor,
	"do":       KwDo,
	"break":    KwBreak,
	"continue": KwContinue,
	"return":   KwReturn,
	"match":    KwMatch,
	"case":     KwCase,
	"where":    KwWhere,
	"fn":       KwFn,
	"struct":   KwStruct,
	"enum":     KwEnum,
	"variant":  KwVariant,
	"union":    KwUnion,
	"type":     KwType,
	"use":      KwUse,
	"mod":      KwMod,
	"impl":     KwImpl,
	"trait":    KwTrait,
	"extern":   KwExtern,
	"let":      KwLet,
	"as":       KwAs,
	"never":    Never,
	"void":     Void,
	"isize":    IsizeType,
	"usize":    UsizeType,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Besides keywords proper it knows the unsized type literals (never, void,
// isize, usize). Lookup is case-sensitive.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// KeywordCount is the number of reserved words LookupKeyword recognizes.
func KeywordCount() int { return len(keywords) }
