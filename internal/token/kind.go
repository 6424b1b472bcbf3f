package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid is the zero Kind; it is never produced for a successful token.
	Invalid Kind = iota
	// Comment covers a whole line or block comment; its content is not retained.
	Comment

	// KwConst represents the 'const' keyword.
	KwConst // const
	// KwStatic represents the 'static' keyword.
	KwStatic // static
	// KwPub represents the 'pub' keyword.
	KwPub // pub
	// KwMove represents the 'move' keyword.
	KwMove // move

	// KwIf represents the 'if' keyword.
	KwIf // if
	// KwElse represents the 'else' keyword.
	KwElse // else
	// KwWhile represents the 'while' keyword.
	KwWhile // while
	// KwFor represents the 'for' keyword.
	KwFor // for
	// KwDo represents the 'do' keyword.
	KwDo // do
	// KwBreak represents the 'break' keyword.
	KwBreak // break
	// KwContinue represents the 'continue' keyword.
	KwContinue // continue
	// KwReturn represents the 'return' keyword.
	KwReturn // return
	// KwMatch represents the 'match' keyword.
	KwMatch // match
	// KwCase represents the 'case' keyword.
	KwCase // case

	// KwWhere represents the 'where' keyword.
	KwWhere // where
	// KwFn represents the 'fn' keyword.
	KwFn // fn
	// KwStruct represents the 'struct' keyword.
	KwStruct // struct
	// KwEnum represents the 'enum' keyword.
	KwEnum // enum
	// KwVariant represents the 'variant' keyword.
	KwVariant // variant
	// KwUnion represents the 'union' keyword.
	KwUnion // union
	// KwType represents the 'type' keyword.
	KwType // type
	// KwUse represents the 'use' keyword.
	KwUse // use
	// KwMod represents the 'mod' keyword.
	KwMod // mod
	// KwImpl represents the 'impl' keyword.
	KwImpl // impl
	// KwTrait represents the 'trait' keyword.
	KwTrait // trait
	// KwExtern represents the 'extern' keyword.
	KwExtern // extern

	// KwLet represents the 'let' keyword.
	KwLet // let
	// KwAs represents the 'as' keyword.
	KwAs // as

	// Never is the 'never' type literal.
	Never // never
	// Void is the 'void' type literal.
	Void // void
	// IntType is a sized signed integer type (i8, i32, ...); Token.Width holds the bits.
	IntType
	// UintType is a sized unsigned integer type (u8, u64, ...); Token.Width holds the bits.
	UintType
	// FloatType is a sized float type (f32, f64, ...); Token.Width holds the bits.
	FloatType
	// IsizeType is the 'isize' type literal.
	IsizeType // isize
	// UsizeType is the 'usize' type literal.
	UsizeType // usize

	// Ident represents a plain identifier.
	Ident
	// MacroIdent represents an @-prefixed identifier.
	MacroIdent // @name
	// ComptimeIdent represents a #-prefixed identifier.
	ComptimeIdent // #name
	// DirectiveIdent represents a $-prefixed identifier.
	DirectiveIdent // $name

	DecInt // 123, 1_000
	BinInt // 0b1010
	OctInt // 0o755
	HexInt // 0xFF

	Float    // 1.0
	IntFloat // 1.
	FloatExp // 1.0e10
	IntExp   // 1e10

	// String is a quote-delimited string; escapes are kept verbatim.
	String
	// RawString is an r#"..."# literal.
	RawString

	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
	Comma     // ,
	Colon     // :
	Semicolon // ;
	Arrow     // ->

	// Operator is reserved for user-definable operators; Token.Op identifies it.
	Operator

	kindCount
)

// OperatorID identifies an entry of an operator table.
type OperatorID uint32

var kindNames = [...]string{
	Invalid:        "Invalid",
	Comment:        "Comment",
	KwConst:        "KwConst",
	KwStatic:       "KwStatic",
	KwPub:          "KwPub",
	KwMove:         "KwMove",
	KwIf:           "KwIf",
	KwElse:         "KwElse",
	KwWhile:        "KwWhile",
	KwFor:          "KwFor",
	KwDo:           "KwDo",
	KwBreak:        "KwBreak",
	KwContinue:     "KwContinue",
	KwReturn:       "KwReturn",
	KwMatch:        "KwMatch",
	KwCase:         "KwCase",
	KwWhere:        "KwWhere",
	KwFn:           "KwFn",
	KwStruct:       "KwStruct",
	KwEnum:         "KwEnum",
	KwVariant:      "KwVariant",
	KwUnion:        "KwUnion",
	KwType:         "KwType",
	KwUse:          "KwUse",
	KwMod:          "KwMod",
	KwImpl:         "KwImpl",
	KwTrait:        "KwTrait",
	KwExtern:       "KwExtern",
	KwLet:          "KwLet",
	KwAs:           "KwAs",
	Never:          "Never",
	Void:           "Void",
	IntType:        "IntType",
	UintType:       "UintType",
	FloatType:      "FloatType",
	IsizeType:      "IsizeType",
	UsizeType:      "UsizeType",
	Ident:          "Ident",
	MacroIdent:     "MacroIdent",
	ComptimeIdent:  "ComptimeIdent",
	DirectiveIdent: "DirectiveIdent",
	DecInt:         "DecInt",
	BinInt:         "BinInt",
	OctInt:         "OctInt",
	HexInt:         "HexInt",
	Float:          "Float",
	IntFloat:       "IntFloat",
	FloatExp:       "FloatExp",
	IntExp:         "IntExp",
	String:         "String",
	RawString:      "RawString",
	LParen:         "LParen",
	RParen:         "RParen",
	LBrace:         "LBrace",
	RBrace:         "RBrace",
	LBracket:       "LBracket",
	RBracket:       "RBracket",
	Comma:          "Comma",
	Colon:          "Colon",
	Semicolon:      "Semicolon",
	Arrow:          "Arrow",
	Operator:       "Operator",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Kind(?)"
}

// ParseKind is the inverse of Kind.String.
func ParseKind(name string) (Kind, bool) {
	for k := Invalid; k < kindCount; k++ {
		if kindNames[k] == name {
			return k, true
		}
	}
	return Invalid, false
}

// Kinds returns every valid kind except Invalid, in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, int(kindCount)-1)
	for k := Comment; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

func (k Kind) IsKeyword() bool { return k >= KwConst && k <= KwAs }

// IsPrimitiveType covers the type literals, sized or not.
func (k Kind) IsPrimitiveType() bool { return k >= Never && k <= UsizeType }

// IsSizedType reports whether Token.Width carries a bit width.
func (k Kind) IsSizedType() bool { return k == IntType || k == UintType || k == FloatType }

// IsIdent reports whether k is a plain or sigil-prefixed identifier.
func (k Kind) IsIdent() bool { return k >= Ident && k <= DirectiveIdent }

func (k Kind) IsInteger() bool { return k >= DecInt && k <= HexInt }

func (k Kind) IsFloat() bool { return k >= Float && k <= IntExp }

// IsLiteral reports whether k is a numeric or string literal.
func (k Kind) IsLiteral() bool { return k >= DecInt && k <= RawString }

func (k Kind) IsSymbol() bool { return k >= LParen && k <= Arrow }

func (k Kind) IsTrivia() bool { return k == Comment }
