package lexer_test

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"osta/internal/diag"
	"osta/internal/lexer"
	"osta/internal/source"
	"osta/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

// Report реализует интерфейс diag.Reporter
func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
		Fixes:    fixes,
	})
}

func (r *testReporter) codes() []string {
	out := make([]string, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		out = append(out, d.Code.ID())
	}
	return out
}

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string, opts lexer.Options) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.osta", []byte(input))
	file := fs.Get(fileID)

	reporter := &testReporter{}
	opts.Reporter = reporter
	return lexer.New(file, opts), reporter
}

// expectation is one expected pull result; isErr selects the error branch.
type expectation struct {
	kind   token.Kind
	text   string
	isErr  bool
	errKnd lexer.ErrorKind
}

func tok(kind token.Kind, text string) expectation {
	return expectation{kind: kind, text: text}
}

func lexErr(kind lexer.ErrorKind, text string) expectation {
	return expectation{isErr: true, errKnd: kind, text: text}
}

func unknown(text string) expectation { return lexErr(lexer.UnknownToken, text) }

func describe(res lexer.Result) string {
	if res.Err != nil {
		return fmt.Sprintf("error(%v)", res.Err)
	}
	return fmt.Sprintf("%s(%q)", res.Token.Kind, res.Token.Text)
}

// expectStream lexes the trimmed input and compares every result, then
// checks that the stream is exhausted.
func expectStream(t *testing.T, opts lexer.Options, input string, want ...expectation) {
	t.Helper()
	lx, _ := makeTestLexer(strings.TrimSpace(input), opts)
	for i, w := range want {
		res, ok := lx.Next()
		if !ok {
			t.Fatalf("result %d: unexpected end of input, want %s %q", i, w.kind, w.text)
		}
		if w.isErr {
			var lexE *lexer.Error
			if !errors.As(res.Err, &lexE) {
				t.Fatalf("result %d: got %s, want error %q", i, describe(res), w.text)
			}
			if lexE.Kind != w.errKnd || lexE.Text != w.text {
				t.Fatalf("result %d: got error %v %q, want %v %q", i, lexE.Kind, lexE.Text, w.errKnd, w.text)
			}
			continue
		}
		if res.Err != nil {
			t.Fatalf("result %d: unexpected error %v, want %s(%q)", i, res.Err, w.kind, w.text)
		}
		if res.Token.Kind != w.kind || res.Token.Text != w.text {
			t.Fatalf("result %d: got %s, want %s(%q)", i, describe(res), w.kind, w.text)
		}
	}
	if res, ok := lx.Next(); ok {
		t.Fatalf("expected end of input, got %s", describe(res))
	}
}

var ascii = lexer.Options{Identifiers: lexer.IdentASCII}

func TestEmpty(t *testing.T) {
	expectStream(t, ascii, "")
	expectStream(t, ascii, " \t\r\n\f ")
}

func TestComments(t *testing.T) {
	expectStream(t, ascii, "// this is a comment", tok(token.Comment, "// this is a comment"))

	block := "/*\n        this is a comment\n        */"
	expectStream(t, ascii, block, tok(token.Comment, block))

	nested := `/*
        this is the start of a comment
        /* this is a comment inside a comment */
        this is the end of a comment
        */`
	expectStream(t, ascii, nested, tok(token.Comment, nested))

	expectStream(t, ascii, "/* a /* b */ c */", tok(token.Comment, "/* a /* b */ c */"))
	expectStream(t, ascii, "/**/", tok(token.Comment, "/**/"))
	// "*/*" закрывает уровень и тут же открывает новый
	expectStream(t, ascii, "/* /* a */* b */ */", tok(token.Comment, "/* /* a */* b */ */"))
}

func TestComments_LineStopsAtNewline(t *testing.T) {
	expectStream(t, ascii, "// one\r\nfoo // two\nbar",
		tok(token.Comment, "// one"),
		tok(token.Ident, "foo"),
		tok(token.Comment, "// two"),
		tok(token.Ident, "bar"),
	)
}

func TestComments_Unterminated(t *testing.T) {
	input := "/* open /* nested */ still open"
	expectStream(t, ascii, input, lexErr(lexer.UnterminatedBlockComment, input))

	lx, rep := makeTestLexer(input, ascii)
	res, ok := lx.Next()
	if !ok || !errors.Is(res.Err, lexer.ErrUnterminatedBlockComment) {
		t.Fatalf("expected ErrUnterminatedBlockComment, got %v", res.Err)
	}
	if errors.Is(res.Err, lexer.ErrUnknownToken) {
		t.Fatalf("block comment error must not match ErrUnknownToken")
	}
	if got := rep.codes(); len(got) != 1 || got[0] != "LEX1003" {
		t.Fatalf("unexpected diagnostics: %v", got)
	}
	if fixes := rep.diagnostics[0].Fixes; len(fixes) != 1 || fixes[0].Edits[0].NewText != "*/" {
		t.Fatalf("expected closing fix, got %+v", fixes)
	}
}

func TestKeywords(t *testing.T) {
	expectStream(t, ascii, "const static pub",
		tok(token.KwConst, "const"),
		tok(token.KwStatic, "static"),
		tok(token.KwPub, "pub"),
	)

	words := []struct {
		text string
		kind token.Kind
	}{
		{"move", token.KwMove}, {"if", token.KwIf}, {"else", token.KwElse},
		{"while", token.KwWhile}, {"for", token.KwFor}, {"do", token.KwDo},
		{"break", token.KwBreak}, {"continue", token.KwContinue}, {"return", token.KwReturn},
		{"match", token.KwMatch}, {"case", token.KwCase}, {"where", token.KwWhere},
		{"fn", token.KwFn}, {"struct", token.KwStruct}, {"enum", token.KwEnum},
		{"variant", token.KwVariant}, {"union", token.KwUnion}, {"type", token.KwType},
		{"use", token.KwUse}, {"mod", token.KwMod}, {"impl", token.KwImpl},
		{"trait", token.KwTrait}, {"extern", token.KwExtern}, {"let", token.KwLet},
		{"as", token.KwAs},
	}
	for _, w := range words {
		t.Run(w.text, func(t *testing.T) {
			expectStream(t, ascii, w.text, tok(w.kind, w.text))
			expectStream(t, ascii, w.text+"_", tok(token.Ident, w.text+"_"))
			expectStream(t, ascii, strings.ToUpper(w.text), tok(token.Ident, strings.ToUpper(w.text)))
		})
	}
}

func TestPrimitives(t *testing.T) {
	input := "never void i1 i8 i16 i31 i32 i64 i128 isize u1 u8 u16 u31 u32 u64 u128 usize f16 f32 f64"
	lx, _ := makeTestLexer(input, ascii)

	want := []struct {
		kind  token.Kind
		width uint64
	}{
		{token.Never, 0}, {token.Void, 0},
		{token.IntType, 1}, {token.IntType, 8}, {token.IntType, 16}, {token.IntType, 31},
		{token.IntType, 32}, {token.IntType, 64}, {token.IntType, 128}, {token.IsizeType, 0},
		{token.UintType, 1}, {token.UintType, 8}, {token.UintType, 16}, {token.UintType, 31},
		{token.UintType, 32}, {token.UintType, 64}, {token.UintType, 128}, {token.UsizeType, 0},
		{token.FloatType, 16}, {token.FloatType, 32}, {token.FloatType, 64},
	}
	for i, w := range want {
		res, ok := lx.Next()
		if !ok || !res.OK() {
			t.Fatalf("token %d: got %v ok=%v", i, res.Err, ok)
		}
		if res.Token.Kind != w.kind || res.Token.Width != w.width {
			t.Errorf("token %d %q: got %s/%d, want %s/%d", i, res.Token.Text, res.Token.Kind, res.Token.Width, w.kind, w.width)
		}
	}
	if _, ok := lx.Next(); ok {
		t.Fatal("expected end of input")
	}
}

func TestSizedTypes_EdgeCases(t *testing.T) {
	expectStream(t, ascii, "u0 f00 i32_ x32 i", tok(token.Ident, "u0"), tok(token.Ident, "f00"),
		tok(token.Ident, "i32_"), tok(token.Ident, "x32"), tok(token.Ident, "i"))

	lx, _ := makeTestLexer("i007 u18446744073709551615", ascii)
	res, _ := lx.Next()
	if res.Token.Kind != token.IntType || res.Token.Width != 7 {
		t.Fatalf("i007: got %s/%d", res.Token.Kind, res.Token.Width)
	}
	res, _ = lx.Next()
	if res.Token.Kind != token.UintType || res.Token.Width != 18446744073709551615 {
		t.Fatalf("max width: got %s/%d", res.Token.Kind, res.Token.Width)
	}
}

func TestSizedTypes_WidthOverflow(t *testing.T) {
	input := "u18446744073709551616 next"
	expectStream(t, ascii, input,
		lexErr(lexer.InvalidInteger, "u18446744073709551616"),
		tok(token.Ident, "next"),
	)

	lx, rep := makeTestLexer(input, ascii)
	res, _ := lx.Next()
	if !errors.Is(res.Err, lexer.ErrInvalidInteger) {
		t.Fatalf("expected ErrInvalidInteger, got %v", res.Err)
	}
	var numErr *strconv.NumError
	if !errors.As(res.Err, &numErr) || !errors.Is(numErr.Err, strconv.ErrRange) {
		t.Fatalf("expected wrapped strconv range error, got %v", res.Err)
	}
	if got := rep.codes(); len(got) != 1 || got[0] != "LEX1004" {
		t.Fatalf("unexpected diagnostics: %v", got)
	}
}

func TestIdentifiers(t *testing.T) {
	expectStream(t, ascii, "foo _foo foo123 i32_ @macro_name #comptime_name $directive_name",
		tok(token.Ident, "foo"),
		tok(token.Ident, "_foo"),
		tok(token.Ident, "foo123"),
		tok(token.Ident, "i32_"),
		tok(token.MacroIdent, "@macro_name"),
		tok(token.ComptimeIdent, "#comptime_name"),
		tok(token.DirectiveIdent, "$directive_name"),
	)
}

func TestIdentifiers_Sigils(t *testing.T) {
	expectStream(t, ascii, "@ # foo $1 @_ #const",
		unknown("@"),
		unknown("#"),
		tok(token.Ident, "foo"),
		unknown("$"),
		tok(token.DecInt, "1"),
		tok(token.MacroIdent, "@_"),
		tok(token.ComptimeIdent, "#const"),
	)
}

func TestIdentifiers_Unicode(t *testing.T) {
	unicode := lexer.Options{Identifiers: lexer.IdentUnicode}
	expectStream(t, unicode, "héllo π _ünder @größe x٣",
		tok(token.Ident, "héllo"),
		tok(token.Ident, "π"),
		tok(token.Ident, "_ünder"),
		tok(token.MacroIdent, "@größe"),
		tok(token.Ident, "x٣"),
	)
	// в ASCII режиме не-ASCII буква даёт неизвестный токен ровно в одну руну
	expectStream(t, ascii, "héllo",
		tok(token.Ident, "h"),
		unknown("é"),
		tok(token.Ident, "llo"),
	)
	// цифры не начинают идентификатор ни в каком режиме
	expectStream(t, unicode, "٣", unknown("٣"))
}

func TestIntegers(t *testing.T) {
	input := `
        123           1_2_3             1__2__3  _123    123_
        0b1010 0B1010 0b10_10 0B1_0_1_0 0b10__10 0B_1010 0b1010_
        0o7755 0O7755 0o77_55 0O7_7_5_5 0o77__55 0O_7755 0o7755_
        0xAA55 0XAA55 0xAA_55 0XA_A_5_5 0xAA__55 0X_AA55 0xAA55_
        `
	expectStream(t, ascii, input,
		tok(token.DecInt, "123"),
		tok(token.DecInt, "1_2_3"),
		tok(token.DecInt, "1__2__3"),
		tok(token.Ident, "_123"),
		tok(token.DecInt, "123"),
		tok(token.Ident, "_"),
		tok(token.BinInt, "0b1010"),
		tok(token.BinInt, "0B1010"),
		tok(token.BinInt, "0b10_10"),
		tok(token.BinInt, "0B1_0_1_0"),
		tok(token.BinInt, "0b10__10"),
		tok(token.DecInt, "0"),
		tok(token.Ident, "B_1010"),
		tok(token.BinInt, "0b1010"),
		tok(token.Ident, "_"),
		tok(token.OctInt, "0o7755"),
		tok(token.OctInt, "0O7755"),
		tok(token.OctInt, "0o77_55"),
		tok(token.OctInt, "0O7_7_5_5"),
		tok(token.OctInt, "0o77__55"),
		tok(token.DecInt, "0"),
		tok(token.Ident, "O_7755"),
		tok(token.OctInt, "0o7755"),
		tok(token.Ident, "_"),
		tok(token.HexInt, "0xAA55"),
		tok(token.HexInt, "0XAA55"),
		tok(token.HexInt, "0xAA_55"),
		tok(token.HexInt, "0XA_A_5_5"),
		tok(token.HexInt, "0xAA__55"),
		tok(token.DecInt, "0"),
		tok(token.Ident, "X_AA55"),
		tok(token.HexInt, "0xAA55"),
		tok(token.Ident, "_"),
	)
}

func TestIntegers_RadixEdges(t *testing.T) {
	expectStream(t, ascii, "0b 0b2 0o8 0xfg 00b1",
		tok(token.DecInt, "0"), tok(token.Ident, "b"),
		tok(token.DecInt, "0"), tok(token.Ident, "b2"),
		tok(token.DecInt, "0"), tok(token.Ident, "o8"),
		tok(token.HexInt, "0xf"), tok(token.Ident, "g"),
		tok(token.DecInt, "00"), tok(token.Ident, "b1"),
	)
}

func TestFloats(t *testing.T) {
	input := `
        1.0 1.
        1.0e10  1.0E10  1.0e-10  1.0E-10  1.0e+10  1.0E+10
        _1.0e10 1_.0E10 1._0e-10 1.0_E-10 1.0e+_10 1.0E+10_
        1e10    1E10    1e-10    1E-10    1e+10    1E+10
        _1e10   1_E10   1e-_10   1E-1_0   1e+10_   1E_10
        `
	expectStream(t, ascii, input,
		tok(token.Float, "1.0"),
		tok(token.IntFloat, "1."),
		tok(token.FloatExp, "1.0e10"),
		tok(token.FloatExp, "1.0E10"),
		tok(token.FloatExp, "1.0e-10"),
		tok(token.FloatExp, "1.0E-10"),
		tok(token.FloatExp, "1.0e+10"),
		tok(token.FloatExp, "1.0E+10"),
		tok(token.Ident, "_1"),
		unknown("."),
		tok(token.IntExp, "0e10"),
		tok(token.DecInt, "1"),
		tok(token.Ident, "_"),
		unknown("."),
		tok(token.IntExp, "0E10"),
		tok(token.IntFloat, "1."),
		tok(token.Ident, "_0e"),
		unknown("-"),
		tok(token.DecInt, "10"),
		tok(token.Float, "1.0"),
		tok(token.Ident, "_E"),
		unknown("-"),
		tok(token.DecInt, "10"),
		tok(token.Float, "1.0"),
		tok(token.Ident, "e"),
		unknown("+"),
		tok(token.Ident, "_10"),
		tok(token.FloatExp, "1.0E+10"),
		tok(token.Ident, "_"),
		tok(token.IntExp, "1e10"),
		tok(token.IntExp, "1E10"),
		tok(token.IntExp, "1e-10"),
		tok(token.IntExp, "1E-10"),
		tok(token.IntExp, "1e+10"),
		tok(token.IntExp, "1E+10"),
		tok(token.Ident, "_1e10"),
		tok(token.DecInt, "1"),
		tok(token.Ident, "_E10"),
		tok(token.DecInt, "1"),
		tok(token.Ident, "e"),
		unknown("-"),
		tok(token.Ident, "_10"),
		tok(token.IntExp, "1E-1_0"),
		tok(token.IntExp, "1e+10"),
		tok(token.Ident, "_"),
		tok(token.DecInt, "1"),
		tok(token.Ident, "E_10"),
	)
}

func TestFloats_DotEdges(t *testing.T) {
	expectStream(t, ascii, "1.e10 1..2",
		tok(token.IntFloat, "1."),
		tok(token.Ident, "e10"),
		tok(token.IntFloat, "1."),
		unknown("."),
		tok(token.DecInt, "2"),
	)
}

func TestStrings(t *testing.T) {
	input := `
        "this is a string" "this is a \"string\" with escapes" ""
        r#"this is a raw string"#
        r##"this is a raw string with "# in it"##
        r###"this is a raw string with ##" in it"###
        `
	expectStream(t, ascii, input,
		tok(token.String, `"this is a string"`),
		tok(token.String, `"this is a \"string\" with escapes"`),
		tok(token.String, `""`),
		tok(token.RawString, `r#"this is a raw string"#`),
		tok(token.RawString, `r##"this is a raw string with "# in it"##`),
		tok(token.RawString, `r###"this is a raw string with ##" in it"###`),
	)
}

func TestStrings_LongestMatch(t *testing.T) {
	// кавычка после '\' может как закрыть литерал, так и продолжить его
	expectStream(t, ascii, `"a\" b`, tok(token.String, `"a\"`), tok(token.Ident, "b"))
	expectStream(t, ascii, `"a\" "b"`, tok(token.String, `"a\" "`), tok(token.Ident, "b"), unknown(`"`))
	expectStream(t, ascii, `"a\\" x`, tok(token.String, `"a\\"`), tok(token.Ident, "x"))
	expectStream(t, ascii, "\"multi\nline\"", tok(token.String, "\"multi\nline\""))
}

func TestStrings_Open(t *testing.T) {
	expectStream(t, ascii, `"this is an open string`,
		unknown(`"`),
		tok(token.Ident, "this"),
		tok(token.Ident, "is"),
		tok(token.Ident, "an"),
		tok(token.Ident, "open"),
		tok(token.Ident, "string"),
	)

	lx, rep := makeTestLexer(`"open`, ascii)
	lx.All()
	if got := rep.codes(); len(got) != 1 || got[0] != "LEX1002" {
		t.Fatalf("unexpected diagnostics: %v", got)
	}
}

func TestRawStrings_Open(t *testing.T) {
	input := `r#"this is a raw string without end"`
	expectStream(t, ascii, input, unknown(input))

	lx, rep := makeTestLexer(input, ascii)
	res, _ := lx.Next()
	if !errors.Is(res.Err, lexer.ErrUnknownToken) {
		t.Fatalf("expected ErrUnknownToken, got %v", res.Err)
	}
	if got := rep.codes(); len(got) != 1 || got[0] != "LEX1006" {
		t.Fatalf("unexpected diagnostics: %v", got)
	}
	fix := rep.diagnostics[0].Fixes[0].Edits[0]
	if fix.NewText != `"#` || fix.Span.Start != uint32(len(input)) {
		t.Fatalf("unexpected fix: %+v", fix)
	}
}

func TestRawStrings_Variants(t *testing.T) {
	expectStream(t, ascii, `r"plain" r x r#y r#"a\"#"# r#"\\"#`,
		tok(token.RawString, `r"plain"`),
		tok(token.Ident, "r"),
		tok(token.Ident, "x"),
		tok(token.Ident, "r"),
		tok(token.ComptimeIdent, "#y"),
		tok(token.RawString, `r#"a\"#"#`),
		tok(token.RawString, `r#"\\"#`),
	)
	expectStream(t, ascii, `r"ünïcödé"`, tok(token.RawString, `r"ünïcödé"`))
	expectStream(t, ascii, `raw`, tok(token.Ident, "raw"))
}

func TestSymbols(t *testing.T) {
	input := `
        ( ) { } [ ]
        , : ;
        ->
        `
	expectStream(t, ascii, input,
		tok(token.LParen, "("),
		tok(token.RParen, ")"),
		tok(token.LBrace, "{"),
		tok(token.RBrace, "}"),
		tok(token.LBracket, "["),
		tok(token.RBracket, "]"),
		tok(token.Comma, ","),
		tok(token.Colon, ":"),
		tok(token.Semicolon, ";"),
		tok(token.Arrow, "->"),
	)
	expectStream(t, ascii, "- > -->", unknown("-"), unknown(">"), unknown("-"), tok(token.Arrow, "->"))
}

func TestUnknown_OneRune(t *testing.T) {
	expectStream(t, ascii, "€a\xffb",
		unknown("€"),
		tok(token.Ident, "a"),
		unknown("\xff"),
		tok(token.Ident, "b"),
	)
}

func TestOperatorHook(t *testing.T) {
	ops := lexer.OperatorMatcherFunc(func(rest []byte) (int, token.OperatorID, bool) {
		switch {
		case strings.HasPrefix(string(rest), "++"):
			return 2, 2, true
		case strings.HasPrefix(string(rest), "+"):
			return 1, 1, true
		case strings.HasPrefix(string(rest), "("):
			return 1, 99, true
		}
		return 0, 0, false
	})
	opts := lexer.Options{Operators: ops}
	expectStream(t, opts, "a ++ b + ( -",
		tok(token.Ident, "a"),
		tok(token.Operator, "++"),
		tok(token.Ident, "b"),
		tok(token.Operator, "+"),
		tok(token.LParen, "("),
		unknown("-"),
	)

	lx, _ := makeTestLexer("++", opts)
	res, _ := lx.Next()
	if res.Token.Op != 2 {
		t.Fatalf("expected operator id 2, got %d", res.Token.Op)
	}
}

func TestSpanRoundTrip(t *testing.T) {
	input := "fn main() -> i32 { let x = 0x1F; /* c */ r#\"raw\"# \"s\" @m 1.5e3 } // end"
	lx, _ := makeTestLexer(input, ascii)
	for _, res := range lx.All() {
		sp := res.Span()
		got := input[sp.Start:sp.End]
		if res.OK() {
			if got != res.Token.Text || lx.Slice(res.Token) != got {
				t.Errorf("span %s: %q != %q", sp, got, res.Token.Text)
			}
			continue
		}
		var lexE *lexer.Error
		if !errors.As(res.Err, &lexE) || lexE.Text != got {
			t.Errorf("error span %s: %q != %v", sp, got, res.Err)
		}
	}
}

func TestDiagnosticsMatchErrors(t *testing.T) {
	lx, rep := makeTestLexer("a ? b \"c", ascii)
	var errs []error
	for _, res := range lx.All() {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	if len(errs) != len(rep.diagnostics) {
		t.Fatalf("errors %d vs diagnostics %d", len(errs), len(rep.diagnostics))
	}
	for i, err := range errs {
		var lexE *lexer.Error
		if !errors.As(err, &lexE) {
			t.Fatalf("not a *lexer.Error: %v", err)
		}
		if rep.diagnostics[i].Primary != lexE.Span || rep.diagnostics[i].Code != lexE.Code() {
			t.Errorf("diagnostic %d mismatch: %+v vs %v", i, rep.diagnostics[i], lexE)
		}
	}
}

func TestDefaultOptions(t *testing.T) {
	if lexer.DefaultOptions().Identifiers != lexer.DefaultIdentMode {
		t.Fatal("DefaultOptions must use DefaultIdentMode")
	}
}
