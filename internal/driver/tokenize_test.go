package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osta/internal/diag"
	"osta/internal/driver"
	"osta/internal/lexer"
	"osta/internal/source"
	"osta/internal/token"
	"osta/internal/trace"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func kinds(results []lexer.Result) []token.Kind {
	out := make([]token.Kind, 0, len(results))
	for _, r := range results {
		if r.OK() {
			out = append(out, r.Token.Kind)
		} else {
			out = append(out, token.Invalid)
		}
	}
	return out
}

func TestTokenize(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main.osta", "fn main() { let x: i32 }")

	res, err := driver.Tokenize(context.Background(), path, driver.Options{MaxDiagnostics: 10})
	require.NoError(t, err)

	assert.Equal(t, []token.Kind{
		token.KwFn, token.Ident, token.LParen, token.RParen, token.LBrace,
		token.KwLet, token.Ident, token.Colon, token.IntType, token.RBrace,
	}, kinds(res.Results))
	assert.Zero(t, res.ErrorCount())
	assert.False(t, res.Cached)
	assert.Equal(t, path, res.File.Path)
}

func TestTokenizeReportsErrors(t *testing.T) {
	path := writeFile(t, t.TempDir(), "open.osta", "let s = \"open")

	res, err := driver.Tokenize(context.Background(), path, driver.Options{MaxDiagnostics: 10})
	require.NoError(t, err)
	require.Equal(t, 1, res.ErrorCount())

	items := res.Bag.Items()
	require.Len(t, items, 1)
	assert.Equal(t, diag.LexUnterminatedString, items[0].Code)
	require.Len(t, items[0].Fixes, 1)
	assert.Equal(t, `"`, items[0].Fixes[0].Edits[0].NewText)

	last := res.Results[len(res.Results)-1]
	assert.ErrorIs(t, last.Err, lexer.ErrUnknownToken)
}

func TestTokenizeMissingFile(t *testing.T) {
	_, err := driver.Tokenize(context.Background(), filepath.Join(t.TempDir(), "nope.osta"), driver.Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTokenizeSkipComments(t *testing.T) {
	path := writeFile(t, t.TempDir(), "c.osta", "// head\nx /* mid */ y")

	res, err := driver.Tokenize(context.Background(), path, driver.Options{SkipComments: true})
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{token.Ident, token.Ident}, kinds(res.Results))

	res, err = driver.Tokenize(context.Background(), path, driver.Options{})
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{token.Comment, token.Ident, token.Comment, token.Ident}, kinds(res.Results))
}

func TestTokenizeIdentifierModes(t *testing.T) {
	path := writeFile(t, t.TempDir(), "u.osta", "имя")

	res, err := driver.Tokenize(context.Background(), path, driver.Options{Identifiers: lexer.IdentUnicode})
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{token.Ident}, kinds(res.Results))

	res, err = driver.Tokenize(context.Background(), path, driver.Options{Identifiers: lexer.IdentASCII, MaxDiagnostics: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, res.ErrorCount(), "one unknown token per rune")
}

func TestTokenizeErrorCountIgnoresDiagnosticLimit(t *testing.T) {
	path := writeFile(t, t.TempDir(), "many.osta", "` ` ` `")

	res, err := driver.Tokenize(context.Background(), path, driver.Options{MaxDiagnostics: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, res.ErrorCount())
	assert.Equal(t, 2, res.Bag.Len())
}

func TestTokenizeTimings(t *testing.T) {
	path := writeFile(t, t.TempDir(), "t.osta", "a b c")

	res, err := driver.Tokenize(context.Background(), path, driver.Options{Timings: true})
	require.NoError(t, err)
	items := res.Bag.Items()
	require.Len(t, items, 1, "timings grow the bag past a zero limit")
	assert.Equal(t, diag.ObsTimings, items[0].Code)
	assert.Equal(t, diag.SevInfo, items[0].Severity)
	assert.Contains(t, items[0].Message, "3 tokens")
	require.Len(t, items[0].Notes, 1)
	assert.Contains(t, items[0].Notes[0].Msg, `"kind":"tokenize"`)
}

func TestTokenizeEmitsTraceSpans(t *testing.T) {
	path := writeFile(t, t.TempDir(), "tr.osta", "x")
	ring := trace.NewRing(64, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)

	cache, err := driver.NewTokenCache(t.TempDir())
	require.NoError(t, err)
	res, err := driver.Tokenize(ctx, path, driver.Options{Cache: cache})
	require.NoError(t, err)

	var fileEnd *trace.Event
	var cacheNames []string
	events := ring.Snapshot()
	for i := range events {
		switch {
		case events[i].Kind == trace.KindEnd && events[i].Scope == trace.ScopeFile:
			fileEnd = &events[i]
		case events[i].Scope == trace.ScopeCache:
			cacheNames = append(cacheNames, events[i].Name)
		}
	}
	require.NotNil(t, fileEnd, "no file span in %v", events)
	assert.Equal(t, "lex", fileEnd.Name)
	assert.Equal(t, []trace.Attr{
		trace.String("file", res.File.Path),
		trace.Int("tokens", 1),
		trace.Int("errors", 0),
		trace.Bool("cached", false),
	}, fileEnd.Attrs)
	assert.NotZero(t, fileEnd.ParentID, "file span nests under the command span")
	assert.Equal(t, []string{"miss", "store"}, cacheNames)
}

func TestTokenizeReader(t *testing.T) {
	res, err := driver.TokenizeReader(context.Background(), source.StdinName, strings.NewReader("// hi\r\nu8"), driver.Options{SkipComments: true})
	require.NoError(t, err)
	assert.Equal(t, source.StdinName, res.File.Path)
	assert.NotZero(t, res.File.Flags&source.FileVirtual)
	assert.Equal(t, []token.Kind{token.UintType}, kinds(res.Results))
	assert.Equal(t, uint64(8), res.Results[0].Token.Width)
}
