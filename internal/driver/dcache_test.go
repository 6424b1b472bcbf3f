package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osta/internal/diag"
	"osta/internal/driver"
	"osta/internal/lexer"
)

func openCache(t *testing.T) *driver.TokenCache {
	t.Helper()
	c, err := driver.NewTokenCache(filepath.Join(t.TempDir(), "tokens"))
	require.NoError(t, err)
	return c
}

func cacheEntries(t *testing.T, c *driver.TokenCache) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(c.Dir(), "*.mp"))
	require.NoError(t, err)
	return matches
}

func TestTokenCacheRoundTrip(t *testing.T) {
	cache := openCache(t)
	path := writeFile(t, t.TempDir(), "main.osta", "@m i64 0x1F r#\"raw\"# 1.5e3 ` \"open")
	opts := driver.Options{MaxDiagnostics: 10, Cache: cache}

	first, err := driver.Tokenize(context.Background(), path, opts)
	require.NoError(t, err)
	require.False(t, first.Cached)
	require.Len(t, cacheEntries(t, cache), 1)

	second, err := driver.Tokenize(context.Background(), path, opts)
	require.NoError(t, err)
	require.True(t, second.Cached)

	require.Len(t, second.Results, len(first.Results))
	for i := range first.Results {
		a, b := first.Results[i], second.Results[i]
		assert.Equal(t, a.OK(), b.OK(), "result %d", i)
		assert.Equal(t, a.Span(), b.Span(), "result %d", i)
		if a.OK() {
			assert.Equal(t, a.Token, b.Token, "result %d", i)
			continue
		}
		var ea, eb *lexer.Error
		require.ErrorAs(t, a.Err, &ea)
		require.ErrorAs(t, b.Err, &eb)
		assert.Equal(t, ea.Kind, eb.Kind)
		assert.Equal(t, ea.Code(), eb.Code())
		assert.Equal(t, ea.Text, eb.Text)
	}

	assert.Equal(t, first.Bag.Items(), second.Bag.Items())
	codes := make([]diag.Code, 0, second.Bag.Len())
	for _, d := range second.Bag.Items() {
		codes = append(codes, d.Code)
	}
	assert.Equal(t, []diag.Code{diag.LexUnknownToken, diag.LexUnterminatedString}, codes)
}

func TestTokenCacheKeyedByIdentifierMode(t *testing.T) {
	cache := openCache(t)
	path := writeFile(t, t.TempDir(), "u.osta", "имя")

	_, err := driver.Tokenize(context.Background(), path, driver.Options{Cache: cache, Identifiers: lexer.IdentUnicode})
	require.NoError(t, err)

	res, err := driver.Tokenize(context.Background(), path, driver.Options{Cache: cache, Identifiers: lexer.IdentASCII})
	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.Equal(t, 3, res.ErrorCount())
	assert.Len(t, cacheEntries(t, cache), 2)
}

func TestTokenCacheCorruptEntry(t *testing.T) {
	cache := openCache(t)
	path := writeFile(t, t.TempDir(), "c.osta", "a b")
	opts := driver.Options{MaxDiagnostics: 10, Cache: cache}

	_, err := driver.Tokenize(context.Background(), path, opts)
	require.NoError(t, err)
	entries := cacheEntries(t, cache)
	require.Len(t, entries, 1)
	require.NoError(t, os.WriteFile(entries[0], []byte{0xc1, 0xff, 0x00}, 0o600))

	res, err := driver.Tokenize(context.Background(), path, opts)
	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.Len(t, res.Results, 2)

	items := res.Bag.Items()
	require.NotEmpty(t, items)
	assert.Equal(t, diag.IOCacheFailure, items[0].Code)
	assert.Equal(t, diag.SevWarning, items[0].Severity)
	assert.False(t, res.Bag.HasErrors())
}

func TestTokenCacheDropAll(t *testing.T) {
	cache := openCache(t)
	path := writeFile(t, t.TempDir(), "d.osta", "x")
	opts := driver.Options{Cache: cache}

	_, err := driver.Tokenize(context.Background(), path, opts)
	require.NoError(t, err)
	require.Len(t, cacheEntries(t, cache), 1)

	require.NoError(t, cache.DropAll())
	assert.Empty(t, cacheEntries(t, cache))

	res, err := driver.Tokenize(context.Background(), path, opts)
	require.NoError(t, err)
	assert.False(t, res.Cached)
}

func TestTokenCacheMissingEntry(t *testing.T) {
	cache := openCache(t)
	var cs driver.CachedStream
	ok, err := cache.Get(driver.Digest{1, 2, 3}, &cs)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNilTokenCache(t *testing.T) {
	var cache *driver.TokenCache
	ok, err := cache.Get(driver.Digest{}, &driver.CachedStream{})
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, cache.Put(driver.Digest{}, &driver.CachedStream{}))
	assert.NoError(t, cache.DropAll())
}

func TestOpenTokenCacheUsesXDG(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)

	cache, err := driver.OpenTokenCache("osta")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "osta", "tokens"), cache.Dir())
	assert.DirExists(t, cache.Dir())
}
