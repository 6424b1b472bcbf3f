package driver

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"osta/internal/diag"
	"osta/internal/lexer"
	"osta/internal/source"
	"osta/internal/token"
	"osta/internal/trace"
)

// Options configures Tokenize and TokenizeDir.
type Options struct {
	MaxDiagnostics int
	Identifiers    lexer.IdentMode
	SkipComments   bool        // убрать Comment из результата
	Cache          *TokenCache // nil: без кэша
	Timings        bool        // добавить ObsTimings диагностику на файл
	Jobs           int         // TokenizeDir only; <= 0 means GOMAXPROCS
	Progress       ProgressSink
}

// TokenizeResult holds the token stream of one file.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Results []lexer.Result
	Bag     *diag.Bag
	Cached  bool
}

// ErrorCount returns the number of failed results, independent of the
// diagnostic limit.
func (r *TokenizeResult) ErrorCount() int {
	if r == nil {
		return 0
	}
	return countErrors(r.Results)
}

// Tokenize loads path and lexes it to completion.
func Tokenize(ctx context.Context, path string, opts Options) (*TokenizeResult, error) {
	ctx, span := trace.Start(ctx, trace.ScopeCommand, "tokenize")
	defer span.End(path)

	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return tokenizeLoaded(ctx, fs, fileID, opts), nil
}

// TokenizeReader lexes everything read from r as a virtual file called name.
func TokenizeReader(ctx context.Context, name string, r io.Reader, opts Options) (*TokenizeResult, error) {
	ctx, span := trace.Start(ctx, trace.ScopeCommand, "tokenize")
	defer span.End(name)

	fs := source.NewFileSet()
	fileID, err := fs.Read(name, r)
	if err != nil {
		return nil, err
	}
	return tokenizeLoaded(ctx, fs, fileID, opts), nil
}

func tokenizeLoaded(ctx context.Context, fs *source.FileSet, fileID source.FileID, opts Options) *TokenizeResult {
	file := fs.Get(fileID)
	bag := diag.NewBag(opts.MaxDiagnostics)
	results, cached := tokenizeFile(ctx, file, bag, opts)
	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Results: results,
		Bag:     bag,
		Cached:  cached,
	}
}

// tokenizeFile lexes file, consulting opts.Cache first, and adds the
// diagnostics to bag.
func tokenizeFile(ctx context.Context, file *source.File, bag *diag.Bag, opts Options) ([]lexer.Result, bool) {
	ctx, span := trace.Start(ctx, trace.ScopeFile, "lex")
	span.Set(trace.String("file", file.Path))
	started := time.Now()

	results, diags, cached := lookupStream(ctx, file, bag, opts)
	if !cached {
		results, diags = lexFile(file, opts.Identifiers)
		storeStream(ctx, file, bag, opts, results, diags)
	}
	for _, d := range diags {
		bag.Add(d)
	}
	if opts.SkipComments {
		results = dropComments(results)
	}

	span.Set(
		trace.Int("tokens", len(results)),
		trace.Int("errors", countErrors(results)),
		trace.Bool("cached", cached),
	).End("")

	if opts.Timings {
		appendTimingDiagnostic(bag, file.ID, timingPayload{
			Path:    file.Path,
			TotalMS: float64(time.Since(started).Microseconds()) / 1000,
			Tokens:  len(results),
			Cached:  cached,
		})
	}
	return results, cached
}

func lexFile(file *source.File, mode lexer.IdentMode) ([]lexer.Result, []diag.Diagnostic) {
	local := diag.NewBag(math.MaxUint16)
	lx := lexer.New(file, lexer.Options{
		Reporter:    diag.BagReporter{Bag: local},
		Identifiers: mode,
	})
	return lx.All(), local.Items()
}

func lookupStream(ctx context.Context, file *source.File, bag *diag.Bag, opts Options) ([]lexer.Result, []diag.Diagnostic, bool) {
	if opts.Cache == nil {
		return nil, nil, false
	}
	var cs CachedStream
	ok, err := opts.Cache.Get(streamKey(file.Hash, opts.Identifiers), &cs)
	if err != nil {
		reportCacheFailure(bag, file, "read", err)
		return nil, nil, false
	}
	if !ok {
		trace.Point(ctx, trace.ScopeCache, "miss", file.Path)
		return nil, nil, false
	}
	results, diags, err := cs.decode(file)
	if err != nil {
		reportCacheFailure(bag, file, "decode", err)
		return nil, nil, false
	}
	trace.Point(ctx, trace.ScopeCache, "hit", file.Path)
	return results, diags, true
}

func storeStream(ctx context.Context, file *source.File, bag *diag.Bag, opts Options, results []lexer.Result, diags []diag.Diagnostic) {
	if opts.Cache == nil {
		return
	}
	cs := encodeStream(file, opts.Identifiers, results, diags)
	if err := opts.Cache.Put(streamKey(file.Hash, opts.Identifiers), cs); err != nil {
		reportCacheFailure(bag, file, "write", err)
		return
	}
	trace.Point(ctx, trace.ScopeCache, "store", file.Path)
}

func reportCacheFailure(bag *diag.Bag, file *source.File, op string, err error) {
	bag.Add(diag.New(diag.SevWarning, diag.IOCacheFailure, source.Span{File: file.ID},
		fmt.Sprintf("token cache %s failed: %v", op, err)))
}

func dropComments(results []lexer.Result) []lexer.Result {
	out := results[:0:0]
	for _, r := range results {
		if r.OK() && r.Token.Kind == token.Comment {
			continue
		}
		out = append(out, r)
	}
	return out
}

func countErrors(results []lexer.Result) int {
	n := 0
	for _, r := range results {
		if !r.OK() {
			n++
		}
	}
	return n
}
