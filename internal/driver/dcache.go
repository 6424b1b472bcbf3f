package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"osta/internal/diag"
	"osta/internal/lexer"
	"osta/internal/source"
	"osta/internal/token"
)

// CacheSchema is the CachedStream layout version; bump it on any change.
const CacheSchema uint16 = 1

// TokenCache хранит готовые потоки токенов по хешу содержимого файла.
// Thread-safe for concurrent access.
type TokenCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedStream is the on-disk form of one lexed file.
type CachedStream struct {
	Schema      uint16
	Path        string
	Hash        Digest
	Unicode     bool
	Tokens      []CachedToken
	Diagnostics []CachedDiagnostic
}

// CachedToken stores a result by offsets; text is re-sliced from the file.
type CachedToken struct {
	Kind  uint8
	Start uint32
	End   uint32
	Width uint64 `msgpack:",omitempty"`
	Op    uint32 `msgpack:",omitempty"`

	Failed  bool   `msgpack:",omitempty"`
	ErrKind uint8  `msgpack:",omitempty"`
	Code    uint16 `msgpack:",omitempty"`
	Cause   string `msgpack:",omitempty"`
}

// CachedDiagnostic stores a diagnostic reported while lexing.
type CachedDiagnostic struct {
	Code     uint16
	Severity uint8
	Start    uint32
	End      uint32
	Message  string
	Fixes    []CachedFix `msgpack:",omitempty"`
}

// CachedFix stores one fix with its edits.
type CachedFix struct {
	Title string
	Edits []CachedEdit
}

// CachedEdit stores one fix edit.
type CachedEdit struct {
	Start   uint32
	End     uint32
	NewText string
}

// OpenTokenCache initializes and returns a token cache at the standard location.
func OpenTokenCache(app string) (*TokenCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewTokenCache(filepath.Join(base, app, "tokens"))
}

// NewTokenCache opens a cache rooted at dir, creating it if needed.
func NewTokenCache(dir string) (*TokenCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &TokenCache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *TokenCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *TokenCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, hex.EncodeToString(key[:])+".mp")
}

// Put serializes and writes a stream to the cache.
func (c *TokenCache) Put(key Digest, stream *CachedStream) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// после успешного Rename файла уже нет
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	enc := msgpack.NewEncoder(f)
	enc.UseCompactInts(true)
	if err = enc.Encode(stream); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a stream from the cache. A missing entry or a
// stream of another schema is a miss, not an error.
func (c *TokenCache) Get(key Digest, out *CachedStream) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("decode %s: %w", f.Name(), err)
	}
	if out.Schema != CacheSchema {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *TokenCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return os.MkdirAll(c.dir, 0o755)
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// encodeStream converts lexer output into its cached form.
func encodeStream(file *source.File, mode lexer.IdentMode, results []lexer.Result, diags []diag.Diagnostic) *CachedStream {
	cs := &CachedStream{
		Schema:  CacheSchema,
		Path:    file.Path,
		Hash:    file.Hash,
		Unicode: mode == lexer.IdentUnicode,
		Tokens:  make([]CachedToken, 0, len(results)),
	}
	for _, r := range results {
		sp := r.Span()
		ct := CachedToken{Start: sp.Start, End: sp.End}
		var lexErr *lexer.Error
		if errors.As(r.Err, &lexErr) {
			ct.Failed = true
			ct.ErrKind = uint8(lexErr.Kind)
			ct.Code = uint16(lexErr.Code())
			if lexErr.Err != nil {
				ct.Cause = lexErr.Err.Error()
			}
		} else {
			ct.Kind = uint8(r.Token.Kind)
			ct.Width = r.Token.Width
			ct.Op = uint32(r.Token.Op)
		}
		cs.Tokens = append(cs.Tokens, ct)
	}
	for _, d := range diags {
		cd := CachedDiagnostic{
			Code:     uint16(d.Code),
			Severity: uint8(d.Severity),
			Start:    d.Primary.Start,
			End:      d.Primary.End,
			Message:  d.Message,
		}
		for _, fix := range d.Fixes {
			cf := CachedFix{Title: fix.Title}
			for _, e := range fix.Edits {
				cf.Edits = append(cf.Edits, CachedEdit{Start: e.Span.Start, End: e.Span.End, NewText: e.NewText})
			}
			cd.Fixes = append(cd.Fixes, cf)
		}
		cs.Diagnostics = append(cs.Diagnostics, cd)
	}
	return cs
}

// decode rebuilds results and diagnostics against file. It fails when the
// stream was written for other content.
func (cs *CachedStream) decode(file *source.File) ([]lexer.Result, []diag.Diagnostic, error) {
	if cs.Hash != file.Hash {
		return nil, nil, fmt.Errorf("cached stream for %s has a stale hash", cs.Path)
	}
	size, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return nil, nil, fmt.Errorf("file too large: %w", err)
	}
	span := func(start, end uint32) (source.Span, error) {
		if start > end || end > size {
			return source.Span{}, fmt.Errorf("cached span %d..%d out of range", start, end)
		}
		return source.Span{File: file.ID, Start: start, End: end}, nil
	}

	results := make([]lexer.Result, 0, len(cs.Tokens))
	for _, ct := range cs.Tokens {
		sp, err := span(ct.Start, ct.End)
		if err != nil {
			return nil, nil, err
		}
		text := string(file.Content[sp.Start:sp.End])
		if ct.Failed {
			var cause error
			if ct.Cause != "" {
				cause = errors.New(ct.Cause)
			}
			lexErr := lexer.NewError(lexer.ErrorKind(ct.ErrKind), sp, text, cause, diag.Code(ct.Code))
			results = append(results, lexer.Result{Err: lexErr})
			continue
		}
		results = append(results, lexer.Result{Token: token.Token{
			Kind:  token.Kind(ct.Kind),
			Span:  sp,
			Text:  text,
			Width: ct.Width,
			Op:    token.OperatorID(ct.Op),
		}})
	}

	diags := make([]diag.Diagnostic, 0, len(cs.Diagnostics))
	for _, cd := range cs.Diagnostics {
		sp, err := span(cd.Start, cd.End)
		if err != nil {
			return nil, nil, err
		}
		d := diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code), sp, cd.Message)
		for _, cf := range cd.Fixes {
			edits := make([]diag.FixEdit, 0, len(cf.Edits))
			for _, ce := range cf.Edits {
				esp, err := span(ce.Start, ce.End)
				if err != nil {
					return nil, nil, err
				}
				edits = append(edits, diag.FixEdit{Span: esp, NewText: ce.NewText})
			}
			d = d.WithFix(cf.Title, edits...)
		}
		diags = append(diags, d)
	}
	return results, diags, nil
}
