package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrInvalidManifest wraps every validation failure of osta.toml.
var ErrInvalidManifest = errors.New("invalid manifest")

// Manifest is a decoded osta.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config

	meta toml.MetaData
}

// Config mirrors the sections of osta.toml.
type Config struct {
	Package  PackageConfig  `toml:"package"`
	Lexer    LexerConfig    `toml:"lexer"`
	Tokenize TokenizeConfig `toml:"tokenize"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

type LexerConfig struct {
	UnicodeIdentifiers bool `toml:"unicode_identifiers"`
}

// TokenizeConfig holds defaults for `osta tokenize`.
type TokenizeConfig struct {
	Jobs           int    `toml:"jobs"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
	Format         string `toml:"format"`
	Cache          bool   `toml:"cache"`
	SkipComments   bool   `toml:"skip_comments"`
}

var tokenFormats = []string{"pretty", "json", "msgpack", "dump"}

// IsDefined reports whether the manifest sets key, e.g.
// IsDefined("lexer", "unicode_identifiers"). A nil manifest defines nothing.
func (m *Manifest) IsDefined(key ...string) bool {
	if m == nil {
		return false
	}
	return m.meta.IsDefined(key...)
}

// ManifestName is the file name of a project manifest.
const ManifestName = "osta.toml"

// FindManifest walks up from startDir to the nearest regular file named
// osta.toml. ok is false when the filesystem root is reached first.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		info, err := os.Stat(candidate)
		switch {
		case err == nil && info.Mode().IsRegular():
			return candidate, true, nil
		case err != nil && !errors.Is(err, os.ErrNotExist):
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// LoadManifest finds osta.toml above startDir and decodes it. ok is false
// when no manifest exists.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := LoadManifestFile(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// LoadManifestFile decodes and validates the manifest at path.
func LoadManifestFile(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if err := validate(path, &cfg, meta); err != nil {
		return nil, err
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
		meta:   meta,
	}, nil
}

func validate(path string, cfg *Config, meta toml.MetaData) error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%s: %w: %s", path, ErrInvalidManifest, fmt.Sprintf(format, args...))
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return invalid("unknown keys: %s", strings.Join(keys, ", "))
	}
	if !meta.IsDefined("package") {
		return invalid("missing [package]")
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return invalid("missing [package].name")
	}
	if cfg.Tokenize.Jobs < 0 {
		return invalid("[tokenize].jobs must not be negative, got %d", cfg.Tokenize.Jobs)
	}
	if cfg.Tokenize.MaxDiagnostics < 0 {
		return invalid("[tokenize].max_diagnostics must not be negative, got %d", cfg.Tokenize.MaxDiagnostics)
	}
	if meta.IsDefined("tokenize", "format") && !slices.Contains(tokenFormats, cfg.Tokenize.Format) {
		return invalid("[tokenize].format must be one of %s, got %q", strings.Join(tokenFormats, "|"), cfg.Tokenize.Format)
	}
	return nil
}
