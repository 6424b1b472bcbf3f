package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"osta/internal/diag"
	"osta/internal/diagfmt"
	"osta/internal/driver"
	"osta/internal/lexer"
	"osta/internal/project"
	"osta/internal/source"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] <file.osta|dir|->",
	Short: "Tokenize osta source files",
	Long: `Tokenize breaks osta source files into tokens and reports lexical diagnostics.
A directory is walked for *.osta files, which are lexed in parallel; - reads standard input.
Defaults come from the [lexer] and [tokenize] sections of osta.toml; flags override them.`,
	Args: cobra.ExactArgs(1),
	RunE: runTokenize,
}

func init() {
	addTokenizeFlags(tokenizeCmd.Flags())
}

func addTokenizeFlags(f *pflag.FlagSet) {
	f.String("format", "pretty", "token output format (pretty|json|msgpack|dump)")
	f.String("diagnostics", "pretty", "diagnostic output format (pretty|short|json)")
	f.String("path-mode", "auto", "paths in diagnostics (auto|absolute|relative|basename)")
	f.Bool("unicode", lexer.DefaultIdentMode == lexer.IdentUnicode, "accept Unicode identifiers")
	f.StringSlice("only", nil, "print only these token kinds, e.g. --only Ident,DecInt")
	f.Bool("skip-comments", false, "drop comment tokens")
	f.Int("jobs", 0, "parallel workers for directories (0 = GOMAXPROCS)")
	f.Bool("cache", false, "reuse token streams from the on-disk cache")
	f.Bool("drop-cache", false, "clear the token cache before lexing")
	f.Bool("timings", false, "report lexing time per file")
	ui := progressAuto
	f.Var(&ui, "ui", "progress UI for directories (auto|on|off)")
}

type tokenizeSettings struct {
	format     diagfmt.TokenFormat
	diagFormat string
	pathMode   diagfmt.PathMode
	only       kindFilter
	ui         progressUI
	dropCache  bool
	useCache   bool
	opts       driver.Options
}

// readTokenizeSettings merges osta.toml defaults with explicit flags.
func readTokenizeSettings(cmd *cobra.Command, target string) (tokenizeSettings, error) {
	var st tokenizeSettings
	flags := cmd.Flags()
	rootFlags := cmd.Root().PersistentFlags()

	startDir := target
	if target == "-" {
		startDir = "."
	} else if info, err := os.Stat(target); err == nil && !info.IsDir() {
		startDir = filepath.Dir(target)
	}
	manifest, _, err := project.LoadManifest(startDir)
	if err != nil {
		return st, fmt.Errorf("%s: %w", diag.ProjManifestInvalid.ID(), err)
	}
	var cfg project.Config
	if manifest != nil {
		cfg = manifest.Config
	}
	fromManifest := func(flag string, key ...string) bool {
		return !flags.Changed(flag) && manifest.IsDefined(key...)
	}

	formatStr, _ := flags.GetString("format")
	if fromManifest("format", "tokenize", "format") {
		formatStr = cfg.Tokenize.Format
	}
	if st.format, err = diagfmt.ParseTokenFormat(formatStr); err != nil {
		return st, err
	}

	st.diagFormat, _ = flags.GetString("diagnostics")
	st.diagFormat = strings.ToLower(st.diagFormat)
	switch st.diagFormat {
	case "pretty", "short", "json":
	default:
		return st, fmt.Errorf("invalid --diagnostics value %q (expected pretty|short|json)", st.diagFormat)
	}

	pathMode, _ := flags.GetString("path-mode")
	if st.pathMode, err = diagfmt.ParsePathMode(pathMode); err != nil {
		return st, err
	}

	only, _ := flags.GetStringSlice("only")
	if st.only, err = parseKindFilter(only); err != nil {
		return st, err
	}

	if v, ok := flags.Lookup("ui").Value.(*progressUI); ok {
		st.ui = *v
	}

	unicode, _ := flags.GetBool("unicode")
	if fromManifest("unicode", "lexer", "unicode_identifiers") {
		unicode = cfg.Lexer.UnicodeIdentifiers
	}
	if unicode {
		st.opts.Identifiers = lexer.IdentUnicode
	}

	st.opts.SkipComments, _ = flags.GetBool("skip-comments")
	if fromManifest("skip-comments", "tokenize", "skip_comments") {
		st.opts.SkipComments = cfg.Tokenize.SkipComments
	}

	st.opts.Jobs, _ = flags.GetInt("jobs")
	if fromManifest("jobs", "tokenize", "jobs") {
		st.opts.Jobs = cfg.Tokenize.Jobs
	}

	st.opts.MaxDiagnostics, _ = rootFlags.GetInt("max-diagnostics")
	if !rootFlags.Changed("max-diagnostics") && manifest.IsDefined("tokenize", "max_diagnostics") {
		st.opts.MaxDiagnostics = cfg.Tokenize.MaxDiagnostics
	}

	st.useCache, _ = flags.GetBool("cache")
	if fromManifest("cache", "tokenize", "cache") {
		st.useCache = cfg.Tokenize.Cache
	}
	st.dropCache, _ = flags.GetBool("drop-cache")
	st.opts.Timings, _ = flags.GetBool("timings")
	return st, nil
}

func runTokenize(cmd *cobra.Command, args []string) error {
	target := args[0]
	isDir := false
	if target != "-" {
		info, err := os.Stat(target)
		if err != nil {
			return fmt.Errorf("%s: %w", diag.IOReadFailure.ID(), err)
		}
		isDir = info.IsDir()
	}

	st, err := readTokenizeSettings(cmd, target)
	if err != nil {
		return err
	}
	if st.useCache || st.dropCache {
		cache, err := driver.OpenTokenCache("osta")
		if err != nil {
			return fmt.Errorf("%s: open token cache: %w", diag.IOCacheFailure.ID(), err)
		}
		if st.dropCache {
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("%s: drop token cache: %w", diag.IOCacheFailure.ID(), err)
			}
		}
		if st.useCache {
			st.opts.Cache = cache
		}
	}

	var run tokenizeRun
	switch {
	case target == "-":
		run, err = tokenizeStdin(cmd, st)
	case isDir:
		run, err = tokenizeDir(cmd.Context(), target, st)
	default:
		run, err = tokenizeFile(cmd.Context(), target, st)
	}
	if err != nil {
		return err
	}

	if err := writeDiagnostics(cmd, run.bag, run.fs, st); err != nil {
		return err
	}

	out := bufio.NewWriter(cmd.OutOrStdout())
	if err := run.write(out, st.format); err != nil {
		return err
	}
	if err := out.Flush(); err != nil {
		return err
	}

	if run.errors > 0 {
		return &exitError{code: 1}
	}
	return nil
}

// tokenizeRun is the combined outcome of a file or directory run.
type tokenizeRun struct {
	fs     *source.FileSet
	bag    *diag.Bag
	errors int
	write  func(w io.Writer, format diagfmt.TokenFormat) error
}

func tokenizeFile(ctx context.Context, path string, st tokenizeSettings) (tokenizeRun, error) {
	res, err := driver.Tokenize(ctx, path, st.opts)
	if err != nil {
		return tokenizeRun{}, fmt.Errorf("%s: %w", diag.IOReadFailure.ID(), err)
	}
	return singleRun(res, st), nil
}

func tokenizeStdin(cmd *cobra.Command, st tokenizeSettings) (tokenizeRun, error) {
	res, err := driver.TokenizeReader(cmd.Context(), source.StdinName, cmd.InOrStdin(), st.opts)
	if err != nil {
		return tokenizeRun{}, fmt.Errorf("%s: %w", diag.IOReadFailure.ID(), err)
	}
	return singleRun(res, st), nil
}

func singleRun(res *driver.TokenizeResult, st tokenizeSettings) tokenizeRun {
	results := st.only.apply(res.Results)
	return tokenizeRun{
		fs:     res.FileSet,
		bag:    res.Bag,
		errors: res.ErrorCount(),
		write: func(w io.Writer, format diagfmt.TokenFormat) error {
			return diagfmt.FormatTokens(w, format, results, res.FileSet)
		},
	}
}

func tokenizeDir(ctx context.Context, dir string, st tokenizeSettings) (tokenizeRun, error) {
	var (
		fs      *source.FileSet
		results []driver.TokenizeDirResult
		err     error
	)
	if st.ui.enabled() {
		fs, results, err = runTokenizeDirWithUI(ctx, "tokenize "+dir, dir, st.opts)
	} else {
		fs, results, err = driver.TokenizeDir(ctx, dir, st.opts)
	}
	if err != nil {
		return tokenizeRun{}, err
	}

	run := tokenizeRun{fs: fs, bag: diag.NewBag(st.opts.MaxDiagnostics)}
	files := make([]diagfmt.FileTokens, 0, len(results))
	for i := range results {
		r := &results[i]
		run.errors += r.ErrorCount()
		for _, d := range r.Bag.Items() {
			run.bag.Add(d)
		}
		path := r.Path
		if rel, relErr := filepath.Rel(dir, r.Path); relErr == nil {
			path = filepath.ToSlash(rel)
		}
		files = append(files, diagfmt.FileTokens{
			Path:   path,
			Tokens: diagfmt.BuildTokenRecords(st.only.apply(r.Results), fs),
		})
	}
	run.bag.Sort()
	run.write = func(w io.Writer, format diagfmt.TokenFormat) error {
		return diagfmt.FormatTokenFiles(w, format, files)
	}
	return run, nil
}

func writeDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet, st tokenizeSettings) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	errOut := cmd.ErrOrStderr()
	switch st.diagFormat {
	case "short":
		_, err := fmt.Fprintln(errOut, diag.FormatShort(bag.Items(), fs, true))
		return err
	case "json":
		return diagfmt.JSON(errOut, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         st.pathMode,
			IncludeNotes:     true,
			IncludeFixes:     true,
		})
	}
	colored, err := useColor(cmd, os.Stderr)
	if err != nil {
		return err
	}
	diagfmt.Pretty(errOut, bag, fs, diagfmt.PrettyOpts{
		Color:     colored,
		Context:   1,
		PathMode:  st.pathMode,
		ShowNotes: true,
		ShowFixes: true,
	})
	return nil
}
