package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"osta/internal/driver"
	"osta/internal/lexer"
	"osta/internal/token"
	"osta/internal/version"
)

const versionTagline = "every byte gets a token"

// versionFlags backs the flags of one version command.
type versionFlags struct {
	format  string
	hash    bool
	message bool
	date    bool
	lexer   bool
	full    bool
}

func (f *versionFlags) register(fs *pflag.FlagSet) {
	fs.BoolVar(&f.hash, "hash", false, "include git commit hash")
	fs.BoolVar(&f.message, "message", false, "include git commit message")
	fs.BoolVar(&f.date, "date", false, "include build timestamp")
	fs.BoolVar(&f.lexer, "lexer", false, "include lexer build settings")
	fs.BoolVar(&f.full, "full", false, "show everything above")
	fs.StringVar(&f.format, "format", "pretty", "output format (pretty|json)")
}

// versionReport is both the pretty model and the JSON payload. Optional
// sections stay nil unless requested.
type versionReport struct {
	Tool       string        `json:"tool"`
	Version    string        `json:"version"`
	Tagline    string        `json:"tagline"`
	GitCommit  *string       `json:"git_commit,omitempty"`
	GitMessage *string       `json:"git_message,omitempty"`
	BuildDate  *string       `json:"build_date,omitempty"`
	Lexer      *lexerSummary `json:"lexer,omitempty"`
}

type lexerSummary struct {
	Identifiers string `json:"identifiers"`
	TokenKinds  int    `json:"token_kinds"`
	Keywords    int    `json:"keywords"`
	CacheSchema uint16 `json:"cache_schema"`
}

func newVersionCmd() *cobra.Command {
	flags := &versionFlags{}
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show osta build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format := strings.ToLower(flags.format)
			if format != "pretty" && format != "json" {
				return fmt.Errorf("unsupported format %q (must be pretty or json)", flags.format)
			}
			report := buildVersionReport(flags)
			if format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			colored, err := useColor(cmd, os.Stdout)
			if err != nil {
				return err
			}
			renderVersionPretty(cmd.OutOrStdout(), report, colored)
			return nil
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func buildVersionReport(f *versionFlags) versionReport {
	v := strings.TrimSpace(version.Version)
	if v == "" {
		v = "dev"
	}
	r := versionReport{Tool: "osta", Version: v, Tagline: versionTagline}
	if f.hash || f.full {
		r.GitCommit = knownOr(version.GitCommit)
	}
	if f.message || f.full {
		r.GitMessage = knownOr(version.GitMessage)
	}
	if f.date || f.full {
		r.BuildDate = knownOr(version.BuildDate)
	}
	if f.lexer || f.full {
		r.Lexer = &lexerSummary{
			Identifiers: lexer.DefaultIdentMode.String(),
			TokenKinds:  len(token.Kinds()),
			Keywords:    token.KeywordCount(),
			CacheSchema: driver.CacheSchema,
		}
	}
	return r
}

func renderVersionPretty(out io.Writer, r versionReport, colored bool) {
	v := r.Version
	if colored && v == strings.TrimSpace(version.Version) {
		v = version.Colored(true)
	}
	fmt.Fprintf(out, "osta %s: %s\n", v, r.Tagline)
	if r.GitCommit != nil {
		fmt.Fprintf(out, "commit:  %s\n", *r.GitCommit)
	}
	if r.GitMessage != nil {
		fmt.Fprintf(out, "message: %s\n", *r.GitMessage)
	}
	if r.BuildDate != nil {
		fmt.Fprintf(out, "built:   %s\n", *r.BuildDate)
	}
	if l := r.Lexer; l != nil {
		fmt.Fprintf(out, "lexer:   %s identifiers, %d token kinds, %d keywords, cache schema %d\n",
			l.Identifiers, l.TokenKinds, l.Keywords, l.CacheSchema)
	}
}

func knownOr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		s = "unknown"
	}
	return &s
}
