package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"osta/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "osta",
	Short:         "osta lexer toolchain",
	Long:          `osta turns osta source files into token streams and reports lexical diagnostics`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		stop, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		profileCleanup = stop
		return nil
	},
}

// traceCleanup flushes the tracer once the command has finished.
var traceCleanup = func(failed bool) {}

// exitError carries a process exit status without an error message.
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func init() {
	rootCmd.Version = version.Version
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(newVersionCmd())
	addGlobalFlags(rootCmd.PersistentFlags())
}

// addGlobalFlags registers the flags shared by every subcommand.
func addGlobalFlags(f *pflag.FlagSet) {
	f.String("color", "auto", "colorize output (auto|on|off)")
	f.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	f.String("trace", "", "trace output file (- for stderr)")
	f.String("trace-level", "off", "trace level (off|error|command|file|debug)")
	f.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	f.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	f.Int("trace-ring-size", 4096, "events kept in ring mode")
	f.String("cpu-profile", "", "write a CPU profile to file")
	f.String("mem-profile", "", "write a heap profile to file on exit")
	f.String("runtime-trace", "", "write a Go runtime trace to file")
}

// main executes the root command and maps its error to an exit status.
func main() {
	err := rootCmd.Execute()
	if profErr := profileCleanup(); profErr != nil {
		fmt.Fprintf(os.Stderr, "osta: profiling: %v\n", profErr)
	}
	traceCleanup(err != nil)
	if err == nil {
		return
	}
	var exit *exitError
	if errors.As(err, &exit) {
		os.Exit(exit.code)
	}
	fmt.Fprintf(os.Stderr, "osta: %v\n", err)
	os.Exit(1)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves the --color flag for output written to f.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch strings.ToLower(value) {
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	case "", "auto":
		return isTerminal(f) && os.Getenv("NO_COLOR") == "", nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}
