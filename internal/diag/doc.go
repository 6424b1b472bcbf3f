// Package diag defines the diagnostic model shared by the lexer, the driver
// and the CLI.
//
// Diagnostic is the central record: Severity, a numeric Code with a stable
// string form (LEX1001, IO4001, ...), a short Message, the Primary span and
// optional Notes and Fixes. Fixes are data-only text edits; nothing in this
// package applies them.
//
// The lexer emits through a Reporter via ReportBuilder; BagReporter collects
// into a Bag, which enforces a limit and sorts by location. FormatShort is
// the one-line-per-diagnostic form behind --diagnostics=short; the pretty
// and JSON renderers live in internal/diagfmt.
package diag
