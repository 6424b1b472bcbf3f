package diag

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"osta/internal/source"
)

type shortLine struct {
	label string
	code  string
	path  string
	line  uint32
	col   uint32
	msg   string
}

// FormatShort renders one line per diagnostic (and per note when
// includeNotes is set):
//
//	error LEX1002 src/a.osta:3:9 unterminated string literal
//
// Paths are relative to the file set base. Lines are sorted by location, so
// the output is stable across parallel runs. Diagnostics without a loaded
// file use "-" as path and 0:0 as position.
func FormatShort(items []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if len(items) == 0 {
		return ""
	}
	lines := make([]shortLine, 0, len(items))
	for i := range items {
		d := &items[i]
		lines = append(lines, newShortLine(fs, d.Primary, d.Severity.Label(), d.Code, d.Message))
		if includeNotes {
			for _, n := range d.Notes {
				lines = append(lines, newShortLine(fs, n.Span, "note", d.Code, n.Msg))
			}
		}
	}
	slices.SortStableFunc(lines, func(a, b shortLine) int {
		switch {
		case a.path != b.path:
			return strings.Compare(a.path, b.path)
		case a.line != b.line:
			return int(a.line) - int(b.line)
		case a.col != b.col:
			return int(a.col) - int(b.col)
		}
		return 0
	})

	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", l.label, l.code, l.path, l.line, l.col, l.msg)
	}
	return b.String()
}

func newShortLine(fs *source.FileSet, sp source.Span, label string, code Code, msg string) shortLine {
	l := shortLine{label: label, code: code.ID(), path: "-", msg: oneLine(msg)}
	if fs == nil {
		return l
	}
	file := fs.Get(sp.File)
	if file == nil {
		return l
	}
	start, _ := fs.Resolve(sp)
	l.path = strings.TrimPrefix(filepath.ToSlash(file.FormatPath("relative", fs.BaseDir())), "./")
	l.line, l.col = start.Line, start.Col
	return l
}

func oneLine(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	return strings.TrimSpace(strings.ReplaceAll(msg, "\n", " "))
}
