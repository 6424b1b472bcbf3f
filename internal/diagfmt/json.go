package diagfmt

import (
	"encoding/json"
	"io"

	"osta/internal/diag"
	"osta/internal/source"
)

// excerptLimit caps the source text copied into a span, in bytes.
const excerptLimit = 64

// PositionJSON is a 1-based line and column.
type PositionJSON struct {
	Line uint32 `json:"line"`
	Col  uint32 `json:"col"`
}

// SpanJSON locates a byte range. From, To and Text are filled only when
// positions are requested.
type SpanJSON struct {
	File  string        `json:"file"`
	Start uint32        `json:"start"`
	End   uint32        `json:"end"`
	From  *PositionJSON `json:"from,omitempty"`
	To    *PositionJSON `json:"to,omitempty"`
	Text  string        `json:"text,omitempty"`
}

type NoteJSON struct {
	Message string   `json:"message"`
	Span    SpanJSON `json:"span"`
}

type EditJSON struct {
	Span    SpanJSON `json:"span"`
	NewText string   `json:"new_text"`
}

type FixJSON struct {
	Title string     `json:"title"`
	Edits []EditJSON `json:"edits"`
}

// DiagnosticJSON is one diagnostic. Severity uses the lower-case label.
type DiagnosticJSON struct {
	Severity string     `json:"severity"`
	Code     string     `json:"code"`
	Title    string     `json:"title"`
	Message  string     `json:"message"`
	Span     SpanJSON   `json:"span"`
	Notes    []NoteJSON `json:"notes,omitempty"`
	Fixes    []FixJSON  `json:"fixes,omitempty"`
}

// DiagnosticsOutput is the document written by JSON. Count is the number of
// encoded entries, Total the size of the bag.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Total       int              `json:"total"`
	Errors      int              `json:"errors"`
	Warnings    int              `json:"warnings"`
	Truncated   bool             `json:"truncated,omitempty"`
}

type spanEncoder struct {
	fs        *source.FileSet
	mode      PathMode
	positions bool
}

func (e spanEncoder) encode(span source.Span) SpanJSON {
	out := SpanJSON{
		File:  formatPath(e.fs, span, e.mode),
		Start: span.Start,
		End:   span.End,
	}
	if !e.positions {
		return out
	}
	from, to := e.fs.Resolve(span)
	out.From = &PositionJSON{Line: from.Line, Col: from.Col}
	out.To = &PositionJSON{Line: to.Line, Col: to.Col}
	if f := e.fs.Get(span.File); f != nil && !span.Empty() {
		out.Text = excerpt(f.Slice(span))
	}
	return out
}

// excerpt cuts text at excerptLimit bytes without splitting a rune.
func excerpt(text string) string {
	if len(text) <= excerptLimit {
		return text
	}
	cut := excerptLimit
	for cut > 0 && !isRuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }

// BuildDiagnosticsOutput converts bag into its JSON document without
// encoding it.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	out := DiagnosticsOutput{
		Diagnostics: []DiagnosticJSON{},
		Total:       len(items),
	}
	for _, d := range items {
		switch {
		case d.Severity >= diag.SevError:
			out.Errors++
		case d.Severity == diag.SevWarning:
			out.Warnings++
		}
	}

	limit := len(items)
	if opts.Max > 0 && opts.Max < limit {
		limit = opts.Max
		out.Truncated = true
	}
	enc := spanEncoder{fs: fs, mode: opts.PathMode, positions: opts.IncludePositions}
	for _, d := range items[:limit] {
		out.Diagnostics = append(out.Diagnostics, encodeDiagnostic(d, enc, opts))
	}
	out.Count = len(out.Diagnostics)
	return out
}

func encodeDiagnostic(d diag.Diagnostic, enc spanEncoder, opts JSONOpts) DiagnosticJSON {
	dj := DiagnosticJSON{
		Severity: d.Severity.Label(),
		Code:     d.Code.ID(),
		Title:    d.Code.Title(),
		Message:  d.Message,
		Span:     enc.encode(d.Primary),
	}
	if opts.IncludeNotes {
		for _, n := range d.Notes {
			dj.Notes = append(dj.Notes, NoteJSON{Message: n.Msg, Span: enc.encode(n.Span)})
		}
	}
	if opts.IncludeFixes {
		for _, fix := range d.Fixes {
			fj := FixJSON{Title: fix.Title, Edits: make([]EditJSON, 0, len(fix.Edits))}
			for _, edit := range fix.Edits {
				fj.Edits = append(fj.Edits, EditJSON{Span: enc.encode(edit.Span), NewText: edit.NewText})
			}
			dj.Fixes = append(dj.Fixes, fj)
		}
	}
	return dj
}

// JSON writes the diagnostics of bag as one indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}
