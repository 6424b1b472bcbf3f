package diag

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osta/internal/source"
)

func TestCodeID(t *testing.T) {
	assert.Equal(t, "LEX1002", LexUnterminatedString.ID())
	assert.Equal(t, "IO4001", IOReadFailure.ID())
	assert.Equal(t, "PRJ5001", ProjManifestInvalid.ID())
	assert.Equal(t, "OBS6001", ObsTimings.ID())
	assert.Equal(t, "E0000", Code(2500).ID())
	assert.Equal(t, "[LEX1004]: Invalid integer", LexInvalidInteger.String())
	assert.Equal(t, "Unknown error", Code(1999).Title())
}

func TestBagLimitAndMerge(t *testing.T) {
	bag := NewBag(1)
	assert.True(t, bag.Add(NewError(LexUnknownToken, source.Span{}, "a")))
	assert.False(t, bag.Add(NewError(LexUnknownToken, source.Span{}, "b")))
	assert.Equal(t, 1, bag.Len())

	other := NewBag(2)
	other.Add(New(SevInfo, ObsTimings, source.Span{}, "t"))
	other.Add(New(SevWarning, IOCacheFailure, source.Span{}, "w"))
	bag.Merge(other)
	assert.Equal(t, 3, bag.Len())
	assert.Equal(t, uint16(3), bag.Cap())
	assert.True(t, bag.HasErrors())

	assert.Equal(t, uint16(0), NewBag(-5).Cap())
	assert.Equal(t, uint16(math.MaxUint16), NewBag(math.MaxInt32).Cap())
}

func TestBagSort(t *testing.T) {
	bag := NewBag(10)
	bag.Add(New(SevInfo, ObsTimings, source.Span{File: 1, Start: 0}, "timing"))
	bag.Add(NewError(LexUnknownToken, source.Span{File: 0, Start: 5, End: 6}, "late"))
	bag.Add(New(SevWarning, IOCacheFailure, source.Span{File: 0, Start: 1, End: 1}, "warn"))
	bag.Add(NewError(LexUnterminatedString, source.Span{File: 0, Start: 1, End: 1}, "err"))
	bag.Sort()

	var msgs []string
	for _, d := range bag.Items() {
		msgs = append(msgs, d.Message)
	}
	assert.Equal(t, []string{"err", "warn", "late", "timing"}, msgs)
}

type recordingReporter struct{ got []Diagnostic }

func (r *recordingReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix) {
	r.got = append(r.got, Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes, Fixes: fixes})
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	rep := &recordingReporter{}
	sp := source.Span{Start: 3, End: 4}
	b := ReportError(rep, LexUnterminatedString, sp, "unterminated string literal").
		WithNote(source.Span{Start: 3, End: 3}, "opened here").
		WithFix("insert the closing delimiter", FixEdit{Span: source.Span{Start: 9, End: 9}, NewText: `"`})
	b.Emit()
	b.Emit()

	require.Len(t, rep.got, 1)
	d := rep.got[0]
	assert.Equal(t, SevError, d.Severity)
	assert.Equal(t, "opened here", d.Notes[0].Msg)
	assert.Equal(t, `"`, d.Fixes[0].Edits[0].NewText)

	var nilBuilder *ReportBuilder
	assert.Nil(t, nilBuilder.WithNote(sp, "x"))
	nilBuilder.Emit()
}

func TestBagReporter(t *testing.T) {
	bag := NewBag(4)
	ReportError(BagReporter{Bag: bag}, LexInvalidInteger, source.Span{}, "bad width").Emit()
	ReportError(BagReporter{}, LexInvalidInteger, source.Span{}, "dropped").Emit()
	require.Equal(t, 1, bag.Len())
	assert.Equal(t, LexInvalidInteger, bag.Items()[0].Code)
}

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")
	a := fs.Add("/workspace/src/a.osta", []byte("let\n\"x\n"), 0)
	b := fs.Add("/workspace/b.osta", []byte("@"), 0)

	items := []Diagnostic{
		NewError(LexUnterminatedString, source.Span{File: a, Start: 4, End: 5}, "unterminated\nstring literal").
			WithNote(source.Span{File: a, Start: 0, End: 3}, "after this"),
		New(SevWarning, IOCacheFailure, source.Span{File: b}, "token cache read failed"),
		NewError(IOReadFailure, source.Span{File: source.NoFile}, "failed to load file"),
	}

	want := "error IO4001 -:0:0 failed to load file\n" +
		"warning IO4002 b.osta:1:1 token cache read failed\n" +
		"note LEX1002 src/a.osta:1:1 after this\n" +
		"error LEX1002 src/a.osta:2:1 unterminated string literal"
	assert.Equal(t, want, FormatShort(items, fs, true))

	assert.NotContains(t, FormatShort(items, fs, false), "note")
	assert.Empty(t, FormatShort(nil, fs, true))
}
