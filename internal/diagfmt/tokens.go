package diagfmt

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/vmihailenco/msgpack/v5"

	"osta/internal/lexer"
	"osta/internal/source"
)

// TokenFormat selects the output encoding of a token stream.
type TokenFormat uint8

const (
	TokenFormatPretty TokenFormat = iota
	TokenFormatJSON
	TokenFormatMsgpack
	TokenFormatDump
)

func (f TokenFormat) String() string {
	switch f {
	case TokenFormatJSON:
		return "json"
	case TokenFormatMsgpack:
		return "msgpack"
	case TokenFormatDump:
		return "dump"
	default:
		return "pretty"
	}
}

// ParseTokenFormat converts a --format value into a TokenFormat.
func ParseTokenFormat(s string) (TokenFormat, error) {
	switch strings.ToLower(s) {
	case "", "pretty":
		return TokenFormatPretty, nil
	case "json":
		return TokenFormatJSON, nil
	case "msgpack":
		return TokenFormatMsgpack, nil
	case "dump":
		return TokenFormatDump, nil
	default:
		return TokenFormatPretty, fmt.Errorf("unknown token format %q (expected: pretty|json|msgpack|dump)", s)
	}
}

// TokenRecord is the serialised view of one lexer result.
type TokenRecord struct {
	Kind  string `json:"kind" msgpack:"kind"`
	Text  string `json:"text,omitempty" msgpack:"text,omitempty"`
	Start uint32 `json:"start" msgpack:"start"`
	End   uint32 `json:"end" msgpack:"end"`
	Line  uint32 `json:"line" msgpack:"line"`
	Col   uint32 `json:"col" msgpack:"col"`
	Width uint64 `json:"width,omitempty" msgpack:"width,omitempty"`
	Op    uint32 `json:"op,omitempty" msgpack:"op,omitempty"`
	Error string `json:"error,omitempty" msgpack:"error,omitempty"`
	Code  string `json:"code,omitempty" msgpack:"code,omitempty"`
}

// BuildTokenRecords converts results into records. A nil fs leaves Line/Col zero.
func BuildTokenRecords(results []lexer.Result, fs *source.FileSet) []TokenRecord {
	out := make([]TokenRecord, 0, len(results))
	for _, r := range results {
		sp := r.Span()
		rec := TokenRecord{Start: sp.Start, End: sp.End}
		if fs != nil {
			pos, _ := fs.Resolve(sp)
			rec.Line, rec.Col = pos.Line, pos.Col
		}
		if r.OK() {
			rec.Kind = r.Token.Kind.String()
			rec.Text = r.Token.Text
			rec.Width = r.Token.Width
			rec.Op = uint32(r.Token.Op)
		} else {
			rec.Kind = "Error"
			rec.Error = r.Err.Error()
			var lexErr *lexer.Error
			if errors.As(r.Err, &lexErr) {
				rec.Text = lexErr.Text
				rec.Code = lexErr.Code().ID()
			}
		}
		out = append(out, rec)
	}
	return out
}

// FormatTokens writes results in the requested format.
func FormatTokens(w io.Writer, format TokenFormat, results []lexer.Result, fs *source.FileSet) error {
	switch format {
	case TokenFormatJSON:
		return FormatTokensJSON(w, results, fs)
	case TokenFormatMsgpack:
		return FormatTokensMsgpack(w, results, fs)
	case TokenFormatDump:
		return FormatTokensDump(w, results, fs)
	default:
		return FormatTokensPretty(w, results, fs)
	}
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, results []lexer.Result, fs *source.FileSet) error {
	return writeRecordsPretty(w, BuildTokenRecords(results, fs))
}

func writeRecordsPretty(w io.Writer, recs []TokenRecord) error {
	for i, rec := range recs {
		if _, err := fmt.Fprintf(w, "%3d: %-15s", i+1, rec.Kind); err != nil {
			return err
		}
		if rec.Text != "" {
			fmt.Fprintf(w, " %q", rec.Text)
		}
		fmt.Fprintf(w, " at %d:%d [%d..%d)", rec.Line, rec.Col, rec.Start, rec.End)
		if rec.Width != 0 {
			fmt.Fprintf(w, " width=%d", rec.Width)
		}
		if rec.Op != 0 {
			fmt.Fprintf(w, " op=%d", rec.Op)
		}
		if rec.Error != "" {
			fmt.Fprintf(w, " %s: %s", rec.Code, rec.Error)
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, results []lexer.Result, fs *source.FileSet) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildTokenRecords(results, fs))
}

// FormatTokensMsgpack writes the records as one msgpack array.
func FormatTokensMsgpack(w io.Writer, results []lexer.Result, fs *source.FileSet) error {
	enc := msgpack.NewEncoder(w)
	enc.UseCompactInts(true)
	return enc.Encode(BuildTokenRecords(results, fs))
}

// FileTokens groups the records of one file for multi-file output.
type FileTokens struct {
	Path   string        `json:"path" msgpack:"path"`
	Tokens []TokenRecord `json:"tokens" msgpack:"tokens"`
}

// FormatTokenFiles writes several files at once. Pretty and dump output
// separate files with a header line; JSON and msgpack encode one array.
func FormatTokenFiles(w io.Writer, format TokenFormat, files []FileTokens) error {
	switch format {
	case TokenFormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(files)
	case TokenFormatMsgpack:
		enc := msgpack.NewEncoder(w)
		enc.UseCompactInts(true)
		return enc.Encode(files)
	}
	for i, f := range files {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if _, err := fmt.Fprintf(w, "== %s ==\n", f.Path); err != nil {
			return err
		}
		if format == TokenFormatDump {
			dumpConfig.Fdump(w, f.Tokens)
			continue
		}
		if err := writeRecordsPretty(w, f.Tokens); err != nil {
			return err
		}
	}
	return nil
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// FormatTokensDump writes a go-spew dump of the records.
func FormatTokensDump(w io.Writer, results []lexer.Result, fs *source.FileSet) error {
	dumpConfig.Fdump(w, BuildTokenRecords(results, fs))
	return nil
}
