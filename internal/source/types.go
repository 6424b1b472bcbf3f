package source

import "fmt"

type (
	// FileID identifies a file within one FileSet.
	FileID uint32
	// FileFlags records how the content was obtained and normalized.
	FileFlags uint8
)

const (
	// FileVirtual marks content that did not come from disk (stdin, tests).
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM marks a stripped UTF-8 byte order mark.
	FileHadBOM
	// FileNormalizedCRLF marks content whose \r\n pairs became \n.
	FileNormalizedCRLF
)

// NoFile is a FileID no FileSet hands out, for diagnostics without a source.
const NoFile = ^FileID(0)

// Extension is the file extension of osta source files.
const Extension = ".osta"

// StdinName is the path given to source read from standard input.
const StdinName = "<stdin>"

// File is one loaded source. Content is never mutated after the file is
// added to a FileSet, and every span the lexer produces indexes into it.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of every '\n'
	Hash    [32]byte // sha256 of Content
	Flags   FileFlags
}

// LineCol is a 1-based position. Col counts bytes.
type LineCol struct {
	Line uint32
	Col  uint32
}

func (lc LineCol) String() string {
	return fmt.Sprintf("%d:%d", lc.Line, lc.Col)
}
