package source

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"

	"fortio.org/safecast"
)

// FileSet owns loaded files and resolves spans to line/column positions.
// It is not safe for concurrent mutation; TokenizeDir loads every file
// before lexing starts.
type FileSet struct {
	files   []File
	baseDir string // база для относительных путей; пусто = рабочая директория
}

func NewFileSet() *FileSet { return &FileSet{} }

// NewFileSetWithBase creates a FileSet whose relative paths start at baseDir.
func NewFileSetWithBase(baseDir string) *FileSet {
	return &FileSet{baseDir: baseDir}
}

func (fileSet *FileSet) SetBaseDir(dir string) { fileSet.baseDir = dir }

// BaseDir returns the base for relative paths, defaulting to the working
// directory.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fileSet.baseDir
}

// Add stores already normalized content and returns its new FileID. Adding
// the same path twice yields two independent files.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil || FileID(n) == NoFile {
		panic(fmt.Errorf("file set overflow: %d files", len(fileSet.files)))
	}
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("%s: file larger than 4 GiB", path))
	}
	id := FileID(n)
	if flags&FileVirtual == 0 {
		path = normalizePath(path)
	}
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    path,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	return id
}

// Load reads path from disk, strips a BOM and folds CRLF before Add.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, flags := normalizeContent(content)
	return fileSet.Add(path, content, flags), nil
}

// Read drains r into a virtual file called name, normalized like Load.
func (fileSet *FileSet) Read(name string, r io.Reader) (FileID, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", name, err)
	}
	content, flags := normalizeContent(content)
	return fileSet.Add(name, content, flags|FileVirtual), nil
}

// AddVirtual adds in-memory content as is.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// Get returns the file for id, or nil for an unknown id (including NoFile).
func (fileSet *FileSet) Get(id FileID) *File {
	if int64(id) >= int64(len(fileSet.files)) {
		return nil
	}
	return &fileSet.files[id]
}

// Resolve converts a span into line/column positions. Unknown files resolve
// to zero positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}
