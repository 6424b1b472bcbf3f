package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"osta/internal/source"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
)

// lexerSeeds cover every token family and the error paths.
var lexerSeeds = []string{
	"",
	"fn main() -> void { return; }\n",
	"/* a */ // b\n/* open",
	"i8 u16 f32 i007 u0 isize usize never void",
	"@macro #comptime $directive @ # $",
	"0 1_000 0b101 0o777 0xFF_ff 0x 0b2",
	"1.5 2. 3e10 4.5e-3 1_0.0_1E+9 1e",
	`"plain" "esc \" aped" "open`,
	`r"x" r#"a "b" c"# r##"#"##"# r#"open`,
	"u99999999999999999999999",
	"имя ñ ` \x80 \xff",
	"a->b ( ) { } [ ] , : ;",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range lexerSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.osta файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != source.Extension {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
