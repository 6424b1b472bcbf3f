package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"osta/internal/diag"
	"osta/internal/lexer"
	"osta/internal/source"
	"osta/internal/trace"
)

// TokenizeDirResult содержит результат токенизации одного файла
type TokenizeDirResult struct {
	Path    string        // Путь к файлу
	FileID  source.FileID // ID файла в FileSet, source.NoFile при ошибке загрузки
	Results []lexer.Result
	Bag     *diag.Bag // Диагностики
	Cached  bool
	LoadErr error
}

// ErrorCount returns the number of failed results plus one for a load failure.
func (r *TokenizeDirResult) ErrorCount() int {
	if r.LoadErr != nil {
		return 1
	}
	return countErrors(r.Results)
}

// ListSourceFiles возвращает отсортированный список всех *.osta файлов в директории
func ListSourceFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, source.Extension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// TokenizeDir токенизирует все *.osta файлы в директории параллельно.
// Results keep the sorted file order. A cancelled ctx stops scheduling
// and is returned as the error.
func TokenizeDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []TokenizeDirResult, error) {
	ctx, span := trace.Start(ctx, trace.ScopeCommand, "tokenize_dir")
	defer span.End(dir)

	files, err := ListSourceFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	span.Set(trace.Int("files", len(files)))

	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	// Предзагружаем все файлы: FileSet.Add не потокобезопасен
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		fileID, loadErr := fileSet.Load(path)
		if loadErr != nil {
			// Сохраняем ошибку загрузки для последующей обработки
			loadErrors[path] = loadErr
			continue
		}
		fileIDs[path] = fileID
		opts.Progress.emit(ProgressEvent{File: path, Status: ProgressQueued})
	}

	// Настраиваем параллелизм
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]TokenizeDirResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			bag := diag.NewBag(opts.MaxDiagnostics)

			if loadErr, hadError := loadErrors[path]; hadError {
				bag.Add(diag.NewError(diag.IOReadFailure, source.Span{File: source.NoFile}, "failed to load file: "+loadErr.Error()))
				results[i] = TokenizeDirResult{Path: path, FileID: source.NoFile, Bag: bag, LoadErr: loadErr}
				opts.Progress.emit(ProgressEvent{File: path, Status: ProgressError, Errors: 1})
				return nil
			}

			opts.Progress.emit(ProgressEvent{File: path, Status: ProgressWorking})
			started := time.Now()

			fileID := fileIDs[path]
			toks, cached := tokenizeFile(gctx, fileSet.Get(fileID), bag, opts)

			results[i] = TokenizeDirResult{
				Path:    path,
				FileID:  fileID,
				Results: toks,
				Bag:     bag,
				Cached:  cached,
			}

			ev := ProgressEvent{
				File:    path,
				Status:  ProgressDone,
				Tokens:  len(toks),
				Errors:  countErrors(toks),
				Cached:  cached,
				Elapsed: time.Since(started),
			}
			if ev.Errors > 0 {
				ev.Status = ProgressError
			}
			opts.Progress.emit(ev)
			return nil
		})
	}

	// Ждём завершения всех горутин
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}
