package cmd

import (
	"context"
	"io"
	"iter"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type outputKey struct{}

// WithOutput returns a new context.Context directing command output to w.
// Commands write to os.Stdout when no writer is stored.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

type (
	sourceFilesKey struct{}

	sourceFile struct {
		path string
		file *os.File
	}

	sourceFiles struct {
		files    []sourceFile
		hasStdin bool
	}

	// SourceFiles is the ordered, deduplicated set of manifests named on the
	// command line.
	SourceFiles interface {
		IsZero() bool
		Stdin() io.Reader
		All() iter.Seq2[string, io.Reader]
		io.Closer
	}
)

// IsZero reports whether there are no source files.
func (s *sourceFiles) IsZero() bool { return len(s.files) == 0 && !s.hasStdin }

// Stdin returns os.Stdin if stdin was included as a source, or nil otherwise.
func (s *sourceFiles) Stdin() io.Reader {
	if s.hasStdin {
		return os.Stdin
	}

	return nil
}

// All returns an iterator over each source's path and reader, in command
// line order. Stdin, named "-", is always last.
func (s *sourceFiles) All() iter.Seq2[string, io.Reader] {
	return func(yield func(string, io.Reader) bool) {
		for _, f := range s.files {
			if !yield(f.path, f.file) {
				return
			}
		}

		if s.hasStdin {
			yield(stdinSource, os.Stdin)
		}
	}
}

// Close closes every opened source file. Stdin is left open.
func (s *sourceFiles) Close() error {
	var first error

	for _, f := range s.files {
		if err := f.file.Close(); err != nil && first == nil {
			first = err
		}
	}

	return first
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// WithSourceFiles returns a new context.Context containing the manifests
// named by sources.
//
// Sources are deduplicated by resolving symlinks and comparing device/inode
// pairs. All occurrences of "-" are replaced with a single stdin source
// placed last so it is applied after all regular files.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourceFilesKey{}, buildSourceFiles(sources))
}

func buildSourceFiles(sources []string) SourceFiles {
	if len(sources) == 0 {
		return nil
	}

	var srcs sourceFiles

	srcs.files = make([]sourceFile, 0, len(sources))
	seen := make(map[fileKey]struct{})

	var stdinKey fileKey
	if info, err := os.Stdin.Stat(); err == nil {
		stdinKey, _ = makeFileKey(info)
	}

	for _, src := range sources {
		if src == stdinSource {
			seen[stdinKey] = struct{}{}

			continue
		}

		f, ok := openUniqueFile(src, seen)
		if !ok {
			continue
		}

		srcs.files = append(srcs.files, f)
	}

	// Stdin may have been included via "-" or as a named file.
	// Both of which will be represented by stdinKey in seen.
	_, srcs.hasStdin = seen[stdinKey]

	if srcs.IsZero() {
		return nil
	}

	return &srcs
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
func openUniqueFile(path string, seen map[fileKey]struct{}) (sourceFile, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return sourceFile{}, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return sourceFile{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return sourceFile{}, false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return sourceFile{}, false
	}

	if _, exists := seen[key]; exists {
		return sourceFile{}, false
	}

	seen[key] = struct{}{}

	file, err := os.Open(resolved)
	if err != nil {
		return sourceFile{}, false
	}

	return sourceFile{path: resolved, file: file}, true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}

// sourceFilesFrom retrieves the SourceFiles stored in ctx by WithSourceFiles.
// Returns nil if none were stored.
func sourceFilesFrom(ctx context.Context) SourceFiles {
	r, _ := ctx.Value(sourceFilesKey{}).(SourceFiles)

	return r
}
