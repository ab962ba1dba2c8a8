// Package driver runs the formatter over files on disk: it expands paths and
// glob patterns, formats the matching files concurrently and reports what
// changed.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/jsvensson/masmfmt/internal/config"
	"github.com/jsvensson/masmfmt/internal/format"
)

// Ext is the extension of masm source files.
const Ext = ".masm"

// ErrNoFiles is returned when the arguments match no source file.
var ErrNoFiles = errors.New("no masm source files found")

var log = commonlog.GetLogger("masmfmt.driver")

// Options configures a formatting run.
type Options struct {
	// Check reports files that would change without writing them.
	Check bool
	// Stdout returns formatted content instead of writing files.
	Stdout bool
	// Diff attaches a unified diff to every changed result.
	Diff bool
	// Jobs caps the number of files processed at once; 0 means GOMAXPROCS.
	Jobs  int
	Files config.Files
}

// Result captures the outcome for a single file.
type Result struct {
	Path      string
	Changed   bool
	Formatted []byte
	Diff      string
	Err       error
}

// Run formats the files named by args. Each argument is a file, a directory
// searched recursively, or a doublestar glob pattern. Results are sorted by
// path; per-file failures are reported on the result, not returned.
func Run(ctx context.Context, args []string, opts Options) ([]Result, error) {
	files, err := Collect(ctx, args, opts.Files)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	log.Debugf("formatting %d files with %d jobs", len(files), jobs)

	// Each goroutine owns one index, so results needs no lock.
	results := make([]Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = formatOne(path, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func formatOne(path string, opts Options) Result {
	res := Result{Path: path}
	f, err := format.Load(path)
	if err != nil {
		res.Err = err
		return res
	}

	res.Changed = f.Changed()
	if res.Changed && opts.Diff {
		res.Diff, res.Err = unifiedDiff(path, f.Original, f.Formatted)
	}

	switch {
	case opts.Stdout:
		res.Formatted = f.Formatted
	case opts.Check:
	default:
		if err := f.Write(); err != nil {
			res.Err = err
			return res
		}
		if res.Changed {
			log.Infof("reformatted %s", path)
		}
	}
	return res
}

func unifiedDiff(path string, original, formatted []byte) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(original)),
		B:        difflib.SplitLines(string(formatted)),
		FromFile: "a/" + filepath.ToSlash(path),
		ToFile:   "b/" + filepath.ToSlash(path),
		Context:  3,
	})
}

// Collect expands args into a sorted, de-duplicated list of files.
// Directories are walked and filtered with files; glob matches must carry the
// masm extension and not be excluded. Files named explicitly are always kept.
func Collect(ctx context.Context, args []string, files config.Files) ([]string, error) {
	var out []string
	seen := make(map[string]struct{})
	add := func(path string) {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}

	for _, arg := range args {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if isPattern(arg) {
			matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("expanding %s: %w", arg, err)
			}
			for _, m := range matches {
				if filepath.Ext(m) == Ext && !files.Excluded(m) {
					add(m)
				}
			}
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			rel, err := filepath.Rel(arg, path)
			if err != nil {
				return err
			}
			if d.IsDir() {
				if rel != "." && files.Excluded(rel) {
					return fs.SkipDir
				}
				return nil
			}
			if files.Match(rel) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", arg, err)
		}
	}

	sort.Strings(out)
	return out, nil
}

func isPattern(arg string) bool {
	return strings.ContainsAny(arg, "*?[{")
}
