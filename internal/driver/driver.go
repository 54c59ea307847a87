// Package driver owns the file I/O around the core: reading message
// files into line sequences, compiling them (with an optional disk
// cache), and writing generated output under an overwrite policy.
package driver

import (
	"bufio"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"mcgen/internal/emit"
	"mcgen/internal/mc"
)

// ErrOutputExists reports that the destination file is already present
// and overwriting was not requested.
var ErrOutputExists = errors.New("output file already exists")

// Options configure a compile run.
type Options struct {
	// Package is the package name of the emitted source.
	Package string
	// Cache, when non-nil, short-circuits compiles whose input digest
	// was seen before.
	Cache *DiskCache
}

// Result is the outcome of compiling one message file.
type Result struct {
	Path    string
	Catalog *mc.CodeCatalog // nil on a cache hit
	Source  string
	Codes   int
	Cached  bool
}

// ReadLines loads a file as an ordered sequence of text lines.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lines, nil
}

// Compile parses one message file and renders its generated source,
// consulting the cache first when one is configured.
func Compile(path string, opts Options) (*Result, error) {
	lines, err := ReadLines(path)
	if err != nil {
		return nil, err
	}

	key := inputDigest(lines, opts.Package)
	if opts.Cache != nil {
		if source, codes, ok := opts.Cache.Load(key); ok {
			return &Result{Path: path, Source: source, Codes: codes, Cached: true}, nil
		}
	}

	catalog, err := mc.Parse(lines)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	source := emit.Render(catalog, emit.Options{Package: opts.Package})
	if opts.Cache != nil {
		// Cache failures only cost a recompile next time.
		_ = opts.Cache.Store(key, source, len(catalog.Codes()))
	}
	return &Result{
		Path:    path,
		Catalog: catalog,
		Source:  source,
		Codes:   len(catalog.Codes()),
	}, nil
}

// CompileAll compiles every input concurrently, preserving input order
// in the results. The first failure cancels the remaining work.
func CompileAll(ctx context.Context, paths []string, opts Options) ([]*Result, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*Result, len(paths))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := Compile(path, opts)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// WriteOutput writes the rendered source to path. Without force the
// write fails with ErrOutputExists when the destination is present.
func WriteOutput(path, source string, force bool) (err error) {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrOutputExists, path)
		}
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	_, err = f.WriteString(source)
	return err
}

// inputDigest keys the cache by the exact input text and the target
// package name.
func inputDigest(lines []string, pkg string) Digest {
	h := sha256.New()
	h.Write([]byte(pkg))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(lines, "\n")))
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}
