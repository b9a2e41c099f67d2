package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const stdinPath = "-"

// visitFunc is called once per regular file with its display name and contents.
type visitFunc func(name string, r io.Reader) error

// visitPaths calls visit for stdin, every file and, recursively, every file below a directory.
func visitPaths(paths []string, stdin io.Reader, visit visitFunc) error {
	for _, path := range paths {
		if path == stdinPath {
			if err := visit("(standard input)", stdin); err != nil {
				return err
			}
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			return err
		}

		if info.IsDir() {
			err = recursivelyVisitDir(path, visit)
		} else {
			err = visitFile(path, visit)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func recursivelyVisitDir(root string, visit visitFunc) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		// resolve symlinks
		info, err := os.Stat(path)
		// symlinks may be broken, in that case, just ignore them
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}

		// symlink may resolve to a directory, in which case we just ignore it
		if info.IsDir() {
			return nil
		}

		return visitFile(path, visit)
	})
}

func visitFile(path string, visit visitFunc) error {
	r, err := openFile(path)
	if err != nil {
		return err
	}
	defer r.Close()

	return visit(path, r)
}

// openFile opens path, transparently decompressing .gz and .zst files.
func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return &decompressor{Reader: gz, closers: []io.Closer{gz, f}}, nil
	case ".zst", ".zstd":
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		rc := dec.IOReadCloser()
		return &decompressor{Reader: rc, closers: []io.Closer{rc, f}}, nil
	}
	return f, nil
}

type decompressor struct {
	io.Reader
	closers []io.Closer
}

func (d *decompressor) Close() error {
	var errs []error
	for _, c := range d.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
