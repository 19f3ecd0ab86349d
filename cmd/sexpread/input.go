package main

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"

	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

type readCloser struct {
	io.Reader
	c io.Closer
}

func (rc readCloser) Close() error {
	return rc.c.Close()
}

// openInput opens name for reading. "-" is standard input, and files ending
// in .gz, .xz or .lz4 are decompressed.
func openInput(name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	var r io.Reader
	switch filepath.Ext(name) {
	case ".gz":
		r, err = gzip.NewReader(f)
	case ".xz":
		r, err = xz.NewReader(f)
	case ".lz4":
		r = lz4.NewReader(f)
	default:
		return f, nil
	}
	if err != nil {
		f.Close()
		return nil, err
	}
	return readCloser{r, f}, nil
}
