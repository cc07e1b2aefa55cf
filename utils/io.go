package utils

import (
	"bufio"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

var gzipMagic = []byte{0x1f, 0x8b}

type gzipFile struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipFile) Close() error {
	g.Reader.Close()
	return g.file.Close()
}

type plainFile struct {
	*bufio.Reader
	file *os.File
}

func (p *plainFile) Close() error {
	return p.file.Close()
}

// OpenMaybeGzipped opens path for reading, decompressing it when it
// starts with the gzip magic bytes (bgzip output included).
func OpenMaybeGzipped(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}

	br := bufio.NewReader(f)
	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		f.Close()
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	if len(magic) == 2 && magic[0] == gzipMagic[0] && magic[1] == gzipMagic[1] {
		gz, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "decompressing %s", path)
		}
		// bgzip writes many concatenated members
		gz.Multistream(true)
		return &gzipFile{Reader: gz, file: f}, nil
	}

	return &plainFile{Reader: br, file: f}, nil
}
