package parser

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// decompress wraps r according to the file extension of name. Plain .dem
// files pass through. The returned close func must always be called.
func decompress(name string, r io.Reader) (io.Reader, func(), error) {
	noop := func() {}
	switch {
	case strings.HasSuffix(name, ".bz2"):
		return bzip2.NewReader(r), noop, nil
	case strings.HasSuffix(name, ".zst"):
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, noop, fmt.Errorf("zstd: %w", err)
		}
		return dec, dec.Close, nil
	case strings.HasSuffix(name, ".gz"):
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, noop, fmt.Errorf("gzip: %w", err)
		}
		return gz, func() { gz.Close() }, nil
	default:
		return r, noop, nil
	}
}
