package image

import (
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// MaxDecompressedSize bounds how much data a compressed image may expand to.
const MaxDecompressedSize = 256 * 1024 * 1024

// errSizeLimit is returned when a decompressed stream exceeds MaxDecompressedSize.
var errSizeLimit = errors.New("decompression size limit exceeded")

// compressedExtensions lists the suffixes handled by decompress, in match order.
var compressedExtensions = []string{".gz", ".bz2", ".xz", ".zst"}

// limitedReader fails once more than remaining bytes have been read.
type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		// Exactly at the limit is fine if the stream is done.
		var probe [1]byte
		if n, _ := l.r.Read(probe[:]); n == 0 {
			return 0, io.EOF
		}
		return 0, errSizeLimit
	}
	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	return n, err
}

// compressionSuffix returns the compression suffix of path, or "" if the file
// is not compressed.
func compressionSuffix(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	for _, c := range compressedExtensions {
		if ext == c {
			return c
		}
	}
	return ""
}

// stripCompressionSuffix returns path without its compression suffix.
func stripCompressionSuffix(path string) string {
	if c := compressionSuffix(path); c != "" {
		return path[:len(path)-len(c)]
	}
	return path
}

// decompress wraps r in the decoder matching path's compression suffix.
// The returned close function releases decoder resources; it does not close r.
func decompress(r io.Reader, path string) (io.Reader, func() error, error) {
	noop := func() error { return nil }

	var (
		dec     io.Reader
		closeFn = noop
	)
	switch compressionSuffix(path) {
	case "":
		return r, noop, nil
	case ".gz":
		gzr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		dec, closeFn = gzr, gzr.Close
	case ".bz2":
		dec = bzip2.NewReader(r)
	case ".xz":
		xzr, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		dec = xzr
	case ".zst":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		dec = zr
		closeFn = func() error {
			zr.Close()
			return nil
		}
	}

	return &limitedReader{r: dec, remaining: MaxDecompressedSize}, closeFn, nil
}
