// Package source opens a recording from a local path or an http(s) URL and
// layers transparent decompression over it. The frame decoder downstream
// sees plain recording bytes either way.
package source

import (
	"bufio"
	"compress/bzip2"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Open resolves target to a readable byte stream. Gzip and bzip2 payloads
// are detected by their magic bytes, not the file name, so URLs without an
// extension work too. The caller owns the returned stream.
func Open(ctx context.Context, target string) (io.ReadCloser, error) {
	var rc io.ReadCloser
	if strings.Contains(target, "://") {
		var err error
		rc, err = fetch(ctx, target)
		if err != nil {
			return nil, err
		}
	} else {
		f, err := os.Open(target)
		if err != nil {
			return nil, err
		}
		rc = f
	}
	return decompress(rc)
}

func fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, fmt.Errorf("unsupported URL scheme in %q (want http or https)", url)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: %s", url, resp.Status)
	}
	return resp.Body, nil
}

// decompress sniffs the stream's leading magic and wraps a matching reader.
// A recording's own header cannot collide: its first four bytes are a
// little-endian epoch timestamp, far from either magic for any plausible
// recording date.
func decompress(rc io.ReadCloser) (io.ReadCloser, error) {
	br := bufio.NewReader(rc)
	magic, err := br.Peek(3)
	if err != nil && len(magic) == 0 {
		// Empty or unreadable; hand it through and let the decoder report.
		return &stream{r: br, closers: []io.Closer{rc}}, nil
	}

	switch {
	case len(magic) >= 2 && magic[0] == 0x1f && magic[1] == 0x8b:
		zr, err := gzip.NewReader(br)
		if err != nil {
			rc.Close()
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return &stream{r: zr, closers: []io.Closer{zr, rc}}, nil
	case len(magic) >= 3 && magic[0] == 'B' && magic[1] == 'Z' && magic[2] == 'h':
		return &stream{r: bzip2.NewReader(br), closers: []io.Closer{rc}}, nil
	default:
		return &stream{r: br, closers: []io.Closer{rc}}, nil
	}
}

// stream pairs a wrapped reader with every closer beneath it.
type stream struct {
	r       io.Reader
	closers []io.Closer
}

func (s *stream) Read(p []byte) (int, error) {
	return s.r.Read(p)
}

func (s *stream) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
