package body

import (
	"io"

	protoerrors "github.com/trillium-rs/trillium-sub000/pkg/errors"
)

// boundedReader wraps an io.Reader, erroring once more than max bytes
// have been read. It is used for chunked and close-delimited bodies,
// which (unlike a Content-Length body) cannot be capped with
// io.LimitReader up front since the total length isn't known in advance.
type boundedReader struct {
	r    io.Reader
	max  int64
	read int64
}

// LimitReader wraps r so that reading past max bytes returns a
// content-too-long error instead of silently continuing. max <= 0 means
// unbounded.
func LimitReader(r io.Reader, max int64) io.Reader {
	if max <= 0 {
		return r
	}
	return &boundedReader{r: r, max: max}
}

func (b *boundedReader) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	b.read += int64(n)
	if b.read > b.max {
		return n, protoerrors.NewContentTooLongError(b.max)
	}
	return n, err
}
