// Package body implements message-body framing: the Body value itself
// (empty, fully-buffered, or streaming), and the chunked Transfer-Encoding
// encoder/decoder.
package body

import "io"

// Kind discriminates the three body representations.
type Kind int

const (
	// Empty carries no bytes.
	Empty Kind = iota
	// Static wraps a fully-buffered byte slice, used when the length is
	// known up front (e.g. a handler-produced response).
	Static
	// Streaming wraps an io.Reader with a declared length, or -1 when the
	// length is not known in advance, used for request bodies and for
	// handler responses that prefer not to buffer.
	Streaming
)

// Body is a message body. Exactly one of its fields is meaningful,
// selected by Kind.
type Body struct {
	kind    Kind
	static  []byte
	stream  io.Reader
	length  int64 // -1 when unknown
	closer  io.Closer
}

// NewEmpty returns a Body with no content.
func NewEmpty() *Body {
	return &Body{kind: Empty, length: 0}
}

// NewStatic returns a Body wrapping a fully-buffered byte slice.
func NewStatic(b []byte) *Body {
	return &Body{kind: Static, static: b, length: int64(len(b))}
}

// NewStreaming returns a Body wrapping r. length is the number of bytes
// the caller expects to read, or -1 if unknown (forcing chunked framing
// on the wire).
func NewStreaming(r io.Reader, length int64) *Body {
	b := &Body{kind: Streaming, stream: r, length: length}
	if c, ok := r.(io.Closer); ok {
		b.closer = c
	}
	return b
}

// Kind returns the body's representation.
func (b *Body) Kind() Kind { return b.kind }

// Len returns the known length, or -1 if the body must be chunk-framed.
func (b *Body) Len() int64 { return b.length }

// Reader returns an io.Reader over the body's content regardless of kind.
func (b *Body) Reader() io.Reader {
	switch b.kind {
	case Empty:
		return emptyReader{}
	case Static:
		return &staticReader{data: b.static}
	default:
		return b.stream
	}
}

// Close releases any resources held by a streaming body's underlying
// reader. A no-op for Empty and Static bodies.
func (b *Body) Close() error {
	if b.closer != nil {
		return b.closer.Close()
	}
	return nil
}

type emptyReader struct{}

func (emptyReader) Read(p []byte) (int, error) { return 0, io.EOF }

type staticReader struct {
	data []byte
	pos  int
}

func (r *staticReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}
