package body

import (
	"bufio"
	"bytes"
	"io"
	"strconv"

	protoerrors "github.com/trillium-rs/trillium-sub000/pkg/errors"
)

// minChunkBufferSize is the smallest read buffer CopyChunked accepts. A
// ChunkEncoder also allocates its chunk-size scratch buffer at this size,
// which holds the hex digits of sizes up to 0xffffff before
// strconv.AppendUint has to grow it.
const minChunkBufferSize = 6

// ChunkEncoder writes an io.Reader's content to an io.Writer using chunked
// Transfer-Encoding framing (RFC 9112 §7.1).
type ChunkEncoder struct {
	w   io.Writer
	buf []byte
}

// NewChunkEncoder wraps w for chunked output.
func NewChunkEncoder(w io.Writer) *ChunkEncoder {
	return &ChunkEncoder{w: w, buf: make([]byte, minChunkBufferSize)}
}

// WriteChunk writes one chunk. A zero-length p writes nothing; use Close
// to terminate the stream.
func (e *ChunkEncoder) WriteChunk(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	size := strconv.AppendUint(e.buf[:0], uint64(len(p)), 16)
	if _, err := e.w.Write(size); err != nil {
		return protoerrors.NewIOError("write", err)
	}
	if _, err := io.WriteString(e.w, "\r\n"); err != nil {
		return protoerrors.NewIOError("write", err)
	}
	if _, err := e.w.Write(p); err != nil {
		return protoerrors.NewIOError("write", err)
	}
	if _, err := io.WriteString(e.w, "\r\n"); err != nil {
		return protoerrors.NewIOError("write", err)
	}
	return nil
}

// Close writes the terminating zero-length chunk with no trailers.
func (e *ChunkEncoder) Close() error {
	if _, err := io.WriteString(e.w, "0\r\n\r\n"); err != nil {
		return protoerrors.NewIOError("write", err)
	}
	return nil
}

// CopyChunked reads from r in buf-sized pieces and writes each as a
// chunk, terminating the stream on EOF. A nil buf is replaced with a
// 32KiB default; a non-nil buf shorter than minChunkBufferSize is
// rejected with a validation error.
func CopyChunked(w io.Writer, r io.Reader, buf []byte) (int64, error) {
	if buf == nil {
		buf = make([]byte, 32*1024)
	}
	if len(buf) < minChunkBufferSize {
		return 0, protoerrors.NewValidationError("chunk copy buffer shorter than minChunkBufferSize")
	}
	enc := NewChunkEncoder(w)
	var total int64
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if werr := enc.WriteChunk(buf[:n]); werr != nil {
				return total, werr
			}
			total += int64(n)
		}
		if err == io.EOF {
			return total, enc.Close()
		}
		if err != nil {
			return total, protoerrors.NewIOError("read", err)
		}
	}
}

// decoderState is the chunked-body parser's state machine, mirroring the
// request/response body reader states.
type decoderState int

const (
	stateChunkSize decoderState = iota
	stateChunkData
	stateChunkDataCRLF
	stateTrailer
	stateDone
)

// ChunkDecoder reads a chunked-encoded stream from an underlying
// *bufio.Reader, presenting it as a plain io.Reader that returns io.EOF
// once the terminating zero-length chunk and trailers have been consumed.
type ChunkDecoder struct {
	r         *bufio.Reader
	state     decoderState
	remaining int64
}

// NewChunkDecoder wraps r for chunked decoding.
func NewChunkDecoder(r *bufio.Reader) *ChunkDecoder {
	return &ChunkDecoder{r: r, state: stateChunkSize}
}

// Read implements io.Reader.
func (d *ChunkDecoder) Read(p []byte) (int, error) {
	for {
		switch d.state {
		case stateDone:
			return 0, io.EOF

		case stateChunkSize:
			if err := d.readChunkSize(); err != nil {
				return 0, err
			}

		case stateChunkData:
			if d.remaining == 0 {
				d.state = stateChunkDataCRLF
				continue
			}
			toRead := len(p)
			if int64(toRead) > d.remaining {
				toRead = int(d.remaining)
			}
			if toRead == 0 {
				return 0, nil
			}
			n, err := d.r.Read(p[:toRead])
			d.remaining -= int64(n)
			if err != nil && err != io.EOF {
				return n, protoerrors.NewIOError("read", err)
			}
			if n > 0 {
				return n, nil
			}
			return 0, protoerrors.NewInvalidChunkFramingError(io.ErrUnexpectedEOF)

		case stateChunkDataCRLF:
			if err := discardCRLF(d.r); err != nil {
				return 0, err
			}
			d.state = stateChunkSize

		case stateTrailer:
			for {
				line, err := d.r.ReadSlice('\n')
				if err != nil {
					return 0, protoerrors.NewInvalidChunkFramingError(err)
				}
				if isBlankCRLFLine(line) {
					break
				}
			}
			d.state = stateDone
			return 0, io.EOF
		}
	}
}

func (d *ChunkDecoder) readChunkSize() error {
	line, err := d.r.ReadSlice('\n')
	if err != nil {
		return protoerrors.NewInvalidChunkFramingError(err)
	}
	line = bytes.TrimRight(line, "\r\n")
	if idx := bytes.IndexByte(line, ';'); idx >= 0 {
		line = line[:idx]
	}
	if len(line) == 0 {
		return protoerrors.NewInvalidChunkFramingError(nil)
	}
	size, err := strconv.ParseUint(string(line), 16, 63)
	if err != nil {
		return protoerrors.NewInvalidChunkFramingError(err)
	}
	d.remaining = int64(size)
	if size == 0 {
		d.state = stateTrailer
		return nil
	}
	d.state = stateChunkData
	return nil
}

func discardCRLF(r *bufio.Reader) error {
	line, err := r.ReadSlice('\n')
	if err != nil {
		return protoerrors.NewInvalidChunkFramingError(err)
	}
	if !isBlankCRLFLine(line) {
		return protoerrors.NewInvalidChunkFramingError(nil)
	}
	return nil
}

func isBlankCRLFLine(line []byte) bool {
	return bytes.Equal(line, []byte("\r\n")) || bytes.Equal(line, []byte("\n"))
}
