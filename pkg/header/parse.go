package header

import (
	"bufio"
	"bytes"

	protoerrors "github.com/trillium-rs/trillium-sub000/pkg/errors"
)

// ParseLimits bounds the resources a single head parse may consume, so a
// hostile or buggy peer cannot force unbounded memory growth.
type ParseLimits struct {
	MaxHeadBytes    int
	MaxHeaderCount  int
	MaxHeaderLength int
}

// DefaultParseLimits returns the limits the engine applies when the caller
// supplies none.
func DefaultParseLimits() ParseLimits {
	return ParseLimits{
		MaxHeadBytes:    8 * 1024,
		MaxHeaderCount:  128,
		MaxHeaderLength: 8 * 1024,
	}
}

// ParseFields reads CRLF-terminated "Name: Value" lines from r until a bare
// CRLF terminator, enforcing limits. It does not consume the terminator
// line itself past reading it.
func ParseFields(r *bufio.Reader, limits ParseLimits) (*Map, error) {
	m := NewMap()
	var total int
	var count int

	for {
		line, err := readCRLFLine(r, limits.MaxHeaderLength)
		if err != nil {
			return nil, err
		}
		total += len(line) + 2
		if total > limits.MaxHeadBytes {
			return nil, protoerrors.NewHeadersTooLongError(limits.MaxHeadBytes)
		}
		if len(line) == 0 {
			return m, nil
		}
		count++
		if count > limits.MaxHeaderCount {
			return nil, protoerrors.NewTooManyHeadersError(limits.MaxHeaderCount)
		}

		name, value, err := splitField(line)
		if err != nil {
			return nil, err
		}
		m.Append(NewName(name), NewValue(value))
	}
}

// readCRLFLine reads up to the next CRLF, returning the line without the
// terminator. LF-only termination is tolerated per common server practice.
func readCRLFLine(r *bufio.Reader, maxLen int) ([]byte, error) {
	line, err := r.ReadSlice('\n')
	if err != nil {
		return nil, protoerrors.NewMalformedHeadError("unterminated header line", err)
	}
	if maxLen > 0 && len(line) > maxLen {
		return nil, protoerrors.NewHeadersTooLongError(maxLen)
	}
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	out := make([]byte, len(line))
	copy(out, line)
	return out, nil
}

// splitField splits a raw header line into name and value, rejecting
// whitespace before the colon (request smuggling guard, RFC 9112 §5.1).
func splitField(line []byte) (string, []byte, error) {
	idx := bytes.IndexByte(line, ':')
	if idx <= 0 {
		return "", nil, protoerrors.NewMalformedHeadError("header line missing colon", nil)
	}
	name := line[:idx]
	for _, c := range name {
		if !isTokenChar(c) {
			return "", nil, protoerrors.NewMalformedHeadError("invalid header name byte", nil)
		}
	}
	value := bytes.TrimLeft(line[idx+1:], " \t")
	value = bytes.TrimRight(value, " \t")
	if !(Value{raw: value}).Valid() {
		return "", nil, protoerrors.NewMalformedHeadError("invalid header value byte", nil)
	}
	return string(name), value, nil
}
