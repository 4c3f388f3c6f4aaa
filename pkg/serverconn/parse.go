package serverconn

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/trillium-rs/trillium-sub000/pkg/body"
	protoerrors "github.com/trillium-rs/trillium-sub000/pkg/errors"
	"github.com/trillium-rs/trillium-sub000/pkg/header"
	"github.com/trillium-rs/trillium-sub000/pkg/proto"
)

// readRequestLine reads and parses "METHOD path HTTP/x.y\r\n".
func readRequestLine(r *bufio.Reader, maxLen int) (proto.Method, string, proto.Version, error) {
	line, err := r.ReadSlice('\n')
	if err != nil {
		return proto.Method{}, "", 0, err
	}
	if maxLen > 0 && len(line) > maxLen {
		return proto.Method{}, "", 0, protoerrors.NewHeadersTooLongError(maxLen)
	}
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))

	parts := strings.SplitN(string(line), " ", 3)
	if len(parts) != 3 {
		return proto.Method{}, "", 0, protoerrors.NewMalformedHeadError("malformed request line", nil)
	}
	version, err := proto.ParseVersion(parts[2])
	if err != nil {
		return proto.Method{}, "", 0, err
	}
	return proto.ParseMethod(parts[0]), parts[1], version, nil
}

// parseHead reads the request line and headers from r, validating the
// Content-Length/Transfer-Encoding relationship per RFC 9112 §6.1.
func parseHead(r *bufio.Reader, limits header.ParseLimits) (proto.Method, string, proto.Version, *header.Map, error) {
	method, path, version, err := readRequestLine(r, limits.MaxHeaderLength)
	if err != nil {
		return proto.Method{}, "", 0, nil, err
	}
	headers, err := header.ParseFields(r, limits)
	if err != nil {
		return proto.Method{}, "", 0, nil, err
	}

	_, hasCL := headers.Get(header.NewName("Content-Length"))
	teVal, hasTE := headers.Get(header.NewName("Transfer-Encoding"))
	if hasCL && hasTE {
		return proto.Method{}, "", 0, nil, protoerrors.NewHeaderConflictError()
	}
	if hasTE && !strings.EqualFold(strings.TrimSpace(teVal.String()), "chunked") {
		return proto.Method{}, "", 0, nil, protoerrors.NewMalformedHeadError("unsupported Transfer-Encoding", nil)
	}

	return method, path, version, headers, nil
}

// requestBody builds the Body for a parsed request head, reading from r
// according to Content-Length or chunked framing. A request with neither
// header has an empty body, whatever its method.
func requestBody(r *bufio.Reader, headers *header.Map, maxLen int64) (*body.Body, error) {
	if v, ok := headers.Get(header.NewName("Transfer-Encoding")); ok && strings.EqualFold(strings.TrimSpace(v.String()), "chunked") {
		dec := body.NewChunkDecoder(r)
		return body.NewStreaming(body.LimitReader(dec, maxLen), -1), nil
	}

	v, ok := headers.Get(header.NewName("Content-Length"))
	if !ok {
		return body.NewEmpty(), nil
	}
	length, err := strconv.ParseInt(strings.TrimSpace(v.String()), 10, 63)
	if err != nil || length < 0 {
		return nil, protoerrors.NewMalformedHeadError("invalid Content-Length", err)
	}
	if maxLen > 0 && length > maxLen {
		return nil, protoerrors.NewContentTooLongError(maxLen)
	}
	if length == 0 {
		return body.NewEmpty(), nil
	}
	return body.NewStreaming(io.LimitReader(r, length), length), nil
}
