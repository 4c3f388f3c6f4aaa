package clientconn

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/trillium-rs/trillium-sub000/pkg/body"
	protoerrors "github.com/trillium-rs/trillium-sub000/pkg/errors"
	"github.com/trillium-rs/trillium-sub000/pkg/header"
	"github.com/trillium-rs/trillium-sub000/pkg/proto"
	"github.com/trillium-rs/trillium-sub000/pkg/timing"
)

// Response is a parsed response head plus its body.
type Response struct {
	Status  proto.Status
	Version proto.Version
	Headers *header.Map
	Body    *body.Body

	// Timing reports how long the exchange took to send its request and
	// receive the first response byte, for callers that want visibility
	// into per-request latency.
	Timing timing.Metrics
}

// deadlineSetter is implemented by transports that support read
// deadlines (net.Conn does); transports that don't simply skip the
// Expect: 100-continue wait-with-timeout behavior and send the body
// immediately.
type deadlineSetter interface {
	SetReadDeadline(t time.Time) error
}

// Exchange sends c's request head and body over the transport and
// returns the parsed response. host is used to fill in a missing Host
// header. closeAfter reports whether the connection must be closed
// rather than recycled into the pool, per the response's own framing.
func (c *Conn) Exchange(host string) (resp *Response, closeAfter bool, err error) {
	timer := timing.NewTimer()
	c.finalizeHeaders(host)

	if err := c.writeHead(); err != nil {
		return nil, true, err
	}

	if c.expectContinue {
		proceed, err := c.awaitContinue()
		if err != nil {
			return nil, true, err
		}
		if !proceed {
			return nil, true, protoerrors.NewTimeoutError("expect-continue", c.config.ExpectContinueTimeout)
		}
	}

	if err := c.sendBody(); err != nil {
		return nil, true, err
	}
	if err := c.writer.Flush(); err != nil {
		return nil, true, protoerrors.NewIOError("write", err)
	}

	timer.StartTTFB()
	resp, err = c.readResponse()
	timer.EndTTFB()
	if err != nil {
		return nil, true, err
	}
	resp.Timing = timer.GetMetrics()
	closeAfter = c.shouldClose(resp)
	return resp, closeAfter, nil
}

func (c *Conn) writeHead() error {
	if _, err := io.WriteString(c.writer, c.Method.String()+" "+c.Path+" "+c.Version.String()+"\r\n"); err != nil {
		return protoerrors.NewIOError("write", err)
	}
	if _, err := c.Headers.WriteTo(c.writer); err != nil {
		return protoerrors.NewIOError("write", err)
	}
	return c.writer.Flush()
}

// awaitContinue waits up to ExpectContinueTimeout for a 100 response
// before the caller proceeds to send the body regardless of outcome (a
// non-responding server is not a protocol violation, just an
// opportunity to skip the interim response per RFC 9110 §10.1.1).
func (c *Conn) awaitContinue() (bool, error) {
	timeout := c.config.ExpectContinueTimeout
	if timeout <= 0 {
		return true, nil
	}
	ds, ok := c.transport.(deadlineSetter)
	if !ok {
		return true, nil
	}
	ds.SetReadDeadline(time.Now().Add(timeout))
	defer ds.SetReadDeadline(time.Time{})

	line, err := readLine(c.reader)
	if err != nil {
		if isNetTimeout(err) {
			return true, nil
		}
		return false, err
	}
	status, err := parseStatusLine(line)
	if err != nil {
		return false, err
	}
	if status.Code == 100 {
		// Discard the interim response's (always-empty) header block.
		if _, err := header.ParseFields(c.reader, c.config.ParseLimits); err != nil {
			return false, err
		}
	}
	return true, nil
}

func isNetTimeout(err error) bool {
	return protoerrors.IsTimeoutError(err)
}

func (c *Conn) sendBody() error {
	b := c.Body
	if b == nil || b.Len() == 0 {
		return nil
	}
	if b.Len() < 0 {
		_, err := body.CopyChunked(c.writer, b.Reader(), nil)
		return err
	}
	if _, err := io.Copy(c.writer, b.Reader()); err != nil {
		return protoerrors.NewIOError("write", err)
	}
	return nil
}

func (c *Conn) readResponse() (*Response, error) {
	var status proto.Status
	var version proto.Version
	var headers *header.Map

	for {
		line, err := readLine(c.reader)
		if err != nil {
			return nil, err
		}
		version, status, err = parseStatusLineVersion(line)
		if err != nil {
			return nil, err
		}
		headers, err = header.ParseFields(c.reader, c.config.ParseLimits)
		if err != nil {
			return nil, err
		}
		if status.IsInformational() && status.Code != 100 {
			continue // discard other 1xx interim responses and keep reading
		}
		if status.Code == 100 {
			continue // a redundant 100 seen outside awaitContinue's window
		}
		break
	}

	respBody, err := c.resolveResponseBody(status, headers)
	if err != nil {
		return nil, err
	}
	return &Response{Status: status, Version: version, Headers: headers, Body: respBody}, nil
}

// resolveResponseBody applies RFC 9112 §6.3's body-length rules.
func (c *Conn) resolveResponseBody(status proto.Status, headers *header.Map) (*body.Body, error) {
	if c.Method.Equal(proto.Head) || status.Code == 204 || status.Code == 304 || status.IsInformational() {
		return body.NewEmpty(), nil
	}

	if v, ok := headers.Get(header.NewName("Transfer-Encoding")); ok && strings.EqualFold(strings.TrimSpace(v.String()), "chunked") {
		dec := body.NewChunkDecoder(c.reader)
		return body.NewStreaming(body.LimitReader(dec, c.config.MaxBodyLength), -1), nil
	}

	if v, ok := headers.Get(header.NewName("Content-Length")); ok {
		length, err := strconv.ParseInt(strings.TrimSpace(v.String()), 10, 63)
		if err != nil || length < 0 {
			return nil, protoerrors.NewProtocolError("invalid Content-Length", err)
		}
		if c.config.MaxBodyLength > 0 && length > c.config.MaxBodyLength {
			return nil, protoerrors.NewContentTooLongError(c.config.MaxBodyLength)
		}
		if length == 0 {
			return body.NewEmpty(), nil
		}
		return body.NewStreaming(io.LimitReader(c.reader, length), length), nil
	}

	// Neither Content-Length nor chunked: body runs until the connection
	// closes. The caller must not recycle this transport into the pool.
	return body.NewStreaming(body.LimitReader(c.reader, c.config.MaxBodyLength), -1), nil
}

func (c *Conn) shouldClose(resp *Response) bool {
	if v, ok := resp.Headers.Get(header.NewName("Connection")); ok && strings.EqualFold(strings.TrimSpace(v.String()), "close") {
		return true
	}
	if resp.Version == proto.HTTP10 {
		v, ok := resp.Headers.Get(header.NewName("Connection"))
		if !ok || !strings.EqualFold(strings.TrimSpace(v.String()), "keep-alive") {
			return true
		}
	}
	if !resp.Headers.Has(header.NewName("Content-Length")) && !hasChunkedEncoding(resp.Headers) {
		return true
	}
	return false
}

func hasChunkedEncoding(h *header.Map) bool {
	v, ok := h.Get(header.NewName("Transfer-Encoding"))
	return ok && strings.EqualFold(strings.TrimSpace(v.String()), "chunked")
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadSlice('\n')
	if err != nil {
		return "", protoerrors.NewProtocolError("unterminated status line", err)
	}
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	return string(line), nil
}

func parseStatusLine(line string) (proto.Status, error) {
	_, status, err := parseStatusLineVersion(line)
	return status, err
}

func parseStatusLineVersion(line string) (proto.Version, proto.Status, error) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 2 {
		return 0, proto.Status{}, protoerrors.NewProtocolError("malformed status line", nil)
	}
	version, err := proto.ParseVersion(parts[0])
	if err != nil {
		return 0, proto.Status{}, err
	}
	code, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, proto.Status{}, protoerrors.NewProtocolError("invalid status code", err)
	}
	reason := ""
	if len(parts) == 3 {
		reason = parts[2]
	}
	return version, proto.NewStatus(code, reason), nil
}
