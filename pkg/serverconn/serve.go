package serverconn

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"runtime"
	"strings"

	protoerrors "github.com/trillium-rs/trillium-sub000/pkg/errors"
	"github.com/trillium-rs/trillium-sub000/pkg/handler"
	"github.com/trillium-rs/trillium-sub000/pkg/header"
	"github.com/trillium-rs/trillium-sub000/pkg/httpconfig"
	"github.com/trillium-rs/trillium-sub000/pkg/proto"
)

// Map drives one network connection through its full request/response
// lifecycle: parse a request head, run h against it, encode and send the
// response, and decide whether to loop for another request or close. It
// returns when the connection is no longer usable, which is also when
// the caller should close netConn.
//
// Map does not watch for the peer closing the connection while a handler
// runs: h receives ctx unchanged, so a handler is not cancelled by a
// disconnect.
func Map(ctx context.Context, netConn net.Conn, cfg httpconfig.Config, h handler.Handler, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	r := bufio.NewReader(netConn)
	w := bufio.NewWriter(netConn)

	requestNum := 0
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		readTimeout := cfg.HeadReadTimeout
		if requestNum > 0 && cfg.IdleTimeout > 0 {
			readTimeout = cfg.IdleTimeout
		}
		setNetReadDeadline(netConn, readTimeout)

		method, path, version, headers, err := parseHead(r, cfg.ParseLimits)
		if err != nil {
			if isCleanEOF(err) {
				return nil
			}
			writeErrorResponse(w, err)
			return err
		}

		reqBody, err := requestBody(r, headers, cfg.MaxBodyLength)
		if err != nil {
			writeErrorResponse(w, err)
			return err
		}

		conn := newConn(netConn, r, w, cfg, log)
		conn.Method, conn.Path, conn.Version, conn.Headers, conn.Body = method, path, version, headers, reqBody
		requestNum++

		if conn.expectsContinue() {
			if err := conn.sendContinue(); err != nil {
				return err
			}
		}

		hctx := ctx
		runConn, runErr := h.Run(hctx, conn)
		resultConn, _ := runConn.(*Conn)
		if resultConn == nil {
			resultConn = conn
		}
		resultConn = toConn(h.BeforeSend(hctx, resultConn))

		if runErr != nil {
			log.Error("handler error", "error", runErr, "path", path)
			resultConn.SetStatus(proto.StatusInternalServerError)
			resultConn.ResponseBody = nil
		}

		if err := encodeResponse(w, resultConn); err != nil {
			return err
		}
		if err := w.Flush(); err != nil {
			return protoerrors.NewIOError("write", err)
		}

		if resultConn.upgradeRequested {
			h.Upgrade(hctx, resultConn)
			return nil
		}

		if shouldCloseAfterRequest(resultConn) {
			return nil
		}
	}
}

func toConn(c handler.Conn) *Conn {
	if cc, ok := c.(*Conn); ok {
		return cc
	}
	return nil
}

// shouldCloseAfterRequest decides keep-alive, mirroring the teacher's
// Connection-header-and-version precedence.
func shouldCloseAfterRequest(c *Conn) bool {
	if v, ok := c.ResponseHeaders.Get(header.NewName("Connection")); ok {
		if strings.EqualFold(strings.TrimSpace(v.String()), "close") {
			return true
		}
	}
	if v, ok := c.Headers.Get(header.NewName("Connection")); ok {
		if strings.EqualFold(strings.TrimSpace(v.String()), "close") {
			return true
		}
	}
	if c.Version == proto.HTTP10 {
		v, ok := c.Headers.Get(header.NewName("Connection"))
		if !ok || !strings.EqualFold(strings.TrimSpace(v.String()), "keep-alive") {
			return true
		}
	}
	return false
}

func isCleanEOF(err error) bool {
	var pe *protoerrors.Error
	if errors.As(err, &pe) {
		return false
	}
	return errors.Is(err, io.EOF)
}

func writeErrorResponse(w *bufio.Writer, err error) {
	status := proto.StatusBadRequest
	var pe *protoerrors.Error
	if errors.As(err, &pe) {
		switch pe.Type {
		case protoerrors.ContentTooLong:
			status = proto.NewStatus(413, "")
		case protoerrors.HeadersTooLong, protoerrors.TooManyHeaders:
			status = proto.NewStatus(431, "Request Header Fields Too Large")
		case protoerrors.UnsupportedVersion:
			status = proto.StatusHTTPVersionNotSupported
		}
	}
	io.WriteString(w, "HTTP/1.1 "+status.String()+"\r\nConnection: close\r\nContent-Length: 0\r\n\r\n")
	w.Flush()
}

// yieldEveryN calls runtime.Gosched every n iterations of a copy loop,
// preserving fairness under a constrained GOMAXPROCS without forcing a
// scheduler yield on every single iteration.
func yieldEveryN(n int, i int) {
	if n > 0 && i%n == 0 {
		runtime.Gosched()
	}
}
