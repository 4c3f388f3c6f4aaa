// Package serverconn implements the server-side HTTP/1.x connection state
// machine: parsing a request head, driving the handler chain, and
// encoding the response, with keep-alive and upgrade handling.
package serverconn

import (
	"bufio"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/trillium-rs/trillium-sub000/pkg/body"
	protoerrors "github.com/trillium-rs/trillium-sub000/pkg/errors"
	"github.com/trillium-rs/trillium-sub000/pkg/handler"
	"github.com/trillium-rs/trillium-sub000/pkg/header"
	"github.com/trillium-rs/trillium-sub000/pkg/httpconfig"
	"github.com/trillium-rs/trillium-sub000/pkg/proto"
	"github.com/trillium-rs/trillium-sub000/pkg/state"
)

// Conn is one HTTP/1.x request/response exchange riding over a single
// network connection. It satisfies handler.Conn and handler.ConnBody so
// handler chains can halt it or set a quick string body.
type Conn struct {
	netConn net.Conn
	reader  *bufio.Reader
	writer  *bufio.Writer
	config  httpconfig.Config
	log     *slog.Logger

	Method  proto.Method
	Path    string
	Version proto.Version
	Headers *header.Map
	Body    *body.Body

	Status         proto.Status
	ResponseHeaders *header.Map
	ResponseBody   *body.Body

	State *state.Bag

	halted            bool
	wroteContinue     bool
	upgradeRequested  bool
	upgradeProtocol   string
}

// newConn constructs a Conn for one request head already parsed from r/w.
func newConn(netConn net.Conn, r *bufio.Reader, w *bufio.Writer, cfg httpconfig.Config, log *slog.Logger) *Conn {
	return &Conn{
		netConn:         netConn,
		reader:          r,
		writer:          w,
		config:          cfg,
		log:             log,
		ResponseHeaders: header.NewMap(),
		Status:          proto.StatusOK,
		State:           state.NewBag(),
	}
}

// Halted implements handler.Conn.
func (c *Conn) Halted() bool { return c.halted }

// Halt implements handler.Conn.
func (c *Conn) Halt() { c.halted = true }

// SetStringBody implements handler.ConnBody.
func (c *Conn) SetStringBody(s string) {
	c.ResponseBody = body.NewStatic([]byte(s))
}

// SetStatus sets the response status line.
func (c *Conn) SetStatus(status proto.Status) { c.Status = status }

// RequestHeader returns the first value of name from the request headers.
func (c *Conn) RequestHeader(name string) (string, bool) {
	v, ok := c.Headers.Get(header.NewName(name))
	if !ok {
		return "", false
	}
	return v.String(), true
}

// SetResponseHeader sets name to value on the response, replacing any
// existing value.
func (c *Conn) SetResponseHeader(name, value string) {
	c.ResponseHeaders.Insert(header.NewName(name), header.ValueString(value))
}

// PeerAddr returns the remote address of the underlying connection.
func (c *Conn) PeerAddr() net.Addr { return c.netConn.RemoteAddr() }

// RequestUpgrade marks the connection as requesting a protocol upgrade,
// to be handled by the handler chain's Upgrade method after the 101
// response is sent.
func (c *Conn) RequestUpgrade(protocol string) {
	c.upgradeRequested = true
	c.upgradeProtocol = protocol
	c.Status = proto.StatusSwitchingProtocols
	c.SetResponseHeader("Upgrade", protocol)
	c.SetResponseHeader("Connection", "upgrade")
	c.Halt()
}

// sendContinue writes the 100 Continue interim response immediately,
// ahead of the final response. It is a no-op if already sent.
func (c *Conn) sendContinue() error {
	if c.wroteContinue {
		return nil
	}
	c.wroteContinue = true
	if _, err := io.WriteString(c.writer, "HTTP/1.1 100 Continue\r\n\r\n"); err != nil {
		return protoerrors.NewIOError("write", err)
	}
	return c.writer.Flush()
}

// expectsContinue reports whether the request carries Expect:
// 100-continue.
func (c *Conn) expectsContinue() bool {
	v, ok := c.Headers.Get(header.NewName("Expect"))
	if !ok {
		return false
	}
	return stringsEqualFold(v.String(), "100-continue")
}

func stringsEqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// setNetReadDeadline applies the head/idle read timeout ahead of parsing
// the next request head.
func setNetReadDeadline(netConn net.Conn, d time.Duration) {
	if d <= 0 {
		netConn.SetReadDeadline(time.Time{})
		return
	}
	netConn.SetReadDeadline(time.Now().Add(d))
}

var _ handler.Conn     = (*Conn)(nil)
var _ handler.ConnBody = (*Conn)(nil)
