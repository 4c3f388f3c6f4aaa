// Package trillium is the top-level facade over the toolkit: a Server
// that composes handlers over the acceptor loop, and a Client that
// composes the connection pool, a byte-stream dialer, and the client
// connection state machine into a single request/response call.
package trillium

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/trillium-rs/trillium-sub000/pkg/acceptor"
	"github.com/trillium-rs/trillium-sub000/pkg/body"
	"github.com/trillium-rs/trillium-sub000/pkg/clientconn"
	"github.com/trillium-rs/trillium-sub000/pkg/handler"
	"github.com/trillium-rs/trillium-sub000/pkg/httpconfig"
	"github.com/trillium-rs/trillium-sub000/pkg/pool"
	"github.com/trillium-rs/trillium-sub000/pkg/proto"
	"github.com/trillium-rs/trillium-sub000/pkg/serverconn"
	"github.com/trillium-rs/trillium-sub000/pkg/timing"
)

// Re-exported types so callers need only import this package for the
// common path.
type (
	Conn     = serverconn.Conn
	Handler  = handler.Handler
	Handlers = handler.Handlers
	Config   = httpconfig.Config
)

// Server wraps an Acceptor and a composed handler chain.
type Server struct {
	acceptor *acceptor.Acceptor
	handlers handler.Handlers
}

// NewServer returns a Server listening per cfg, running handlers in
// order for every accepted connection.
func NewServer(cfg acceptor.Config, handlers ...handler.Handler) *Server {
	return &Server{acceptor: acceptor.New(cfg), handlers: handler.Handlers(handlers)}
}

// Run serves until ctx is canceled or a SIGINT/SIGTERM is received,
// then waits for in-flight connections to drain.
func (s *Server) Run(ctx context.Context) error {
	if err := s.acceptor.ServeWithSignals(ctx, s.handlers); err != nil {
		return err
	}
	select {
	case <-s.acceptor.Drained():
	case <-time.After(30 * time.Second):
		return fmt.Errorf("trillium: shutdown drain timed out")
	}
	return nil
}

// Dial establishes a fresh byte-stream connection to origin. The core
// client (pool.Pool, clientconn.Conn) only ever consumes the
// io.ReadWriteCloser this returns — it has no notion of sockets, TLS, or
// proxies of its own, per the toolkit's injected-transport design. Client
// uses dialDirect by default; tests and callers wanting a different
// transport (an in-memory pipe, a proxied dial) supply their own via
// NewClientWithDialer.
type Dial func(ctx context.Context, origin pool.Origin) (net.Conn, error)

// dialDirect is the default Dial: a plain TCP connection, upgraded to TLS
// when the origin's scheme is "https".
func dialDirect(ctx context.Context, origin pool.Origin) (net.Conn, error) {
	addr := net.JoinHostPort(origin.Host, strconv.Itoa(origin.Port))
	conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("trillium: dial %s: %w", addr, err)
	}
	if origin.Scheme != "https" {
		return conn, nil
	}
	tlsConn := tls.Client(conn, &tls.Config{ServerName: origin.Host, MinVersion: tls.VersionTLS12})
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("trillium: tls handshake %s: %w", addr, err)
	}
	return tlsConn, nil
}

// Client performs HTTP/1.x exchanges against one or more origins, reusing
// connections from an idle pool between calls.
type Client struct {
	pool   *pool.Pool
	dial   Dial
	config httpconfig.Config
	log    *slog.Logger
}

// NewClient returns a Client with a default idle-connection pool, dialing
// plain TCP/TLS directly.
func NewClient() *Client {
	return NewClientWithDialer(dialDirect)
}

// NewClientWithDialer returns a Client using dial to acquire fresh
// connections, letting callers substitute a proxied or in-memory
// transport (e.g. net.Pipe in tests) for the default direct dialer.
func NewClientWithDialer(dial Dial) *Client {
	return &Client{
		pool:   pool.New(),
		dial:   dial,
		config: httpconfig.Default(),
		log:    slog.Default(),
	}
}

// Request describes one outgoing exchange.
type Request struct {
	Scheme  string
	Host    string
	Port    int
	Method  proto.Method
	Path    string
	Headers map[string]string
	Body    []byte
}

// Do performs one request, reusing a pooled connection when one is
// available for the request's origin and dialing a fresh one otherwise.
// The returned transport is recycled into the pool unless the exchange
// determined the connection must close.
func (c *Client) Do(ctx context.Context, req Request) (*clientconn.Response, error) {
	origin := pool.Origin{Scheme: req.Scheme, Host: req.Host, Port: req.Port}

	connectTimer := timing.NewTimer()
	connectTimer.StartConnect()
	var transportConn pool.Conn
	if cached, ok := c.pool.Get(origin); ok {
		transportConn = cached
	} else {
		conn, err := c.dial(ctx, origin)
		if err != nil {
			return nil, err
		}
		transportConn = conn
	}
	connectTimer.EndConnect()

	cc := clientconn.New(transportConn, c.config)
	cc.Method = req.Method
	cc.Path = req.Path
	if len(req.Body) > 0 {
		cc.Body = body.NewStatic(req.Body)
	}
	for k, v := range req.Headers {
		cc.SetRequestHeader(k, v)
	}

	resp, closeAfter, err := cc.Exchange(req.Host)
	if err != nil {
		transportConn.Close()
		return nil, err
	}
	resp.Timing.Connect = connectTimer.GetMetrics().Connect
	c.log.Debug("exchange complete", "host", req.Host, "path", req.Path, "timing", resp.Timing.String())

	if closeAfter {
		transportConn.Close()
	} else {
		c.pool.Put(origin, transportConn, 90*time.Second)
	}
	return resp, nil
}

// Close releases the client's pooled connections.
func (c *Client) Close() error {
	c.pool.CloseIdle()
	return nil
}
