// Package clientconn implements the client-side HTTP/1.x connection state
// machine: sending a request head and body, handling an optional 100
// Continue interim response, and resolving the response body's length.
package clientconn

import (
	"bufio"
	"io"

	"github.com/trillium-rs/trillium-sub000/pkg/body"
	"github.com/trillium-rs/trillium-sub000/pkg/header"
	"github.com/trillium-rs/trillium-sub000/pkg/httpconfig"
	"github.com/trillium-rs/trillium-sub000/pkg/proto"
)

// Transport is the capability a Conn needs from its underlying network
// connection: a closable byte stream. pool.Conn satisfies this, as does
// any net.Conn.
type Transport = io.ReadWriteCloser

// Conn is one client-side request/response exchange over an already
// acquired Transport.
type Conn struct {
	transport Transport
	reader    *bufio.Reader
	writer    *bufio.Writer
	config    httpconfig.Config

	Method  proto.Method
	Path    string
	Version proto.Version
	Headers *header.Map
	Body    *body.Body

	headersFinalized bool
	expectContinue   bool
}

// New wraps transport for one exchange.
func New(transport Transport, cfg httpconfig.Config) *Conn {
	return &Conn{
		transport: transport,
		reader:    bufio.NewReader(transport),
		writer:    bufio.NewWriter(transport),
		config:    cfg,
		Version:   proto.HTTP11,
		Headers:   header.NewMap(),
	}
}

// SetRequestHeader sets name to value, replacing any existing value.
func (c *Conn) SetRequestHeader(name, value string) {
	c.Headers.Insert(header.NewName(name), header.ValueString(value))
}

// finalizeHeaders fills in Host and Content-Length/Transfer-Encoding
// (Content-Length: 0 for an empty body), and records whether the caller
// set Expect: 100-continue; it never adds an Expect header itself. It
// runs exactly once per Conn — a second call is a no-op, since a retry
// path may call Exchange more than once against a freshly dialed
// transport but must not re-derive headers from a body reader that has
// already been partially consumed.
func (c *Conn) finalizeHeaders(host string) {
	if c.headersFinalized {
		return
	}
	c.headersFinalized = true

	if !c.Headers.Has(header.NewName("Host")) && host != "" {
		c.Headers.Insert(header.NewName("Host"), header.ValueString(host))
	}

	b := c.Body
	if b == nil {
		b = body.NewEmpty()
		c.Body = b
	}
	if b.Len() >= 0 {
		if !c.Headers.Has(header.NewName("Content-Length")) {
			c.Headers.Insert(header.NewName("Content-Length"), header.ValueString(itoa(b.Len())))
		}
	} else if !c.Headers.Has(header.NewName("Transfer-Encoding")) {
		c.Headers.Insert(header.NewName("Transfer-Encoding"), header.ValueString("chunked"))
	}

	if v, ok := c.Headers.Get(header.NewName("Expect")); ok && equalFold(v.String(), "100-continue") {
		c.expectContinue = true
	}
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func equalFold(a, b string) bool {
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
