package trillium

import (
	"context"
	"io"
	"net"
	"testing"

	"github.com/trillium-rs/trillium-sub000/pkg/handler"
	"github.com/trillium-rs/trillium-sub000/pkg/httpconfig"
	"github.com/trillium-rs/trillium-sub000/pkg/pool"
	"github.com/trillium-rs/trillium-sub000/pkg/proto"
	"github.com/trillium-rs/trillium-sub000/pkg/serverconn"
)

// echoHandler replies with the request path as a plain-text body,
// exercising a full round trip through Client.Do's dial path.
type echoHandler struct{ handler.Base }

func (echoHandler) Run(ctx context.Context, c handler.Conn) (handler.Conn, error) {
	sc := c.(*serverconn.Conn)
	sc.SetStatus(proto.StatusOK)
	sc.SetResponseHeader("Content-Type", "text/plain")
	sc.SetStringBody("path=" + sc.Path)
	return sc, nil
}

func TestClientDoDialsAndExchanges(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		serverconn.Map(context.Background(), conn, httpconfig.Default(), echoHandler{}, nil)
	}()

	addr := ln.Addr().(*net.TCPAddr)
	c := NewClientWithDialer(func(ctx context.Context, origin pool.Origin) (net.Conn, error) {
		return net.Dial("tcp", ln.Addr().String())
	})
	defer c.Close()

	resp, err := c.Do(context.Background(), Request{
		Scheme: "http",
		Host:   "127.0.0.1",
		Port:   addr.Port,
		Method: proto.Get,
		Path:   "/hello",
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.Status.Code != 200 {
		t.Fatalf("expected 200, got %d", resp.Status.Code)
	}
	got, err := io.ReadAll(resp.Body.Reader())
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(got) != "path=/hello" {
		t.Fatalf("expected echoed path, got %q", got)
	}
	if resp.Timing.Connect <= 0 {
		t.Fatalf("expected a positive connect duration, got %v", resp.Timing.Connect)
	}
	if resp.Timing.Total <= 0 {
		t.Fatalf("expected a positive total duration, got %v", resp.Timing.Total)
	}
}
