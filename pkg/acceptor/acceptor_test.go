package acceptor

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/trillium-rs/trillium-sub000/pkg/handler"
	"github.com/trillium-rs/trillium-sub000/pkg/httpconfig"
	"github.com/trillium-rs/trillium-sub000/pkg/serverconn"
)

func TestAcceptorServesAndDrains(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen error: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	host, portStr, _ := net.SplitHostPort(addr)
	port := 0
	for _, c := range portStr {
		port = port*10 + int(c-'0')
	}

	a := New(Config{Host: host, Port: port, HTTPConfig: httpconfig.Default()})
	h := handler.Func(func(ctx context.Context, c handler.Conn) (handler.Conn, error) {
		sc := c.(*serverconn.Conn)
		sc.SetStringBody("ok")
		return c, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	serveErr := make(chan error, 1)
	go func() { serveErr <- a.Serve(ctx, h) }()

	time.Sleep(50 * time.Millisecond)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	conn.Write([]byte("GET / HTTP/1.1\r\nHost: x\r\nConnection: close\r\n\r\n"))
	reader := bufio.NewReader(conn)
	line, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if line != "HTTP/1.1 200 OK\r\n" {
		t.Fatalf("unexpected status line: %q", line)
	}
	conn.Close()

	cancel()
	select {
	case <-a.Drained():
	case <-time.After(2 * time.Second):
		t.Fatal("expected drain after shutdown")
	}
	<-serveErr
}
