package serverconn

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/trillium-rs/trillium-sub000/pkg/handler"
	"github.com/trillium-rs/trillium-sub000/pkg/httpconfig"
)

func echoHandler() handler.Handler {
	return handler.Func(func(ctx context.Context, hc handler.Conn) (handler.Conn, error) {
		c := hc.(*Conn)
		c.SetResponseHeader("Content-Type", "text/plain")
		c.SetStringBody("hello " + c.Path)
		return c, nil
	})
}

func TestMapSimpleRequestResponse(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()

	done := make(chan error, 1)
	go func() {
		err := Map(context.Background(), server, httpconfig.Default(), echoHandler(), nil)
		server.Close()
		done <- err
	}()

	if _, err := client.Write([]byte("GET /world HTTP/1.1\r\nHost: example.com\r\nConnection: close\r\n\r\n")); err != nil {
		t.Fatalf("write error: %v", err)
	}

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	resp, err := io.ReadAll(client)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if len(resp) == 0 {
		t.Fatal("expected a response")
	}
	got := string(resp)
	if !contains(got, "200 OK") || !contains(got, "hello /world") {
		t.Fatalf("unexpected response: %q", got)
	}

	<-done
}

func contains(haystack, needle string) bool {
	return len(haystack) >= len(needle) && indexOf(haystack, needle) >= 0
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}
