package body

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestChunkRoundTrip(t *testing.T) {
	cases := [][]byte{
		[]byte(""),
		[]byte("hello"),
		bytes.Repeat([]byte("x"), 100000),
	}
	for _, data := range cases {
		var buf bytes.Buffer
		n, err := CopyChunked(&buf, bytes.NewReader(data), nil)
		if err != nil {
			t.Fatalf("encode error: %v", err)
		}
		if n != int64(len(data)) {
			t.Fatalf("expected %d bytes written, got %d", len(data), n)
		}

		dec := NewChunkDecoder(bufio.NewReader(&buf))
		got, err := io.ReadAll(dec)
		if err != nil {
			t.Fatalf("decode error: %v", err)
		}
		if !bytes.Equal(got, data) {
			t.Fatalf("round trip mismatch: got %d bytes, want %d", len(got), len(data))
		}
	}
}

func TestChunkDecoderRejectsBadFraming(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("not-hex\r\ndata\r\n0\r\n\r\n"))
	dec := NewChunkDecoder(r)
	if _, err := io.ReadAll(dec); err == nil {
		t.Fatal("expected error for invalid chunk size line")
	}
}

func TestChunkDecoderIgnoresExtensions(t *testing.T) {
	raw := "5;foo=bar\r\nhello\r\n0\r\n\r\n"
	dec := NewChunkDecoder(bufio.NewReader(strings.NewReader(raw)))
	got, err := io.ReadAll(dec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("expected hello, got %q", got)
	}
}

func TestBodyKinds(t *testing.T) {
	empty := NewEmpty()
	if empty.Len() != 0 {
		t.Fatalf("expected empty body length 0")
	}
	static := NewStatic([]byte("abc"))
	if static.Len() != 3 {
		t.Fatalf("expected static length 3, got %d", static.Len())
	}
	got, _ := io.ReadAll(static.Reader())
	if string(got) != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}
}
