package header

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
)

func TestMapHostDateFirst(t *testing.T) {
	m := NewMap()
	m.Insert(NewName("Content-Type"), ValueString("text/plain"))
	m.Insert(NewName("Date"), ValueString("Tue, 01 Jan 2030 00:00:00 GMT"))
	m.Insert(NewName("Host"), ValueString("example.com"))
	m.Insert(NewName("X-Custom"), ValueString("z"))

	entries := m.Entries()
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}
	if !entries[0].Name.EqualString("Host") {
		t.Fatalf("expected Host first, got %s", entries[0].Name)
	}
	if !entries[1].Name.EqualString("Date") {
		t.Fatalf("expected Date second, got %s", entries[1].Name)
	}
}

func TestMapMultiValue(t *testing.T) {
	m := NewMap()
	m.Append(NewName("Set-Cookie"), ValueString("a=1"))
	m.Append(NewName("Set-Cookie"), ValueString("b=2"))

	all := m.GetAll(NewName("set-cookie"))
	if len(all) != 2 {
		t.Fatalf("expected 2 values, got %d", len(all))
	}
	if all[0].String() != "a=1" || all[1].String() != "b=2" {
		t.Fatalf("unexpected values: %v", all)
	}
}

func TestMapCaseInsensitive(t *testing.T) {
	m := NewMap()
	m.Insert(NewName("content-type"), ValueString("text/plain"))
	if !m.Has(NewName("CONTENT-TYPE")) {
		t.Fatal("expected case-insensitive match")
	}
}

func TestMapTryInsert(t *testing.T) {
	m := NewMap()
	if !m.TryInsert(NewName("X-Id"), ValueString("1")) {
		t.Fatal("expected first TryInsert to succeed")
	}
	if m.TryInsert(NewName("X-Id"), ValueString("2")) {
		t.Fatal("expected second TryInsert to fail")
	}
	v, _ := m.Get(NewName("X-Id"))
	if v.String() != "1" {
		t.Fatalf("expected original value preserved, got %s", v.String())
	}
}

func TestParseFieldsRoundTrip(t *testing.T) {
	raw := "Host: example.com\r\nContent-Length: 5\r\nX-Custom: value\r\n\r\n"
	r := bufio.NewReader(strings.NewReader(raw))
	m, err := ParseFields(r, DefaultParseLimits())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := m.Get(NewName("Content-Length"))
	if !ok || v.String() != "5" {
		t.Fatalf("expected Content-Length 5, got %v %v", ok, v)
	}

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}
	if !strings.HasSuffix(buf.String(), "\r\n\r\n") {
		t.Fatalf("expected trailing blank line, got %q", buf.String())
	}
}

func TestParseFieldsRejectsWhitespaceBeforeColon(t *testing.T) {
	raw := "Host : example.com\r\n\r\n"
	r := bufio.NewReader(strings.NewReader(raw))
	if _, err := ParseFields(r, DefaultParseLimits()); err == nil {
		t.Fatal("expected error for whitespace before colon")
	}
}

func TestParseFieldsTooManyHeaders(t *testing.T) {
	var raw strings.Builder
	for i := 0; i < 5; i++ {
		raw.WriteString("X-A: 1\r\n")
	}
	raw.WriteString("\r\n")
	r := bufio.NewReader(strings.NewReader(raw.String()))
	limits := ParseLimits{MaxHeadBytes: 1 << 20, MaxHeaderCount: 3, MaxHeaderLength: 1024}
	if _, err := ParseFields(r, limits); err == nil {
		t.Fatal("expected too-many-headers error")
	}
}
