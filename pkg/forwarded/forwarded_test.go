package forwarded

import (
	"testing"

	"github.com/trillium-rs/trillium-sub000/pkg/header"
)

func TestFromForwardedHeader(t *testing.T) {
	m := header.NewMap()
	m.Insert(header.NewName("Forwarded"), header.ValueString(`for=192.0.2.43, for="[2001:db8:cafe::17]", for=unknown;proto=https`))
	f, ok, err := FromHeaders(m)
	if err != nil || !ok {
		t.Fatalf("expected parsed forwarded, got %v %v", ok, err)
	}
	if f.Proto != "https" {
		t.Fatalf("expected proto https, got %q", f.Proto)
	}
	want := []string{"192.0.2.43", "[2001:db8:cafe::17]", "unknown"}
	if len(f.For) != len(want) {
		t.Fatalf("expected %v, got %v", want, f.For)
	}
	for i := range want {
		if f.For[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, f.For)
		}
	}
}

func TestFromXHeadersFallback(t *testing.T) {
	m := header.NewMap()
	m.Insert(header.NewName("X-Forwarded-For"), header.ValueString("192.0.2.43, 2001:db8:cafe::17"))
	m.Insert(header.NewName("X-Forwarded-Proto"), header.ValueString("https"))
	f, ok, err := FromHeaders(m)
	if err != nil || !ok {
		t.Fatalf("expected parsed forwarded, got %v %v", ok, err)
	}
	want := []string{"192.0.2.43", "[2001:db8:cafe::17]"}
	for i := range want {
		if f.For[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, f.For)
		}
	}
}

func TestNoHeadersPresent(t *testing.T) {
	m := header.NewMap()
	_, ok, _ := FromHeaders(m)
	if ok {
		t.Fatal("expected false when no forwarding headers present")
	}
}
