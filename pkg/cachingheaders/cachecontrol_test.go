package cachingheaders

import (
	"testing"
	"time"
)

func TestHeaderStringRoundTrip(t *testing.T) {
	h := New(
		Directive{Kind: Public},
		Directive{Kind: MaxAge, Duration: 3600 * time.Second},
		Directive{Kind: Immutable},
	)
	want := "public, max-age=3600, immutable"
	if h.String() != want {
		t.Fatalf("expected %q, got %q", want, h.String())
	}
}

func TestParse(t *testing.T) {
	h := Parse(`no-cache, max-stale=30, private`)
	if len(h) != 3 {
		t.Fatalf("expected 3 directives, got %d", len(h))
	}
	if h[0].Kind != NoCache {
		t.Fatalf("expected first directive NoCache, got %v", h[0].Kind)
	}
	if h[1].Kind != MaxStale || h[1].Duration != 30*time.Second || !h[1].HasDuration {
		t.Fatalf("unexpected max-stale parse: %+v", h[1])
	}
}

func TestParseUnknownDirective(t *testing.T) {
	h := Parse("some-future-directive")
	if len(h) != 1 || h[0].Kind != UnknownDirective || h[0].Unknown != "some-future-directive" {
		t.Fatalf("unexpected parse result: %+v", h)
	}
}
