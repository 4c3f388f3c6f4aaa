package stopper

import (
	"testing"
	"time"
)

func TestStopperDrainsAfterTokensClose(t *testing.T) {
	s := New()
	tok1 := s.Clone()
	tok2 := s.Clone()

	s.Stop()
	select {
	case <-s.Drained():
		t.Fatal("expected not drained while tokens outstanding")
	default:
	}

	tok1.Close()
	select {
	case <-s.Drained():
		t.Fatal("expected not drained with one token still open")
	default:
	}

	tok2.Close()
	select {
	case <-s.Drained():
	case <-time.After(time.Second):
		t.Fatal("expected drained after all tokens closed")
	}
}

func TestStopperDrainsImmediatelyWhenIdle(t *testing.T) {
	s := New()
	s.Stop()
	select {
	case <-s.Drained():
	default:
		t.Fatal("expected immediate drain with no outstanding work")
	}
}

func TestStopperTokenCloseIdempotent(t *testing.T) {
	s := New()
	tok := s.Clone()
	tok.Close()
	tok.Close()
	if s.InFlight() != 0 {
		t.Fatalf("expected 0 in flight, got %d", s.InFlight())
	}
}
