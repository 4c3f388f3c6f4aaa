package pool

import (
	"errors"
	"testing"
	"time"
)

type fakeConn struct {
	closed bool
}

func (f *fakeConn) Read(p []byte) (int, error)  { return 0, errors.New("not implemented") }
func (f *fakeConn) Write(p []byte) (int, error) { return 0, errors.New("not implemented") }
func (f *fakeConn) Close() error                { f.closed = true; return nil }

func TestPoolLIFOOrder(t *testing.T) {
	p := New()
	origin := Origin{Scheme: "http", Host: "example.com", Port: 80}
	a, b := &fakeConn{}, &fakeConn{}
	p.Put(origin, a, 0)
	p.Put(origin, b, 0)

	got, ok := p.Get(origin)
	if !ok || got != Conn(b) {
		t.Fatal("expected LIFO: most recently inserted returned first")
	}
	got, ok = p.Get(origin)
	if !ok || got != Conn(a) {
		t.Fatal("expected second Get to return the first-inserted entry")
	}
	if _, ok := p.Get(origin); ok {
		t.Fatal("expected pool to be empty")
	}
}

func TestPoolExpiry(t *testing.T) {
	p := New()
	origin := Origin{Scheme: "http", Host: "example.com", Port: 80}
	c := &fakeConn{}
	p.Put(origin, c, time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	if _, ok := p.Get(origin); ok {
		t.Fatal("expected expired entry to be discarded")
	}
	if !c.closed {
		t.Fatal("expected expired entry to be closed")
	}
}

func TestPoolCapacityEviction(t *testing.T) {
	p := NewWithCapacity(1)
	origin := Origin{Scheme: "http", Host: "example.com", Port: 80}
	a, b := &fakeConn{}, &fakeConn{}
	p.Put(origin, a, 0)
	p.Put(origin, b, 0)

	if p.Len(origin) != 1 {
		t.Fatalf("expected capacity-bound length 1, got %d", p.Len(origin))
	}
}

func TestPoolOriginIsolation(t *testing.T) {
	p := New()
	o1 := Origin{Scheme: "http", Host: "a.com", Port: 80}
	o2 := Origin{Scheme: "http", Host: "b.com", Port: 80}
	p.Put(o1, &fakeConn{}, 0)

	if _, ok := p.Get(o2); ok {
		t.Fatal("expected no cross-origin leakage")
	}
}
