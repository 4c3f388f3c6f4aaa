package handler

import (
	"context"
	"testing"
)

type fakeConn struct {
	halted bool
	body   string
	log    *[]string
}

func (c *fakeConn) Halted() bool        { return c.halted }
func (c *fakeConn) Halt()               { c.halted = true }
func (c *fakeConn) SetStringBody(s string) { c.body = s }

func recording(name string, log *[]string) Handler {
	return Func(func(ctx context.Context, conn Conn) (Conn, error) {
		*log = append(*log, "run:"+name)
		return conn, nil
	})
}

func TestHandlersRunStopsOnHalt(t *testing.T) {
	var log []string
	halting := Func(func(ctx context.Context, conn Conn) (Conn, error) {
		log = append(log, "run:halt")
		conn.Halt()
		return conn, nil
	})
	hs := Handlers{recording("a", &log), halting, recording("b", &log)}
	c := &fakeConn{log: &log}
	_, err := hs.Run(context.Background(), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"run:a", "run:halt"}
	if len(log) != len(want) {
		t.Fatalf("expected %v, got %v", want, log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, log)
		}
	}
}

func TestHandlersBeforeSendRunsRegardlessOfHalt(t *testing.T) {
	var order []string
	mk := func(name string) Handler {
		return &recorder{name: name, order: &order}
	}
	hs := Handlers{mk("a"), mk("b"), mk("c")}
	c := &fakeConn{halted: true, log: &order}
	hs.BeforeSend(context.Background(), c)
	want := []string{"c", "b", "a"}
	if len(order) != 3 {
		t.Fatalf("expected 3 calls, got %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected right-to-left order %v, got %v", want, order)
		}
	}
}

type recorder struct {
	Base
	name  string
	order *[]string
}

func (r *recorder) BeforeSend(ctx context.Context, conn Conn) Conn {
	*r.order = append(*r.order, r.name)
	return conn
}

func TestStringHandlerSetsBodyAndHalts(t *testing.T) {
	c := &fakeConn{}
	h := String("hello")
	_, err := h.Run(context.Background(), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.body != "hello" || !c.halted {
		t.Fatalf("expected body set and halted, got body=%q halted=%v", c.body, c.halted)
	}
}
