package state

import "testing"

type requestID string
type counter int

func TestBagGetSet(t *testing.T) {
	b := NewBag()
	if _, ok := GetOK[requestID](b); ok {
		t.Fatal("expected absent value")
	}
	Set(b, requestID("abc"))
	v, ok := GetOK[requestID](b)
	if !ok || v != "abc" {
		t.Fatalf("expected abc, got %v %v", v, ok)
	}
}

func TestBagDistinctTypes(t *testing.T) {
	b := NewBag()
	Set(b, requestID("abc"))
	Set(b, counter(5))
	if Get[requestID](b) != "abc" {
		t.Fatal("requestID clobbered")
	}
	if Get[counter](b) != 5 {
		t.Fatal("counter clobbered")
	}
}

func TestEntryOrInsertWith(t *testing.T) {
	b := NewBag()
	e := EntryFor[counter](b)
	v := e.OrInsertWith(func() counter { return 1 })
	if v != 1 {
		t.Fatalf("expected 1, got %d", v)
	}
	e.AndModify(func(c *counter) { *c++ })
	if Get[counter](b) != 2 {
		t.Fatalf("expected 2 after modify, got %d", Get[counter](b))
	}
}

func TestBagRemove(t *testing.T) {
	b := NewBag()
	Set(b, counter(9))
	v, ok := Remove[counter](b)
	if !ok || v != 9 {
		t.Fatalf("expected 9, got %v %v", v, ok)
	}
	if Has[counter](b) {
		t.Fatal("expected absent after remove")
	}
}
