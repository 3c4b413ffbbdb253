package outputs

import "testing"

func TestDequePushFrontEvicts(t *testing.T) {
	d := newDeque(nil, 2)
	if ev := d.PushFront(rec("a")); len(ev) != 0 {
		t.Fatalf("unexpected eviction %v", ev)
	}
	d.PushFront(rec("b"))
	ev := d.PushFront(rec("c"))
	if len(ev) != 1 || ev[0].ID != "a" {
		t.Fatalf("expected a evicted, got %v", ids(ev))
	}
	if got := ids(d.Items()); got[0] != "c" || got[1] != "b" {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestDequeTrimsOversizedInput(t *testing.T) {
	d := newDeque([]Record{rec("a"), rec("b"), rec("c")}, 2)
	if d.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", d.Len())
	}
	last, ok := d.PopBack()
	if !ok || last.ID != "b" {
		t.Fatalf("unexpected back %v %v", last.ID, ok)
	}
}

func TestDequeRemoveFunc(t *testing.T) {
	d := newDeque([]Record{rec("a"), rec("b"), rec("a")}, 5)
	if n := d.RemoveFunc(func(r Record) bool { return r.ID == "a" }); n != 2 {
		t.Fatalf("expected 2 removed, got %d", n)
	}
	if got := ids(d.Items()); len(got) != 1 || got[0] != "b" {
		t.Fatalf("unexpected remaining %v", got)
	}
	empty := newDeque(nil, 1)
	if _, ok := empty.PopBack(); ok {
		t.Fatal("PopBack on empty deque should report false")
	}
}
