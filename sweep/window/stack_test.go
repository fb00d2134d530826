package window

import (
	"testing"

	"github.com/aslpavel/sweep-go/sweep/scorer"
)

func newWin(id ID) *Window {
	return New(id, "> ", scorer.NewFuzzyScorer(), false)
}

func TestStackPushAndTop(t *testing.T) {
	s := NewStack()
	a, b := newWin(IntID(1)), newWin(IntID(2))
	defer a.Close()
	defer b.Close()

	s.Push(a)
	if s.Top() != a {
		t.Fatalf("Top() = %v, want a", s.Top())
	}
	s.Push(b)
	if s.Top() != b {
		t.Fatalf("Top() = %v, want b", s.Top())
	}
}

func TestStackPopActivatesPrevious(t *testing.T) {
	s := NewStack()
	a, b := newWin(IntID(1)), newWin(IntID(2))
	defer a.Close()
	s.Push(a)
	s.Push(b)

	if !s.Pop() {
		t.Fatalf("Pop() = false, want true")
	}
	if s.Top() != a {
		t.Fatalf("Top() = %v, want a", s.Top())
	}
}

func TestStackPopLastWindowIsNoOp(t *testing.T) {
	s := NewStack()
	a := newWin(IntID(1))
	defer a.Close()
	s.Push(a)

	if s.Pop() {
		t.Fatalf("Pop() on the last window = true, want false (session should end instead)")
	}
	if s.Top() != a {
		t.Fatalf("Top() = %v, want a still present", s.Top())
	}
}

func TestStackSwitchReactivatesExistingWindow(t *testing.T) {
	s := NewStack()
	a, b := newWin(IntID(1)), newWin(IntID(2))
	defer a.Close()
	defer b.Close()
	s.Push(a)
	s.Push(b)

	got := s.Switch(IntID(1), false, func() *Window { t.Fatal("create should not be called for an existing window"); return nil })
	if got != a || s.Top() != a {
		t.Fatalf("Switch did not reactivate the existing window")
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (reactivating should not duplicate)", s.Len())
	}
}

func TestStackSwitchCreatesNewWindow(t *testing.T) {
	s := NewStack()
	a := newWin(IntID(1))
	defer a.Close()
	s.Push(a)

	var created *Window
	got := s.Switch(IntID(2), false, func() *Window {
		created = newWin(IntID(2))
		return created
	})
	defer got.Close()
	if got != created || s.Top() != created {
		t.Fatalf("Switch did not create and activate the new window")
	}
}

func TestStackSwitchClosePrev(t *testing.T) {
	s := NewStack()
	a, b := newWin(IntID(1)), newWin(IntID(2))
	defer b.Close()
	s.Push(a)
	s.Push(b)

	s.Switch(IntID(3), true, func() *Window { return newWin(IntID(3)) })
	defer s.Top().Close()
	if _, err := s.Get(IntID(2)); err == nil {
		t.Fatalf("expected window 2 to be closed and removed")
	}
}

func TestStackGetUnknownID(t *testing.T) {
	s := NewStack()
	if _, err := s.Get(IntID(99)); err == nil {
		t.Fatalf("expected an error for an unknown window id")
	}
}
