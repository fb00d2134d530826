package editor

import "testing"

func TestInsertAndDelete(t *testing.T) {
	e := New("> ")
	e.InsertText("bar")
	if e.Text() != "bar" || e.Cursor() != 3 {
		t.Fatalf("Text=%q Cursor=%d", e.Text(), e.Cursor())
	}
	e.MoveLeft()
	e.DeleteBackward()
	if e.Text() != "br" || e.Cursor() != 1 {
		t.Fatalf("Text=%q Cursor=%d", e.Text(), e.Cursor())
	}
	e.DeleteForward()
	if e.Text() != "b" {
		t.Fatalf("Text=%q", e.Text())
	}
}

func TestMoveHomeEnd(t *testing.T) {
	e := New("")
	e.InsertText("needle")
	e.MoveHome()
	if e.Cursor() != 0 {
		t.Fatalf("Cursor=%d", e.Cursor())
	}
	e.MoveEnd()
	if e.Cursor() != len("needle") {
		t.Fatalf("Cursor=%d", e.Cursor())
	}
}

func TestKillToEndAndYank(t *testing.T) {
	e := New("")
	e.InsertText("foobar")
	for i := 0; i < 3; i++ {
		e.MoveLeft()
	}
	e.KillToEnd()
	if e.Text() != "foo" {
		t.Fatalf("Text=%q, want %q", e.Text(), "foo")
	}
	e.Yank()
	if e.Text() != "foobar" || e.Cursor() != 6 {
		t.Fatalf("Text=%q Cursor=%d", e.Text(), e.Cursor())
	}
}

func TestChangedIsCoalescedAndDrained(t *testing.T) {
	e := New("")
	if e.TakeChanged() {
		t.Fatalf("fresh editor should not report changed")
	}
	e.InsertRune('a')
	e.InsertRune('b')
	e.MoveLeft()
	e.MoveRight()
	if !e.TakeChanged() {
		t.Fatalf("expected changed after edits")
	}
	if e.TakeChanged() {
		t.Fatalf("TakeChanged should clear the flag")
	}
}

func TestCursorMoveClampsAtBounds(t *testing.T) {
	e := New("")
	e.MoveLeft()
	if e.Cursor() != 0 {
		t.Fatalf("Cursor=%d, want 0", e.Cursor())
	}
	e.InsertText("x")
	e.MoveRight()
	e.MoveRight()
	if e.Cursor() != 1 {
		t.Fatalf("Cursor=%d, want 1", e.Cursor())
	}
}

func TestPromptChangeDoesNotAffectNeedle(t *testing.T) {
	e := New("old> ")
	e.InsertText("needle")
	e.TakeChanged()
	e.SetPrompt("new> ")
	if e.TakeChanged() {
		t.Fatalf("prompt change should not mark the needle changed")
	}
	if e.Text() != "needle" {
		t.Fatalf("Text=%q", e.Text())
	}
}

func TestUnicodeInsertAndDelete(t *testing.T) {
	e := New("")
	e.InsertText("café")
	if e.Len() != 4 {
		t.Fatalf("Len=%d, want 4", e.Len())
	}
	e.DeleteBackward()
	if e.Text() != "caf" {
		t.Fatalf("Text=%q", e.Text())
	}
}
