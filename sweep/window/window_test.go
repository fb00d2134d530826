package window

import (
	"testing"
	"time"

	"github.com/aslpavel/sweep-go/sweep/candidate"
	"github.com/aslpavel/sweep-go/sweep/scorer"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for condition")
}

func cand(text string) *candidate.Candidate {
	return candidate.New([]candidate.Field{{Text: text, Active: true}}, nil, nil, text)
}

func TestWindowItemsExtendAndCursor(t *testing.T) {
	w := New(IntID(1), "> ", scorer.NewFuzzyScorer(), false)
	defer w.Close()

	w.ItemsExtend([]*candidate.Candidate{cand("xbarx"), cand("bar"), cand("zzz")})
	w.SetNeedle("bar")
	waitFor(t, func() bool { return len(w.Snapshot().Items) == 2 })

	cur := w.Current()
	if cur == nil || cur.Haystack() != "bar" {
		t.Fatalf("Current() = %v, want exact match \"bar\"", cur)
	}
}

func TestWindowCursorMoveClamps(t *testing.T) {
	w := New(IntID(1), "> ", scorer.NewFuzzyScorer(), false)
	defer w.Close()

	w.ItemsExtend([]*candidate.Candidate{cand("foo"), cand("bar")})
	w.SetNeedle("")
	waitFor(t, func() bool { return len(w.Snapshot().Items) == 2 })

	w.CursorMove(-5)
	if w.Cursor() != 0 {
		t.Fatalf("Cursor() = %d, want 0", w.Cursor())
	}
	w.CursorMove(5)
	if w.Cursor() != 1 {
		t.Fatalf("Cursor() = %d, want 1", w.Cursor())
	}
}

func TestWindowCurrentNilWhenNoMatches(t *testing.T) {
	w := New(IntID(1), "> ", scorer.NewFuzzyScorer(), false)
	defer w.Close()

	w.ItemsExtend([]*candidate.Candidate{cand("foo")})
	w.SetNeedle("zzz-does-not-match-zzz")
	waitFor(t, func() bool { return w.Snapshot().Needle == "zzz-does-not-match-zzz" })

	if w.Current() != nil {
		t.Fatalf("Current() = %v, want nil", w.Current())
	}
}

func TestWindowItemsClearResetsCursor(t *testing.T) {
	w := New(IntID(1), "> ", scorer.NewFuzzyScorer(), false)
	defer w.Close()

	w.ItemsExtend([]*candidate.Candidate{cand("foo"), cand("bar")})
	w.SetNeedle("")
	waitFor(t, func() bool { return len(w.Snapshot().Items) == 2 })
	w.CursorMove(1)

	w.ItemsClear()
	if w.Cursor() != 0 {
		t.Fatalf("Cursor() = %d after ItemsClear, want 0", w.Cursor())
	}
	waitFor(t, func() bool { return w.Snapshot().Count == 0 })
}

func TestWindowsHaveIndependentRankersAndCursors(t *testing.T) {
	a := New(IntID(1), "> ", scorer.NewFuzzyScorer(), false)
	defer a.Close()
	b := New(IntID(2), "> ", scorer.NewFuzzyScorer(), false)
	defer b.Close()

	a.ItemsExtend([]*candidate.Candidate{cand("bar"), cand("baz")})
	a.SetNeedle("bar")
	waitFor(t, func() bool { return len(a.Snapshot().Items) == 1 })
	a.CursorMove(1)

	b.ItemsExtend([]*candidate.Candidate{cand("qux")})
	b.SetNeedle("qux")
	waitFor(t, func() bool { return len(b.Snapshot().Items) == 1 })

	if b.Cursor() != 0 {
		t.Fatalf("window b's cursor moved in lockstep with window a: got %d", b.Cursor())
	}
	if b.Snapshot().Count != 1 {
		t.Fatalf("window b's ranker saw window a's items: Count = %d", b.Snapshot().Count)
	}
	if a.Snapshot().Needle != "bar" || b.Snapshot().Needle != "qux" {
		t.Fatalf("needles leaked across windows: a=%q b=%q", a.Snapshot().Needle, b.Snapshot().Needle)
	}
}

func TestWindowSyncNeedleOnlyOnChange(t *testing.T) {
	w := New(IntID(1), "> ", scorer.NewFuzzyScorer(), false)
	defer w.Close()

	if w.SyncNeedle() {
		t.Fatalf("expected no change on a fresh editor")
	}
	w.Editor.InsertText("bar")
	if !w.SyncNeedle() {
		t.Fatalf("expected change after editing")
	}
	if w.SyncNeedle() {
		t.Fatalf("expected no change on a second call without edits")
	}
}
