package rank

import (
	"reflect"
	"testing"
	"time"

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

func TestRankerRanksByScoreDescending(t *testing.T) {
	col := NewCollection()
	col.Extend([]string{"xbarx", "bar", "xxbxaxrx"})
	r := NewRanker(col, scorer.NewFuzzyScorer(), false, 2)
	defer r.Close()
	r.SetNeedle("bar")

	waitFor(t, func() bool { return r.Snapshot().Needle == "bar" })
	snap := r.Snapshot()
	if len(snap.Items) != 3 {
		t.Fatalf("MatchCount = %d, want 3", len(snap.Items))
	}
	for i := 1; i < len(snap.Items); i++ {
		if snap.Items[i-1].Score < snap.Items[i].Score {
			t.Fatalf("items not score-descending: %+v", snap.Items)
		}
	}
	if snap.Items[0].Index != 1 {
		t.Fatalf("best match index = %d, want 1 (exact \"bar\")", snap.Items[0].Index)
	}
}

func TestRankerKeepOrderPreservesInsertionOrder(t *testing.T) {
	col := NewCollection()
	col.Extend([]string{"bar", "xbarx", "xxbxaxrx"})
	r := NewRanker(col, scorer.NewFuzzyScorer(), true, 2)
	defer r.Close()
	r.SetNeedle("bar")

	waitFor(t, func() bool { return r.Snapshot().Needle == "bar" })
	snap := r.Snapshot()
	if len(snap.Items) != 3 {
		t.Fatalf("MatchCount = %d, want 3", len(snap.Items))
	}
	for i, it := range snap.Items {
		if it.Index != i {
			t.Fatalf("Items[%d].Index = %d, want %d (insertion order)", i, it.Index, i)
		}
	}
}

func TestRankerIncrementalEquivalentToFull(t *testing.T) {
	a := []string{"bar", "zzz", "xbarx"}
	b := []string{"yyy", "xxbxaxrx"}

	incCol := NewCollection()
	incR := NewRanker(incCol, scorer.NewFuzzyScorer(), false, 2)
	defer incR.Close()
	incR.SetNeedle("bar")
	waitFor(t, func() bool { return incR.Snapshot().Needle == "bar" })
	incCol.Extend(a)
	incR.ItemsExtended()
	waitFor(t, func() bool { return incR.Snapshot().Count == len(a) })
	incCol.Extend(b)
	incR.ItemsExtended()
	waitFor(t, func() bool { return incR.Snapshot().Count == len(a)+len(b) })

	fullCol := NewCollection()
	fullCol.Extend(append(append([]string(nil), a...), b...))
	fullR := NewRanker(fullCol, scorer.NewFuzzyScorer(), false, 2)
	defer fullR.Close()
	fullR.SetNeedle("bar")
	waitFor(t, func() bool { return fullR.Snapshot().Count == len(a)+len(b) })

	incItems, fullItems := incR.Snapshot().Items, fullR.Snapshot().Items
	if len(incItems) != len(fullItems) {
		t.Fatalf("incremental MatchCount = %d, full MatchCount = %d", len(incItems), len(fullItems))
	}
	for i := range incItems {
		if !reflect.DeepEqual(incItems[i], fullItems[i]) {
			t.Fatalf("item %d differs: incremental %+v, full %+v", i, incItems[i], fullItems[i])
		}
	}
}

func TestRankerSettlesOnLatestNeedle(t *testing.T) {
	col := NewCollection()
	haystacks := make([]string, 2000)
	for i := range haystacks {
		haystacks[i] = "some unrelated text entry"
	}
	col.Extend(haystacks)
	r := NewRanker(col, scorer.NewFuzzyScorer(), false, 4)
	defer r.Close()

	for i := 0; i < 50; i++ {
		r.SetNeedle("needle-in-flight")
	}
	r.SetNeedle("final")

	waitFor(t, func() bool { return r.Snapshot().Needle == "final" })
	if snap := r.Snapshot(); snap.Needle != "final" {
		t.Fatalf("Needle = %q, want %q", snap.Needle, "final")
	}
}

func TestRankerClearForcesFullPass(t *testing.T) {
	col := NewCollection()
	col.Extend([]string{"bar"})
	r := NewRanker(col, scorer.NewFuzzyScorer(), false, 2)
	defer r.Close()
	r.SetNeedle("bar")
	waitFor(t, func() bool { return r.Snapshot().Count == 1 })

	col.Clear()
	col.Extend([]string{"zzz", "bar"})
	r.ItemsCleared()

	waitFor(t, func() bool { return r.Snapshot().Count == 2 })
	snap := r.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].Index != 1 {
		t.Fatalf("Items = %+v, want a single match at index 1", snap.Items)
	}
}

func TestRankerSubscribeNotifiedOnPublish(t *testing.T) {
	col := NewCollection()
	col.Extend([]string{"bar"})
	r := NewRanker(col, scorer.NewFuzzyScorer(), false, 2)
	defer r.Close()

	notified := make(chan struct{}, 8)
	r.Subscribe(func() { notified <- struct{}{} })
	r.SetNeedle("bar")

	select {
	case <-notified:
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber was never notified")
	}
}
