package scorer

import "testing"

func TestFuzzyScorerSubsequenceSoundness(t *testing.T) {
	f := NewFuzzyScorer()
	res, ok := f.Score("fbr", "foo/bar")
	if !ok {
		t.Fatalf("expected match")
	}
	if len(res.Positions) != 3 {
		t.Fatalf("expected 3 positions, got %d", len(res.Positions))
	}
	for i, p := range res.Positions {
		if p < 0 || p >= len("foo/bar") {
			t.Fatalf("position %d out of range", p)
		}
		if i > 0 && res.Positions[i-1] >= p {
			t.Fatalf("positions not strictly increasing: %v", res.Positions)
		}
	}
	want := []rune("foo/bar")
	needle := []rune("fbr")
	for i, p := range res.Positions {
		if want[p] != needle[i] && want[p]-32 != needle[i] {
			t.Fatalf("position %d does not reproduce needle char %c", p, needle[i])
		}
	}
}

func TestFuzzyScorerNoMatch(t *testing.T) {
	f := NewFuzzyScorer()
	if _, ok := f.Score("xyz", "abc"); ok {
		t.Fatalf("expected no match")
	}
	if _, ok := f.Score("abc", "ab"); ok {
		t.Fatalf("needle longer than haystack must not match")
	}
}

func TestFuzzyScorerDeterministic(t *testing.T) {
	f := NewFuzzyScorer()
	r1, ok1 := f.Score("abc", "a-big-corpus")
	r2, ok2 := f.Score("abc", "a-big-corpus")
	if ok1 != ok2 || r1.Score != r2.Score {
		t.Fatalf("scoring is not deterministic: %v %v", r1, r2)
	}
}

func TestFuzzyScorerPathBoundaryOutranksMidToken(t *testing.T) {
	f := NewFuzzyScorer()
	atBoundary, ok := f.Score("bar", "foo/barqux")
	if !ok {
		t.Fatalf("expected match")
	}
	midToken, ok := f.Score("bar", "foobarqux")
	if !ok {
		t.Fatalf("expected match")
	}
	if atBoundary.Score <= midToken.Score {
		t.Fatalf("expected path-boundary match to score higher: %d vs %d", atBoundary.Score, midToken.Score)
	}
}

func TestFuzzyScorerConsecutiveOutranksScattered(t *testing.T) {
	f := NewFuzzyScorer()
	consecutive, ok := f.Score("ab", "xxabxx")
	if !ok {
		t.Fatalf("expected match")
	}
	scattered, ok := f.Score("ab", "xaxxxxbx")
	if !ok {
		t.Fatalf("expected match")
	}
	if consecutive.Score <= scattered.Score {
		t.Fatalf("expected consecutive match to score higher: %d vs %d", consecutive.Score, scattered.Score)
	}
}

func TestFuzzyScorerCaseInsensitiveByDefault(t *testing.T) {
	f := NewFuzzyScorer()
	if _, ok := f.Score("ABC", "xxabcxx"); !ok {
		t.Fatalf("expected case-insensitive match")
	}
}

func TestFuzzyScorerEmptyNeedleMatchesEverything(t *testing.T) {
	f := NewFuzzyScorer()
	res, ok := f.Score("", "anything")
	if !ok || res.Score != 0 || len(res.Positions) != 0 {
		t.Fatalf("expected trivial empty match, got %+v %v", res, ok)
	}
}

// Of five one-syllable words, "two" and "four" contain no "e" and do not
// match at all; "three" has it deepest in the word (twice) and must not be
// ranked above the others just for being longer.
func TestFuzzyScorerOrdersShortWordCorpusByEPosition(t *testing.T) {
	f := NewFuzzyScorer()
	words := []string{"one", "two", "three", "four", "five"}
	type scored struct {
		index int
		score int
	}
	var matches []scored
	for i, w := range words {
		res, ok := f.Score("e", w)
		if w == "two" || w == "four" {
			if ok {
				t.Fatalf("%q must not match needle \"e\"", w)
			}
			continue
		}
		if !ok {
			t.Fatalf("%q: expected a match", w)
		}
		matches = append(matches, scored{i, res.Score})
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].score > matches[i-1].score && matches[i].index < matches[i-1].index {
			t.Fatalf("higher-scoring later word out of order: %+v", matches)
		}
	}
	for _, m := range matches {
		if words[m.index] == "three" && m.score > matches[0].score {
			t.Fatalf("\"three\" must not outrank %q: %+v", words[0], matches)
		}
	}
}

// A Rust source tree where "main" appears only in the path segment
// "main.rs": the match belongs in the final path component, not scattered
// across "./src/".
func TestFuzzyScorerPathCorpusMatchesFinalComponent(t *testing.T) {
	f := NewFuzzyScorer()
	paths := []string{"./src/main.rs", "./src/lib.rs", "./tests/it.rs"}
	res, ok := f.Score("main", paths[0])
	if !ok {
		t.Fatalf("expected %q to match needle \"main\"", paths[0])
	}
	if len(res.Positions) != 4 {
		t.Fatalf("expected 4 positions, got %v", res.Positions)
	}
	want := []int{6, 7, 8, 9}
	for i, p := range res.Positions {
		if p != want[i] {
			t.Fatalf("Positions = %v, want %v", res.Positions, want)
		}
	}
	for _, other := range paths[1:] {
		if _, ok := f.Score("main", other); ok {
			t.Fatalf("%q must not match needle \"main\"", other)
		}
	}
}
