package rank

import "slices"

// ScoreItem is one matched candidate: its index into the owning
// collection, its score under the active scorer, and the matched
// rune positions (for highlighting), as returned by scorer.Result.
type ScoreItem struct {
	Index     int
	Score     int
	Positions []int
}

// Snapshot is an immutable view of the ranking state at a point in
// time: the needle and scorer it was computed against, the
// collection generation and item count it covers, and the matched
// items in display order.
type Snapshot struct {
	Needle     string
	ScorerName string
	Generation uint64
	Count      int
	Items      []ScoreItem
}

// MatchCount reports how many items matched the needle.
func (s *Snapshot) MatchCount() int {
	if s == nil {
		return 0
	}
	return len(s.Items)
}

var emptySnapshot = &Snapshot{}

func better(x, y ScoreItem, keepOrder bool) bool {
	if keepOrder {
		return x.Index < y.Index
	}
	if x.Score != y.Score {
		return x.Score > y.Score
	}
	return x.Index < y.Index
}

// mergeItems merges two Items slices that are each already ordered
// per better(keepOrder), preserving that order in the result. Used to
// fold a freshly-scored incremental batch into a previous snapshot's
// Items without re-sorting everything from scratch. Grounded on the
// merge_slice/AddSortedSlice idiom kittens/choose_files uses to keep a
// sorted result list updated as scan batches complete.
func mergeItems(a, b []ScoreItem, keepOrder bool) []ScoreItem {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make([]ScoreItem, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if better(a[i], b[j], keepOrder) {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// sortItems orders items per better(keepOrder), the same comparator
// mergeItems uses, so a freshly-scored chunk and a merged result are
// always mutually consistent.
func sortItems(items []ScoreItem, keepOrder bool) {
	slices.SortFunc(items, func(a, b ScoreItem) int {
		switch {
		case better(a, b, keepOrder):
			return -1
		case better(b, a, keepOrder):
			return 1
		default:
			return 0
		}
	})
}
