package window

import (
	"github.com/aslpavel/sweep-go/sweep/candidate"
	"github.com/aslpavel/sweep-go/sweep/editor"
	"github.com/aslpavel/sweep-go/sweep/rank"
	"github.com/aslpavel/sweep-go/sweep/scorer"
)

// Layout describes the rows and columns a rendered frame has; the
// controller derives it from terminal size, the window only stores it
// as opaque chrome. Whether a preview pane is drawn is PreviewEnabled.
type Layout struct {
	Rows, Cols int
}

// Window bundles everything spec §4.4 attributes to one window: uid,
// prompt chrome, bindings, layout, item store, editor, cursor into
// the current snapshot, scorer selection, and preview-enabled flag.
// Grounded on kittens/choose_files Handler's state-bundling idiom
// (one struct holding the scanner, the sorted results, the cursor and
// per-session settings together) rather than splitting these across
// several loosely-coupled globals.
type Window struct {
	UID ID

	Prompt string
	Icon   string

	Bindings *Bindings
	Layout   Layout

	collection *rank.Collection
	candidates []*candidate.Candidate
	ranker     *rank.Ranker
	Editor     *editor.Editor

	cursor int

	PreviewEnabled bool
	// PreviewCmd is the --preview subprocess command (spec §3 SUPPLEMENT),
	// split into argv with "{}" standing in for the current candidate's
	// display text; empty means no external preview is run.
	PreviewCmd []string

	previewCacheFor  *candidate.Candidate
	previewCacheText string
}

// CachedPreview returns a memoized RunPreview result for cur so the
// renderer's per-frame tick does not re-run the subprocess while the
// cursor sits on the same candidate.
func (w *Window) CachedPreview(cur *candidate.Candidate, text string) (string, error) {
	if w.previewCacheFor == cur {
		return w.previewCacheText, nil
	}
	preview, err := RunPreview(w.PreviewCmd, text)
	if err != nil {
		return "", err
	}
	w.previewCacheFor = cur
	if preview != nil {
		w.previewCacheText, _ = preview.Data.(string)
	} else {
		w.previewCacheText = ""
	}
	return w.previewCacheText, nil
}

// New creates a window with the given uid and prompt, using sc as its
// initial scorer and keepOrder per the --keep-order flag (spec §6.1).
func New(uid ID, prompt string, sc scorer.Scorer, keepOrder bool) *Window {
	col := rank.NewCollection()
	return &Window{
		UID:        uid,
		Prompt:     prompt,
		Bindings:   NewBindings(),
		collection: col,
		ranker:     rank.NewRanker(col, sc, keepOrder, 0),
		Editor:     editor.New(prompt),
	}
}

// Close releases the window's ranker worker.
func (w *Window) Close() { w.ranker.Close() }

// Ranker exposes the window's ranker so the controller can subscribe
// to new snapshots and push needle/scorer changes.
func (w *Window) Ranker() *rank.Ranker { return w.ranker }

// ItemsExtend appends candidates to the item store and notifies the
// ranker (spec §4.4).
func (w *Window) ItemsExtend(items []*candidate.Candidate) {
	haystacks := make([]string, len(items))
	for i, c := range items {
		haystacks[i] = c.Haystack()
	}
	w.candidates = append(w.candidates, items...)
	w.collection.Extend(haystacks)
	w.ranker.ItemsExtended()
}

// ItemsClear empties the item store and forces the ranker to start
// over (spec §4.4).
func (w *Window) ItemsClear() {
	w.candidates = nil
	w.collection.Clear()
	w.ranker.ItemsCleared()
	w.cursor = 0
}

// SetScorer switches the active scorer (spec §4.6 scorer_set).
func (w *Window) SetScorer(sc scorer.Scorer) { w.ranker.SetScorer(sc) }

// Needle returns the editor's current text.
func (w *Window) Needle() string { return w.Editor.Text() }

// SetNeedle overwrites the needle (spec §4.6 query_set) and pushes it
// to the ranker immediately, bypassing the editor's per-batch
// coalescing since this is a direct RPC write, not a keystroke.
func (w *Window) SetNeedle(needle string) {
	w.Editor.SetText(needle)
	w.Editor.TakeChanged()
	w.ranker.SetNeedle(needle)
	w.cursor = 0
}

// SyncNeedle pushes the editor's needle into the ranker if it changed
// since the last call (spec §4.3's coalesced needle_changed event).
// Returns whether a new needle was pushed.
func (w *Window) SyncNeedle() bool {
	if !w.Editor.TakeChanged() {
		return false
	}
	w.ranker.SetNeedle(w.Editor.Text())
	return true
}

// Snapshot returns the window's current ranked snapshot.
func (w *Window) Snapshot() *rank.Snapshot { return w.ranker.Snapshot() }

// CursorMove moves the cursor by delta, clamping to [0, snapshot.len())
// per spec §4.4.
func (w *Window) CursorMove(delta int) {
	n := len(w.Snapshot().Items)
	if n == 0 {
		w.cursor = 0
		return
	}
	c := w.cursor + delta
	if c < 0 {
		c = 0
	}
	if c >= n {
		c = n - 1
	}
	w.cursor = c
}

// Cursor returns the current cursor index into the snapshot.
func (w *Window) Cursor() int { return w.cursor }

// Current yields the candidate at the cursor, or nil if the snapshot
// has no matches (spec §4.4's current() → option<Candidate>).
func (w *Window) Current() *candidate.Candidate {
	items := w.Snapshot().Items
	if w.cursor < 0 || w.cursor >= len(items) {
		return nil
	}
	return w.candidates[items[w.cursor].Index]
}

// CandidateAt yields the candidate at the given snapshot index (used by
// the renderer to draw rows other than the one under the cursor), or nil
// if idx is out of range.
func (w *Window) CandidateAt(idx int) *candidate.Candidate {
	items := w.Snapshot().Items
	if idx < 0 || idx >= len(items) {
		return nil
	}
	return w.candidates[items[idx].Index]
}

// Bind registers keys as resolving to command (spec §4.4).
func (w *Window) Bind(command string, keys ...string) {
	w.Bindings.Bind(command, keys...)
}
