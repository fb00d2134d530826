package rank

import (
	"sync"
	"sync/atomic"

	"github.com/kovidgoyal/go-parallel"
	"github.com/zeebo/xxh3"

	"github.com/aslpavel/sweep-go/sweep/scorer"
	"github.com/aslpavel/sweep-go/tools/utils"
)

// request is the cell the Ranker polls: the newest (needle, scorer,
// force-full) tuple a caller has asked for. Callers never block on
// ranking; they publish into this cell and the background worker
// picks up whatever is newest once it is free. Grounded on the
// keep_going/current_worker_wait restart idiom in
// kittens/choose_files/scan.go's FileSystemScorer.Change_query,
// generalized from a single boolean flag to a full request value so
// a rename of both needle and scorer between two worker wakeups is
// not lost.
type request struct {
	seq       uint64
	needle    string
	sc        scorer.Scorer
	forceFull bool
}

// scored is one cached scorer.Score call result, keyed by an xxh3
// hash of its haystack within a single pass (see scoreChunk). The
// original haystack is kept alongside the hash so a collision is
// detected and recomputed rather than silently returning the wrong
// score.
type scored struct {
	haystack string
	res      scorer.Result
	ok       bool
}

// Ranker incrementally ranks a Collection's haystacks against a
// needle, publishing RankedSnapshot-equivalent state as it completes.
// A single background goroutine owns the scoring pass; SetNeedle,
// SetScorer and the Items* notifications only ever touch the request
// cell and never block.
type Ranker struct {
	collection *Collection
	keepOrder  bool
	workers    int

	current  atomic.Pointer[request]
	wake     chan struct{}
	closeCh  chan struct{}
	closeOne sync.Once

	snapshot atomic.Pointer[Snapshot]

	subsMu sync.Mutex
	subs   []func()
}

// NewRanker starts a Ranker over collection scoring with sc. keepOrder
// selects insertion-order display instead of score-descending order
// (spec §4.2 step 5). workers bounds scoring parallelism; 0 selects
// runtime.NumCPU() via tools/utils.Run_in_parallel_over_range's own default.
func NewRanker(collection *Collection, sc scorer.Scorer, keepOrder bool, workers int) *Ranker {
	r := &Ranker{
		collection: collection,
		keepOrder:  keepOrder,
		workers:    workers,
		wake:       make(chan struct{}, 1),
		closeCh:    make(chan struct{}),
	}
	r.current.Store(&request{sc: sc})
	r.snapshot.Store(emptySnapshot)
	go r.run()
	return r
}

// Close stops the background worker. The Ranker is unusable after.
func (r *Ranker) Close() {
	r.closeOne.Do(func() { close(r.closeCh) })
}

// Snapshot returns the most recently published ranking state. It
// never blocks on an in-flight pass.
func (r *Ranker) Snapshot() *Snapshot {
	return r.snapshot.Load()
}

// Subscribe registers a callback invoked (from the worker goroutine)
// every time a new snapshot is published. Used by the window/
// controller layer to know when to re-render.
func (r *Ranker) Subscribe(f func()) {
	r.subsMu.Lock()
	defer r.subsMu.Unlock()
	r.subs = append(r.subs, f)
}

// SetNeedle requests ranking against a new needle. The previous
// snapshot stays valid (bounded staleness, spec §4.2) until the new
// pass completes.
func (r *Ranker) SetNeedle(needle string) {
	r.publish(func(req *request) {
		req.needle = needle
		req.forceFull = true
	})
}

// SetScorer switches the active scorer and forces a full pass.
func (r *Ranker) SetScorer(sc scorer.Scorer) {
	r.publish(func(req *request) {
		req.sc = sc
		req.forceFull = true
	})
}

// ItemsExtended notifies the ranker that the collection grew; newly
// added items are scored incrementally against the current needle
// without disturbing already-ranked items.
func (r *Ranker) ItemsExtended() {
	r.publish(func(*request) {})
}

// ItemsCleared notifies the ranker that the collection was reset;
// the next pass is forced full against the (now empty) collection.
func (r *Ranker) ItemsCleared() {
	r.publish(func(req *request) { req.forceFull = true })
}

// publish applies mutate to the newest pending request via a
// compare-and-swap retry loop, so a SetScorer immediately followed by
// a SetNeedle never loses the scorer change even if the worker has
// not yet observed either. It then wakes the worker if it is idle.
func (r *Ranker) publish(mutate func(*request)) {
	for {
		old := r.current.Load()
		next := *old
		mutate(&next)
		next.seq = old.seq + 1
		if r.current.CompareAndSwap(old, &next) {
			break
		}
	}
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *Ranker) run() {
	for {
		select {
		case <-r.closeCh:
			return
		case <-r.wake:
		}
		cur := r.current.Load()
		req := *cur
		if req.sc == nil {
			continue
		}
		r.pass(req)
		if req.forceFull {
			// The forced pass is done: drop the flag so later
			// ItemsExtended requests, which copy this one, rank only
			// the new items. The CAS fails if a newer request arrived.
			next := req
			next.forceFull = false
			r.current.CompareAndSwap(cur, &next)
		}
	}
}

// pass scores the collection against req, merging into (or replacing)
// the previous snapshot, then publishes the result unless the request
// cell moved on while scoring — in which case the result is discarded
// and the outer loop restarts against the latest request (spec §4.2:
// "ranking in response to a stale request is cancelled cooperatively
// and its result discarded").
func (r *Ranker) pass(req request) {
	prev := r.snapshot.Load()
	full := req.forceFull || prev.Needle != req.needle || prev.ScorerName != req.sc.Name()

	from := prev.Count
	if full {
		from = 0
	}
	haystacks, total, gen := r.collection.SliceFrom(from)

	items, ok := r.scoreChunk(req, haystacks, from)
	if !ok {
		return // cancelled mid-pass; a newer request is already pending
	}
	sortItems(items, r.keepOrder)

	var merged []ScoreItem
	if full {
		merged = items
	} else {
		merged = mergeItems(prev.Items, items, r.keepOrder)
	}

	if r.stale(req.seq) {
		return
	}
	r.snapshot.Store(&Snapshot{
		Needle:     req.needle,
		ScorerName: req.sc.Name(),
		Generation: gen,
		Count:      total,
		Items:      merged,
	})
	r.notify()
}

func (r *Ranker) stale(seq uint64) bool {
	return r.current.Load().seq != seq
}

// scoreChunk scores haystacks[*] (whose absolute collection index is
// offset+i) against req.needle in parallel, checking for a stale
// request cell between chunks so a rename mid-pass stops promptly
// instead of running to completion. ok is false if the request went
// stale before the pass could finish; an empty-but-valid result (no
// haystacks, or none matched) still reports ok true. Dispatch is
// tools/utils.Run_in_parallel_over_range's chunk-per-goroutine idiom,
// grounded on the same function's use throughout kittens/choose_files;
// panics inside a chunk are converted to errors with
// github.com/kovidgoyal/go-parallel's Format_stacktrace_on_panic, the
// idiom attested in kittens/choose_files/image_preview.go.
func (r *Ranker) scoreChunk(req request, haystacks []string, offset int) (out []ScoreItem, ok bool) {
	results := make([][]ScoreItem, len(haystacks))
	seq := req.seq
	// Candidate sets routinely contain repeated haystacks (duplicate
	// basenames across directories, repeated log lines); cache each
	// distinct haystack's score once per pass instead of re-running the
	// scorer's DP on it in every goroutine that happens to see it.
	var cache sync.Map // xxh3 hash of haystack -> scored{}
	err := utils.Run_in_parallel_over_range(r.workers, func(start, end int) (rerr error) {
		defer func() {
			if p := recover(); p != nil {
				rerr = parallel.Format_stacktrace_on_panic(p, 1)
			}
		}()
		if r.stale(seq) {
			return nil
		}
		for i := start; i < end; i++ {
			key := xxh3.HashString(haystacks[i])
			var res scorer.Result
			var matched bool
			if cached, hit := cache.Load(key); hit {
				if sc := cached.(scored); sc.haystack == haystacks[i] {
					res, matched = sc.res, sc.ok
				} else {
					// Hash collision between two distinct haystacks in
					// this pass: fall back to scoring directly rather
					// than trusting the cached entry.
					res, matched = req.sc.Score(req.needle, haystacks[i])
				}
			} else {
				res, matched = req.sc.Score(req.needle, haystacks[i])
				cache.Store(key, scored{haystack: haystacks[i], res: res, ok: matched})
			}
			if !matched {
				continue
			}
			results[i] = []ScoreItem{{Index: offset + i, Score: res.Score, Positions: res.Positions}}
		}
		return nil
	}, 0, len(haystacks))
	if err != nil || r.stale(seq) {
		return nil, false
	}
	for _, one := range results {
		out = append(out, one...)
	}
	return out, true
}

func (r *Ranker) notify() {
	r.subsMu.Lock()
	subs := append([]func(){}, r.subs...)
	r.subsMu.Unlock()
	for _, f := range subs {
		f()
	}
}
