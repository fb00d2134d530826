// Package controller implements the Sweep controller (spec §4.5): the
// single-threaded piece that owns the window stack, the terminal reactor,
// and the outbound SweepEvent channel, and that turns decoded key events
// and peer RPC requests into window mutations and rendered frames.
package controller

import (
	"time"

	"github.com/aslpavel/sweep-go/sweep/config"
	"github.com/aslpavel/sweep-go/sweep/scorer"
	"github.com/aslpavel/sweep-go/sweep/termloop"
	"github.com/aslpavel/sweep-go/sweep/window"
)

const frameInterval = 16 * time.Millisecond

// ambiguousBindingTimeout bounds how long the controller waits for a
// further key after a binding prefix that is both a complete command and
// the start of a longer sequence (window.Bindings.Resolve's fallback
// value), before applying the shorter command anyway.
const ambiguousBindingTimeout = 500 * time.Millisecond

// NoMatchMode controls what sweep.select does when the snapshot has no
// current candidate (spec §6.1 --no-match).
type NoMatchMode int

const (
	NoMatchNothing NoMatchMode = iota
	NoMatchInput
)

// Config bundles the construction-time choices that come from cmd/sweep's
// flags (spec §6.1): initial prompt/query, default scorer, ordering, and
// no-match behavior.
type Config struct {
	Prompt          string
	Query           string
	Scorer          scorer.Scorer
	KeepOrder       bool
	NoMatch         NoMatchMode
	AlternateScreen bool
	TTYPath         string
	Theme           config.Theme
	Title           string
}

// Controller is the Sweep controller (spec §4.5). It is not safe for
// concurrent use except via Submit, which marshals a function onto the
// loop goroutine so RPC handlers running on another goroutine can mutate
// window state without racing the key-event path.
type Controller struct {
	loop  *termloop.Loop
	stack *window.Stack

	registry  *scorer.Registry
	keepOrder bool
	noMatch   NoMatchMode

	pending         []string
	pendingFallback string
	pendingTimer    termloop.IdType

	dirty bool

	events chan SweepEvent
	submit chan func()

	theme config.Theme
}

// New constructs a controller with one initial window and acquires no
// terminal state yet; call Run to do that.
func New(cfg Config) *Controller {
	loop := termloop.New()
	if !cfg.AlternateScreen {
		loop.NoAlternateScreen()
	}
	if cfg.TTYPath != "" {
		loop.SetTTYPath(cfg.TTYPath)
	}
	c := &Controller{
		loop:      loop,
		stack:     window.NewStack(),
		registry:  scorer.NewRegistry(),
		keepOrder: cfg.KeepOrder,
		noMatch:   cfg.NoMatch,
		events:    make(chan SweepEvent, 64),
		submit:    make(chan func(), 64),
		theme:     cfg.Theme,
	}
	sc := cfg.Scorer
	if sc == nil {
		sc = scorer.NewFuzzyScorer()
	}
	w := window.New(window.IntID(0), cfg.Prompt, sc, cfg.KeepOrder)
	if cfg.Query != "" {
		w.SetNeedle(cfg.Query)
	}
	c.installDefaultBindings(w)
	c.stack.Push(w)
	c.subscribe(w)

	loop.OnKeyEvent = c.onKeyEvent
	loop.OnText = c.onText
	loop.OnResize = c.onResize
	loop.OnWakeup = c.Pump
	loop.OnInitialize = func() (string, error) {
		if cfg.Title != "" {
			loop.SetWindowTitle(cfg.Title)
		}
		c.markDirty()
		_, err := c.loop.AddTimer(frameInterval, true, c.onFrameTick)
		return "", err
	}
	return c
}

// Top returns the currently active window.
func (c *Controller) Top() *window.Window { return c.stack.Top() }

// Registry exposes the scorer registry so RPC's scorer_set can resolve
// names without the controller package depending on a CLI flag parser.
func (c *Controller) Registry() *scorer.Registry { return c.registry }

// WindowByID resolves an RPC method's optional window parameter: nil
// means "the active window" (spec §4.6's `window?` params), anything
// else must name a window already on the stack.
func (c *Controller) WindowByID(raw any) (*window.Window, error) {
	if raw == nil {
		return c.Top(), nil
	}
	id, err := window.ParseID(raw)
	if err != nil {
		return nil, err
	}
	return c.stack.Get(id)
}

// SwitchWindow implements spec §4.6's window_switch: push the window
// named by id, creating it (with the default scorer and bindings) if
// it has not been seen before, optionally closing the previously
// active window first.
func (c *Controller) SwitchWindow(id window.ID, closePrev bool) *window.Window {
	w := c.stack.Switch(id, closePrev, func() *window.Window {
		sc, _ := c.registry.Build("fuzzy")
		nw := window.New(id, "", sc, c.keepOrder)
		c.installDefaultBindings(nw)
		c.subscribe(nw)
		return nw
	})
	c.markDirty()
	return w
}

// PopWindow implements spec §4.6's window_pop: pop the active window
// and activate the one beneath it. Returns false if only one window
// remains, leaving the stack untouched (closing the last window ends
// the session instead, via sweep.cancel/sweep.select).
func (c *Controller) PopWindow() bool {
	ok := c.stack.Pop()
	if ok {
		c.markDirty()
	}
	return ok
}

func (c *Controller) subscribe(w *window.Window) {
	w.Ranker().Subscribe(func() {
		c.loop.WakeupMainThread()
	})
}

func (c *Controller) markDirty() { c.dirty = true }

// MarkDirty forces a redraw on the next frame tick. Exported for the RPC
// surface, whose handlers mutate window state (prompt, query, preview,
// the window stack) that has no other path back to the dirty flag since
// they run outside the key-event path that normally sets it.
func (c *Controller) MarkDirty() { c.markDirty() }

// Submit runs fn on the loop goroutine and blocks until it has run. Safe
// to call from any goroutine (an RPC server's read loop, in particular),
// implementing spec §5's "serialise window mutations on the controller
// thread" ordering guarantee.
func (c *Controller) Submit(fn func()) {
	done := make(chan struct{})
	select {
	case c.submit <- func() { fn(); close(done) }:
	default:
		// submit queue full: run inline rather than deadlock; callers are
		// expected to be request/response RPC handlers, not hot loops.
		fn()
		return
	}
	c.loop.WakeupMainThread()
	<-done
}

// Pump drains any pending Submit closures and marks a redraw. It is
// the Loop's OnWakeup callback, and is also safe to call directly (a
// test harness with no real terminal attached can drive the submit
// queue this way without running the reactor).
func (c *Controller) Pump() error {
	drained := 0
	for drained < len(c.submit) {
		select {
		case fn := <-c.submit:
			fn()
			drained++
		default:
			drained = len(c.submit)
		}
	}
	c.markDirty()
	return nil
}

func (c *Controller) onResize(old, new termloop.ScreenSize) error {
	w := c.Top()
	w.Layout = window.Layout{Rows: int(new.Rows), Cols: int(new.Cols)}
	c.emit(SweepEvent{Kind: Resize, Cols: int(new.Cols), Rows: int(new.Rows)})
	c.markDirty()
	return nil
}

func (c *Controller) onFrameTick(termloop.IdType) error {
	if !c.dirty {
		return nil
	}
	c.dirty = false
	return c.render()
}

// Run acquires the terminal and runs the reactor until quit or a fatal
// error. On return all windows' rankers are closed and the terminal is
// restored, even on panic (termloop.Loop.Run's own guarantee).
func (c *Controller) Run() error {
	defer func() {
		for c.stack.Len() > 0 {
			if !c.stack.Pop() {
				if top := c.stack.Top(); top != nil {
					top.Close()
				}
				break
			}
		}
		close(c.events)
	}()
	return c.loop.Run()
}

// Quit ends the session with the given process exit code (sweep.cancel /
// a final sweep.select both route here after emitting their event).
func (c *Controller) Quit(code int) { c.loop.Quit(code) }

// ExitCode returns the code passed to Quit, for cmd/sweep to use as its
// own process exit status once Run returns.
func (c *Controller) ExitCode() int { return c.loop.ExitCode() }

func (c *Controller) onText(text string) error {
	if text == "" { // end of bracketed paste with nothing typed
		return nil
	}
	w := c.Top()
	w.Editor.InsertText(text)
	c.syncNeedleAndRedraw(w)
	return nil
}

func (c *Controller) syncNeedleAndRedraw(w *window.Window) {
	w.SyncNeedle()
	c.markDirty()
}
