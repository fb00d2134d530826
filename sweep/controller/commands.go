package controller

import (
	"github.com/aslpavel/sweep-go/sweep/candidate"
	"github.com/aslpavel/sweep-go/sweep/termloop"
	"github.com/aslpavel/sweep-go/sweep/window"
)

// installDefaultBindings registers the key sequences a reference binary
// needs out of the box; a peer can still add more via the bind RPC method
// (spec §4.6) or override these with window.Window.Bind.
func (c *Controller) installDefaultBindings(w *window.Window) {
	w.Bind("sweep.select", "enter")
	w.Bind("sweep.cancel", "ctrl+c")
	w.Bind("sweep.cancel", "escape")
	w.Bind("sweep.cursor.up", "up")
	w.Bind("sweep.cursor.up", "ctrl+p")
	w.Bind("sweep.cursor.down", "down")
	w.Bind("sweep.cursor.down", "ctrl+n")
	w.Bind("sweep.page.up", "page_up")
	w.Bind("sweep.page.down", "page_down")
	w.Bind("sweep.query.delete_backward", "backspace")
	w.Bind("sweep.query.delete_forward", "delete")
	w.Bind("sweep.query.move_left", "left")
	w.Bind("sweep.query.move_left", "ctrl+b")
	w.Bind("sweep.query.move_right", "right")
	w.Bind("sweep.query.move_right", "ctrl+f")
	w.Bind("sweep.query.move_home", "home")
	w.Bind("sweep.query.move_home", "ctrl+a")
	w.Bind("sweep.query.move_end", "end")
	w.Bind("sweep.query.move_end", "ctrl+e")
	w.Bind("sweep.query.kill_to_end", "ctrl+k")
	w.Bind("sweep.query.yank", "ctrl+y")
}

func (c *Controller) onKeyEvent(ev *termloop.KeyEvent) error {
	w := c.Top()
	cmd, nextPending, fallback, matched := w.Bindings.Resolve(c.pending, ev.Name)
	if matched {
		c.cancelPendingTimer()
		ev.Handled = true
		if cmd != "" {
			c.pending = nil
			return c.applyCommand(w, cmd, ev.Name)
		}
		c.pending = nextPending
		c.pendingFallback = fallback
		return c.armPendingTimeout()
	}

	if len(c.pending) == 0 {
		return nil
	}

	// This key does not continue the pending sequence: apply whatever
	// shorter command it was a prefix of (spec §4.4's longest-matching-
	// prefix semantics give up once no further key can extend the match),
	// then re-resolve this key against a clean slate.
	c.cancelPendingTimer()
	prevFallback := c.pendingFallback
	c.pending = nil
	c.pendingFallback = ""
	if prevFallback != "" {
		if err := c.applyCommand(w, prevFallback, ""); err != nil {
			return err
		}
	}

	cmd, nextPending, fallback, matched = w.Bindings.Resolve(nil, ev.Name)
	if !matched {
		return nil
	}
	ev.Handled = true
	if cmd != "" {
		return c.applyCommand(w, cmd, ev.Name)
	}
	c.pending = nextPending
	c.pendingFallback = fallback
	return c.armPendingTimeout()
}

func (c *Controller) armPendingTimeout() error {
	id, err := c.loop.AddTimer(ambiguousBindingTimeout, false, c.onPendingTimeout)
	if err != nil {
		return err
	}
	c.pendingTimer = id
	return nil
}

func (c *Controller) cancelPendingTimer() {
	if c.pendingTimer != 0 {
		c.loop.RemoveTimer(c.pendingTimer)
		c.pendingTimer = 0
	}
}

func (c *Controller) onPendingTimeout(termloop.IdType) error {
	fallback := c.pendingFallback
	c.pending = nil
	c.pendingFallback = ""
	c.pendingTimer = 0
	if fallback == "" {
		return nil
	}
	return c.applyCommand(c.Top(), fallback, "")
}

// pageSize is the number of rows sweep.page.up/down move the cursor by,
// derived from the window's current layout (spec §4.5's viewport).
func (c *Controller) pageSize(w *window.Window) int {
	if w.Layout.Rows > 2 {
		return w.Layout.Rows - 1
	}
	return 10
}

// applyCommand implements spec §6.3's built-in command semantics; any
// command name not recognized here is opaque and surfaced as a Bind event
// for the caller to interpret.
func (c *Controller) applyCommand(w *window.Window, cmd string, key string) error {
	switch cmd {
	case "sweep.select":
		return c.selectCurrent(w, key)
	case "sweep.cancel":
		c.emit(SweepEvent{Kind: Select, Items: nil, Key: key})
		c.Quit(0)
	case "sweep.cursor.up":
		w.CursorMove(-1)
		c.markDirty()
	case "sweep.cursor.down":
		w.CursorMove(1)
		c.markDirty()
	case "sweep.page.up":
		w.CursorMove(-c.pageSize(w))
		c.markDirty()
	case "sweep.page.down":
		w.CursorMove(c.pageSize(w))
		c.markDirty()
	case "sweep.query.delete_backward":
		w.Editor.DeleteBackward()
		c.syncNeedleAndRedraw(w)
	case "sweep.query.delete_forward":
		w.Editor.DeleteForward()
		c.syncNeedleAndRedraw(w)
	case "sweep.query.move_left":
		w.Editor.MoveLeft()
		c.markDirty()
	case "sweep.query.move_right":
		w.Editor.MoveRight()
		c.markDirty()
	case "sweep.query.move_home":
		w.Editor.MoveHome()
		c.markDirty()
	case "sweep.query.move_end":
		w.Editor.MoveEnd()
		c.markDirty()
	case "sweep.query.kill_to_end":
		w.Editor.KillToEnd()
		c.syncNeedleAndRedraw(w)
	case "sweep.query.yank":
		w.Editor.Yank()
		c.syncNeedleAndRedraw(w)
	default:
		c.emit(SweepEvent{Kind: Bind, Command: cmd, Key: key})
	}
	return nil
}

func (c *Controller) selectCurrent(w *window.Window, key string) error {
	if cur := w.Current(); cur != nil {
		c.emit(SweepEvent{Kind: Select, Items: []*candidate.Candidate{cur}, Key: key})
		c.Quit(0)
		return nil
	}
	if c.noMatch != NoMatchInput {
		return nil
	}
	raw := candidate.New(nil, nil, nil, w.Needle())
	c.emit(SweepEvent{Kind: Select, Items: []*candidate.Candidate{raw}, Key: key})
	c.Quit(0)
	return nil
}
