// Package editor implements the single-line query editor (spec §4.3):
// a rune buffer with a cursor, a handful of emacs-style edit
// operations, and a coalesced needle-changed flag the controller
// drains once per rendered key batch.
//
// Grounded on tools/tui/readline's multi-line buffer (input_state.lines
// + cursor.X/Y, add_text/erase_chars_after_cursor, the kill-ring in
// api.go), trimmed to a single line: the query editor has no notion of
// line breaks, history, or completion, so the cursor is a plain rune
// index rather than a (X, Y) position and the kill ring is a single
// slot rather than readline's container/list ring.
package editor

import "unicode/utf8"

// Editor is a single-line, cursor-addressed rune buffer.
type Editor struct {
	prompt  string
	runes   []rune
	cursor  int
	kill    string
	changed bool
}

// New returns an empty editor with the given prompt prefix. Prompt
// changes never affect the needle (spec §4.3).
func New(prompt string) *Editor {
	return &Editor{prompt: prompt}
}

// Prompt returns the prompt prefix preceding the editable area.
func (e *Editor) Prompt() string { return e.prompt }

// SetPrompt replaces the prompt prefix. Does not mark the needle changed.
func (e *Editor) SetPrompt(prompt string) { e.prompt = prompt }

// Text returns the current needle text.
func (e *Editor) Text() string { return string(e.runes) }

// Cursor returns the cursor's rune offset into Text().
func (e *Editor) Cursor() int { return e.cursor }

// Len reports the needle length in runes.
func (e *Editor) Len() int { return len(e.runes) }

// TakeChanged reports whether the needle text has changed since the last
// TakeChanged call, and clears the flag. The controller calls this at
// most once per coalesced key batch (spec §4.3, §5) to decide whether
// to notify the ranker of a new needle.
func (e *Editor) TakeChanged() bool {
	changed := e.changed
	e.changed = false
	return changed
}

func (e *Editor) markChanged() { e.changed = true }

// InsertRune inserts r at the cursor and advances the cursor past it.
func (e *Editor) InsertRune(r rune) {
	e.runes = append(e.runes, 0)
	copy(e.runes[e.cursor+1:], e.runes[e.cursor:])
	e.runes[e.cursor] = r
	e.cursor++
	e.markChanged()
}

// InsertText inserts s at the cursor, advancing the cursor past it.
func (e *Editor) InsertText(s string) {
	for _, r := range s {
		e.InsertRune(r)
	}
}

// SetText replaces the whole buffer and moves the cursor to its end.
func (e *Editor) SetText(s string) {
	e.runes = []rune(s)
	e.cursor = len(e.runes)
	e.markChanged()
}

// DeleteBackward deletes the rune before the cursor, if any.
func (e *Editor) DeleteBackward() {
	if e.cursor == 0 {
		return
	}
	e.runes = append(e.runes[:e.cursor-1], e.runes[e.cursor:]...)
	e.cursor--
	e.markChanged()
}

// DeleteForward deletes the rune at the cursor, if any.
func (e *Editor) DeleteForward() {
	if e.cursor >= len(e.runes) {
		return
	}
	e.runes = append(e.runes[:e.cursor], e.runes[e.cursor+1:]...)
	e.markChanged()
}

// MoveLeft moves the cursor one rune left, clamped at the start.
func (e *Editor) MoveLeft() {
	if e.cursor > 0 {
		e.cursor--
	}
}

// MoveRight moves the cursor one rune right, clamped at the end.
func (e *Editor) MoveRight() {
	if e.cursor < len(e.runes) {
		e.cursor++
	}
}

// MoveHome moves the cursor to the start of the buffer.
func (e *Editor) MoveHome() { e.cursor = 0 }

// MoveEnd moves the cursor to the end of the buffer.
func (e *Editor) MoveEnd() { e.cursor = len(e.runes) }

// KillToEnd deletes from the cursor to the end of the buffer, saving
// the deleted text into the kill slot for a later Yank.
func (e *Editor) KillToEnd() {
	if e.cursor >= len(e.runes) {
		e.kill = ""
		return
	}
	e.kill = string(e.runes[e.cursor:])
	e.runes = e.runes[:e.cursor]
	e.markChanged()
}

// Yank re-inserts the most recently killed text at the cursor.
func (e *Editor) Yank() {
	if e.kill == "" {
		return
	}
	e.InsertText(e.kill)
}

// RuneWidth is the byte width in UTF-8 of the rune at the cursor, for
// callers that need to translate a rune offset back to a byte offset
// into Text().
func (e *Editor) RuneWidth() int {
	if e.cursor >= len(e.runes) {
		return 0
	}
	return utf8.RuneLen(e.runes[e.cursor])
}
