package controller

import (
	"strings"

	"github.com/aslpavel/sweep-go/sweep/candidate"
	"github.com/aslpavel/sweep-go/sweep/window"
)

const resetSGR = "\x1b[0m"

// render composes one frame: the prompt line with the editor's text and
// cursor, the ranked item list within the viewport (current row reverse
// video, matched positions bold), and an optional preview pane (spec
// §4.5 step 3). Writes are queued, not flushed synchronously; the loop's
// own write goroutine drains them.
func (c *Controller) render() error {
	w := c.Top()
	size, err := c.loop.ScreenSize()
	if err != nil {
		return err
	}
	rows, cols := int(size.Rows), int(size.Cols)
	if rows < 2 {
		rows = 2
	}
	if cols < 4 {
		cols = 4
	}
	w.Layout = window.Layout{Rows: rows, Cols: cols}

	listCols := cols
	if w.PreviewEnabled {
		listCols = cols / 2
	}

	c.loop.MoveCursorTo(1, 1)
	c.loop.ClearToEndOfScreen()
	c.writePromptLine(w, listCols)

	snap := w.Snapshot()
	visible := rows - 1
	start := 0
	if w.Cursor() >= visible {
		start = w.Cursor() - visible + 1
	}
	for row := 0; row < visible; row++ {
		c.loop.MoveCursorTo(1, row+2)
		idx := start + row
		if idx >= len(snap.Items) {
			continue
		}
		item := snap.Items[idx]
		cand := w.CandidateAt(idx)
		line := truncate(c.renderMatch(displayText(cand), item.Positions), listCols)
		if idx == w.Cursor() {
			c.loop.QueueWriteString(c.theme.CursorSGR() + line + resetSGR)
		} else {
			c.loop.QueueWriteString(line)
		}
	}

	if w.PreviewEnabled {
		c.writePreview(w, cols-listCols, rows)
	}
	c.loop.MoveCursorTo(len(w.Prompt)+w.Editor.Cursor()+1, 1)
	return nil
}

func (c *Controller) writePromptLine(w *window.Window, cols int) {
	line := truncate(w.Prompt+w.Editor.Text(), cols)
	c.loop.QueueWriteString(line)
}

func (c *Controller) writePreview(w *window.Window, previewCols, rows int) {
	cur := w.Current()
	if cur == nil {
		return
	}
	var text string
	if cur.Preview != nil {
		text, _ = cur.Preview.Data.(string)
	} else if len(w.PreviewCmd) > 0 {
		cached, err := w.CachedPreview(cur, displayText(cur))
		if err != nil {
			text = err.Error()
		} else {
			text = cached
		}
	}
	if text == "" {
		return
	}
	lines := strings.Split(text, "\n")
	for row := 0; row < rows-1 && row < len(lines); row++ {
		c.loop.MoveCursorTo(w.Layout.Cols-previewCols+1, row+2)
		c.loop.QueueWriteString(truncate(lines[row], previewCols))
	}
}

func displayText(c *candidate.Candidate) string {
	if c == nil {
		return ""
	}
	if s, ok := c.Extra.(string); ok && s != "" {
		return s
	}
	return c.Haystack()
}

// renderMatch highlights the runes at the given byte-rune positions within
// text using the controller's theme; positions come from a scorer.Result
// and index text by rune, not byte, so this walks runes rather than
// slicing the string directly.
func (c *Controller) renderMatch(text string, positions []int) string {
	if len(positions) == 0 {
		return text
	}
	marked := make(map[int]bool, len(positions))
	for _, p := range positions {
		marked[p] = true
	}
	matchSGR := c.theme.MatchSGR()
	var b strings.Builder
	inMatch := false
	for i, r := range []rune(text) {
		if marked[i] && !inMatch {
			b.WriteString(matchSGR)
			inMatch = true
		} else if !marked[i] && inMatch {
			b.WriteString(resetSGR)
			inMatch = false
		}
		b.WriteRune(r)
	}
	if inMatch {
		b.WriteString(resetSGR)
	}
	return b.String()
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:max(width, 0)])
	}
	return string(runes[:width-1]) + "…"
}
