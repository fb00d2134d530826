// Package candidate implements the Candidate data model (spec §3) and the
// two input encodings (line-delimited, spec §6.2, and JSON, spec §6.4)
// that build it.
package candidate

// Field is one fragment of a candidate's display text. A Field with
// Active=false contributes to the rendered view but not to the haystack
// projection scorers search over.
type Field struct {
	Text   string `json:"text"`
	Face   string `json:"face,omitempty"` // opaque style reference, rendered by an external collaborator
	Ref    int    `json:"ref,omitempty"`
	Active bool   `json:"active"`
}

// Preview is the optional payload a candidate exposes for an out-of-band
// preview pane. Large distinguishes the two preview sizes original_source
// keeps separate (Preview vs PreviewLarge) without forcing a layout choice
// here — that stays the renderer's concern.
type Preview struct {
	Data  any
	Large bool
}

// Candidate is immutable after construction (spec §3). It carries no
// stable identity beyond its position in a window's item store.
type Candidate struct {
	Entries []Field
	Right   []Field
	Preview *Preview
	Extra   any

	haystack string
}

// New builds a Candidate and derives its haystack projection: the
// concatenation, in order, of every Active entry field's text.
func New(entries, right []Field, preview *Preview, extra any) *Candidate {
	c := &Candidate{Entries: entries, Right: right, Preview: preview, Extra: extra}
	for _, f := range entries {
		if f.Active {
			c.haystack += f.Text
		}
	}
	return c
}

// Haystack is the searchable character projection scorers operate on.
func (c *Candidate) Haystack() string { return c.haystack }

// Haystack is the capability interface the ranker and controller need
// from a user payload (spec §9 "Haystack polymorphism"): only the
// searchable projection is required by the core; display and preview
// rendering are an external collaborator's concern, so this interface
// exposes the data they need without requiring a rendering method here.
type Haystack interface {
	Haystack() string
}
