package candidate

import (
	"encoding/json"

	"github.com/aslpavel/sweep-go/sweep/xerr"
)

// wireField decodes a field that is either a bare string (searchable) or
// an object {text, face, ref, active} (spec §6.4).
type wireField Field

func (f *wireField) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = wireField{Text: s, Active: true}
		return nil
	}
	var obj struct {
		Text   string `json:"text"`
		Face   string `json:"face"`
		Ref    int    `json:"ref"`
		Active *bool  `json:"active"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	active := true
	if obj.Active != nil {
		active = *obj.Active
	}
	*f = wireField{Text: obj.Text, Face: obj.Face, Ref: obj.Ref, Active: active}
	return nil
}

type wireCandidate struct {
	Entries []wireField     `json:"entries"`
	Right   []wireField     `json:"right"`
	Preview json.RawMessage `json:"preview"`
	Extra   json.RawMessage `json:"extra"`
}

// FromJSON parses one candidate object per spec §6.4.
func FromJSON(data []byte) (*Candidate, error) {
	var w wireCandidate
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, xerr.Wrap(xerr.InvalidArgument, "malformed candidate JSON", err)
	}
	entries := make([]Field, len(w.Entries))
	for i, f := range w.Entries {
		entries[i] = Field(f)
	}
	right := make([]Field, len(w.Right))
	for i, f := range w.Right {
		right[i] = Field(f)
	}
	var preview *Preview
	if len(w.Preview) > 0 && string(w.Preview) != "null" {
		var data any
		if err := json.Unmarshal(w.Preview, &data); err != nil {
			return nil, xerr.Wrap(xerr.InvalidArgument, "malformed candidate preview", err)
		}
		preview = &Preview{Data: data}
	}
	var extra any
	if len(w.Extra) > 0 {
		if err := json.Unmarshal(w.Extra, &extra); err != nil {
			return nil, xerr.Wrap(xerr.InvalidArgument, "malformed candidate extra", err)
		}
	}
	return New(entries, right, preview, extra), nil
}

// FromJSONArray parses --json mode input: a JSON array of candidate
// objects. A malformed array aborts the whole load (spec §7).
func FromJSONArray(data []byte) ([]*Candidate, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, xerr.Wrap(xerr.InvalidArgument, "malformed candidate array", err)
	}
	out := make([]*Candidate, len(raw))
	for i, r := range raw {
		c, err := FromJSON(r)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// MarshalJSON encodes c in the same object shape FromJSON decodes (spec
// §6.4), used by the RPC surface's items_current/select results and by
// --json mode's selection output. Fields are always emitted as objects
// rather than bare strings, since round-tripping through the short form
// would silently drop Face/Ref.
func (c *Candidate) MarshalJSON() ([]byte, error) {
	var preview any
	if c.Preview != nil {
		preview = c.Preview.Data
	}
	return json.Marshal(struct {
		Entries []Field `json:"entries"`
		Right   []Field `json:"right"`
		Preview any     `json:"preview,omitempty"`
		Extra   any     `json:"extra,omitempty"`
	}{
		Entries: c.Entries,
		Right:   c.Right,
		Preview: preview,
		Extra:   c.Extra,
	})
}
