// Package window implements per-window state (spec §4.4): uid,
// prompt chrome, key bindings, item store, editor, and the cursor
// into the window's current ranked snapshot; and the window stack
// (spec §4.5's window-switch/pop semantics).
package window

import (
	"strconv"

	"github.com/aslpavel/sweep-go/sweep/xerr"
)

// ID is a window identifier: either a string or an integer, mirroring
// original_source/sweep-cli/src/main.rs's parse_window_id — RPC
// callers may address a window by either shape, and anonymous windows
// created by the controller are given small integer ids.
type ID struct {
	str   string
	num   int64
	isStr bool
}

// StringID returns a string-valued ID.
func StringID(s string) ID { return ID{str: s, isStr: true} }

// IntID returns an integer-valued ID.
func IntID(n int64) ID { return ID{num: n} }

// ParseID parses an RPC-supplied window id: a JSON number, or a string
// holding a decimal integer, decodes to an IntID; any other string to a
// StringID of its literal text. A missing id or any other JSON type is
// InvalidArgument.
func ParseID(raw any) (ID, error) {
	switch v := raw.(type) {
	case nil:
		return ID{}, xerr.New(xerr.InvalidArgument, "missing window id")
	case float64:
		return IntID(int64(v)), nil
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return IntID(n), nil
		}
		return StringID(v), nil
	default:
		return ID{}, xerr.Newf(xerr.InvalidArgument, "window id must be a string or integer, got %T", raw)
	}
}

// String renders the id for logging and as a map key via fmt's %v.
func (id ID) String() string {
	if id.isStr {
		return id.str
	}
	return strconv.FormatInt(id.num, 10)
}

// IsZero reports whether id is the zero ID (the implicit default
// window before any window_switch call).
func (id ID) IsZero() bool {
	return !id.isStr && id.num == 0
}
