// Package config parses the ambient --theme flag (spec §6.1): a
// comma-separated key=value list headed by the bare mode name
// (light|dark,accent=...,fg=...,bg=...).
//
// No example in the retrieval pack implements a CLI theme flag this
// shaped (tools/themes parses a full kitty.conf color-scheme file, a
// much larger grammar this spec's Non-goals don't need), so the
// per-term parsing here is grounded on tools/utils.ParseConfData's
// "key val" idiom, generalized from newline-separated config lines to
// comma-separated flag terms and from a space separator to `=`.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aslpavel/sweep-go/sweep/xerr"
)

// Mode selects the base palette a theme builds on.
type Mode int

const (
	Light Mode = iota
	Dark
)

func (m Mode) String() string {
	if m == Dark {
		return "dark"
	}
	return "light"
}

// Theme is the parsed --theme value. Unset colors are the empty string,
// leaving the renderer's built-in defaults for that mode in effect.
type Theme struct {
	Mode   Mode
	Accent string
	Fg     string
	Bg     string
}

// Default is the theme in effect when --theme is not given.
var Default = Theme{Mode: Light}

// Parse parses one --theme value, e.g. "dark,accent=#89b4fa,fg=#cdd6f4".
// The leading mode term is required to be exactly one of light/dark if
// present; any other comma-separated term must be a key=value pair
// naming accent, fg or bg.
func Parse(spec string) (Theme, error) {
	if spec == "" {
		return Default, nil
	}
	th := Default
	for i, term := range strings.Split(spec, ",") {
		term = strings.TrimSpace(term)
		if term == "" {
			return Theme{}, xerr.Newf(xerr.InvalidArgument, "empty term in --theme %q", spec)
		}
		key, val, hasEq := strings.Cut(term, "=")
		if !hasEq {
			if i != 0 {
				return Theme{}, xerr.Newf(xerr.InvalidArgument, "--theme term %q must be key=value", term)
			}
			switch key {
			case "light":
				th.Mode = Light
			case "dark":
				th.Mode = Dark
			default:
				return Theme{}, xerr.Newf(xerr.InvalidArgument, "--theme mode must be light or dark, got %q", key)
			}
			continue
		}
		switch key {
		case "accent":
			th.Accent = val
		case "fg":
			th.Fg = val
		case "bg":
			th.Bg = val
		default:
			return Theme{}, xerr.Newf(xerr.InvalidArgument, "unknown --theme key %q", key)
		}
	}
	return th, nil
}

// hexRGB parses a "#RRGGBB" color; the empty string and malformed values
// both report ok=false so callers can fall back to a plain SGR toggle.
func hexRGB(s string) (r, g, b uint8, ok bool) {
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}

// CursorSGR is the escape sequence the renderer uses to highlight the row
// under the cursor: true-color fg-on-bg from Fg/Bg when both are set,
// otherwise a plain reverse-video toggle.
func (t Theme) CursorSGR() string {
	fr, fg, fb, fok := hexRGB(t.Fg)
	br, bg, bb, bok := hexRGB(t.Bg)
	if !fok || !bok {
		return "\x1b[7m"
	}
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm", fr, fg, fb, br, bg, bb)
}

// MatchSGR is the escape sequence used to highlight matched character
// positions: true-color fg from Accent when set, otherwise a plain bold
// toggle.
func (t Theme) MatchSGR() string {
	r, g, b, ok := hexRGB(t.Accent)
	if !ok {
		return "\x1b[1m"
	}
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", r, g, b)
}
