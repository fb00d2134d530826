package config

import "testing"

func TestParseDefaultsToLight(t *testing.T) {
	th, err := Parse("")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if th.Mode != Light {
		t.Fatalf("Mode = %v, want Light", th.Mode)
	}
}

func TestParseModeAndColors(t *testing.T) {
	th, err := Parse("dark,accent=#89b4fa,fg=#cdd6f4,bg=#1e1e2e")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if th.Mode != Dark || th.Accent != "#89b4fa" || th.Fg != "#cdd6f4" || th.Bg != "#1e1e2e" {
		t.Fatalf("theme = %+v, want dark/#89b4fa/#cdd6f4/#1e1e2e", th)
	}
}

func TestParseColorsOnlyKeepsDefaultMode(t *testing.T) {
	th, err := Parse("accent=#ff0000")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if th.Mode != Light || th.Accent != "#ff0000" {
		t.Fatalf("theme = %+v, want light/#ff0000", th)
	}
}

func TestParseRejectsUnknownKey(t *testing.T) {
	if _, err := Parse("dark,glow=1"); err == nil {
		t.Fatal("Parse accepted an unknown theme key")
	}
}

func TestParseRejectsBareModeAfterFirstTerm(t *testing.T) {
	if _, err := Parse("accent=#fff,dark"); err == nil {
		t.Fatal("Parse accepted a bare mode term after the first position")
	}
}

func TestCursorSGRTrueColorWhenFgAndBgSet(t *testing.T) {
	th, err := Parse("dark,fg=#cdd6f4,bg=#1e1e2e")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := "\x1b[38;2;205;214;244m\x1b[48;2;30;30;46m"
	if got := th.CursorSGR(); got != want {
		t.Fatalf("CursorSGR() = %q, want %q", got, want)
	}
}

func TestCursorSGRFallsBackToReverseVideo(t *testing.T) {
	th, err := Parse("")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := th.CursorSGR(); got != "\x1b[7m" {
		t.Fatalf("CursorSGR() = %q, want plain reverse-video", got)
	}
}

func TestCursorSGRFallsBackWhenOnlyOneColorSet(t *testing.T) {
	th, err := Parse("fg=#ffffff")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := th.CursorSGR(); got != "\x1b[7m" {
		t.Fatalf("CursorSGR() = %q, want plain reverse-video with only fg set", got)
	}
}

func TestMatchSGRTrueColorWhenAccentSet(t *testing.T) {
	th, err := Parse("accent=#89b4fa")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if want := "\x1b[38;2;137;180;250m"; th.MatchSGR() != want {
		t.Fatalf("MatchSGR() = %q, want %q", th.MatchSGR(), want)
	}
}

func TestMatchSGRFallsBackToBold(t *testing.T) {
	th, err := Parse("")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if th.MatchSGR() != "\x1b[1m" {
		t.Fatalf("MatchSGR() = %q, want plain bold", th.MatchSGR())
	}
}

func TestHexRGBRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "#fff", "fff", "#gggggg", "#12345"} {
		if _, _, _, ok := hexRGB(s); ok {
			t.Fatalf("hexRGB(%q) = ok, want rejected", s)
		}
	}
}
