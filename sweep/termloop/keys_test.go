package termloop

import "testing"

func parse(t *testing.T, l *Loop, data string) {
	t.Helper()
	if err := l.escape_code_parser.Parse([]byte(data)); err != nil {
		t.Fatalf("Parse(%q) = %v", data, err)
	}
}

func TestPlainRuneProducesTextAndKeyEvent(t *testing.T) {
	l := New()
	var gotKey string
	var gotText string
	l.OnKeyEvent = func(ev *KeyEvent) error { gotKey = ev.Name; return nil }
	l.OnText = func(text string) error { gotText = text; return nil }
	parse(t, l, "a")
	if gotKey != "a" || gotText != "a" {
		t.Fatalf("key=%q text=%q, want a/a", gotKey, gotText)
	}
}

func TestControlByteProducesNamedKeyNoText(t *testing.T) {
	l := New()
	var gotKey string
	var gotText string
	l.OnKeyEvent = func(ev *KeyEvent) error { gotKey = ev.Name; return nil }
	l.OnText = func(text string) error { gotText = text; return nil }
	parse(t, l, "\r")
	if gotKey != "enter" {
		t.Fatalf("key=%q, want enter", gotKey)
	}
	if gotText != "" {
		t.Fatalf("text=%q, want empty for a control key", gotText)
	}
}

func TestHandledKeyEventSuppressesOnText(t *testing.T) {
	l := New()
	var gotText string
	l.OnKeyEvent = func(ev *KeyEvent) error { ev.Handled = true; return nil }
	l.OnText = func(text string) error { gotText = text; return nil }
	parse(t, l, "x")
	if gotText != "" {
		t.Fatalf("text=%q, want empty once the key event is marked handled", gotText)
	}
}

func TestArrowKeysDecodeFromCSI(t *testing.T) {
	l := New()
	var got []string
	l.OnKeyEvent = func(ev *KeyEvent) error { got = append(got, ev.Name); return nil }
	parse(t, l, "\x1b[A\x1b[B\x1b[C\x1b[D")
	want := []string{"up", "down", "right", "left"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestModifiedArrowKeyAppliesPrefix(t *testing.T) {
	l := New()
	var gotKey string
	l.OnKeyEvent = func(ev *KeyEvent) error { gotKey = ev.Name; return nil }
	parse(t, l, "\x1b[1;5A") // ctrl+up
	if gotKey != "ctrl+up" {
		t.Fatalf("key=%q, want ctrl+up", gotKey)
	}
}

func TestTildeNavigationKeys(t *testing.T) {
	l := New()
	var gotKey string
	l.OnKeyEvent = func(ev *KeyEvent) error { gotKey = ev.Name; return nil }
	parse(t, l, "\x1b[3~")
	if gotKey != "delete" {
		t.Fatalf("key=%q, want delete", gotKey)
	}
}

func TestKittyKeyboardProtocolCtrlLetter(t *testing.T) {
	l := New()
	var gotKey string
	l.OnKeyEvent = func(ev *KeyEvent) error { gotKey = ev.Name; return nil }
	parse(t, l, "\x1b[103;5u") // 'g' with ctrl modifier
	if gotKey != "ctrl+g" {
		t.Fatalf("key=%q, want ctrl+g", gotKey)
	}
}

func TestBracketedPasteBypassesKeyDecoding(t *testing.T) {
	l := New()
	var gotKey string
	var gotText string
	l.OnKeyEvent = func(ev *KeyEvent) error { gotKey = ev.Name; return nil }
	l.OnText = func(text string) error { gotText += text; return nil }
	parse(t, l, "\x1b[200~hi\x1b[201~")
	if gotKey != "" {
		t.Fatalf("key=%q, want no key events while pasting", gotKey)
	}
	if gotText != "hi" {
		t.Fatalf("text=%q, want \"hi\"", gotText)
	}
}
