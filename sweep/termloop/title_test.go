package termloop

import "testing"

func TestSetWindowTitleQueuesOSC2(t *testing.T) {
	l := New()
	l.SetWindowTitle("sweep")
	if len(l.pending_writes) != 1 {
		t.Fatalf("pending_writes = %d, want 1", len(l.pending_writes))
	}
	if want := "\x1b]2;sweep\x07"; l.pending_writes[0].str != want {
		t.Fatalf("queued write = %q, want %q", l.pending_writes[0].str, want)
	}
}

func TestSetTTYPathDefaultsToEmpty(t *testing.T) {
	l := New()
	if l.tty_path != "" {
		t.Fatalf("tty_path = %q, want empty before SetTTYPath is called", l.tty_path)
	}
	l.SetTTYPath("/dev/pts/4")
	if l.tty_path != "/dev/pts/4" {
		t.Fatalf("tty_path = %q, want /dev/pts/4", l.tty_path)
	}
}
