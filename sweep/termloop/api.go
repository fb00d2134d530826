// Package termloop is a single-threaded terminal event reactor: it owns the
// controlling terminal, a background tty reader/writer pair, a timer heap and
// a wakeup channel that lets other goroutines (the ranker's worker, an RPC
// server goroutine) cross back onto the loop goroutine without their own
// locking. It is a trimmed copy of the teacher's terminal reactor with the
// cell-grid rendering, image graphics, mouse tracking and pointer-shape
// protocol machinery removed: a list picker redraws by reprinting its
// visible rows each frame, it does not need a retained screen model.
package termloop

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github.com/aslpavel/sweep-go/tools/tty"
	"github.com/aslpavel/sweep-go/tools/utils"
	"github.com/aslpavel/sweep-go/tools/wcswidth"
)

type ScreenSize struct {
	Rows, Cols uint
	updated    bool
}

type IdType uint64
type TimerCallback func(id IdType) error

// Loop is the event reactor. All callback fields are optional; nil callbacks
// are simply not invoked.
type Loop struct {
	controlling_term                       *tty.Term
	tty_path                               string
	terminal_options                       TerminalStateOptions
	screen_size                            ScreenSize
	escape_code_parser                     wcswidth.EscapeCodeParser
	keep_going                             bool
	death_signal                           unix.Signal
	exit_code                              int
	timers, timers_temp                    []*timer
	timer_id_counter, write_msg_id_counter IdType
	wakeup_channel                         chan byte
	panic_channel                          chan error
	pending_writes                         []write_msg
	tty_write_channel                      chan write_msg

	// OnInitialize is called once the terminal is set up; any string it
	// returns is written to the terminal on shutdown (as a finalizer).
	OnInitialize func() (string, error)
	// OnFinalize is called just before shutdown; its return value is
	// written to the terminal before the finalizer from OnInitialize.
	OnFinalize func() string
	// OnKeyEvent is called for every decoded key press.
	OnKeyEvent func(event *KeyEvent) error
	// OnText is called for plain text runs, either typed directly or
	// carried by a key event that also produced printable text.
	OnText func(text string) error
	// OnResize is called when the controlling terminal's size changes.
	OnResize func(old, new ScreenSize) error
	// OnWakeup is called when WakeupMainThread is used to signal the loop
	// from another goroutine.
	OnWakeup func() error
	// OnSIGINT is called on SIGINT; return true to suppress the default
	// quit-the-loop behavior.
	OnSIGINT func() (bool, error)
}

func New() *Loop {
	l := &Loop{}
	l.terminal_options.alternate_screen = true
	l.terminal_options.kitty_keyboard_mode = disambiguateKeys
	l.escape_code_parser.HandleCSI = l.handle_csi
	l.escape_code_parser.HandleRune = l.handle_rune
	return l
}

// NoAlternateScreen keeps the loop's output inline in the scrollback instead
// of switching to the terminal's alternate screen buffer.
func (l *Loop) NoAlternateScreen() *Loop {
	l.terminal_options.alternate_screen = false
	return l
}

// SetTTYPath overrides which device Run opens as the controlling terminal
// (spec §6.1 --tty PATH); the zero value keeps the default of opening the
// process's own controlling terminal.
func (l *Loop) SetTTYPath(path string) *Loop {
	l.tty_path = path
	return l
}

func (l *Loop) AddTimer(interval time.Duration, repeats bool, callback TimerCallback) (IdType, error) {
	return l.add_timer(interval, repeats, callback)
}

func (l *Loop) RemoveTimer(id IdType) bool {
	return l.remove_timer(id)
}

// WakeupMainThread asks the loop to run OnWakeup at its next opportunity.
// Safe to call from any goroutine; never blocks.
func (l *Loop) WakeupMainThread() bool {
	select {
	case l.wakeup_channel <- 1:
		return true
	default:
		return false
	}
}

func (l *Loop) QueueWriteString(data string) IdType {
	l.write_msg_id_counter++
	msg := write_msg{str: data, id: l.write_msg_id_counter}
	l.add_write_to_pending_queue(msg)
	return msg.id
}

func (l *Loop) ScreenSize() (ScreenSize, error) {
	if l.screen_size.updated {
		return l.screen_size, nil
	}
	err := l.update_screen_size()
	return l.screen_size, err
}

func (l *Loop) ExitCode() int { return l.exit_code }

func (l *Loop) Quit(code int) {
	l.exit_code = code
	l.keep_going = false
}

func (l *Loop) MoveCursorTo(col, row int) {
	if col > 0 && row > 0 {
		l.QueueWriteString(fmt.Sprintf("\x1b[%d;%dH", row, col))
	}
}

// SetWindowTitle sets the terminal's window title via OSC 2 (spec §3
// SUPPLEMENT's --title flag).
func (l *Loop) SetWindowTitle(title string) {
	l.QueueWriteString("\x1b]2;" + title + "\x07")
}

func (l *Loop) ClearToEndOfLine()   { l.QueueWriteString("\x1b[K") }
func (l *Loop) ClearToEndOfScreen() { l.QueueWriteString("\x1b[J") }
func (l *Loop) HideCursor()         { l.QueueWriteString("\x1b[?25l") }
func (l *Loop) ShowCursor()         { l.QueueWriteString("\x1b[?25h") }

func (l *Loop) RecoverFromPanicInGoRoutine() {
	if r := recover(); r != nil {
		text, err := utils.Format_stacktrace_on_panic(r)
		err = fmt.Errorf("panic in background goroutine\n%s\n%w", text, err)
		fmt.Fprintln(os.Stderr, err)
		l.panic_channel <- err
	}
}

// Run acquires the controlling terminal, installs signal handlers and runs
// the event loop until Quit is called, an unrecoverable I/O error occurs, or
// a fatal signal is received. On return the terminal is always restored to
// its original state, even on panic.
func (l *Loop) Run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			var text string
			text, err = utils.Format_stacktrace_on_panic(r)
			if l.controlling_term != nil {
				l.controlling_term.RestoreAndClose()
				l.controlling_term = nil
			}
			fmt.Fprintln(os.Stderr, text)
		}
	}()
	return l.run()
}
