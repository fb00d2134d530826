package termloop

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sys/unix"

	"github.com/aslpavel/sweep-go/tools/tty"
)

func is_temporary_error(err error) bool {
	return errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK) || errors.Is(err, io.ErrShortWrite)
}

func (l *Loop) update_screen_size() error {
	if l.controlling_term == nil {
		return fmt.Errorf("no controlling terminal, cannot query size")
	}
	ws, err := l.controlling_term.GetSize()
	if err != nil {
		return err
	}
	l.screen_size.updated = true
	l.screen_size.Rows, l.screen_size.Cols = uint(ws.Row), uint(ws.Col)
	return nil
}

func (l *Loop) dispatch_input_data(data []byte) error {
	return l.escape_code_parser.Parse(data)
}

func (l *Loop) on_signal(s unix.Signal) error {
	switch s {
	case unix.SIGINT:
		if l.OnSIGINT != nil {
			if handled, err := l.OnSIGINT(); handled {
				return err
			}
		}
		l.death_signal = unix.SIGINT
		l.keep_going = false
		return nil
	case unix.SIGTERM:
		l.death_signal = unix.SIGTERM
		l.keep_going = false
		return nil
	case unix.SIGHUP:
		l.death_signal = unix.SIGHUP
		l.keep_going = false
		return nil
	case unix.SIGWINCH:
		old := l.screen_size
		l.screen_size.updated = false
		if err := l.update_screen_size(); err != nil {
			return err
		}
		if l.OnResize != nil {
			return l.OnResize(old, l.screen_size)
		}
		return nil
	case unix.SIGPIPE:
		return nil
	default:
		return nil
	}
}

func (l *Loop) run() (err error) {
	signal_channel := make(chan os.Signal, 64)
	handled := []os.Signal{unix.SIGINT, unix.SIGTERM, unix.SIGHUP, unix.SIGWINCH, unix.SIGPIPE}
	signal.Notify(signal_channel, handled...)
	defer signal.Reset(handled...)

	var term *tty.Term
	if l.tty_path != "" {
		term, err = tty.OpenTerm(l.tty_path, tty.SetRaw)
	} else {
		term, err = tty.OpenControllingTerm(tty.SetRaw)
	}
	if err != nil {
		return err
	}
	l.controlling_term = term
	defer func() {
		term.RestoreAndClose()
		l.controlling_term = nil
	}()

	l.keep_going = true
	l.tty_write_channel = make(chan write_msg, 256)
	write_done_channel := make(chan IdType)
	l.wakeup_channel = make(chan byte, 64)
	l.panic_channel = make(chan error)
	l.pending_writes = make([]write_msg, 0, 64)
	err_channel := make(chan error, 4)
	l.death_signal = 0
	l.escape_code_parser.Reset()
	l.exit_code = 0
	l.timers, l.timers_temp = make([]*timer, 0, 8), make([]*timer, 0, 8)
	no_timeout_channel := make(<-chan time.Time)
	finalizer := ""

	r_r, r_w, err := os.Pipe()
	if err != nil {
		return err
	}
	tty_read_channel := make(chan []byte)
	tty_reading_done_channel := make(chan byte)
	go read_from_tty(r_r, term, tty_read_channel, err_channel, tty_reading_done_channel)

	w_r, w_w, err := os.Pipe()
	if err != nil {
		return err
	}

	l.QueueWriteString(l.terminal_options.SetStateEscapeCodes())

	defer func() {
		r_w.Close()
		close(tty_reading_done_channel)
		for range tty_read_channel {
		}
		if l.OnFinalize != nil {
			finalizer += l.OnFinalize()
		}
		if finalizer != "" {
			l.QueueWriteString(finalizer)
		}
		l.QueueWriteString(l.terminal_options.ResetStateEscapeCodes())
		flush_writer(w_w, l.tty_write_channel, write_done_channel, l.pending_writes, 2*time.Second)
		l.pending_writes = nil
		l.tty_write_channel = nil
	}()

	go write_to_tty(w_r, term, l.tty_write_channel, err_channel, write_done_channel)

	if l.OnInitialize != nil {
		finalizer, err = l.OnInitialize()
		if err != nil {
			return err
		}
	}

	for l.keep_going {
		l.flush_pending_writes(l.tty_write_channel)
		timeout_chan := no_timeout_channel
		if len(l.timers) > 0 {
			now := time.Now()
			if err = l.dispatch_timers(now); err != nil {
				return err
			}
			var timeout time.Duration
			if len(l.timers) > 0 {
				timeout = max(0, l.timers[0].deadline.Sub(now))
			}
			timeout_chan = time.After(timeout)
		}
		select {
		case <-timeout_chan:
		case p := <-l.panic_channel:
			return p
		case <-l.wakeup_channel:
			for len(l.wakeup_channel) > 0 {
				<-l.wakeup_channel
			}
			if l.OnWakeup != nil {
				if err = l.OnWakeup(); err != nil {
					return err
				}
			}
		case msg_id := <-write_done_channel:
			_ = msg_id
			l.flush_pending_writes(l.tty_write_channel)
		case rwerr := <-err_channel:
			return fmt.Errorf("terminal I/O failed: %w", rwerr)
		case s := <-signal_channel:
			if err = l.on_signal(s.(unix.Signal)); err != nil {
				return err
			}
		case input_data, more := <-tty_read_channel:
			if !more {
				select {
				case rwerr := <-err_channel:
					return fmt.Errorf("failed to read from terminal: %w", rwerr)
				default:
					return fmt.Errorf("failed to read from terminal: %w", io.EOF)
				}
			}
			if err = l.dispatch_input_data(input_data); err != nil {
				return err
			}
		}
	}

	return nil
}
