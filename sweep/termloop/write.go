package termloop

import (
	"io"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github.com/aslpavel/sweep-go/tools/tty"
	"github.com/aslpavel/sweep-go/tools/utils"
)

type write_msg struct {
	id  IdType
	str string
}

func (m write_msg) is_empty() bool { return m.str == "" }

func (m *write_msg) write(f *tty.Term) (err error) {
	n, err := writestring_ignoring_temporary_errors(f, m.str)
	if n > 0 {
		m.str = m.str[n:]
	}
	return
}

func writestring_ignoring_temporary_errors(f *tty.Term, buf string) (int, error) {
	n, err := f.WriteString(buf)
	if err != nil {
		if is_temporary_error(err) {
			err = nil
		}
		return n, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, err
}

func (l *Loop) flush_pending_writes(tty_write_channel chan<- write_msg) (num_sent int) {
	defer func() {
		if num_sent > 0 {
			l.pending_writes = utils.ShiftLeft(l.pending_writes, num_sent)
		}
	}()
	for len(l.pending_writes) > num_sent {
		select {
		case tty_write_channel <- l.pending_writes[num_sent]:
			num_sent++
		default:
			return
		}
	}
	return
}

func (l *Loop) add_write_to_pending_queue(data write_msg) {
	if len(l.pending_writes) > 0 || l.tty_write_channel == nil {
		l.pending_writes = append(l.pending_writes, data)
	} else {
		select {
		case l.tty_write_channel <- data:
		default:
			l.pending_writes = append(l.pending_writes, data)
		}
	}
}

func write_to_tty(pipe_r *os.File, term *tty.Term, job_channel <-chan write_msg, err_channel chan<- error, write_done_channel chan<- IdType) {
	keep_going := true
	defer func() {
		pipe_r.Close()
		close(write_done_channel)
	}()
	selector := utils.CreateSelect(2)
	pipe_fd := int(pipe_r.Fd())
	tty_fd := term.Fd()
	selector.RegisterRead(pipe_fd)
	selector.RegisterWrite(tty_fd)

	wait_for_write_available := func() {
		for {
			n, err := selector.WaitForever()
			if err != nil && err != unix.EINTR {
				err_channel <- err
				keep_going = false
				return
			}
			if n > 0 {
				break
			}
		}
		if selector.IsReadyToRead(pipe_fd) {
			keep_going = false
		}
	}

	write_data := func(msg write_msg) {
		for !msg.is_empty() {
			wait_for_write_available()
			if !keep_going {
				return
			}
			if err := msg.write(term); err != nil {
				err_channel <- err
				keep_going = false
				return
			}
		}
	}

	for {
		data, more := <-job_channel
		if !more {
			keep_going = false
			break
		}
		write_data(data)
		if keep_going {
			write_done_channel <- data.id
		} else {
			break
		}
	}
}

// flush_writer drains pending_writes to the terminal (or gives up after
// timeout) before the loop's writer goroutine is torn down on shutdown.
func flush_writer(pipe_w *os.File, tty_write_channel chan<- write_msg, write_done_channel <-chan IdType, pending_writes []write_msg, timeout time.Duration) {
	writer_quit := false
	defer func() {
		if tty_write_channel != nil {
			close(tty_write_channel)
		}
		pipe_w.Close()
		if !writer_quit {
			for range write_done_channel {
			}
		}
	}()
	deadline := time.Now().Add(timeout)
	for len(pending_writes) > 0 && !writer_quit {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return
		}
		select {
		case <-time.After(remaining):
			return
		case _, more := <-write_done_channel:
			if !more {
				writer_quit = true
			}
		case tty_write_channel <- pending_writes[0]:
			pending_writes = pending_writes[1:]
		}
	}
	close(tty_write_channel)
	tty_write_channel = nil
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return
	}
	for !writer_quit {
		select {
		case _, more := <-write_done_channel:
			if !more {
				writer_quit = true
			}
		case <-time.After(remaining):
			return
		}
	}
}
