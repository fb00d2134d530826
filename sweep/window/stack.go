package window

import "github.com/aslpavel/sweep-go/sweep/xerr"

// Stack is the controller's window stack (spec §4.5): window_switch
// pushes or activates a window, window_pop returns to the previous
// one, and popping the last window ends the session.
type Stack struct {
	windows []*Window
	byID    map[ID]*Window
}

// NewStack returns an empty stack.
func NewStack() *Stack {
	return &Stack{byID: map[ID]*Window{}}
}

// Push activates w, making it the top of the stack. If w's uid is
// already on the stack, it is moved to the top instead of duplicated.
func (s *Stack) Push(w *Window) {
	if existing, ok := s.byID[w.UID]; ok {
		s.remove(existing.UID)
	}
	s.windows = append(s.windows, w)
	s.byID[w.UID] = w
}

// Switch activates the window with id, optionally closing the
// previously active one (spec §4.6 window_switch{uid, close_prev?}).
// create is called to build the window if id has not been seen
// before.
func (s *Stack) Switch(id ID, closePrev bool, create func() *Window) *Window {
	prev := s.Top()
	if closePrev && prev != nil {
		s.remove(prev.UID)
		prev.Close()
	}
	if w, ok := s.byID[id]; ok {
		s.Push(w)
		return w
	}
	w := create()
	s.Push(w)
	return w
}

// Pop removes and closes the top window, activating the one beneath
// it. Returns false (and does nothing) if only one window remains —
// closing the last window ends the session instead (spec §4.5).
func (s *Stack) Pop() (closed bool) {
	if len(s.windows) <= 1 {
		return false
	}
	top := s.windows[len(s.windows)-1]
	s.remove(top.UID)
	top.Close()
	return true
}

// Top returns the active window, or nil if the stack is empty.
func (s *Stack) Top() *Window {
	if len(s.windows) == 0 {
		return nil
	}
	return s.windows[len(s.windows)-1]
}

// Len reports the number of windows on the stack.
func (s *Stack) Len() int { return len(s.windows) }

// Get looks up a window by id without activating it.
func (s *Stack) Get(id ID) (*Window, error) {
	w, ok := s.byID[id]
	if !ok {
		return nil, xerr.Newf(xerr.InvalidArgument, "unknown window %q", id.String())
	}
	return w, nil
}

func (s *Stack) remove(id ID) {
	delete(s.byID, id)
	for i, w := range s.windows {
		if w.UID == id {
			s.windows = append(s.windows[:i], s.windows[i+1:]...)
			return
		}
	}
}
