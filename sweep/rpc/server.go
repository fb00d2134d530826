package rpc

import (
	"encoding/json"
	"io"

	"github.com/google/uuid"

	"github.com/aslpavel/sweep-go/sweep/candidate"
	"github.com/aslpavel/sweep-go/sweep/controller"
	"github.com/aslpavel/sweep-go/sweep/sweeplog"
	"github.com/aslpavel/sweep-go/sweep/window"
	"github.com/aslpavel/sweep-go/sweep/xerr"
)

// Server serves one peer connection: it dispatches requests/notifications
// read from r onto ctrl's loop goroutine (via Controller.Submit, giving
// spec §5's per-peer ordering and cross-peer serialisation) and forwards
// ctrl's outbound SweepEvents to w as notifications.
type Server struct {
	ctrl *controller.Controller
	r    io.Reader
	w    io.Writer

	// id tags this connection's debug log lines; short-uuid rather than a
	// sequence counter so log lines from concurrently accepted peers
	// (tools/utils/short-uuid.go's google/uuid idiom) never collide.
	id string
}

func New(ctrl *controller.Controller, r io.Reader, w io.Writer) *Server {
	return &Server{ctrl: ctrl, r: r, w: w, id: uuid.NewString()[:8]}
}

// Serve runs until the peer closes its side of the stream (a clean EOF,
// returned as nil) or a read/write error occurs. The controller itself
// is unaffected: closing one peer's stream only cancels that peer's
// in-flight work (spec §5).
func (s *Server) Serve() error {
	sweeplog.Printf("rpc[%s]: serving", s.id)
	stop := make(chan struct{})
	pumpDone := make(chan struct{})
	go func() {
		defer close(pumpDone)
		s.pumpEvents(stop)
	}()
	err := s.readLoop()
	close(stop)
	<-pumpDone
	sweeplog.Printf("rpc[%s]: closed: %v", s.id, err)
	return err
}

func (s *Server) pumpEvents(stop <-chan struct{}) {
	for {
		select {
		case ev, ok := <-s.ctrl.Events():
			if !ok {
				return
			}
			s.writeNotification(ev)
		case <-stop:
			return
		}
	}
}

func (s *Server) readLoop() error {
	for {
		payload, err := readFrame(s.r)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		s.handleFrame(payload)
	}
}

func (s *Server) handleFrame(payload []byte) {
	var msg inbound
	if err := json.Unmarshal(payload, &msg); err != nil {
		sweeplog.Printf("rpc[%s]: malformed frame: %v", s.id, err)
		s.writeError(nil, xerr.Wrap(xerr.ProtocolError, "malformed frame", err))
		return
	}
	result, err := s.dispatch(msg.Method, msg.Params)
	if !msg.isRequest() {
		return
	}
	if err != nil {
		s.writeError(msg.ID, err)
		return
	}
	s.writeResult(msg.ID, result)
}

func (s *Server) writeResult(id json.RawMessage, result any) {
	payload, err := json.Marshal(outboundResult{ID: id, Result: result})
	if err != nil {
		return
	}
	writeFrame(s.w, payload)
}

func (s *Server) writeError(id json.RawMessage, err error) {
	if id == nil {
		id = json.RawMessage("null")
	}
	payload, merr := json.Marshal(outboundError{ID: id, Error: errorToWire(err)})
	if merr != nil {
		return
	}
	writeFrame(s.w, payload)
}

func (s *Server) writeNotification(ev controller.SweepEvent) {
	var method string
	var params any
	switch ev.Kind {
	case controller.Select:
		method = "select"
		params = map[string]any{"items": ev.Items, "key": ev.Key}
	case controller.Bind:
		method = "bind"
		params = map[string]any{"command": ev.Command, "key": ev.Key}
	case controller.Resize:
		method = "resize"
		params = map[string]any{"cols": ev.Cols, "rows": ev.Rows}
	case controller.Custom:
		method = ev.Method
		params = ev.Params
	default:
		return
	}
	payload, err := json.Marshal(outboundNotification{Method: method, Params: params})
	if err != nil {
		return
	}
	writeFrame(s.w, payload)
}

// dispatch implements spec §4.6's method table. Every handler runs via
// Controller.Submit so it executes on the controller's own goroutine
// even though Serve's read loop runs on a per-connection goroutine.
func (s *Server) dispatch(method string, raw json.RawMessage) (any, error) {
	switch method {
	case "items_extend":
		return s.itemsExtend(raw)
	case "items_clear":
		return s.itemsClear(raw)
	case "items_current":
		return s.itemsCurrent(raw)
	case "query_set":
		return s.querySet(raw)
	case "query_get":
		return s.queryGet(raw)
	case "prompt_set":
		return s.promptSet(raw)
	case "bind":
		return s.bind(raw)
	case "window_switch":
		return s.windowSwitch(raw)
	case "window_pop":
		return s.windowPop()
	case "scorer_set":
		return s.scorerSet(raw)
	case "preview_set":
		return s.previewSet(raw)
	default:
		return nil, xerr.Newf(xerr.InvalidArgument, "unknown method %q", method)
	}
}

func unmarshalParams(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return xerr.Wrap(xerr.InvalidArgument, "malformed params", err)
	}
	return nil
}

func (s *Server) itemsExtend(raw json.RawMessage) (any, error) {
	var params struct {
		Items  []json.RawMessage `json:"items"`
		Window any               `json:"window"`
	}
	if err := unmarshalParams(raw, &params); err != nil {
		return nil, err
	}
	items := make([]*candidate.Candidate, len(params.Items))
	for i, raw := range params.Items {
		c, err := candidate.FromJSON(raw)
		if err != nil {
			return nil, err
		}
		items[i] = c
	}
	var outerErr error
	s.ctrl.Submit(func() {
		w, err := s.ctrl.WindowByID(params.Window)
		if err != nil {
			outerErr = err
			return
		}
		w.ItemsExtend(items)
		s.ctrl.MarkDirty()
	})
	return nil, outerErr
}

func (s *Server) itemsClear(raw json.RawMessage) (any, error) {
	var params struct {
		Window any `json:"window"`
	}
	if err := unmarshalParams(raw, &params); err != nil {
		return nil, err
	}
	var outerErr error
	s.ctrl.Submit(func() {
		w, err := s.ctrl.WindowByID(params.Window)
		if err != nil {
			outerErr = err
			return
		}
		w.ItemsClear()
		s.ctrl.MarkDirty()
	})
	return nil, outerErr
}

func (s *Server) itemsCurrent(raw json.RawMessage) (any, error) {
	var params struct {
		Window any `json:"window"`
	}
	if err := unmarshalParams(raw, &params); err != nil {
		return nil, err
	}
	var result *candidate.Candidate
	var outerErr error
	s.ctrl.Submit(func() {
		w, err := s.ctrl.WindowByID(params.Window)
		if err != nil {
			outerErr = err
			return
		}
		result = w.Current()
	})
	return result, outerErr
}

func (s *Server) querySet(raw json.RawMessage) (any, error) {
	var params struct {
		Query  string `json:"query"`
		Window any    `json:"window"`
	}
	if err := unmarshalParams(raw, &params); err != nil {
		return nil, err
	}
	var outerErr error
	s.ctrl.Submit(func() {
		w, err := s.ctrl.WindowByID(params.Window)
		if err != nil {
			outerErr = err
			return
		}
		w.SetNeedle(params.Query)
		s.ctrl.MarkDirty()
	})
	return nil, outerErr
}

func (s *Server) queryGet(raw json.RawMessage) (any, error) {
	var params struct {
		Window any `json:"window"`
	}
	if err := unmarshalParams(raw, &params); err != nil {
		return nil, err
	}
	var result string
	var outerErr error
	s.ctrl.Submit(func() {
		w, err := s.ctrl.WindowByID(params.Window)
		if err != nil {
			outerErr = err
			return
		}
		result = w.Needle()
	})
	return result, outerErr
}

func (s *Server) promptSet(raw json.RawMessage) (any, error) {
	var params struct {
		Prompt *string `json:"prompt"`
		Icon   *string `json:"icon"`
		Window any     `json:"window"`
	}
	if err := unmarshalParams(raw, &params); err != nil {
		return nil, err
	}
	var outerErr error
	s.ctrl.Submit(func() {
		w, err := s.ctrl.WindowByID(params.Window)
		if err != nil {
			outerErr = err
			return
		}
		if params.Prompt != nil {
			w.Prompt = *params.Prompt
		}
		if params.Icon != nil {
			w.Icon = *params.Icon
		}
		s.ctrl.MarkDirty()
	})
	return nil, outerErr
}

// bind applies to the active window; spec §4.6's method table has no
// window parameter for bind.
func (s *Server) bind(raw json.RawMessage) (any, error) {
	var params struct {
		Key     string `json:"key"`
		Command string `json:"command"`
	}
	if err := unmarshalParams(raw, &params); err != nil {
		return nil, err
	}
	if params.Key == "" || params.Command == "" {
		return nil, xerr.New(xerr.InvalidArgument, "bind requires both key and command")
	}
	s.ctrl.Submit(func() {
		s.ctrl.Top().Bind(params.Command, params.Key)
	})
	return nil, nil
}

func (s *Server) windowSwitch(raw json.RawMessage) (any, error) {
	var params struct {
		UID       any  `json:"uid"`
		ClosePrev bool `json:"close_prev"`
	}
	if err := unmarshalParams(raw, &params); err != nil {
		return nil, err
	}
	id, err := window.ParseID(params.UID)
	if err != nil {
		return nil, err
	}
	s.ctrl.Submit(func() {
		s.ctrl.SwitchWindow(id, params.ClosePrev)
	})
	return nil, nil
}

func (s *Server) windowPop() (any, error) {
	var result bool
	s.ctrl.Submit(func() {
		result = s.ctrl.PopWindow()
	})
	return result, nil
}

// scorer_set and preview_set apply to the active window; neither is
// listed with a window parameter in spec §4.6's method table.
func (s *Server) scorerSet(raw json.RawMessage) (any, error) {
	var params struct {
		Name string `json:"name"`
	}
	if err := unmarshalParams(raw, &params); err != nil {
		return nil, err
	}
	sc, err := s.ctrl.Registry().Build(params.Name)
	if err != nil {
		return nil, err
	}
	s.ctrl.Submit(func() {
		s.ctrl.Top().SetScorer(sc)
		s.ctrl.MarkDirty()
	})
	return nil, nil
}

func (s *Server) previewSet(raw json.RawMessage) (any, error) {
	var params struct {
		Enabled bool `json:"enabled"`
	}
	if err := unmarshalParams(raw, &params); err != nil {
		return nil, err
	}
	s.ctrl.Submit(func() {
		s.ctrl.Top().PreviewEnabled = params.Enabled
		s.ctrl.MarkDirty()
	})
	return nil, nil
}
