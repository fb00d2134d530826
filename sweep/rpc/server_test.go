package rpc

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/aslpavel/sweep-go/sweep/controller"
)

// startPump simulates termloop.Loop's run() select loop draining
// Controller.Submit closures, without opening a real controlling
// terminal: it repeatedly calls Pump until stop is closed.
func startPump(c *controller.Controller) (stop func()) {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.Pump()
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }
}

func newTestServer(t *testing.T) (*Server, net.Conn, func()) {
	t.Helper()
	ctrl := controller.New(controller.Config{Prompt: "test"})
	stopPump := startPump(ctrl)

	serverConn, clientConn := net.Pipe()
	srv := New(ctrl, serverConn, serverConn)
	serveDone := make(chan error, 1)
	go func() { serveDone <- srv.Serve() }()

	cleanup := func() {
		clientConn.Close()
		<-serveDone
		stopPump()
	}
	return srv, clientConn, cleanup
}

func sendRequest(t *testing.T, conn net.Conn, id int, method string, params any) {
	t.Helper()
	raw, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	payload, err := json.Marshal(inbound{ID: json.RawMessage(mustJSON(t, id)), Method: method, Params: raw})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	if err := writeFrame(conn, payload); err != nil {
		t.Fatalf("write frame: %v", err)
	}
}

func sendNotification(t *testing.T, conn net.Conn, method string, params any) {
	t.Helper()
	raw, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	payload, err := json.Marshal(inbound{Method: method, Params: raw})
	if err != nil {
		t.Fatalf("marshal notification: %v", err)
	}
	if err := writeFrame(conn, payload); err != nil {
		t.Fatalf("write frame: %v", err)
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func readGenericResponse(t *testing.T, conn net.Conn) map[string]any {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	payload, err := readFrame(conn)
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(payload, &out); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return out
}

func TestItemsExtendThenQueryGetAndItemsCurrent(t *testing.T) {
	_, conn, cleanup := newTestServer(t)
	defer cleanup()

	sendRequest(t, conn, 1, "items_extend", map[string]any{
		"items": []map[string]any{
			{"entries": []string{"apple"}, "extra": "apple"},
			{"entries": []string{"banana"}, "extra": "banana"},
		},
	})
	resp := readGenericResponse(t, conn)
	if resp["error"] != nil {
		t.Fatalf("items_extend returned error: %v", resp["error"])
	}

	sendRequest(t, conn, 2, "query_set", map[string]any{"query": "app"})
	resp = readGenericResponse(t, conn)
	if resp["error"] != nil {
		t.Fatalf("query_set returned error: %v", resp["error"])
	}

	sendRequest(t, conn, 3, "query_get", map[string]any{})
	resp = readGenericResponse(t, conn)
	if resp["result"] != "app" {
		t.Fatalf("query_get result = %v, want %q", resp["result"], "app")
	}

	var result map[string]any
	deadline := time.Now().Add(2 * time.Second)
	id := 4
	for time.Now().Before(deadline) {
		sendRequest(t, conn, id, "items_current", map[string]any{})
		resp = readGenericResponse(t, conn)
		id++
		if m, ok := resp["result"].(map[string]any); ok {
			result = m
			break
		}
		time.Sleep(time.Millisecond)
	}
	if result == nil {
		t.Fatal("items_current never returned a candidate (ranker did not settle)")
	}
	if result["extra"] != "apple" {
		t.Fatalf("items_current extra = %v, want %q", result["extra"], "apple")
	}
}

func TestUnknownMethodReturnsInvalidArgumentError(t *testing.T) {
	_, conn, cleanup := newTestServer(t)
	defer cleanup()

	sendRequest(t, conn, 1, "no_such_method", map[string]any{})
	resp := readGenericResponse(t, conn)
	errObj, ok := resp["error"].(map[string]any)
	if !ok {
		t.Fatalf("response = %#v, want an error object", resp)
	}
	if errObj["code"] != "invalid_argument" {
		t.Fatalf("error code = %v, want invalid_argument", errObj["code"])
	}
}

func TestNotificationGetsNoReply(t *testing.T) {
	_, conn, cleanup := newTestServer(t)
	defer cleanup()

	sendNotification(t, conn, "query_set", map[string]any{"query": "x"})
	// Follow with a request; if the notification had (wrongly) produced a
	// reply, this read would return that stale frame instead.
	sendRequest(t, conn, 1, "query_get", map[string]any{})
	resp := readGenericResponse(t, conn)
	if resp["result"] != "x" {
		t.Fatalf("query_get result = %v, want %q (notification reply would desync the stream)", resp["result"], "x")
	}
}

func TestWindowSwitchAndPop(t *testing.T) {
	_, conn, cleanup := newTestServer(t)
	defer cleanup()

	sendRequest(t, conn, 1, "window_switch", map[string]any{"uid": 7})
	resp := readGenericResponse(t, conn)
	if resp["error"] != nil {
		t.Fatalf("window_switch returned error: %v", resp["error"])
	}

	sendRequest(t, conn, 2, "window_pop", map[string]any{})
	resp = readGenericResponse(t, conn)
	if resp["result"] != true {
		t.Fatalf("window_pop result = %v, want true (switch pushed a second window)", resp["result"])
	}

	sendRequest(t, conn, 3, "window_pop", map[string]any{})
	resp = readGenericResponse(t, conn)
	if resp["result"] != false {
		t.Fatalf("window_pop result = %v, want false (only one window left)", resp["result"])
	}
}

