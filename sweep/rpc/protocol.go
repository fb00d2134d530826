// Package rpc implements the controller's RPC surface (spec §4.6): a
// length-framed JSON object stream carrying requests, responses and
// notifications, and the method table a peer can call.
//
// No package in the retrieval pack frames messages this way — the
// teacher's own remote-control protocol rides escape codes back to a
// host terminal, a transport that only makes sense embedded inside the
// terminal itself. A 4-byte big-endian length prefix ahead of a JSON
// payload is the simplest framing that lets either side know exactly
// where one message ends and the next begins over a plain byte stream
// (pipe, unix socket, or an --io-socket fd), the same purpose
// tools/rsync/algorithm.go's encoding/binary use serves for its own
// wire format.
package rpc

import (
	"encoding/binary"
	"encoding/json"
	"io"

	"github.com/aslpavel/sweep-go/sweep/xerr"
)

// maxFrameSize bounds a single message so a corrupt or hostile length
// prefix cannot make readFrame allocate unbounded memory.
const maxFrameSize = 64 << 20

func writeFrame(w io.Writer, payload []byte) error {
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))
	if _, err := w.Write(header[:]); err != nil {
		return xerr.Wrap(xerr.IO, "write frame header", err)
	}
	if _, err := w.Write(payload); err != nil {
		return xerr.Wrap(xerr.IO, "write frame body", err)
	}
	return nil
}

func readFrame(r io.Reader) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, xerr.Wrap(xerr.IO, "read frame header", err)
	}
	n := binary.BigEndian.Uint32(header[:])
	if n > maxFrameSize {
		return nil, xerr.Newf(xerr.ProtocolError, "frame of %d bytes exceeds maximum of %d", n, maxFrameSize)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, xerr.Wrap(xerr.IO, "read frame body", err)
	}
	return payload, nil
}

// inbound is the generic shape of one incoming frame: a request carries
// a non-null id, a notification omits it (spec §4.6).
type inbound struct {
	ID     json.RawMessage `json:"id,omitempty"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

func (m *inbound) isRequest() bool {
	return len(m.ID) > 0 && string(m.ID) != "null"
}

type rpcError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type outboundResult struct {
	ID     json.RawMessage `json:"id"`
	Result any             `json:"result"`
}

type outboundError struct {
	ID    json.RawMessage `json:"id"`
	Error rpcError        `json:"error"`
}

type outboundNotification struct {
	Method string `json:"method"`
	Params any    `json:"params"`
}

func errorToWire(err error) rpcError {
	code, ok := xerr.Of(err)
	if !ok {
		return rpcError{Code: xerr.IO.String(), Message: err.Error()}
	}
	return rpcError{Code: code.String(), Message: err.Error()}
}
