package ws

import "encoding/json"

// Frame is the envelope for every message crossing the socket.
// Signaling frames carry a peer id in To and are relayed verbatim.
type Frame struct {
	Type string          `json:"type"`
	To   int64           `json:"to,omitempty"`
	From int64           `json:"from,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

const (
	FrameCallInvite = "call_invite"
	FrameCallAccept = "call_accept"
	FrameCallReject = "call_reject"
	FrameCallEnd    = "call_end"
	FramePresence   = "presence"
	FrameError      = "error"
)

func relayable(frameType string) bool {
	switch frameType {
	case FrameCallInvite, FrameCallAccept, FrameCallReject, FrameCallEnd:
		return true
	}
	return false
}

func errorFrame(msg string) []byte {
	b, _ := json.Marshal(Frame{Type: FrameError, Data: json.RawMessage(`"` + msg + `"`)})
	return b
}
