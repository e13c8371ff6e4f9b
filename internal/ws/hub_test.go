package ws

import (
	"encoding/json"
	"testing"
)

func newTestClient(userID int64) *Client {
	return &Client{
		UserID: userID,
		Send:   make(chan []byte, 8),
		done:   make(chan struct{}),
	}
}

func TestHub_PresenceLifecycle(t *testing.T) {
	h := NewHub(nil)
	c := newTestClient(7)
	c.Hub = h

	if h.IsOnline(7) {
		t.Fatalf("user should be offline before register")
	}

	h.Register(c)
	if !h.IsOnline(7) || !h.IsAvailable(7) {
		t.Fatalf("user should be online and available after register")
	}

	h.SetBusy(7, true)
	if h.IsAvailable(7) {
		t.Fatalf("busy user must not be available")
	}
	if !h.IsOnline(7) {
		t.Fatalf("busy user is still online")
	}

	h.Unregister(c)
	if h.IsOnline(7) || h.IsAvailable(7) {
		t.Fatalf("user should be offline after unregister")
	}
}

func TestHub_RelayStampsSenderAndDelivers(t *testing.T) {
	h := NewHub(nil)
	caller := newTestClient(1)
	receiver := newTestClient(2)
	caller.Hub, receiver.Hub = h, h
	h.Register(caller)
	h.Register(receiver)

	h.Relay(1, Frame{Type: FrameCallInvite, To: 2, Data: json.RawMessage(`{"call_type":"video"}`)})

	select {
	case raw := <-receiver.Send:
		var got Frame
		if err := json.Unmarshal(raw, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.Type != FrameCallInvite || got.From != 1 {
			t.Fatalf("got frame %+v; want call_invite from 1", got)
		}
	default:
		t.Fatalf("expected frame delivered to receiver")
	}
}

func TestHub_AcceptAndEndToggleBusy(t *testing.T) {
	h := NewHub(nil)
	a := newTestClient(1)
	b := newTestClient(2)
	a.Hub, b.Hub = h, h
	h.Register(a)
	h.Register(b)

	h.Relay(2, Frame{Type: FrameCallAccept, To: 1})
	if h.IsAvailable(1) || h.IsAvailable(2) {
		t.Fatalf("both peers must be busy while a call is up")
	}

	h.Relay(1, Frame{Type: FrameCallEnd, To: 2})
	if !h.IsAvailable(1) || !h.IsAvailable(2) {
		t.Fatalf("both peers must be available after call end")
	}
}

func TestHub_RelayToOfflinePeerReportsError(t *testing.T) {
	h := NewHub(nil)
	caller := newTestClient(1)
	caller.Hub = h
	h.Register(caller)

	h.Relay(1, Frame{Type: FrameCallInvite, To: 99})

	select {
	case raw := <-caller.Send:
		var got Frame
		if err := json.Unmarshal(raw, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.Type != FrameError {
			t.Fatalf("got %+v; want error frame", got)
		}
	default:
		t.Fatalf("expected error frame for offline peer")
	}
}

func TestHub_NonSignalingFramesAreDropped(t *testing.T) {
	h := NewHub(nil)
	a := newTestClient(1)
	b := newTestClient(2)
	a.Hub, b.Hub = h, h
	h.Register(a)
	h.Register(b)

	h.Relay(1, Frame{Type: "chat_message", To: 2})

	select {
	case <-b.Send:
		t.Fatalf("non-signaling frame must not be relayed")
	default:
	}
}
