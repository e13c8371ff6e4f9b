package ws

import (
	"context"
	"encoding/json"
	"sync"

	"livesocial_backend/internal/logger"
	"livesocial_backend/internal/repository"
)

// Hub tracks which users hold an open socket and relays call signaling
// frames between peers. Presence is mirrored into the users table so HTTP
// handlers can check availability without touching the hub.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]*Client
	busy    map[int64]bool

	userRepo *repository.UserRepository
}

func NewHub(userRepo *repository.UserRepository) *Hub {
	return &Hub{
		clients:  make(map[int64]*Client),
		busy:     make(map[int64]bool),
		userRepo: userRepo,
	}
}

// Register attaches a client; a second connection for the same user
// replaces the first.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if old, ok := h.clients[c.UserID]; ok && old != c {
		old.Close()
	}
	h.clients[c.UserID] = c
	h.mu.Unlock()

	h.setOnlineFlag(c.UserID, true)
	logger.Debug("ws client registered", "user_id", c.UserID)
}

// Unregister detaches a client and clears its presence.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	current, ok := h.clients[c.UserID]
	if ok && current == c {
		delete(h.clients, c.UserID)
		delete(h.busy, c.UserID)
	}
	h.mu.Unlock()

	if ok && current == c {
		h.setOnlineFlag(c.UserID, false)
		logger.Debug("ws client unregistered", "user_id", c.UserID)
	}
}

// IsOnline reports whether the user holds an open socket.
func (h *Hub) IsOnline(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// IsAvailable reports online and not in a call.
func (h *Hub) IsAvailable(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, online := h.clients[userID]
	return online && !h.busy[userID]
}

// SetBusy flags a user as in-call (or clears it when the call ends).
func (h *Hub) SetBusy(userID int64, busy bool) {
	h.mu.Lock()
	if busy {
		h.busy[userID] = true
	} else {
		delete(h.busy, userID)
	}
	h.mu.Unlock()

	if h.userRepo != nil {
		if err := h.userRepo.SetBusy(context.Background(), userID, busy); err != nil {
			logger.Warn("failed to persist busy flag", "user_id", userID, "error", err)
		}
	}
}

// SendTo delivers a frame to a connected user. Returns false when the
// user is offline or their send buffer is full.
func (h *Hub) SendTo(userID int64, frame Frame) bool {
	b, err := json.Marshal(frame)
	if err != nil {
		return false
	}

	h.mu.RLock()
	c, ok := h.clients[userID]
	h.mu.RUnlock()
	if !ok {
		return false
	}

	select {
	case c.Send <- b:
		return true
	default:
		return false
	}
}

// Relay forwards a signaling frame from one peer to another, stamping the
// sender. Call invite/end also flip the busy flags of both sides.
func (h *Hub) Relay(from int64, frame Frame) {
	if !relayable(frame.Type) || frame.To == 0 {
		return
	}

	frame.From = from
	delivered := h.SendTo(frame.To, frame)

	switch frame.Type {
	case FrameCallAccept:
		h.SetBusy(from, true)
		h.SetBusy(frame.To, true)
	case FrameCallReject, FrameCallEnd:
		h.SetBusy(from, false)
		h.SetBusy(frame.To, false)
	}

	if !delivered {
		h.SendTo(from, Frame{Type: FrameError, Data: json.RawMessage(`"peer offline"`)})
	}
}

func (h *Hub) setOnlineFlag(userID int64, online bool) {
	if h.userRepo == nil {
		return
	}
	if err := h.userRepo.SetOnline(context.Background(), userID, online); err != nil {
		logger.Warn("failed to persist online flag", "user_id", userID, "error", err)
	}
}
