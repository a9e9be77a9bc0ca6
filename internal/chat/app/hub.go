package app

import (
	"sync"

	"go.uber.org/zap"

	"chat_backend_service/internal/chat/domain"
	"chat_backend_service/pkg/logger"
)

// RoomHub in-process broadcast fabric. Subscriptions are per connection and
// vanish with it; they are not chat membership.
type RoomHub struct {
	mu    sync.RWMutex
	rooms map[string]map[Conn]bool
	conns map[Conn]map[string]bool
}

// NewRoomHub create empty room hub
func NewRoomHub() *RoomHub {
	return &RoomHub{
		rooms: make(map[string]map[Conn]bool),
		conns: make(map[Conn]map[string]bool),
	}
}

// Join subscribe conn to chatID, idempotent
func (h *RoomHub) Join(chatID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[chatID] == nil {
		h.rooms[chatID] = make(map[Conn]bool)
	}
	h.rooms[chatID][conn] = true
	if h.conns[conn] == nil {
		h.conns[conn] = make(map[string]bool)
	}
	h.conns[conn][chatID] = true
}

// Leave unsubscribe conn from chatID, no-op when not subscribed
func (h *RoomHub) Leave(chatID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(chatID, conn)
}

// DropConn remove conn from every room it joined
func (h *RoomHub) DropConn(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for chatID := range h.conns[conn] {
		h.drop(chatID, conn)
	}
}

func (h *RoomHub) drop(chatID string, conn Conn) {
	if room, ok := h.rooms[chatID]; ok {
		delete(room, conn)
		if len(room) == 0 {
			delete(h.rooms, chatID)
		}
	}
	if joined, ok := h.conns[conn]; ok {
		delete(joined, chatID)
		if len(joined) == 0 {
			delete(h.conns, conn)
		}
	}
}

// InRoom report whether conn is subscribed to chatID
func (h *RoomHub) InRoom(chatID string, conn Conn) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[chatID][conn]
}

// RoomSize current subscriber count of chatID
func (h *RoomHub) RoomSize(chatID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[chatID])
}

// Broadcast send event to every subscriber of chatID. Writes are best effort,
// a failed connection does not stop the fan-out.
func (h *RoomHub) Broadcast(chatID string, event domain.WSEvent) {
	h.broadcast(chatID, nil, event)
}

// BroadcastExcept same as Broadcast but skip one connection
func (h *RoomHub) BroadcastExcept(chatID string, except Conn, event domain.WSEvent) {
	h.broadcast(chatID, except, event)
}

func (h *RoomHub) broadcast(chatID string, except Conn, event domain.WSEvent) {
	h.mu.RLock()
	targets := make([]Conn, 0, len(h.rooms[chatID]))
	for conn := range h.rooms[chatID] {
		if conn != except {
			targets = append(targets, conn)
		}
	}
	h.mu.RUnlock()

	for _, conn := range targets {
		if err := conn.WriteJSON(event); err != nil {
			logger.Log.Warn("broadcast write failed",
				zap.String("chat_id", chatID), zap.String("event", string(event.Event)), zap.Error(err))
		}
	}
}
