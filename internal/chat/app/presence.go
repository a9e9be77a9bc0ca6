package app

import (
	"sync"
)

// Conn one live client connection. Implementations must serialize their own
// writes; the hub and registry call WriteJSON from multiple goroutines.
type Conn interface {
	WriteJSON(v interface{}) error
}

// PresenceRegistry tracks the single active connection per user.
// Registering a second connection for the same user replaces the first.
type PresenceRegistry struct {
	mu    sync.RWMutex
	conns map[string]Conn
}

// NewPresenceRegistry create empty presence registry
func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{conns: make(map[string]Conn)}
}

// Register bind userID to conn, last registration wins
func (p *PresenceRegistry) Register(userID string, conn Conn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.conns[userID] = conn
}

// UnregisterConn drop every binding that still points at conn. A binding
// already replaced by a newer connection is left alone.
func (p *PresenceRegistry) UnregisterConn(conn Conn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for userID, c := range p.conns {
		if c == conn {
			delete(p.conns, userID)
		}
	}
}

// Lookup active connection for userID
func (p *PresenceRegistry) Lookup(userID string) (Conn, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	conn, ok := p.conns[userID]
	return conn, ok
}

// Online report whether userID has an active connection
func (p *PresenceRegistry) Online(userID string) bool {
	_, ok := p.Lookup(userID)
	return ok
}
