package runtime

import (
	"chat-courier/contract"
	"sync"

	"github.com/samber/lo"
)

// Presence maps users to the live connections they currently hold.
// A user may own several connections (tabs, devices); deliveries fan out to all of them.
// It holds no message data and is cleared on restart.
type Presence struct {
	mu          sync.RWMutex
	connections map[string]map[string]contract.Connection // user -> connection id -> connection
	owners      map[string]string                         // connection id -> user
}

func NewPresence() *Presence {
	return &Presence{
		connections: make(map[string]map[string]contract.Connection),
		owners:      make(map[string]string),
	}
}

// Register associates a connection with a user.
// Registering the same connection again under another user moves it.
func (p *Presence) Register(userID string, conn contract.Connection) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if previous, ok := p.owners[conn.ID()]; ok && previous != userID {
		p.remove(previous, conn.ID())
	}
	if _, ok := p.connections[userID]; !ok {
		p.connections[userID] = make(map[string]contract.Connection)
	}
	p.connections[userID][conn.ID()] = conn
	p.owners[conn.ID()] = userID
}

// Unregister removes a connection whichever user owned it.
// Late or duplicate disconnect signals are ignored.
func (p *Presence) Unregister(conn contract.Connection) {
	p.mu.Lock()
	defer p.mu.Unlock()

	userID, ok := p.owners[conn.ID()]
	if !ok {
		return
	}
	p.remove(userID, conn.ID())
}

// remove must be called with the write lock held.
// Users without connections are dropped so the map does not grow forever.
func (p *Presence) remove(userID, connID string) {
	delete(p.owners, connID)
	if conns, ok := p.connections[userID]; ok {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(p.connections, userID)
		}
	}
}

// Lookup returns a snapshot of the user's connections, empty for unknown users.
func (p *Presence) Lookup(userID string) []contract.Connection {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return lo.Values(p.connections[userID])
}

func (p *Presence) IsOnline(userID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	_, ok := p.connections[userID]
	return ok
}

func (p *Presence) OnlineUsers() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return lo.Keys(p.connections)
}
