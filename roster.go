package main

import "sync"

// sender is the delivery surface the coordinator emits through. The
// websocket roster implements it in production; tests substitute a
// recorder.
type sender interface {
	unicast(connID string, msg any)
	broadcast(roomCode string, msg any)
	broadcastOthers(roomCode, exceptID string, msg any)
	subscribe(connID, roomCode string)
	unsubscribe(connID, roomCode string)
	dropRoom(roomCode string)
}

// roster tracks live connections and their room subscriptions. Sends
// are non-blocking onto each client's buffered channel; a client that
// can't keep up loses messages rather than stalling a room.
type roster struct {
	mu    sync.RWMutex
	conns map[string]*client
	rooms map[string]map[string]bool // room code -> connection ids
}

func newRoster() *roster {
	return &roster{
		conns: make(map[string]*client),
		rooms: make(map[string]map[string]bool),
	}
}

func (ro *roster) add(c *client) {
	ro.mu.Lock()
	defer ro.mu.Unlock()

	ro.conns[c.id] = c
}

// remove drops a connection from every room and closes its send
// channel, ending its write pump.
func (ro *roster) remove(connID string) {
	ro.mu.Lock()
	defer ro.mu.Unlock()

	if c, ok := ro.conns[connID]; ok {
		delete(ro.conns, connID)
		close(c.send)
	}

	for _, members := range ro.rooms {
		delete(members, connID)
	}
}

func (ro *roster) subscribe(connID, roomCode string) {
	ro.mu.Lock()
	defer ro.mu.Unlock()

	members, ok := ro.rooms[roomCode]
	if !ok {
		members = make(map[string]bool)
		ro.rooms[roomCode] = members
	}
	members[connID] = true
}

func (ro *roster) unsubscribe(connID, roomCode string) {
	ro.mu.Lock()
	defer ro.mu.Unlock()

	delete(ro.rooms[roomCode], connID)
}

func (ro *roster) dropRoom(roomCode string) {
	ro.mu.Lock()
	defer ro.mu.Unlock()

	delete(ro.rooms, roomCode)
}

func (ro *roster) unicast(connID string, msg any) {
	ro.mu.RLock()
	defer ro.mu.RUnlock()

	if c, ok := ro.conns[connID]; ok {
		select {
		case c.send <- msg:
		default:
			// drop message if buffer full
		}
	}
}

func (ro *roster) broadcast(roomCode string, msg any) {
	ro.broadcastOthers(roomCode, "", msg)
}

func (ro *roster) broadcastOthers(roomCode, exceptID string, msg any) {
	ro.mu.RLock()
	defer ro.mu.RUnlock()

	for connID := range ro.rooms[roomCode] {
		if connID == exceptID {
			continue
		}
		c, ok := ro.conns[connID]
		if !ok {
			continue
		}

		select {
		case c.send <- msg:
		default:
			// drop message if buffer full
		}
	}
}
