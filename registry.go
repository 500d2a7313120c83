package main

import (
	"crypto/rand"
	"errors"
	"sync"
)

const roomCodeLength = 6

var errAlreadyInRoom = errors.New("connection already belongs to a room")

// RoomRegistry owns every live room and tracks which room each
// connection belongs to, so events that carry no room code (and the
// double-membership check on room creation) never scan rooms ad hoc.
//
// The registry's own lock covers the code map and the membership
// index only; individual rooms carry their own lock, and nothing ever
// calls back into the registry while holding one.
type RoomRegistry struct {
	mu      sync.Mutex
	rooms   map[string]*Room
	members map[string]string // connection id -> room code
}

func newRoomRegistry() *RoomRegistry {
	return &RoomRegistry{
		rooms:   make(map[string]*Room),
		members: make(map[string]string),
	}
}

// newRoomCodeLocked generates a crypto-random 6-letter room code,
// retrying until it doesn't collide with a live room. Caller holds mu.
func (rr *RoomRegistry) newRoomCodeLocked() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	for {
		buf := make([]byte, roomCodeLength)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}

		out := make([]byte, roomCodeLength)
		for i := range out {
			out[i] = letters[int(buf[i])%len(letters)]
		}
		code := string(out)

		if _, exists := rr.rooms[code]; !exists {
			return code
		}
	}
}

// create makes a room with its creator as host. It fails if the
// connection already belongs to any room.
func (rr *RoomRegistry) create(host Player, category string) (*Room, error) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	if _, taken := rr.members[host.ConnID]; taken {
		return nil, errAlreadyInRoom
	}

	code := rr.newRoomCodeLocked()
	room := newRoom(code, category, host)
	rr.rooms[code] = room
	rr.members[host.ConnID] = code

	return room, nil
}

func (rr *RoomRegistry) get(code string) (*Room, bool) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	room, ok := rr.rooms[code]

	return room, ok
}

// bind records a connection's membership in a room. It reports false
// when the room is no longer live or the connection is already bound
// to a different room; rebinding to the same room is fine.
func (rr *RoomRegistry) bind(connID, code string) bool {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	if _, live := rr.rooms[code]; !live {
		return false
	}
	if existing, bound := rr.members[connID]; bound && existing != code {
		return false
	}

	rr.members[connID] = code

	return true
}

// unbind forgets a connection's membership.
func (rr *RoomRegistry) unbind(connID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	delete(rr.members, connID)
}

// remove deletes a room and every membership record pointing at it.
// No-op if the code is unknown.
func (rr *RoomRegistry) remove(code string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	if _, ok := rr.rooms[code]; !ok {
		return
	}

	delete(rr.rooms, code)

	for id, c := range rr.members {
		if c == code {
			delete(rr.members, id)
		}
	}
}

// isMember reports whether a connection belongs to any live room.
func (rr *RoomRegistry) isMember(connID string) bool {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	_, ok := rr.members[connID]

	return ok
}

// roomOf resolves the room a connection belongs to, for events that
// arrive without a room code (disconnects).
func (rr *RoomRegistry) roomOf(connID string) (*Room, bool) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	code, ok := rr.members[connID]
	if !ok {
		return nil, false
	}
	room, ok := rr.rooms[code]

	return room, ok
}

func (rr *RoomRegistry) count() int {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	return len(rr.rooms)
}
