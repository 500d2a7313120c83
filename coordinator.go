package main

import "strings"

// SessionCoordinator applies every inbound client event to the room it
// targets. It resolves the room through the registry, takes the room's
// lock for the whole transition (delivery included), and emits
// outbound messages through the sender.
//
// Authorization failures are silently dropped; only a missing room on
// join, an invalid category, and an early playAgain earn the caller an
// explicit error, mirroring how little the clients are told otherwise.
type SessionCoordinator struct {
	cfg        *Config
	categories *CategoryStore
	registry   *RoomRegistry
	out        sender
}

func newSessionCoordinator(cfg *Config, categories *CategoryStore, out sender) *SessionCoordinator {
	return &SessionCoordinator{
		cfg:        cfg,
		categories: categories,
		registry:   newRoomRegistry(),
		out:        out,
	}
}

// dispatch routes one inbound event. Unknown types are ignored.
func (co *SessionCoordinator) dispatch(connID string, msg ClientMessage) {
	switch msg.Type {
	case "createRoom":
		co.createRoom(connID, msg.Name)
	case "joinRoom":
		co.joinRoom(connID, msg.Name, msg.RoomCode)
	case "selectCategory":
		co.selectCategory(connID, msg.RoomCode, msg.Category)
	case "startGame":
		co.startGame(connID, msg.RoomCode)
	case "playAgain":
		co.playAgain(connID, msg.RoomCode)
	case "playerReady":
		co.setReady(connID, msg.RoomCode, true)
	case "playerUnready":
		co.setReady(connID, msg.RoomCode, false)
	case "disbandRoom":
		co.disbandRoom(connID, msg.RoomCode)
	case "leaveRoom":
		co.leaveRoom(connID, msg.RoomCode)
	default:
		// ignore unknown types
	}
}

func (co *SessionCoordinator) createRoom(connID, name string) {
	if name == "" {
		return
	}

	room, err := co.registry.create(Player{ConnID: connID, Name: name}, co.cfg.defaultCategory)
	if err != nil {
		// Already in a room; one membership at a time.
		return
	}

	room.lock()
	defer room.unlock()

	co.out.subscribe(connID, room.code)
	co.out.unicast(connID, RoomCreatedMessage{
		Type:     "roomCreated",
		RoomCode: room.code,
		Category: room.category,
		Players:  room.rosterLocked(),
	})

	logf(co.cfg, "ROOMS: %q created room %s", name, room.code)
}

func (co *SessionCoordinator) joinRoom(connID, name, code string) {
	if name == "" || code == "" {
		return
	}

	code = strings.ToUpper(code)

	room, ok := co.registry.get(code)
	if !ok {
		co.out.unicast(connID, ErrorMessage{Type: "error", Message: "room " + code + " does not exist"})

		return
	}

	if !co.registry.bind(connID, code) {
		return
	}

	room.lock()
	defer room.unlock()

	already := room.addPlayerLocked(Player{ConnID: connID, Name: name})
	co.out.subscribe(connID, code)

	kind := "joinSuccess"
	if already {
		kind = "alreadyJoined"
	}
	co.out.unicast(connID, JoinResultMessage{
		Type:     kind,
		RoomCode: code,
		Category: room.category,
		Players:  room.rosterLocked(),
	})

	if !already {
		co.out.broadcastOthers(code, connID, PlayersMessage{Type: "updatePlayers", Players: room.rosterLocked()})
		logf(co.cfg, "ROOMS: %q joined room %s", name, code)
	}
}

func (co *SessionCoordinator) selectCategory(connID, code, category string) {
	room, ok := co.registry.get(code)
	if !ok {
		return
	}

	room.lock()
	defer room.unlock()

	if !room.isHostLocked(connID) {
		return
	}
	if !co.categories.has(category) {
		co.out.unicast(connID, ErrorMessage{Type: "error", Message: "unknown category: " + category})

		return
	}

	room.category = category
	co.out.broadcast(code, CategoryMessage{Type: "categoryUpdated", Category: category})
}

func (co *SessionCoordinator) startGame(connID, code string) {
	room, ok := co.registry.get(code)
	if !ok {
		return
	}

	room.lock()
	defer room.unlock()

	if !room.isHostLocked(connID) {
		return
	}

	co.dealRoundLocked(room)

	logf(co.cfg, "ROOMS: Round started in room %s with %d players", code, len(room.players))
}

func (co *SessionCoordinator) playAgain(connID, code string) {
	room, ok := co.registry.get(code)
	if !ok {
		return
	}

	room.lock()
	defer room.unlock()

	if !room.isHostLocked(connID) {
		return
	}
	if !room.allGuestsReadyLocked() {
		co.out.unicast(connID, ErrorMessage{Type: "error", Message: "not all players are ready"})

		return
	}

	co.dealRoundLocked(room)
	room.resetReadyLocked()
	co.out.broadcast(code, PlayersMessage{Type: "updatePlayers", Players: room.rosterLocked()})

	logf(co.cfg, "ROOMS: Round restarted in room %s", code)
}

// dealRoundLocked runs one round of role assignment and delivers each
// role privately. The caller holds the room lock, so the phase change
// and the unicasts land atomically with respect to other transitions.
func (co *SessionCoordinator) dealRoundLocked(room *Room) {
	roles := assignRoles(room.connIDsLocked(), co.categories.list(room.category))

	for connID, role := range roles {
		co.out.unicast(connID, GameStartedMessage{
			Type:     "gameStarted",
			Role:     role,
			Category: room.category,
		})
	}

	room.phase = PhaseInRound
}

func (co *SessionCoordinator) setReady(connID, code string, ready bool) {
	room, ok := co.registry.get(code)
	if !ok {
		return
	}

	room.lock()
	defer room.unlock()

	if !room.setReadyLocked(connID, ready) {
		return
	}

	co.out.broadcast(code, PlayersMessage{Type: "updatePlayers", Players: room.rosterLocked()})
}

func (co *SessionCoordinator) disbandRoom(connID, code string) {
	room, ok := co.registry.get(code)
	if !ok {
		return
	}

	room.lock()
	if !room.isHostLocked(connID) {
		room.unlock()

		return
	}

	co.out.broadcastOthers(code, connID, DisbandedMessage{Type: "roomDisbanded", Message: "The host has disbanded the room."})
	room.players = nil
	room.unlock()

	co.teardownRoom(code)

	logf(co.cfg, "ROOMS: Room %s disbanded, %d rooms live", code, co.registry.count())
}

func (co *SessionCoordinator) leaveRoom(connID, code string) {
	room, ok := co.registry.get(code)
	if !ok {
		return
	}

	co.removeFromRoom(connID, room)
}

// disconnect handles a socket close: an implicit leave of whatever
// room the connection belonged to.
func (co *SessionCoordinator) disconnect(connID string) {
	room, ok := co.registry.roomOf(connID)
	if !ok {
		return
	}

	co.removeFromRoom(connID, room)
}

// removeFromRoom applies a leave or disconnect. Host departure
// disbands the room; otherwise the member is dropped and the room
// lives on until its last player is gone.
func (co *SessionCoordinator) removeFromRoom(connID string, room *Room) {
	room.lock()

	if room.isHostLocked(connID) {
		co.out.broadcastOthers(room.code, connID, DisbandedMessage{Type: "roomDisbanded", Message: "The host has left the room."})
		room.players = nil
		room.unlock()

		co.teardownRoom(room.code)

		logf(co.cfg, "ROOMS: Host left, room %s disbanded", room.code)

		return
	}

	removed, empty := room.removePlayerLocked(connID)
	if !removed {
		room.unlock()

		return
	}

	if empty {
		room.unlock()

		co.teardownRoom(room.code)

		logf(co.cfg, "ROOMS: Room %s empty, removed", room.code)

		return
	}

	co.out.unsubscribe(connID, room.code)
	co.out.broadcast(room.code, PlayersMessage{Type: "updatePlayers", Players: room.rosterLocked()})
	room.unlock()

	co.registry.unbind(connID)
}

// teardownRoom removes a room from the registry and the delivery
// roster once its last transition has been emitted.
func (co *SessionCoordinator) teardownRoom(code string) {
	co.registry.remove(code)
	co.out.dropRoom(code)
}
