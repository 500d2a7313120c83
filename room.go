package main

import "sync"

// Phase is the lifecycle stage of a room.
type Phase string

const (
	PhaseLobby   Phase = "LOBBY"
	PhaseInRound Phase = "IN_ROUND"
)

// Player is one room member, keyed by connection id. Names are display
// text only and carry no identity.
type Player struct {
	ConnID string
	Name   string
	Ready  bool
}

// Room holds one game session. Every mutation happens under mu, which
// the coordinator acquires for the full transition, outbound delivery
// included, so a concurrent leave and ready flag never interleave and
// no member observes a phase change ahead of its own role.
type Room struct {
	mu sync.Mutex

	code     string
	hostID   string
	category string
	phase    Phase
	players  []Player
}

func newRoom(code, category string, host Player) *Room {
	return &Room{
		code:     code,
		hostID:   host.ConnID,
		category: category,
		phase:    PhaseLobby,
		players:  []Player{host},
	}
}

func (r *Room) lock()   { r.mu.Lock() }
func (r *Room) unlock() { r.mu.Unlock() }

func (r *Room) isHostLocked(connID string) bool {
	return connID != "" && connID == r.hostID
}

func (r *Room) memberIndexLocked(connID string) int {
	for i, p := range r.players {
		if p.ConnID == connID {
			return i
		}
	}

	return -1
}

// addPlayerLocked appends a new member in join order. Joining twice is
// a no-op; the return value reports whether the player was already in.
func (r *Room) addPlayerLocked(p Player) (already bool) {
	if r.memberIndexLocked(p.ConnID) >= 0 {
		return true
	}

	r.players = append(r.players, p)

	return false
}

// removePlayerLocked drops a member, preserving the join order of the
// rest, and reports whether the member was found and whether the room
// is now empty.
func (r *Room) removePlayerLocked(connID string) (removed, empty bool) {
	i := r.memberIndexLocked(connID)
	if i < 0 {
		return false, len(r.players) == 0
	}

	r.players = append(r.players[:i], r.players[i+1:]...)

	return true, len(r.players) == 0
}

// setReadyLocked flags a member's readiness and reports whether the
// flag actually changed.
func (r *Room) setReadyLocked(connID string, ready bool) bool {
	i := r.memberIndexLocked(connID)
	if i < 0 || r.players[i].Ready == ready {
		return false
	}

	r.players[i].Ready = ready

	return true
}

// allGuestsReadyLocked reports whether every non-host member has
// flagged ready. The host does not ready up; they pull the trigger.
func (r *Room) allGuestsReadyLocked() bool {
	for _, p := range r.players {
		if p.ConnID != r.hostID && !p.Ready {
			return false
		}
	}

	return true
}

// resetReadyLocked clears every ready flag ahead of the next round.
func (r *Room) resetReadyLocked() {
	for i := range r.players {
		r.players[i].Ready = false
	}
}

func (r *Room) connIDsLocked() []string {
	ids := make([]string, 0, len(r.players))
	for _, p := range r.players {
		ids = append(ids, p.ConnID)
	}

	return ids
}

// rosterLocked builds the membership list clients see. Connection ids
// and dealt roles stay server-side.
func (r *Room) rosterLocked() []PlayerInfo {
	infos := make([]PlayerInfo, 0, len(r.players))
	for _, p := range r.players {
		infos = append(infos, PlayerInfo{
			Name:  p.Name,
			Ready: p.Ready,
			Host:  p.ConnID == r.hostID,
		})
	}

	return infos
}
