package main

import "testing"

func testRoom() *Room {
	return newRoom("ABCDEF", "animals", Player{ConnID: "host", Name: "ana"})
}

func TestNewRoomHost(t *testing.T) {
	r := testRoom()

	if r.phase != PhaseLobby {
		t.Errorf("new room phase = %q, want %q", r.phase, PhaseLobby)
	}
	if len(r.players) != 1 || r.players[0].ConnID != "host" {
		t.Fatalf("new room players = %v, want the creator alone", r.players)
	}
	if !r.isHostLocked("host") {
		t.Error("creator is not host")
	}
	if r.isHostLocked("other") || r.isHostLocked("") {
		t.Error("non-creator counted as host")
	}
}

func TestAddPlayerIdempotent(t *testing.T) {
	r := testRoom()

	if already := r.addPlayerLocked(Player{ConnID: "c2", Name: "bo"}); already {
		t.Fatal("first join reported as repeat")
	}
	if already := r.addPlayerLocked(Player{ConnID: "c2", Name: "bo"}); !already {
		t.Fatal("second join not reported as repeat")
	}

	if len(r.players) != 2 {
		t.Fatalf("room has %d players after duplicate join, want 2", len(r.players))
	}
}

func TestRemovePlayerPreservesOrder(t *testing.T) {
	r := testRoom()
	r.addPlayerLocked(Player{ConnID: "c2", Name: "bo"})
	r.addPlayerLocked(Player{ConnID: "c3", Name: "cy"})
	r.addPlayerLocked(Player{ConnID: "c4", Name: "di"})

	removed, empty := r.removePlayerLocked("c3")
	if !removed || empty {
		t.Fatalf("removePlayerLocked(c3) = %v, %v", removed, empty)
	}

	want := []string{"host", "c2", "c4"}
	got := r.connIDsLocked()
	if len(got) != len(want) {
		t.Fatalf("players after removal: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("players after removal = %v, want %v", got, want)
		}
	}

	removed, _ = r.removePlayerLocked("missing")
	if removed {
		t.Fatal("removed a player that was never a member")
	}
}

func TestRemoveLastPlayerEmptiesRoom(t *testing.T) {
	r := testRoom()

	if _, empty := r.removePlayerLocked("host"); !empty {
		t.Fatal("room not reported empty after last player left")
	}
}

func TestSetReady(t *testing.T) {
	r := testRoom()
	r.addPlayerLocked(Player{ConnID: "c2", Name: "bo"})

	if !r.setReadyLocked("c2", true) {
		t.Fatal("ready flag change not reported")
	}
	if r.setReadyLocked("c2", true) {
		t.Fatal("redundant ready reported as change")
	}
	if !r.setReadyLocked("c2", false) {
		t.Fatal("unready change not reported")
	}
	if r.setReadyLocked("ghost", true) {
		t.Fatal("ready accepted for a non-member")
	}
}

func TestAllGuestsReady(t *testing.T) {
	r := testRoom()
	r.addPlayerLocked(Player{ConnID: "c2", Name: "bo"})
	r.addPlayerLocked(Player{ConnID: "c3", Name: "cy"})

	if r.allGuestsReadyLocked() {
		t.Fatal("guests ready before anyone flagged")
	}

	r.setReadyLocked("c2", true)
	if r.allGuestsReadyLocked() {
		t.Fatal("guests ready with one flag missing")
	}

	r.setReadyLocked("c3", true)
	if !r.allGuestsReadyLocked() {
		t.Fatal("guests not ready with every flag set")
	}

	// The host never needs to flag ready.
	if r.players[0].Ready {
		t.Fatal("host ready flag set unexpectedly")
	}

	r.resetReadyLocked()
	for _, p := range r.players {
		if p.Ready {
			t.Fatalf("player %s still ready after reset", p.ConnID)
		}
	}
}

func TestRosterMarksHost(t *testing.T) {
	r := testRoom()
	r.addPlayerLocked(Player{ConnID: "c2", Name: "bo"})

	roster := r.rosterLocked()

	if len(roster) != 2 {
		t.Fatalf("roster has %d entries, want 2", len(roster))
	}
	if !roster[0].Host || roster[0].Name != "ana" {
		t.Errorf("roster[0] = %+v, want the host first", roster[0])
	}
	if roster[1].Host {
		t.Errorf("roster[1] = %+v marked as host", roster[1])
	}
}
