package main

import (
	"fmt"
	"regexp"
	"testing"
)

var roomCodePattern = regexp.MustCompile(`^[A-Z]{6}$`)

func TestCreateRoomCodes(t *testing.T) {
	rr := newRoomRegistry()

	seen := make(map[string]bool)

	for i := 0; i < 200; i++ {
		room, err := rr.create(Player{ConnID: fmt.Sprintf("conn-%d", i), Name: "p"}, "animals")
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		if !roomCodePattern.MatchString(room.code) {
			t.Fatalf("room code %q does not match ^[A-Z]{6}$", room.code)
		}
		if seen[room.code] {
			t.Fatalf("room code %q issued twice", room.code)
		}
		seen[room.code] = true
	}

	if rr.count() != 200 {
		t.Fatalf("registry holds %d rooms, want 200", rr.count())
	}
}

func TestCreateRejectsDoubleMembership(t *testing.T) {
	rr := newRoomRegistry()

	if _, err := rr.create(Player{ConnID: "c1", Name: "ana"}, "animals"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := rr.create(Player{ConnID: "c1", Name: "ana"}, "animals"); err == nil {
		t.Fatal("second create for the same connection succeeded")
	}
}

func TestGetAndRemove(t *testing.T) {
	rr := newRoomRegistry()

	room, err := rr.create(Player{ConnID: "c1", Name: "ana"}, "animals")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if got, ok := rr.get(room.code); !ok || got != room {
		t.Fatalf("get(%q) = %v, %v", room.code, got, ok)
	}
	if !rr.isMember("c1") {
		t.Fatal("creator not recorded as member")
	}

	rr.remove(room.code)

	if _, ok := rr.get(room.code); ok {
		t.Fatalf("room %q still present after remove", room.code)
	}
	if rr.isMember("c1") {
		t.Fatal("membership survived room removal")
	}

	// Removing twice is a no-op.
	rr.remove(room.code)
}

func TestBind(t *testing.T) {
	rr := newRoomRegistry()

	room, _ := rr.create(Player{ConnID: "host", Name: "ana"}, "animals")
	other, _ := rr.create(Player{ConnID: "host2", Name: "bo"}, "animals")

	if !rr.bind("c2", room.code) {
		t.Fatal("bind to live room failed")
	}
	if !rr.bind("c2", room.code) {
		t.Fatal("rebinding to the same room failed")
	}
	if rr.bind("c2", other.code) {
		t.Fatal("bound a connection to a second room")
	}
	if rr.bind("c3", "ZZZZZZ") {
		t.Fatal("bound a connection to a dead room")
	}

	if got, ok := rr.roomOf("c2"); !ok || got != room {
		t.Fatalf("roomOf(c2) = %v, %v", got, ok)
	}

	rr.unbind("c2")

	if rr.isMember("c2") {
		t.Fatal("membership survived unbind")
	}
}
