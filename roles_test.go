package main

import (
	"sort"
	"testing"
)

func TestImpostorCount(t *testing.T) {
	cases := []struct {
		players int
		want    int
	}{
		{1, 1},
		{2, 1},
		{3, 1},
		{4, 1},
		{5, 1},
		{6, 2},
		{7, 2},
		{8, 2},
		{12, 2},
	}

	for _, tc := range cases {
		if got := impostorCount(tc.players); got != tc.want {
			t.Errorf("impostorCount(%d) = %d, want %d", tc.players, got, tc.want)
		}
	}
}

func TestImpostorCountMonotonic(t *testing.T) {
	prev := 0
	for n := 1; n <= 20; n++ {
		got := impostorCount(n)
		if got < prev {
			t.Fatalf("impostorCount(%d) = %d, less than impostorCount(%d) = %d", n, got, n-1, prev)
		}
		prev = got
	}
}

func TestShuffledIsPermutation(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e", "f", "g"}

	got := shuffled(ids)

	if len(got) != len(ids) {
		t.Fatalf("shuffled returned %d entries, want %d", len(got), len(ids))
	}

	want := append([]string(nil), ids...)
	check := append([]string(nil), got...)
	sort.Strings(want)
	sort.Strings(check)

	for i := range want {
		if check[i] != want[i] {
			t.Fatalf("shuffled result %v is not a permutation of %v", got, ids)
		}
	}

	// Input must not be disturbed.
	for i, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		if ids[i] != id {
			t.Fatalf("shuffled mutated its input: %v", ids)
		}
	}
}

func TestAssignRoles(t *testing.T) {
	topics := []string{"Owl", "Otter", "Sloth"}

	cases := []struct {
		name          string
		players       int
		wantImpostors int
	}{
		{"three players", 3, 1},
		{"five players", 5, 1},
		{"six players", 6, 2},
		{"nine players", 9, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ids := make([]string, tc.players)
			for i := range ids {
				ids[i] = string(rune('a' + i))
			}

			roles := assignRoles(ids, topics)

			if len(roles) != tc.players {
				t.Fatalf("got %d roles, want %d", len(roles), tc.players)
			}

			impostors := 0
			topic := ""
			for _, id := range ids {
				role, ok := roles[id]
				if !ok {
					t.Fatalf("player %s received no role", id)
				}
				if role == RoleImpostor {
					impostors++

					continue
				}
				if topic == "" {
					topic = role
				}
				if role != topic {
					t.Errorf("player %s got topic %q, others got %q", id, role, topic)
				}
			}

			if impostors != tc.wantImpostors {
				t.Errorf("got %d impostors, want %d", impostors, tc.wantImpostors)
			}

			found := false
			for _, item := range topics {
				if item == topic {
					found = true
				}
			}
			if !found {
				t.Errorf("topic %q not drawn from %v", topic, topics)
			}
		})
	}
}

func TestAssignRolesSoloRoomIsAllImpostors(t *testing.T) {
	roles := assignRoles([]string{"only"}, []string{"Owl"})

	if roles["only"] != RoleImpostor {
		t.Fatalf("sole player got role %q, want %q", roles["only"], RoleImpostor)
	}
}
