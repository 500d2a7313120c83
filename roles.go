package main

import (
	"crypto/rand"
	"math/big"
)

// RoleImpostor is the sentinel dealt to hidden impostors in place of
// the round's topic item.
const RoleImpostor = "IMPOSTOR"

// impostorCount returns how many impostors a round gets: one for small
// groups, two once six or more players are in the room.
func impostorCount(players int) int {
	if players >= 6 {
		return 2
	}

	return 1
}

// randomInt returns a uniform integer in [0, n) using crypto/rand.
func randomInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("crypto/rand failure: " + err.Error())
	}

	return int(v.Int64())
}

// shuffled returns a uniform random permutation of ids, leaving the
// input untouched.
func shuffled(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)

	// Fisher-Yates
	for i := len(out) - 1; i > 0; i-- {
		j := randomInt(i + 1)
		out[i], out[j] = out[j], out[i]
	}

	return out
}

// assignRoles deals one round. The first impostorCount entries of a
// shuffled order become impostors; everyone else receives the same
// topic item, drawn once for the whole round. Keys are connection ids.
//
// When the room is small enough that every player would be an
// impostor, that is exactly what happens and no topic is given out.
func assignRoles(connIDs []string, topics []string) map[string]string {
	order := shuffled(connIDs)
	impostors := impostorCount(len(order))
	topic := topics[randomInt(len(topics))]

	roles := make(map[string]string, len(order))
	for i, id := range order {
		if i < impostors {
			roles[id] = RoleImpostor
		} else {
			roles[id] = topic
		}
	}

	return roles
}
