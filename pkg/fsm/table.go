package fsm

import (
	"slices"
)

// Table maps each state to the ordered set of states directly reachable from
// it. A state mapped to an empty set, or absent from the table's keys, has no
// outgoing transitions and is terminal. Tables are built once as literals and
// must never be mutated afterwards; a single table is safely shared by any
// number of machines across goroutines.
type Table[S ~string] map[S][]S

// CanTransition reports whether to is directly reachable from from.
func (t Table[S]) CanTransition(from, to S) bool {
	return slices.Contains(t[from], to)
}

// Destinations returns an ordered copy of the states reachable from the given
// state. The result is empty (never nil) for terminal or unknown states.
func (t Table[S]) Destinations(from S) []S {
	dests := t[from]
	out := make([]S, len(dests))
	copy(out, dests)
	return out
}

// IsTerminal reports whether no transition leaves the given state.
func (t Table[S]) IsTerminal(state S) bool {
	return len(t[state]) == 0
}

// Knows reports whether the state appears anywhere in the table, either as a
// source or as a destination. Terminal states are commonly listed as keys with
// an empty destination set, but a destination-only state is recognized too.
func (t Table[S]) Knows(state S) bool {
	if _, ok := t[state]; ok {
		return true
	}
	for _, dests := range t {
		if slices.Contains(dests, state) {
			return true
		}
	}
	return false
}

// States returns every state mentioned in the table, sorted for deterministic
// iteration.
func (t Table[S]) States() []S {
	seen := make(map[S]struct{}, len(t))
	states := make([]S, 0, len(t))
	add := func(s S) {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			states = append(states, s)
		}
	}
	for from, dests := range t {
		add(from)
		for _, to := range dests {
			add(to)
		}
	}
	slices.Sort(states)
	return states
}
