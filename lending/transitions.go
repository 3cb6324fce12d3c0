package lending

import "slices"

// TransitionTable is a static adjacency map from a current status to the statuses reachable from it.
// A status with an empty slice is terminal. A status missing from the table is unknown.
type TransitionTable[S ~string] map[S][]S

// Allows reports whether the table contains the transition from -> to.
func (t TransitionTable[S]) Allows(from, to S) bool {
	return slices.Contains(t[from], to)
}

// Knows reports whether status is a state of this machine.
func (t TransitionTable[S]) Knows(status S) bool {
	_, ok := t[status]
	return ok
}

// Next lists the statuses reachable from status, in table order.
func (t TransitionTable[S]) Next(status S) []S {
	return slices.Clone(t[status])
}

// States lists every status of the machine in a stable order.
func (t TransitionTable[S]) States() []S {
	states := make([]S, 0, len(t))
	for status := range t {
		states = append(states, status)
	}
	slices.Sort(states)

	return states
}

// Transition is the pure transition function shared by all state machines.
// It returns the new status or an *InvalidTransitionError naming the machine and both statuses.
func Transition[S ~string](machine string, table TransitionTable[S], from, to S) (S, error) {
	if !table.Allows(from, to) {
		return from, &InvalidTransitionError{Machine: machine, From: string(from), To: string(to)}
	}

	return to, nil
}
