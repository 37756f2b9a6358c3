package booking

// State is the position of an Orchestrator in the booking flow.
type State int

const (
	StateIdle State = iota
	StateVerifying
	StateConflictFound
	StateVerifyFailed
	StateCreating
	StateCreated
	StateCreateFailed
)

var stateNames = map[State]string{
	StateIdle:          "idle",
	StateVerifying:     "verifying",
	StateConflictFound: "conflict_found",
	StateVerifyFailed:  "verify_failed",
	StateCreating:      "creating",
	StateCreated:       "created",
	StateCreateFailed:  "create_failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Busy reports whether a network call is outstanding in this state.
func (s State) Busy() bool {
	return s == StateVerifying || s == StateCreating
}

// Terminal reports whether s ends an attempt.
func (s State) Terminal() bool {
	switch s {
	case StateConflictFound, StateVerifyFailed, StateCreated, StateCreateFailed:
		return true
	}
	return false
}
