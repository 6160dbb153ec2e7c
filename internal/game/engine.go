package game

// Engine is the rules plugin a table.Session drives. V is the per-seat view
// handed to agents and A the action type of the game.
type Engine[V any, A any] interface {
	// Turn returns the seat empowered to act. ok is false when nobody may act,
	// such as between rounds or after the game ends.
	Turn() (seat PlayerID, ok bool)

	// View returns what seat is allowed to see. It never includes other hands.
	View(seat PlayerID) V

	// ValidActions lists every legal action for seat. Empty when it is not
	// that seat's turn.
	ValidActions(seat PlayerID) []A

	// Apply validates and applies one action. On error nothing changed.
	Apply(seat PlayerID, action A) ([]Event, error)

	// IsOver reports whether the game reached a terminal phase.
	IsOver() bool
}

// Advancer is implemented by engines that pause between rounds. The session
// calls Advance when Turn reports no seat and the game is not over.
type Advancer interface {
	Advance() ([]Event, error)
}

// Decision is an agent's chosen action with reasoning for logs.
type Decision[A any] struct {
	Action    A
	Reasoning string
}

// Agent picks an action for one seat. Agents receive the seat's view and the
// legal actions computed by the engine; they must return one of them.
type Agent[V any, A any] interface {
	MakeDecision(view V, validActions []A) Decision[A]
}

// AgentFunc adapts a function to Agent.
type AgentFunc[V any, A any] func(view V, validActions []A) Decision[A]

// MakeDecision calls f.
func (f AgentFunc[V, A]) MakeDecision(view V, validActions []A) Decision[A] {
	return f(view, validActions)
}

// Snapshotter is implemented by engines that can hand out an independent copy
// of their state for persistence.
type Snapshotter interface {
	Snapshot() any
}
