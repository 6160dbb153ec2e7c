// Package game holds what the durak and joker engines share: seat identity,
// the rejected-action error model, the engine plugin seam driven by
// table.Session, the Agent interface bots implement, and domain events.
//
// # Engines
//
// Each game provides a state type that satisfies Engine. The session asks the
// engine whose turn it is, offers the acting seat's ValidActions to an Agent
// (or waits for a human), and applies the chosen action:
//
//	seat, ok := eng.Turn()
//	actions := eng.ValidActions(seat)
//	events, err := eng.Apply(seat, actions[0])
//
// Apply validates fully before mutating. A failed Apply returns a *Rejection
// and leaves the state untouched.
//
// # Deterministic Testing
//
// Engines never read the clock or a global random source. Shuffles are seeded
// through randutil, so a game is reproducible from its seed and action list.
package game
