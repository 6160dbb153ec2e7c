package game

import (
	"time"
)

// Thinker is implemented by agents that want a pause before acting. The
// delay only paces play for human observers.
type Thinker interface {
	ThinkTime() time.Duration
}

// ThinkTimeOf returns the agent's delay, or zero when it does not think.
func ThinkTimeOf(agent any) time.Duration {
	if t, ok := agent.(Thinker); ok {
		return t.ThinkTime()
	}
	return 0
}
