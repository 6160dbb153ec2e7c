package bot

import (
	"fmt"
	rand "math/rand/v2"
	"strings"
	"time"
)

// Tier is a bot skill level.
type Tier int

const (
	Easy Tier = iota
	Medium
	Hard
)

// Tiers lists every tier in increasing skill.
var Tiers = [...]Tier{Easy, Medium, Hard}

func (t Tier) String() string {
	switch t {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseTier parses a tier name.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return Easy, fmt.Errorf("unknown bot tier %q", s)
}

// DelayRange bounds a bot's simulated thinking time.
type DelayRange struct {
	Min time.Duration
	Max time.Duration
}

// DefaultDelay returns the tier's think-time range. Stronger tiers take
// longer.
func (t Tier) DefaultDelay() DelayRange {
	switch t {
	case Medium:
		return DelayRange{Min: 800 * time.Millisecond, Max: 1600 * time.Millisecond}
	case Hard:
		return DelayRange{Min: 1200 * time.Millisecond, Max: 2500 * time.Millisecond}
	default:
		return DelayRange{Min: 500 * time.Millisecond, Max: 1000 * time.Millisecond}
	}
}

// Pick returns a duration in [Min, Max].
func (d DelayRange) Pick(rng *rand.Rand) time.Duration {
	if d.Max <= d.Min {
		return max(d.Min, 0)
	}
	return d.Min + time.Duration(rng.Int64N(int64(d.Max-d.Min)+1))
}
