package bot

import rand "math/rand/v2"

// pickRandom returns a uniform index among the actions accepted by keep, or
// -1 when none qualify.
func pickRandom[A any](rng *rand.Rand, actions []A, keep func(A) bool) int {
	var candidates []int
	for i, a := range actions {
		if keep(a) {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return -1
	}
	return candidates[rng.IntN(len(candidates))]
}

// coinFlip splits actions into plays and resolutions (pass, take) and picks a
// resolution with probability p when both kinds are available.
func coinFlip[A any](rng *rand.Rand, actions []A, p float64, isResolution func(A) bool, thinking *ThinkingContext) int {
	plays := pickRandom(rng, actions, func(a A) bool { return !isResolution(a) })
	resolutions := pickRandom(rng, actions, isResolution)
	switch {
	case plays < 0:
		return resolutions
	case resolutions < 0:
		thinking.AddThought("Random legal play")
		return plays
	case rng.Float64() < p:
		thinking.AddThought("Coin flip says stop here")
		return resolutions
	default:
		thinking.AddThought("Coin flip says keep playing")
		return plays
	}
}
