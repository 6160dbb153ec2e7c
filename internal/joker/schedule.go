package joker

// RoundSpec describes one round of the schedule.
type RoundSpec struct {
	Set   int
	Cards int
}

// Schedule is the ordered list of rounds of a game.
type Schedule []RoundSpec

// StandardSchedule is the fixed 24 round schedule in four sets: 1..8 cards
// ascending, four rounds of 9, 8..1 descending, four rounds of 9.
var StandardSchedule = buildStandardSchedule()

func buildStandardSchedule() Schedule {
	s := make(Schedule, 0, 24)
	for n := 1; n <= 8; n++ {
		s = append(s, RoundSpec{Set: 1, Cards: n})
	}
	for i := 0; i < 4; i++ {
		s = append(s, RoundSpec{Set: 2, Cards: 9})
	}
	for n := 8; n >= 1; n-- {
		s = append(s, RoundSpec{Set: 3, Cards: n})
	}
	for i := 0; i < 4; i++ {
		s = append(s, RoundSpec{Set: 4, Cards: 9})
	}
	return s
}

// Rounds returns the number of rounds in the schedule.
func (s Schedule) Rounds() int {
	return len(s)
}

// Round returns the spec of 1-based round r.
func (s Schedule) Round(r int) (RoundSpec, bool) {
	if r < 1 || r > len(s) {
		return RoundSpec{}, false
	}
	return s[r-1], true
}

// EndsSet reports whether round r is the last round of its set.
func (s Schedule) EndsSet(r int) bool {
	spec, ok := s.Round(r)
	if !ok {
		return false
	}
	next, ok := s.Round(r + 1)
	return !ok || next.Set != spec.Set
}
