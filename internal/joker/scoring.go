package joker

import "github.com/lox/cardtable/internal/game"

// Score returns the points one seat earns for a round.
//
// Taking every card as bid pays 100 per trick. Any other exact bid pays 50
// per trick plus 50, so a successful zero bid pays 50. A missed bid pays 10
// per trick taken. The all-tricks case is checked first.
func Score(bid, tricksWon, cardsPerRound int) int {
	switch {
	case bid > 0 && bid == cardsPerRound && tricksWon == cardsPerRound:
		return 100 * tricksWon
	case bid == tricksWon:
		return 50*tricksWon + 50
	default:
		return 10 * tricksWon
	}
}

// RoundScoreEntry is one line of the scoreboard. Entries are append-only.
// SetBonus is filled only on the last round of a set.
type RoundScoreEntry struct {
	Round         int
	Set           int
	CardsPerRound int
	Bids          map[game.PlayerID]int
	TricksWon     map[game.PlayerID]int
	Points        map[game.PlayerID]int
	SetBonus      map[game.PlayerID]int
}

// Total returns points plus set bonus for seat in this entry.
func (e RoundScoreEntry) Total(seat game.PlayerID) int {
	return e.Points[seat] + e.SetBonus[seat]
}

func (e RoundScoreEntry) clone() RoundScoreEntry {
	e.Bids = cloneCounts(e.Bids)
	e.TricksWon = cloneCounts(e.TricksWon)
	e.Points = cloneCounts(e.Points)
	e.SetBonus = cloneCounts(e.SetBonus)
	return e
}

// SetBonus computes the end-of-set bonus for seat from the set's entries: the
// seat's best single round if it made its bid in every round, else zero.
func SetBonus(entries []RoundScoreEntry, seat game.PlayerID) int {
	if len(entries) == 0 {
		return 0
	}
	best := 0
	for _, e := range entries {
		if e.Bids[seat] != e.TricksWon[seat] {
			return 0
		}
		if e.Points[seat] > best {
			best = e.Points[seat]
		}
	}
	return best
}

func cloneCounts(in map[game.PlayerID]int) map[game.PlayerID]int {
	if in == nil {
		return nil
	}
	out := make(map[game.PlayerID]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
