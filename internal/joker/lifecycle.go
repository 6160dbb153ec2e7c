package joker

import "github.com/lox/cardtable/internal/game"

// scoreRound appends the round's scoreboard line, pays the set bonus on the
// last round of a set, and ends the round or the game.
func (s *State) scoreRound() []game.Event {
	entry := RoundScoreEntry{
		Round:         s.CurrentRound,
		Set:           s.CurrentSet,
		CardsPerRound: s.CardsPerRound,
		Bids:          cloneCounts(s.Bids),
		TricksWon:     cloneCounts(s.TricksWon),
		Points:        make(map[game.PlayerID]int, len(s.Seats)),
		SetBonus:      make(map[game.PlayerID]int, len(s.Seats)),
	}
	for _, seat := range s.Seats {
		pts := Score(s.Bids[seat], s.TricksWon[seat], s.CardsPerRound)
		entry.Points[seat] = pts
		s.CumulativeScores[seat] += pts
	}

	if s.Schedule.EndsSet(s.CurrentRound) {
		setEntries := append(s.setEntries(s.CurrentSet), entry)
		for _, seat := range s.Seats {
			if bonus := SetBonus(setEntries, seat); bonus > 0 {
				entry.SetBonus[seat] = bonus
				s.CumulativeScores[seat] += bonus
			}
		}
	}
	s.Scoreboard = append(s.Scoreboard, entry)

	events := []game.Event{RoundScoredEvent{Entry: entry.clone()}}
	s.CurrentPlayerID = game.NoPlayer
	if s.CurrentRound >= s.Schedule.Rounds() {
		s.Phase = PhaseGameEnd
		s.WinnerID = s.Leaders()[0]
		return append(events, game.GameOverEvent{Winner: s.WinnerID})
	}
	s.Phase = PhaseRoundEnd
	return events
}

func (s *State) setEntries(set int) []RoundScoreEntry {
	var out []RoundScoreEntry
	for _, e := range s.Scoreboard {
		if e.Set == set {
			out = append(out, e)
		}
	}
	return out
}

// Winner returns the seat with the highest score once the game is over. On
// a tie it is the earliest such seat; Leaders lists all of them.
func (s *State) Winner() (game.PlayerID, bool) {
	if s.Phase != PhaseGameEnd {
		return game.NoPlayer, false
	}
	return s.WinnerID, true
}
