package durak

import "github.com/lox/cardtable/internal/game"

// refill tops seat's hand up to the ceiling while the deck lasts. The deck may
// run dry part way, leaving the hand short.
func (s *State) refill(seat game.PlayerID) {
	need := s.HandSize - len(s.Hands[seat])
	if need <= 0 {
		return
	}
	s.Hands[seat] = append(s.Hands[seat], s.Deck.Deal(need)...)
}

// Winner reports the terminal outcome without changing state. Only once the
// deck is exhausted can a seat win: the attacker is checked first, then the
// defender. done is false while the game continues.
func (s *State) Winner() (winner, loser game.PlayerID, done bool) {
	if !s.Deck.IsEmpty() {
		return game.NoPlayer, game.NoPlayer, false
	}
	switch {
	case len(s.Hands[s.AttackerID]) == 0:
		return s.AttackerID, s.DefenderID, true
	case len(s.Hands[s.DefenderID]) == 0:
		return s.DefenderID, s.AttackerID, true
	}
	return game.NoPlayer, game.NoPlayer, false
}

func (s *State) checkWinner() game.Event {
	winner, loser, done := s.Winner()
	if !done {
		return nil
	}
	s.WinnerID, s.LoserID = winner, loser
	s.Phase = PhaseFinished
	return game.GameOverEvent{Winner: winner, Loser: loser}
}
