package joker

import (
	"github.com/lox/cardtable/internal/deck"
	"github.com/lox/cardtable/internal/game"
	"github.com/lox/cardtable/internal/rules"
)

// Apply validates action for seat and, only if every check passes, applies it.
// A rejected action returns a *game.Rejection and leaves the state untouched.
func (s *State) Apply(seat game.PlayerID, action Action) ([]game.Event, error) {
	if err := s.validate(seat, action); err != nil {
		return nil, err
	}

	switch action.Kind {
	case Bid:
		s.applyBid(seat, action.Amount)
		return nil, nil
	case Play:
		if action.Card.IsJoker() && !complete(action.Mode, action.Suit, len(s.CurrentTrick) == 0) {
			s.Pending = &PendingJoker{Seat: seat, Card: action.Card}
			return nil, nil
		}
		return s.place(seat, action.Card, action.Mode, action.Suit), nil
	case DeclareJoker:
		card := s.Pending.Card
		s.Pending = nil
		return s.place(seat, card, action.Mode, action.Suit), nil
	}
	return nil, nil
}

// Step is the pure form of Apply: it returns the next state and leaves s alone.
func Step(s *State, seat game.PlayerID, action Action) (*State, error) {
	next := s.Clone()
	if _, err := next.Apply(seat, action); err != nil {
		return nil, err
	}
	return next, nil
}

// Advance deals the next round once the current one has been scored.
func (s *State) Advance() ([]game.Event, error) {
	if s.Phase != PhaseRoundEnd {
		return nil, game.Reject(game.WrongPhase, "cannot advance during %s", s.Phase)
	}
	ev := s.startRound(s.CurrentRound+1, game.NextSeat(s.Seats, s.DealerID))
	return []game.Event{ev}, nil
}

func complete(mode rules.JokerMode, suit deck.Suit, leading bool) bool {
	if mode != rules.High && mode != rules.Low {
		return false
	}
	return !leading || suit.Valid()
}

func (s *State) validate(seat game.PlayerID, action Action) error {
	if s.Phase == PhaseGameEnd {
		return game.Reject(game.WrongPhase, "game is finished")
	}
	if _, seated := s.Hands[seat]; !seated {
		return game.Reject(game.OutOfTurn, "%s is not seated", seat)
	}
	if s.Phase == PhaseRoundEnd {
		return game.Reject(game.WrongPhase, "round %d is over", s.CurrentRound)
	}
	if seat != s.CurrentPlayerID {
		return game.Reject(game.OutOfTurn, "%s must act, not %s", s.CurrentPlayerID, seat)
	}

	switch action.Kind {
	case Bid:
		if s.Phase != PhaseBidding {
			return game.Reject(game.WrongPhase, "cannot bid during %s", s.Phase)
		}
		if action.Amount < 0 || action.Amount > s.CardsPerRound {
			return game.Reject(game.IllegalBid, "bid %d outside 0..%d", action.Amount, s.CardsPerRound)
		}
		if seat == s.DealerID {
			if forbidden, ok := s.ForbiddenBid(); ok && action.Amount == forbidden {
				return game.Reject(game.IllegalBid, "dealer may not bid %d", forbidden)
			}
		}
	case Play:
		if s.Phase != PhasePlaying {
			return game.Reject(game.WrongPhase, "cannot play during %s", s.Phase)
		}
		if s.Pending != nil {
			return game.Reject(game.WrongPhase, "joker declaration is pending")
		}
		hand := s.Hands[seat]
		if !deck.Contains(hand, action.Card) {
			return game.Reject(game.IllegalCard, "%s is not in hand", action.Card)
		}
		if !rules.CanPlayCard(action.Card, hand, s.TrumpSuit, s.CurrentTrick) {
			return game.Reject(game.IllegalCard, "%s does not follow the trick", action.Card)
		}
		if !action.Card.IsJoker() && (action.Mode != rules.NoMode || action.Suit != deck.NoSuit) {
			return game.Reject(game.IllegalCard, "%s is not a joker", action.Card)
		}
		if action.Card.IsJoker() && action.Suit != deck.NoSuit && len(s.CurrentTrick) > 0 {
			return game.Reject(game.IllegalCard, "only a leading joker names a suit")
		}
	case DeclareJoker:
		if s.Phase != PhasePlaying || s.Pending == nil {
			return game.Reject(game.WrongPhase, "no joker awaits a declaration")
		}
		leading := len(s.CurrentTrick) == 0
		if !complete(action.Mode, action.Suit, leading) {
			return game.Reject(game.IllegalCard, "incomplete joker declaration")
		}
		if !leading && action.Suit != deck.NoSuit {
			return game.Reject(game.IllegalCard, "only a leading joker names a suit")
		}
	default:
		return game.Reject(game.WrongPhase, "unknown action %d", action.Kind)
	}
	return nil
}

func (s *State) applyBid(seat game.PlayerID, amount int) {
	s.Bids[seat] = amount
	if seat == s.DealerID {
		s.Phase = PhasePlaying
		s.CurrentPlayerID = s.TrickLeaderID
		return
	}
	s.CurrentPlayerID = game.NextSeat(s.Seats, seat)
}

// place moves card from seat's hand into the trick and resolves the trick
// when all four seats have played.
func (s *State) place(seat game.PlayerID, card deck.Card, mode rules.JokerMode, suit deck.Suit) []game.Event {
	s.Hands[seat], _ = deck.Remove(s.Hands[seat], card)
	pc := rules.PlayedCard{Card: card, PlayerID: string(seat)}
	if card.IsJoker() {
		pc.Mode = mode
		if len(s.CurrentTrick) == 0 {
			pc.DeclaredSuit = suit
		}
	}
	s.CurrentTrick = append(s.CurrentTrick, pc)

	if len(s.CurrentTrick) < len(s.Seats) {
		s.CurrentPlayerID = game.NextSeat(s.Seats, seat)
		return nil
	}
	return s.resolveTrick()
}

func (s *State) resolveTrick() []game.Event {
	trick := s.CurrentTrick
	winner := game.PlayerID(trick[rules.TrickWinner(trick, s.TrumpSuit)].PlayerID)
	s.TricksWon[winner]++
	for _, pc := range trick {
		s.Played = append(s.Played, pc.Card)
	}
	s.LastTrick = trick
	s.CurrentTrick = nil

	events := []game.Event{TrickCompletedEvent{
		Round:  s.CurrentRound,
		Winner: winner,
		Cards:  append([]rules.PlayedCard(nil), trick...),
	}}

	if s.tricksPlayed() < s.CardsPerRound {
		s.TrickLeaderID = winner
		s.CurrentPlayerID = winner
		return events
	}
	return append(events, s.scoreRound()...)
}

func (s *State) tricksPlayed() int {
	n := 0
	for _, t := range s.TricksWon {
		n += t
	}
	return n
}
