package durak

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
	case Attack:
		s.applyAttack(action.Card)
		return nil, nil
	case Defend:
		s.applyDefend(action.Card, action.Target)
		return nil, nil
	case Pass:
		return s.applyPass(), nil
	case Take:
		return s.applyTake(), nil
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

func (s *State) validate(seat game.PlayerID, action Action) error {
	if s.Phase == PhaseFinished {
		return game.Reject(game.WrongPhase, "game is finished")
	}
	if _, seated := s.Hands[seat]; !seated {
		return game.Reject(game.OutOfTurn, "%s is not seated", seat)
	}
	if turn, _ := s.Turn(); seat != turn {
		return game.Reject(game.OutOfTurn, "%s must act, not %s", turn, seat)
	}

	hand := s.Hands[seat]
	switch action.Kind {
	case Attack:
		if s.Phase != PhaseAttack {
			return game.Reject(game.WrongPhase, "cannot attack during %s", s.Phase)
		}
		if !deck.Contains(hand, action.Card) {
			return game.Reject(game.IllegalCard, "%s is not in hand", action.Card)
		}
		if !rules.CanAddToAttack(action.Card, s.Table) {
			return game.Reject(game.IllegalCard, "rank of %s is not on the table", action.Card)
		}
		if !rules.HasAttackRoom(s.Table, len(s.Hands[s.DefenderID]), s.maxAttacks()) {
			return game.Reject(game.IllegalCard, "no room for another attack card")
		}
	case Defend:
		if s.Phase != PhaseDefense {
			return game.Reject(game.WrongPhase, "cannot defend during %s", s.Phase)
		}
		if action.Target < 0 || action.Target >= len(s.Table) {
			return game.Reject(game.IllegalCard, "no table slot %d", action.Target)
		}
		slot := s.Table[action.Target]
		if slot.Defended() {
			return game.Reject(game.IllegalCard, "slot %d is already defended", action.Target)
		}
		if !deck.Contains(hand, action.Card) {
			return game.Reject(game.IllegalCard, "%s is not in hand", action.Card)
		}
		if !rules.CanBeat(slot.Attack, action.Card, s.TrumpSuit) {
			return game.Reject(game.IllegalCard, "%s does not beat %s", action.Card, slot.Attack)
		}
	case Pass:
		if s.Phase != PhaseAttack || len(s.Table) == 0 || !rules.AllDefended(s.Table) {
			return game.Reject(game.WrongPhase, "pass needs a fully defended table")
		}
	case Take:
		if s.Phase != PhaseDefense {
			return game.Reject(game.WrongPhase, "cannot take during %s", s.Phase)
		}
	default:
		return game.Reject(game.WrongPhase, "unknown action %d", action.Kind)
	}
	return nil
}

func (s *State) applyAttack(c deck.Card) {
	s.Hands[s.AttackerID], _ = deck.Remove(s.Hands[s.AttackerID], c)
	s.Table = append(s.Table, rules.Pair{Attack: c})
	s.Phase = PhaseDefense
}

func (s *State) applyDefend(c deck.Card, target int) {
	hand := s.Hands[s.DefenderID]
	held := hand[deck.IndexOf(hand, c)]
	s.Hands[s.DefenderID], _ = deck.Remove(hand, c)
	s.Table[target].Defense = &held
	if rules.AllDefended(s.Table) {
		s.Phase = PhaseAttack
	}
}

func (s *State) applyPass() []game.Event {
	ev := ExchangeEndedEvent{Attacker: s.AttackerID, Defender: s.DefenderID, Cards: s.tableCardCount()}
	for _, p := range s.Table {
		s.Discard = append(s.Discard, p.Attack, *p.Defense)
	}
	s.Table = nil
	s.Exchanges++

	s.refill(s.AttackerID)
	s.refill(s.DefenderID)

	events := []game.Event{ev}
	if over := s.checkWinner(); over != nil {
		return append(events, over)
	}
	s.AttackerID, s.DefenderID = s.DefenderID, s.AttackerID
	s.Phase = PhaseAttack
	return events
}

func (s *State) applyTake() []game.Event {
	ev := ExchangeEndedEvent{Attacker: s.AttackerID, Defender: s.DefenderID, Taken: true, Cards: s.tableCardCount()}
	for _, p := range s.Table {
		s.Hands[s.DefenderID] = append(s.Hands[s.DefenderID], p.Attack)
		if p.Defense != nil {
			s.Hands[s.DefenderID] = append(s.Hands[s.DefenderID], *p.Defense)
		}
	}
	s.Table = nil
	s.Exchanges++

	s.refill(s.AttackerID)

	events := []game.Event{ev}
	if over := s.checkWinner(); over != nil {
		return append(events, over)
	}
	s.Phase = PhaseAttack
	return events
}

func (s *State) tableCardCount() int {
	n := 0
	for _, p := range s.Table {
		n++
		if p.Defended() {
			n++
		}
	}
	return n
}
