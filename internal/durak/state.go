package durak

import (
	rand "math/rand/v2"

	"github.com/lox/cardtable/internal/deck"
	"github.com/lox/cardtable/internal/game"
	"github.com/lox/cardtable/internal/rules"
)

// HandSize is the refill ceiling.
const HandSize = 6

// State is the full attack-defense game record. It is mutated in place by
// Apply until Phase reaches PhaseFinished.
type State struct {
	Seats      []game.PlayerID
	Deck       *deck.Deck
	TrumpCard  deck.Card
	TrumpSuit  deck.Suit
	Hands      map[game.PlayerID][]deck.Card
	Table      []rules.Pair
	Discard    []deck.Card
	AttackerID game.PlayerID
	DefenderID game.PlayerID
	Phase      Phase
	WinnerID   game.PlayerID
	LoserID    game.PlayerID
	HandSize   int
	Exchanges  int
}

// Option configures a new game.
type Option func(*config)

type config struct {
	deck          *deck.Deck
	handSize      int
	firstAttacker game.PlayerID
}

// WithDeck uses a pre-ordered deck instead of shuffling one from the RNG.
func WithDeck(d *deck.Deck) Option {
	return func(c *config) { c.deck = d }
}

// WithHandSize overrides the refill ceiling.
func WithHandSize(n int) Option {
	return func(c *config) { c.handSize = n }
}

// WithFirstAttacker forces the first attacker instead of the lowest trump rule.
func WithFirstAttacker(seat game.PlayerID) Option {
	return func(c *config) { c.firstAttacker = seat }
}

// NewGame deals a new two-seat game.
//
// The deck is dealt from the front; its bottom card is revealed as trump and
// stays in the deck. The seat holding the lowest trump attacks first.
func NewGame(rng *rand.Rand, seats []game.PlayerID, opts ...Option) *State {
	if len(seats) != 2 {
		panic("durak requires exactly 2 seats")
	}
	if seats[0] == seats[1] {
		panic("seat identities must be distinct")
	}

	cfg := &config{handSize: HandSize}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.deck == nil {
		if rng == nil {
			panic("rng is required when no deck is supplied")
		}
		cfg.deck = deck.NewDurak(rng)
	}

	s := &State{
		Seats:    append([]game.PlayerID(nil), seats...),
		Deck:     cfg.deck,
		Hands:    make(map[game.PlayerID][]deck.Card, 2),
		Phase:    PhaseAttack,
		HandSize: cfg.handSize,
	}
	for _, seat := range s.Seats {
		s.Hands[seat] = s.Deck.Deal(s.HandSize)
	}
	if bottom, ok := s.Deck.Bottom(); ok {
		s.TrumpCard = bottom
	} else {
		// Everything was dealt; the last dealt card stands in as trump.
		last := s.Hands[s.Seats[1]]
		s.TrumpCard = last[len(last)-1]
	}
	s.TrumpSuit = s.TrumpCard.Suit

	first := cfg.firstAttacker
	if first == game.NoPlayer {
		first = s.lowestTrumpHolder()
	}
	s.AttackerID = first
	s.DefenderID = s.other(first)
	return s
}

func (s *State) lowestTrumpHolder() game.PlayerID {
	best := s.Seats[0]
	bestValue := -1
	for _, seat := range s.Seats {
		for _, c := range s.Hands[seat] {
			if c.Suit != s.TrumpSuit {
				continue
			}
			if bestValue < 0 || c.Value() < bestValue {
				best, bestValue = seat, c.Value()
			}
		}
	}
	return best
}

func (s *State) other(seat game.PlayerID) game.PlayerID {
	if s.Seats[0] == seat {
		return s.Seats[1]
	}
	return s.Seats[0]
}

// Turn returns the seat that must act: the attacker in the attack phase, the
// defender in the defense phase.
func (s *State) Turn() (game.PlayerID, bool) {
	switch s.Phase {
	case PhaseAttack:
		return s.AttackerID, true
	case PhaseDefense:
		return s.DefenderID, true
	default:
		return game.NoPlayer, false
	}
}

// IsOver reports whether the game has finished.
func (s *State) IsOver() bool {
	return s.Phase == PhaseFinished
}

// Hand returns a copy of seat's hand.
func (s *State) Hand(seat game.PlayerID) []deck.Card {
	return append([]deck.Card(nil), s.Hands[seat]...)
}

// maxAttacks is the exchange capacity: smaller until the first bito.
func (s *State) maxAttacks() int {
	if len(s.Discard) == 0 {
		return rules.FirstExchangeMaxAttacks
	}
	return rules.MaxAttacks
}

// View returns seat's hidden-information view.
func (s *State) View(seat game.PlayerID) View {
	opp := s.other(seat)
	role := Attacker
	if seat == s.DefenderID {
		role = Defender
	}
	return View{
		Seat:             seat,
		Opponent:         opp,
		Role:             role,
		Phase:            s.Phase,
		Hand:             s.Hand(seat),
		Table:            clonePairs(s.Table),
		TrumpCard:        s.TrumpCard,
		TrumpSuit:        s.TrumpSuit,
		DeckCount:        s.Deck.CardsRemaining(),
		DiscardCount:     len(s.Discard),
		OpponentHandSize: len(s.Hands[opp]),
	}
}

// ValidActions lists the legal actions for seat, all derived from the rules oracle.
func (s *State) ValidActions(seat game.PlayerID) []Action {
	turn, ok := s.Turn()
	if !ok || seat != turn {
		return nil
	}

	hand := s.Hands[seat]
	var out []Action
	switch s.Phase {
	case PhaseAttack:
		if rules.HasAttackRoom(s.Table, len(s.Hands[s.DefenderID]), s.maxAttacks()) {
			for _, c := range rules.Attackable(hand, s.Table) {
				out = append(out, AttackWith(c))
			}
		}
		if len(s.Table) > 0 && rules.AllDefended(s.Table) {
			out = append(out, PassAction())
		}
	case PhaseDefense:
		for i, p := range s.Table {
			if p.Defended() {
				continue
			}
			for _, c := range rules.Defenses(hand, p.Attack, s.TrumpSuit) {
				out = append(out, DefendWith(c, i))
			}
		}
		out = append(out, TakeAction())
	}
	return out
}

// CardCount counts every card across deck, hands, table and discard. It is
// constant for the lifetime of a game.
func (s *State) CardCount() int {
	n := s.Deck.CardsRemaining() + len(s.Discard)
	for _, h := range s.Hands {
		n += len(h)
	}
	for _, p := range s.Table {
		n++
		if p.Defended() {
			n++
		}
	}
	return n
}

// Clone returns a deep copy that shares nothing with s.
func (s *State) Clone() *State {
	c := *s
	c.Seats = append([]game.PlayerID(nil), s.Seats...)
	c.Deck = s.Deck.Clone()
	c.Hands = make(map[game.PlayerID][]deck.Card, len(s.Hands))
	for k, v := range s.Hands {
		c.Hands[k] = append([]deck.Card(nil), v...)
	}
	c.Table = clonePairs(s.Table)
	c.Discard = append([]deck.Card(nil), s.Discard...)
	return &c
}

func clonePairs(in []rules.Pair) []rules.Pair {
	if in == nil {
		return nil
	}
	out := make([]rules.Pair, len(in))
	for i, p := range in {
		out[i].Attack = p.Attack
		if p.Defense != nil {
			d := *p.Defense
			out[i].Defense = &d
		}
	}
	return out
}

// Snapshot returns a deep copy for persistence.
func (s *State) Snapshot() any { return s.Clone() }

var _ game.Engine[View, Action] = (*State)(nil)
