package joker

import (
	"github.com/lox/cardtable/internal/deck"
	"github.com/lox/cardtable/internal/game"
	"github.com/lox/cardtable/internal/randutil"
	"github.com/lox/cardtable/internal/rules"
)

// State is the full bid-trick game record. It is mutated in place by Apply
// and Advance until Phase reaches PhaseGameEnd.
type State struct {
	Seats    []game.PlayerID
	Seed     int64
	Schedule Schedule

	Deck      *deck.Deck
	TrumpCard deck.Card
	TrumpSuit deck.Suit
	Hands     map[game.PlayerID][]deck.Card

	CurrentTrick []rules.PlayedCard
	LastTrick    []rules.PlayedCard
	// Played holds the cards of completed tricks in the current round.
	Played        []deck.Card
	TrickLeaderID game.PlayerID
	Pending       *PendingJoker

	Bids      map[game.PlayerID]int
	TricksWon map[game.PlayerID]int

	CurrentRound    int
	CurrentSet      int
	CardsPerRound   int
	DealerID        game.PlayerID
	CurrentPlayerID game.PlayerID
	Phase           Phase

	Scoreboard       []RoundScoreEntry
	CumulativeScores map[game.PlayerID]int
	WinnerID         game.PlayerID

	deckFor func(round int) *deck.Deck
}

// Option configures a new game.
type Option func(*config)

type config struct {
	dealer   game.PlayerID
	schedule Schedule
	deckFor  func(round int) *deck.Deck
}

// WithFirstDealer sets the dealer of round one. Defaults to the first seat.
func WithFirstDealer(seat game.PlayerID) Option {
	return func(c *config) { c.dealer = seat }
}

// WithSchedule replaces the standard 24 round schedule.
func WithSchedule(s Schedule) Option {
	return func(c *config) { c.schedule = s }
}

// WithDecks supplies the deck for each round instead of shuffling one from
// the game seed.
func WithDecks(deckFor func(round int) *deck.Deck) Option {
	return func(c *config) { c.deckFor = deckFor }
}

// NewGame seats four players and deals round one.
//
// Each round's deck is shuffled from a stream derived from seed and the round
// number, so any round can be re-dealt from a stored game.
func NewGame(seed int64, seats []game.PlayerID, opts ...Option) *State {
	if len(seats) != SeatCount {
		panic("joker requires exactly 4 seats")
	}
	seen := make(map[game.PlayerID]bool, len(seats))
	for _, seat := range seats {
		if seen[seat] {
			panic("seat identities must be distinct")
		}
		seen[seat] = true
	}

	cfg := &config{dealer: seats[0], schedule: StandardSchedule}
	for _, opt := range opts {
		opt(cfg)
	}
	if !seen[cfg.dealer] {
		panic("first dealer is not seated")
	}
	if len(cfg.schedule) == 0 {
		panic("schedule has no rounds")
	}

	s := &State{
		Seats:            append([]game.PlayerID(nil), seats...),
		Seed:             seed,
		Schedule:         cfg.schedule,
		CumulativeScores: make(map[game.PlayerID]int, SeatCount),
		deckFor:          cfg.deckFor,
	}
	for _, seat := range s.Seats {
		s.CumulativeScores[seat] = 0
	}
	s.startRound(1, cfg.dealer)
	return s
}

func (s *State) roundDeck(round int) *deck.Deck {
	if s.deckFor != nil {
		if d := s.deckFor(round); d != nil {
			return d
		}
	}
	shuffled := deck.NewJoker(randutil.Stream(s.Seed, int64(round)))
	return deck.NewDeckFrom(shuffled.Cards())
}

// startRound deals round r with dealer and opens bidding left of the dealer.
func (s *State) startRound(r int, dealer game.PlayerID) game.Event {
	spec, _ := s.Schedule.Round(r)

	s.CurrentRound = r
	s.CurrentSet = spec.Set
	s.CardsPerRound = spec.Cards
	s.DealerID = dealer
	s.Deck = s.roundDeck(r)
	s.Hands = make(map[game.PlayerID][]deck.Card, SeatCount)
	s.Bids = make(map[game.PlayerID]int, SeatCount)
	s.TricksWon = make(map[game.PlayerID]int, SeatCount)
	s.CurrentTrick = nil
	s.LastTrick = nil
	s.Played = nil
	s.Pending = nil

	first := game.NextSeat(s.Seats, dealer)
	var last deck.Card
	for i := 0; i < spec.Cards; i++ {
		seat := first
		for range s.Seats {
			c, ok := s.Deck.DealOne()
			if !ok {
				break
			}
			s.Hands[seat] = append(s.Hands[seat], c)
			last = c
			seat = game.NextSeat(s.Seats, seat)
		}
	}
	for _, seat := range s.Seats {
		s.TricksWon[seat] = 0
		if s.Hands[seat] == nil {
			s.Hands[seat] = []deck.Card{}
		}
	}

	// With cards left over the next card is turned up. When every card is
	// dealt the dealer's last card names trump. A joker means no trump.
	if top, ok := s.Deck.Peek(); ok {
		s.TrumpCard = top
	} else {
		s.TrumpCard = last
	}
	s.TrumpSuit = s.TrumpCard.Suit
	if s.TrumpCard.IsJoker() {
		s.TrumpSuit = deck.NoSuit
	}

	s.TrickLeaderID = first
	s.CurrentPlayerID = first
	s.Phase = PhaseBidding

	return RoundStartedEvent{
		Round:         r,
		Set:           spec.Set,
		CardsPerRound: spec.Cards,
		Dealer:        dealer,
		TrumpCard:     s.TrumpCard,
		TrumpSuit:     s.TrumpSuit,
	}
}

// Turn returns the seat that must act next.
func (s *State) Turn() (game.PlayerID, bool) {
	if s.Phase != PhaseBidding && s.Phase != PhasePlaying {
		return game.NoPlayer, false
	}
	return s.CurrentPlayerID, true
}

// IsOver reports whether the last scheduled round has been scored.
func (s *State) IsOver() bool {
	return s.Phase == PhaseGameEnd
}

// Hand returns a copy of seat's cards.
func (s *State) Hand(seat game.PlayerID) []deck.Card {
	return append([]deck.Card(nil), s.Hands[seat]...)
}

// ForbiddenBid returns the single value the dealer may not bid, and false
// when no value is forbidden. The dealer bids last, so the forbidden value is
// the one that would make all bids sum to the cards per round.
func (s *State) ForbiddenBid() (int, bool) {
	sum := 0
	for seat, b := range s.Bids {
		if seat != s.DealerID {
			sum += b
		}
	}
	v := s.CardsPerRound - sum
	if v < 0 || v > s.CardsPerRound {
		return 0, false
	}
	return v, true
}

// AllowedBids returns the bids seat may make now. Empty when it is not the
// seat's turn to bid.
func (s *State) AllowedBids(seat game.PlayerID) []int {
	if s.Phase != PhaseBidding || seat != s.CurrentPlayerID {
		return nil
	}
	forbidden, hasForbidden := s.ForbiddenBid()
	isDealer := seat == s.DealerID
	bids := make([]int, 0, s.CardsPerRound+1)
	for b := 0; b <= s.CardsPerRound; b++ {
		if isDealer && hasForbidden && b == forbidden {
			continue
		}
		bids = append(bids, b)
	}
	return bids
}

// ValidActions lists every complete action seat may take now. Jokers are
// listed once per possible declaration.
func (s *State) ValidActions(seat game.PlayerID) []Action {
	turn, ok := s.Turn()
	if !ok || seat != turn {
		return nil
	}

	switch s.Phase {
	case PhaseBidding:
		bids := s.AllowedBids(seat)
		actions := make([]Action, 0, len(bids))
		for _, b := range bids {
			actions = append(actions, BidAction(b))
		}
		return actions
	case PhasePlaying:
		leading := len(s.CurrentTrick) == 0
		if s.Pending != nil {
			var actions []Action
			for _, d := range declarations(leading) {
				actions = append(actions, Declare(d.Mode, d.Suit))
			}
			return actions
		}
		var actions []Action
		for _, c := range rules.PlayableCards(s.Hands[seat], s.TrumpSuit, s.CurrentTrick) {
			if !c.IsJoker() {
				actions = append(actions, PlayCard(c))
				continue
			}
			for _, d := range declarations(leading) {
				actions = append(actions, PlayJoker(c, d.Mode, d.Suit))
			}
		}
		return actions
	}
	return nil
}

type declaration struct {
	Mode rules.JokerMode
	Suit deck.Suit
}

// declarations lists the legal joker declarations. A leading joker names a
// suit; a following joker only picks high or low.
func declarations(leading bool) []declaration {
	if !leading {
		return []declaration{{Mode: rules.High}, {Mode: rules.Low}}
	}
	out := make([]declaration, 0, 2*len(deck.Suits))
	for _, mode := range []rules.JokerMode{rules.High, rules.Low} {
		for _, suit := range deck.Suits {
			out = append(out, declaration{Mode: mode, Suit: suit})
		}
	}
	return out
}

// View projects the state for seat.
func (s *State) View(seat game.PlayerID) View {
	v := View{
		Seat:          seat,
		Phase:         s.Phase,
		Round:         s.CurrentRound,
		Set:           s.CurrentSet,
		CardsPerRound: s.CardsPerRound,
		Dealer:        s.DealerID,
		CurrentPlayer: s.CurrentPlayerID,
		TrickLeader:   s.TrickLeaderID,
		Hand:          s.Hand(seat),
		CurrentTrick:  append([]rules.PlayedCard(nil), s.CurrentTrick...),
		TrumpCard:     s.TrumpCard,
		TrumpSuit:     s.TrumpSuit,
		Bids:          cloneCounts(s.Bids),
		TricksWon:     cloneCounts(s.TricksWon),
		Scores:        cloneCounts(s.CumulativeScores),
		HandSizes:     make(map[game.PlayerID]int, len(s.Seats)),
		DeckCount:     s.Deck.CardsRemaining(),
		Seats:         append([]game.PlayerID(nil), s.Seats...),
	}
	for _, p := range s.Seats {
		v.HandSizes[p] = len(s.Hands[p])
	}
	if s.Pending != nil && s.Pending.Seat == seat {
		c := s.Pending.Card
		v.PendingJoker = &c
	}
	return v
}

// TrickWinnerPreview reports which seat would take the current trick if it
// ended now. False when the trick is empty.
func (s *State) TrickWinnerPreview() (game.PlayerID, bool) {
	idx := rules.TrickWinner(s.CurrentTrick, s.TrumpSuit)
	if idx < 0 {
		return game.NoPlayer, false
	}
	return game.PlayerID(s.CurrentTrick[idx].PlayerID), true
}

// ScoreboardEntries returns a copy of the scoreboard.
func (s *State) ScoreboardEntries() []RoundScoreEntry {
	out := make([]RoundScoreEntry, len(s.Scoreboard))
	for i, e := range s.Scoreboard {
		out[i] = e.clone()
	}
	return out
}

// Leaders returns every seat sharing the top cumulative score, in seat order.
func (s *State) Leaders() []game.PlayerID {
	best := 0
	var leaders []game.PlayerID
	for i, seat := range s.Seats {
		score := s.CumulativeScores[seat]
		switch {
		case i == 0 || score > best:
			best = score
			leaders = []game.PlayerID{seat}
		case score == best:
			leaders = append(leaders, seat)
		}
	}
	return leaders
}

// CardCount is the number of cards in play this round. It is always the size
// of the deck.
func (s *State) CardCount() int {
	n := s.Deck.CardsRemaining() + len(s.CurrentTrick) + len(s.Played)
	for _, h := range s.Hands {
		n += len(h)
	}
	return n
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	c := *s
	c.Seats = append([]game.PlayerID(nil), s.Seats...)
	c.Deck = s.Deck.Clone()
	c.Hands = make(map[game.PlayerID][]deck.Card, len(s.Hands))
	for k, v := range s.Hands {
		c.Hands[k] = append([]deck.Card{}, v...)
	}
	c.CurrentTrick = append([]rules.PlayedCard(nil), s.CurrentTrick...)
	c.LastTrick = append([]rules.PlayedCard(nil), s.LastTrick...)
	c.Played = append([]deck.Card(nil), s.Played...)
	if s.Pending != nil {
		p := *s.Pending
		c.Pending = &p
	}
	c.Bids = cloneCounts(s.Bids)
	c.TricksWon = cloneCounts(s.TricksWon)
	c.CumulativeScores = cloneCounts(s.CumulativeScores)
	if s.Scoreboard != nil {
		c.Scoreboard = s.ScoreboardEntries()
	}
	return &c
}

// Snapshot returns a deep copy for persistence.
func (s *State) Snapshot() any { return s.Clone() }

var (
	_ game.Engine[View, Action] = (*State)(nil)
	_ game.Advancer             = (*State)(nil)
)
