package bot

import (
	"io"
	rand "math/rand/v2"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/cardtable/internal/deck"
	"github.com/lox/cardtable/internal/durak"
	"github.com/lox/cardtable/internal/game"
	"github.com/lox/cardtable/internal/joker"
	"github.com/lox/cardtable/internal/randutil"
	"github.com/lox/cardtable/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statesPerTier = 10000

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestParseTier(t *testing.T) {
	for _, tier := range Tiers {
		got, err := ParseTier(tier.String())
		require.NoError(t, err)
		assert.Equal(t, tier, got)
	}
	got, err := ParseTier(" HARD ")
	require.NoError(t, err)
	assert.Equal(t, Hard, got)
	_, err = ParseTier("grandmaster")
	assert.Error(t, err)
}

func TestThinkTimeWithinRange(t *testing.T) {
	for _, tier := range Tiers {
		b := NewDurak(tier, randutil.New(1), quietLogger())
		r := tier.DefaultDelay()
		for i := 0; i < 100; i++ {
			d := b.ThinkTime()
			assert.GreaterOrEqual(t, d, r.Min)
			assert.LessOrEqual(t, d, r.Max)
		}
		assert.Positive(t, game.ThinkTimeOf(b))
	}

	fixed := NewJoker(Hard, randutil.New(1), quietLogger(), WithDelay(DelayRange{Min: time.Second, Max: time.Second}))
	assert.Equal(t, time.Second, fixed.ThinkTime())
}

func TestNoValidActions(t *testing.T) {
	b := NewDurak(Medium, randutil.New(1), quietLogger())
	d := b.MakeDecision(durak.View{}, nil)
	assert.Equal(t, durak.Action{}, d.Action)
}

type badStrategy struct{}

func (badStrategy) Choose(Tier, int, []string, *rand.Rand, *ThinkingContext) int { return 99 }

func TestOutOfRangeStrategyFallsBackToLegal(t *testing.T) {
	b := New[int, string](Hard, badStrategy{}, randutil.New(1), quietLogger())
	d := b.MakeDecision(0, []string{"x", "y"})
	assert.Contains(t, []string{"x", "y"}, d.Action)
}

// durakStates plays random games and calls visit for every decision point.
func durakStates(t *testing.T, n int, visit func(s *durak.State, seat game.PlayerID)) {
	t.Helper()
	seats := []game.PlayerID{"p1", "p2"}
	rng := randutil.New(99)
	for seen, g := 0, int64(0); seen < n; g++ {
		s := durak.NewGame(randutil.Stream(7, g), seats)
		for steps := 0; !s.IsOver() && seen < n; steps++ {
			require.Less(t, steps, 2000)
			seat, _ := s.Turn()
			visit(s, seat)
			seen++
			actions := s.ValidActions(seat)
			_, err := s.Apply(seat, actions[rng.IntN(len(actions))])
			require.NoError(t, err)
		}
	}
}

func jokerStates(t *testing.T, n int, visit func(s *joker.State, seat game.PlayerID)) {
	t.Helper()
	seats := []game.PlayerID{"p1", "p2", "p3", "p4"}
	rng := randutil.New(99)
	for seen, g := 0, int64(0); seen < n; g++ {
		s := joker.NewGame(randutil.Derive(11, g), seats)
		for steps := 0; !s.IsOver() && seen < n; steps++ {
			require.Less(t, steps, 5000)
			seat, ok := s.Turn()
			if !ok {
				_, err := s.Advance()
				require.NoError(t, err)
				continue
			}
			visit(s, seat)
			seen++
			actions := s.ValidActions(seat)
			_, err := s.Apply(seat, actions[rng.IntN(len(actions))])
			require.NoError(t, err)
		}
	}
}

func TestDurakBotsNeverIllegal(t *testing.T) {
	for _, tier := range Tiers {
		t.Run(tier.String(), func(t *testing.T) {
			b := NewDurak(tier, randutil.New(int64(tier)+1), quietLogger())
			durakStates(t, statesPerTier, func(s *durak.State, seat game.PlayerID) {
				d := b.MakeDecision(s.View(seat), s.ValidActions(seat))
				_, err := durak.Step(s, seat, d.Action)
				require.NoError(t, err, "%s chose %s", tier, d.Action)
			})
		})
	}
}

func TestJokerBotsNeverIllegal(t *testing.T) {
	for _, tier := range Tiers {
		t.Run(tier.String(), func(t *testing.T) {
			b := NewJoker(tier, randutil.New(int64(tier)+1), quietLogger())
			jokerStates(t, statesPerTier, func(s *joker.State, seat game.PlayerID) {
				d := b.MakeDecision(s.View(seat), s.ValidActions(seat))
				_, err := joker.Step(s, seat, d.Action)
				require.NoError(t, err, "%s chose %s", tier, d.Action)
			})
		})
	}
}

func TestBotsAreReproducible(t *testing.T) {
	play := func() []durak.Action {
		var out []durak.Action
		b := NewDurak(Easy, randutil.New(5), quietLogger())
		durakStates(t, 300, func(s *durak.State, seat game.PlayerID) {
			out = append(out, b.MakeDecision(s.View(seat), s.ValidActions(seat)).Action)
		})
		return out
	}
	assert.Equal(t, play(), play())
}

func cards(s string) []deck.Card { return deck.MustParseCards(s) }

func TestMediumDurakAttacksWithLowestNonTrump(t *testing.T) {
	v := durak.View{
		Role:      durak.Attacker,
		Phase:     durak.PhaseAttack,
		Hand:      cards("6s 9h 7d As"),
		TrumpSuit: deck.Spades,
		DeckCount: 10,
	}
	var actions []durak.Action
	for _, c := range v.Hand {
		actions = append(actions, durak.AttackWith(c))
	}

	d := NewDurak(Medium, randutil.New(1), quietLogger()).MakeDecision(v, actions)
	assert.Equal(t, "7♦", d.Action.Card.String())
	assert.NotEmpty(t, d.Reasoning)
}

func TestMediumDurakPassesRatherThanThrowingTrump(t *testing.T) {
	table := []rules.Pair{{Attack: deck.MustParseCard("7d"), Defense: ptr(deck.MustParseCard("9d"))}}
	v := durak.View{
		Role:      durak.Attacker,
		Phase:     durak.PhaseAttack,
		Hand:      cards("7s Kh"),
		Table:     table,
		TrumpSuit: deck.Spades,
		DeckCount: 10,
	}
	actions := []durak.Action{durak.AttackWith(deck.MustParseCard("7s")), durak.PassAction()}

	d := NewDurak(Medium, randutil.New(1), quietLogger()).MakeDecision(v, actions)
	assert.Equal(t, durak.Pass, d.Action.Kind)
}

func ptr(c deck.Card) *deck.Card { return &c }

func defenseView(hand string, attack string) (durak.View, []durak.Action) {
	v := durak.View{
		Role:      durak.Defender,
		Phase:     durak.PhaseDefense,
		Hand:      cards(hand),
		Table:     []rules.Pair{{Attack: deck.MustParseCard(attack)}},
		TrumpSuit: deck.Spades,
		DeckCount: 10,
	}
	var actions []durak.Action
	for _, c := range rules.Defenses(v.Hand, v.Table[0].Attack, v.TrumpSuit) {
		actions = append(actions, durak.DefendWith(c, 0))
	}
	return v, append(actions, durak.TakeAction())
}

func TestMediumDurakDefendsCheaply(t *testing.T) {
	v, actions := defenseView("Kh 9h 7s", "8h")
	d := NewDurak(Medium, randutil.New(1), quietLogger()).MakeDecision(v, actions)
	assert.Equal(t, durak.DefendWith(deck.MustParseCard("9h"), 0).String(), d.Action.String())
}

func TestMediumDurakTakesInsteadOfSpendingHighTrump(t *testing.T) {
	v, actions := defenseView("Qs 7h", "8d")
	d := NewDurak(Medium, randutil.New(1), quietLogger()).MakeDecision(v, actions)
	assert.Equal(t, durak.Take, d.Action.Kind)

	v, actions = defenseView("7s 7h", "8d")
	d = NewDurak(Medium, randutil.New(1), quietLogger()).MakeDecision(v, actions)
	assert.Equal(t, durak.Defend, d.Action.Kind, "a low trump is cheap enough")
}

func TestDurakTakesWhenUnbeatable(t *testing.T) {
	v, actions := defenseView("7h 8c", "Ad")
	require.Len(t, actions, 1)
	for _, tier := range []Tier{Medium, Hard} {
		d := NewDurak(tier, randutil.New(1), quietLogger()).MakeDecision(v, actions)
		assert.Equal(t, durak.Take, d.Action.Kind)
	}
}

func TestHardDurakEndgameLeadsMiddleRanks(t *testing.T) {
	v := durak.View{
		Role:             durak.Attacker,
		Phase:            durak.PhaseAttack,
		Hand:             cards("6h Th Tc Ah 8s"),
		TrumpSuit:        deck.Spades,
		OpponentHandSize: 4,
	}
	var actions []durak.Action
	for _, c := range v.Hand {
		actions = append(actions, durak.AttackWith(c))
	}

	d := NewDurak(Hard, randutil.New(1), quietLogger()).MakeDecision(v, actions)
	assert.Equal(t, deck.Ten, d.Action.Card.Rank)

	v.DeckCount = 12
	d = NewDurak(Hard, randutil.New(1), quietLogger()).MakeDecision(v, actions)
	assert.Equal(t, "6♥", d.Action.Card.String(), "cheapest card while the deck lasts")
}

func TestJokerBidEstimates(t *testing.T) {
	v := joker.View{
		Seat:          "p1",
		Phase:         joker.PhaseBidding,
		CardsPerRound: 4,
		Hand:          cards("RJ Ah Ks 7d"),
		TrumpSuit:     deck.Spades,
	}
	var actions []joker.Action
	for b := 0; b <= 4; b++ {
		actions = append(actions, joker.BidAction(b))
	}

	d := NewJoker(Medium, randutil.New(1), quietLogger()).MakeDecision(v, actions)
	assert.Equal(t, 3, d.Action.Amount)

	// Forbidden value removed: the closest lower bid wins ties.
	withoutThree := append(append([]joker.Action(nil), actions[:3]...), actions[4])
	d = NewJoker(Medium, randutil.New(1), quietLogger()).MakeDecision(v, withoutThree)
	assert.Equal(t, 2, d.Action.Amount)
}

func TestJokerBotDumpsWhenBidIsMade(t *testing.T) {
	v := joker.View{
		Seat:      "p2",
		Phase:     joker.PhasePlaying,
		Seats:     []game.PlayerID{"p1", "p2", "p3", "p4"},
		Hand:      cards("Kh 7h"),
		TrumpSuit: deck.Spades,
		Bids:      map[game.PlayerID]int{"p2": 0},
		TricksWon: map[game.PlayerID]int{"p2": 0},
		CurrentTrick: []rules.PlayedCard{
			{Card: deck.MustParseCard("Qh"), PlayerID: "p1"},
		},
	}
	actions := []joker.Action{joker.PlayCard(deck.MustParseCard("Kh")), joker.PlayCard(deck.MustParseCard("7h"))}

	for _, tier := range []Tier{Medium, Hard} {
		d := NewJoker(tier, randutil.New(1), quietLogger()).MakeDecision(v, actions)
		assert.Equal(t, "play 7♥", d.Action.String(), tier.String())
	}

	v.Bids["p2"] = 1
	d := NewJoker(Medium, randutil.New(1), quietLogger()).MakeDecision(v, actions)
	assert.Equal(t, "play K♥", d.Action.String())
}

func TestJokerBotDeclaresPendingJoker(t *testing.T) {
	rj := deck.MustParseCard("RJ")
	v := joker.View{
		Seat:         "p1",
		Phase:        joker.PhasePlaying,
		Seats:        []game.PlayerID{"p1", "p2", "p3", "p4"},
		Hand:         []deck.Card{rj, deck.MustParseCard("7c")},
		TrumpSuit:    deck.Spades,
		Bids:         map[game.PlayerID]int{"p1": 1},
		TricksWon:    map[game.PlayerID]int{"p1": 0},
		PendingJoker: &rj,
	}
	var actions []joker.Action
	for _, m := range []rules.JokerMode{rules.High, rules.Low} {
		for _, s := range deck.Suits {
			actions = append(actions, joker.Declare(m, s))
		}
	}

	d := NewJoker(Hard, randutil.New(1), quietLogger()).MakeDecision(v, actions)
	assert.Equal(t, joker.Declare(rules.High, deck.Spades), d.Action, "leads high in trump to pull trumps")
}
