package durak

import (
	"testing"

	"github.com/lox/cardtable/internal/deck"
	"github.com/lox/cardtable/internal/game"
	"github.com/lox/cardtable/internal/randutil"
	"github.com/lox/cardtable/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seats = []game.PlayerID{"alice", "bob"}

func c(s string) deck.Card { return deck.MustParseCard(s) }

// orderedDeck deals front first, then every other card in canonical order,
// with bottom last.
func orderedDeck(t *testing.T, front, bottom string) *deck.Deck {
	t.Helper()
	cards := deck.MustParseCards(front)
	b := c(bottom)
	for _, s := range deck.Suits {
		for _, r := range deck.Ranks {
			x := deck.NewCard(s, r)
			if deck.Contains(cards, x) || x.Same(b) {
				continue
			}
			cards = append(cards, x)
		}
	}
	cards = append(cards, b)
	for i := range cards {
		cards[i].ID = i
	}
	require.Len(t, cards, deck.DurakSize)
	return deck.NewDeckFrom(cards)
}

func fixedGame(t *testing.T, opts ...Option) *State {
	t.Helper()
	d := orderedDeck(t, "6h7h8h9hThJh 7c8cQhKhAh6s", "9s")
	return NewGame(nil, seats, append([]Option{WithDeck(d)}, opts...)...)
}

func TestNewGameDeal(t *testing.T) {
	s := NewGame(randutil.New(1), seats)

	assert.Len(t, s.Hands["alice"], HandSize)
	assert.Len(t, s.Hands["bob"], HandSize)
	assert.Equal(t, deck.DurakSize-2*HandSize, s.Deck.CardsRemaining())
	bottom, _ := s.Deck.Bottom()
	assert.True(t, bottom.Same(s.TrumpCard), "trump is the bottom card and stays in the deck")
	assert.Equal(t, s.TrumpCard.Suit, s.TrumpSuit)
	assert.Equal(t, PhaseAttack, s.Phase)
	assert.Equal(t, deck.DurakSize, s.CardCount())
}

func TestLowestTrumpAttacksFirst(t *testing.T) {
	s := fixedGame(t)
	assert.Equal(t, game.PlayerID("bob"), s.AttackerID, "bob holds 6♠")
	assert.Equal(t, game.PlayerID("alice"), s.DefenderID)
}

func TestNewGamePanics(t *testing.T) {
	assert.Panics(t, func() { NewGame(randutil.New(1), []game.PlayerID{"a"}) })
	assert.Panics(t, func() { NewGame(nil, seats) })
	assert.Panics(t, func() { NewGame(randutil.New(1), []game.PlayerID{"a", "a"}) })
}

func TestAttackDefendPass(t *testing.T) {
	s := fixedGame(t, WithFirstAttacker("alice"))

	_, err := s.Apply("alice", AttackWith(c("6h")))
	require.NoError(t, err)
	assert.Equal(t, PhaseDefense, s.Phase)
	require.Len(t, s.Table, 1)

	_, err = s.Apply("bob", DefendWith(c("Qh"), 0))
	require.NoError(t, err)
	assert.Equal(t, PhaseAttack, s.Phase, "everything defended, attacker may add or pass")

	assert.Equal(t, []Action{PassAction()}, s.ValidActions("alice"), "no 6 or Q left to add")

	events, err := s.Apply("alice", PassAction())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, ExchangeEndedEvent{Attacker: "alice", Defender: "bob", Cards: 2}, events[0])

	assert.Empty(t, s.Table)
	assert.Len(t, s.Discard, 2)
	assert.Len(t, s.Hands["alice"], HandSize)
	assert.Len(t, s.Hands["bob"], HandSize)
	assert.True(t, deck.Contains(s.Hands["alice"], c("7s")), "attacker refills first")
	assert.True(t, deck.Contains(s.Hands["bob"], c("8s")))
	assert.Equal(t, game.PlayerID("bob"), s.AttackerID, "roles swap after bito")
	assert.Equal(t, game.PlayerID("alice"), s.DefenderID)
	assert.Equal(t, deck.DurakSize, s.CardCount())
}

func TestTake(t *testing.T) {
	s := fixedGame(t, WithFirstAttacker("bob"))

	_, err := s.Apply("bob", AttackWith(c("7c")))
	require.NoError(t, err)

	events, err := s.Apply("alice", TakeAction())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].(ExchangeEndedEvent).Taken)

	assert.Len(t, s.Hands["alice"], HandSize+1, "defender picks up the table")
	assert.Len(t, s.Hands["bob"], HandSize, "only the attacker refills")
	assert.Equal(t, game.PlayerID("bob"), s.AttackerID, "roles do not swap")
	assert.Equal(t, PhaseAttack, s.Phase)
	assert.Empty(t, s.Discard)
	assert.Equal(t, deck.DurakSize, s.CardCount())
}

func TestRejections(t *testing.T) {
	tests := []struct {
		name   string
		setup  []Action
		seat   game.PlayerID
		action Action
		want   error
	}{
		{name: "out of turn", seat: "bob", action: AttackWith(c("7c")), want: game.ErrOutOfTurn},
		{name: "unknown seat", seat: "mallory", action: AttackWith(c("7c")), want: game.ErrOutOfTurn},
		{name: "card not in hand", seat: "alice", action: AttackWith(c("As")), want: game.ErrIllegalCard},
		{name: "pass on empty table", seat: "alice", action: PassAction(), want: game.ErrWrongPhase},
		{name: "take during attack", seat: "alice", action: TakeAction(), want: game.ErrWrongPhase},
		{
			name:   "rank not on table",
			setup:  []Action{AttackWith(c("6h")), DefendWith(c("Qh"), 0)},
			seat:   "alice",
			action: AttackWith(c("7h")),
			want:   game.ErrIllegalCard,
		},
		{
			name:   "defense too low",
			setup:  []Action{AttackWith(c("9h"))},
			seat:   "bob",
			action: DefendWith(c("7c"), 0),
			want:   game.ErrIllegalCard,
		},
		{
			name:   "defend missing slot",
			setup:  []Action{AttackWith(c("9h"))},
			seat:   "bob",
			action: DefendWith(c("Qh"), 3),
			want:   game.ErrIllegalCard,
		},
		{
			name:   "attack during defense",
			setup:  []Action{AttackWith(c("9h"))},
			seat:   "bob",
			action: AttackWith(c("Qh")),
			want:   game.ErrWrongPhase,
		},
		{
			name:   "pass with undefended card",
			setup:  []Action{AttackWith(c("9h"))},
			seat:   "alice",
			action: PassAction(),
			want:   game.ErrOutOfTurn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := fixedGame(t, WithFirstAttacker("alice"))
			for _, a := range tt.setup {
				turn, _ := s.Turn()
				_, err := s.Apply(turn, a)
				require.NoError(t, err)
			}
			before := s.Clone()

			_, err := s.Apply(tt.seat, tt.action)
			require.ErrorIs(t, err, tt.want)
			assert.True(t, game.IsRejection(err))
			assert.Equal(t, before, s, "rejected action must not mutate state")
		})
	}
}

func TestAttackRoomLimitedByDefenderHand(t *testing.T) {
	s := fixedGame(t, WithFirstAttacker("alice"))
	s.Discard = deck.MustParseCards("AdAc") // past the first exchange
	s.Hands["bob"] = deck.MustParseCards("Qh")
	s.Hands["alice"] = deck.MustParseCards("6h6d")

	_, err := s.Apply("alice", AttackWith(c("6h")))
	require.NoError(t, err)
	_, err = s.Apply("bob", DefendWith(c("Qh"), 0))
	require.NoError(t, err)

	_, err = s.Apply("alice", AttackWith(c("6d")))
	require.ErrorIs(t, err, game.ErrIllegalCard, "bob has no cards left to answer")
	assert.Equal(t, []Action{PassAction()}, s.ValidActions("alice"))
}

func TestWinnerDetection(t *testing.T) {
	empty := deck.NewDeckFrom(nil)

	t.Run("deck empty and one hand empty", func(t *testing.T) {
		s := &State{
			Seats: seats, Deck: empty, AttackerID: "alice", DefenderID: "bob",
			Hands: map[game.PlayerID][]deck.Card{"alice": nil, "bob": deck.MustParseCards("7d")},
		}
		winner, loser, done := s.Winner()
		require.True(t, done)
		assert.Equal(t, game.PlayerID("alice"), winner)
		assert.Equal(t, game.PlayerID("bob"), loser)
	})

	t.Run("defender empties first", func(t *testing.T) {
		s := &State{
			Seats: seats, Deck: empty, AttackerID: "alice", DefenderID: "bob",
			Hands: map[game.PlayerID][]deck.Card{"alice": deck.MustParseCards("7d"), "bob": nil},
		}
		winner, _, done := s.Winner()
		require.True(t, done)
		assert.Equal(t, game.PlayerID("bob"), winner)
	})

	t.Run("deck not empty", func(t *testing.T) {
		s := &State{
			Seats: seats, Deck: deck.NewDeckFrom(deck.MustParseCards("9s")), AttackerID: "alice", DefenderID: "bob",
			Hands: map[game.PlayerID][]deck.Card{"alice": nil, "bob": deck.MustParseCards("7d")},
		}
		_, _, done := s.Winner()
		assert.False(t, done, "game continues while the deck has cards")
	})

	t.Run("neither empty", func(t *testing.T) {
		s := &State{
			Seats: seats, Deck: empty, AttackerID: "alice", DefenderID: "bob",
			Hands: map[game.PlayerID][]deck.Card{"alice": deck.MustParseCards("6d"), "bob": deck.MustParseCards("7d")},
		}
		_, _, done := s.Winner()
		assert.False(t, done)
	})
}

func TestEndgameBitoFinishesGame(t *testing.T) {
	s := &State{
		Seats:      seats,
		Deck:       deck.NewDeckFrom(nil),
		TrumpSuit:  deck.Spades,
		Hands:      map[game.PlayerID][]deck.Card{"alice": deck.MustParseCards("7d"), "bob": deck.MustParseCards("Kd8c")},
		Discard:    deck.MustParseCards("AdAc"),
		AttackerID: "alice",
		DefenderID: "bob",
		Phase:      PhaseAttack,
		HandSize:   HandSize,
	}

	_, err := s.Apply("alice", AttackWith(c("7d")))
	require.NoError(t, err)
	_, err = s.Apply("bob", DefendWith(c("Kd"), 0))
	require.NoError(t, err)
	events, err := s.Apply("alice", PassAction())
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, game.GameOverEvent{Winner: "alice", Loser: "bob"}, events[1])
	assert.Equal(t, PhaseFinished, s.Phase)
	assert.True(t, s.IsOver())
	_, ok := s.Turn()
	assert.False(t, ok)
	assert.Empty(t, s.ValidActions("alice"))

	_, err = s.Apply("bob", AttackWith(c("8c")))
	assert.ErrorIs(t, err, game.ErrWrongPhase)
}

func TestStepIsPure(t *testing.T) {
	s := fixedGame(t, WithFirstAttacker("alice"))
	before := s.Clone()

	next, err := Step(s, "alice", AttackWith(c("6h")))
	require.NoError(t, err)
	assert.Equal(t, before, s)
	assert.Equal(t, PhaseDefense, next.Phase)

	_, err = Step(s, "bob", TakeAction())
	assert.ErrorIs(t, err, game.ErrOutOfTurn)
}

func TestViewHidesOpponentHand(t *testing.T) {
	s := fixedGame(t, WithFirstAttacker("alice"))
	v := s.View("alice")

	assert.Equal(t, Attacker, v.Role)
	assert.Equal(t, game.PlayerID("bob"), v.Opponent)
	assert.Equal(t, HandSize, v.OpponentHandSize)
	assert.Equal(t, s.Deck.CardsRemaining(), v.DeckCount)

	v.Hand[0] = c("As")
	assert.False(t, deck.Contains(s.Hands["alice"], c("As")), "view must be a copy")
}

// Random legal play must conserve cards and always terminate.
func TestRandomPlayoutsConserveCards(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		rng := randutil.New(seed)
		s := NewGame(rng, seats)

		for steps := 0; !s.IsOver(); steps++ {
			require.Less(t, steps, 2000, "seed %d did not terminate", seed)
			seat, ok := s.Turn()
			require.True(t, ok)
			actions := s.ValidActions(seat)
			require.NotEmpty(t, actions, "seed %d: %s has no legal action", seed, seat)

			a := actions[rng.IntN(len(actions))]
			_, err := s.Apply(seat, a)
			require.NoError(t, err, "seed %d: %s", seed, a)
			require.Equal(t, deck.DurakSize, s.CardCount(), "seed %d", seed)
			for _, p := range s.Table {
				if p.Defense != nil {
					require.True(t, rules.CanBeat(p.Attack, *p.Defense, s.TrumpSuit))
				}
			}
		}
		assert.NotEqual(t, s.WinnerID, s.LoserID)
		assert.True(t, s.Deck.IsEmpty())
	}
}
