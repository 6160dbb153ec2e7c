package bot

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/cardtable/internal/deck"
	"github.com/lox/cardtable/internal/joker"
	"github.com/lox/cardtable/internal/rules"
)

// JokerBot plays the bid-trick game.
type JokerBot = Bot[joker.View, joker.Action]

// NewJoker creates a bid-trick bot of the given tier.
func NewJoker(tier Tier, rng *rand.Rand, logger *log.Logger, opts ...Option) *JokerBot {
	return New[joker.View, joker.Action](tier, JokerStrategy{}, rng, logger, opts...)
}

// JokerStrategy ranks bid-trick actions.
type JokerStrategy struct{}

// Choose implements Strategy.
func (JokerStrategy) Choose(tier Tier, v joker.View, actions []joker.Action, rng *rand.Rand, thinking *ThinkingContext) int {
	if tier == Easy {
		thinking.AddThought("Random legal action")
		return rng.IntN(len(actions))
	}
	if actions[0].Kind == joker.Bid {
		return chooseBid(tier, v, actions, thinking)
	}
	return choosePlay(tier, v, actions, thinking)
}

// estimateTricks counts the tricks a hand should take. Medium counts only
// sure winners; hard weighs every honour.
func estimateTricks(tier Tier, hand []deck.Card, trump deck.Suit) int {
	if tier != Hard {
		n := 0
		for _, c := range hand {
			switch {
			case c.IsJoker(), c.Rank == deck.Ace:
				n++
			case isTrump(c, trump) && c.Rank >= deck.King:
				n++
			}
		}
		return n
	}

	est := 0.0
	for _, c := range hand {
		switch {
		case c.IsJoker():
			est += 1
		case isTrump(c, trump):
			switch c.Rank {
			case deck.Ace:
				est += 1
			case deck.King:
				est += 0.9
			case deck.Queen:
				est += 0.6
			case deck.Jack:
				est += 0.4
			default:
				est += 0.25
			}
		case c.Rank == deck.Ace:
			est += 0.8
		case c.Rank == deck.King:
			est += 0.35
		}
	}
	return int(est + 0.4)
}

func chooseBid(tier Tier, v joker.View, actions []joker.Action, thinking *ThinkingContext) int {
	target := min(estimateTricks(tier, v.Hand, v.TrumpSuit), v.CardsPerRound)
	best := -1
	for i, a := range actions {
		if best < 0 || distance(a.Amount, target) < distance(actions[best].Amount, target) {
			best = i
		}
	}
	if actions[best].Amount != target {
		thinking.AddThought(fmt.Sprintf("Wanted to bid %d, closest allowed is %d", target, actions[best].Amount))
	} else {
		thinking.AddThought(fmt.Sprintf("Hand is worth %d tricks", target))
	}
	return best
}

func distance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// playedCard is the card an action puts on the trick.
func playedCard(v joker.View, a joker.Action) rules.PlayedCard {
	c := a.Card
	if a.Kind == joker.DeclareJoker && v.PendingJoker != nil {
		c = *v.PendingJoker
	}
	pc := rules.PlayedCard{Card: c, PlayerID: string(v.Seat)}
	if c.IsJoker() {
		pc.Mode = a.Mode
		if len(v.CurrentTrick) == 0 {
			pc.DeclaredSuit = a.Suit
		}
	}
	return pc
}

// strength orders plays from weakest to strongest. A low joker is the
// perfect discard and a high joker the surest winner.
func strength(tier Tier, pc rules.PlayedCard, trump deck.Suit) int {
	if pc.Card.IsJoker() {
		if pc.Mode == rules.Low {
			return -1
		}
		s := 40
		if tier == Hard && pc.DeclaredSuit.Valid() && pc.DeclaredSuit == trump {
			s++
		}
		return s
	}
	if isTrump(pc.Card, trump) {
		return 20 + pc.Card.Value()
	}
	return pc.Card.Value()
}

func choosePlay(tier Tier, v joker.View, actions []joker.Action, thinking *ThinkingContext) int {
	need := v.Bids[v.Seat] - v.TricksWon[v.Seat]
	want := need > 0
	leading := len(v.CurrentTrick) == 0
	last := len(v.CurrentTrick) == len(v.Seats)-1

	type option struct {
		idx      int
		strength int
		winning  bool
	}
	opts := make([]option, len(actions))
	for i, a := range actions {
		pc := playedCard(v, a)
		trick := append(append([]rules.PlayedCard(nil), v.CurrentTrick...), pc)
		opts[i] = option{
			idx:      i,
			strength: strength(tier, pc, v.TrumpSuit),
			winning:  rules.TrickWinner(trick, v.TrumpSuit) == len(v.CurrentTrick),
		}
	}

	pick := func(keep func(option) bool, strongest bool) int {
		best := -1
		for _, o := range opts {
			if !keep(o) {
				continue
			}
			if best < 0 ||
				(strongest && o.strength > opts[best].strength) ||
				(!strongest && o.strength < opts[best].strength) {
				best = o.idx
			}
		}
		return best
	}
	all := func(option) bool { return true }
	winners := func(o option) bool { return o.winning }
	losers := func(o option) bool { return !o.winning }

	if tier == Hard && want && need >= len(v.Hand) {
		thinking.AddThought(fmt.Sprintf("Need all %d remaining tricks", need))
		return pick(all, true)
	}

	if leading {
		if want {
			thinking.AddThought("Leading strong to take a trick")
			return pick(all, true)
		}
		thinking.AddThought("Leading low to stay under my bid")
		return pick(all, false)
	}

	if want {
		// Hard keeps its cheapest sure winner for the last seat and plays the
		// strongest winner earlier, when someone may still overtake.
		strongest := tier == Hard && !last
		if idx := pick(winners, strongest); idx >= 0 {
			thinking.AddThought(fmt.Sprintf("Taking the trick, %d more needed", need))
			return idx
		}
		thinking.AddThought("Cannot win this one, discarding low")
		return pick(all, false)
	}

	if idx := pick(losers, true); idx >= 0 {
		thinking.AddThought("Bid is made, dumping my highest loser")
		return idx
	}
	thinking.AddThought("Every card wins, taking with the cheapest")
	return pick(all, false)
}
