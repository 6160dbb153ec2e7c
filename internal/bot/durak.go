package bot

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/cardtable/internal/deck"
	"github.com/lox/cardtable/internal/durak"
	"github.com/lox/cardtable/internal/rules"
)

const (
	// easyDurakStopChance is the chance an easy bot passes or takes when it
	// could also play a card.
	easyDurakStopChance = 0.3

	// A trump at or above this rank is only spent when more than
	// takeThreshold cards are on the table.
	expensiveTrump = deck.Queen
	takeThreshold  = 2
)

// DurakBot plays the attack-defense game.
type DurakBot = Bot[durak.View, durak.Action]

// NewDurak creates an attack-defense bot of the given tier.
func NewDurak(tier Tier, rng *rand.Rand, logger *log.Logger, opts ...Option) *DurakBot {
	return New[durak.View, durak.Action](tier, DurakStrategy{}, rng, logger, opts...)
}

// DurakStrategy ranks attack-defense actions.
type DurakStrategy struct{}

// Choose implements Strategy.
func (DurakStrategy) Choose(tier Tier, v durak.View, actions []durak.Action, rng *rand.Rand, thinking *ThinkingContext) int {
	switch tier {
	case Easy:
		return coinFlip(rng, actions, easyDurakStopChance, isResolution, thinking)
	case Hard:
		if v.Role == durak.Defender {
			return defend(v, actions, thinking, v.DeckCount == 0)
		}
		return hardAttack(v, actions, thinking)
	default:
		if v.Role == durak.Defender {
			return defend(v, actions, thinking, false)
		}
		return mediumAttack(v, actions, thinking)
	}
}

func isResolution(a durak.Action) bool {
	return a.Kind == durak.Pass || a.Kind == durak.Take
}

// cost orders cards for spending: every non-trump before any trump, then by
// rank.
func cost(c deck.Card, trump deck.Suit) int {
	if trump.Valid() && c.Suit == trump {
		return 100 + c.Value()
	}
	return c.Value()
}

func isTrump(c deck.Card, trump deck.Suit) bool {
	return trump.Valid() && c.Suit == trump
}

func indexOfKind(actions []durak.Action, kind durak.ActionKind) int {
	for i, a := range actions {
		if a.Kind == kind {
			return i
		}
	}
	return -1
}

// cheapest returns the index of the lowest-cost action accepted by keep.
func cheapest(actions []durak.Action, trump deck.Suit, keep func(durak.Action) bool) int {
	best := -1
	for i, a := range actions {
		if !keep(a) {
			continue
		}
		if best < 0 || cost(a.Card, trump) < cost(actions[best].Card, trump) {
			best = i
		}
	}
	return best
}

func isAttack(a durak.Action) bool { return a.Kind == durak.Attack }

func mediumAttack(v durak.View, actions []durak.Action, thinking *ThinkingContext) int {
	pass := indexOfKind(actions, durak.Pass)
	idx := cheapest(actions, v.TrumpSuit, isAttack)
	if idx < 0 {
		thinking.AddThought("Nothing to throw in, bito")
		return pass
	}
	if pass >= 0 && isTrump(actions[idx].Card, v.TrumpSuit) {
		thinking.AddThought("Only trumps left to throw in, bito")
		return pass
	}
	thinking.AddThought(fmt.Sprintf("Lowest attack card %s", actions[idx].Card))
	return idx
}

// hardAttack saves trumps while the deck lasts. Once the deck is empty it
// leads medium ranks first to draw out the defender's trumps and keeps its
// lowest cards for the end.
func hardAttack(v durak.View, actions []durak.Action, thinking *ThinkingContext) int {
	pass := indexOfKind(actions, durak.Pass)
	throwIn := len(v.Table) > 0

	if v.DeckCount > 0 {
		idx := cheapest(actions, v.TrumpSuit, func(a durak.Action) bool {
			if !isAttack(a) || isTrump(a.Card, v.TrumpSuit) {
				return false
			}
			return !throwIn || a.Card.Rank <= deck.Ten
		})
		if idx >= 0 {
			thinking.AddThought(fmt.Sprintf("Deck has %d cards, cheap attack %s", v.DeckCount, actions[idx].Card))
			return idx
		}
		if pass >= 0 {
			thinking.AddThought("Keeping trumps and high cards while the deck lasts")
			return pass
		}
		return cheapest(actions, v.TrumpSuit, isAttack)
	}

	thinking.AddThought("Deck is empty, endgame play")
	best, bestScore := -1, 0
	for i, a := range actions {
		if !isAttack(a) || isTrump(a.Card, v.TrumpSuit) {
			continue
		}
		score := endgameScore(a.Card, v.Hand)
		if best < 0 || score > bestScore {
			best, bestScore = i, score
		}
	}
	if best >= 0 {
		thinking.AddThought(fmt.Sprintf("Forcing trumps with %s", actions[best].Card))
		return best
	}
	if pass >= 0 && v.OpponentHandSize > 0 && len(v.Hand) > 1 {
		return pass
	}
	return cheapest(actions, v.TrumpSuit, isAttack)
}

// endgameScore favors middle ranks and ranks the bot holds several of, so a
// throw-in can follow.
func endgameScore(c deck.Card, hand []deck.Card) int {
	mid := (deck.Nine.Value() + deck.Queen.Value()) / 2
	d := c.Value() - mid
	if d < 0 {
		d = -d
	}
	score := 10 - d
	for _, h := range hand {
		if h.Rank == c.Rank && !h.Same(c) {
			score += 3
		}
	}
	return score
}

// defend answers the first undefended slot with its cheapest defense. It
// takes when some slot cannot be beaten, or when the only answer is an
// expensive trump and little is at stake. In the endgame the threshold is
// relaxed so high trumps are kept unless taking is costly.
func defend(v durak.View, actions []durak.Action, thinking *ThinkingContext, endgame bool) int {
	take := indexOfKind(actions, durak.Take)

	slot := -1
	for i, p := range v.Table {
		if !p.Defended() {
			slot = i
			break
		}
	}
	if slot < 0 {
		return take
	}
	for _, p := range v.Table {
		if !p.Defended() && len(rules.Defenses(v.Hand, p.Attack, v.TrumpSuit)) == 0 {
			thinking.AddThought(fmt.Sprintf("Cannot beat %s, taking", p.Attack))
			return take
		}
	}

	idx := cheapest(actions, v.TrumpSuit, func(a durak.Action) bool {
		return a.Kind == durak.Defend && a.Target == slot
	})
	if idx < 0 {
		return take
	}
	card := actions[idx].Card
	atStake := tableCards(v.Table)
	threshold := takeThreshold
	if endgame {
		threshold = takeThreshold + 1
	}
	if isTrump(card, v.TrumpSuit) && card.Rank >= expensiveTrump && atStake <= threshold && take >= 0 {
		thinking.AddThought(fmt.Sprintf("Saving %s, only %d cards at stake", card, atStake))
		return take
	}
	thinking.AddThought(fmt.Sprintf("Beating %s with %s", v.Table[slot].Attack, card))
	return idx
}

func tableCards(table []rules.Pair) int {
	n := len(table)
	for _, p := range table {
		if p.Defended() {
			n++
		}
	}
	return n
}
