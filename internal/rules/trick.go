package rules

import "github.com/lox/cardtable/internal/deck"

// JokerMode is the declaration attached to a played joker.
type JokerMode int8

const (
	NoMode JokerMode = iota
	High
	Low
)

func (m JokerMode) String() string {
	switch m {
	case High:
		return "high"
	case Low:
		return "low"
	default:
		return "none"
	}
}

// PlayedCard is one card in a trick. Mode is set for jokers. DeclaredSuit is
// set only for a joker that leads the trick.
type PlayedCard struct {
	Card         deck.Card
	PlayerID     string
	Mode         JokerMode
	DeclaredSuit deck.Suit
}

// LeadSuit is the suit the trick is played to: the first card's suit, or the
// declared suit when a joker led. Returns NoSuit for an empty trick.
func LeadSuit(trick []PlayedCard) deck.Suit {
	if len(trick) == 0 {
		return deck.NoSuit
	}
	lead := trick[0]
	if lead.Card.IsJoker() {
		return lead.DeclaredSuit
	}
	return lead.Card.Suit
}

// CanPlayCard reports whether card may be played from hand into trick.
//
// A joker is always playable. After a joker led high, a player holding the
// declared suit must play their highest card of it; otherwise they must play a
// joker if they have one; otherwise anything goes. After a joker led low, or a
// normal lead, players follow the suit, else trump, else anything.
func CanPlayCard(card deck.Card, hand []deck.Card, trump deck.Suit, trick []PlayedCard) bool {
	if !deck.Contains(hand, card) {
		return false
	}
	if card.IsJoker() || len(trick) == 0 {
		return true
	}

	lead := trick[0]
	if lead.Card.IsJoker() && lead.Mode == High {
		if best, ok := HighestOfSuit(hand, lead.DeclaredSuit); ok {
			return card.Same(best)
		}
		return !hasJoker(hand)
	}
	return followsOrTrumps(card, hand, LeadSuit(trick), trump)
}

func followsOrTrumps(card deck.Card, hand []deck.Card, suit, trump deck.Suit) bool {
	if suit.Valid() && HasSuit(hand, suit) {
		return card.Suit == suit
	}
	if trump.Valid() && HasSuit(hand, trump) {
		return card.Suit == trump
	}
	return true
}

// PlayableCards filters hand through CanPlayCard.
func PlayableCards(hand []deck.Card, trump deck.Suit, trick []PlayedCard) []deck.Card {
	var out []deck.Card
	for _, c := range hand {
		if CanPlayCard(c, hand, trump, trick) {
			out = append(out, c)
		}
	}
	return out
}

// HasSuit reports whether hand holds a non-joker card of suit.
func HasSuit(hand []deck.Card, suit deck.Suit) bool {
	for _, c := range hand {
		if !c.IsJoker() && c.Suit == suit {
			return true
		}
	}
	return false
}

// HighestOfSuit returns the highest non-joker card of suit in hand.
func HighestOfSuit(hand []deck.Card, suit deck.Suit) (deck.Card, bool) {
	var best deck.Card
	found := false
	for _, c := range hand {
		if c.IsJoker() || c.Suit != suit {
			continue
		}
		if !found || c.Beats(best) {
			best, found = c, true
		}
	}
	return best, found
}

func hasJoker(hand []deck.Card) bool {
	for _, c := range hand {
		if c.IsJoker() {
			return true
		}
	}
	return false
}

// TrickWinner returns the index in trick of the winning card, or -1 for an
// empty trick. It works on partial tricks too, which is how previews are built.
//
// Priority: the last high joker wins, unless its declared suit is not trump
// and a trump was played, in which case the highest trump wins. If every card
// is a low joker the last one wins. Otherwise the highest trump wins, else the
// highest card of the lead suit, else the first card.
func TrickWinner(trick []PlayedCard, trump deck.Suit) int {
	if len(trick) == 0 {
		return -1
	}

	lastHigh := -1
	allLow := true
	for i, pc := range trick {
		if pc.Card.IsJoker() && pc.Mode == High {
			lastHigh = i
		}
		if !pc.Card.IsJoker() || pc.Mode != Low {
			allLow = false
		}
	}

	highestTrump := highestIndexOfSuit(trick, trump)
	if lastHigh >= 0 {
		if trick[lastHigh].DeclaredSuit != trump && highestTrump >= 0 {
			return highestTrump
		}
		return lastHigh
	}
	if allLow {
		return len(trick) - 1
	}
	if highestTrump >= 0 {
		return highestTrump
	}
	if i := highestIndexOfSuit(trick, LeadSuit(trick)); i >= 0 {
		return i
	}
	return 0
}

func highestIndexOfSuit(trick []PlayedCard, suit deck.Suit) int {
	if !suit.Valid() {
		return -1
	}
	best := -1
	for i, pc := range trick {
		if pc.Card.IsJoker() || pc.Card.Suit != suit {
			continue
		}
		if best < 0 || pc.Card.Beats(trick[best].Card) {
			best = i
		}
	}
	return best
}
