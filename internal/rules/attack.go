package rules

import "github.com/lox/cardtable/internal/deck"

// MaxAttacks is the most attack cards one exchange may hold.
const MaxAttacks = 6

// FirstExchangeMaxAttacks applies while nothing has been discarded yet.
const FirstExchangeMaxAttacks = 5

// Pair is one slot on the table: an attack card and its defense, if any.
type Pair struct {
	Attack  deck.Card
	Defense *deck.Card
}

// Defended reports whether the slot has been beaten.
func (p Pair) Defended() bool {
	return p.Defense != nil
}

// CanBeat reports whether defense beats attack under the given trump suit.
//
// Same suit wins only with a strictly higher rank. A trump beats any
// non-trump. A trump attack is beaten only by a higher trump. Any other
// cross-suit combination never beats.
func CanBeat(attack, defense deck.Card, trump deck.Suit) bool {
	if attack.IsJoker() || defense.IsJoker() {
		return false
	}
	if attack.Suit == defense.Suit {
		return defense.Beats(attack)
	}
	return trump.Valid() && defense.Suit == trump
}

// CanAddToAttack reports whether card may be laid in the current exchange.
// The first card is always legal; later cards must match a rank already on the
// table, on either side.
func CanAddToAttack(card deck.Card, table []Pair) bool {
	if card.IsJoker() {
		return false
	}
	if len(table) == 0 {
		return true
	}
	for _, p := range table {
		if p.Attack.Rank == card.Rank {
			return true
		}
		if p.Defense != nil && p.Defense.Rank == card.Rank {
			return true
		}
	}
	return false
}

// HasAttackRoom reports whether another attack card fits: the exchange holds
// fewer than maxAttacks cards and the defender can still answer every
// undefended attack from their hand.
func HasAttackRoom(table []Pair, defenderHandSize, maxAttacks int) bool {
	if len(table) >= maxAttacks {
		return false
	}
	return Undefended(table) < defenderHandSize
}

// Undefended counts slots without a defense.
func Undefended(table []Pair) int {
	n := 0
	for _, p := range table {
		if !p.Defended() {
			n++
		}
	}
	return n
}

// AllDefended reports whether every slot is beaten. An empty table counts as defended.
func AllDefended(table []Pair) bool {
	return Undefended(table) == 0
}

// Attackable returns the cards in hand that may be added to the table.
func Attackable(hand []deck.Card, table []Pair) []deck.Card {
	var out []deck.Card
	for _, c := range hand {
		if CanAddToAttack(c, table) {
			out = append(out, c)
		}
	}
	return out
}

// Defenses returns the cards in hand that beat attack.
func Defenses(hand []deck.Card, attack deck.Card, trump deck.Suit) []deck.Card {
	var out []deck.Card
	for _, c := range hand {
		if CanBeat(attack, c, trump) {
			out = append(out, c)
		}
	}
	return out
}
