package deck

import (
	"encoding/json"
	rand "math/rand/v2"
)

// Sizes of the two decks produced by the factory.
const (
	DurakSize = 36
	JokerSize = 36
)

// Deck is an ordered pile of cards. Dealing consumes cards from the front;
// the bottom card is the last one in the pile.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewDurak creates the shuffled 36-card deck (six through ace in four suits).
func NewDurak(rng *rand.Rand) *Deck {
	d := &Deck{cards: make([]Card, 0, DurakSize), rng: rng}
	for _, suit := range Suits {
		for _, rank := range Ranks {
			d.add(NewCard(suit, rank))
		}
	}
	d.Shuffle()
	return d
}

// omittedForJokers lists the two cards replaced by jokers in the bid-trick deck.
var omittedForJokers = []Card{
	NewCard(Spades, Six),
	NewCard(Clubs, Six),
}

// NewJoker creates the shuffled bid-trick deck: the 36-card deck without the
// black sixes, plus the red and black jokers.
func NewJoker(rng *rand.Rand) *Deck {
	d := &Deck{cards: make([]Card, 0, JokerSize), rng: rng}
	for _, suit := range Suits {
		for _, rank := range Ranks {
			c := NewCard(suit, rank)
			if isOmitted(c) {
				continue
			}
			d.add(c)
		}
	}
	d.add(NewJokerCard(RedJoker))
	d.add(NewJokerCard(BlackJoker))
	d.Shuffle()
	return d
}

func isOmitted(c Card) bool {
	for _, o := range omittedForJokers {
		if o.Same(c) {
			return true
		}
	}
	return false
}

// NewDeckFrom builds an unshuffled deck from an explicit order. Used when
// restoring state and for deterministic tests.
func NewDeckFrom(cards []Card) *Deck {
	d := &Deck{cards: make([]Card, len(cards))}
	copy(d.cards, cards)
	return d
}

func (d *Deck) add(c Card) {
	c.ID = len(d.cards)
	d.cards = append(d.cards, c)
}

// Shuffle shuffles the deck using Fisher-Yates
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		var j int
		if d.rng != nil {
			j = d.rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns up to n cards from the front of the deck
func (d *Deck) Deal(n int) []Card {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	if n <= 0 {
		return nil
	}
	cards := make([]Card, n)
	copy(cards, d.cards[:n])
	d.cards = d.cards[n:]
	return cards
}

// DealOne removes and returns the front card
func (d *Deck) DealOne() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// Peek returns the front card without removing it
func (d *Deck) Peek() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	return d.cards[0], true
}

// Bottom returns the last card of the deck without removing it
func (d *Deck) Bottom() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	return d.cards[len(d.cards)-1], true
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return len(d.cards)
}

// IsEmpty returns true if the deck has no cards left
func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}

// Cards returns a copy of the remaining cards in deal order
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}

// Clone returns an independent copy. The clone does not share the RNG.
func (d *Deck) Clone() *Deck {
	if d == nil {
		return nil
	}
	return NewDeckFrom(d.cards)
}

// MarshalJSON encodes the remaining cards in deal order.
func (d *Deck) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.cards)
}

// UnmarshalJSON restores a deck saved by MarshalJSON. The restored deck has no
// RNG; a later Shuffle falls back to the global source.
func (d *Deck) UnmarshalJSON(data []byte) error {
	var cards []Card
	if err := json.Unmarshal(data, &cards); err != nil {
		return err
	}
	d.cards, d.rng = cards, nil
	return nil
}
