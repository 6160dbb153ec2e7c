package deck

import "fmt"

// Suit represents a card suit
type Suit int8

// NoSuit is the zero value. It marks jokers and rounds played without trump.
const (
	NoSuit Suit = iota
	Spades
	Hearts
	Diamonds
	Clubs
)

// Suits lists the four suits in canonical order.
var Suits = [4]Suit{Spades, Hearts, Diamonds, Clubs}

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case NoSuit:
		return "-"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Valid reports whether s is one of the four real suits.
func (s Suit) Valid() bool {
	return s >= Spades && s <= Clubs
}

// Rank represents a card rank. Only Six through Ace exist in these games.
type Rank int8

const (
	Six Rank = iota + 6
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Ranks lists the nine ranks from lowest to highest.
var Ranks = [9]Rank{Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

// rankValues is the comparison order. Everything that compares ranks goes through it.
var rankValues = map[Rank]int{
	Six:   0,
	Seven: 1,
	Eight: 2,
	Nine:  3,
	Ten:   4,
	Jack:  5,
	Queen: 6,
	King:  7,
	Ace:   8,
}

// Value returns the comparison value of the rank, or -1 for unknown ranks.
func (r Rank) Value() int {
	v, ok := rankValues[r]
	if !ok {
		return -1
	}
	return v
}

// String returns the string representation of a rank
func (r Rank) String() string {
	switch r {
	case Six:
		return "6"
	case Seven:
		return "7"
	case Eight:
		return "8"
	case Nine:
		return "9"
	case Ten:
		return "T"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		return "?"
	}
}

// JokerColor distinguishes the two jokers of the bid-trick deck.
type JokerColor int8

const (
	NotJoker JokerColor = iota
	RedJoker
	BlackJoker
)

func (j JokerColor) String() string {
	switch j {
	case RedJoker:
		return "red"
	case BlackJoker:
		return "black"
	default:
		return ""
	}
}

// Card represents a playing card.
//
// ID is a token unique within one deck instance. It is not part of the card's
// identity: use Same to compare cards.
type Card struct {
	Suit  Suit
	Rank  Rank
	ID    int
	Joker JokerColor
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// NewJokerCard creates a joker of the given color.
func NewJokerCard(color JokerColor) Card {
	return Card{Suit: NoSuit, Joker: color}
}

// IsJoker reports whether the card is one of the two jokers.
func (c Card) IsJoker() bool {
	return c.Joker != NotJoker
}

// Same reports whether both cards have the same face, ignoring ID.
func (c Card) Same(other Card) bool {
	return c.Suit == other.Suit && c.Rank == other.Rank && c.Joker == other.Joker
}

// Value returns the numeric value of the card for comparison within a suit
func (c Card) Value() int {
	if c.IsJoker() {
		return -1
	}
	return c.Rank.Value()
}

// Beats reports whether c ranks strictly higher than other. Suits are not considered.
func (c Card) Beats(other Card) bool {
	return c.Value() > other.Value()
}

// String returns the string representation of a card (e.g., "A♠")
func (c Card) String() string {
	switch c.Joker {
	case RedJoker:
		return "RJ"
	case BlackJoker:
		return "BJ"
	}
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	if c.IsJoker() {
		return c.Joker == RedJoker
	}
	return c.Suit.IsRed()
}
