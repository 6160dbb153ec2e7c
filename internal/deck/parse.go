package deck

import (
	"fmt"
	"strings"
)

// ParseCard parses a two character card such as "7d", "Ts" or "AH".
// Jokers are written "RJ" and "BJ".
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card %q: want 2 characters", s)
	}
	switch strings.ToUpper(s) {
	case "RJ":
		return NewJokerCard(RedJoker), nil
	case "BJ":
		return NewJokerCard(BlackJoker), nil
	}

	var rank Rank
	switch s[0] {
	case '6':
		rank = Six
	case '7':
		rank = Seven
	case '8':
		rank = Eight
	case '9':
		rank = Nine
	case 'T', 't':
		rank = Ten
	case 'J', 'j':
		rank = Jack
	case 'Q', 'q':
		rank = Queen
	case 'K', 'k':
		rank = King
	case 'A', 'a':
		rank = Ace
	default:
		return Card{}, fmt.Errorf("invalid rank %q in card %q", s[0], s)
	}

	var suit Suit
	switch s[1] {
	case 's', 'S':
		suit = Spades
	case 'h', 'H':
		suit = Hearts
	case 'd', 'D':
		suit = Diamonds
	case 'c', 'C':
		suit = Clubs
	default:
		return Card{}, fmt.Errorf("invalid suit %q in card %q", s[1], s)
	}
	return NewCard(suit, rank), nil
}

// ParseCards parses a concatenated or space separated list of cards, e.g. "AsKh 7d".
// Parsed cards get sequential IDs starting at 1.
func ParseCards(s string) ([]Card, error) {
	s = strings.ReplaceAll(s, " ", "")
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("invalid card list %q: odd length", s)
	}
	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		c, err := ParseCard(s[i : i+2])
		if err != nil {
			return nil, err
		}
		c.ID = len(cards) + 1
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is ParseCards for tests and fixtures; it panics on error.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// MustParseCard parses a single card and panics on error.
func MustParseCard(s string) Card {
	c, err := ParseCard(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Contains reports whether a card with the same face is in cards.
func Contains(cards []Card, c Card) bool {
	return IndexOf(cards, c) >= 0
}

// IndexOf returns the index of the first card with the same face, or -1.
func IndexOf(cards []Card, c Card) int {
	for i, x := range cards {
		if x.Same(c) {
			return i
		}
	}
	return -1
}

// Remove returns cards without the first card matching c, and whether it was found.
// The input slice is not modified.
func Remove(cards []Card, c Card) ([]Card, bool) {
	i := IndexOf(cards, c)
	if i < 0 {
		return cards, false
	}
	out := make([]Card, 0, len(cards)-1)
	out = append(out, cards[:i]...)
	out = append(out, cards[i+1:]...)
	return out, true
}

// FormatCards renders cards separated by spaces.
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
