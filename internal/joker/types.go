package joker

import (
	"fmt"

	"github.com/lox/cardtable/internal/deck"
	"github.com/lox/cardtable/internal/game"
	"github.com/lox/cardtable/internal/rules"
)

// SeatCount is the fixed number of seats.
const SeatCount = 4

// Phase of a bid-trick game
type Phase int

const (
	PhaseBidding Phase = iota
	PhasePlaying
	PhaseRoundEnd
	PhaseGameEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseBidding:
		return "bidding"
	case PhasePlaying:
		return "playing"
	case PhaseRoundEnd:
		return "round_end"
	case PhaseGameEnd:
		return "game_end"
	default:
		return "unknown"
	}
}

// ActionKind enumerates what a seat can do
type ActionKind int

const (
	Bid ActionKind = iota + 1
	Play
	DeclareJoker
)

func (k ActionKind) String() string {
	switch k {
	case Bid:
		return "bid"
	case Play:
		return "play"
	case DeclareJoker:
		return "declare"
	default:
		return "unknown"
	}
}

// Action is one move.
//
// A Play of a joker may carry its declaration in Mode and Suit. Suit is only
// meaningful when the joker leads. A joker played without a complete
// declaration is held as pending until the same seat sends DeclareJoker.
type Action struct {
	Kind   ActionKind
	Amount int
	Card   deck.Card
	Mode   rules.JokerMode
	Suit   deck.Suit
}

// BidAction builds a bid.
func BidAction(n int) Action { return Action{Kind: Bid, Amount: n} }

// PlayCard builds a play of a normal card, or an undeclared joker.
func PlayCard(c deck.Card) Action { return Action{Kind: Play, Card: c} }

// PlayJoker builds a play of a joker with its declaration.
func PlayJoker(c deck.Card, mode rules.JokerMode, suit deck.Suit) Action {
	return Action{Kind: Play, Card: c, Mode: mode, Suit: suit}
}

// Declare resolves a pending joker.
func Declare(mode rules.JokerMode, suit deck.Suit) Action {
	return Action{Kind: DeclareJoker, Mode: mode, Suit: suit}
}

func (a Action) String() string {
	switch a.Kind {
	case Bid:
		return fmt.Sprintf("bid %d", a.Amount)
	case Play:
		if a.Card.IsJoker() && a.Mode != rules.NoMode {
			if a.Suit.Valid() {
				return fmt.Sprintf("play %s %s %s", a.Card, a.Mode, a.Suit)
			}
			return fmt.Sprintf("play %s %s", a.Card, a.Mode)
		}
		return fmt.Sprintf("play %s", a.Card)
	case DeclareJoker:
		if a.Suit.Valid() {
			return fmt.Sprintf("declare %s %s", a.Mode, a.Suit)
		}
		return fmt.Sprintf("declare %s", a.Mode)
	default:
		return a.Kind.String()
	}
}

// PendingJoker is a joker chosen by a seat whose declaration is still open.
type PendingJoker struct {
	Seat game.PlayerID
	Card deck.Card
}

// View is what one seat may see. Other hands appear only as counts.
type View struct {
	Seat          game.PlayerID
	Phase         Phase
	Round         int
	Set           int
	CardsPerRound int
	Dealer        game.PlayerID
	CurrentPlayer game.PlayerID
	TrickLeader   game.PlayerID
	Hand          []deck.Card
	CurrentTrick  []rules.PlayedCard
	TrumpCard     deck.Card
	TrumpSuit     deck.Suit
	Bids          map[game.PlayerID]int
	TricksWon     map[game.PlayerID]int
	Scores        map[game.PlayerID]int
	HandSizes     map[game.PlayerID]int
	DeckCount     int
	// PendingJoker is set when this seat owes a joker declaration.
	PendingJoker *deck.Card
	Seats        []game.PlayerID
}

// TrickCompletedEvent is published when the fourth card lands.
type TrickCompletedEvent struct {
	Round  int
	Winner game.PlayerID
	Cards  []rules.PlayedCard
}

func (TrickCompletedEvent) EventType() game.EventType { return game.EventTypeTrickCompleted }

// RoundScoredEvent carries the scoreboard line of a finished round.
type RoundScoredEvent struct {
	Entry RoundScoreEntry
}

func (RoundScoredEvent) EventType() game.EventType { return game.EventTypeRoundScored }

// RoundStartedEvent is published after a new round is dealt.
type RoundStartedEvent struct {
	Round         int
	Set           int
	CardsPerRound int
	Dealer        game.PlayerID
	TrumpCard     deck.Card
	TrumpSuit     deck.Suit
}

func (RoundStartedEvent) EventType() game.EventType { return game.EventTypeRoundStarted }
