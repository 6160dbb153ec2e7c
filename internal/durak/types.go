package durak

import (
	"fmt"

	"github.com/lox/cardtable/internal/deck"
	"github.com/lox/cardtable/internal/game"
	"github.com/lox/cardtable/internal/rules"
)

// Phase of an attack-defense game
type Phase int

const (
	PhaseAttack Phase = iota
	PhaseDefense
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseAttack:
		return "attack"
	case PhaseDefense:
		return "defense"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// ActionKind enumerates what a seat can do
type ActionKind int

const (
	Attack ActionKind = iota + 1
	Defend
	Pass // bito: end the exchange once every attack is beaten
	Take
)

func (k ActionKind) String() string {
	switch k {
	case Attack:
		return "attack"
	case Defend:
		return "defend"
	case Pass:
		return "pass"
	case Take:
		return "take"
	default:
		return "unknown"
	}
}

// Action is one move. Card is used by Attack and Defend; Target is the table
// slot a Defend answers.
type Action struct {
	Kind   ActionKind
	Card   deck.Card
	Target int
}

// AttackWith builds an attack action.
func AttackWith(c deck.Card) Action { return Action{Kind: Attack, Card: c} }

// DefendWith builds a defense of slot target.
func DefendWith(c deck.Card, target int) Action { return Action{Kind: Defend, Card: c, Target: target} }

// PassAction ends the exchange (bito).
func PassAction() Action { return Action{Kind: Pass} }

// TakeAction picks up the table.
func TakeAction() Action { return Action{Kind: Take} }

func (a Action) String() string {
	switch a.Kind {
	case Attack:
		return fmt.Sprintf("attack %s", a.Card)
	case Defend:
		return fmt.Sprintf("defend %d with %s", a.Target, a.Card)
	default:
		return a.Kind.String()
	}
}

// Role of a seat in the current exchange
type Role int

const (
	Attacker Role = iota
	Defender
)

func (r Role) String() string {
	if r == Attacker {
		return "attacker"
	}
	return "defender"
}

// View is what one seat may see. Opponent cards appear only as a count.
type View struct {
	Seat             game.PlayerID
	Opponent         game.PlayerID
	Role             Role
	Phase            Phase
	Hand             []deck.Card
	Table            []rules.Pair
	TrumpCard        deck.Card
	TrumpSuit        deck.Suit
	DeckCount        int
	DiscardCount     int
	OpponentHandSize int
}

// ExchangeEndedEvent is published when the table clears, by bito or take.
type ExchangeEndedEvent struct {
	Attacker game.PlayerID
	Defender game.PlayerID
	Taken    bool
	Cards    int
}

func (ExchangeEndedEvent) EventType() game.EventType { return game.EventTypeExchangeEnded }
