package game

import (
	"errors"
	"fmt"
)

// RejectKind classifies a rejected action.
type RejectKind int

const (
	IllegalCard RejectKind = iota + 1
	IllegalBid
	OutOfTurn
	WrongPhase
)

func (k RejectKind) String() string {
	switch k {
	case IllegalCard:
		return "illegal_card"
	case IllegalBid:
		return "illegal_bid"
	case OutOfTurn:
		return "out_of_turn"
	case WrongPhase:
		return "wrong_phase"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is checks against a *Rejection.
var (
	ErrIllegalCard = errors.New("illegal card")
	ErrIllegalBid  = errors.New("illegal bid")
	ErrOutOfTurn   = errors.New("not your turn")
	ErrWrongPhase  = errors.New("wrong phase")
)

// Rejection is returned when an action is refused. The state is unchanged and
// the same seat may simply try again.
type Rejection struct {
	Kind   RejectKind
	Reason string
}

// Reject builds a Rejection with a formatted reason.
func Reject(kind RejectKind, format string, args ...any) *Rejection {
	return &Rejection{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

func (r *Rejection) Error() string {
	if r.Reason == "" {
		return r.Unwrap().Error()
	}
	return fmt.Sprintf("%s: %s", r.Unwrap(), r.Reason)
}

// Unwrap maps the kind onto its sentinel error.
func (r *Rejection) Unwrap() error {
	switch r.Kind {
	case IllegalCard:
		return ErrIllegalCard
	case IllegalBid:
		return ErrIllegalBid
	case OutOfTurn:
		return ErrOutOfTurn
	case WrongPhase:
		return ErrWrongPhase
	default:
		return errors.New("rejected")
	}
}

// IsRejection reports whether err is a recoverable rejected action rather
// than an infrastructure failure.
func IsRejection(err error) bool {
	var r *Rejection
	return errors.As(err, &r)
}
