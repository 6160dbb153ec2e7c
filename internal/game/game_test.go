package game

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRejectionUnwrapsToSentinel(t *testing.T) {
	err := fmt.Errorf("apply: %w", Reject(IllegalBid, "dealer may not bid %d", 2))

	assert.True(t, errors.Is(err, ErrIllegalBid))
	assert.False(t, errors.Is(err, ErrOutOfTurn))
	assert.True(t, IsRejection(err))
	assert.Equal(t, "apply: illegal bid: dealer may not bid 2", err.Error())

	var r *Rejection
	require.True(t, errors.As(err, &r))
	assert.Equal(t, IllegalBid, r.Kind)
}

func TestIsRejectionFalseForOtherErrors(t *testing.T) {
	assert.False(t, IsRejection(errors.New("disk full")))
	assert.False(t, IsRejection(nil))
}

func TestNextSeat(t *testing.T) {
	seats := []PlayerID{"a", "b", "c"}
	assert.Equal(t, PlayerID("b"), NextSeat(seats, "a"))
	assert.Equal(t, PlayerID("a"), NextSeat(seats, "c"))
	assert.Equal(t, PlayerID("a"), NextSeat(seats, "zz"))
	assert.Equal(t, 2, SeatIndex(seats, "c"))
	assert.Equal(t, -1, SeatIndex(seats, "zz"))
}

func TestEventBus(t *testing.T) {
	bus := NewEventBus()
	var got []EventType
	unsubscribe := bus.Subscribe(SubscriberFunc(func(e Event) {
		got = append(got, e.EventType())
	}))

	bus.Publish(ActionAppliedEvent{Seat: "a", Action: "bid 1"})
	bus.Publish(GameOverEvent{Winner: "a"})
	unsubscribe()
	bus.Publish(GameOverEvent{Winner: "b"})

	assert.Equal(t, []EventType{EventTypeActionApplied, EventTypeGameOver}, got)
}
