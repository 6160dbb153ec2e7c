package game

import (
	"sync"
)

// EventType represents a game event type with type safety
type EventType string

const (
	EventTypeActionApplied  EventType = "action_applied"
	EventTypeActionRejected EventType = "action_rejected"
	EventTypeExchangeEnded  EventType = "exchange_ended"
	EventTypeTrickCompleted EventType = "trick_completed"
	EventTypeRoundScored    EventType = "round_scored"
	EventTypeRoundStarted   EventType = "round_started"
	EventTypeGameOver       EventType = "game_over"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Event is anything an engine or session reports after a transition.
type Event interface {
	EventType() EventType
}

// ActionAppliedEvent is published for every accepted action
type ActionAppliedEvent struct {
	Seat   PlayerID
	Action string
}

func (ActionAppliedEvent) EventType() EventType { return EventTypeActionApplied }

// ActionRejectedEvent is published when a submission is refused
type ActionRejectedEvent struct {
	Seat   PlayerID
	Action string
	Kind   RejectKind
	Reason string
}

func (ActionRejectedEvent) EventType() EventType { return EventTypeActionRejected }

// GameOverEvent is published once when a terminal phase is reached.
// Loser is empty for games without one.
type GameOverEvent struct {
	Winner PlayerID
	Loser  PlayerID
}

func (GameOverEvent) EventType() EventType { return EventTypeGameOver }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event Event)
}

// SubscriberFunc adapts a function to EventSubscriber.
type SubscriberFunc func(Event)

// OnEvent calls f.
func (f SubscriberFunc) OnEvent(event Event) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber) (unsubscribe func())
	Publish(event Event)
}

// SimpleEventBus is an in-memory event bus. Delivery is synchronous and in
// subscription order.
type SimpleEventBus struct {
	mu          sync.RWMutex
	nextID      int
	subscribers map[int]EventSubscriber
	order       []int
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{subscribers: make(map[int]EventSubscriber)}
}

// Subscribe adds a subscriber and returns a function that removes it.
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) func() {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	id := bus.nextID
	bus.nextID++
	bus.subscribers[id] = subscriber
	bus.order = append(bus.order, id)

	return func() {
		bus.mu.Lock()
		defer bus.mu.Unlock()
		delete(bus.subscribers, id)
		for i, v := range bus.order {
			if v == id {
				bus.order = append(bus.order[:i], bus.order[i+1:]...)
				break
			}
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event Event) {
	bus.mu.RLock()
	subs := make([]EventSubscriber, 0, len(bus.order))
	for _, id := range bus.order {
		subs = append(subs, bus.subscribers[id])
	}
	bus.mu.RUnlock()

	for _, s := range subs {
		s.OnEvent(event)
	}
}
