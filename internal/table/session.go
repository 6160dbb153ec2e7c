// Package table drives one game engine for a table of human and bot seats.
// It serializes actions, suppresses duplicates, paces bots on an injectable
// clock and reports every transition to subscribers and a Store.
package table

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/lox/cardtable/internal/game"
	"github.com/lox/cardtable/internal/gameid"
)

// ErrActionInFlight is returned when an action arrives while another one is
// still being applied or published.
var ErrActionInFlight = errors.New("another action is in flight")

// Envelope wraps every event a session publishes with the game it belongs to
// and its position in the stream.
type Envelope struct {
	GameID string
	Seq    uint64
	At     time.Time
	Event  game.Event
}

// EventType implements game.Event by delegating to the wrapped event.
func (e Envelope) EventType() game.EventType { return e.Event.EventType() }

// Stats counts what a session has processed.
type Stats struct {
	Applied     int
	Rejected    int
	Duplicates  int
	BotRejected int
	StaleBot    int
}

// Session owns one engine. Only the seat the engine reports in Turn may act;
// bots act after their think time on the session clock.
type Session[V any, A any] struct {
	mu       sync.Mutex
	id       string
	engine   game.Engine[V, A]
	agents   map[game.PlayerID]game.Agent[V, A]
	clock    quartz.Clock
	logger   *log.Logger
	bus      game.EventBus
	store    Store
	keys     *keyWindow
	version  uint64
	seq      uint64
	inFlight bool
	botTimer *quartz.Timer
	ctx      context.Context
	stats    Stats
	done     chan struct{}
	closed   bool
}

// Option configures a Session.
type Option[V any, A any] func(*Session[V, A])

// WithID sets the game id. Defaults to gameid.New.
func WithID[V any, A any](id string) Option[V, A] {
	return func(s *Session[V, A]) { s.id = id }
}

// WithClock sets the clock used for bot think time.
func WithClock[V any, A any](clock quartz.Clock) Option[V, A] {
	return func(s *Session[V, A]) { s.clock = clock }
}

// WithLogger sets the logger.
func WithLogger[V any, A any](logger *log.Logger) Option[V, A] {
	return func(s *Session[V, A]) { s.logger = logger }
}

// WithEventBus publishes events to bus instead of a private one.
func WithEventBus[V any, A any](bus game.EventBus) Option[V, A] {
	return func(s *Session[V, A]) { s.bus = bus }
}

// WithStore saves a Record after every transition.
func WithStore[V any, A any](store Store) Option[V, A] {
	return func(s *Session[V, A]) { s.store = store }
}

// WithAgent seats a bot or other automatic agent.
func WithAgent[V any, A any](seat game.PlayerID, agent game.Agent[V, A]) Option[V, A] {
	return func(s *Session[V, A]) { s.agents[seat] = agent }
}

// WithKeyWindow sets how many idempotency keys are remembered.
func WithKeyWindow[V any, A any](n int) Option[V, A] {
	return func(s *Session[V, A]) { s.keys = newKeyWindow(n) }
}

// WithResume restores the key window and version of a stored record so a
// retried submission from before the restart is still recognized.
func WithResume[V any, A any](rec Record) Option[V, A] {
	return func(s *Session[V, A]) {
		s.id = rec.GameID
		s.version = rec.Version
		for _, k := range rec.Keys {
			s.keys.add(k)
		}
	}
}

// New creates a session around engine.
func New[V any, A any](engine game.Engine[V, A], opts ...Option[V, A]) *Session[V, A] {
	s := &Session[V, A]{
		id:     gameid.New(),
		engine: engine,
		agents: make(map[game.PlayerID]game.Agent[V, A]),
		clock:  quartz.NewReal(),
		logger: log.Default(),
		bus:    game.NewEventBus(),
		keys:   newKeyWindow(DefaultKeyWindow),
		ctx:    context.Background(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithPrefix("table").With("game", s.id)
	return s
}

// ID returns the game id.
func (s *Session[V, A]) ID() string { return s.id }

// Subscribe registers a subscriber on the session's event bus.
func (s *Session[V, A]) Subscribe(sub game.EventSubscriber) func() {
	return s.bus.Subscribe(sub)
}

// Done is closed when the game is over or the session is closed.
func (s *Session[V, A]) Done() <-chan struct{} { return s.done }

// Wait blocks until the game is over or ctx ends.
func (s *Session[V, A]) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Version counts applied transitions.
func (s *Session[V, A]) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Stats returns a copy of the session counters.
func (s *Session[V, A]) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// View returns seat's view of the current state.
func (s *Session[V, A]) View(seat game.PlayerID) V {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.View(seat)
}

// ValidActions returns seat's legal actions now.
func (s *Session[V, A]) ValidActions(seat game.PlayerID) []A {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.ValidActions(seat)
}

// Turn returns the seat that must act now.
func (s *Session[V, A]) Turn() (game.PlayerID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Turn()
}

// Start begins play: it advances a paused engine and schedules the first bot
// if a bot is to act. ctx bounds store writes made on behalf of bots.
func (s *Session[V, A]) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()
	s.settle(ctx)
}

// Close stops any pending bot timer and releases waiters.
func (s *Session[V, A]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.botTimer != nil {
		s.botTimer.Stop()
		s.botTimer = nil
	}
	s.closeDoneLocked()
}

func (s *Session[V, A]) closeDoneLocked() {
	if !s.closed {
		s.closed = true
		close(s.done)
	}
}

// Submit applies action for seat.
//
// A non-empty key makes the submission idempotent: a key already seen is a
// no-op returning no events and no error. Rejections come back as
// *game.Rejection and are also published as ActionRejectedEvent.
func (s *Session[V, A]) Submit(ctx context.Context, seat game.PlayerID, key string, action A) ([]game.Event, error) {
	return s.submit(ctx, seat, key, action, false)
}

func (s *Session[V, A]) submit(ctx context.Context, seat game.PlayerID, key string, action A, fromBot bool) ([]game.Event, error) {
	s.mu.Lock()
	if key != "" && s.keys.contains(key) {
		s.stats.Duplicates++
		s.mu.Unlock()
		s.logger.Debug("Ignoring duplicate action", "seat", seat, "key", key)
		return nil, nil
	}
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrActionInFlight
	}

	events, err := s.engine.Apply(seat, action)
	if err != nil {
		s.stats.Rejected++
		if fromBot {
			s.stats.BotRejected++
		}
		s.mu.Unlock()

		rejected := game.ActionRejectedEvent{Seat: seat, Action: fmt.Sprint(action), Reason: err.Error()}
		var rej *game.Rejection
		if errors.As(err, &rej) {
			rejected.Kind = rej.Kind
			rejected.Reason = rej.Reason
		}
		s.logger.Debug("Rejected action", "seat", seat, "action", action, "error", err)
		s.publish([]game.Event{rejected})
		return nil, err
	}

	s.inFlight = true
	s.keys.add(key)
	s.version++
	s.stats.Applied++
	events = append([]game.Event{game.ActionAppliedEvent{Seat: seat, Action: fmt.Sprint(action)}}, events...)
	rec := s.recordLocked()
	s.mu.Unlock()

	s.logger.Debug("Applied action", "seat", seat, "action", action, "version", rec.Version)

	saveErr := s.save(ctx, rec)
	s.publish(events)

	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()

	s.settle(ctx)
	if saveErr != nil {
		return events, saveErr
	}
	return events, nil
}

func (s *Session[V, A]) recordLocked() Record {
	state := any(s.engine)
	if snap, ok := s.engine.(game.Snapshotter); ok {
		state = snap.Snapshot()
	}
	return Record{
		GameID:  s.id,
		Version: s.version,
		State:   state,
		Keys:    s.keys.keys(),
		Over:    s.engine.IsOver(),
		SavedAt: s.clock.Now(),
	}
}

func (s *Session[V, A]) save(ctx context.Context, rec Record) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Save(ctx, rec); err != nil {
		s.logger.Error("Failed to save game record", "version", rec.Version, "error", err)
		return fmt.Errorf("save game %s: %w", rec.GameID, err)
	}
	return nil
}

func (s *Session[V, A]) publish(events []game.Event) {
	for _, ev := range events {
		s.mu.Lock()
		s.seq++
		env := Envelope{GameID: s.id, Seq: s.seq, At: s.clock.Now(), Event: ev}
		s.mu.Unlock()
		s.bus.Publish(env)
	}
}

// settle moves the game to the next point where someone must act: it
// advances engines paused between rounds, closes Done at the end, and
// schedules the bot whose turn it is.
func (s *Session[V, A]) settle(ctx context.Context) {
	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		if s.engine.IsOver() {
			s.stopBotLocked()
			s.closeDoneLocked()
			s.mu.Unlock()
			s.logger.Debug("Game over", "version", s.Version())
			return
		}
		seat, ok := s.engine.Turn()
		if ok {
			s.scheduleBotLocked(seat)
			s.mu.Unlock()
			return
		}
		adv, canAdvance := s.engine.(game.Advancer)
		if !canAdvance || s.inFlight {
			s.mu.Unlock()
			return
		}
		events, err := adv.Advance()
		if err != nil {
			s.mu.Unlock()
			s.logger.Error("Failed to advance", "error", err)
			return
		}
		s.version++
		rec := s.recordLocked()
		s.mu.Unlock()

		_ = s.save(ctx, rec)
		s.publish(events)
	}
}

func (s *Session[V, A]) stopBotLocked() {
	if s.botTimer != nil {
		s.botTimer.Stop()
		s.botTimer = nil
	}
}

func (s *Session[V, A]) scheduleBotLocked(seat game.PlayerID) {
	s.stopBotLocked()
	agent, ok := s.agents[seat]
	if !ok {
		return
	}
	version := s.version
	delay := game.ThinkTimeOf(agent)
	s.botTimer = s.clock.AfterFunc(delay, func() {
		s.runBot(seat, version)
	})
}

// runBot acts for a bot seat after its think time. The turn and version are
// checked again first; if anything moved since scheduling the move is
// dropped.
func (s *Session[V, A]) runBot(seat game.PlayerID, version uint64) {
	s.mu.Lock()
	turn, ok := s.engine.Turn()
	if s.closed || s.version != version || !ok || turn != seat {
		s.stats.StaleBot++
		s.mu.Unlock()
		s.logger.Debug("Dropping stale bot action", "seat", seat, "scheduled", version)
		return
	}
	agent := s.agents[seat]
	decision := agent.MakeDecision(s.engine.View(seat), s.engine.ValidActions(seat))
	key := uuid.NewSHA1(uuid.NameSpaceOID, fmt.Appendf(nil, "%s/%s/%d", s.id, seat, version)).String()
	ctx := s.ctx
	s.mu.Unlock()

	s.logger.Debug("Bot acting", "seat", seat, "action", decision.Action, "reasoning", decision.Reasoning)
	if _, err := s.submit(ctx, seat, key, decision.Action, true); err != nil {
		if game.IsRejection(err) {
			s.logger.Error("Bot chose an illegal action", "seat", seat, "action", decision.Action, "error", err)
		} else if !errors.Is(err, ErrActionInFlight) {
			s.logger.Warn("Bot action failed", "seat", seat, "error", err)
		}
	}
}
