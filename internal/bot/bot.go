// Package bot implements the synthetic opponents for both games. A Bot sees
// only what a human at its seat would see and always picks one of the
// actions the engine reports as legal.
package bot

import (
	rand "math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/cardtable/internal/game"
)

// Strategy ranks the legal actions of one game. Choose returns an index into
// actions; out-of-range answers fall back to a random legal action.
type Strategy[V any, A any] interface {
	Choose(tier Tier, view V, actions []A, rng *rand.Rand, thinking *ThinkingContext) int
}

// Bot is a tiered agent for any game with a Strategy.
type Bot[V any, A any] struct {
	tier     Tier
	strategy Strategy[V, A]
	rng      *rand.Rand
	logger   *log.Logger
	delay    DelayRange
}

// Option configures a Bot.
type Option func(*options)

type options struct {
	delay    DelayRange
	hasDelay bool
}

// WithDelay overrides the tier's think-time range.
func WithDelay(d DelayRange) Option {
	return func(o *options) { o.delay, o.hasDelay = d, true }
}

// New creates a bot. rng drives every random choice so games replay from a
// seed.
func New[V any, A any](tier Tier, strategy Strategy[V, A], rng *rand.Rand, logger *log.Logger, opts ...Option) *Bot[V, A] {
	if rng == nil {
		panic("bot requires an rng")
	}
	if logger == nil {
		logger = log.Default()
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	delay := tier.DefaultDelay()
	if o.hasDelay {
		delay = o.delay
	}
	return &Bot[V, A]{
		tier:     tier,
		strategy: strategy,
		rng:      rng,
		logger:   logger.WithPrefix("bot"),
		delay:    delay,
	}
}

// Tier returns the bot's skill tier.
func (b *Bot[V, A]) Tier() Tier { return b.tier }

// MakeDecision picks one of validActions.
func (b *Bot[V, A]) MakeDecision(view V, validActions []A) game.Decision[A] {
	var zero A
	if len(validActions) == 0 {
		return game.Decision[A]{Action: zero, Reasoning: "no valid actions"}
	}

	thinking := &ThinkingContext{}
	idx := b.strategy.Choose(b.tier, view, validActions, b.rng, thinking)
	if idx < 0 || idx >= len(validActions) {
		thinking.AddThought("Strategy gave no answer, picking at random")
		idx = b.rng.IntN(len(validActions))
	}

	decision := game.Decision[A]{
		Action:    validActions[idx],
		Reasoning: thinking.GetThoughts(),
	}
	b.logger.Debug("Bot decision made",
		"tier", b.tier,
		"candidates", len(validActions),
		"decision", decision.Action,
		"reasoning", decision.Reasoning)
	return decision
}

// ThinkTime returns a random pause within the bot's delay range.
func (b *Bot[V, A]) ThinkTime() time.Duration {
	return b.delay.Pick(b.rng)
}

var _ game.Thinker = (*Bot[struct{}, struct{}])(nil)

// ThinkingContext accumulates bot thoughts during decision making
type ThinkingContext struct {
	thoughts []string
}

// AddThought adds a thought to the thinking process
func (tc *ThinkingContext) AddThought(thought string) {
	tc.thoughts = append(tc.thoughts, thought)
}

// GetThoughts returns the complete stream of thoughts
func (tc *ThinkingContext) GetThoughts() string {
	if len(tc.thoughts) == 0 {
		return "No clear reasoning available"
	}
	return strings.Join(tc.thoughts, ". ")
}
