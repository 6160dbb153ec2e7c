package simulator

import (
	"context"
	"errors"
	"fmt"
	rand "math/rand/v2"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/cardtable/internal/bot"
	"github.com/lox/cardtable/internal/config"
	"github.com/lox/cardtable/internal/deck"
	"github.com/lox/cardtable/internal/durak"
	"github.com/lox/cardtable/internal/game"
	"github.com/lox/cardtable/internal/gameid"
	"github.com/lox/cardtable/internal/joker"
	"github.com/lox/cardtable/internal/randutil"
	"github.com/lox/cardtable/internal/statistics"
	"github.com/lox/cardtable/internal/table"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration for running simulations
type Config struct {
	Games   int
	Seed    int64
	Workers int
	Timeout time.Duration
	Tables  []config.TableConfig
	Bots    []config.BotConfig
	Paced   bool   // Bots wait their configured think time
	Records string // Directory for per-game JSON records; empty keeps them in memory
	Logger  *log.Logger
}

// FromConfig builds a simulator config from a loaded configuration file.
func FromConfig(cfg *config.Config, logger *log.Logger) Config {
	return Config{
		Games:   cfg.Simulation.Games,
		Seed:    cfg.Simulation.Seed,
		Workers: cfg.Simulation.Workers,
		Timeout: 10 * time.Second,
		Tables:  cfg.Tables,
		Bots:    cfg.Bots,
		Logger:  logger,
	}
}

// TableResult holds the statistics collected for one configured table
type TableResult struct {
	Name  string
	Game  string
	Stats *statistics.Statistics
}

// Simulator plays bot-only games through table sessions
type Simulator struct {
	config Config
	store  table.Store
}

// New creates a new simulator with the given configuration
func New(cfg Config) *Simulator {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Simulator{config: cfg}
}

func (s *Simulator) openStore() error {
	if s.config.Records == "" {
		s.store = table.NewMemoryStore()
		return nil
	}
	store, err := table.NewFileStore(s.config.Records)
	if err != nil {
		return err
	}
	s.store = store
	return nil
}

// Run plays Games games at every table and returns validated statistics in
// table order.
func (s *Simulator) Run(ctx context.Context) ([]TableResult, error) {
	if err := s.openStore(); err != nil {
		return nil, err
	}
	results := make([]TableResult, 0, len(s.config.Tables))
	for _, tc := range s.config.Tables {
		stats, err := s.runTable(ctx, tc)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", tc.Name, err)
		}
		results = append(results, TableResult{Name: tc.Name, Game: tc.Game, Stats: stats})
	}
	return results, nil
}

func (s *Simulator) runTable(ctx context.Context, tc config.TableConfig) (*statistics.Statistics, error) {
	games := make([]statistics.GameResult, s.config.Games)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)
	for i := range s.config.Games {
		g.Go(func() error {
			result, err := s.playGameWithTimeout(gctx, tc, i)
			if err != nil {
				return fmt.Errorf("game %d: %w", i+1, err)
			}
			games[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Results are added in game order so runs with the same seed agree.
	stats := &statistics.Statistics{}
	for _, result := range games {
		stats.Add(result)
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	s.config.Logger.Info("Table finished", "table", tc.Name, "game", tc.Game, "games", stats.Games, "actions", stats.Actions)
	return stats, nil
}

// seating describes who sits where in one game. Seat order rotates with the
// game number so every bot plays every position.
type seating struct {
	gameID string
	ids    []game.PlayerID
	bots   []config.BotConfig
}

func (s *Simulator) seat(tc config.TableConfig, gameNum int) (seating, error) {
	n := len(tc.Seats)
	st := seating{
		gameID: gameid.FromSeed(tc.Name, s.config.Seed+int64(gameNum)),
		ids:    make([]game.PlayerID, n),
		bots:   make([]config.BotConfig, n),
	}
	for i := range n {
		name := tc.Seats[(i+gameNum)%n]
		bc, ok := s.botByName(name)
		if !ok {
			return seating{}, fmt.Errorf("unknown bot %q", name)
		}
		st.ids[i] = game.PlayerID(fmt.Sprintf("%d-%s", i, name))
		st.bots[i] = bc
	}
	return st, nil
}

func (s *Simulator) botByName(name string) (config.BotConfig, bool) {
	for _, b := range s.config.Bots {
		if b.Name == name {
			return b, true
		}
	}
	return config.BotConfig{}, false
}

func (s *Simulator) botOptions(bc config.BotConfig) []bot.Option {
	if s.config.Paced {
		return []bot.Option{bot.WithDelay(bc.Delay())}
	}
	return []bot.Option{bot.WithDelay(bot.DelayRange{})}
}

// playGameWithTimeout runs a single game with timeout protection
func (s *Simulator) playGameWithTimeout(ctx context.Context, tc config.TableConfig, gameNum int) (statistics.GameResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	seed := s.config.Seed + int64(gameNum)
	st, err := s.seat(tc, gameNum)
	if err != nil {
		return statistics.GameResult{}, err
	}

	var result statistics.GameResult
	switch tc.Game {
	case config.GameDurak:
		result, err = s.playDurak(ctx, tc, seed, st)
	case config.GameJoker:
		result, err = s.playJoker(ctx, tc, seed, st)
	default:
		err = fmt.Errorf("unknown game %q", tc.Game)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return result, fmt.Errorf("game timed out after %v (seed: %d): %w", s.config.Timeout, seed, err)
	}
	return result, err
}

func (s *Simulator) playDurak(ctx context.Context, tc config.TableConfig, seed int64, st seating) (statistics.GameResult, error) {
	opts := []durak.Option{}
	if tc.HandSize > 0 {
		opts = append(opts, durak.WithHandSize(tc.HandSize))
	}
	engine := durak.NewGame(randutil.New(seed), st.ids, opts...)

	agents := make(map[game.PlayerID]game.Agent[durak.View, durak.Action], len(st.ids))
	for i, id := range st.ids {
		agents[id] = bot.NewDurak(st.bots[i].ParsedTier(), botRNG(seed, i), s.config.Logger, s.botOptions(st.bots[i])...)
	}

	out, err := play(ctx, s.session(st), engine, agents, engine.CardCount, deck.DurakSize)
	if err != nil {
		return statistics.GameResult{}, err
	}

	winner, loser, _ := engine.Winner()
	result := out.result(seed, st)
	for i := range result.Seats {
		switch st.ids[i] {
		case winner:
			result.Seats[i].Won, result.Seats[i].Score = true, 1
		case loser:
			result.Seats[i].Lost, result.Seats[i].Score = true, -1
		}
	}
	return result, nil
}

// playJoker deals first from seat tc.Dealer of the rotated seating.
func (s *Simulator) playJoker(ctx context.Context, tc config.TableConfig, seed int64, st seating) (statistics.GameResult, error) {
	engine := joker.NewGame(seed, st.ids, joker.WithFirstDealer(st.ids[tc.Dealer]))

	agents := make(map[game.PlayerID]game.Agent[joker.View, joker.Action], len(st.ids))
	for i, id := range st.ids {
		agents[id] = bot.NewJoker(st.bots[i].ParsedTier(), botRNG(seed, i), s.config.Logger, s.botOptions(st.bots[i])...)
	}

	out, err := play(ctx, s.session(st), engine, agents, engine.CardCount, deck.JokerSize)
	if err != nil {
		return statistics.GameResult{}, err
	}

	winner, _ := engine.Winner()
	result := out.result(seed, st)
	for i := range result.Seats {
		result.Seats[i].Score = float64(engine.CumulativeScores[st.ids[i]])
		result.Seats[i].Won = st.ids[i] == winner
	}
	return result, nil
}

func botRNG(seed int64, seat int) *rand.Rand {
	return randutil.Stream(seed, int64(seat)+1)
}

// outcome is what a session run reports independent of the game.
type outcome struct {
	actions   int
	rejected  map[game.PlayerID]int
	conserved bool
}

func (o outcome) result(seed int64, st seating) statistics.GameResult {
	result := statistics.GameResult{
		Seed:      seed,
		Actions:   o.actions,
		Conserved: o.conserved,
		Seats:     make([]statistics.SeatResult, len(st.ids)),
	}
	for i, id := range st.ids {
		result.Seats[i] = statistics.SeatResult{
			Seat:     i,
			Name:     st.bots[i].Name,
			Tier:     st.bots[i].ParsedTier().String(),
			Rejected: o.rejected[id],
		}
	}
	return result
}

// sessionSetup carries what every session of a run shares.
type sessionSetup struct {
	id     string
	logger *log.Logger
	store  table.Store
}

func (s *Simulator) session(st seating) sessionSetup {
	return sessionSetup{id: st.gameID, logger: s.config.Logger, store: s.store}
}

// play runs engine to the end with every seat driven by a bot. cardCount is
// checked against total after each accepted action.
func play[V any, A any](ctx context.Context, setup sessionSetup, engine game.Engine[V, A], agents map[game.PlayerID]game.Agent[V, A], cardCount func() int, total int) (outcome, error) {
	logger := setup.logger
	opts := []table.Option[V, A]{
		table.WithID[V, A](setup.id),
		table.WithLogger[V, A](logger),
		table.WithStore[V, A](setup.store),
	}
	for seat, agent := range agents {
		opts = append(opts, table.WithAgent(seat, agent))
	}
	session := table.New(engine, opts...)
	defer session.Close()

	out := outcome{rejected: make(map[game.PlayerID]int), conserved: cardCount() == total}
	unsubscribe := session.Subscribe(game.SubscriberFunc(func(ev game.Event) {
		if env, ok := ev.(table.Envelope); ok {
			ev = env.Event
		}
		switch e := ev.(type) {
		case game.ActionAppliedEvent:
			out.actions++
			if n := cardCount(); n != total {
				logger.Error("Card count changed", "game", session.ID(), "count", n, "want", total)
				out.conserved = false
			}
		case game.ActionRejectedEvent:
			out.rejected[e.Seat]++
		}
	}))
	defer unsubscribe()

	session.Start(ctx)
	if err := session.Wait(ctx); err != nil {
		return outcome{}, err
	}
	if !engine.IsOver() {
		return outcome{}, fmt.Errorf("session %s stopped before the game ended", session.ID())
	}
	return out, nil
}
