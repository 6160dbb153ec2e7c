package simulator

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/cardtable/internal/config"
	"github.com/lox/cardtable/internal/durak"
	"github.com/lox/cardtable/internal/gameid"
	"github.com/lox/cardtable/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.WarnLevel})
}

func testConfig(games int) Config {
	cfg := config.DefaultConfig()
	return Config{
		Games:   games,
		Seed:    12345,
		Workers: 4,
		Timeout: 10 * time.Second,
		Tables:  cfg.Tables,
		Bots:    cfg.Bots,
		Logger:  quietLogger(),
	}
}

func TestNew(t *testing.T) {
	sim := New(Config{Games: 3})
	require.NotNil(t, sim)
	assert.Equal(t, 3, sim.config.Games)
	assert.Positive(t, sim.config.Workers)
	assert.Equal(t, 10*time.Second, sim.config.Timeout)
	assert.NotNil(t, sim.config.Logger)
}

func TestFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	sc := FromConfig(cfg, quietLogger())
	assert.Equal(t, cfg.Simulation.Games, sc.Games)
	assert.Equal(t, cfg.Simulation.Seed, sc.Seed)
	assert.Equal(t, cfg.Simulation.Workers, sc.Workers)
	assert.Len(t, sc.Tables, len(cfg.Tables))
}

func TestSimulator_RunDefaultTables(t *testing.T) {
	results, err := New(testConfig(6)).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	duel := results[0]
	assert.Equal(t, "duel", duel.Name)
	assert.Equal(t, config.GameDurak, duel.Game)
	assert.Equal(t, 6, duel.Stats.Games)
	assert.Equal(t, 6, duel.Stats.Wins)
	assert.Zero(t, duel.Stats.Rejected)
	assert.Zero(t, duel.Stats.ConservationFailures)
	// Every durak game has exactly one winner and one loser.
	assert.InDelta(t, 0, duel.Stats.Mean(), 1e-9)

	four := results[1]
	assert.Equal(t, config.GameJoker, four.Game)
	assert.Equal(t, 6, four.Stats.Games)
	assert.Len(t, four.Stats.Values, 24)
	assert.Equal(t, 12, four.Stats.Tiers["hard"].Seats)
	assert.Equal(t, 6, four.Stats.Tiers["easy"].Seats)
	for pos := range 4 {
		assert.Equal(t, 6, four.Stats.Positions[pos].Seats)
	}
}

func TestSimulator_Reproducible(t *testing.T) {
	first, err := New(testConfig(4)).Run(context.Background())
	require.NoError(t, err)

	cfg := testConfig(4)
	cfg.Workers = 1
	second, err := New(cfg).Run(context.Background())
	require.NoError(t, err)

	for i := range first {
		assert.Equal(t, first[i].Stats.Values, second[i].Stats.Values)
		assert.Equal(t, first[i].Stats.Actions, second[i].Stats.Actions)
	}
}

func TestSimulator_SeatRotation(t *testing.T) {
	sim := New(testConfig(1))
	tc := config.TableConfig{Name: "t", Game: config.GameDurak, Seats: []string{"easy", "hard"}}

	st, err := sim.seat(tc, 0)
	require.NoError(t, err)
	assert.Equal(t, "easy", st.bots[0].Name)
	assert.EqualValues(t, "1-hard", st.ids[1])

	st, err = sim.seat(tc, 1)
	require.NoError(t, err)
	assert.Equal(t, "hard", st.bots[0].Name)
	assert.EqualValues(t, "0-hard", st.ids[0])
}

func TestSimulator_UnknownBot(t *testing.T) {
	cfg := testConfig(1)
	cfg.Tables = []config.TableConfig{{Name: "t", Game: config.GameDurak, Seats: []string{"easy", "ghost"}, HandSize: 6}}
	_, err := New(cfg).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown bot")
}

func TestSimulator_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := testConfig(2)
	cfg.Paced = true
	_, err := New(cfg).Run(ctx)
	require.Error(t, err)
}

func TestSimulator_WritesRecords(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(2)
	cfg.Records = dir
	_, err := New(cfg).Run(context.Background())
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 4, "one record per game per table")

	store, err := table.NewFileStore(dir)
	require.NoError(t, err)
	var state durak.State
	rec, err := table.LoadRecord(store.Path(gameid.FromSeed("duel", cfg.Seed)), &state)
	require.NoError(t, err)
	assert.True(t, rec.Over)
	assert.True(t, state.IsOver())
	assert.Equal(t, 36, state.CardCount())
}
