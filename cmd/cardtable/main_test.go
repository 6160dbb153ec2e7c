package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lox/cardtable/internal/config"
	"github.com/lox/cardtable/internal/simulator"
	"github.com/lox/cardtable/internal/statistics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := setupLogger(&buf, false, "json")
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("shown", "games", 3)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"games":3`)

	_, err = setupLogger(&buf, true, "xml")
	assert.Error(t, err)
}

func TestSimulateApply(t *testing.T) {
	seed := int64(99)
	cmd := &SimulateCmd{Config: "test.hcl", Games: 7, Seed: &seed, Table: []string{"four"}}
	cfg := config.DefaultConfig()

	require.NoError(t, cmd.apply(cfg))
	assert.Equal(t, 7, cfg.Simulation.Games)
	assert.Equal(t, int64(99), cfg.Simulation.Seed)
	require.Len(t, cfg.Tables, 1)
	assert.Equal(t, "four", cfg.Tables[0].Name)

	cmd.Table = []string{"missing"}
	assert.ErrorContains(t, cmd.apply(config.DefaultConfig()), "no table named")
}

func TestConfigCheck(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cardtable.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
simulation {
  games = 10
}

bot "a" {
  tier = "easy"
}

bot "b" {
  tier = "hard"
}

table "duel" {
  game  = "durak"
  seats = ["a", "b"]
}
`), 0o644))

	assert.NoError(t, (&ConfigCheckCmd{Path: path}).Run())
	assert.Error(t, (&ConfigCheckCmd{Path: filepath.Join(dir, "missing.hcl")}).Run())
}

func TestRenderSummary(t *testing.T) {
	stats := &statistics.Statistics{}
	stats.Add(statistics.GameResult{Conserved: true, Seats: []statistics.SeatResult{
		{Seat: 0, Tier: "hard", Won: true, Score: 1},
		{Seat: 1, Tier: "easy", Lost: true, Score: -1},
	}})

	out := renderSummary([]simulator.TableResult{{Name: "duel", Game: "durak", Stats: stats}}, 42, time.Second)
	assert.Contains(t, out, "duel (durak)")
	assert.Contains(t, out, "hard")
	assert.Contains(t, out, "no rejected bot actions")
	assert.Contains(t, out, "seed 42")
}
