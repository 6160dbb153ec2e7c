package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lox/cardtable/internal/config"
	"github.com/lox/cardtable/internal/simulator"
)

// SimulateCmd plays seeded bot-only games at every configured table
type SimulateCmd struct {
	Config    string        `kong:"default='cardtable.hcl',help='Path to HCL config (defaults used when missing)'"`
	Games     int           `kong:"help='Games per table (overrides config)'"`
	Seed      *int64        `kong:"help='Base RNG seed (overrides config)'"`
	Workers   int           `kong:"help='Concurrent games (overrides config)'"`
	Table     []string      `kong:"help='Only run the named tables'"`
	Timeout   time.Duration `kong:"default='10s',help='Per-game timeout'"`
	Paced     bool          `kong:"help='Wait each bot think time (slow; for watching logs)'"`
	RecordDir string        `kong:"help='Keep a JSON record of every game in this directory'"`
	Debug     bool          `kong:"help='Enable debug logging'"`
	LogFormat string        `kong:"default='text',enum='text,json,logfmt',help='Log format'"`
}

func (c *SimulateCmd) Run() error {
	logger, err := setupLogger(os.Stderr, c.Debug, c.LogFormat)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := c.apply(cfg); err != nil {
		return err
	}

	simCfg := simulator.FromConfig(cfg, logger)
	simCfg.Timeout = c.Timeout
	simCfg.Paced = c.Paced
	simCfg.Records = c.RecordDir

	logger.Info("Starting simulation",
		"games", simCfg.Games,
		"seed", simCfg.Seed,
		"workers", simCfg.Workers,
		"tables", len(simCfg.Tables))

	ctx := setupSignalHandler(logger)
	start := time.Now()
	results, err := simulator.New(simCfg).Run(ctx)
	if err != nil {
		return err
	}

	fmt.Print(renderSummary(results, simCfg.Seed, time.Since(start)))
	return nil
}

// apply copies flag overrides onto a validated config.
func (c *SimulateCmd) apply(cfg *config.Config) error {
	if c.Games > 0 {
		cfg.Simulation.Games = c.Games
	}
	if c.Seed != nil {
		cfg.Simulation.Seed = *c.Seed
	}
	if c.Workers > 0 {
		cfg.Simulation.Workers = c.Workers
	}
	if len(c.Table) == 0 {
		return nil
	}

	tables := make([]config.TableConfig, 0, len(c.Table))
	for _, name := range c.Table {
		tc := cfg.GetTableByName(name)
		if tc == nil {
			return fmt.Errorf("no table named %q in %s", name, c.Config)
		}
		tables = append(tables, *tc)
	}
	cfg.Tables = tables
	return nil
}
