// Package config loads the HCL file that describes simulated tables and the
// bots seated at them.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/cardtable/internal/bot"
	"github.com/lox/cardtable/internal/deck"
	"github.com/lox/cardtable/internal/durak"
	"github.com/lox/cardtable/internal/joker"
)

// Game names accepted in table blocks.
const (
	GameDurak = "durak"
	GameJoker = "joker"
)

// Config represents the complete configuration
type Config struct {
	Simulation *SimulationSettings `hcl:"simulation,block"`
	Tables     []TableConfig       `hcl:"table,block"`
	Bots       []BotConfig         `hcl:"bot,block"`
}

// SimulationSettings controls batch simulation
type SimulationSettings struct {
	Games    int    `hcl:"games,optional"`
	Seed     int64  `hcl:"seed,optional"`
	Workers  int    `hcl:"workers,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// TableConfig defines one table. Seats name bot blocks in seat order. Dealer
// is the seat index of the first joker dealer.
type TableConfig struct {
	Name     string   `hcl:"name,label"`
	Game     string   `hcl:"game"`
	Seats    []string `hcl:"seats"`
	HandSize int      `hcl:"hand_size,optional"`
	Dealer   int      `hcl:"dealer,optional"`
}

// BotConfig defines a named bot
type BotConfig struct {
	Name       string `hcl:"name,label"`
	Tier       string `hcl:"tier,optional"`
	MinDelayMs int    `hcl:"min_delay_ms,optional"`
	MaxDelayMs int    `hcl:"max_delay_ms,optional"`
}

// DefaultConfig returns the configuration used when no file exists: one
// table of each game with mixed tiers.
func DefaultConfig() *Config {
	return &Config{
		Simulation: &SimulationSettings{
			Games:    100,
			Seed:     1,
			Workers:  4,
			LogLevel: "info",
		},
		Tables: []TableConfig{
			{Name: "duel", Game: GameDurak, Seats: []string{"medium", "hard"}, HandSize: durak.HandSize},
			{Name: "four", Game: GameJoker, Seats: []string{"easy", "medium", "hard", "hard"}},
		},
		Bots: []BotConfig{
			{Name: "easy", Tier: "easy"},
			{Name: "medium", Tier: "medium"},
			{Name: "hard", Tier: "hard"},
		},
	}
}

// LoadConfig loads configuration from an HCL file. A missing file yields
// DefaultConfig.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Simulation == nil {
		c.Simulation = defaults.Simulation
	}
	if c.Simulation.Games == 0 {
		c.Simulation.Games = defaults.Simulation.Games
	}
	if c.Simulation.Workers == 0 {
		c.Simulation.Workers = defaults.Simulation.Workers
	}
	if c.Simulation.LogLevel == "" {
		c.Simulation.LogLevel = defaults.Simulation.LogLevel
	}

	for i := range c.Tables {
		if c.Tables[i].Game == GameDurak && c.Tables[i].HandSize == 0 {
			c.Tables[i].HandSize = durak.HandSize
		}
	}

	for i := range c.Bots {
		if c.Bots[i].Tier == "" {
			c.Bots[i].Tier = bot.Medium.String()
		}
	}
}

// Validate reports the first problem in the configuration
func (c *Config) Validate() error {
	if c.Simulation == nil {
		return fmt.Errorf("simulation block is required")
	}
	if c.Simulation.Games <= 0 {
		return fmt.Errorf("simulation: games must be positive")
	}
	if c.Simulation.Workers <= 0 {
		return fmt.Errorf("simulation: workers must be positive")
	}

	bots := make(map[string]bool, len(c.Bots))
	for _, b := range c.Bots {
		if bots[b.Name] {
			return fmt.Errorf("bot %s: defined twice", b.Name)
		}
		bots[b.Name] = true
		if _, err := bot.ParseTier(b.Tier); err != nil {
			return fmt.Errorf("bot %s: %w", b.Name, err)
		}
		if b.MinDelayMs < 0 || b.MaxDelayMs < 0 {
			return fmt.Errorf("bot %s: delays cannot be negative", b.Name)
		}
		if b.MaxDelayMs != 0 && b.MaxDelayMs < b.MinDelayMs {
			return fmt.Errorf("bot %s: max_delay_ms must not be below min_delay_ms", b.Name)
		}
	}

	if len(c.Tables) == 0 {
		return fmt.Errorf("at least one table must be configured")
	}
	tables := make(map[string]bool, len(c.Tables))
	for _, t := range c.Tables {
		if tables[t.Name] {
			return fmt.Errorf("table %s: defined twice", t.Name)
		}
		tables[t.Name] = true

		switch t.Game {
		case GameDurak:
			if len(t.Seats) != 2 {
				return fmt.Errorf("table %s: durak needs 2 seats, got %d", t.Name, len(t.Seats))
			}
			if t.HandSize < 1 || 2*t.HandSize > deck.DurakSize {
				return fmt.Errorf("table %s: hand size %d does not fit the deck", t.Name, t.HandSize)
			}
		case GameJoker:
			if len(t.Seats) != joker.SeatCount {
				return fmt.Errorf("table %s: joker needs %d seats, got %d", t.Name, joker.SeatCount, len(t.Seats))
			}
		default:
			return fmt.Errorf("table %s: unknown game %q", t.Name, t.Game)
		}
		if t.Dealer < 0 || t.Dealer >= len(t.Seats) {
			return fmt.Errorf("table %s: dealer %d is not a seat", t.Name, t.Dealer)
		}
		for _, seat := range t.Seats {
			if !bots[seat] {
				return fmt.Errorf("table %s: seat %q names no bot", t.Name, seat)
			}
		}
	}
	return nil
}

// GetBotByName returns a bot configuration by name
func (c *Config) GetBotByName(name string) *BotConfig {
	for i := range c.Bots {
		if c.Bots[i].Name == name {
			return &c.Bots[i]
		}
	}
	return nil
}

// GetTableByName returns a table configuration by name
func (c *Config) GetTableByName(name string) *TableConfig {
	for i := range c.Tables {
		if c.Tables[i].Name == name {
			return &c.Tables[i]
		}
	}
	return nil
}

// ParsedTier returns the bot's tier. Call after Validate.
func (b BotConfig) ParsedTier() bot.Tier {
	tier, _ := bot.ParseTier(b.Tier)
	return tier
}

// Delay returns the configured think-time range, or the tier default when
// neither bound is set.
func (b BotConfig) Delay() bot.DelayRange {
	if b.MinDelayMs == 0 && b.MaxDelayMs == 0 {
		return b.ParsedTier().DefaultDelay()
	}
	maxMs := max(b.MaxDelayMs, b.MinDelayMs)
	return bot.DelayRange{
		Min: time.Duration(b.MinDelayMs) * time.Millisecond,
		Max: time.Duration(maxMs) * time.Millisecond,
	}
}
