package main

import (
	"fmt"
	"os"

	"github.com/lox/cardtable/internal/config"
)

// ConfigCmd groups configuration subcommands
type ConfigCmd struct {
	Check ConfigCheckCmd `cmd:"" help:"Load and validate a config file"`
}

// ConfigCheckCmd loads a config file and reports the first problem
type ConfigCheckCmd struct {
	Path string `arg:"" default:"cardtable.hcl" help:"Path to HCL config"`
}

func (c *ConfigCheckCmd) Run() error {
	if _, err := os.Stat(c.Path); err != nil {
		return fmt.Errorf("config file: %w", err)
	}
	cfg, err := config.LoadConfig(c.Path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println(errorStyle.Render("✗ " + err.Error()))
		return fmt.Errorf("invalid config %s", c.Path)
	}

	fmt.Println(successStyle.Render("✓ " + c.Path))
	for _, tc := range cfg.Tables {
		fmt.Printf("  table %-10s %-6s %v\n", tc.Name, tc.Game, tc.Seats)
	}
	return nil
}
