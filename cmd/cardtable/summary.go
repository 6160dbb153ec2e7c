package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/cardtable/internal/simulator"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)
)

// renderSummary formats simulation results for the terminal.
func renderSummary(results []simulator.TableResult, seed int64, elapsed time.Duration) string {
	var b strings.Builder

	for _, r := range results {
		stats := r.Stats
		b.WriteString("\n")
		b.WriteString(headerStyle.Render(fmt.Sprintf("%s (%s)", r.Name, r.Game)))
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s %d games, %d actions\n", labelStyle.Render("Played:"), stats.Games, stats.Actions)

		low, high := stats.ConfidenceInterval95()
		fmt.Fprintf(&b, "%s mean %.2f, median %.2f, stddev %.2f, 95%% CI [%.2f, %.2f]\n",
			labelStyle.Render("Scores:"), stats.Mean(), stats.Median(), stats.StdDev(), low, high)

		fmt.Fprintf(&b, "%-8s %6s %6s %8s %10s %8s\n", "tier", "seats", "wins", "win%", "mean", "stddev")
		for _, name := range stats.TierNames() {
			ts := stats.Tiers[name]
			fmt.Fprintf(&b, "%-8s %6d %6d %7.1f%% %10.2f %8.2f\n",
				name, ts.Seats, ts.Wins, ts.WinRate()*100, ts.Mean(), ts.StdDev())
		}

		for pos := 0; pos < len(stats.Positions); pos++ {
			ps, ok := stats.Positions[pos]
			if !ok {
				continue
			}
			b.WriteString(dimStyle.Render(fmt.Sprintf("seat %d: %.1f%% wins, mean %.2f", pos, ps.WinRate()*100, ps.Mean())))
			b.WriteString("\n")
		}

		if stats.Rejected == 0 {
			b.WriteString(successStyle.Render("✓ no rejected bot actions"))
		} else {
			b.WriteString(errorStyle.Render(fmt.Sprintf("✗ %d rejected bot actions", stats.Rejected)))
		}
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render(fmt.Sprintf("seed %d, %s", seed, elapsed.Round(time.Millisecond))))
	b.WriteString("\n")
	return b.String()
}
