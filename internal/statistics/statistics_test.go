package statistics

import (
	"math"
	"strings"
	"testing"
)

func durakGame(seed int64, winnerTier, loserTier string) GameResult {
	return GameResult{
		Seed:      seed,
		Actions:   40,
		Conserved: true,
		Seats: []SeatResult{
			{Seat: 0, Name: winnerTier, Tier: winnerTier, Won: true, Score: 1},
			{Seat: 1, Name: loserTier, Tier: loserTier, Lost: true, Score: -1},
		},
	}
}

func TestStatistics_Empty(t *testing.T) {
	stats := &Statistics{}

	if stats.Mean() != 0 {
		t.Errorf("Expected mean of 0 for empty stats, got %f", stats.Mean())
	}
	if stats.Variance() != 0 {
		t.Errorf("Expected variance of 0 for empty stats, got %f", stats.Variance())
	}
	if stats.StdError() != 0 {
		t.Errorf("Expected stderr of 0 for empty stats, got %f", stats.StdError())
	}
	if stats.Median() != 0 {
		t.Errorf("Expected median of 0 for empty stats, got %f", stats.Median())
	}
	if err := stats.Validate(); err == nil {
		t.Error("Expected validation error for empty stats")
	}
}

func TestStatistics_SingleGame(t *testing.T) {
	stats := &Statistics{}
	stats.Add(durakGame(7, "hard", "easy"))

	if stats.Games != 1 {
		t.Errorf("Expected 1 game, got %d", stats.Games)
	}
	if stats.Actions != 40 {
		t.Errorf("Expected 40 actions, got %d", stats.Actions)
	}
	if stats.Mean() != 0 {
		t.Errorf("Expected mean of 0, got %f", stats.Mean())
	}
	if math.Abs(stats.StdDev()-math.Sqrt(2)) > 1e-9 {
		t.Errorf("Expected stddev of sqrt(2), got %f", stats.StdDev())
	}
	if got := stats.Tiers["hard"].WinRate(); got != 1 {
		t.Errorf("Expected hard win rate 1, got %f", got)
	}
	if got := stats.Tiers["easy"].Losses; got != 1 {
		t.Errorf("Expected easy to lose once, got %d", got)
	}
	if err := stats.Validate(); err != nil {
		t.Errorf("Unexpected validation error: %v", err)
	}
}

func TestStatistics_TierRates(t *testing.T) {
	stats := &Statistics{}
	stats.Add(durakGame(1, "hard", "easy"))
	stats.Add(durakGame(2, "hard", "easy"))
	stats.Add(durakGame(3, "easy", "hard"))
	stats.Add(durakGame(4, "hard", "easy"))

	hard := stats.Tiers["hard"]
	if hard.Seats != 4 || hard.Wins != 3 {
		t.Fatalf("Expected hard 3/4, got %d/%d", hard.Wins, hard.Seats)
	}
	if hard.WinRate() != 0.75 {
		t.Errorf("Expected win rate 0.75, got %f", hard.WinRate())
	}
	if hard.Mean() != 0.5 {
		t.Errorf("Expected mean 0.5, got %f", hard.Mean())
	}
	if hard.StdDev() <= 0 {
		t.Errorf("Expected positive stddev, got %f", hard.StdDev())
	}

	names := stats.TierNames()
	if strings.Join(names, ",") != "easy,hard" {
		t.Errorf("Expected sorted tier names, got %v", names)
	}
	if stats.Positions[0].Wins != 4 {
		t.Errorf("Expected seat 0 to record 4 wins, got %d", stats.Positions[0].Wins)
	}
}

func TestStatistics_Percentile(t *testing.T) {
	stats := &Statistics{}
	stats.Add(GameResult{Conserved: true, Seats: []SeatResult{
		{Seat: 0, Tier: "easy", Score: 100},
		{Seat: 1, Tier: "easy", Score: 200},
		{Seat: 2, Tier: "medium", Score: 300, Won: true},
		{Seat: 3, Tier: "hard", Score: 400},
	}})

	if got := stats.Median(); got != 250 {
		t.Errorf("Expected median 250, got %f", got)
	}
	if got := stats.Percentile(0); got != 100 {
		t.Errorf("Expected p0 of 100, got %f", got)
	}
	if got := stats.Percentile(1); got != 400 {
		t.Errorf("Expected p100 of 400, got %f", got)
	}
	low, high := stats.ConfidenceInterval95()
	if !(low < stats.Mean() && stats.Mean() < high) {
		t.Errorf("Expected mean %f inside [%f, %f]", stats.Mean(), low, high)
	}
}

func TestStatistics_Validate(t *testing.T) {
	tests := []struct {
		name   string
		result GameResult
		want   string
	}{
		{
			name:   "rejected bot action",
			result: GameResult{Conserved: true, Seats: []SeatResult{{Tier: "easy", Won: true, Rejected: 2}}},
			want:   "rejected",
		},
		{
			name:   "conservation failure",
			result: GameResult{Seats: []SeatResult{{Tier: "easy", Won: true}}},
			want:   "conservation",
		},
		{
			name:   "no winner",
			result: GameResult{Conserved: true, Seats: []SeatResult{{Tier: "easy"}}},
			want:   "winners",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := &Statistics{}
			stats.Add(tt.result)
			err := stats.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
