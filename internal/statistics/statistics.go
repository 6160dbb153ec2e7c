package statistics

import (
	"fmt"
	"math"
	"sort"
)

// SeatResult is one seat's outcome in a simulated game
type SeatResult struct {
	Seat     int     // Position at the table, 0-based
	Name     string  // Bot name from the config
	Tier     string  // Bot tier
	Won      bool    // Seat won the game
	Lost     bool    // Seat is the loser (attack-defense game only)
	Score    float64 // Final score; +1/-1 for the attack-defense game
	Rejected int     // Actions of this seat the engine refused
}

// GameResult represents the outcome of a single simulated game
type GameResult struct {
	Seed      int64 // RNG seed for this game (for replay)
	Actions   int   // Accepted actions
	Conserved bool  // Card count held after every action
	Seats     []SeatResult
}

// TierStats tracks results for every seat played by one tier
type TierStats struct {
	Seats     int
	Wins      int
	Losses    int
	SumScore  float64
	SumScore2 float64
}

// WinRate returns the fraction of seats that won.
func (t *TierStats) WinRate() float64 {
	if t.Seats == 0 {
		return 0
	}
	return float64(t.Wins) / float64(t.Seats)
}

// Mean returns the mean score.
func (t *TierStats) Mean() float64 {
	if t.Seats == 0 {
		return 0
	}
	return t.SumScore / float64(t.Seats)
}

// StdDev returns the sample standard deviation of scores.
func (t *TierStats) StdDev() float64 {
	if t.Seats < 2 {
		return 0
	}
	mean := t.Mean()
	return math.Sqrt(math.Max(0, (t.SumScore2-float64(t.Seats)*mean*mean)/float64(t.Seats-1)))
}

// Statistics tracks results across simulated games of one table
type Statistics struct {
	Games     int
	Actions   int
	SumScore  float64
	SumScore2 float64   // Sum of squares for variance calculation
	Values    []float64 // Every seat score for median/percentile calculation

	Wins                 int // Games with a winner recorded
	Rejected             int // Refused actions; bots should never cause one
	ConservationFailures int

	Tiers     map[string]*TierStats
	Positions map[int]*TierStats
}

// Mean returns the arithmetic mean seat score
func (s *Statistics) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return s.SumScore / float64(len(s.Values))
}

// Variance returns the sample variance of seat scores
func (s *Statistics) Variance() float64 {
	n := len(s.Values)
	if n < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumScore2 - float64(n)*mean*mean) / float64(n-1)
}

// StdDev returns the sample standard deviation of seat scores
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(math.Max(0, s.Variance()))
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(len(s.Values)))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates a game result into the statistics
func (s *Statistics) Add(result GameResult) {
	if s.Tiers == nil {
		s.Tiers = make(map[string]*TierStats)
	}
	if s.Positions == nil {
		s.Positions = make(map[int]*TierStats)
	}

	s.Games++
	s.Actions += result.Actions
	if !result.Conserved {
		s.ConservationFailures++
	}

	for _, seat := range result.Seats {
		s.SumScore += seat.Score
		s.SumScore2 += seat.Score * seat.Score
		s.Values = append(s.Values, seat.Score)
		s.Rejected += seat.Rejected
		if seat.Won {
			s.Wins++
		}

		record(s.Tiers, seat.Tier, seat)
		record(s.Positions, seat.Seat, seat)
	}
}

func record[K comparable](m map[K]*TierStats, key K, seat SeatResult) {
	ts, ok := m[key]
	if !ok {
		ts = &TierStats{}
		m[key] = ts
	}
	ts.Seats++
	ts.SumScore += seat.Score
	ts.SumScore2 += seat.Score * seat.Score
	if seat.Won {
		ts.Wins++
	}
	if seat.Lost {
		ts.Losses++
	}
}

// TierNames returns the tiers seen, sorted.
func (s *Statistics) TierNames() []string {
	names := make([]string, 0, len(s.Tiers))
	for name := range s.Tiers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Median returns the median seat score
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate performs consistency checks on the collected data
func (s *Statistics) Validate() error {
	if s.Games <= 0 {
		return fmt.Errorf("invalid games count: %d", s.Games)
	}
	if s.Wins != s.Games {
		return fmt.Errorf("recorded %d winners for %d games", s.Wins, s.Games)
	}
	if s.Rejected != 0 {
		return fmt.Errorf("bots made %d rejected actions", s.Rejected)
	}
	if s.ConservationFailures != 0 {
		return fmt.Errorf("card conservation failed in %d games", s.ConservationFailures)
	}

	tierSeats, positionSeats := 0, 0
	for _, ts := range s.Tiers {
		tierSeats += ts.Seats
	}
	for _, ps := range s.Positions {
		positionSeats += ps.Seats
	}
	if tierSeats != len(s.Values) || positionSeats != len(s.Values) {
		return fmt.Errorf("seat totals disagree: tiers=%d positions=%d values=%d",
			tierSeats, positionSeats, len(s.Values))
	}
	return nil
}
