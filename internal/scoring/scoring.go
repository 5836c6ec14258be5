// Package scoring implements the score counter, chain level, combo count
// and multiplier arithmetic (§4.8), kept as fields of the owning
// GameSession rather than module-level globals so multiple sessions (and
// replays) can coexist without shared mutable state.
package scoring

import "math"

// ChainMultiplierBase is the exponential base applied per chain level
// (§6 ABI constants).
const ChainMultiplierBase = 1.5

// baseForSize is the SCORE_BASE table: {3:5,4:10,5:20}; for n>5 the base
// extrapolates as n*10.
func baseForSize(n int) int {
	switch {
	case n <= 2:
		return 0
	case n == 3:
		return 5
	case n == 4:
		return 10
	case n == 5:
		return 20
	default:
		return n * 10
	}
}

// Scoring tracks one session's running score, chain level and combo count.
type Scoring struct {
	Score      int
	ChainLevel int
	Combo      int
}

// AwardMatch computes points = round(base(size) * ChainMultiplierBase^ChainLevel * bonusMultiplier),
// adds them to Score, increments Combo by one and returns the points
// awarded.
func (s *Scoring) AwardMatch(size int, bonusMultiplier float64) int {
	base := float64(baseForSize(size))
	factor := math.Pow(ChainMultiplierBase, float64(s.ChainLevel))
	points := int(math.Round(base * factor * bonusMultiplier))
	s.Score += points
	s.Combo++
	return points
}

// AdvanceChain increments the chain level by one cascade iteration.
func (s *Scoring) AdvanceChain() {
	s.ChainLevel++
}

// ResetChain zeroes the chain level and combo count, called once a
// cascade settles with no further matches.
func (s *Scoring) ResetChain() {
	s.ChainLevel = 0
	s.Combo = 0
}
