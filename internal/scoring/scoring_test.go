package scoring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/arlowen/hexcascade/internal/scoring"
)

func TestAwardMatchBaseSizes(t *testing.T) {
	var s Scoring
	assert.Equal(t, 5, s.AwardMatch(3, 1))
	assert.Equal(t, 1, s.Combo)
}

func TestAwardMatchExtrapolatesAboveFive(t *testing.T) {
	var s Scoring
	assert.Equal(t, 60, s.AwardMatch(6, 1))
}

func TestAwardMatchAppliesChainMultiplier(t *testing.T) {
	var s Scoring
	s.AdvanceChain() // chain level 1
	// 5 * 1.5^1 * 1 = 7.5 -> rounds to 8.
	assert.Equal(t, 8, s.AwardMatch(3, 1))
}

func TestAwardMatchAppliesBonusMultiplier(t *testing.T) {
	var s Scoring
	assert.Equal(t, 10, s.AwardMatch(3, 2))
}

func TestResetChainZeroesLevelAndCombo(t *testing.T) {
	var s Scoring
	s.AdvanceChain()
	s.AwardMatch(3, 1)
	s.ResetChain()
	assert.Equal(t, 0, s.ChainLevel)
	assert.Equal(t, 0, s.Combo)
}

func TestScoreAccumulates(t *testing.T) {
	var s Scoring
	s.AwardMatch(3, 1)
	s.AwardMatch(4, 1)
	assert.Equal(t, 15, s.Score)
}
