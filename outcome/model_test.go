package outcome

import (
	"testing"

	"dprisk/game"

	"github.com/stretchr/testify/require"
)

func newStandardModel(t *testing.T) *Model {
	t.Helper()
	m, err := NewModel(game.NewStandardRules())
	require.NoError(t, err)
	return m
}

func TestNewModel(t *testing.T) {
	t.Run("builds all six standard combinations", func(t *testing.T) {
		m := newStandardModel(t)
		require.Len(t, m.Combinations(), 6)
		require.Equal(t, 6, m.Sides())
	})

	t.Run("rejects unplayable rules", func(t *testing.T) {
		_, err := NewModel(&game.StandardRules{MaxAttack: 3, MaxDefend: 2, DieSides: 1})
		require.Error(t, err)
	})
}

func TestDistributionSumsToOne(t *testing.T) {
	m := newStandardModel(t)
	for _, dice := range m.Combinations() {
		dist := m.Distribution(dice.Attacker, dice.Defender)
		require.Equal(t, min(dice.Attacker, dice.Defender), dist.Comparisons)
		require.Len(t, dist.PMF, dist.Comparisons+1)

		sum, count := 0.0, 0
		for k, p := range dist.PMF {
			sum += p
			count += dist.Counts[k]
		}
		require.InDelta(t, 1.0, sum, 1e-9, "PMF for %+v should sum to 1", dice)
		require.Equal(t, dist.Total, count, "Counts for %+v should cover every joint roll", dice)
	}
}

func TestDistributionCounts(t *testing.T) {
	m := newStandardModel(t)

	// Counts of attacker losses k = 0, 1, ... out of 6^(nAtk+nDef) joint rolls
	expected := map[Dice][]int{
		{1, 1}: {15, 21},
		{2, 1}: {125, 91},
		{3, 1}: {855, 441},
		{1, 2}: {55, 161},
		{2, 2}: {295, 420, 581},
		{3, 2}: {2890, 2611, 2275},
	}
	for dice, counts := range expected {
		dist := m.Distribution(dice.Attacker, dice.Defender)
		require.Equal(t, counts, dist.Counts, "counts for %+v", dice)
	}

	oneOnOne := m.Distribution(1, 1)
	require.InDelta(t, 15.0/36.0, oneOnOne.PMF[0], 1e-15)
}

func TestDistributionIsACopy(t *testing.T) {
	m := newStandardModel(t)

	dist := m.Distribution(3, 2)
	dist.PMF[0] = 42
	dist.Counts[0] = 42

	again := m.Distribution(3, 2)
	require.NotEqual(t, 42.0, again.PMF[0], "Model should not be mutable through a returned distribution")
	require.Equal(t, 2890, again.Counts[0])
}

func TestDistributionPanicsOnUnknownDice(t *testing.T) {
	m := newStandardModel(t)
	require.Panics(t, func() {
		m.Distribution(4, 2)
	})
	require.Panics(t, func() {
		m.Distribution(0, 1)
	})
}
