package solver

import (
	"math"
	"testing"

	"dprisk/game"
	"dprisk/outcome"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func newSolver(t require.TestingT, options ...Option) *Solver {
	rules := game.NewStandardRules()
	model, err := outcome.NewModel(rules)
	require.NoError(t, err)
	return New(model, rules, options...)
}

func TestSolveBoundaries(t *testing.T) {
	s := newSolver(t)
	table, err := s.Solve(6, 5)
	require.NoError(t, err)

	rows, cols := table.Dims()
	require.Equal(t, 7, rows)
	require.Equal(t, 6, cols)
	for a := 1; a <= 6; a++ {
		require.Equal(t, 1.0, table.At(a, 0), "Defender already eliminated at (%d,0)", a)
	}
	for d := 0; d <= 5; d++ {
		require.Equal(t, 0.0, table.At(0, d), "Attacker already eliminated at (0,%d)", d)
	}
}

func TestSolveKnownValues(t *testing.T) {
	s := newSolver(t)

	t.Run("single die against single die", func(t *testing.T) {
		table, err := s.Solve(1, 1)
		require.NoError(t, err)
		require.InDelta(t, 15.0/36.0, table.Answer(), 1e-15)
	})

	t.Run("three attackers against two defenders", func(t *testing.T) {
		table, err := s.Solve(3, 2)
		require.NoError(t, err)

		rows, cols := table.Dims()
		require.Equal(t, 4, rows)
		require.Equal(t, 3, cols)

		// Exact values from enumerating the game tree with rational arithmetic
		expected := [][]float64{
			{0, 0, 0},
			{1, 5.0 / 12.0, 275.0 / 2592.0},
			{1, 1955.0 / 2592.0, 235.0 / 648.0},
			{1, 342035.0 / 373248.0, 6610505.0 / 10077696.0},
		}
		for a, row := range expected {
			require.InDeltaSlice(t, row, table.Row(a), 1e-12, "row %d", a)
		}
		require.InDelta(t, 0.6559539998031296, table.Answer(), 1e-12)
	})

	t.Run("ten against ten", func(t *testing.T) {
		table, err := s.Solve(10, 10)
		require.NoError(t, err)
		require.InDelta(t, 0.5675928721351304, table.Answer(), 1e-12)
	})
}

func TestSolveDegenerate(t *testing.T) {
	s := newSolver(t)

	t.Run("empty battle is an attacker loss", func(t *testing.T) {
		table, err := s.Solve(0, 0)
		require.NoError(t, err)
		rows, cols := table.Dims()
		require.Equal(t, 1, rows)
		require.Equal(t, 1, cols)
		require.Equal(t, 0.0, table.Answer())
	})

	t.Run("no defenders", func(t *testing.T) {
		table, err := s.Solve(4, 0)
		require.NoError(t, err)
		require.Equal(t, []float64{0}, table.Row(0))
		require.Equal(t, 1.0, table.Answer())
	})

	t.Run("no attackers", func(t *testing.T) {
		table, err := s.Solve(0, 4)
		require.NoError(t, err)
		require.Equal(t, []float64{0, 0, 0, 0, 0}, table.Row(0))
	})
}

func TestSolveErrors(t *testing.T) {
	s := newSolver(t, WithMaxCells(100))

	_, err := s.Solve(-1, 3)
	require.ErrorIs(t, err, game.ErrInvalidInput)

	_, err = s.Solve(3, -1)
	require.ErrorIs(t, err, game.ErrInvalidInput)

	_, err = s.Solve(10, 10)
	require.ErrorIs(t, err, ErrResourceExhausted, "121 cells should exceed a 100 cell limit")

	_, err = s.Solve(9, 9)
	require.NoError(t, err)
}

func TestSolveRejectsHugeForces(t *testing.T) {
	s := newSolver(t)

	cases := map[string][2]int{
		"huge attackers":  {math.MaxInt, 1},
		"huge defenders":  {1, math.MaxInt},
		"both huge":       {math.MaxInt, math.MaxInt},
		"just over limit": {1 << 14, 1 << 13},
	}
	for name, forces := range cases {
		t.Run(name, func(t *testing.T) {
			require.NotPanics(t, func() {
				_, err := s.Solve(forces[0], forces[1])
				require.ErrorIs(t, err, ErrResourceExhausted)
			})
		})
	}

	t.Run("rolling rows reject huge defenders", func(t *testing.T) {
		_, err := s.WinProbability(1, math.MaxInt)
		require.ErrorIs(t, err, ErrResourceExhausted)
	})
}

func TestSolveIsDeterministic(t *testing.T) {
	s := newSolver(t)
	first, err := s.Solve(25, 30)
	require.NoError(t, err)
	second, err := s.Solve(25, 30)
	require.NoError(t, err)

	for a := 0; a <= 25; a++ {
		require.Equal(t, first.Row(a), second.Row(a), "row %d should be bit-identical", a)
	}
}

func TestWinProbabilityMatchesTable(t *testing.T) {
	s := newSolver(t)
	rapid.Check(t, func(t *rapid.T) {
		attackers := rapid.IntRange(0, 40).Draw(t, "attackers")
		defenders := rapid.IntRange(0, 40).Draw(t, "defenders")

		table, err := s.Solve(attackers, defenders)
		if err != nil {
			t.Fatalf("solve failed: %v", err)
		}
		p, err := s.WinProbability(attackers, defenders)
		if err != nil {
			t.Fatalf("win probability failed: %v", err)
		}
		if p != table.Answer() {
			t.Fatalf("rolling rows gave %v, table gave %v", p, table.Answer())
		}
	})
}

func TestWinProbabilityFitsSmallerLimit(t *testing.T) {
	// A 100x100 table does not fit in 400 cells but three rolling rows do
	s := newSolver(t, WithMaxCells(400))

	_, err := s.Solve(99, 99)
	require.ErrorIs(t, err, ErrResourceExhausted)

	p, err := s.WinProbability(99, 99)
	require.NoError(t, err)
	require.Greater(t, p, 0.0)
	require.Less(t, p, 1.0)
}

func TestTableInvariants(t *testing.T) {
	s := newSolver(t)
	rapid.Check(t, func(t *rapid.T) {
		attackers := rapid.IntRange(0, 60).Draw(t, "attackers")
		defenders := rapid.IntRange(0, 60).Draw(t, "defenders")

		table, err := s.Solve(attackers, defenders)
		if err != nil {
			t.Fatalf("solve failed: %v", err)
		}
		if err := table.Check(1e-12); err != nil {
			t.Fatalf("invariant check failed: %v", err)
		}
	})
}
