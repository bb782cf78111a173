// Package solver computes exact attacker win probabilities for every
// battle state up to a requested size by dynamic programming.
package solver

import (
	"errors"
	"fmt"
	"time"

	"dprisk/game"
	"dprisk/meta"
	"dprisk/outcome"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
)

// ErrResourceExhausted is returned when a table would exceed the cell limit.
var ErrResourceExhausted = errors.New("resource exhausted")

type Option func(s *Solver)

// WithMaxCells caps the number of table cells a single solve may allocate.
func WithMaxCells(cells int) Option {
	return func(s *Solver) {
		if cells > 0 {
			s.maxCells = cells
		}
	}
}

// Solver fills win probability tables from a shared outcome model.
type Solver struct {
	rules    game.Rules
	dists    map[outcome.Dice]outcome.Distribution
	depth    int // most units a side can lose in one round
	maxCells int
}

func New(model *outcome.Model, rules game.Rules, options ...Option) *Solver {
	s := &Solver{
		rules:    rules,
		dists:    make(map[outcome.Dice]outcome.Distribution),
		maxCells: meta.MAX_TABLE_CELLS,
	}
	for _, dice := range model.Combinations() {
		dist := model.Distribution(dice.Attacker, dice.Defender)
		s.dists[dice] = dist
		s.depth = max(s.depth, dist.Comparisons)
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Solve returns the full (attackers+1)x(defenders+1) table.
//
// P[a][0] is 1 for a >= 1 and row 0 is 0, so an empty battle (0,0) counts
// as an attacker loss.
func (s *Solver) Solve(attackers, defenders int) (*Table, error) {
	if err := s.check(attackers, defenders, attackers); err != nil {
		return nil, err
	}

	start := time.Now()
	p := mat.NewDense(attackers+1, defenders+1, nil)
	for a := 1; a <= attackers; a++ {
		p.Set(a, 0, 1)
	}

	// Every round removes at least one unit, so (a,d) only reads cells with
	// smaller a or smaller d that this order has already filled.
	for a := 1; a <= attackers; a++ {
		for d := 1; d <= defenders; d++ {
			p.Set(a, d, s.cell(a, d, p.At))
		}
	}

	log.Debug().Msgf("solved %dx%d table in %s", attackers+1, defenders+1, time.Since(start))
	return &Table{data: p}, nil
}

// WinProbability computes only P[attackers][defenders], keeping the last
// few attacker rows instead of the whole table. The result is identical
// to Solve(attackers, defenders).Answer().
func (s *Solver) WinProbability(attackers, defenders int) (float64, error) {
	window := s.depth + 1
	if err := s.check(attackers, defenders, window-1); err != nil {
		return 0, err
	}
	if attackers == 0 {
		return 0, nil
	}

	rows := make([][]float64, window)
	for i := range rows {
		rows[i] = make([]float64, defenders+1)
	}
	at := func(a, d int) float64 {
		return rows[a%window][d]
	}

	for a := 1; a <= attackers; a++ {
		row := rows[a%window]
		row[0] = 1
		for d := 1; d <= defenders; d++ {
			row[d] = s.cell(a, d, at)
		}
	}
	return rows[attackers%window][defenders], nil
}

// cell applies one round of the recurrence at interior state (a,d).
func (s *Solver) cell(a, d int, at func(a, d int) float64) float64 {
	nAtk, nDef := s.rules.DiceFor(a, d)
	dist := s.dists[outcome.Dice{Attacker: nAtk, Defender: nDef}]

	value := 0.0
	for k, prob := range dist.PMF {
		if prob == 0 {
			continue
		}
		value += prob * at(a-k, d-(dist.Comparisons-k))
	}
	return value
}

// check validates the forces and that rows 0..lastRow of defenders+1
// cells fit within the cell limit. Nothing is added before comparing, so
// counts near math.MaxInt cannot wrap around.
func (s *Solver) check(attackers, defenders, lastRow int) error {
	if err := game.ValidateForces(attackers, defenders); err != nil {
		return err
	}
	if defenders >= s.maxCells || lastRow >= s.maxCells/(defenders+1) {
		return fmt.Errorf("%w: rows 0..%d of columns 0..%d exceed the limit of %d cells",
			ErrResourceExhausted, lastRow, defenders, s.maxCells)
	}
	return nil
}
