// Package outcome enumerates the exact per-round loss distributions of a
// battle for every combination of dice the two sides can roll.
package outcome

import (
	"fmt"
	"sort"

	"dprisk/game"
)

// Dice identifies a combination of attacker and defender dice.
type Dice struct {
	Attacker int
	Defender int
}

// Distribution is the probability mass function of attacker losses in one
// round. PMF[k] is the probability the attacker loses k units, and the
// defender then loses Comparisons-k.
type Distribution struct {
	Comparisons int
	PMF         []float64
	Counts      []int
	Total       int
}

// Model holds one Distribution per dice combination. It is immutable once
// built and safe to share between goroutines.
type Model struct {
	sides         int
	maxAttackDice int
	maxDefendDice int
	dists         map[Dice]Distribution
}

// NewModel enumerates every joint roll allowed by rules.
func NewModel(rules game.Rules) (*Model, error) {
	if err := game.Validate(rules); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}

	m := &Model{
		sides:         rules.Sides(),
		maxAttackDice: rules.MaxAttackDice(),
		maxDefendDice: rules.MaxDefendDice(),
		dists:         make(map[Dice]Distribution),
	}
	for nAtk := 1; nAtk <= m.maxAttackDice; nAtk++ {
		for nDef := 1; nDef <= m.maxDefendDice; nDef++ {
			m.dists[Dice{nAtk, nDef}] = enumerate(rules, nAtk, nDef)
		}
	}
	return m, nil
}

func enumerate(rules game.Rules, nAtk, nDef int) Distribution {
	comparisons := min(nAtk, nDef)
	counts := make([]int, comparisons+1)
	total := 0

	atkRolls := allRolls(nAtk, rules.Sides())
	defRolls := allRolls(nDef, rules.Sides())
	for _, atk := range atkRolls {
		for _, def := range defRolls {
			losses, _ := rules.DetermineAttackOutcome(atk, def)
			counts[losses]++
			total++
		}
	}

	pmf := make([]float64, len(counts))
	for k, c := range counts {
		pmf[k] = float64(c) / float64(total)
	}
	return Distribution{
		Comparisons: comparisons,
		PMF:         pmf,
		Counts:      counts,
		Total:       total,
	}
}

// allRolls lists every ordered roll of n dice, each sorted highest first.
func allRolls(n, sides int) [][]int {
	if n == 0 {
		return [][]int{nil}
	}
	var out [][]int
	for _, sub := range allRolls(n-1, sides) {
		for face := 1; face <= sides; face++ {
			roll := append([]int{face}, sub...)
			sort.Sort(sort.Reverse(sort.IntSlice(roll)))
			out = append(out, roll)
		}
	}
	return out
}

// Distribution returns a copy of the loss distribution for the given dice. It panics
// on a combination the rules do not allow, which only a caller bug can
// produce.
func (m *Model) Distribution(nAtk, nDef int) Distribution {
	dist, ok := m.dists[Dice{nAtk, nDef}]
	if !ok {
		panic(fmt.Sprintf("outcome: no distribution for %d attacker and %d defender dice", nAtk, nDef))
	}
	return dist.clone()
}

func (d Distribution) clone() Distribution {
	d.PMF = append([]float64(nil), d.PMF...)
	d.Counts = append([]int(nil), d.Counts...)
	return d
}

// Combinations lists the dice combinations ordered by defender dice, then
// attacker dice.
func (m *Model) Combinations() []Dice {
	combos := make([]Dice, 0, len(m.dists))
	for nDef := 1; nDef <= m.maxDefendDice; nDef++ {
		for nAtk := 1; nAtk <= m.maxAttackDice; nAtk++ {
			combos = append(combos, Dice{nAtk, nDef})
		}
	}
	return combos
}

func (m *Model) Sides() int {
	return m.sides
}
