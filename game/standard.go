package game

type StandardRules struct {
	MaxAttack int
	MaxDefend int
	DieSides  int
}

func NewStandardRules() *StandardRules {
	return &StandardRules{
		MaxAttack: 3,
		MaxDefend: 2,
		DieSides:  6,
	}
}

func (sr *StandardRules) MaxAttackDice() int {
	return sr.MaxAttack
}

func (sr *StandardRules) MaxDefendDice() int {
	return sr.MaxDefend
}

func (sr *StandardRules) Sides() int {
	return sr.DieSides
}

func (sr *StandardRules) DiceFor(a, d int) (attackerDice, defenderDice int) {
	if a <= 0 || d <= 0 {
		return 0, 0
	}
	return min(a, sr.MaxAttack), min(d, sr.MaxDefend)
}

func (sr *StandardRules) DetermineAttackOutcome(attackerRolls, defenderRolls []int) (attackerLosses, defenderLosses int) {
	// Standard Risk attack outcome: defender wins ties
	battles := min(len(attackerRolls), len(defenderRolls))
	for i := 0; i < battles; i++ {
		if attackerRolls[i] > defenderRolls[i] {
			defenderLosses++
		} else {
			attackerLosses++
		}
	}
	return
}
