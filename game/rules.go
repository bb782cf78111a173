package game

import "fmt"

// Rules describes how a single battle round is fought.
type Rules interface {
	MaxAttackDice() int
	MaxDefendDice() int
	Sides() int
	// DiceFor returns the number of dice each side rolls with a attacking
	// and d defending units. Both are zero once either side is eliminated.
	DiceFor(a, d int) (attackerDice, defenderDice int)
	// DetermineAttackOutcome compares rolls sorted in descending order.
	DetermineAttackOutcome(attackerRolls, defenderRolls []int) (attackerLosses, defenderLosses int)
}

// Validate reports whether r describes a playable game.
func Validate(r Rules) error {
	if r == nil {
		return fmt.Errorf("rules must not be nil")
	}
	if r.Sides() < 2 {
		return fmt.Errorf("dice must have at least 2 sides, got %d", r.Sides())
	}
	if r.MaxAttackDice() < 1 || r.MaxDefendDice() < 1 {
		return fmt.Errorf("both sides must roll at least one die, got %d attack and %d defend",
			r.MaxAttackDice(), r.MaxDefendDice())
	}
	return nil
}
