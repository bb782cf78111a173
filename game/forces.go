package game

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned for unit or sample counts no battle can have.
var ErrInvalidInput = errors.New("invalid input")

// ValidateForces rejects negative unit counts.
func ValidateForces(attackers, defenders int) error {
	if attackers < 0 {
		return fmt.Errorf("%w: attackers must be >= 0, got %d", ErrInvalidInput, attackers)
	}
	if defenders < 0 {
		return fmt.Errorf("%w: defenders must be >= 0, got %d", ErrInvalidInput, defenders)
	}
	return nil
}
