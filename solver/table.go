package solver

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrInvariant is returned by Check when a table violates a probability
// invariant.
var ErrInvariant = errors.New("table invariant violated")

// Table holds P[a][d], the probability the attacker wins from a attacking
// and d defending units. Rows are indexed by attacker units and columns by
// defender units. A Table is never modified after Solve returns it.
type Table struct {
	data *mat.Dense
}

func (t *Table) At(a, d int) float64 {
	return t.data.At(a, d)
}

// Dims returns the number of rows (attackers+1) and columns (defenders+1).
func (t *Table) Dims() (rows, cols int) {
	return t.data.Dims()
}

func (t *Table) Attackers() int {
	rows, _ := t.data.Dims()
	return rows - 1
}

func (t *Table) Defenders() int {
	_, cols := t.data.Dims()
	return cols - 1
}

// Answer is the win probability of the requested battle, the last cell.
func (t *Table) Answer() float64 {
	return t.data.At(t.Attackers(), t.Defenders())
}

// Row returns a copy of the probabilities for a attacking units.
func (t *Table) Row(a int) []float64 {
	return mat.Row(nil, a, t.data)
}

// Matrix returns a copy of the table as a dense matrix.
func (t *Table) Matrix() *mat.Dense {
	return mat.DenseCopyOf(t.data)
}

// Check verifies the boundary values, that every cell lies in [0,1] within
// tol, and that P never decreases with more attackers or increases with
// more defenders by more than tol.
func (t *Table) Check(tol float64) error {
	rows, cols := t.data.Dims()
	for d := 0; d < cols; d++ {
		if p := t.data.At(0, d); p != 0 {
			return fmt.Errorf("%w: P[0][%d] = %g, want 0", ErrInvariant, d, p)
		}
	}
	for a := 1; a < rows; a++ {
		if p := t.data.At(a, 0); p != 1 {
			return fmt.Errorf("%w: P[%d][0] = %g, want 1", ErrInvariant, a, p)
		}
	}

	for a := 0; a < rows; a++ {
		for d := 0; d < cols; d++ {
			p := t.data.At(a, d)
			if p < -tol || p > 1+tol {
				return fmt.Errorf("%w: P[%d][%d] = %g is outside [0,1]", ErrInvariant, a, d, p)
			}
			if a > 0 && p < t.data.At(a-1, d)-tol {
				return fmt.Errorf("%w: P[%d][%d] = %g < P[%d][%d] = %g",
					ErrInvariant, a, d, p, a-1, d, t.data.At(a-1, d))
			}
			if d > 0 && p > t.data.At(a, d-1)+tol {
				return fmt.Errorf("%w: P[%d][%d] = %g > P[%d][%d] = %g",
					ErrInvariant, a, d, p, a, d-1, t.data.At(a, d-1))
			}
		}
	}
	return nil
}
