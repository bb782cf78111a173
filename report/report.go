// Package report formats solver tables and simulation results for the
// programs that consume them.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"dprisk/outcome"
	"dprisk/simulator"
	"dprisk/solver"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// WriteTable writes one line per attacker count, each holding the win
// probabilities for 0..D defenders separated by single spaces. Values use
// digits significant digits.
func WriteTable(w io.Writer, table *solver.Table, digits int) error {
	rows, cols := table.Dims()
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 32)

	for a := 0; a < rows; a++ {
		for d := 0; d < cols; d++ {
			if d > 0 {
				bw.WriteByte(' ')
			}
			buf = strconv.AppendFloat(buf[:0], table.At(a, d), 'g', digits, 64)
			bw.Write(buf)
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	return nil
}

// WriteSummary writes the answer cell of table.
func WriteSummary(w io.Writer, table *solver.Table) error {
	return WriteAnswer(w, table.Attackers(), table.Defenders(), table.Answer())
}

// WriteAnswer writes the exact win probability p of attackers against
// defenders.
func WriteAnswer(w io.Writer, attackers, defenders int, p float64) error {
	_, err := fmt.Fprintf(w, "Prob[A wins](A = %d, D = %d) = %.6f\n", attackers, defenders, p)
	return err
}

// WriteSimulation writes the estimate of a simulation run with its
// standard error and sample count.
func WriteSimulation(w io.Writer, result simulator.Result) error {
	p, ok := result.Estimate()
	if !ok {
		_, err := fmt.Fprintf(w, "Sim[A wins](A = %d, D = %d): no samples\n",
			result.Attackers, result.Defenders)
		return err
	}
	_, err := fmt.Fprintf(w, "Sim[A wins](A = %d, D = %d) = %.6f +/- %.6f (%s samples)\n",
		result.Attackers, result.Defenders, p, result.StdErr(), printer.Sprintf("%d", result.Trials))
	return err
}

// WriteDistributions lists the per-round attacker loss probabilities of
// every dice combination.
func WriteDistributions(w io.Writer, model *outcome.Model) error {
	for _, dice := range model.Combinations() {
		dist := model.Distribution(dice.Attacker, dice.Defender)
		if _, err := fmt.Fprintf(w, "probs (na=%d,nd=%d) =", dice.Attacker, dice.Defender); err != nil {
			return err
		}
		for k, prob := range dist.PMF {
			if _, err := fmt.Fprintf(w, " P(lose %d)=%d/%d=%.6f", k, dist.Counts[k], dist.Total, prob); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
