// meta/meta.go
package meta

// GO_ROUTINES defines the default number of simulation workers.
const GO_ROUTINES = 8

// ATTACKERS and DEFENDERS define the default battle, as in the demo driver.
const ATTACKERS = 70

const DEFENDERS = 75

// SAMPLES defines the default number of simulated battles.
const SAMPLES = 10000

// TEXT_DIGITS defines the significant digits of each table value.
const TEXT_DIGITS = 16

// MAX_TABLE_CELLS caps a single table at 1 GiB of float64 values.
const MAX_TABLE_CELLS = 1 << 27
