// Package simulator estimates attacker win probabilities by playing out
// randomized battles.
package simulator

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"dprisk/game"
	"dprisk/meta"
	"dprisk/simulator/metrics"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// batchSize is the number of trials drawn from one random stream.
const batchSize = 1024

type Option func(s *Simulator)

type Simulator struct {
	rules        game.Rules
	goroutines   int
	seed         uint64
	// newCollector is called once per Simulate so concurrent runs on one
	// Simulator keep separate metrics.
	newCollector func() metrics.Collector
}

func WithGoroutines(goroutines int) Option {
	return func(s *Simulator) {
		if goroutines > 0 {
			s.goroutines = goroutines
		}
	}
}

// WithSeed fixes the base seed. The same seed reproduces the same result
// for any number of goroutines. Zero keeps a time-based seed.
func WithSeed(seed uint64) Option {
	return func(s *Simulator) {
		if seed != 0 {
			s.seed = seed
		}
	}
}

func WithMetrics() Option {
	return func(s *Simulator) {
		s.newCollector = metrics.NewCollector
	}
}

// WithCollector reports every run to c. Simulate calls sharing c must not
// overlap, since Start resets it.
func WithCollector(c metrics.Collector) Option {
	return func(s *Simulator) {
		if c != nil {
			s.newCollector = func() metrics.Collector { return c }
		}
	}
}

func New(rules game.Rules, options ...Option) *Simulator {
	s := &Simulator{ // Default values
		rules:        rules,
		goroutines:   meta.GO_ROUTINES,
		seed:         uint64(time.Now().UnixNano()),
		newCollector: metrics.NewDummyCollector,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Result is the outcome of a simulation run.
type Result struct {
	Attackers int
	Defenders int
	Trials    int
	Wins      int
	Seed      uint64
	Metric    metrics.SimulationMetric
}

// Estimate returns the fraction of trials the attacker won. ok is false
// when no trials were run.
func (r Result) Estimate() (p float64, ok bool) {
	if r.Trials == 0 {
		return 0, false
	}
	return float64(r.Wins) / float64(r.Trials), true
}

// StdErr is the standard error of the estimate, sqrt(p(1-p)/N).
func (r Result) StdErr() float64 {
	p, ok := r.Estimate()
	if !ok {
		return math.NaN()
	}
	return math.Sqrt(p * (1 - p) / float64(r.Trials))
}

// Simulate plays trials independent battles starting from (attackers,
// defenders). Trials are split into fixed batches, each drawn from its own
// random stream, and spread over the worker goroutines.
func (s *Simulator) Simulate(ctx context.Context, attackers, defenders, trials int) (Result, error) {
	if err := game.ValidateForces(attackers, defenders); err != nil {
		return Result{}, err
	}
	if trials < 0 {
		return Result{}, fmt.Errorf("%w: samples must be >= 0, got %d", game.ErrInvalidInput, trials)
	}

	result := Result{
		Attackers: attackers,
		Defenders: defenders,
		Trials:    trials,
		Seed:      s.seed,
	}
	if trials == 0 {
		return result, nil
	}

	batches := trials / batchSize
	if trials%batchSize != 0 {
		batches++
	}
	// Workers claim batch indices from a shared counter, so no batch is
	// materialized before a worker is ready for it.
	var next atomic.Int64

	goroutines := min(s.goroutines, batches)
	wins := make([]int, goroutines)
	collector := s.newCollector()
	collector.Start(goroutines)

	var wg sync.WaitGroup
	for w := 0; w < goroutines; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()

			r := rand.New(&rand.PCGSource{})
			for {
				if ctx.Err() != nil {
					return
				}
				batch := int(next.Add(1) - 1)
				if batch >= batches {
					return
				}
				r.Seed(streamSeed(s.seed, uint64(batch)))
				n := min(batchSize, trials-batch*batchSize)

				batchWins, batchRounds := 0, 0
				for i := 0; i < n; i++ {
					won, rounds := Battle(r, s.rules, attackers, defenders)
					if won {
						batchWins++
					}
					batchRounds += rounds
				}
				wins[w] += batchWins
				collector.AddTrials(n, batchWins, batchRounds)
			}
		}(w)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("simulation abandoned: %w", err)
	}

	for _, w := range wins {
		result.Wins += w
	}
	result.Metric = collector.Complete()

	log.Debug().Msgf("simulated %d battles of %d vs %d on %d goroutines", trials, attackers, defenders, goroutines)
	return result, nil
}

// Battle plays one battle to the end and reports whether the attacker won
// and how many rounds it took. Eliminating both sides at once is not a win.
func Battle(r *rand.Rand, rules game.Rules, attackers, defenders int) (won bool, rounds int) {
	for attackers > 0 && defenders > 0 {
		nAtk, nDef := rules.DiceFor(attackers, defenders)
		attackerRolls := game.RollDice(r, nAtk, rules.Sides())
		defenderRolls := game.RollDice(r, nDef, rules.Sides())

		attackerLosses, defenderLosses := rules.DetermineAttackOutcome(attackerRolls, defenderRolls)
		attackers -= attackerLosses
		defenders -= defenderLosses
		rounds++
	}
	return defenders == 0 && attackers > 0, rounds
}

// streamSeed derives the seed of one batch with a splitmix64 step so that
// neighbouring batches do not start from correlated states.
func streamSeed(seed, stream uint64) uint64 {
	z := seed + (stream+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
