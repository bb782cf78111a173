package metrics

import (
	"sync/atomic"
	"time"
)

type SimulationMetric struct {
	Goroutines   int
	Duration     time.Duration
	Trials       int
	AttackerWins int
	Rounds       int
}

// RoundsPerTrial is the mean battle length in rounds.
func (m SimulationMetric) RoundsPerTrial() float64 {
	if m.Trials == 0 {
		return 0
	}
	return float64(m.Rounds) / float64(m.Trials)
}

// TrialsPerSecond is the simulation throughput.
func (m SimulationMetric) TrialsPerSecond() float64 {
	if m.Duration <= 0 {
		return 0
	}
	return float64(m.Trials) / m.Duration.Seconds()
}

type Collector interface {
	Start(goroutines int)
	AddTrials(trials, wins, rounds int)
	Complete() SimulationMetric
}

type collector struct {
	goroutines int
	startTime  time.Time
	trials     atomic.Int64
	wins       atomic.Int64
	rounds     atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(goroutines int) {
	m.startTime = time.Now()
	m.goroutines = goroutines
	m.trials.Store(0)
	m.wins.Store(0)
	m.rounds.Store(0)
}

func (m *collector) AddTrials(trials, wins, rounds int) {
	m.trials.Add(int64(trials))
	m.wins.Add(int64(wins))
	m.rounds.Add(int64(rounds))
}

func (m *collector) Complete() SimulationMetric {
	return SimulationMetric{
		Goroutines:   m.goroutines,
		Duration:     time.Since(m.startTime),
		Trials:       int(m.trials.Load()),
		AttackerWins: int(m.wins.Load()),
		Rounds:       int(m.rounds.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(goroutines int)               {}
func (m *dummyCollector) AddTrials(trials, wins, rounds int) {}
func (m *dummyCollector) Complete() SimulationMetric         { return SimulationMetric{} }
