package lottery

import (
	"math"
	"sort"
)

// TrialGoal selects what one calibration trial measures.
type TrialGoal string

const (
	// Jackpots hit in a fixed budget of Normal-mode draws (rounds are never played).
	GoalNormalJackpots TrialGoal = "normal_jackpots"
	// 1 if a freshly entered Rush hits another jackpot within STCount spins, else 0.
	GoalRushContinuation TrialGoal = "rush_continuation"
	// Normal-mode draws until the first jackpot.
	GoalSpinsToJackpot TrialGoal = "spins_to_jackpot"
)

// SimBudget controls the number of draws used in GoalNormalJackpots.
type SimBudget struct {
	NumDraws int
}

// Stats summarizes simulation results.
type Stats struct {
	Trials int
	Mean   float64
	Var    float64
	StdDev float64
	P50    float64
	P90    float64
	P99    float64
	// raw samples if caller needs histograms/exports
	Samples []int `json:"-"`
}

// calcStats computes mean/variance/percentiles for integer samples.
func calcStats(xs []int) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{}
	}
	var sum float64
	for _, v := range xs {
		sum += float64(v)
	}
	mean := sum / float64(n)

	// variance (population)
	var acc float64
	for _, v := range xs {
		d := float64(v) - mean
		acc += d * d
	}
	variance := acc / float64(n)

	cp := append([]int(nil), xs...)
	sort.Ints(cp)
	percentile := func(p float64) float64 {
		if n == 1 || p <= 0 {
			return float64(cp[0])
		}
		if p >= 1 {
			return float64(cp[n-1])
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		f := pos - float64(i)
		if i+1 >= n {
			return float64(cp[i])
		}
		return float64(cp[i])*(1-f) + float64(cp[i+1])*f
	}

	return Stats{
		Trials:  n,
		Mean:    mean,
		Var:     variance,
		StdDev:  math.Sqrt(variance),
		P50:     percentile(0.50),
		P90:     percentile(0.90),
		P99:     percentile(0.99),
		Samples: xs,
	}
}

// CountNormalJackpots draws n times in Normal mode and returns the jackpot count.
// Jackpots are not processed, so the engine never leaves Normal mode.
func CountNormalJackpots(n int, rng RandomSource) int {
	e := NewEngine(rng)
	hits := 0
	for i := 0; i < n; i++ {
		if e.Draw().IsJackpot {
			hits++
		}
	}
	return hits
}

// RushContinues plays one freshly entered Rush and reports whether it hit a jackpot
// before the ST count ran out.
func RushContinues(rng RandomSource) bool {
	e := NewEngine(rng)
	e.EnterRush()
	for i := 0; i < STCount; i++ {
		if e.Draw().IsJackpot {
			return true
		}
	}
	return false
}

func spinsToJackpot(rng RandomSource) int {
	e := NewEngine(rng)
	draws := 0
	for {
		draws++
		if e.Draw().IsJackpot {
			return draws
		}
	}
}

// simulateOne returns the primary metric for one trial depending on the goal.
func simulateOne(goal TrialGoal, budget *SimBudget, rng RandomSource) int {
	switch goal {
	case GoalNormalJackpots:
		if budget == nil || budget.NumDraws <= 0 {
			return 0
		}
		return CountNormalJackpots(budget.NumDraws, rng)
	case GoalRushContinuation:
		if RushContinues(rng) {
			return 1
		}
		return 0
	case GoalSpinsToJackpot:
		return spinsToJackpot(rng)
	}
	return 0
}

// RunMonteCarlo repeats trials on one shared random source and returns summary stats.
func RunMonteCarlo(goal TrialGoal, trials int, budget *SimBudget, rng RandomSource) Stats {
	if trials <= 0 {
		return Stats{}
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	samples := make([]int, trials)
	for i := 0; i < trials; i++ {
		samples[i] = simulateOne(goal, budget, rng)
	}
	return calcStats(samples)
}
