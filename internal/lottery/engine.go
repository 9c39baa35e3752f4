package lottery

import "math"

// Mode is the machine's probability state.
type Mode int

const (
	ModeNormal Mode = iota
	ModeRush
)

func (m Mode) String() string {
	if m == ModeRush {
		return "rush"
	}
	return "normal"
}

// ReachType is the near-miss effect attached to an outcome. ReachNone means no reach.
type ReachType int

const (
	ReachNone ReachType = iota
	ReachNormal
	ReachSuper
	ReachPremium
)

func (r ReachType) String() string {
	switch r {
	case ReachNormal:
		return "normal"
	case ReachSuper:
		return "super"
	case ReachPremium:
		return "premium"
	default:
		return "none"
	}
}

const (
	// NormalJackpotProb is the per-spin jackpot probability outside Rush (1/319).
	NormalJackpotProb = 1.0 / 319

	// STCount is the number of spins a Rush lasts.
	STCount = 100
	// RushContinuation is the chance that a fresh Rush hits another jackpot within STCount spins.
	RushContinuation = 0.8
	// RushEntryRate is the chance that a jackpot enters (or renews) Rush.
	RushEntryRate = 0.8
	// TenRoundRate is the chance that a jackpot grants 10 rounds instead of 3.
	TenRoundRate = 0.9

	normalReachRate = 0.08
	rushReachRate   = 0.30
)

// RushJackpotProb solves 1-(1-p)^STCount = RushContinuation, p ≈ 0.016.
var RushJackpotProb = 1 - math.Pow(1-RushContinuation, 1.0/STCount)

// SpinOutcome is the result of one draw.
type SpinOutcome struct {
	Symbols   Symbols
	IsJackpot bool
	Reach     ReachType
}

// HasReach reports whether the outcome plays a reach effect.
func (o SpinOutcome) HasReach() bool { return o.Reach != ReachNone }

// JackpotResult is produced by ProcessJackpot right after a jackpot outcome.
type JackpotResult struct {
	Round  int // 3 or 10
	IsRush bool
	Symbol Symbol // display only
}

// Engine is the probability engine. It owns the mode transitions driven by spin outcomes.
// Engine is not safe for concurrent use; the orchestrator is its only caller.
type Engine struct {
	rng RandomSource

	mode          Mode
	rushRemaining int
	totalSpins    int
	jackpotCount  int
}

// NewEngine creates an engine in Normal mode. A nil rng uses DefaultRNG.
func NewEngine(rng RandomSource) *Engine {
	if rng == nil {
		rng = DefaultRNG()
	}
	return &Engine{rng: rng}
}

// Draw performs one spin lottery. It never fails.
//
// Random values are consumed in this order: jackpot roll, reach rolls, symbol rolls.
func (e *Engine) Draw() SpinOutcome {
	e.totalSpins++

	isJackpot := e.checkJackpot()
	reach := e.determineReach(isJackpot)
	symbols := e.generateSymbols(isJackpot, reach)

	if e.mode == ModeRush {
		e.rushRemaining--
		if e.rushRemaining <= 0 {
			e.rushRemaining = 0
			if !isJackpot {
				e.mode = ModeNormal
			}
		}
	}

	return SpinOutcome{
		Symbols:   symbols,
		IsJackpot: isJackpot,
		Reach:     reach,
	}
}

func (e *Engine) checkJackpot() bool {
	if e.mode == ModeRush {
		return hit(RushJackpotProb, e.rng)
	}
	return hit(NormalJackpotProb, e.rng)
}

func (e *Engine) determineReach(isJackpot bool) ReachType {
	if isJackpot {
		// a jackpot always reaches
		r := e.rng.Float64()
		switch {
		case r < 0.1:
			return ReachPremium
		case r < 0.4:
			return ReachSuper
		default:
			return ReachNormal
		}
	}

	chance := normalReachRate
	if e.mode == ModeRush {
		chance = rushReachRate
	}
	if !hit(chance, e.rng) {
		return ReachNone
	}
	r := e.rng.Float64()
	switch {
	case r < 0.02:
		return ReachPremium
	case r < 0.2:
		return ReachSuper
	default:
		return ReachNormal
	}
}

func (e *Engine) generateSymbols(isJackpot bool, reach ReachType) Symbols {
	if isJackpot {
		s := symbolAt(pick(NumSymbols, e.rng))
		return Symbols{s, s, s}
	}

	if reach != ReachNone {
		pair := pick(NumSymbols, e.rng)
		third := pair
		for third == pair {
			third = pick(NumSymbols, e.rng)
		}
		s, o := symbolAt(pair), symbolAt(third)
		switch pick(3, e.rng) {
		case 0:
			return Symbols{s, s, o}
		case 1:
			return Symbols{s, o, s}
		default:
			return Symbols{o, s, s}
		}
	}

	// scattered: all three differ so the display never reads as a reach
	var idx [3]int
	idx[0] = pick(NumSymbols, e.rng)
	idx[1] = idx[0]
	for idx[1] == idx[0] {
		idx[1] = pick(NumSymbols, e.rng)
	}
	idx[2] = idx[0]
	for idx[2] == idx[0] || idx[2] == idx[1] {
		idx[2] = pick(NumSymbols, e.rng)
	}
	return Symbols{symbolAt(idx[0]), symbolAt(idx[1]), symbolAt(idx[2])}
}

// ProcessJackpot decides rounds and rush entry. Call it only right after a Draw
// that returned IsJackpot. It never fails.
//
// Random values are consumed in this order: round roll, rush roll, symbol roll.
func (e *Engine) ProcessJackpot() JackpotResult {
	e.jackpotCount++

	round := 3
	if e.rng.Float64() < TenRoundRate {
		round = 10
	}

	// a jackpot without rush entry leaves a running ST counting down
	isRush := hit(RushEntryRate, e.rng)
	if isRush {
		e.mode = ModeRush
		e.rushRemaining = STCount
	}

	return JackpotResult{
		Round:  round,
		IsRush: isRush,
		Symbol: symbolAt(pick(NumSymbols, e.rng)),
	}
}

func (e *Engine) Mode() Mode { return e.mode }
func (e *Engine) RushRemaining() int { return e.rushRemaining }
func (e *Engine) TotalSpins() int { return e.totalSpins }
func (e *Engine) JackpotCount() int { return e.jackpotCount }

// EnterRush forces a fresh Rush. Calibration runs use it to start from a known state.
func (e *Engine) EnterRush() {
	e.mode = ModeRush
	e.rushRemaining = STCount
}

// Reset returns the engine to its initial Normal state and clears the counters.
func (e *Engine) Reset() {
	e.mode = ModeNormal
	e.rushRemaining = 0
	e.totalSpins = 0
	e.jackpotCount = 0
}
