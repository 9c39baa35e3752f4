// Package round drives jackpot rounds: attacker open/close cycles with a prize
// count per round and a pause between rounds.
package round

import (
	"time"

	"go.uber.org/zap"
)

// Phase is the attacker gate state.
type Phase int

const (
	PhaseClosed Phase = iota
	PhaseOpen
	PhaseInterval // between two rounds of the same jackpot, gate shut
)

func (p Phase) String() string {
	switch p {
	case PhaseOpen:
		return "open"
	case PhaseInterval:
		return "interval"
	default:
		return "closed"
	}
}

const (
	// CountPerRound is the number of attacker entries that end a round.
	CountPerRound = 10
	// Interval is the pause before the next round opens.
	Interval = 500 * time.Millisecond
)

// TransitionKind names a round transition.
type TransitionKind int

const (
	RoundOpened TransitionKind = iota
	RoundEnded
	JackpotFinished
)

func (k TransitionKind) String() string {
	switch k {
	case RoundOpened:
		return "round_opened"
	case RoundEnded:
		return "round_ended"
	default:
		return "jackpot_finished"
	}
}

// Transition is reported to the owner after the controller's state changed.
type Transition struct {
	Kind     TransitionKind
	Round    int
	MaxRound int
}

// Status is a copy of the controller state for the owner's ledger.
type Status struct {
	Phase        Phase
	CurrentRound int
	MaxRound     int
	Count        int
	Pending      int // jackpots waiting for the current one to finish
}

// InProgress reports whether a jackpot's rounds are running, gate open or not.
func (s Status) InProgress() bool { return s.Phase != PhaseClosed }

// Entry is the result of one attacker entry.
type Entry struct {
	Counted    bool // pays out and counted toward the round
	RoundEnded bool
}

// Controller owns round progression. It is driven by the owner's clock through
// Advance and never touches the session ledger itself.
type Controller struct {
	phase   Phase
	current int
	max     int
	count   int
	pause   time.Duration
	pending []int

	onTransition func(Transition)
	log          *zap.Logger
}

// NewController returns a closed controller. onTransition may be nil.
func NewController(onTransition func(Transition), logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{onTransition: onTransition, log: logger}
}

// Start opens round 1 of a jackpot granting rounds. A jackpot that arrives while
// another is still running is queued and opens when that one finishes.
func (c *Controller) Start(rounds int) {
	if rounds <= 0 {
		return
	}
	if c.phase != PhaseClosed {
		c.pending = append(c.pending, rounds)
		c.log.Info("jackpot queued", zap.Int("rounds", rounds), zap.Int("pending", len(c.pending)))
		return
	}
	c.max = rounds
	c.open(1)
}

// Enter records an attacker entry. Entries only count while the gate is open;
// the entry that completes a round ends it, so later entries in the same batch
// are not counted.
func (c *Controller) Enter() Entry {
	if c.phase != PhaseOpen || c.count >= CountPerRound {
		return Entry{}
	}
	c.count++
	if c.count < CountPerRound {
		return Entry{Counted: true}
	}
	c.endRound()
	return Entry{Counted: true, RoundEnded: true}
}

// Advance runs the inter-round pause.
func (c *Controller) Advance(dt time.Duration) {
	if c.phase != PhaseInterval {
		return
	}
	c.pause -= dt
	if c.pause > 0 {
		return
	}
	c.open(c.current + 1)
}

func (c *Controller) Status() Status {
	return Status{
		Phase:        c.phase,
		CurrentRound: c.current,
		MaxRound:     c.max,
		Count:        c.count,
		Pending:      len(c.pending),
	}
}

func (c *Controller) open(round int) {
	c.phase = PhaseOpen
	c.current = round
	c.count = 0
	c.pause = 0
	c.log.Debug("round opened", zap.Int("round", round), zap.Int("max_round", c.max))
	c.notify(RoundOpened, round, c.max)
}

func (c *Controller) endRound() {
	round, last := c.current, c.max
	if round < last {
		c.phase = PhaseInterval
		c.pause = Interval
		c.notify(RoundEnded, round, last)
		return
	}

	c.phase = PhaseClosed
	c.current, c.max, c.count = 0, 0, 0
	c.notify(RoundEnded, round, last)
	c.notify(JackpotFinished, round, last)

	if len(c.pending) > 0 {
		next := c.pending[0]
		c.pending = c.pending[1:]
		c.Start(next)
	}
}

func (c *Controller) notify(kind TransitionKind, round, maxRound int) {
	if c.onTransition != nil {
		c.onTransition(Transition{Kind: kind, Round: round, MaxRound: maxRound})
	}
}

// Reset drops any running or queued jackpot.
func (c *Controller) Reset() {
	c.phase = PhaseClosed
	c.current, c.max, c.count = 0, 0, 0
	c.pause = 0
	c.pending = nil
}
