// Package game wires the lottery, reels, rounds and ledger into one session.
package game

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mswork1021/pachigame/internal/lottery"
	"github.com/mswork1021/pachigame/internal/pocket"
	"github.com/mswork1021/pachigame/internal/reel"
	"github.com/mswork1021/pachigame/internal/round"
	"github.com/mswork1021/pachigame/internal/session"
)

// Prize balls per pocket entry.
const (
	HesoPrize     = 3
	DenchuPrize   = 1
	AttackerPrize = 15
	SidePrize     = 3
)

// Stats counts what happened in a session. Balls always equals
// initial - Shots + Paid.
type Stats struct {
	Shots        int
	Paid         int
	Removed      int
	OutOfBounds  int
	DroppedSpins int
	Entries      map[pocket.Kind]int
}

// Orchestrator is the single writer of the session ledger and the only caller
// of the lottery engine. It is driven by Tick and is not safe for concurrent use.
type Orchestrator struct {
	id       string
	world    World
	input    Input
	displays []Display

	engine *lottery.Engine
	router *pocket.Router
	reels  *reel.Sequencer
	rounds *round.Controller

	state   *session.State
	initial int
	active  map[pocket.BallID]struct{}
	now     time.Duration
	stats   Stats

	log *zap.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRNG sets the lottery's random source.
func WithRNG(rng lottery.RandomSource) Option {
	return func(o *Orchestrator) { o.engine = lottery.NewEngine(rng) }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

// WithDisplay adds a display. Displays are notified in the order added.
func WithDisplay(d Display) Option {
	return func(o *Orchestrator) {
		if d != nil {
			o.displays = append(o.displays, d)
		}
	}
}

func WithInput(in Input) Option {
	return func(o *Orchestrator) { o.input = in }
}

// WithSessionID overrides the generated session id.
func WithSessionID(id string) Option {
	return func(o *Orchestrator) { o.id = id }
}

// New creates a session over world holding initialBalls.
func New(world World, initialBalls int, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		id:     uuid.NewString(),
		world:  world,
		state:  session.New(initialBalls),
		active: make(map[pocket.BallID]struct{}),
		stats:  Stats{Entries: make(map[pocket.Kind]int)},
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.initial = o.state.Balls
	if o.engine == nil {
		o.engine = lottery.NewEngine(nil)
	}
	o.log = o.log.With(zap.String("session_id", o.id))
	o.router = pocket.NewRouter(o.handlePocket)
	o.reels = reel.NewSequencer()
	o.reels.Subscribe(o.onStage)
	o.rounds = round.NewController(o.onRound, o.log)
	return o
}

func (o *Orchestrator) ID() string { return o.id }

// Now is the session clock.
func (o *Orchestrator) Now() time.Duration { return o.now }

// Snapshot returns a copy of the ledger.
func (o *Orchestrator) Snapshot() session.Snapshot { return o.state.Snapshot() }

// Stats returns a copy of the session counters.
func (o *Orchestrator) Stats() Stats {
	st := o.stats
	st.Entries = make(map[pocket.Kind]int, len(o.stats.Entries))
	for k, v := range o.stats.Entries {
		st.Entries[k] = v
	}
	return st
}

// InitialBalls is the inventory the session started with.
func (o *Orchestrator) InitialBalls() int { return o.initial }

// ActiveBalls is the number of balls in flight.
func (o *Orchestrator) ActiveBalls() int { return len(o.active) }

// Stage is the reel sequencer's current stage.
func (o *Orchestrator) Stage() reel.Stage { return o.reels.Stage() }

// CheckInvariants verifies the ledger against its invariants and the inventory balance.
func (o *Orchestrator) CheckInvariants() error {
	if err := o.state.Check(); err != nil {
		return err
	}
	if want := o.initial - o.stats.Shots + o.stats.Paid; o.state.Balls != want {
		return &BalanceError{Balls: o.state.Balls, Want: want}
	}
	return nil
}

// Shoot launches one ball. With an empty inventory it does nothing and
// reports false.
func (o *Orchestrator) Shoot(power float64) (pocket.BallID, bool) {
	if !o.state.TakeBall() {
		return 0, false
	}
	id := o.world.SpawnBall(LaunchPoint, LaunchVelocity(power))
	o.active[id] = struct{}{}
	o.stats.Shots++
	return id, true
}

// Tick advances the session by dt: reel and round timers, shoot, physics, pocket
// routing, out of bounds sweep, then display snapshots. Timers run before routing
// so a spin or pause started by this tick's entries counts from the next tick.
func (o *Orchestrator) Tick(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	o.now += dt

	o.reels.Advance(dt)
	o.rounds.Advance(dt)
	o.state.SyncRounds(o.rounds.Status())

	if o.input != nil && o.input.ShouldShoot(o.now) {
		o.Shoot(o.input.Power())
	}

	o.router.RouteAll(o.world.Step(dt))

	for id := range o.active {
		if o.world.OutOfBounds(id) {
			o.removeBall(id)
			o.stats.OutOfBounds++
		}
	}

	if len(o.displays) > 0 {
		snap := o.state.Snapshot()
		for _, d := range o.displays {
			d.OnSnapshot(snap)
		}
	}
}

// HandlePocket processes one pocket entry. Tick routes physics collisions here.
func (o *Orchestrator) HandlePocket(ev pocket.Event) { o.handlePocket(ev) }

func (o *Orchestrator) handlePocket(ev pocket.Event) {
	if _, ok := o.active[ev.Ball]; !ok {
		o.log.Debug("entry for inactive ball ignored", zap.Uint64("ball", uint64(ev.Ball)), zap.Stringer("pocket", ev.Kind))
		return
	}
	o.removeBall(ev.Ball)
	o.stats.Entries[ev.Kind]++

	spin := false
	switch ev.Kind {
	case pocket.KindHeso:
		o.pay(HesoPrize)
		spin = true
	case pocket.KindDenchu:
		o.pay(DenchuPrize)
		spin = o.state.Mode == lottery.ModeRush
	case pocket.KindAttacker:
		if e := o.rounds.Enter(); e.Counted {
			o.pay(AttackerPrize)
		}
		o.state.SyncRounds(o.rounds.Status())
	case pocket.KindLeftPocket, pocket.KindRightPocket:
		o.pay(SidePrize)
	case pocket.KindOut, pocket.KindUnknown:
	}

	o.log.Debug("pocket entry",
		zap.Uint64("ball", uint64(ev.Ball)),
		zap.Stringer("pocket", ev.Kind),
		zap.Int("balls", o.state.Balls),
	)

	if spin {
		o.requestSpin()
	}
}

func (o *Orchestrator) pay(n int) {
	o.state.Credit(n)
	o.stats.Paid += n
}

func (o *Orchestrator) removeBall(id pocket.BallID) {
	delete(o.active, id)
	o.world.RemoveBall(id)
	o.stats.Removed++
}

// requestSpin draws only when the reels are idle; otherwise the request is dropped
// and no counter moves.
func (o *Orchestrator) requestSpin() {
	if !o.reels.Idle() {
		o.stats.DroppedSpins++
		o.log.Debug("spin dropped, reels busy", zap.Stringer("stage", o.reels.Stage()))
		return
	}
	before := o.state.Mode
	outcome := o.engine.Draw()
	o.state.SyncLottery(o.engine)
	if before == lottery.ModeRush && o.state.Mode == lottery.ModeNormal {
		o.log.Info("rush ended", zap.Int("total_spins", o.state.TotalSpins))
	}
	o.reels.Play(outcome)
}

func (o *Orchestrator) onStage(n reel.Notification) {
	for _, d := range o.displays {
		d.OnStage(n)
	}
	if n.Kind != reel.NoteIdle {
		return
	}

	if n.Outcome.IsJackpot {
		res := o.engine.ProcessJackpot()
		o.state.SyncLottery(o.engine)
		o.state.RecordJackpot(res)
		o.log.Info("jackpot",
			zap.Int("round", res.Round),
			zap.Bool("rush", res.IsRush),
			zap.Stringer("symbol", res.Symbol),
			zap.Int("total_spins", o.state.TotalSpins),
		)
		o.rounds.Start(res.Round)
		o.state.SyncRounds(o.rounds.Status())
	}
}

func (o *Orchestrator) onRound(tr round.Transition) {
	o.log.Info(tr.Kind.String(), zap.Int("round", tr.Round), zap.Int("max_round", tr.MaxRound))
}

// Reset clears the session back to its initial inventory. Balls in flight are
// removed from the world. It refuses while a reel sequence is playing.
func (o *Orchestrator) Reset() bool {
	if !o.reels.Idle() {
		return false
	}
	for id := range o.active {
		delete(o.active, id)
		o.world.RemoveBall(id)
	}
	o.engine.Reset()
	o.rounds.Reset()
	o.state = session.New(o.initial)
	o.stats = Stats{Entries: make(map[pocket.Kind]int)}
	o.log.Info("session reset", zap.Int("balls", o.initial))
	return true
}
