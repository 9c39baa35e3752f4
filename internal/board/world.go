// Package board is a stochastic stand-in for the physics engine. Balls fly for a
// random time and then land in an outcome drawn from a weight table.
package board

import (
	"slices"
	"time"

	"github.com/mswork1021/pachigame/internal/game"
	"github.com/mswork1021/pachigame/internal/lottery"
	"github.com/mswork1021/pachigame/internal/pocket"
	"github.com/mswork1021/pachigame/internal/reel"
	"github.com/mswork1021/pachigame/internal/session"
)

// OutcomeLost is a ball that leaves the board without touching a sensor.
const OutcomeLost = "lost"

// PinLabel tags the solid pins balls bounce off.
const PinLabel = "pin"

// Outcomes lists every weight table key.
var Outcomes = []string{
	pocket.LabelHeso,
	pocket.LabelDenchu,
	pocket.LabelAttacker,
	pocket.LabelLeftPocket,
	pocket.LabelRightPocket,
	pocket.LabelOut,
	OutcomeLost,
}

// KnownOutcome reports whether label is a weight table key.
func KnownOutcome(label string) bool { return slices.Contains(Outcomes, label) }

// Margin is how far past an edge a ball must travel to count as out of bounds.
const Margin = 50

const (
	frame     = 16 * time.Millisecond
	gravity   = 0.5 // px per frame²
	restitute = 0.5
	pinChance = 0.05
)

type Config struct {
	Width, Height        float64
	Weights              map[string]float64
	FlightMin, FlightMax time.Duration
}

type ball struct {
	id       pocket.BallID
	pos, vel game.Vec
	left     time.Duration // flight time until the ball lands
	landed   bool
	lost     bool
}

// World implements game.World. It also implements game.Display so the attacker
// gate follows the session's rounds.
type World struct {
	cfg   Config
	rng   lottery.RandomSource
	total float64

	next         pocket.BallID
	balls        map[pocket.BallID]*ball
	order        []pocket.BallID
	attackerOpen bool
}

// New returns an empty board. A nil rng uses the crypto source.
func New(cfg Config, rng lottery.RandomSource) *World {
	if rng == nil {
		rng = lottery.DefaultRNG()
	}
	if cfg.FlightMax < cfg.FlightMin {
		cfg.FlightMax = cfg.FlightMin
	}
	total := 0.0
	for _, label := range Outcomes {
		if v := cfg.Weights[label]; v > 0 {
			total += v
		}
	}
	return &World{
		cfg:   cfg,
		rng:   rng,
		total: total,
		balls: make(map[pocket.BallID]*ball),
	}
}

func (w *World) SpawnBall(pos, vel game.Vec) pocket.BallID {
	w.next++
	span := w.cfg.FlightMax - w.cfg.FlightMin
	b := &ball{
		id:   w.next,
		pos:  pos,
		vel:  vel,
		left: w.cfg.FlightMin + time.Duration(w.rng.Float64()*float64(span)),
	}
	w.balls[b.id] = b
	w.order = append(w.order, b.id)
	return b.id
}

func (w *World) RemoveBall(id pocket.BallID) { delete(w.balls, id) }

// OutOfBounds reports whether the ball is past the board edges by more than Margin.
// Removed balls are never out of bounds.
func (w *World) OutOfBounds(id pocket.BallID) bool {
	b, ok := w.balls[id]
	return ok && w.outside(b.pos)
}

func (w *World) outside(p game.Vec) bool {
	return p.Y > w.cfg.Height+Margin || p.X < -Margin || p.X > w.cfg.Width+Margin
}

// Len is the number of balls on the board.
func (w *World) Len() int { return len(w.balls) }

// SetAttackerOpen opens or closes the attacker gate. While closed, balls that
// would have entered it drop to the out hole instead.
func (w *World) SetAttackerOpen(open bool) { w.attackerOpen = open }

func (w *World) OnStage(reel.Notification) {}

func (w *World) OnSnapshot(s session.Snapshot) { w.SetAttackerOpen(s.IsAttackerOpen) }

// Step moves every ball and returns the collisions that started, in spawn order.
func (w *World) Step(dt time.Duration) []pocket.Pair {
	var pairs []pocket.Pair
	live := w.order[:0]
	for _, id := range w.order {
		b, ok := w.balls[id]
		if !ok {
			continue
		}
		live = append(live, id)
		w.move(b, dt)
		if b.landed {
			continue
		}
		b.left -= dt
		if b.left > 0 {
			if w.rng.Float64() < pinChance {
				pairs = append(pairs, contact(b.id, PinLabel, false))
			}
			continue
		}
		b.landed = true
		switch outcome := w.land(); outcome {
		case OutcomeLost:
			b.lost = true
		default:
			pairs = append(pairs, contact(b.id, outcome, true))
		}
	}
	w.order = live
	return pairs
}

// move integrates one step. Walls and the floor hold balls on the board until
// they are lost.
func (w *World) move(b *ball, dt time.Duration) {
	f := float64(dt) / float64(frame)
	b.vel.Y += gravity * f
	b.pos.X += b.vel.X * f
	b.pos.Y += b.vel.Y * f
	if b.lost {
		return
	}
	if b.pos.Y < 0 {
		b.pos.Y = 0
		b.vel.Y = -b.vel.Y * restitute
		b.vel.X = (w.rng.Float64()*2 - 1) * 6
	}
	if b.pos.X < 0 || b.pos.X > w.cfg.Width {
		b.pos.X = min(max(b.pos.X, 0), w.cfg.Width)
		b.vel.X = -b.vel.X * restitute
	}
	if b.pos.Y > w.cfg.Height {
		b.pos.Y = w.cfg.Height
		b.vel.Y = 0
	}
}

// land draws an outcome from the weight table.
func (w *World) land() string {
	if w.total <= 0 {
		return pocket.LabelOut
	}
	r := w.rng.Float64() * w.total
	outcome := pocket.LabelOut
	for _, label := range Outcomes {
		v := w.cfg.Weights[label]
		if v <= 0 {
			continue
		}
		if r < v {
			outcome = label
			break
		}
		r -= v
	}
	if outcome == pocket.LabelAttacker && !w.attackerOpen {
		return pocket.LabelOut
	}
	return outcome
}

func contact(id pocket.BallID, label string, sensor bool) pocket.Pair {
	return pocket.Pair{
		A: pocket.Body{ID: id, Label: pocket.LabelBall},
		B: pocket.Body{Label: label, Sensor: sensor},
	}
}
