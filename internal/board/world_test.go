package board

import (
	"testing"
	"time"

	"github.com/mswork1021/pachigame/internal/game"
	"github.com/mswork1021/pachigame/internal/lottery"
	"github.com/mswork1021/pachigame/internal/pocket"
	"github.com/mswork1021/pachigame/internal/session"
)

func testConfig(weights map[string]float64) Config {
	return Config{
		Width:     600,
		Height:    720,
		Weights:   weights,
		FlightMin: time.Second,
		FlightMax: 2 * time.Second,
	}
}

func stepFor(w *World, d time.Duration) []pocket.Pair {
	var all []pocket.Pair
	for t := time.Duration(0); t < d; t += frame {
		all = append(all, w.Step(frame)...)
	}
	return all
}

func sensorPairs(pairs []pocket.Pair) []pocket.Pair {
	var out []pocket.Pair
	for _, p := range pairs {
		if p.B.Sensor {
			out = append(out, p)
		}
	}
	return out
}

func TestBallLandsWithinFlightWindow(t *testing.T) {
	w := New(testConfig(map[string]float64{pocket.LabelHeso: 1}), lottery.NewSeededRNG(1))
	id := w.SpawnBall(game.Vec{X: 510, Y: 680}, game.Vec{Y: -24})

	if got := sensorPairs(stepFor(w, time.Second-frame)); len(got) != 0 {
		t.Fatalf("landed before flight min: %+v", got)
	}
	got := sensorPairs(stepFor(w, time.Second+frame))
	if len(got) != 1 {
		t.Fatalf("sensor pairs=%d want 1", len(got))
	}
	ev, ok := pocket.Classify(got[0])
	if !ok || ev.Ball != id || ev.Kind != pocket.KindHeso {
		t.Fatalf("event=%+v ok=%v", ev, ok)
	}

	// a landed ball that was never removed is not reported again
	if again := sensorPairs(stepFor(w, time.Second)); len(again) != 0 {
		t.Fatalf("reported twice")
	}
}

func TestPinContactsAreNotEntries(t *testing.T) {
	w := New(testConfig(map[string]float64{pocket.LabelOut: 1}), lottery.NewSeededRNG(2))
	for i := 0; i < 20; i++ {
		w.SpawnBall(game.Vec{X: 300, Y: 100}, game.Vec{})
	}
	pins := 0
	for _, p := range stepFor(w, 900*time.Millisecond) {
		if _, ok := pocket.Classify(p); ok {
			t.Fatalf("pin contact classified as entry: %+v", p)
		}
		pins++
	}
	if pins == 0 {
		t.Fatalf("no pin contacts in flight")
	}
}

func TestClosedAttackerDropsToOut(t *testing.T) {
	w := New(testConfig(map[string]float64{pocket.LabelAttacker: 1}), lottery.NewSeededRNG(3))
	w.SpawnBall(game.Vec{X: 300, Y: 100}, game.Vec{})
	got := sensorPairs(stepFor(w, 3*time.Second))
	if len(got) != 1 || got[0].B.Label != pocket.LabelOut {
		t.Fatalf("closed gate: %+v", got)
	}

	w.OnSnapshot(session.Snapshot{IsAttackerOpen: true})
	w.SpawnBall(game.Vec{X: 300, Y: 100}, game.Vec{})
	got = sensorPairs(stepFor(w, 3*time.Second))
	if len(got) != 1 || got[0].B.Label != pocket.LabelAttacker {
		t.Fatalf("open gate: %+v", got)
	}
}

func TestLostBallLeavesBoard(t *testing.T) {
	w := New(testConfig(map[string]float64{OutcomeLost: 1}), lottery.NewSeededRNG(4))
	id := w.SpawnBall(game.Vec{X: 300, Y: 100}, game.Vec{})
	if got := sensorPairs(stepFor(w, 2*time.Second+frame)); len(got) != 0 {
		t.Fatalf("lost ball hit a sensor: %+v", got)
	}
	stepFor(w, time.Second)
	if !w.OutOfBounds(id) {
		t.Fatalf("lost ball still on board at %+v", w.balls[id].pos)
	}
	w.RemoveBall(id)
	if w.OutOfBounds(id) || w.Len() != 0 {
		t.Fatalf("removed ball still tracked")
	}
}

func TestOutOfBoundsEdges(t *testing.T) {
	w := New(testConfig(nil), nil)
	cases := []struct {
		p    game.Vec
		want bool
	}{
		{game.Vec{X: 300, Y: 770}, false},
		{game.Vec{X: 300, Y: 770.1}, true},
		{game.Vec{X: -50, Y: 0}, false},
		{game.Vec{X: -50.1, Y: 0}, true},
		{game.Vec{X: 650, Y: 0}, false},
		{game.Vec{X: 650.1, Y: 0}, true},
		{game.Vec{X: 300, Y: -500}, false},
	}
	for _, c := range cases {
		if got := w.outside(c.p); got != c.want {
			t.Fatalf("outside(%+v)=%v want %v", c.p, got, c.want)
		}
	}
}

func TestKnownOutcome(t *testing.T) {
	for _, label := range Outcomes {
		if !KnownOutcome(label) {
			t.Fatalf("%s not known", label)
		}
	}
	if KnownOutcome(PinLabel) || KnownOutcome("jackpot") {
		t.Fatalf("unknown label accepted")
	}
}

func TestSessionOnBoard(t *testing.T) {
	w := New(testConfig(map[string]float64{
		pocket.LabelHeso:        0.2,
		pocket.LabelDenchu:      0.1,
		pocket.LabelAttacker:    0.3,
		pocket.LabelLeftPocket:  0.05,
		pocket.LabelRightPocket: 0.05,
		pocket.LabelOut:         0.25,
		OutcomeLost:             0.05,
	}), lottery.NewSeededRNG(5))
	g := game.New(w, 250, game.WithRNG(lottery.NewSeededRNG(6)), game.WithDisplay(w))

	for i := 0; i < 3000; i++ {
		if i%6 == 0 {
			g.Shoot(0.8)
		}
		g.Tick(frame)
		if err := g.CheckInvariants(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	st := g.Stats()
	if st.Entries[pocket.KindHeso] == 0 || st.OutOfBounds == 0 {
		t.Fatalf("entries=%v oob=%d", st.Entries, st.OutOfBounds)
	}
	if w.Len() != g.ActiveBalls() {
		t.Fatalf("board holds %d balls, session tracks %d", w.Len(), g.ActiveBalls())
	}
}
