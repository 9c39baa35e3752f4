package round

import (
	"testing"
	"time"
)

func TestStartOpensFirstRound(t *testing.T) {
	var got []Transition
	c := NewController(func(tr Transition) { got = append(got, tr) }, nil)
	c.Start(10)
	st := c.Status()
	if st.Phase != PhaseOpen || st.CurrentRound != 1 || st.MaxRound != 10 || st.Count != 0 {
		t.Fatalf("status=%+v", st)
	}
	if len(got) != 1 || got[0] != (Transition{Kind: RoundOpened, Round: 1, MaxRound: 10}) {
		t.Fatalf("transitions=%+v", got)
	}
}

func TestEntryWhileClosedIsIgnored(t *testing.T) {
	c := NewController(nil, nil)
	if e := c.Enter(); e.Counted || e.RoundEnded {
		t.Fatalf("closed controller counted an entry: %+v", e)
	}
	if c.Status().Count != 0 {
		t.Fatalf("count=%d", c.Status().Count)
	}
}

func TestRoundsRunToCompletion(t *testing.T) {
	for _, rounds := range []int{3, 10} {
		var finished int
		c := NewController(func(tr Transition) {
			if tr.Kind == JackpotFinished {
				finished++
			}
		}, nil)
		c.Start(rounds)
		counted := 0
		for r := 1; r <= rounds; r++ {
			if st := c.Status(); st.Phase != PhaseOpen || st.CurrentRound != r {
				t.Fatalf("rounds=%d: expected round %d open, status=%+v", rounds, r, st)
			}
			for i := 0; i < CountPerRound; i++ {
				if c.Enter().Counted {
					counted++
				}
			}
			if r < rounds {
				st := c.Status()
				if st.Phase != PhaseInterval || !st.InProgress() {
					t.Fatalf("expected interval after round %d, status=%+v", r, st)
				}
				c.Advance(Interval / 2)
				if c.Status().Phase != PhaseInterval {
					t.Fatalf("reopened before the pause elapsed")
				}
				c.Advance(Interval / 2)
			}
		}
		st := c.Status()
		if st.Phase != PhaseClosed || st.CurrentRound != 0 || st.MaxRound != 0 || st.InProgress() {
			t.Fatalf("rounds=%d: not closed, status=%+v", rounds, st)
		}
		if counted != CountPerRound*rounds || finished != 1 {
			t.Fatalf("rounds=%d: counted=%d finished=%d", rounds, counted, finished)
		}
	}
}

func TestSameBatchOverflowIsClamped(t *testing.T) {
	c := NewController(nil, nil)
	c.Start(3)
	for i := 0; i < CountPerRound-1; i++ {
		c.Enter()
	}
	// three entries land in the same tick; only the first completes the round
	e1, e2, e3 := c.Enter(), c.Enter(), c.Enter()
	if !e1.Counted || !e1.RoundEnded {
		t.Fatalf("10th entry=%+v", e1)
	}
	if e2.Counted || e3.Counted {
		t.Fatalf("overflow entries counted: %+v %+v", e2, e3)
	}
	st := c.Status()
	if st.CurrentRound != 1 || st.Phase != PhaseInterval {
		t.Fatalf("overflow extended or skipped a round: %+v", st)
	}
	c.Advance(Interval)
	if st := c.Status(); st.CurrentRound != 2 || st.Count != 0 || st.Phase != PhaseOpen {
		t.Fatalf("round 2 not opened cleanly: %+v", st)
	}
}

func TestLastRoundClosesImmediately(t *testing.T) {
	c := NewController(nil, nil)
	c.Start(3)
	for r := 0; r < 3; r++ {
		for i := 0; i < CountPerRound; i++ {
			c.Enter()
		}
		c.Advance(time.Second)
	}
	if st := c.Status(); st.Phase != PhaseClosed {
		t.Fatalf("status=%+v", st)
	}
	// the pause after the final round never reopens anything
	c.Advance(time.Hour)
	if st := c.Status(); st.Phase != PhaseClosed {
		t.Fatalf("status=%+v", st)
	}
}

func TestJackpotDuringRoundsIsQueued(t *testing.T) {
	var opened []Transition
	c := NewController(func(tr Transition) {
		if tr.Kind == RoundOpened {
			opened = append(opened, tr)
		}
	}, nil)
	c.Start(3)
	c.Start(10)
	if st := c.Status(); st.MaxRound != 3 || st.Pending != 1 {
		t.Fatalf("status=%+v", st)
	}
	for r := 0; r < 3; r++ {
		for i := 0; i < CountPerRound; i++ {
			c.Enter()
		}
		c.Advance(Interval)
	}
	st := c.Status()
	if st.Phase != PhaseOpen || st.CurrentRound != 1 || st.MaxRound != 10 || st.Pending != 0 {
		t.Fatalf("queued jackpot did not start: %+v", st)
	}
	last := opened[len(opened)-1]
	if last != (Transition{Kind: RoundOpened, Round: 1, MaxRound: 10}) {
		t.Fatalf("last opened=%+v", last)
	}
}

func TestReset(t *testing.T) {
	c := NewController(nil, nil)
	c.Start(10)
	c.Start(3)
	c.Enter()
	c.Reset()
	if st := c.Status(); st != (Status{}) {
		t.Fatalf("status=%+v", st)
	}
}
