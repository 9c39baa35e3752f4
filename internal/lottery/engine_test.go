package lottery

import (
	"math"
	"testing"
)

// cycleRNG repeats a fixed cycle of values.
type cycleRNG struct {
	vals []float64
	i    int
}

func (c *cycleRNG) Float64() float64 {
	v := c.vals[c.i%len(c.vals)]
	c.i++
	return v
}

// missCycle consumes exactly five values per draw and never hits a jackpot or reach:
// jackpot roll, reach roll, three symbol rolls that are all distinct.
func missCycle() *cycleRNG {
	return &cycleRNG{vals: []float64{0.9, 0.9, 0.1, 0.5, 0.9}}
}

func TestRushJackpotProb(t *testing.T) {
	cont := 1 - math.Pow(1-RushJackpotProb, STCount)
	if math.Abs(cont-RushContinuation) > 1e-9 {
		t.Fatalf("continuation=%f want %f", cont, RushContinuation)
	}
	if RushJackpotProb < 0.0155 || RushJackpotProb > 0.0165 {
		t.Fatalf("rush p=%f not near 0.016", RushJackpotProb)
	}
}

func TestDrawForcedJackpot(t *testing.T) {
	// jackpot roll, reach type roll, symbol roll
	e := NewEngine(NewScriptedRNG([]float64{0.001, 0.5, 0.0}, nil))
	out := e.Draw()
	if !out.IsJackpot {
		t.Fatalf("expected jackpot")
	}
	if out.Reach != ReachNormal {
		t.Fatalf("reach=%v want normal", out.Reach)
	}
	if out.Symbols != (Symbols{SymbolOne, SymbolOne, SymbolOne}) {
		t.Fatalf("symbols=%v", out.Symbols)
	}
	if e.TotalSpins() != 1 {
		t.Fatalf("totalSpins=%d", e.TotalSpins())
	}
}

func TestJackpotReachSplit(t *testing.T) {
	cases := []struct {
		roll float64
		want ReachType
	}{
		{0.05, ReachPremium},
		{0.2, ReachSuper},
		{0.39, ReachSuper},
		{0.4, ReachNormal},
		{0.99, ReachNormal},
	}
	for _, c := range cases {
		e := NewEngine(NewScriptedRNG([]float64{0.0, c.roll, 0.0}, nil))
		if got := e.Draw().Reach; got != c.want {
			t.Fatalf("roll=%f reach=%v want %v", c.roll, got, c.want)
		}
	}
}

func TestProcessJackpotRoundRoll(t *testing.T) {
	cases := []struct {
		roll  float64
		round int
	}{
		{0.95, 3},
		{0.9, 3},
		{0.89, 10},
		{0.0, 10},
	}
	for _, c := range cases {
		// jackpot draw, then round roll, rush roll, symbol roll
		e := NewEngine(NewScriptedRNG([]float64{0.001, 0.5, 0.0, c.roll, 0.99, 0.5}, nil))
		if !e.Draw().IsJackpot {
			t.Fatalf("expected jackpot")
		}
		res := e.ProcessJackpot()
		if res.Round != c.round {
			t.Fatalf("roll=%f round=%d want %d", c.roll, res.Round, c.round)
		}
		if res.IsRush || e.Mode() != ModeNormal {
			t.Fatalf("rush roll 0.99 must not enter rush")
		}
		if e.JackpotCount() != 1 {
			t.Fatalf("jackpotCount=%d", e.JackpotCount())
		}
		if !res.Symbol.Valid() {
			t.Fatalf("invalid display symbol %v", res.Symbol)
		}
	}
}

func TestProcessJackpotEntersRush(t *testing.T) {
	e := NewEngine(NewScriptedRNG([]float64{0.001, 0.5, 0.0, 0.5, 0.1, 0.5}, nil))
	e.Draw()
	res := e.ProcessJackpot()
	if !res.IsRush {
		t.Fatalf("expected rush")
	}
	if e.Mode() != ModeRush || e.RushRemaining() != STCount {
		t.Fatalf("mode=%v remaining=%d", e.Mode(), e.RushRemaining())
	}
}

func TestJackpotWithoutRushKeepsRunningST(t *testing.T) {
	// jackpot draw, then 3 rounds, rush roll miss, symbol
	e := NewEngine(NewScriptedRNG([]float64{0.001, 0.5, 0.0, 0.95, 0.95, 0.5}, nil))
	e.EnterRush()
	if !e.Draw().IsJackpot {
		t.Fatalf("expected jackpot")
	}
	before := e.RushRemaining()
	if before != STCount-1 {
		t.Fatalf("remaining=%d after one rush spin", before)
	}
	res := e.ProcessJackpot()
	if res.IsRush {
		t.Fatalf("rush roll 0.95 entered rush")
	}
	if e.Mode() != ModeRush || e.RushRemaining() != before {
		t.Fatalf("mode=%v remaining=%d want rush %d", e.Mode(), e.RushRemaining(), before)
	}
}

func TestSymbolContract(t *testing.T) {
	e := NewEngine(NewSeededRNG(7))
	var jackpots, reaches, plain int
	for i := 0; i < 200000; i++ {
		if i == 100000 {
			e.EnterRush()
		}
		out := e.Draw()
		for _, s := range out.Symbols {
			if !s.Valid() {
				t.Fatalf("invalid symbol in %v", out.Symbols)
			}
		}
		switch {
		case out.IsJackpot:
			jackpots++
			if out.Symbols.Pairs() != 3 || !out.HasReach() {
				t.Fatalf("jackpot must show three equal symbols with a reach: %+v", out)
			}
		case out.HasReach():
			reaches++
			if out.Symbols.Pairs() != 1 {
				t.Fatalf("reach miss must match exactly two symbols: %+v", out)
			}
		default:
			plain++
			if out.Symbols.Pairs() != 0 {
				t.Fatalf("plain miss must not match any pair: %+v", out)
			}
		}
	}
	if jackpots == 0 || reaches == 0 || plain == 0 {
		t.Fatalf("expected every outcome kind, got jackpots=%d reaches=%d plain=%d", jackpots, reaches, plain)
	}
}

func TestReachPairPatterns(t *testing.T) {
	// jackpot miss, reach hit, sub-type, pair symbol, third symbol, pattern
	cases := []struct {
		pattern float64
		want    Symbols
	}{
		{0.1, Symbols{SymbolOne, SymbolOne, SymbolNine}},
		{0.5, Symbols{SymbolOne, SymbolNine, SymbolOne}},
		{0.9, Symbols{SymbolNine, SymbolOne, SymbolOne}},
	}
	for _, c := range cases {
		e := NewEngine(NewScriptedRNG([]float64{0.9, 0.01, 0.5, 0.0, 0.99, c.pattern}, nil))
		out := e.Draw()
		if out.IsJackpot || out.Reach != ReachNormal {
			t.Fatalf("unexpected outcome %+v", out)
		}
		if out.Symbols != c.want {
			t.Fatalf("pattern=%f symbols=%v want %v", c.pattern, out.Symbols, c.want)
		}
	}
}

func TestPlainMissRetriesUntilDistinct(t *testing.T) {
	// idx0=0, idx1 retries past 0, idx2 retries past 0 and 4
	e := NewEngine(NewScriptedRNG([]float64{0.9, 0.9, 0.0, 0.0, 0.5, 0.0, 0.5, 0.9}, nil))
	out := e.Draw()
	want := Symbols{SymbolOne, SymbolFive, SymbolNine}
	if out.Symbols != want {
		t.Fatalf("symbols=%v want %v", out.Symbols, want)
	}
}

func TestRushRunsOutAfterSTCount(t *testing.T) {
	e := NewEngine(missCycle())
	e.EnterRush()
	for i := 1; i <= STCount; i++ {
		out := e.Draw()
		if out.IsJackpot {
			t.Fatalf("miss cycle hit a jackpot")
		}
		if i < STCount && (e.Mode() != ModeRush || e.RushRemaining() != STCount-i) {
			t.Fatalf("spin %d: mode=%v remaining=%d", i, e.Mode(), e.RushRemaining())
		}
	}
	if e.Mode() != ModeNormal || e.RushRemaining() != 0 {
		t.Fatalf("mode=%v remaining=%d after ST", e.Mode(), e.RushRemaining())
	}
}

func TestRushLastSpinJackpotStaysInRush(t *testing.T) {
	misses := make([]float64, 0, 5*(STCount-1))
	for i := 0; i < STCount-1; i++ {
		misses = append(misses, 0.9, 0.9, 0.1, 0.5, 0.9)
	}
	vals := append(misses, 0.001, 0.5, 0.0)
	e := NewEngine(NewScriptedRNG(vals, nil))
	e.EnterRush()
	for i := 0; i < STCount-1; i++ {
		e.Draw()
	}
	if !e.Draw().IsJackpot {
		t.Fatalf("expected jackpot on the last ST spin")
	}
	if e.Mode() != ModeRush || e.RushRemaining() != 0 {
		t.Fatalf("mode=%v remaining=%d", e.Mode(), e.RushRemaining())
	}
}

func TestReset(t *testing.T) {
	e := NewEngine(NewScriptedRNG([]float64{0.001, 0.5, 0.0, 0.5, 0.1, 0.5}, nil))
	e.Draw()
	e.ProcessJackpot()
	e.Reset()
	if e.Mode() != ModeNormal || e.RushRemaining() != 0 || e.TotalSpins() != 0 || e.JackpotCount() != 0 {
		t.Fatalf("reset left state: mode=%v remaining=%d spins=%d jackpots=%d",
			e.Mode(), e.RushRemaining(), e.TotalSpins(), e.JackpotCount())
	}
}
