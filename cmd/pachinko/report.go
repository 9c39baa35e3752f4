package main

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"

	"github.com/mswork1021/pachigame/internal/config"
	"github.com/mswork1021/pachigame/internal/game"
	"github.com/mswork1021/pachigame/internal/lending"
	"github.com/mswork1021/pachigame/internal/lottery"
	"github.com/mswork1021/pachigame/internal/pocket"
	"github.com/mswork1021/pachigame/internal/session"
)

type report struct {
	SessionID    string             `json:"session_id"`
	Machine      string             `json:"machine,omitempty"`
	ElapsedMS    int64              `json:"elapsed_ms"`
	Snapshot     session.Snapshot   `json:"snapshot"`
	Shots        int                `json:"shots"`
	Paid         int                `json:"paid"`
	DroppedSpins int                `json:"dropped_spins"`
	OutOfBounds  int                `json:"out_of_bounds"`
	Entries      map[string]int     `json:"entries"`
	SpinsPer1K   decimal.Decimal    `json:"spins_per_1000_yen"` // spins per 1000 yen of balls shot
	Settlement   lending.Settlement `json:"settlement"`
}

func newReport(g *game.Orchestrator, s config.Settings, rate lending.Rate) report {
	st := g.Stats()
	snap := g.Snapshot()
	rep := report{
		SessionID:    g.ID(),
		Machine:      s.Machine,
		ElapsedMS:    g.Now().Milliseconds(),
		Snapshot:     snap,
		Shots:        st.Shots,
		Paid:         st.Paid,
		DroppedSpins: st.DroppedSpins,
		OutOfBounds:  st.OutOfBounds,
		Entries:      make(map[string]int, len(st.Entries)),
		SpinsPer1K:   decimal.Zero,
		Settlement:   rate.Settle(g.InitialBalls(), snap.Balls),
	}
	for k, n := range st.Entries {
		rep.Entries[k.Label()] = n
	}
	if spent := rate.LendPrice().Mul(decimal.NewFromInt(int64(st.Shots))); spent.IsPositive() {
		rep.SpinsPer1K = decimal.NewFromInt(int64(snap.TotalSpins)).
			Mul(decimal.NewFromInt(1000)).
			Div(spent).
			Round(2)
	}
	return rep
}

func (r report) writeJSON(w io.Writer) error {
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func (r report) writeText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "session\t%s\n", r.SessionID)
	if r.Machine != "" {
		fmt.Fprintf(tw, "machine\t%s\n", r.Machine)
	}
	fmt.Fprintf(tw, "elapsed\t%s\n", time.Duration(r.ElapsedMS)*time.Millisecond)
	fmt.Fprintf(tw, "state\t%s\n", r.Snapshot.Display)
	fmt.Fprintf(tw, "balls\t%d -> %d\n", r.Settlement.StartBalls, r.Settlement.FinalBalls)
	fmt.Fprintf(tw, "shots\t%d\n", r.Shots)
	fmt.Fprintf(tw, "paid\t%d\n", r.Paid)
	fmt.Fprintf(tw, "spins\t%d (dropped %d)\n", r.Snapshot.TotalSpins, r.DroppedSpins)
	fmt.Fprintf(tw, "spins/1000 yen\t%s\n", r.SpinsPer1K)
	fmt.Fprintf(tw, "jackpots\t%d\n", r.Snapshot.JackpotCount)
	for _, kind := range []pocket.Kind{
		pocket.KindHeso, pocket.KindDenchu, pocket.KindAttacker,
		pocket.KindLeftPocket, pocket.KindRightPocket, pocket.KindOut,
	} {
		fmt.Fprintf(tw, "  %s\t%d\n", kind.Label(), r.Entries[kind.Label()])
	}
	fmt.Fprintf(tw, "  lost\t%d\n", r.OutOfBounds)
	fmt.Fprintf(tw, "cost\t%s yen\n", r.Settlement.Cost)
	fmt.Fprintf(tw, "value\t%s yen\n", r.Settlement.Value)
	fmt.Fprintf(tw, "net\t%s yen\n", r.Settlement.Net)
	for i, h := range r.Snapshot.History {
		kind := "normal"
		if h.IsRush {
			kind = "rush"
		}
		fmt.Fprintf(tw, "history %d\t%dR %s at spin %d\n", i+1, h.Round, kind, h.TotalSpins)
	}
	return tw.Flush()
}

// calibrate runs the statistical checks on the lottery and prints a summary.
func calibrate(w io.Writer, trials int, rng lottery.RandomSource) error {
	if trials <= 0 {
		return fmt.Errorf("trials must be > 0, got %d", trials)
	}
	normalDraws := int(math.Round(1000 / lottery.NormalJackpotProb))

	checks := []struct {
		name   string
		goal   lottery.TrialGoal
		trials int
		budget *lottery.SimBudget
		expect float64
	}{
		{"jackpots per 319000 normal draws", lottery.GoalNormalJackpots, max(trials/100, 1), &lottery.SimBudget{NumDraws: normalDraws}, 1000},
		{"rush continuation", lottery.GoalRushContinuation, trials, nil, lottery.RushContinuation},
		{"normal draws to jackpot", lottery.GoalSpinsToJackpot, trials, nil, 1 / lottery.NormalJackpotProb},
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "check\ttrials\texpect\tmean\tstddev\tp50\tp90\tp99")
	for _, c := range checks {
		st := lottery.RunMonteCarlo(c.goal, c.trials, c.budget, rng)
		fmt.Fprintf(tw, "%s\t%d\t%.3f\t%.3f\t%.3f\t%.1f\t%.1f\t%.1f\n",
			c.name, st.Trials, c.expect, st.Mean, st.StdDev, st.P50, st.P90, st.P99)
	}
	fmt.Fprintf(tw, "rush jackpot probability\t\t%.6f\n", lottery.RushJackpotProb)
	return tw.Flush()
}
