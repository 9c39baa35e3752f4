// Package session holds the game ledger. Only the orchestrator writes it.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mswork1021/pachigame/internal/lottery"
	"github.com/mswork1021/pachigame/internal/round"
)

// HistorySize is the number of jackpots kept in History.
const HistorySize = 10

// HistoryEntry records one jackpot.
type HistoryEntry struct {
	Round      int  `json:"round"`
	IsRush     bool `json:"is_rush"`
	TotalSpins int  `json:"total_spins"`
}

// State is the canonical ledger.
type State struct {
	Balls         int
	TotalSpins    int
	JackpotCount  int
	Mode          lottery.Mode
	RushRemaining int

	IsAttackerOpen bool
	AttackerCount  int
	CurrentRound   int
	MaxRound       int

	History []HistoryEntry // newest first
}

// New returns a ledger holding initialBalls.
func New(initialBalls int) *State {
	if initialBalls < 0 {
		initialBalls = 0
	}
	return &State{Balls: initialBalls}
}

// TakeBall spends one ball for a shot. It reports false when the inventory is empty.
func (s *State) TakeBall() bool {
	if s.Balls <= 0 {
		return false
	}
	s.Balls--
	return true
}

// Credit adds a payout.
func (s *State) Credit(n int) {
	if n > 0 {
		s.Balls += n
	}
}

// SyncLottery copies the engine's counters and mode.
func (s *State) SyncLottery(e *lottery.Engine) {
	s.TotalSpins = e.TotalSpins()
	s.JackpotCount = e.JackpotCount()
	s.Mode = e.Mode()
	s.RushRemaining = e.RushRemaining()
}

// SyncRounds copies the round controller's status.
func (s *State) SyncRounds(st round.Status) {
	s.IsAttackerOpen = st.InProgress()
	s.AttackerCount = st.Count
	s.CurrentRound = st.CurrentRound
	s.MaxRound = st.MaxRound
}

// RecordJackpot pushes a jackpot onto the history.
func (s *State) RecordJackpot(res lottery.JackpotResult) {
	entry := HistoryEntry{Round: res.Round, IsRush: res.IsRush, TotalSpins: s.TotalSpins}
	s.History = append([]HistoryEntry{entry}, s.History...)
	if len(s.History) > HistorySize {
		s.History = s.History[:HistorySize]
	}
}

var errInvariant = errors.New("session invariant violated")

// Check verifies the ledger invariants.
func (s *State) Check() error {
	var errs []string
	if s.Balls < 0 {
		errs = append(errs, "balls < 0")
	}
	if s.RushRemaining < 0 {
		errs = append(errs, "rushRemaining < 0")
	}
	if s.RushRemaining > 0 && s.Mode != lottery.ModeRush {
		errs = append(errs, "rushRemaining > 0 outside rush")
	}
	if s.AttackerCount < 0 || s.AttackerCount > round.CountPerRound {
		errs = append(errs, fmt.Sprintf("attackerCount %d out of [0,%d]", s.AttackerCount, round.CountPerRound))
	}
	inRange := s.CurrentRound >= 1 && s.CurrentRound <= s.MaxRound
	if s.IsAttackerOpen != inRange {
		errs = append(errs, fmt.Sprintf("isAttackerOpen=%v with round %d/%d", s.IsAttackerOpen, s.CurrentRound, s.MaxRound))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", errInvariant, strings.Join(errs, "; "))
	}
	return nil
}

// Snapshot is a read-only copy for displays.
type Snapshot struct {
	Balls          int            `json:"balls"`
	TotalSpins     int            `json:"total_spins"`
	JackpotCount   int            `json:"jackpot_count"`
	Mode           string         `json:"mode"`
	RushRemaining  int            `json:"rush_remaining"`
	IsAttackerOpen bool           `json:"is_attacker_open"`
	AttackerCount  int            `json:"attacker_count"`
	CurrentRound   int            `json:"current_round"`
	MaxRound       int            `json:"max_round"`
	Display        string         `json:"display"`
	History        []HistoryEntry `json:"history"`
}

func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Balls:          s.Balls,
		TotalSpins:     s.TotalSpins,
		JackpotCount:   s.JackpotCount,
		Mode:           s.Mode.String(),
		RushRemaining:  s.RushRemaining,
		IsAttackerOpen: s.IsAttackerOpen,
		AttackerCount:  s.AttackerCount,
		CurrentRound:   s.CurrentRound,
		MaxRound:       s.MaxRound,
		Display:        s.displayText(),
		History:        append([]HistoryEntry(nil), s.History...),
	}
}

// displayText is the mode banner shown above the reels.
func (s *State) displayText() string {
	switch {
	case s.IsAttackerOpen:
		return fmt.Sprintf("ROUND %d/%dR", s.CurrentRound, s.MaxRound)
	case s.Mode == lottery.ModeRush:
		return fmt.Sprintf("RUSH %d", s.RushRemaining)
	default:
		return "NORMAL"
	}
}
