package reel

import (
	"time"

	"github.com/mswork1021/pachigame/internal/lottery"
)

// Sequencer plays one outcome at a time. A Play while a sequence is running is
// dropped; once started a sequence always runs to Idle.
type Sequencer struct {
	stage     Stage
	remaining time.Duration
	outcome   lottery.SpinOutcome
	listeners []Listener
}

// NewSequencer returns an idle sequencer.
func NewSequencer(listeners ...Listener) *Sequencer {
	return &Sequencer{listeners: listeners}
}

// Subscribe adds a listener. Listeners are called in subscription order.
func (s *Sequencer) Subscribe(l Listener) {
	if l != nil {
		s.listeners = append(s.listeners, l)
	}
}

func (s *Sequencer) Stage() Stage { return s.stage }

// Idle reports whether a new Play would be accepted.
func (s *Sequencer) Idle() bool { return s.stage == StageIdle }

// Remaining is the time left in the current stage.
func (s *Sequencer) Remaining() time.Duration { return s.remaining }

// Play starts a sequence for o. It returns false, and emits nothing, unless the
// sequencer is idle.
func (s *Sequencer) Play(o lottery.SpinOutcome) bool {
	if s.stage != StageIdle {
		return false
	}
	s.outcome = o
	s.enter(StageSpinning, SpinDuration)
	s.emit(Notification{Kind: NoteSpinStarted})
	return true
}

// Advance moves the sequence forward by dt. Time left over after a stage ends
// carries into the next stage; time left after Idle is discarded.
func (s *Sequencer) Advance(dt time.Duration) {
	for s.stage != StageIdle {
		if s.remaining > dt {
			s.remaining -= dt
			return
		}
		dt -= s.remaining
		s.next()
	}
}

func (s *Sequencer) next() {
	o := s.outcome
	switch s.stage {
	case StageSpinning:
		s.enter(StageStoppingReel0, ReelGap)
		s.emitReel(0)
	case StageStoppingReel0:
		gap := ReelGap
		if o.HasReach() {
			gap = 0
		}
		s.enter(StageStoppingReel1, gap)
		s.emitReel(1)
	case StageStoppingReel1:
		if o.HasReach() {
			effect := ReachEffectDuration(o.Reach)
			s.enter(StageReach, effect+ReachWait)
			s.emit(Notification{Kind: NoteReachStarted, Reach: o.Reach, Effect: effect})
			return
		}
		s.enter(StageStoppingReel2, 0)
		s.emitReel(2)
	case StageReach:
		s.enter(StageStoppingReel2, 0)
		s.emitReel(2)
	case StageStoppingReel2:
		if o.IsJackpot {
			s.enter(StageJackpotEffect, JackpotEffectDuration)
			s.emit(Notification{Kind: NoteJackpotEffectStarted, Effect: JackpotEffectDuration})
			return
		}
		s.enter(StageSettling, SettleDuration)
	case StageJackpotEffect:
		s.enter(StageSettling, SettleDuration)
	case StageSettling:
		s.enter(StageIdle, 0)
		s.emit(Notification{Kind: NoteIdle})
	}
}

func (s *Sequencer) enter(st Stage, d time.Duration) {
	s.stage = st
	s.remaining = d
}

func (s *Sequencer) emitReel(i int) {
	s.emit(Notification{Kind: NoteReelStopped, Reel: i, Symbol: s.outcome.Symbols[i]})
}

func (s *Sequencer) emit(n Notification) {
	n.Outcome = s.outcome
	for _, l := range s.listeners {
		l(n)
	}
}
