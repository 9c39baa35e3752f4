// Package reel plays a spin outcome as a timed sequence of display stages.
//
// The sequencer holds no clock of its own. The owner advances it with Advance on
// every simulation tick, so a sequence can be driven by synthetic time in tests.
package reel

import (
	"time"

	"github.com/mswork1021/pachigame/internal/lottery"
)

// Stage is the sequencer's current phase.
type Stage int

const (
	StageIdle Stage = iota
	StageSpinning
	StageStoppingReel0
	StageStoppingReel1
	StageReach
	StageStoppingReel2
	StageJackpotEffect
	StageSettling
)

var stageNames = [...]string{
	StageIdle:          "idle",
	StageSpinning:      "spinning",
	StageStoppingReel0: "stopping_reel_0",
	StageStoppingReel1: "stopping_reel_1",
	StageReach:         "reach",
	StageStoppingReel2: "stopping_reel_2",
	StageJackpotEffect: "jackpot_effect",
	StageSettling:      "settling",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// Stage timings.
const (
	SpinDuration          = 800 * time.Millisecond
	ReelGap               = 600 * time.Millisecond
	ReachWait             = 1500 * time.Millisecond
	JackpotEffectDuration = 2500 * time.Millisecond
	SettleDuration        = 500 * time.Millisecond

	// reach text: fade in 300, hold 1000, fade out 300
	reachEffectDuration = 1600 * time.Millisecond
)

// ReachEffectDuration is the effect length the renderer should play for r.
// Super and premium add a shake inside the same window.
func ReachEffectDuration(r lottery.ReachType) time.Duration {
	if r == lottery.ReachNone {
		return 0
	}
	return reachEffectDuration
}

// Total returns how long a full play of o takes from Play to Idle.
func Total(o lottery.SpinOutcome) time.Duration {
	d := SpinDuration + ReelGap + SettleDuration
	if o.HasReach() {
		d += ReachEffectDuration(o.Reach) + ReachWait
	} else {
		d += ReelGap
	}
	if o.IsJackpot {
		d += JackpotEffectDuration
	}
	return d
}

// NotificationKind identifies a stage notification.
type NotificationKind int

const (
	NoteSpinStarted NotificationKind = iota
	NoteReelStopped
	NoteReachStarted
	NoteJackpotEffectStarted
	NoteIdle
)

func (k NotificationKind) String() string {
	switch k {
	case NoteSpinStarted:
		return "spin_started"
	case NoteReelStopped:
		return "reel_stopped"
	case NoteReachStarted:
		return "reach_started"
	case NoteJackpotEffectStarted:
		return "jackpot_effect_started"
	case NoteIdle:
		return "sequence_idle"
	default:
		return "unknown"
	}
}

// Notification is emitted on every stage transition. Reel and Symbol are set for
// NoteReelStopped, Reach for NoteReachStarted, Effect for both effect notifications.
// Outcome always carries the outcome being played.
type Notification struct {
	Kind    NotificationKind    `json:"kind"`
	Reel    int                 `json:"reel"`
	Symbol  lottery.Symbol      `json:"symbol"`
	Reach   lottery.ReachType   `json:"reach"`
	Effect  time.Duration       `json:"effect"`
	Outcome lottery.SpinOutcome `json:"outcome"`
}

// Listener receives notifications synchronously.
type Listener func(Notification)
