package game

import (
	"time"

	"github.com/mswork1021/pachigame/internal/pocket"
	"github.com/mswork1021/pachigame/internal/reel"
	"github.com/mswork1021/pachigame/internal/session"
)

// Vec is a 2D board coordinate or velocity.
type Vec struct {
	X, Y float64
}

// World is the physics collaborator. Step advances the simulation and returns
// the collision pairs that started during the step, in the order they occurred.
type World interface {
	SpawnBall(pos, vel Vec) pocket.BallID
	RemoveBall(id pocket.BallID)
	OutOfBounds(id pocket.BallID) bool
	Step(dt time.Duration) []pocket.Pair
}

// Display renders reel notifications and ledger snapshots. Nothing in the game
// waits on it.
type Display interface {
	OnStage(reel.Notification)
	OnSnapshot(session.Snapshot)
}

// Input is the shooter handle. ShouldShoot is asked once per tick with the
// session clock.
type Input interface {
	ShouldShoot(now time.Duration) bool
	Power() float64
}

// LaunchPoint is where the shooter rail releases balls.
var LaunchPoint = Vec{X: 510, Y: 680}

const (
	launchBaseSpeed  = 18
	launchSpeedRange = 8
)

// LaunchVelocity returns the straight-up launch velocity for a power in [0, 1].
func LaunchVelocity(power float64) Vec {
	if power < 0 {
		power = 0
	}
	if power > 1 {
		power = 1
	}
	return Vec{X: 0, Y: -(launchBaseSpeed + power*launchSpeedRange)}
}
