package config

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/mswork1021/pachigame/internal/board"
)

// ValidateRaw checks semantic constraints of the fields a RawConfig sets.
func ValidateRaw(cfg RawConfig) error {
	var errs []string

	if s := cfg.Session; s != nil {
		if s.InitialBalls != nil && *s.InitialBalls < 0 {
			errs = append(errs, "session.initial_balls must be >= 0")
		}
		if s.LendYen != nil && *s.LendYen < 0 {
			errs = append(errs, "session.lend_yen must be >= 0")
		}
	}

	if ln := cfg.Lending; ln != nil {
		if ln.YenPerUnit != nil && *ln.YenPerUnit <= 0 {
			errs = append(errs, "lending.yen_per_unit must be > 0")
		}
		if ln.BallsPerUnit != nil && *ln.BallsPerUnit <= 0 {
			errs = append(errs, "lending.balls_per_unit must be > 0")
		}
		if ln.ExchangeYenPerBall != nil && *ln.ExchangeYenPerBall <= 0 {
			errs = append(errs, "lending.exchange_yen_per_ball must be > 0")
		}
	}

	if sh := cfg.Shooter; sh != nil {
		if sh.Interval != nil && *sh.Interval <= 0 {
			errs = append(errs, "shooter.interval must be > 0")
		}
		if sh.Power != nil && !validPower(*sh.Power) {
			errs = append(errs, "shooter.power must be in [0,1]")
		}
	}

	if bd := cfg.Board; bd != nil {
		if bd.Width != nil && *bd.Width <= 0 {
			errs = append(errs, "board.width must be > 0")
		}
		if bd.Height != nil && *bd.Height <= 0 {
			errs = append(errs, "board.height must be > 0")
		}
		if bd.FlightMin != nil && *bd.FlightMin <= 0 {
			errs = append(errs, "board.flight_min must be > 0")
		}
		if bd.FlightMin != nil && bd.FlightMax != nil && *bd.FlightMax < *bd.FlightMin {
			errs = append(errs, "board.flight_max must be >= flight_min")
		}
		errs = append(errs, weightErrors(bd.Weights)...)
	}

	if sm := cfg.Sim; sm != nil {
		if sm.Tick != nil && *sm.Tick <= 0 {
			errs = append(errs, "sim.tick must be > 0")
		}
		if sm.Duration != nil && *sm.Duration < 0 {
			errs = append(errs, "sim.duration must be >= 0")
		}
	}

	if lg := cfg.Log; lg != nil && lg.Level != "" && !validLevel(lg.Level) {
		errs = append(errs, "log.level must be one of: debug, info, warn, error")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(errs, "; "))
	}
	return nil
}

// Validate checks the normalized settings after overrides were applied.
func (s Settings) Validate() error {
	var errs []string
	if s.InitialBalls < 0 {
		errs = append(errs, "initial balls must be >= 0")
	}
	if s.LendYen < 0 {
		errs = append(errs, "lend yen must be >= 0")
	}
	if s.YenPerUnit <= 0 || s.BallsPerUnit <= 0 || s.ExchangeYenPerBall <= 0 {
		errs = append(errs, "lending rates must be > 0")
	}
	if s.ShotInterval <= 0 {
		errs = append(errs, "shot interval must be > 0")
	}
	if !validPower(s.ShotPower) {
		errs = append(errs, "shot power must be in [0,1]")
	}
	if s.BoardWidth <= 0 || s.BoardHeight <= 0 {
		errs = append(errs, "board size must be > 0")
	}
	if s.FlightMin <= 0 || s.FlightMax < s.FlightMin {
		errs = append(errs, "flight time must satisfy 0 < min <= max")
	}
	errs = append(errs, weightErrors(s.Weights)...)
	if s.Tick <= 0 {
		errs = append(errs, "tick must be > 0")
	}
	if s.Duration < 0 {
		errs = append(errs, "duration must be >= 0")
	}
	if !validLevel(s.LogLevel) {
		errs = append(errs, "log level must be one of: debug, info, warn, error")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(errs, "; "))
	}
	return nil
}

func validPower(p float64) bool { return p >= 0 && p <= 1 }

func validLevel(level string) bool {
	l, err := zapcore.ParseLevel(level)
	return err == nil && l >= zapcore.DebugLevel && l <= zapcore.ErrorLevel
}

func weightErrors(w map[string]float64) []string {
	if w == nil {
		return nil
	}
	var errs []string
	sum := 0.0
	for _, label := range sortedKeys(w) {
		v := w[label]
		if !board.KnownOutcome(label) {
			errs = append(errs, fmt.Sprintf("board.weights.%s is not a board outcome", label))
		}
		if v < 0 {
			errs = append(errs, fmt.Sprintf("board.weights.%s must be >= 0", label))
		}
		sum += v
	}
	if sum <= 0 {
		errs = append(errs, "board.weights must have a positive total")
	}
	return errs
}
