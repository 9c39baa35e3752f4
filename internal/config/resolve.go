// resolve.go
package config

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PACHINKO_"

// Overrides carries per-run overrides from the environment or the command line.
// Nil fields leave the file value in place.
type Overrides struct {
	InitialBalls *int           `env:"INITIAL_BALLS"`
	LendYen      *int           `env:"LEND_YEN"`
	ShotInterval *time.Duration `env:"SHOOTER_INTERVAL"`
	ShotPower    *float64       `env:"SHOOTER_POWER"`
	BoardSeed    *uint64        `env:"BOARD_SEED"`
	Tick         *time.Duration `env:"SIM_TICK"`
	Duration     *time.Duration `env:"SIM_DURATION"`
	Realtime     *bool          `env:"SIM_REALTIME"`
	LogLevel     *string        `env:"LOG_LEVEL"`
	ObserverAddr *string        `env:"OBSERVER_ADDR"`
}

// OverridesFromEnv reads PACHINKO_* variables.
func OverridesFromEnv() (Overrides, error) {
	var o Overrides
	if err := env.ParseWithOptions(&o, env.Options{Prefix: EnvPrefix}); err != nil {
		return Overrides{}, fmt.Errorf("parse env: %w", err)
	}
	return o, nil
}

// Merge returns o with every field set in p taking precedence.
func (o Overrides) Merge(p Overrides) Overrides {
	override(&o.InitialBalls, p.InitialBalls)
	override(&o.LendYen, p.LendYen)
	override(&o.ShotInterval, p.ShotInterval)
	override(&o.ShotPower, p.ShotPower)
	override(&o.BoardSeed, p.BoardSeed)
	override(&o.Tick, p.Tick)
	override(&o.Duration, p.Duration)
	override(&o.Realtime, p.Realtime)
	override(&o.LogLevel, p.LogLevel)
	override(&o.ObserverAddr, p.ObserverAddr)
	return o
}

func (o Overrides) apply(s *Settings) {
	set(&s.InitialBalls, o.InitialBalls)
	set(&s.LendYen, o.LendYen)
	set(&s.ShotInterval, o.ShotInterval)
	set(&s.ShotPower, o.ShotPower)
	set(&s.BoardSeed, o.BoardSeed)
	set(&s.Tick, o.Tick)
	set(&s.Duration, o.Duration)
	set(&s.Realtime, o.Realtime)
	set(&s.LogLevel, o.LogLevel)
	set(&s.ObserverAddr, o.ObserverAddr)
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Defaults are used for anything neither file sets.
func Defaults() Settings {
	return Settings{
		InitialBalls:       1000,
		YenPerUnit:         1000,
		BallsPerUnit:       250,
		ExchangeYenPerBall: 4,
		ShotInterval:       100 * time.Millisecond,
		ShotPower:          0.8,
		BoardWidth:         600,
		BoardHeight:        720,
		Weights:            maps.Clone(defaultWeights),
		FlightMin:          1500 * time.Millisecond,
		FlightMax:          4 * time.Second,
		Tick:               16 * time.Millisecond,
		Duration:           10 * time.Minute,
		LogLevel:           "info",
	}
}

var defaultWeights = map[string]float64{
	"heso":         0.06,
	"denchu":       0.04,
	"attacker":     0.45,
	"left_pocket":  0.03,
	"right_pocket": 0.03,
	"out":          0.37,
	"lost":         0.02,
}

// Normalize fills a Settings from a merged RawConfig over Defaults.
func Normalize(cfg RawConfig) Settings {
	s := Defaults()
	s.Machine = cfg.Machine
	s.Version = cfg.Version

	if c := cfg.Session; c != nil {
		set(&s.InitialBalls, c.InitialBalls)
		set(&s.LendYen, c.LendYen)
	}
	if c := cfg.Lending; c != nil {
		set(&s.YenPerUnit, c.YenPerUnit)
		set(&s.BallsPerUnit, c.BallsPerUnit)
		set(&s.ExchangeYenPerBall, c.ExchangeYenPerBall)
	}
	if c := cfg.Shooter; c != nil {
		set(&s.ShotInterval, c.Interval)
		set(&s.ShotPower, c.Power)
	}
	if c := cfg.Board; c != nil {
		set(&s.BoardWidth, c.Width)
		set(&s.BoardHeight, c.Height)
		set(&s.BoardSeed, c.Seed)
		set(&s.FlightMin, c.FlightMin)
		set(&s.FlightMax, c.FlightMax)
		if len(c.Weights) > 0 {
			s.Weights = maps.Clone(c.Weights)
		}
	}
	if c := cfg.Sim; c != nil {
		set(&s.Tick, c.Tick)
		set(&s.Duration, c.Duration)
		set(&s.Realtime, c.Realtime)
	}
	if c := cfg.Log; c != nil {
		if c.Level != "" {
			s.LogLevel = c.Level
		}
		set(&s.LogDevelopment, c.Development)
	}
	if c := cfg.Observer; c != nil && c.Addr != "" {
		s.ObserverAddr = c.Addr
	}
	return s
}

// Resolve merges default → machine → overrides into validated settings.
func (l *Loader) Resolve(machine string, o Overrides) (RawConfig, Settings, error) {
	raw, err := l.LoadMerged(machine)
	if err != nil {
		return RawConfig{}, Settings{}, err
	}
	if err := ValidateRaw(raw); err != nil {
		return raw, Settings{}, err
	}
	s := Normalize(raw)
	o.apply(&s)
	if err := s.Validate(); err != nil {
		return raw, Settings{}, err
	}
	return raw, s, nil
}

func sortedKeys(m map[string]float64) []string {
	return slices.Sorted(maps.Keys(m))
}
