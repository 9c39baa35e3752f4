// types.go
package config

import "time"

// RawConfig is one YAML file as written. Pointer fields distinguish "unset" from
// zero so a machine profile only overrides what it names.
type RawConfig struct {
	Version  string          `yaml:"version"`
	Machine  string          `yaml:"machine,omitempty"`
	Session  *SessionConfig  `yaml:"session,omitempty"`
	Lending  *LendingConfig  `yaml:"lending,omitempty"`
	Shooter  *ShooterConfig  `yaml:"shooter,omitempty"`
	Board    *BoardConfig    `yaml:"board,omitempty"`
	Sim      *SimConfig      `yaml:"sim,omitempty"`
	Log      *LogConfig      `yaml:"log,omitempty"`
	Observer *ObserverConfig `yaml:"observer,omitempty"`
	Notes    string          `yaml:"notes,omitempty"`
}

type SessionConfig struct {
	InitialBalls *int `yaml:"initial_balls"`
	LendYen      *int `yaml:"lend_yen,omitempty"` // yen converted to balls at session start
}

type LendingConfig struct {
	YenPerUnit         *int     `yaml:"yen_per_unit"`
	BallsPerUnit       *int     `yaml:"balls_per_unit"`
	ExchangeYenPerBall *float64 `yaml:"exchange_yen_per_ball"`
}

type ShooterConfig struct {
	Interval *time.Duration `yaml:"interval"`
	Power    *float64       `yaml:"power"`
}

type BoardConfig struct {
	Width     *float64           `yaml:"width"`
	Height    *float64           `yaml:"height"`
	Seed      *uint64            `yaml:"seed,omitempty"`
	Weights   map[string]float64 `yaml:"weights,omitempty"` // outcome label -> relative weight
	FlightMin *time.Duration     `yaml:"flight_min"`
	FlightMax *time.Duration     `yaml:"flight_max"`
}

type SimConfig struct {
	Tick     *time.Duration `yaml:"tick"`
	Duration *time.Duration `yaml:"duration"`
	Realtime *bool          `yaml:"realtime,omitempty"`
}

type LogConfig struct {
	Level       string `yaml:"level,omitempty"`
	Development *bool  `yaml:"development,omitempty"`
}

type ObserverConfig struct {
	Addr string `yaml:"addr,omitempty"` // empty disables the observer
}

// Settings are the normalized parameters a session runs with.
type Settings struct {
	Machine string
	Version string // effective config version for tracing

	InitialBalls int
	LendYen      int

	YenPerUnit         int
	BallsPerUnit       int
	ExchangeYenPerBall float64

	ShotInterval time.Duration
	ShotPower    float64

	BoardWidth  float64
	BoardHeight float64
	BoardSeed   uint64
	Weights     map[string]float64
	FlightMin   time.Duration
	FlightMax   time.Duration

	Tick     time.Duration
	Duration time.Duration
	Realtime bool

	LogLevel       string
	LogDevelopment bool

	ObserverAddr string
}
