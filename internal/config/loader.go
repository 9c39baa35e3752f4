package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Paths locates the default and machine profile files.
type Paths struct {
	BaseDir string // e.g. ./configs
}

func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, "default.yaml")
}
func (p Paths) MachinePath(machine string) string {
	return filepath.Join(p.BaseDir, "machines", machine+".yaml")
}

// Loader reads YAML configs and merges default → machine.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]RawConfig // key: machine name, "" for default only
}

// NewLoader creates a config loader with the given base directory.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]RawConfig),
	}
}

// Paths returns the files the loader reads for machine, default first.
func (l *Loader) Paths(machine string) []string {
	out := []string{l.paths.DefaultPath()}
	if machine != "" {
		out = append(out, l.paths.MachinePath(machine))
	}
	return out
}

// LoadMerged loads and merges default → machine (machine optional).
// It returns the merged RawConfig without normalization.
func (l *Loader) LoadMerged(machine string) (RawConfig, error) {
	l.mu.RLock()
	if cfg, ok := l.cache[machine]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	defCfg, err := readYAML(l.paths.DefaultPath())
	if err != nil {
		return RawConfig{}, fmt.Errorf("read default: %w", err)
	}
	merged := defCfg
	if machine != "" {
		path := l.paths.MachinePath(machine)
		if _, err := os.Stat(path); err != nil {
			return RawConfig{}, fmt.Errorf("%w: %s", ErrUnknownMachine, machine)
		}
		machCfg, err := readYAML(path)
		if err != nil {
			return RawConfig{}, fmt.Errorf("read machine %s: %w", machine, err)
		}
		merged = mergeRaw(merged, machCfg)
		if merged.Machine == "" {
			merged.Machine = machine
		}
	}

	l.mu.Lock()
	l.cache[machine] = merged
	l.mu.Unlock()

	return merged, nil
}

// Invalidate clears the loader's cache. Call after the watcher detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawConfig)
}

// ErrUnknownMachine is returned when no profile file exists for a machine name.
var ErrUnknownMachine = errors.New("unknown machine")

// readYAML loads a YAML file into RawConfig. A missing file is a zero config.
func readYAML(path string) (RawConfig, error) {
	var cfg RawConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, nil
		}
		return RawConfig{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// mergeRaw performs a deep merge: non-nil fields of b override a.
// Weights merge key by key.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Machine != "" {
		out.Machine = b.Machine
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}

	if b.Session != nil {
		s := SessionConfig{}
		if out.Session != nil {
			s = *out.Session
		}
		override(&s.InitialBalls, b.Session.InitialBalls)
		override(&s.LendYen, b.Session.LendYen)
		out.Session = &s
	}

	if b.Lending != nil {
		ln := LendingConfig{}
		if out.Lending != nil {
			ln = *out.Lending
		}
		override(&ln.YenPerUnit, b.Lending.YenPerUnit)
		override(&ln.BallsPerUnit, b.Lending.BallsPerUnit)
		override(&ln.ExchangeYenPerBall, b.Lending.ExchangeYenPerBall)
		out.Lending = &ln
	}

	if b.Shooter != nil {
		sh := ShooterConfig{}
		if out.Shooter != nil {
			sh = *out.Shooter
		}
		override(&sh.Interval, b.Shooter.Interval)
		override(&sh.Power, b.Shooter.Power)
		out.Shooter = &sh
	}

	if b.Board != nil {
		bd := BoardConfig{}
		if out.Board != nil {
			bd = *out.Board
		}
		override(&bd.Width, b.Board.Width)
		override(&bd.Height, b.Board.Height)
		override(&bd.Seed, b.Board.Seed)
		override(&bd.FlightMin, b.Board.FlightMin)
		override(&bd.FlightMax, b.Board.FlightMax)
		if len(b.Board.Weights) > 0 {
			w := make(map[string]float64, len(bd.Weights)+len(b.Board.Weights))
			maps.Copy(w, bd.Weights)
			maps.Copy(w, b.Board.Weights)
			bd.Weights = w
		}
		out.Board = &bd
	}

	if b.Sim != nil {
		sm := SimConfig{}
		if out.Sim != nil {
			sm = *out.Sim
		}
		override(&sm.Tick, b.Sim.Tick)
		override(&sm.Duration, b.Sim.Duration)
		override(&sm.Realtime, b.Sim.Realtime)
		out.Sim = &sm
	}

	if b.Log != nil {
		lg := LogConfig{}
		if out.Log != nil {
			lg = *out.Log
		}
		if b.Log.Level != "" {
			lg.Level = b.Log.Level
		}
		override(&lg.Development, b.Log.Development)
		out.Log = &lg
	}

	if b.Observer != nil {
		ob := ObserverConfig{}
		if out.Observer != nil {
			ob = *out.Observer
		}
		if b.Observer.Addr != "" {
			ob.Addr = b.Observer.Addr
		}
		out.Observer = &ob
	}

	return out
}

func override[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}
