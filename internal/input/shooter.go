// Package input holds the shooter handle.
package input

import (
	"sync"
	"time"
)

const (
	DefaultInterval = 100 * time.Millisecond
	DefaultPower    = 0.8
)

// AutoShooter fires one ball per interval while the handle is held. Settings may
// be changed from another goroutine, e.g. a config reload.
type AutoShooter struct {
	mu       sync.Mutex
	holding  bool
	interval time.Duration
	power    float64
	last     time.Duration
	fired    bool
}

// NewAutoShooter returns a released shooter. Non-positive intervals use DefaultInterval.
func NewAutoShooter(interval time.Duration, power float64) *AutoShooter {
	s := &AutoShooter{}
	s.SetInterval(interval)
	s.SetPower(power)
	return s
}

// Hold presses or releases the handle. Releasing resets the interval so the next
// press fires at once.
func (s *AutoShooter) Hold(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holding = on
	if !on {
		s.fired = false
	}
}

func (s *AutoShooter) SetInterval(d time.Duration) {
	if d <= 0 {
		d = DefaultInterval
	}
	s.mu.Lock()
	s.interval = d
	s.mu.Unlock()
}

// SetPower clamps p into [0, 1].
func (s *AutoShooter) SetPower(p float64) {
	p = min(max(p, 0), 1)
	s.mu.Lock()
	s.power = p
	s.mu.Unlock()
}

func (s *AutoShooter) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

func (s *AutoShooter) Power() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.power
}

// ShouldShoot reports whether a ball fires at session time now.
func (s *AutoShooter) ShouldShoot(now time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.holding {
		return false
	}
	if s.fired && now-s.last < s.interval {
		return false
	}
	s.last = now
	s.fired = true
	return true
}
