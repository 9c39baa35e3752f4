package lottery

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// RandomSource yields uniform values in [0, 1). Every roll the engine makes goes
// through one, so tests can force outcomes.
type RandomSource interface {
	Float64() float64
}

// cryptoRNG is the default source for live sessions.
type cryptoRNG struct{}

func (cryptoRNG) Float64() float64 {
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		return rand.Float64()
	}
	u := binary.BigEndian.Uint64(buf[:]) >> 11 // 53 bits of mantissa
	return float64(u) / (1 << 53)
}

func DefaultRNG() RandomSource { return cryptoRNG{} }

// seededRNG replays a session or calibration run from its seed.
type seededRNG struct{ r *rand.Rand }

func NewSeededRNG(seed uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededRNG) Float64() float64 { return s.r.Float64() }

// hit reports a Bernoulli trial under p. p <= 0 never hits and p >= 1 always
// hits without consuming a roll.
func hit(p float64, rng RandomSource) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return rng.Float64() < p
}

// pick returns a uniform index in [0, n).
func pick(n int, rng RandomSource) int {
	i := int(rng.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// scriptedRNG replays fixed values, then defers to another source.
type scriptedRNG struct {
	vals []float64
	i    int
	then RandomSource
}

// NewScriptedRNG returns a source that yields vals in order and then draws from then.
// A nil then continues with NewSeededRNG(1). It is used to force specific rolls.
func NewScriptedRNG(vals []float64, then RandomSource) RandomSource {
	if then == nil {
		then = NewSeededRNG(1)
	}
	return &scriptedRNG{vals: vals, then: then}
}

func (s *scriptedRNG) Float64() float64 {
	if s.i < len(s.vals) {
		v := s.vals[s.i]
		s.i++
		return v
	}
	return s.then.Float64()
}
