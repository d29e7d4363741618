// Package random provides the uniform random sources used by the spawner and
// the grip slip check. Every consumer takes a Source so tests can inject a
// deterministic one.
package random

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// Source yields uniform values in [0, 1).
type Source interface {
	Float64() float64
}

// crypto random: default generation method
type cryptoSource struct{}

func (cryptoSource) Float64() float64 {
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		return rand.Float64()
	}
	u := binary.BigEndian.Uint64(buf[:]) >> 11 // 53 bits
	return float64(u) / (1 << 53)
}

// Default returns the crypto-backed source.
func Default() Source { return cryptoSource{} }

// Replicable source (replays, soak runs).
type seeded struct{ r *rand.Rand }

// NewSeeded returns a PCG source; equal seeds produce equal sequences.
func NewSeeded(seed uint64) Source {
	return &seeded{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seeded) Float64() float64 { return s.r.Float64() }

// Sequence replays a fixed list of values, cycling when exhausted.
type Sequence struct {
	values []float64
	next   int
}

// NewSequence returns a source that yields values in order.
// An empty sequence always yields 0.
func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: append([]float64(nil), values...)}
}

// Float64 returns the next value of the sequence.
func (s *Sequence) Float64() float64 {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// Drawn reports how many values have been consumed.
func (s *Sequence) Drawn() int { return s.next }

// Range returns a uniform value in [lo, hi).
func Range(src Source, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + src.Float64()*(hi-lo)
}

// Intn returns a uniform integer in [0, n). n <= 0 yields 0.
func Intn(src Source, n int) int {
	if n <= 0 {
		return 0
	}
	i := int(src.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}
